// Copyright 2025 DDQ Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datadog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ddqhq/ddq/internal/config"
	"github.com/ddqhq/ddq/internal/dderror"
	ddqerrors "github.com/ddqhq/ddq/internal/errors"
	"github.com/ddqhq/ddq/internal/query"
)

// PageRequest describes one page round trip, independent of domain.
// Fields a domain does not use are ignored by its caller.
type PageRequest struct {
	Query    string
	From     time.Time
	To       time.Time
	PageSize int
	// Cursor is the opaque continuation token from the previous page.
	// Empty requests the first page.
	Cursor  string
	Indexes []string
}

// Page is one decoded response page. Records are raw JSON documents; the
// caller does not interpret their contents. An empty Cursor means the API
// reported no further pages.
type Page struct {
	Records []json.RawMessage
	Cursor  string
}

// Caller issues exactly one API request and returns one parsed page.
// This is the boundary the fetch engine is tested against.
type Caller interface {
	FetchPage(ctx context.Context, req PageRequest) (*Page, error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, req PageRequest) (*Page, error)

// FetchPage implements Caller.
func (f CallerFunc) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	return f(ctx, req)
}

// Client talks to one Datadog site with one set of credentials. It is
// safe to build once per invocation and share across domains.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Datadog API client from the loaded configuration.
// The transport injects the credential headers on every request and caps
// response bodies to keep a misbehaving endpoint from exhausting memory.
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &authTransport{
				apiKey:    cfg.APIKey,
				appKey:    cfg.AppKey,
				userAgent: cfg.UserAgent,
				base:      transport,
			},
			// Bounds one page round trip, not the whole run; an
			// unlimited fetch may page for much longer than this.
			Timeout: 60 * time.Second,
		},
		baseURL: cfg.BaseURL(),
	}
}

// Caller returns the single-page fetcher for the given domain.
func (c *Client) Caller(d query.Domain) Caller {
	switch d {
	case query.Logs:
		return CallerFunc(c.fetchLogsPage)
	case query.Spans:
		return CallerFunc(c.fetchSpansPage)
	case query.MetricsQuery:
		return CallerFunc(c.fetchMetricsQueryPage)
	case query.MetricsList:
		return CallerFunc(c.fetchMetricsListPage)
	default:
		panic(fmt.Sprintf("unknown domain %d", d))
	}
}

// apiErrorBody is the error envelope Datadog returns on non-2xx responses.
type apiErrorBody struct {
	Errors []string `json:"errors"`
}

// do executes one request and hands back the raw body of a 2xx response.
// Non-2xx statuses are classified into sentinel errors here; transport
// failures are IO errors.
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %v: %w", err, ddqerrors.ErrAPI)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %v: %w", url, err, ddqerrors.ErrIO)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %v: %w", url, err, ddqerrors.ErrIO)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, dderror.FromStatus(resp.StatusCode, errorMessage(data))
	}
	return data, nil
}

// errorMessage extracts the server's explanation from an error body,
// falling back to the raw payload when it is not the standard envelope.
func errorMessage(data []byte) string {
	var body apiErrorBody
	if err := json.Unmarshal(data, &body); err == nil && len(body.Errors) > 0 {
		return strings.Join(body.Errors, "; ")
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// decodeEnvelope unmarshals a 2xx body into the given envelope type.
// A success response that does not parse is an API error, not a record
// serialization error: no record was ever produced.
func decodeEnvelope(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed response envelope: %v: %w", err, ddqerrors.ErrAPI)
	}
	return nil
}

// searchTime formats an instant the way the v2 search endpoints expect.
func searchTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
