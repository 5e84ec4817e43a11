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
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// logsSearchRequest is the POST body for /api/v2/logs/events/search.
type logsSearchRequest struct {
	Filter logsFilter  `json:"filter"`
	Page   *pageParams `json:"page,omitempty"`
	Sort   string      `json:"sort"`
}

type logsFilter struct {
	Query   string   `json:"query"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Indexes []string `json:"indexes,omitempty"`
}

// pageParams is the page block shared by the v2 search endpoints.
type pageParams struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

// searchEnvelope is the v2 search response shape shared by logs and
// spans: records under data, continuation cursor under meta.page.after.
type searchEnvelope struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Page struct {
			After string `json:"after"`
		} `json:"page"`
	} `json:"meta"`
}

// fetchLogsPage performs one logs search round trip. Results are sorted
// by timestamp ascending so that streamed output is monotonic.
func (c *Client) fetchLogsPage(ctx context.Context, req PageRequest) (*Page, error) {
	body := logsSearchRequest{
		Filter: logsFilter{
			Query:   req.Query,
			From:    searchTime(req.From),
			To:      searchTime(req.To),
			Indexes: req.Indexes,
		},
		Page: &pageParams{
			Limit:  req.PageSize,
			Cursor: req.Cursor,
		},
		Sort: "timestamp",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding logs search request: %v: %w", err, ddqerrors.ErrSerialization)
	}

	data, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v2/logs/events/search", payload)
	if err != nil {
		return nil, fmt.Errorf("searching logs: %w", err)
	}

	var envelope searchEnvelope
	if err := decodeEnvelope(data, &envelope); err != nil {
		return nil, fmt.Errorf("searching logs: %w", err)
	}

	return &Page{
		Records: envelope.Data,
		Cursor:  envelope.Meta.Page.After,
	}, nil
}
