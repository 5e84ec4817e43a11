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
	"net/url"
	"strconv"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// MetricPoint is one flattened timeseries sample. The v1 query API
// returns whole series; each series/point pair becomes one NDJSON record
// so downstream tools see a uniform stream.
type MetricPoint struct {
	Metric      string   `json:"metric"`
	DisplayName string   `json:"display_name,omitempty"`
	QueryIndex  *int64   `json:"query_index,omitempty"`
	Aggr        string   `json:"aggr,omitempty"`
	Scope       string   `json:"scope"`
	TagSet      []string `json:"tag_set"`
	// Timestamp is in Unix seconds; the API reports milliseconds.
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MetricName is one record of the active-metrics listing.
type MetricName struct {
	Metric string `json:"metric"`
}

// metricsQueryEnvelope is the GET /api/v1/query response.
type metricsQueryEnvelope struct {
	Status string         `json:"status"`
	Series []metricSeries `json:"series"`
}

type metricSeries struct {
	Metric      string       `json:"metric"`
	DisplayName string       `json:"display_name"`
	QueryIndex  *int64       `json:"query_index"`
	Aggr        string       `json:"aggr"`
	Scope       string       `json:"scope"`
	TagSet      []string     `json:"tag_set"`
	Pointlist   [][]*float64 `json:"pointlist"`
}

// metricsListEnvelope is the GET /api/v1/metrics response.
type metricsListEnvelope struct {
	Metrics []string `json:"metrics"`
	From    string   `json:"from"`
}

// fetchMetricsQueryPage runs one timeseries query. The endpoint takes
// Unix seconds, returns the full result in one response, and issues no
// cursor, so the returned page is always final.
func (c *Client) fetchMetricsQueryPage(ctx context.Context, req PageRequest) (*Page, error) {
	params := url.Values{}
	params.Set("from", strconv.FormatInt(req.From.Unix(), 10))
	params.Set("to", strconv.FormatInt(req.To.Unix(), 10))
	params.Set("query", req.Query)

	data, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}

	var envelope metricsQueryEnvelope
	if err := decodeEnvelope(data, &envelope); err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	if envelope.Status == "error" {
		return nil, fmt.Errorf("querying metrics: server reported an error for %q: %w",
			req.Query, ddqerrors.ErrAPI)
	}

	records, err := flattenSeries(envelope.Series)
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	return &Page{Records: records}, nil
}

// flattenSeries expands each series into one record per sample, in series
// order then point order.
func flattenSeries(series []metricSeries) ([]json.RawMessage, error) {
	var records []json.RawMessage
	for _, s := range series {
		tags := s.TagSet
		if tags == nil {
			tags = []string{}
		}
		for _, p := range s.Pointlist {
			// A point is [timestamp_ms, value]; either may be null.
			if len(p) < 2 || p[0] == nil || p[1] == nil {
				continue
			}
			point := MetricPoint{
				Metric:      s.Metric,
				DisplayName: s.DisplayName,
				QueryIndex:  s.QueryIndex,
				Aggr:        s.Aggr,
				Scope:       s.Scope,
				TagSet:      tags,
				Timestamp:   int64(*p[0]) / 1000,
				Value:       *p[1],
			}
			raw, err := json.Marshal(point)
			if err != nil {
				return nil, fmt.Errorf("encoding metric point: %v: %w", err, ddqerrors.ErrSerialization)
			}
			records = append(records, raw)
		}
	}
	return records, nil
}

// fetchMetricsListPage lists metrics actively reporting since req.From.
// Like the query endpoint, the listing has no cursor.
func (c *Client) fetchMetricsListPage(ctx context.Context, req PageRequest) (*Page, error) {
	params := url.Values{}
	params.Set("from", strconv.FormatInt(req.From.Unix(), 10))

	data, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/metrics?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}

	var envelope metricsListEnvelope
	if err := decodeEnvelope(data, &envelope); err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}

	records := make([]json.RawMessage, 0, len(envelope.Metrics))
	for _, name := range envelope.Metrics {
		raw, err := json.Marshal(MetricName{Metric: name})
		if err != nil {
			return nil, fmt.Errorf("encoding metric name: %v: %w", err, ddqerrors.ErrSerialization)
		}
		records = append(records, raw)
	}
	return &Page{Records: records}, nil
}
