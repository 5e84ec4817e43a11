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

// spansSearchRequest is the POST body for /api/v2/spans/events/search.
// Unlike logs, the spans endpoint wraps everything in a JSON:API-style
// data/attributes envelope.
type spansSearchRequest struct {
	Data spansRequestData `json:"data"`
}

type spansRequestData struct {
	Attributes spansRequestAttributes `json:"attributes"`
	Type       string                 `json:"type"`
}

type spansRequestAttributes struct {
	Filter spansFilter `json:"filter"`
	Page   *pageParams `json:"page,omitempty"`
	Sort   string      `json:"sort"`
}

type spansFilter struct {
	Query string `json:"query"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// fetchSpansPage performs one spans search round trip. The response
// envelope matches the logs endpoint, so decoding is shared.
func (c *Client) fetchSpansPage(ctx context.Context, req PageRequest) (*Page, error) {
	body := spansSearchRequest{
		Data: spansRequestData{
			Attributes: spansRequestAttributes{
				Filter: spansFilter{
					Query: req.Query,
					From:  searchTime(req.From),
					To:    searchTime(req.To),
				},
				Page: &pageParams{
					Limit:  req.PageSize,
					Cursor: req.Cursor,
				},
				Sort: "timestamp",
			},
			Type: "search_request",
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding spans search request: %v: %w", err, ddqerrors.ErrSerialization)
	}

	data, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v2/spans/events/search", payload)
	if err != nil {
		return nil, fmt.Errorf("searching spans: %w", err)
	}

	var envelope searchEnvelope
	if err := decodeEnvelope(data, &envelope); err != nil {
		return nil, fmt.Errorf("searching spans: %w", err)
	}

	return &Page{
		Records: envelope.Data,
		Cursor:  envelope.Meta.Page.After,
	}, nil
}
