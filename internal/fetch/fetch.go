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

// Package fetch drives cursor-based pagination for all four query
// domains. One loop serves every domain; the per-domain differences
// (page cap, cursor presence) are read from the descriptor.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ddqhq/ddq/internal/datadog"
	ddqerrors "github.com/ddqhq/ddq/internal/errors"
	"github.com/ddqhq/ddq/internal/output"
	"github.com/ddqhq/ddq/internal/query"
)

// Run executes one query to completion: it pulls pages from the caller,
// decodes each record, and hands it to the writer in fetch order until
// the limit is reached or the API reports no further pages.
//
// Records already written stay written: a failure mid-stream returns an
// error without retracting prior output, since the contract is a stream,
// not a transaction. The returned count is the number of records emitted,
// valid even when err is non-nil.
func Run(ctx context.Context, desc query.Descriptor, caller datadog.Caller, writer output.Writer) (uint64, error) {
	var (
		emitted uint64
		cursor  string
		limit   = desc.Pagination.Limit
	)

	for {
		req := datadog.PageRequest{
			Query:    desc.Query,
			From:     desc.Range.From,
			To:       desc.Range.To,
			PageSize: pageSize(desc.Pagination, emitted),
			Cursor:   cursor,
			Indexes:  desc.Indexes,
		}

		page, err := caller.FetchPage(ctx, req)
		if err != nil {
			return emitted, err
		}
		if len(page.Records) == 0 {
			return emitted, nil
		}

		for _, raw := range page.Records {
			var record any
			if err := json.Unmarshal(raw, &record); err != nil {
				return emitted, fmt.Errorf("decoding record %d: %v: %w",
					emitted+1, err, ddqerrors.ErrSerialization)
			}
			if err := writer.Write(record); err != nil {
				return emitted, err
			}
			emitted++

			// Stop mid-page once the limit is reached; no further page
			// is requested after the Nth record.
			if limit > 0 && emitted >= limit {
				return emitted, nil
			}
		}

		if page.Cursor == "" {
			return emitted, nil
		}
		cursor = page.Cursor
	}
}

// pageSize computes the page size for the next request: the domain's
// per-request size, shrunk so the final page cannot overshoot the limit.
// Single-page domains carry size 0 and no page parameter at all.
func pageSize(p query.Pagination, emitted uint64) int {
	if p.PageSize == 0 {
		return 0
	}
	if p.Limit == 0 {
		return p.PageSize
	}
	remaining := p.Limit - emitted
	if remaining < uint64(p.PageSize) {
		return int(remaining)
	}
	return p.PageSize
}
