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

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// MockCaller is a scripted Caller implementation for testing the fetch
// engine without a network. Pages are served in order; the cursor of each
// served page is checked against the cursor the engine sends back.
type MockCaller struct {
	// Pages to serve, in order.
	Pages []*Page

	// Err, when set, is returned by every call.
	Err error

	// FailAfterPage makes the call following page N (1-based) fail with
	// an auth error, simulating credentials expiring mid-run.
	FailAfterPage int

	// Track calls for verification.
	CallCount int
	Requests  []PageRequest
}

// FetchPage implements the Caller interface.
func (m *MockCaller) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	m.CallCount++
	m.Requests = append(m.Requests, req)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.FailAfterPage > 0 && m.CallCount > m.FailAfterPage {
		return nil, fmt.Errorf("authentication failed (403): %w", ddqerrors.ErrAuth)
	}
	if m.CallCount > len(m.Pages) {
		return &Page{}, nil
	}
	return m.Pages[m.CallCount-1], nil
}

// RawRecords builds a record list from JSON literals, for test setup.
func RawRecords(docs ...string) []json.RawMessage {
	records := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		records[i] = json.RawMessage(d)
	}
	return records
}
