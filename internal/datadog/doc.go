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

// Package datadog issues single-page requests against the Datadog query
// API families: logs search (v2), spans search (v2), metrics timeseries
// query (v1), and active-metrics listing (v1).
//
// Each domain exposes one Caller that performs exactly one request/response
// round trip per call. Pagination policy lives entirely in the fetch
// engine; this package only translates a PageRequest into the wire shape
// each endpoint wants and extracts the records and continuation cursor
// from the response.
package datadog
