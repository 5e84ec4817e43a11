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

// Package main implements the ddq command-line interface. This tool
// queries the Datadog observability APIs (log events, APM spans, and
// metrics) and outputs results in NDJSON format for efficient streaming
// and processing.
//
// The CLI supports:
//   - Searching log events and APM spans with a query string
//   - Querying metric timeseries and listing active metrics
//   - Flexible time expressions (relative, ISO8601, Unix timestamps)
//   - Customizable output destinations (stdout or file)
//   - Credentials via environment variables, .env files, or config file
//
// Usage:
//
//	ddq logs search <query> [flags]
//	ddq spans search <query> [flags]
//	ddq metrics query <query> [flags]
//	ddq metrics list [flags]
//
// Example:
//
//	export DD_API_KEY=... DD_APP_KEY=...
//	ddq logs search "service:api status:error" --from now-4h --limit 500
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication error
//   - 3: API error
//   - 4: Invalid query or time expression
//   - 5: Configuration error
//   - 6: I/O error
//   - 7: Serialization error
package main
