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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping.
// Every failure the tool reports wraps exactly one of these.
var (
	// ErrAuth indicates Datadog rejected the API or application key (HTTP 401/403).
	// Maps to exit code 2.
	ErrAuth = errors.New("authentication failed")

	// ErrAPI indicates the Datadog API returned an unexpected response:
	// a non-2xx status that is not an auth or query failure, or a success
	// response whose envelope could not be decoded.
	// Maps to exit code 3.
	ErrAPI = errors.New("datadog api error")

	// ErrInvalidQuery indicates the query could not be validated before or
	// during the request: a bad time expression, an inverted time range, or
	// a query string the API rejected with HTTP 400.
	// Maps to exit code 4.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrConfig indicates missing or malformed credentials or site configuration.
	// Maps to exit code 5.
	ErrConfig = errors.New("configuration error")

	// ErrIO indicates a network, transport, or output-stream failure,
	// including a downstream consumer closing the pipe.
	// Maps to exit code 6.
	ErrIO = errors.New("io error")

	// ErrSerialization indicates a fetched record could not be decoded as
	// JSON, or an output record could not be encoded.
	// Maps to exit code 7.
	ErrSerialization = errors.New("serialization error")
)

// ExitCode returns the process exit code for the given error. A nil error
// maps to 0. Errors that do not wrap one of the sentinels above (for
// example, flag-parsing errors surfaced by the CLI layer) map to 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAuth):
		return 2
	case errors.Is(err, ErrAPI):
		return 3
	case errors.Is(err, ErrInvalidQuery):
		return 4
	case errors.Is(err, ErrConfig):
		return 5
	case errors.Is(err, ErrIO):
		return 6
	case errors.Is(err, ErrSerialization):
		return 7
	default:
		return 1
	}
}
