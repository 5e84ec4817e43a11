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

// Package verbose provides opt-in diagnostic output on stderr. Stdout is
// reserved for NDJSON records, so everything here goes to stderr and is
// silent unless the --verbose flag enabled it.
package verbose

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/ddqhq/ddq/internal/query"
	"github.com/ddqhq/ddq/internal/timeexpr"
)

// Logger writes debug lines to stderr when enabled and does nothing
// otherwise. The zero value is a disabled logger.
type Logger struct {
	enabled bool
	out     io.Writer
}

// New returns a logger writing to stderr.
func New(enabled bool) *Logger {
	return &Logger{enabled: enabled, out: os.Stderr}
}

// NewWithWriter returns a logger writing to w, for tests.
func NewWithWriter(enabled bool, w io.Writer) *Logger {
	return &Logger{enabled: enabled, out: w}
}

// Logf writes one formatted debug line.
func (l *Logger) Logf(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
}

// Request logs what is about to be asked of the API.
func (l *Logger) Request(d query.Domain, rawQuery string, rng timeexpr.Range) {
	l.Logf("Resource type: %s", d)
	if rawQuery != "" {
		l.Logf("Query: %s", rawQuery)
	}
	l.Logf("Time range: %s to %s",
		rng.From.Format("2006-01-02T15:04:05.000Z"),
		rng.To.Format("2006-01-02T15:04:05.000Z"))
}

// Config logs the effective configuration without exposing credentials.
func (l *Logger) Config(site string, hasAPIKey, hasAppKey bool) {
	l.Logf("Datadog site: %s", site)
	l.Logf("API key: %s", setOrNot(hasAPIKey))
	l.Logf("App key: %s", setOrNot(hasAppKey))
}

func setOrNot(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

// ConsoleURL logs a link to the equivalent view in the Datadog web UI,
// rooted at appBase (https://app.<site>). Only logs and spans have a
// directly addressable explorer; metrics domains log nothing.
func (l *Logger) ConsoleURL(d query.Domain, rawQuery string, rng timeexpr.Range, appBase string) {
	if l == nil || !l.enabled {
		return
	}

	var path string
	switch d {
	case query.Logs:
		path = "/logs"
	case query.Spans:
		path = "/apm/traces"
	default:
		return
	}

	params := url.Values{}
	params.Set("query", rawQuery)
	params.Set("from_ts", fmt.Sprintf("%d", rng.From.UnixMilli()))
	params.Set("to_ts", fmt.Sprintf("%d", rng.To.UnixMilli()))
	if d == query.Logs {
		params.Set("live", "false")
	}

	l.Logf("Datadog UI URL: %s%s?%s", appBase, path, params.Encode())
}
