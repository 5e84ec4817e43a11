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

// Package query defines the four query domains and the immutable
// descriptor that carries one invocation's worth of "what to ask for"
// from the CLI layer into the fetch engine.
package query

import (
	"strings"

	"github.com/ddqhq/ddq/internal/timeexpr"
)

// Domain selects which Datadog query surface an invocation targets.
// It is a closed set; the per-domain differences (page cap, accepted time
// grammars, cursor shape) live in a configuration table consulted by the
// shared resolver and pagination logic rather than in per-domain types.
type Domain int

const (
	// Logs is the v2 log events search.
	Logs Domain = iota
	// Spans is the v2 APM spans search.
	Spans
	// MetricsQuery is the v1 timeseries query.
	MetricsQuery
	// MetricsList is the v1 active-metrics listing.
	MetricsList
)

// domainConfig holds the per-domain quirks consumed by shared logic.
type domainConfig struct {
	name    string
	pageCap int // most records one API round trip can return; 0 = single-page API
	grammar timeexpr.Grammar
}

var domainConfigs = [...]domainConfig{
	Logs: {
		name:    "logs",
		pageCap: 1000,
		grammar: timeexpr.Grammar{AllowISO8601: true, Numeric: timeexpr.Milliseconds},
	},
	Spans: {
		name:    "spans",
		pageCap: 1000,
		grammar: timeexpr.Grammar{AllowISO8601: true, Numeric: timeexpr.Milliseconds},
	},
	MetricsQuery: {
		name:    "metrics-query",
		pageCap: 0,
		grammar: timeexpr.Grammar{AllowISO8601: false, Numeric: timeexpr.SecondsOrMilliseconds},
	},
	MetricsList: {
		name:    "metrics-list",
		pageCap: 0,
		grammar: timeexpr.Grammar{AllowISO8601: false, Numeric: timeexpr.SecondsOrMilliseconds},
	},
}

func (d Domain) String() string { return domainConfigs[d].name }

// Grammar returns the time grammar this domain accepts.
func (d Domain) Grammar() timeexpr.Grammar { return domainConfigs[d].grammar }

// PageCap returns the most records the backing API returns per round trip,
// or 0 for single-page APIs that have no page parameter at all.
func (d Domain) PageCap() int { return domainConfigs[d].pageCap }

// Paginates reports whether the domain's API issues continuation cursors.
func (d Domain) Paginates() bool { return domainConfigs[d].pageCap > 0 }

// Pagination bounds how many records one invocation emits. Limit 0 means
// unlimited. PageSize is the per-request record count, already capped to
// the domain's maximum.
type Pagination struct {
	Limit    uint64
	PageSize int
}

// Descriptor is everything the fetch engine needs to run one query.
// It is built once per invocation and read-only afterwards.
type Descriptor struct {
	Domain     Domain
	Query      string
	Range      timeexpr.Range
	Pagination Pagination
	Indexes    []string
}

// NewDescriptor builds a descriptor from an already-resolved time range.
// The raw query string passes through uninterpreted; syntax errors surface
// only when the API rejects them. pageSize overrides the request page size
// (from configuration) and is clamped to the domain cap; 0 keeps the cap.
func NewDescriptor(d Domain, rawQuery string, rng timeexpr.Range, limit uint64, pageSize int, indexes []string) Descriptor {
	cap := d.PageCap()
	size := cap
	if pageSize > 0 && pageSize < cap {
		size = pageSize
	}
	return Descriptor{
		Domain:     d,
		Query:      rawQuery,
		Range:      rng,
		Pagination: Pagination{Limit: limit, PageSize: size},
		Indexes:    indexes,
	}
}

// ParseIndexes splits the --indexes flag into a log-index allow-list.
// An empty flag means "search all indexes", which the logs API spells "*".
func ParseIndexes(flag string) []string {
	if strings.TrimSpace(flag) == "" {
		return []string{"*"}
	}
	parts := strings.Split(flag, ",")
	indexes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			indexes = append(indexes, p)
		}
	}
	if len(indexes) == 0 {
		return []string{"*"}
	}
	return indexes
}
