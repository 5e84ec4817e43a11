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

// Package timeexpr resolves the time expressions accepted on the command
// line into absolute UTC instants.
//
// Three grammars are tried in order:
//
//  1. Relative: "now" or "now-15m", "now-1h", "now+30s". Units are
//     s, m, h, d, w, mo (30 days), y (365 days).
//  2. ISO 8601: "2024-01-15T10:00:00Z", with or without an explicit
//     offset. The Datadog metrics API does not accept ISO 8601 input,
//     so grammars for the metrics domains disable this form.
//  3. Unix timestamp: an unsigned integer. Logs and spans interpret it
//     as milliseconds; the metrics domains interpret values shorter than
//     13 digits as seconds and longer values as milliseconds.
//
// Anything else fails validation before a network request is made.
package timeexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// NumericUnit selects how a bare integer timestamp is interpreted.
type NumericUnit int

const (
	// Milliseconds treats every numeric timestamp as epoch milliseconds.
	// This is the documented behavior of the logs and spans search APIs.
	Milliseconds NumericUnit = iota

	// SecondsOrMilliseconds treats values with fewer than 13 digits as
	// epoch seconds and longer values as epoch milliseconds. The metrics
	// v1 API takes seconds, but users routinely paste millisecond values
	// copied from the logs UI, so both are accepted.
	SecondsOrMilliseconds
)

// millisDigits is the digit count at which a numeric timestamp is read as
// milliseconds under SecondsOrMilliseconds. 1705315200 (10 digits) is
// seconds; 1705315200000 (13 digits) is milliseconds.
const millisDigits = 13

// Numeric timestamps beyond the year 2100 are rejected as nonsense input
// rather than forwarded to the API.
const (
	maxEpochSeconds = 4102444800
	maxEpochMillis  = 4102444800000
)

// Grammar describes which time forms a query domain accepts.
type Grammar struct {
	AllowISO8601 bool
	Numeric      NumericUnit
}

// Range is a resolved absolute time window.
type Range struct {
	From time.Time
	To   time.Time
}

// unitSeconds maps relative-expression units to their fixed second
// multipliers. Months and years are the conventional 30/365-day
// approximations the Datadog query UI uses.
var unitSeconds = map[string]int64{
	"s":  1,
	"m":  60,
	"h":  3600,
	"d":  86400,
	"w":  604800,
	"mo": 2592000,
	"y":  31536000,
}

// Resolve parses a single time expression into an absolute UTC instant
// with millisecond resolution. The reference instant now is supplied by
// the caller so that resolution is deterministic and testable.
func Resolve(input string, g Grammar, now time.Time) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("empty time expression: %w", ddqerrors.ErrInvalidQuery)
	}

	if t, ok, err := resolveRelative(input, now); ok || err != nil {
		return t, err
	}

	if t, ok := resolveISO8601(input); ok {
		if !g.AllowISO8601 {
			return time.Time{}, fmt.Errorf(
				"ISO 8601 timestamps are not supported for metrics queries; use a relative time or a Unix timestamp: %q: %w",
				input, ddqerrors.ErrInvalidQuery)
		}
		return t, nil
	}

	if t, ok, err := resolveNumeric(input, g.Numeric); ok || err != nil {
		return t, err
	}

	return time.Time{}, fmt.Errorf("unrecognized time expression %q: %w", input, ddqerrors.ErrInvalidQuery)
}

// ResolveRange resolves both endpoints of a time window and validates that
// from does not come after to. An inverted range is a validation failure,
// never silently swapped.
func ResolveRange(from, to string, g Grammar, now time.Time) (Range, error) {
	f, err := Resolve(from, g, now)
	if err != nil {
		return Range{}, fmt.Errorf("resolving --from: %w", err)
	}
	t, err := Resolve(to, g, now)
	if err != nil {
		return Range{}, fmt.Errorf("resolving --to: %w", err)
	}
	if f.After(t) {
		return Range{}, fmt.Errorf("time range is inverted: from %s is after to %s: %w",
			f.Format(time.RFC3339), t.Format(time.RFC3339), ddqerrors.ErrInvalidQuery)
	}
	return Range{From: f, To: t}, nil
}

// resolveRelative handles "now" and "now±<N><unit>". The second return
// value reports whether the input was a relative expression at all; a
// relative expression with a bad offset is an error, not a fallthrough
// to the other grammars.
func resolveRelative(input string, now time.Time) (time.Time, bool, error) {
	if input == "now" {
		return normalize(now), true, nil
	}

	rest, found := strings.CutPrefix(input, "now")
	if !found {
		return time.Time{}, false, nil
	}

	if rest == "" || (rest[0] != '-' && rest[0] != '+') {
		return time.Time{}, false, nil
	}
	sign := int64(-1)
	if rest[0] == '+' {
		sign = 1
	}
	rest = rest[1:]

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return time.Time{}, true, fmt.Errorf("relative time %q has no offset amount: %w",
			input, ddqerrors.ErrInvalidQuery)
	}

	n, err := strconv.ParseInt(rest[:digits], 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("relative time %q: %v: %w", input, err, ddqerrors.ErrInvalidQuery)
	}

	mult, ok := unitSeconds[rest[digits:]]
	if !ok {
		return time.Time{}, true, fmt.Errorf("relative time %q has unknown unit %q (want s, m, h, d, w, mo, y): %w",
			input, rest[digits:], ddqerrors.ErrInvalidQuery)
	}

	return normalize(now.Add(time.Duration(sign*n*mult) * time.Second)), true, nil
}

// resolveISO8601 accepts RFC 3339 timestamps with an explicit offset and
// the same layout without one, which is read as UTC.
func resolveISO8601(input string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return normalize(t), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", input, time.UTC); err == nil {
		return normalize(t), true
	}
	return time.Time{}, false
}

// resolveNumeric handles bare unsigned integers. Out-of-range values are
// errors rather than fallthroughs since no other grammar matches digits.
func resolveNumeric(input string, unit NumericUnit) (time.Time, bool, error) {
	for _, c := range input {
		if c < '0' || c > '9' {
			return time.Time{}, false, nil
		}
	}

	v, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("numeric timestamp %q out of range: %w",
			input, ddqerrors.ErrInvalidQuery)
	}

	millis := unit == Milliseconds || (unit == SecondsOrMilliseconds && len(input) >= millisDigits)
	if millis {
		if v > maxEpochMillis {
			return time.Time{}, true, fmt.Errorf("timestamp %d is beyond year 2100: %w",
				v, ddqerrors.ErrInvalidQuery)
		}
		return normalize(time.UnixMilli(v)), true, nil
	}

	if v > maxEpochSeconds {
		return time.Time{}, true, fmt.Errorf("timestamp %d is beyond year 2100: %w",
			v, ddqerrors.ErrInvalidQuery)
	}
	return normalize(time.Unix(v, 0)), true, nil
}

// normalize applies the package invariants: UTC, millisecond resolution.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
