package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: 0},
		{name: "auth", err: ErrAuth, want: 2},
		{name: "api", err: ErrAPI, want: 3},
		{name: "invalid query", err: ErrInvalidQuery, want: 4},
		{name: "config", err: ErrConfig, want: 5},
		{name: "io", err: ErrIO, want: 6},
		{name: "serialization", err: ErrSerialization, want: 7},
		{name: "unclassified", err: errors.New("something else"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeWrapped(t *testing.T) {
	// Errors are propagated up the stack wrapped with context; the exit
	// code must survive arbitrary levels of wrapping.
	err := fmt.Errorf("searching logs: %w", fmt.Errorf("HTTP 403: %w", ErrAuth))
	if got := ExitCode(err); got != 2 {
		t.Errorf("ExitCode(wrapped auth) = %d, want 2", got)
	}

	err = fmt.Errorf("resolving --from: %w", ErrInvalidQuery)
	if got := ExitCode(err); got != 4 {
		t.Errorf("ExitCode(wrapped invalid query) = %d, want 4", got)
	}
}

func TestSentinelsDistinct(t *testing.T) {
	sentinels := []error{ErrAuth, ErrAPI, ErrInvalidQuery, ErrConfig, ErrIO, ErrSerialization}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v matches %v", a, b)
			}
		}
	}
}
