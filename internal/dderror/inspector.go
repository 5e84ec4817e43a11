package dderror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// FromStatus maps a non-2xx HTTP status from the Datadog API to a sentinel
// error, preserving the server's message for the diagnostic line.
//
// 401 and 403 are both credential problems, but 403 usually means the keys
// are valid and lack permission for the endpoint, so the messages differ.
// 400 means the API rejected the query itself.
func FromStatus(status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed (401): invalid API or application key: %s: %w",
			message, ddqerrors.ErrAuth)
	case http.StatusForbidden:
		return fmt.Errorf("access denied (403): your keys may not have permission for this endpoint: %s: %w",
			message, ddqerrors.ErrAuth)
	case http.StatusBadRequest:
		return fmt.Errorf("query rejected (400): %s: %w", message, ddqerrors.ErrInvalidQuery)
	default:
		return fmt.Errorf("unexpected status %d: %s: %w", status, message, ddqerrors.ErrAPI)
	}
}

// Inspector provides methods for analyzing errors from the Datadog API.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsInvalidQueryError returns true if the error represents a rejected query.
	IsInvalidQueryError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity failure.
	IsNetworkError(err error) bool
}

// APIErrorInspector implements the Inspector interface for Datadog API errors.
// It checks wrapped sentinels first and falls back to message inspection for
// errors that originate outside this codebase (net/http, the OS).
type APIErrorInspector struct{}

// NewInspector creates a new APIErrorInspector.
func NewInspector() Inspector {
	return &APIErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *APIErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ddqerrors.ErrAuth) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden")
}

// IsInvalidQueryError checks if the error is a rejected-query error.
func (i *APIErrorInspector) IsInvalidQueryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ddqerrors.ErrInvalidQuery) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "400") ||
		strings.Contains(errStr, "bad request")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *APIErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}
