// Package errors provides standardized error handling for console screen actions.
package errors

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Network / transport
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeDecodeFailed   ErrorCode = "RESPONSE_DECODE_FAILED"

	// Remote validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	// Authentication
	ErrCodeLoginRequired ErrorCode = "LOGIN_REQUIRED"
	ErrCodeTokenRejected ErrorCode = "TOKEN_REJECTED"

	// Local, pre-request
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrCodeDraftInvalid       ErrorCode = "DRAFT_INVALID"
	ErrCodeDraftCacheFailed   ErrorCode = "DRAFT_CACHE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fields    map[string]string      `json:"fields,omitempty"` // flattened field -> first message
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkFailureError creates a retryable transport error. Local state is
// left unchanged by callers; retrying is a user decision, never automatic.
func NewNetworkFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkFailure,
		Message:   "Something went wrong",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestTimeoutError creates a retryable timeout error.
func NewRequestTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestTimeout,
		Message:   "Request timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecodeFailedError creates a non-retryable response decode error.
func NewDecodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Unexpected response from server",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable error from the backend's
// structured validation-errors map. The primary message is the first flattened
// entry; the full set is kept in Fields for diagnostics and inline rendering.
func NewValidationFailedError(errorMap map[string]interface{}) *StandardError {
	fields, first := FlattenValidationErrors(errorMap)
	msg := first
	if msg == "" {
		msg = "Validation failed"
	}
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   msg,
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoginRequiredError creates a non-retryable error raised before any
// request is sent when no session token is present.
func NewLoginRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLoginRequired,
		Message:   "Login required",
		Details:   "no session token available",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenRejectedError creates a non-retryable error for a 401 response.
// There is deliberately no global interception of these; each call surfaces
// its own rejection at the action boundary.
func NewTokenRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTokenRejected,
		Message:   "Session rejected by server",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPreconditionFailedError creates a non-retryable local validation error,
// checked before constructing any request.
func NewPreconditionFailedError(message string, fields map[string]string) *StandardError {
	return &StandardError{
		Code:      ErrCodePreconditionFailed,
		Message:   message,
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftInvalidError creates a non-retryable composer validation error.
// First violation wins; Message carries that single violation.
func NewDraftInvalidError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftInvalid,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCacheFailedError creates a retryable draft-cache storage error.
// The cache is a display-continuity aid, so callers may also choose to
// proceed without it.
func NewDraftCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCacheFailed,
		Message:   "Failed to persist draft previews",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Validation Map Flattening
// ==========================

// FlattenValidationErrors flattens a nested backend validation-errors map into
// "parent.child: message" entries. Values may be strings, string lists, or
// nested maps. Returns the flattened field map and the first message in
// deterministic (sorted key) order.
func FlattenValidationErrors(errorMap map[string]interface{}) (map[string]string, string) {
	flat := map[string]string{}
	flattenInto(flat, "", errorMap)

	if len(flat) == 0 {
		return flat, ""
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	first := fmt.Sprintf("%s: %s", keys[0], flat[keys[0]])
	return flat, first
}

func flattenInto(flat map[string]string, prefix string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(flat, key, child)
		}
	case []interface{}:
		// The backend returns per-field message lists; the first one wins.
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				if _, exists := flat[prefix]; !exists {
					flat[prefix] = s
				}
				return
			}
		}
	case string:
		if prefix != "" && v != "" {
			if _, exists := flat[prefix]; !exists {
				flat[prefix] = v
			}
		}
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LOGIN") || strings.Contains(codeStr, "TOKEN"):
		return "AUTH"
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "DECODE"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PRECONDITION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DRAFT"):
		return "DRAFTS"
	default:
		return "OTHER"
	}
}
