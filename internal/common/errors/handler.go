// internal/common/errors/handler.go
package errors

import "time"

// Notification is the user-facing outcome of a screen action: the transient
// toast text plus per-field messages for inline rendering.
type Notification struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Logger is the minimal logging surface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ActionHandler recovers errors at the boundary of the triggering user action.
// Errors never bubble past the enclosing screen; they become a Notification.
type ActionHandler struct {
	logger Logger
}

func NewActionHandler(logger Logger) *ActionHandler {
	return &ActionHandler{logger: logger}
}

// HandleActionError normalizes, logs and converts an action error into the
// notification shown to the user. The full field set is logged even though
// only the primary message is surfaced as the toast.
func (h *ActionHandler) HandleActionError(action string, err error) Notification {
	stdErr := h.normalizeError(err)

	h.logger.Error("Screen action failed", map[string]interface{}{
		"action":    action,
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"fields":    stdErr.Fields,
		"retryable": stdErr.Retryable,
	})

	return Notification{
		Success: false,
		Message: stdErr.Message,
		Fields:  stdErr.Fields,
	}
}

// normalizeError ensures we always have a StandardError
func (h *ActionHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Something went wrong",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
