// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler turns pipeline errors into HTTP responses with standardized bodies.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError handles any error raised while serving a request.
func (h *ErrorHandler) HandleRequestError(w http.ResponseWriter, requestID string, err error) {
	stdErr := h.normalizeError(err)
	httpErr := ConvertToHTTPError(stdErr)

	h.logError(requestID, stdErr, httpErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": httpErr})
}

// Normalize exposes error normalization for callers that shape responses themselves.
func (h *ErrorHandler) Normalize(err error) *HTTPError {
	return ConvertToHTTPError(h.normalizeError(err))
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(requestID string, stdErr *StandardError, httpErr *HTTPError) {
	h.logger.Error("Request failed", map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"status":        httpErr.Status,
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
