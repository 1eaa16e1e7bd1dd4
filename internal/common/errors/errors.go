// Package errors provides standardized error handling for the proposal pipeline.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeProposalNotFound  ErrorCode = "PROPOSAL_NOT_FOUND"
	ErrCodeInvalidOptions    ErrorCode = "INVALID_OPTIONS"
	ErrCodePayloadInvalid    ErrorCode = "PAYLOAD_INVALID"

	ErrCodeTemplateValidationFailed ErrorCode = "TEMPLATE_VALIDATION_FAILED"
	ErrCodeThemeAssetUnreadable     ErrorCode = "THEME_ASSET_UNREADABLE"

	ErrCodeGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrCodeQRGenerationFailed ErrorCode = "QR_GENERATION_FAILED"

	ErrCodeRenderFailed        ErrorCode = "RENDER_FAILED"
	ErrCodeRenderTimeout       ErrorCode = "RENDER_TIMEOUT"
	ErrCodeRendererUnavailable ErrorCode = "RENDERER_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeEmailSendFailed    ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeEventPublishFailed ErrorCode = "EVENT_PUBLISH_FAILED"
	ErrCodeAuditIndexFailed   ErrorCode = "AUDIT_INDEX_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. HTTP Error Integration
// ==========================

// HTTPError represents an error shaped for an HTTP response body.
type HTTPError struct {
	Status    int                    `json:"-"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 3. Error Constructors
// ==========================

func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Proposal payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewProposalNotFoundError(proposalID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProposalNotFound,
		Message:   "Proposal not found",
		Details:   fmt.Sprintf("no proposal with id %s", proposalID),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Generation payload is not valid JSON for the expected schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewTemplateValidationFailedError(theme, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateValidationFailed,
		Message:   "Template failed structural validation",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"theme": theme},
		Timestamp: time.Now(),
	}
}

func NewThemeAssetUnreadableError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeThemeAssetUnreadable,
		Message:   "Theme override asset could not be read",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now(),
	}
}

func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Document generation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewQRGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQRGenerationFailed,
		Message:   "QR code encoding failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "PDF conversion failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewRenderTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderTimeout,
		Message:   "PDF conversion timed out",
		Details:   fmt.Sprintf("renderer did not respond within %s", timeout),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewRendererUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRendererUnavailable,
		Message:   "External renderer is not reachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewQueryExecutionFailedError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   fmt.Sprintf("Query for %s failed", entity),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewQueryTimeoutError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   fmt.Sprintf("Query for %s timed out", entity),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Proposal email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

func NewEventPublishFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventPublishFailed,
		Message:   "Event publication failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// ==========================
// 4. Error Conversion to HTTP
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:  http.StatusUnprocessableEntity,
	ErrCodeInvalidOptions:    http.StatusBadRequest,
	ErrCodePayloadInvalid:    http.StatusBadRequest,
	ErrCodeProposalNotFound:  http.StatusNotFound,

	ErrCodeTemplateValidationFailed: http.StatusInternalServerError,
	ErrCodeThemeAssetUnreadable:     http.StatusInternalServerError,
	ErrCodeGenerationFailed:         http.StatusInternalServerError,
	ErrCodeQRGenerationFailed:       http.StatusInternalServerError,

	ErrCodeRenderFailed:        http.StatusBadGateway,
	ErrCodeRenderTimeout:       http.StatusGatewayTimeout,
	ErrCodeRendererUnavailable: http.StatusServiceUnavailable,

	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryExecutionFailed:     http.StatusInternalServerError,
	ErrCodeQueryTimeout:             http.StatusGatewayTimeout,

	ErrCodeCacheUnavailable:   http.StatusInternalServerError,
	ErrCodeEmailSendFailed:    http.StatusBadGateway,
	ErrCodeEventPublishFailed: http.StatusBadGateway,
	ErrCodeAuditIndexFailed:   http.StatusInternalServerError,
}

// ConvertToHTTPError converts a StandardError to an HTTPError for the API boundary.
func ConvertToHTTPError(stdErr *StandardError) *HTTPError {
	status, exists := HTTPStatusMapping[stdErr.Code]
	if !exists {
		status = http.StatusInternalServerError
	}

	return &HTTPError{
		Status:    status,
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Metadata:  stdErr.Metadata,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRenderFailed,
		ErrCodeRenderTimeout,
		ErrCodeRendererUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeQueryTimeout,
		ErrCodeEmailSendFailed,
		ErrCodeEventPublishFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TEMPLATE") || strings.Contains(codeStr, "THEME"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "RENDER"):
		return "RENDERER"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "EMAIL") || strings.Contains(codeStr, "EVENT"):
		return "DELIVERY"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "PAYLOAD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "QR") || strings.Contains(codeStr, "GENERATION"):
		return "GENERATION"
	default:
		return "OTHER"
	}
}
