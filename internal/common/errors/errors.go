// internal/common/errors/errors.go

// Package errors provides standardized error handling for the recommendation
// service and its BPMN workers.
package errors

import (
	stderrors "errors"
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
	// Remote completion endpoint
	ErrCodeRateLimited         ErrorCode = "RATE_LIMITED"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRemoteFallback      ErrorCode = "REMOTE_FALLBACK"
	ErrCodeRemoteTimeout       ErrorCode = "REMOTE_TIMEOUT"

	// Catalog
	ErrCodeCatalogUnavailable       ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogValidationFailed  ErrorCode = "CATALOG_VALIDATION_FAILED"
	ErrCodeCatalogRequired          ErrorCode = "CATALOG_REQUIRED"
	ErrCodePlanNotFound             ErrorCode = "PLAN_NOT_FOUND"
	ErrCodeDuplicatePlan            ErrorCode = "DUPLICATE_PLAN"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"

	// Request boundary
	ErrCodeInvalidChatRequest ErrorCode = "INVALID_CHAT_REQUEST"
	ErrCodeThrottled          ErrorCode = "THROTTLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError(details string) *StandardError {
	return newError(ErrCodeRateLimited, "Completion endpoint rate limited the request", details, false)
}

func NewUpstreamUnavailableError(status int) *StandardError {
	return newError(ErrCodeUpstreamUnavailable, "Completion endpoint unavailable",
		fmt.Sprintf("upstream status %d", status), false).WithMetadata("status", status)
}

// NewRemoteFallbackError records a remote failure that was recovered locally.
func NewRemoteFallbackError(reason string, err error) *StandardError {
	details := reason
	if err != nil {
		details = fmt.Sprintf("%s: %v", reason, err)
	}
	return newError(ErrCodeRemoteFallback, "Remote completion failed, served local recommendation", details, false).
		WithMetadata("reason", reason)
}

func NewCatalogUnavailableError(err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Plan catalog snapshot unavailable", err.Error(), true)
}

func NewCatalogValidationFailedError(details string) *StandardError {
	return newError(ErrCodeCatalogValidationFailed, "Plan catalog failed validation", details, false)
}

func NewCatalogRequiredError() *StandardError {
	return newError(ErrCodeCatalogRequired, "A catalog snapshot is required", "", false)
}

func NewPlanNotFoundError(planID string) *StandardError {
	return newError(ErrCodePlanNotFound, "Plan not found", "plan_id="+planID, false)
}

func NewDuplicatePlanError(planID string) *StandardError {
	return newError(ErrCodeDuplicatePlan, "Plan already exists", "plan_id="+planID, false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Failed to connect to database", err.Error(), true)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Query execution failed",
		fmt.Sprintf("%s: %v", operation, err), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search query failed",
		fmt.Sprintf("index=%s: %v", index, err), true)
}

func NewInvalidChatRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidChatRequest, "Invalid chat request", details, false)
}

func NewThrottledError(clientKey string) *StandardError {
	return newError(ErrCodeThrottled, "Too many requests, slow down", "client="+clientKey, true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed:
		return 3

	case ErrCodeRemoteTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code to the status returned by the chat API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidChatRequest, ErrCodeCatalogValidationFailed:
		return http.StatusBadRequest
	case ErrCodePlanNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicatePlan:
		return http.StatusConflict
	case ErrCodeRateLimited, ErrCodeThrottled:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrCodeCatalogUnavailable, ErrCodeDatabaseConnectionFailed, ErrCodeSearchQueryFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RATE") || strings.Contains(codeStr, "THROTTLED"):
		return "RATE_LIMIT"
	case strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "REMOTE"):
		return "AI"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "PLAN"):
		return "CATALOG"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
