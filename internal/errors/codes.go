package errors

import (
	"fmt"
)

// ErrorCode identifies a class of failure surfaced by a service.
type ErrorCode string

const (
	// ErrCodeValidationFailed indicates a field-level validation failure.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeUnauthenticated indicates a missing or failed authentication.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodePermissionDenied indicates an authenticated session lacking the required role.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates a uniqueness conflict (e.g. duplicate email).
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeRateLimitExceeded indicates the caller exceeded its request budget.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeServiceUnavailable indicates a dependency is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeAssistantFailed indicates assistant reply generation failed.
	ErrCodeAssistantFailed ErrorCode = "ASSISTANT_FAILED"
	// ErrCodePaymentFailed indicates the hosted checkout could not be opened.
	ErrCodePaymentFailed ErrorCode = "PAYMENT_FAILED"
	// ErrCodeStoreFailed indicates a durable storage fault.
	ErrCodeStoreFailed ErrorCode = "STORE_FAILED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

// AppError is a structured error carrying a code alongside the message.
// Services return AppError across their public boundaries instead of
// panicking or leaking driver-level errors.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *AppError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// ValidationFailed creates a validation error for a named field.
func ValidationFailed(field, msg string) *AppError {
	return &AppError{Code: ErrCodeValidationFailed, Message: msg, Context: map[string]interface{}{"field": field}}
}

// Unauthenticated creates an authentication error.
func Unauthenticated(msg string) *AppError {
	return &AppError{Code: ErrCodeUnauthenticated, Message: msg}
}

// PermissionDenied creates an authorization error.
func PermissionDenied(msg string) *AppError {
	return &AppError{Code: ErrCodePermissionDenied, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: msg}
}

// AlreadyExists creates a uniqueness conflict error.
func AlreadyExists(msg string) *AppError {
	return &AppError{Code: ErrCodeAlreadyExists, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AppError {
	return &AppError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// AssistantFailed creates an assistant failure error.
func AssistantFailed(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeAssistantFailed, Message: msg, Cause: cause}
}

// PaymentFailed creates a payment initialization error.
func PaymentFailed(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodePaymentFailed, Message: msg, Cause: cause}
}

// StoreFailed wraps a durable storage fault.
func StoreFailed(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeStoreFailed, Message: msg, Cause: cause}
}

// ContextCanceled creates a cancellation error.
func ContextCanceled(cause error) *AppError {
	return &AppError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AppError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return defaultCode
}
