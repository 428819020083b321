package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Code    errors.ErrorCode  `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps error codes onto HTTP statuses.
var statusFor = map[errors.ErrorCode]int{
	errors.ErrCodeValidationFailed:   http.StatusBadRequest,
	errors.ErrCodeUnauthenticated:    http.StatusUnauthorized,
	errors.ErrCodePermissionDenied:   http.StatusForbidden,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeAlreadyExists:      http.StatusConflict,
	errors.ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	errors.ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	errors.ErrCodeContextCanceled:    499,
	errors.ErrCodeAssistantFailed:    http.StatusBadGateway,
	errors.ErrCodePaymentFailed:      http.StatusBadGateway,
	errors.ErrCodeStoreFailed:        http.StatusInternalServerError,
}

// respondError translates a service error into the uniform shape.
// Unknown errors are treated as internal without leaking their text.
func respondError(c echo.Context, err error) error {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Code:    errors.ErrCodeStoreFailed,
			Message: "internal error",
		})
	}

	status, ok := statusFor[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := errorBody{Code: appErr.Code, Message: appErr.Message}
	if field, ok := appErr.Context["field"].(string); ok {
		body.Field = field
	}
	return c.JSON(status, body)
}
