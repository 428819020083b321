package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/server/auth"
)

type initializePaymentRequest struct {
	// AmountSubunits is the amount in the smallest currency unit.
	AmountSubunits int64          `json:"amount"`
	Metadata       map[string]any `json:"metadata"`
}

// InitializePayment opens a hosted checkout for the session.
func (s *APIV1Service) InitializePayment(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())

	var req initializePaymentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	checkout, err := s.PaymentService.Initialize(c.Request().Context(), session.UserID, session.Email, req.AmountSubunits, req.Metadata)
	if err != nil {
		s.Bus.Error("Payment failed", "We could not open the checkout. Please try again.")
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, checkout)
}

// VerifyPayment resolves a reference against the provider.
func (s *APIV1Service) VerifyPayment(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())

	result, err := s.PaymentService.Verify(c.Request().Context(), session.UserID, c.Param("reference"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListPayments returns the session's payments.
func (s *APIV1Service) ListPayments(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())

	payments, err := s.PaymentService.List(c.Request().Context(), session.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}
