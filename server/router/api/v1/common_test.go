package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuaasantewaa/fitta/internal/errors"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{"validation", errors.ValidationFailed("email", "Enter a valid email address"), http.StatusBadRequest, errors.ErrCodeValidationFailed},
		{"unauthenticated", errors.Unauthenticated("invalid email or password"), http.StatusUnauthorized, errors.ErrCodeUnauthenticated},
		{"denied", errors.PermissionDenied("restricted"), http.StatusForbidden, errors.ErrCodePermissionDenied},
		{"missing", errors.NotFound("payment not found"), http.StatusNotFound, errors.ErrCodeNotFound},
		{"conflict", errors.AlreadyExists("email taken"), http.StatusConflict, errors.ErrCodeAlreadyExists},
		{"payment", errors.PaymentFailed("could not open checkout", assert.AnError), http.StatusBadGateway, errors.ErrCodePaymentFailed},
		{"store", errors.StoreFailed("read failed", assert.AnError), http.StatusInternalServerError, errors.ErrCodeStoreFailed},
		{"opaque", assert.AnError, http.StatusInternalServerError, errors.ErrCodeStoreFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRespondErrorCarriesField(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondError(c, errors.ValidationFailed("confirmPassword", "Confirm password does not match")))

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmPassword", body.Field)
}

func TestRespondErrorHidesInternalText(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondError(c, assert.AnError))
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
