package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/server/auth"
	"github.com/akuaasantewaa/fitta/store"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type sessionResponse struct {
	Session auth.Session `json:"session"`
}

// Login authenticates against the role named in the path.
func (s *APIV1Service) Login(c echo.Context) error {
	role, ok := store.ParseRole(c.Param("role"))
	if !ok {
		return respondError(c, errors.NotFound("unknown role"))
	}

	var creds auth.Credentials
	if err := c.Bind(&creds); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	session, token, err := s.AuthService.Login(c.Request().Context(), creds, role)
	if err != nil {
		return respondError(c, err)
	}

	auth.SetTokenCookie(c, token, sessionCookieMaxAge)
	return c.JSON(http.StatusOK, sessionResponse{Session: session})
}

// Register creates an identity under the role named in the path and
// logs it in.
func (s *APIV1Service) Register(c echo.Context) error {
	role, ok := store.ParseRole(c.Param("role"))
	if !ok {
		return respondError(c, errors.NotFound("unknown role"))
	}

	var reg auth.Registration
	if err := c.Bind(&reg); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	session, token, err := s.AuthService.Register(c.Request().Context(), reg, role)
	if err != nil {
		return respondError(c, err)
	}

	auth.SetTokenCookie(c, token, sessionCookieMaxAge)
	return c.JSON(http.StatusCreated, sessionResponse{Session: session})
}

// Logout clears the session. The response is 200 even when the durable
// delete fails; the cookie is gone either way.
func (s *APIV1Service) Logout(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	err := s.AuthService.Logout(c.Request().Context(), token)
	auth.ClearTokenCookie(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: auth.Anonymous()})
}

// AuthStatus reports the session bound to the request. Always 200; an
// anonymous session is a valid answer, not an error.
func (s *APIV1Service) AuthStatus(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{Session: session})
}

// UpdateProfile merges partial fields into the current identity.
func (s *APIV1Service) UpdateProfile(c echo.Context) error {
	var update auth.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	token := auth.TokenFromRequest(c)
	session, err := s.AuthService.UpdateProfile(c.Request().Context(), token, update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: session})
}
