package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	sessionContextKey contextKey = "fitta-session"

	// TokenCookieName is the cookie carrying the session token.
	TokenCookieName = "fitta_session"
)

// WithSession binds the resolved session to the request context.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the session bound to the context, or the
// anonymous session if none was bound.
func SessionFromContext(ctx context.Context) Session {
	if session, ok := ctx.Value(sessionContextKey).(Session); ok {
		return session
	}
	return Anonymous()
}

// TokenFromRequest extracts the session token from the cookie or, as a
// fallback for API clients, the Authorization bearer header.
func TokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const prefix = "Bearer "
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// SetTokenCookie writes the session cookie on the response.
func SetTokenCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(c echo.Context) {
	SetTokenCookie(c, "", -1)
}
