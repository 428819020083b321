// Package middleware holds the echo middleware shared across the API
// surface: session resolution, role gating, request logging, and rate
// limiting.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/server/auth"
	"github.com/akuaasantewaa/fitta/store"
)

// ResolveSession binds the request's session onto the context. Faults
// degrade to the anonymous session so public pages keep working.
func ResolveSession(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.TokenFromRequest(c)
			session, err := svc.CheckAuthStatus(c.Request().Context(), token)
			if err != nil {
				session = auth.Anonymous()
			}
			ctx := auth.WithSession(c.Request().Context(), session)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DeniedPayload is the body of a 403 response. HomePath points the
// session back to its own area.
type DeniedPayload struct {
	Code     errors.ErrorCode `json:"code"`
	Message  string           `json:"message"`
	HomePath string           `json:"homePath"`
}

// RequireRole gates a route group on the role named in the :role path
// parameter. Unauthenticated requests are redirected to the matching
// auth gateway with the original path preserved; authenticated requests
// with the wrong role get an explicit denied payload, never a redirect
// into another role's area.
func RequireRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required, ok := store.ParseRole(c.Param("role"))
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, "unknown role")
			}

			session := auth.SessionFromContext(c.Request().Context())
			if !session.Authenticated {
				target := "/auth/" + required.String() + "?next=" + url.QueryEscape(c.Request().URL.Path)
				return c.Redirect(http.StatusFound, target)
			}
			if session.Role != required {
				appErr := errors.PermissionDenied("this area is restricted to " + required.String() + " accounts")
				return c.JSON(http.StatusForbidden, DeniedPayload{
					Code:     appErr.Code,
					Message:  appErr.Message,
					HomePath: "/dashboard/" + session.Role.String(),
				})
			}
			return next(c)
		}
	}
}

// RequireAuthenticated gates a route on any authenticated session,
// regardless of role. API-shaped: replies 401 instead of redirecting.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := auth.SessionFromContext(c.Request().Context())
			if !session.Authenticated {
				appErr := errors.Unauthenticated("sign in to continue")
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"code":    appErr.Code,
					"message": appErr.Message,
				})
			}
			return next(c)
		}
	}
}
