package middleware

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/observability"
	"github.com/akuaasantewaa/fitta/server/auth"
)

// RequestHeaderID is the inbound request-id header honored when present.
const RequestHeaderID = "X-Request-Id"

// RequestLogging attaches a request-scoped logger to the context and
// emits one line per completed request. Must run after ResolveSession
// so the session fields are populated.
func RequestLogging(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestHeaderID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(RequestHeaderID, requestID)

			session := auth.SessionFromContext(c.Request().Context())
			reqCtx := observability.NewRequestContextWithID(logger, requestID, session.Role.String(), session.UserID)

			ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			reqCtx.Info("request completed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			)
			return err
		}
	}
}
