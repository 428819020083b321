// Package server composes the HTTP surface: echo instance, middleware
// chain, API routes, and the background jobs tied to the server
// lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/akuaasantewaa/fitta/internal/notify"
	"github.com/akuaasantewaa/fitta/internal/profile"
	"github.com/akuaasantewaa/fitta/server/auth"
	"github.com/akuaasantewaa/fitta/server/middleware"
	apiv1 "github.com/akuaasantewaa/fitta/server/router/api/v1"
	"github.com/akuaasantewaa/fitta/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	bus        *notify.Bus
	apiService *apiv1.APIV1Service
	cleanupJob *auth.CleanupJob
}

// NewServer builds the full server. The store must already be migrated.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	bus := notify.NewBus()
	apiService := apiv1.NewAPIV1Service(p, st, bus)

	s := &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
		bus:        bus,
		apiService: apiService,
		cleanupJob: auth.NewCleanupJob(st, auth.DefaultCleanupInterval),
	}

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		// Stack traces reach the response only outside prod mode.
		DisablePrintStack: !p.IsDev(),
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{p.InstanceURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.NewRateLimiter(10, 20).Middleware())
	e.Use(middleware.ResolveSession(apiService.AuthService))
	e.Use(middleware.RequestLogging(slog.Default()))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiService.RegisterRoutes(e)

	return s, nil
}

// Start begins serving and launches the background jobs. Non-blocking.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server starting", "address", address, "mode", s.Profile.Mode)

	s.cleanupJob.Start(ctx)

	go func() {
		if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
		}
	}()
	return nil
}

// Shutdown drains the server and stops the background jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.cleanupJob.Stop()
	s.bus.Close()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	if err := s.Store.Close(); err != nil {
		return errors.Wrap(err, "failed to close store")
	}

	slog.Info("server shut down")
	return nil
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}
