// Package v1 is the REST surface of the platform. Handlers translate
// HTTP requests into service calls and coded errors into status codes;
// all business rules live in the services.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/notify"
	"github.com/akuaasantewaa/fitta/internal/payment"
	"github.com/akuaasantewaa/fitta/internal/profile"
	"github.com/akuaasantewaa/fitta/plugin/assistant"
	"github.com/akuaasantewaa/fitta/server/auth"
	"github.com/akuaasantewaa/fitta/server/middleware"
	"github.com/akuaasantewaa/fitta/store"
)

type APIV1Service struct {
	Profile          *profile.Profile
	Store            *store.Store
	AuthService      *auth.Service
	AssistantService *assistant.Service
	PaymentService   *payment.Service
	Bus              *notify.Bus
}

// NewAPIV1Service wires the services behind the REST surface.
func NewAPIV1Service(p *profile.Profile, st *store.Store, bus *notify.Bus) *APIV1Service {
	authService := auth.NewService(st)

	var remote assistant.Responder
	if p.IsAssistantRemoteEnabled() {
		remote = assistant.NewRemoteResponder(assistant.RemoteConfig{
			BaseURL: p.AssistantBaseURL,
			APIKey:  p.AssistantAPIKey,
			Model:   p.AssistantModel,
		})
		slog.Info("remote assistant enabled", "model", p.AssistantModel)
	}

	return &APIV1Service{
		Profile:          p,
		Store:            st,
		AuthService:      authService,
		AssistantService: assistant.NewService(st, bus, remote),
		PaymentService: payment.NewService(
			payment.NewClient(p.PaymentBaseURL, p.PaymentSecretKey),
			st,
			p.PaymentCurrency,
		),
		Bus: bus,
	}
}

// RegisterRoutes mounts the API on the echo instance. The caller is
// responsible for installing ResolveSession ahead of these routes.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/auth/:role/login", s.Login)
	api.POST("/auth/:role/register", s.Register)
	api.POST("/auth/logout", s.Logout)
	api.GET("/auth/status", s.AuthStatus)
	api.PATCH("/auth/profile", s.UpdateProfile, middleware.RequireAuthenticated())

	api.GET("/dashboard/:role", s.Dashboard, middleware.RequireRole())

	chat := api.Group("/assistant", middleware.RequireAuthenticated())
	chat.POST("/conversations", s.CreateConversation)
	chat.GET("/conversations", s.ListConversations)
	chat.DELETE("/conversations/:uid", s.DeleteConversation)
	chat.GET("/conversations/:uid/messages", s.ListMessages)
	chat.POST("/conversations/:uid/messages", s.SendMessage)

	notifications := api.Group("/notifications", middleware.RequireAuthenticated())
	notifications.GET("", s.ListNotifications)
	notifications.GET("/stream", s.StreamNotifications)
	notifications.DELETE("/:id", s.RemoveNotification)
	notifications.DELETE("", s.ClearNotifications)

	payments := api.Group("/payments", middleware.RequireAuthenticated())
	payments.POST("", s.InitializePayment)
	payments.GET("", s.ListPayments)
	payments.GET("/:reference/verify", s.VerifyPayment)
}
