package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/server/auth"
	"github.com/akuaasantewaa/fitta/store"
)

// dashboardSections lists the areas each role's dashboard exposes.
var dashboardSections = map[store.Role][]string{
	store.RoleVehicleOwner:  {"schedule-service", "my-requests", "pricing", "assistant"},
	store.RoleGaragePartner: {"jobs", "earnings", "calendar", "assistant"},
	store.RoleInsurance:     {"policies", "claims", "assistant"},
	store.RoleAdmin:         {"analytics", "accounts", "assistant"},
}

type dashboardResponse struct {
	Role          store.Role `json:"role"`
	Greeting      string     `json:"greeting"`
	Sections      []string   `json:"sections"`
	Conversations int        `json:"conversations"`
	Payments      int        `json:"payments"`
}

// Dashboard returns the role-gated landing payload. The guard already
// verified the session matches the :role parameter.
func (s *APIV1Service) Dashboard(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())
	ctx := c.Request().Context()

	response := dashboardResponse{
		Role:     session.Role,
		Greeting: "Welcome back, " + session.Name,
		Sections: dashboardSections[session.Role],
	}

	normal := store.Normal
	if conversations, err := s.Store.ListConversations(ctx, &store.FindConversation{
		UserID:    &session.UserID,
		RowStatus: &normal,
	}); err == nil {
		response.Conversations = len(conversations)
	}
	if payments, err := s.Store.ListPayments(ctx, &store.FindPayment{UserID: &session.UserID}); err == nil {
		response.Payments = len(payments)
	}

	return c.JSON(http.StatusOK, response)
}
