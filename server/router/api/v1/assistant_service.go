package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/server/auth"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// CreateConversation starts a new transcript for the session's role.
func (s *APIV1Service) CreateConversation(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	conversation, err := s.AssistantService.StartConversation(c.Request().Context(), session.UserID, session.Role, req.Title)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, conversation)
}

// ListConversations returns the session's transcripts.
func (s *APIV1Service) ListConversations(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())
	conversations, err := s.AssistantService.ListConversations(c.Request().Context(), session.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, conversations)
}

// DeleteConversation archives a transcript.
func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())
	if err := s.AssistantService.DeleteConversation(c.Request().Context(), session.UserID, c.Param("uid")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMessages returns a transcript in insertion order, along with the
// conversation's transient typing flag.
func (s *APIV1Service) ListMessages(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())
	uid := c.Param("uid")

	messages, err := s.AssistantService.ListMessages(c.Request().Context(), session.UserID, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"messages": messages,
		"typing":   s.AssistantService.IsTyping(uid),
	})
}

// SendMessage appends a user turn and returns the generated reply.
func (s *APIV1Service) SendMessage(c echo.Context) error {
	session := auth.SessionFromContext(c.Request().Context())

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.ValidationFailed("body", "malformed request body"))
	}

	reply, err := s.AssistantService.Send(c.Request().Context(), session.UserID, c.Param("uid"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}
