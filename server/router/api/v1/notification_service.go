package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akuaasantewaa/fitta/internal/errors"
	"github.com/akuaasantewaa/fitta/internal/notify"
)

type notificationView struct {
	ID         int64          `json:"id"`
	Kind       notify.Kind    `json:"kind"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Persistent bool           `json:"persistent"`
	Action     *notify.Action `json:"action,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toNotificationView(n *notify.Notification) notificationView {
	return notificationView{
		ID:         n.ID,
		Kind:       n.Kind,
		Title:      n.Title,
		Body:       n.Body,
		Persistent: n.Persistent,
		Action:     n.Action,
		CreatedAt:  n.CreatedAt,
	}
}

// ListNotifications returns live notifications in insertion order.
func (s *APIV1Service) ListNotifications(c echo.Context) error {
	items := s.Bus.List()
	views := make([]notificationView, 0, len(items))
	for _, n := range items {
		views = append(views, toNotificationView(n))
	}
	return c.JSON(http.StatusOK, views)
}

// RemoveNotification dismisses one notification by id.
func (s *APIV1Service) RemoveNotification(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, errors.ValidationFailed("id", "id must be an integer"))
	}
	s.Bus.Remove(id)
	return c.NoContent(http.StatusNoContent)
}

// ClearNotifications dismisses everything.
func (s *APIV1Service) ClearNotifications(c echo.Context) error {
	s.Bus.ClearAll()
	return c.NoContent(http.StatusNoContent)
}

// StreamNotifications pushes bus events to the client as server-sent
// events until the client disconnects.
func (s *APIV1Service) StreamNotifications(c echo.Context) error {
	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set(echo.HeaderCacheControl, "no-cache")
	header.Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	subID, events := s.Bus.Subscribe()
	defer s.Bus.Unsubscribe(subID)

	// Heartbeat keeps intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Response(), ": ping\n\n"); err != nil {
				return nil
			}
			c.Response().Flush()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload := map[string]any{"type": event.Type}
			if event.Notification != nil {
				payload["notification"] = toNotificationView(event.Notification)
			}
			raw, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", raw); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
