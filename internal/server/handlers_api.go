package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/logging"
)

const contextKeyUserID = "userID"

// requireAuth authenticates REST requests with the same Bearer tokens the
// WebSocket handshake uses.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Access Denied"})
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header"})
		}

		userID, err := s.verifier.Verify(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
		}

		c.Set(contextKeyUserID, userID)
		return next(c)
	}
}

// handleListNotifications returns the caller's notifications, most recent
// first. This is the durable read path the client polls as its backstop.
func (s *Server) handleListNotifications(c echo.Context) error {
	userID := c.Get(contextKeyUserID).(string)

	notifications, err := s.notifications.List(c.Request().Context(), userID)
	if err != nil {
		logging.WithUser(userID).Error("Failed to list notifications", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error fetching notifications"})
	}

	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) handleMarkRead(c echo.Context) error {
	userID := c.Get(contextKeyUserID).(string)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid notification id"})
	}

	notification, err := s.notifications.MarkRead(c.Request().Context(), userID, id)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Notification not found"})
	}
	if err != nil {
		logging.WithUser(userID).Error("Failed to mark notification read", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error updating notification"})
	}

	return c.JSON(http.StatusOK, notification)
}
