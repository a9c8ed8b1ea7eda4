package server

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/logging"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/metrics"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"

	"github.com/labstack/echo/v4"
)

// handleWebSocket upgrades the connection and runs its lifecycle:
// unauthenticated until a valid auth envelope arrives within the grace
// period, then registered until the transport closes.
func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	allowed, reason := s.limits.Acquire(ip)
	if !allowed {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		slog.Warn("WebSocket connection rejected", "ip", ip, "reason", reason)
		return c.String(http.StatusTooManyRequests, "Too many connections")
	}
	defer s.limits.Release(ip)

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil //nolint:nilerr // Upgrade already wrote the HTTP error response
	}

	client := registry.NewClient(conn, s.clock)
	s.readLoop(conn, client)
	client.Stop()

	return nil
}

// readLoop processes inbound frames until the connection closes. Before the
// handshake only the read deadline bounds how long we wait; after it, the
// keepalive pong handler owns the deadline.
func (s *Server) readLoop(conn *websocket.Conn, client *registry.Client) {
	var userID string // empty until authenticated

	_ = conn.SetReadDeadline(s.clock.Now().Add(s.config.AuthGracePeriod))

	defer func() {
		if userID != "" {
			s.registry.Unregister(userID, client)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if userID == "" && isTimeout(err) {
				metrics.WebSocketAuthTimeouts.Inc()
				slog.Debug("Closing connection: no auth within grace period")
			}
			return
		}

		msg, err := domain.DecodeClientMessage(data)
		if err != nil {
			// Malformed or unknown frames are ignored; the connection stays
			// open and usable.
			metrics.WebSocketMalformedMessages.Inc()
			continue
		}

		switch m := msg.(type) {
		case domain.AuthMessage:
			userID = s.handleAuth(m, client, userID)
		}
	}
}

// handleAuth verifies the handshake token and registers the connection.
// Returns the connection's authenticated user id (unchanged on failure).
func (s *Server) handleAuth(m domain.AuthMessage, client *registry.Client, currentUserID string) string {
	verifiedID, err := s.verifier.Verify(m.Token)
	if err != nil {
		// Not connection-fatal: no registry mutation, the client may retry.
		metrics.WebSocketAuthFailures.Inc()
		logging.WithError(err).Info("WebSocket auth failed")
		return currentUserID
	}

	if currentUserID != "" && currentUserID != verifiedID {
		// Re-auth as a different user on the same socket: release the old tag.
		s.registry.Unregister(currentUserID, client)
	}

	s.registry.Register(verifiedID, client)
	client.RestoreReadDeadline()
	logging.WithUser(verifiedID).Info("WebSocket authenticated")

	return verifiedID
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
