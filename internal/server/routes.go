package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Live channel: single upgrade endpoint, auth happens over the socket
	s.echo.GET("/ws", s.handleWebSocket)

	// REST backstop (Bearer-token authenticated)
	api := s.echo.Group("/api")
	api.GET("/notifications", s.handleListNotifications, s.requireAuth)
	api.PATCH("/notifications/:id/read", s.handleMarkRead, s.requireAuth)
}
