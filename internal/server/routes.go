package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Read-only inspection
	s.echo.GET("/api/rumors", s.handleListRumors)
	s.echo.GET("/api/rumors/:id", s.handleGetRumor)
	s.echo.GET("/api/stats", s.handleStats)

	// Narrative input (rate limited per IP)
	s.echo.POST("/api/observe", s.handleObserve, s.rateLimit)

	// External confirmation of a rumor
	s.echo.POST("/api/rumors/:id/verify", s.handleVerifyRumor)
}
