package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/rumormill/internal/domain"
	apperrors "github.com/pscheid92/rumormill/internal/errors"
	"github.com/pscheid92/rumormill/internal/metrics"
)

const maxObserveTextLength = 2000

type observeRequest struct {
	Text string `json:"text"`
}

type observeResponse struct {
	Created bool          `json:"created"`
	Rumor   *domain.Rumor `json:"rumor,omitempty"`
}

type rumorsResponse struct {
	Count  int            `json:"count"`
	Rumors []domain.Rumor `json:"rumors"`
}

func (s *Server) handleListRumors(c echo.Context) error {
	var knownBy []string
	for _, name := range strings.Split(c.QueryParam("known_by"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			knownBy = append(knownBy, name)
		}
	}

	var status domain.Status
	if raw := c.QueryParam("status"); raw != "" {
		status = domain.Status(strings.ToLower(raw))
		if !status.Valid() || status == domain.StatusArchived {
			return apperrors.MalformedInputError("status must be active or faded").WithContext("status", raw)
		}
	}

	rumors := make([]domain.Rumor, 0)
	for _, r := range s.sim.Snapshot(knownBy...) {
		if status != "" && r.EffectiveStatus() != status {
			continue
		}
		rumors = append(rumors, r)
	}

	return c.JSON(http.StatusOK, rumorsResponse{Count: len(rumors), Rumors: rumors})
}

func (s *Server) handleGetRumor(c echo.Context) error {
	id := c.Param("id")
	r, ok := s.sim.Rumor(id)
	if !ok {
		return apperrors.NotFoundError("rumor not found").WithContext("rumor_id", id)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleVerifyRumor(c echo.Context) error {
	id := c.Param("id")
	r, ok := s.sim.Verify(id)
	if !ok {
		return apperrors.NotFoundError("rumor not found").WithContext("rumor_id", id)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.sim.Stats())
}

func (s *Server) handleObserve(c echo.Context) error {
	var req observeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.MalformedInputError("request body must be JSON with a text field").WithCause(err)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return apperrors.MalformedInputError("text is required")
	}
	if len(text) > maxObserveTextLength {
		return apperrors.MalformedInputError("text is too long").WithContext("max_length", maxObserveTextLength)
	}

	r, ok := s.sim.Observe(text)
	if !ok {
		return c.JSON(http.StatusOK, observeResponse{Created: false})
	}
	return c.JSON(http.StatusCreated, observeResponse{Created: true, Rumor: &r})
}

// rateLimit rejects clients that exceed the observe budget for their IP.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if !s.observeLimiter.Allow(ip) {
			metrics.ObserveRequestsRejected.Inc()
			return apperrors.RateLimitedError("too many observe requests").WithContext("ip", ip)
		}
		return next(c)
	}
}
