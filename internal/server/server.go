package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/rumormill/internal/domain"
	apperrors "github.com/pscheid92/rumormill/internal/errors"
	"github.com/pscheid92/rumormill/internal/sim"
)

const observeBurst = 5

// simulation is the subset of the runner the HTTP layer needs.
type simulation interface {
	Observe(text string) (domain.Rumor, bool)
	Snapshot(knownBy ...string) []domain.Rumor
	Rumor(id string) (domain.Rumor, bool)
	Verify(id string) (domain.Rumor, bool)
	Stats() sim.Stats
}

type Server struct {
	echo           *echo.Echo
	port           string
	sim            simulation
	observeLimiter *RequestRateLimiter
	clock          clockwork.Clock
	startTime      time.Time
}

func NewServer(port string, simulation simulation, observeRate float64, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:           e,
		port:           port,
		sim:            simulation,
		observeLimiter: NewRequestRateLimiter(observeRate, observeBurst, clock),
		clock:          clock,
		startTime:      clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.port)
	return s.echo.Start(fmt.Sprintf(":%s", s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
