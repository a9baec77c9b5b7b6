package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rumormill/internal/config"
	"github.com/pscheid92/rumormill/internal/logging"
	"github.com/pscheid92/rumormill/internal/server"
	"github.com/pscheid92/rumormill/internal/sim"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var restorePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and the HTTP inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
			slog.Info("Application starting", "port", cfg.Port, "seed", cfg.SimSeed, "turn_interval", cfg.SimTurnInterval)

			clock := clockwork.NewRealClock()
			runner, engine := newSimulation(cfg, clock, cfg.SimTurnInterval)
			if restorePath != "" {
				if err := restoreFromFile(cmd.Context(), engine, restorePath); err != nil {
					return err
				}
			}
			runner.Start()

			srv := server.NewServer(cfg.Port, runner, cfg.ObserveRateLimit, clock)
			done := runGracefulShutdown(srv, runner)

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}

			<-done
			slog.Info("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&restorePath, "restore", "", "JSON file with rumors to load before the first turn")
	return cmd
}

func runGracefulShutdown(srv *server.Server, runner *sim.Runner) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		runner.Stop()
		close(done)
	}()

	return done
}
