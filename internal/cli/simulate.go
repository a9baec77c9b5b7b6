package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rumormill/internal/config"
	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/pscheid92/rumormill/internal/gossip"
	"github.com/pscheid92/rumormill/internal/logging"
	"github.com/pscheid92/rumormill/internal/sim"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// simulationResult is the document printed by simulate.
type simulationResult struct {
	Seed    uint64           `json:"seed" yaml:"seed"`
	Stats   sim.Stats        `json:"stats" yaml:"stats"`
	Retired int              `json:"retired" yaml:"retired"`
	Turns   []sim.TurnReport `json:"turns,omitempty" yaml:"turns,omitempty"`
	Rumors  []domain.Rumor   `json:"rumors" yaml:"rumors"`
}

// retiredCounter counts rumors leaving the store.
type retiredCounter struct {
	n int
}

func (c *retiredCounter) Retire(domain.Rumor, domain.RemovalReason, int) {
	c.n++
}

func newSimulateCmd() *cobra.Command {
	var (
		turns       int
		format      string
		seed        uint64
		history     bool
		restorePath string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless simulation and print the final rumor store",
		Long: `Simulate plays a fixed number of turns without the HTTP server and prints the
final statistics and rumor snapshot. Runs are reproducible for a given seed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if turns < 0 {
				return fmt.Errorf("--turns must not be negative")
			}
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.SimSeed = seed
			}
			slog.SetDefault(logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))

			retired := &retiredCounter{}
			runner, engine := newSimulation(cfg, clockwork.NewRealClock(), 0, gossip.WithArchiveSink(retired))
			if restorePath != "" {
				if err := restoreFromFile(cmd.Context(), engine, restorePath); err != nil {
					return err
				}
			}
			runner.Start()
			defer runner.Stop()

			result := simulationResult{Seed: cfg.SimSeed}
			for range turns {
				report := runner.Step()
				if history {
					result.Turns = append(result.Turns, report)
				}
			}
			result.Stats = runner.Stats()
			result.Rumors = runner.Snapshot()
			result.Retired = retired.n

			return writeResult(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().IntVar(&turns, "turns", 100, "number of turns to play")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json or yaml)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed (overrides SIM_SEED)")
	cmd.Flags().BoolVar(&history, "history", false, "include a report for every turn")
	cmd.Flags().StringVar(&restorePath, "restore", "", "JSON file with rumors to load before the first turn")
	return cmd
}

func writeResult(w io.Writer, format string, result simulationResult) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// restoreFromFile loads previously saved rumors. Malformed records are logged and skipped.
func restoreFromFile(ctx context.Context, engine *gossip.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read restore file: %w", err)
	}
	restored, errs := engine.Restore(ctx, data)
	for _, err := range errs {
		slog.WarnContext(ctx, "Skipped rumor during restore", "error", err)
	}
	slog.InfoContext(ctx, "Rumors restored", "path", path, "restored", restored, "skipped", len(errs))
	return nil
}
