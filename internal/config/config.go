package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SimSeed                uint64        `env:"SIM_SEED" default:"1"`
	SimTurnInterval        time.Duration `env:"SIM_TURN_INTERVAL" default:"2s"`
	SimCastSize            int           `env:"SIM_CAST_SIZE" default:"12"`
	SimImportantRatio      float64       `env:"SIM_IMPORTANT_RATIO" default:"0.5"`
	SimFocusSize           int           `env:"SIM_FOCUS_SIZE" default:"3"`
	SimInteractionsPerTurn int           `env:"SIM_INTERACTIONS_PER_TURN" default:"4"`

	ObserveRateLimit float64 `env:"OBSERVE_RATE_LIMIT" default:"5"` // requests per second per IP

	GossipHardCap           int     `env:"GOSSIP_HARD_CAP" default:"100"`
	GossipFadeThreshold     float64 `env:"GOSSIP_FADE_THRESHOLD" default:"0.75"`
	GossipArchiveWindow     int     `env:"GOSSIP_ARCHIVE_WINDOW" default:"50"`
	GossipSweepEvery        int     `env:"GOSSIP_SWEEP_EVERY" default:"25"`
	GossipSweepCountTrigger int     `env:"GOSSIP_SWEEP_COUNT_TRIGGER" default:"100"`
	GossipSpreadChance      float64 `env:"GOSSIP_SPREAD_CHANCE" default:"0.2"`
	GossipDistortionStep    float64 `env:"GOSSIP_DISTORTION_STEP" default:"0.1"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	positive := map[string]int{
		"SIM_CAST_SIZE":              cfg.SimCastSize,
		"GOSSIP_HARD_CAP":            cfg.GossipHardCap,
		"GOSSIP_ARCHIVE_WINDOW":      cfg.GossipArchiveWindow,
		"GOSSIP_SWEEP_EVERY":         cfg.GossipSweepEvery,
		"GOSSIP_SWEEP_COUNT_TRIGGER": cfg.GossipSweepCountTrigger,
	}
	for name, value := range positive {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	fractions := map[string]float64{
		"SIM_IMPORTANT_RATIO":   cfg.SimImportantRatio,
		"GOSSIP_FADE_THRESHOLD": cfg.GossipFadeThreshold,
		"GOSSIP_SPREAD_CHANCE":  cfg.GossipSpreadChance,
	}
	for name, value := range fractions {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}

	if cfg.GossipFadeThreshold == 0 {
		return errors.New("GOSSIP_FADE_THRESHOLD must be greater than 0")
	}
	if cfg.GossipDistortionStep < 0 {
		return errors.New("GOSSIP_DISTORTION_STEP must not be negative")
	}
	if cfg.SimFocusSize < 0 || cfg.SimFocusSize > cfg.SimCastSize {
		return fmt.Errorf("SIM_FOCUS_SIZE must be between 0 and SIM_CAST_SIZE (%d)", cfg.SimCastSize)
	}
	if cfg.SimInteractionsPerTurn < 0 {
		return errors.New("SIM_INTERACTIONS_PER_TURN must not be negative")
	}
	if cfg.SimTurnInterval <= 0 {
		return errors.New("SIM_TURN_INTERVAL must be positive")
	}
	if cfg.ObserveRateLimit <= 0 {
		return errors.New("OBSERVE_RATE_LIMIT must be positive")
	}

	return nil
}
