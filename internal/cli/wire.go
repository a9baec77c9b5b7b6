package cli

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rumormill/internal/config"
	"github.com/pscheid92/rumormill/internal/gossip"
	"github.com/pscheid92/rumormill/internal/sim"
)

func settingsFrom(cfg *config.Config) gossip.Settings {
	return gossip.Settings{
		HardCap:           cfg.GossipHardCap,
		FadeThreshold:     cfg.GossipFadeThreshold,
		ArchiveWindow:     cfg.GossipArchiveWindow,
		SweepEvery:        cfg.GossipSweepEvery,
		SweepCountTrigger: cfg.GossipSweepCountTrigger,
		SpreadChance:      cfg.GossipSpreadChance,
		DistortionStep:    cfg.GossipDistortionStep,
	}
}

// newSimulation builds the cast, engine and runner for one session.
// The runner is returned unstarted so callers can restore state first.
func newSimulation(cfg *config.Config, clock clockwork.Clock, interval time.Duration, opts ...gossip.Option) (*sim.Runner, *gossip.Engine) {
	cast := sim.NewCast(cfg.SimCastSize, cfg.SimImportantRatio, cfg.SimFocusSize)
	rng := gossip.NewRandSource(cfg.SimSeed)
	engine := gossip.New(gossip.NewStore(), cast, gossip.NewKeywordDetector(cast), rng, settingsFrom(cfg), opts...)
	runner := sim.NewRunner(engine, cast, rng, clock, interval, cfg.SimInteractionsPerTurn)
	return runner, engine
}
