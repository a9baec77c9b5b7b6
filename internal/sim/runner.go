package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/pscheid92/rumormill/internal/gossip"
	"github.com/pscheid92/rumormill/internal/logging"
	"github.com/pscheid92/rumormill/internal/metrics"
)

// TurnReport summarizes one simulated turn.
type TurnReport struct {
	Turn        int                      `json:"turn" yaml:"turn"`
	Line        string                   `json:"line" yaml:"line"`
	Created     string                   `json:"created,omitempty" yaml:"created,omitempty"`
	Spread      int                      `json:"spread" yaml:"spread"`
	Maintenance gossip.MaintenanceReport `json:"maintenance" yaml:"maintenance"`
}

// Stats is a point-in-time view of the simulation.
type Stats struct {
	Turn            int                      `json:"turn" yaml:"turn"`
	Rumors          int                      `json:"rumors" yaml:"rumors"`
	Active          int                      `json:"active" yaml:"active"`
	Faded           int                      `json:"faded" yaml:"faded"`
	Focus           []string                 `json:"focus" yaml:"focus"`
	LastMaintenance gossip.MaintenanceReport `json:"last_maintenance" yaml:"last_maintenance"`
}

// --- Command types ---

type runnerCmd interface{ runnerCmd() }

type cmdStep struct {
	replyCh chan TurnReport
}

func (cmdStep) runnerCmd() {}

type cmdTick struct{}

func (cmdTick) runnerCmd() {}

type cmdObserve struct {
	text    string
	replyCh chan observeResult
}

func (cmdObserve) runnerCmd() {}

type observeResult struct {
	rumor domain.Rumor
	ok    bool
}

type cmdSnapshot struct {
	knownBy []string
	replyCh chan []domain.Rumor
}

func (cmdSnapshot) runnerCmd() {}

type cmdRumor struct {
	id      string
	replyCh chan observeResult
}

func (cmdRumor) runnerCmd() {}

type cmdVerify struct {
	id      string
	replyCh chan observeResult
}

func (cmdVerify) runnerCmd() {}

type cmdStats struct {
	replyCh chan Stats
}

func (cmdStats) runnerCmd() {}

type cmdStop struct{}

func (cmdStop) runnerCmd() {}

// --- Runner ---

type Runner struct {
	cmdCh        chan runnerCmd
	engine       *gossip.Engine
	cast         *Cast
	narrator     *Narrator
	rng          domain.RandSource
	clock        clockwork.Clock
	interval     time.Duration
	interactions int
	turn         int
	last         gossip.MaintenanceReport
	stopCh       chan struct{}
}

// NewRunner wires a runner around engine. A zero interval disables the turn
// ticker so turns only advance through Step.
func NewRunner(engine *gossip.Engine, cast *Cast, rng domain.RandSource, clock clockwork.Clock, interval time.Duration, interactions int) *Runner {
	return &Runner{
		cmdCh:        make(chan runnerCmd, 64),
		engine:       engine,
		cast:         cast,
		narrator:     NewNarrator(rng),
		rng:          rng,
		clock:        clock,
		interval:     interval,
		interactions: interactions,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the actor goroutine and, when an interval is set, the turn ticker.
func (r *Runner) Start() {
	if r.interval > 0 {
		go r.tickerLoop()
	}
	go r.run()
}

func (r *Runner) run() {
	ctx := context.Background()
	for cmd := range r.cmdCh {
		switch c := cmd.(type) {
		case cmdTick:
			r.advance(ctx)

		case cmdStep:
			c.replyCh <- r.advance(ctx)

		case cmdObserve:
			rumor, ok := r.engine.Observe(ctx, c.text, r.turn)
			c.replyCh <- observeResult{rumor: rumor, ok: ok}

		case cmdSnapshot:
			if len(c.knownBy) == 0 {
				c.replyCh <- r.engine.All()
			} else {
				c.replyCh <- r.engine.KnownByAny(c.knownBy...)
			}

		case cmdRumor:
			rumor, ok := r.engine.Get(c.id)
			c.replyCh <- observeResult{rumor: rumor, ok: ok}

		case cmdVerify:
			var res observeResult
			if r.engine.Verify(c.id) {
				res.rumor, res.ok = r.engine.Get(c.id)
				slog.Info("Rumor verified", "rumor_id", c.id, "turn", r.turn)
			}
			c.replyCh <- res

		case cmdStats:
			c.replyCh <- r.stats()

		case cmdStop:
			close(r.stopCh)
			return
		}
	}
}

// advance plays one turn: narrate, gossip, then maintenance. Propagation
// always finishes before maintenance so threshold crossings fade this turn.
func (r *Runner) advance(ctx context.Context) TurnReport {
	r.turn++
	r.cast.Advance()
	ctx = logging.WithTurn(ctx, r.turn)

	report := TurnReport{Turn: r.turn}
	characters := r.cast.Characters()
	scene := r.cast.Focus()
	if len(scene) < 2 {
		scene = characters
	}
	report.Line = r.narrator.Line(scene)
	if rumor, ok := r.engine.Observe(ctx, report.Line, r.turn); ok {
		report.Created = rumor.ID
	}

	if len(characters) >= 2 {
		for range r.interactions {
			from, to := pickPair(r.rng, characters)
			report.Spread += r.engine.AutoPropagate(ctx, from, to)
		}
	}

	report.Maintenance = r.engine.MaybeRunMaintenance(ctx, r.turn, r.engine.Count())
	r.last = report.Maintenance
	metrics.SimulationTurn.Set(float64(r.turn))

	slog.DebugContext(ctx, "Turn played", "line", report.Line, "created", report.Created, "spread", report.Spread)
	return report
}

func (r *Runner) stats() Stats {
	s := Stats{
		Turn:            r.turn,
		Rumors:          r.engine.Count(),
		Focus:           r.cast.Focus(),
		LastMaintenance: r.last,
	}
	for _, rumor := range r.engine.All() {
		switch rumor.EffectiveStatus() {
		case domain.StatusActive:
			s.Active++
		case domain.StatusFaded:
			s.Faded++
		}
	}
	return s
}

func (r *Runner) tickerLoop() {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			select {
			case r.cmdCh <- cmdTick{}:
			case <-r.stopCh:
				return
			}
		case <-r.stopCh:
			return
		}
	}
}

// --- Public API ---
//
// Once the runner has stopped, every call returns immediately with a zero result.

// send delivers cmd to the actor, reporting false once it has stopped.
func (r *Runner) send(cmd runnerCmd) bool {
	select {
	case r.cmdCh <- cmd:
		return true
	case <-r.stopCh:
		return false
	}
}

// await waits for the actor's reply. A reply already sent before the actor
// stopped is still delivered.
func await[T any](r *Runner, replyCh <-chan T) T {
	select {
	case v := <-replyCh:
		return v
	case <-r.stopCh:
		select {
		case v := <-replyCh:
			return v
		default:
			var zero T
			return zero
		}
	}
}

// Step plays one turn immediately and returns its report.
func (r *Runner) Step() TurnReport {
	replyCh := make(chan TurnReport, 1)
	if !r.send(cmdStep{replyCh: replyCh}) {
		return TurnReport{}
	}
	return await(r, replyCh)
}

// Observe feeds text to the engine at the current turn.
func (r *Runner) Observe(text string) (domain.Rumor, bool) {
	replyCh := make(chan observeResult, 1)
	return r.lookup(cmdObserve{text: text, replyCh: replyCh}, replyCh)
}

// Snapshot returns all rumors, or only those known by any of knownBy.
func (r *Runner) Snapshot(knownBy ...string) []domain.Rumor {
	replyCh := make(chan []domain.Rumor, 1)
	if !r.send(cmdSnapshot{knownBy: knownBy, replyCh: replyCh}) {
		return nil
	}
	return await(r, replyCh)
}

func (r *Runner) Rumor(id string) (domain.Rumor, bool) {
	replyCh := make(chan observeResult, 1)
	return r.lookup(cmdRumor{id: id, replyCh: replyCh}, replyCh)
}

// Verify marks rumor id as externally confirmed and returns the updated record.
func (r *Runner) Verify(id string) (domain.Rumor, bool) {
	replyCh := make(chan observeResult, 1)
	return r.lookup(cmdVerify{id: id, replyCh: replyCh}, replyCh)
}

func (r *Runner) lookup(cmd runnerCmd, replyCh <-chan observeResult) (domain.Rumor, bool) {
	if !r.send(cmd) {
		return domain.Rumor{}, false
	}
	res := await(r, replyCh)
	return res.rumor, res.ok
}

func (r *Runner) Stats() Stats {
	replyCh := make(chan Stats, 1)
	if !r.send(cmdStats{replyCh: replyCh}) {
		return Stats{}
	}
	return await(r, replyCh)
}

// Stop halts the ticker and the actor and blocks until the actor has exited.
// Calling it again is a no-op.
func (r *Runner) Stop() {
	if r.send(cmdStop{}) {
		<-r.stopCh
	}
}
