package gossip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/rumormill/internal/domain"
	apperrors "github.com/pscheid92/rumormill/internal/errors"
	"github.com/pscheid92/rumormill/internal/logging"
	"github.com/pscheid92/rumormill/internal/metrics"
)

// Settings are the tuning knobs of the rumor lifecycle.
// Use DefaultSettings as the starting point; New repairs out-of-range values.
type Settings struct {
	HardCap           int
	FadeThreshold     float64
	ArchiveWindow     int
	SweepEvery        int
	SweepCountTrigger int
	SpreadChance      float64
	DistortionStep    float64
}

func DefaultSettings() Settings {
	return Settings{
		HardCap:           100,
		FadeThreshold:     0.75,
		ArchiveWindow:     50,
		SweepEvery:        25,
		SweepCountTrigger: 100,
		SpreadChance:      0.2,
		DistortionStep:    0.1,
	}
}

// withDefaults replaces out-of-range values with their defaults so a hand-built
// Settings can never divide by zero or evict from an empty store.
func (s Settings) withDefaults() (Settings, []string) {
	d := DefaultSettings()
	var replaced []string
	if s.HardCap <= 0 {
		s.HardCap = d.HardCap
		replaced = append(replaced, "hard_cap")
	}
	if s.FadeThreshold <= 0 || s.FadeThreshold > 1 {
		s.FadeThreshold = d.FadeThreshold
		replaced = append(replaced, "fade_threshold")
	}
	if s.ArchiveWindow <= 0 {
		s.ArchiveWindow = d.ArchiveWindow
		replaced = append(replaced, "archive_window")
	}
	if s.SweepEvery <= 0 {
		s.SweepEvery = d.SweepEvery
		replaced = append(replaced, "sweep_every")
	}
	if s.SweepCountTrigger <= 0 {
		s.SweepCountTrigger = d.SweepCountTrigger
		replaced = append(replaced, "sweep_count_trigger")
	}
	if s.SpreadChance < 0 || s.SpreadChance > 1 {
		s.SpreadChance = d.SpreadChance
		replaced = append(replaced, "spread_chance")
	}
	if s.DistortionStep < 0 {
		s.DistortionStep = d.DistortionStep
		replaced = append(replaced, "distortion_step")
	}
	return s, replaced
}

// MaintenanceReport describes one maintenance pass.
type MaintenanceReport struct {
	Turn     int      `json:"turn" yaml:"turn"`
	Swept    bool     `json:"swept" yaml:"swept"`
	Faded    []string `json:"faded,omitempty" yaml:"faded,omitempty"`
	Archived []string `json:"archived,omitempty" yaml:"archived,omitempty"`
	Evicted  []string `json:"evicted,omitempty" yaml:"evicted,omitempty"`
	Count    int      `json:"count" yaml:"count"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithArchiveSink hands every archived or evicted rumor to sink before it is dropped.
func WithArchiveSink(sink domain.ArchiveSink) Option {
	return func(e *Engine) {
		e.sweeper.sink = sink
		e.evictor.sink = sink
	}
}

// WithIDGenerator overrides uuid-based rumor ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// Engine orchestrates creation, propagation and maintenance for one simulation session.
// It is not safe for concurrent use.
type Engine struct {
	store      *Store
	directory  domain.CharacterDirectory
	detector   domain.EventDetector
	propagator *Propagator
	sweeper    *Sweeper
	evictor    *Evictor
	settings   Settings
	newID      func() string
}

// New builds an engine over store. Out-of-range settings fall back to DefaultSettings values.
func New(store *Store, directory domain.CharacterDirectory, detector domain.EventDetector, rng domain.RandSource, settings Settings, opts ...Option) *Engine {
	settings, replaced := settings.withDefaults()
	if len(replaced) > 0 {
		slog.Warn("Invalid gossip settings replaced by defaults", "settings", replaced)
	}

	e := &Engine{
		store:      store,
		directory:  directory,
		detector:   detector,
		propagator: NewPropagator(store, rng, settings.SpreadChance, settings.DistortionStep),
		sweeper:    NewSweeper(store, directory, settings.FadeThreshold, settings.ArchiveWindow),
		evictor:    NewEvictor(store, settings.HardCap),
		settings:   settings,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Observe runs the detector over text and creates a rumor on a match.
func (e *Engine) Observe(ctx context.Context, text string, turn int) (domain.Rumor, bool) {
	if e.detector == nil {
		return domain.Rumor{}, false
	}
	seed, ok := e.detector.Detect(text)
	if !ok {
		return domain.Rumor{}, false
	}
	r, err := e.Create(ctx, seed, turn)
	if err != nil {
		slog.WarnContext(logging.WithTurn(ctx, turn), "Dropped detected rumor", "error", err)
		return domain.Rumor{}, false
	}
	return r, true
}

// Create inserts a new active rumor built from seed.
func (e *Engine) Create(ctx context.Context, seed domain.RumorSeed, turn int) (domain.Rumor, error) {
	r := domain.Rumor{
		ID:          e.newID(),
		Text:        seed.Text,
		Category:    seed.Category,
		Subject:     seed.Subject,
		Target:      seed.Target,
		Spin:        seed.Spin,
		CreatedTurn: turn,
		KnownBy:     e.witnesses(seed),
		Status:      domain.StatusActive,
	}
	if r.Category == "" {
		r.Category = domain.CategoryOther
	}
	if r.Spin == "" {
		r.Spin = domain.SpinNeutral
	}

	if err := e.store.Insert(r); err != nil {
		metrics.RumorsRejectedTotal.WithLabelValues(string(apperrors.AsStructuredError(err).Type)).Inc()
		return domain.Rumor{}, fmt.Errorf("failed to create rumor: %w", err)
	}

	metrics.RumorsCreatedTotal.WithLabelValues(string(r.Category)).Inc()
	metrics.RumorsCurrent.Set(float64(e.store.Count()))
	slog.InfoContext(logging.WithTurn(ctx, turn), "Rumor created",
		"rumor_id", r.ID,
		"category", r.Category,
		"subject", r.Subject,
		"known_by", len(r.KnownBy))
	return r, nil
}

// witnesses seeds KnownBy: explicit witnesses, else characters in focus, else the subject.
func (e *Engine) witnesses(seed domain.RumorSeed) []string {
	var out []string
	add := func(c string) {
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}

	for _, c := range seed.Witnesses {
		add(c)
	}
	if len(out) == 0 && e.directory != nil {
		for _, c := range e.directory.Characters() {
			if e.directory.InFocus(c) {
				add(c)
			}
		}
	}
	if len(out) == 0 {
		add(seed.Subject)
	}
	return out
}

// SpreadRumor tells rumor id to character to. Failures are logged, never returned.
func (e *Engine) SpreadRumor(ctx context.Context, id, from, to string) bool {
	ok, err := e.propagator.Spread(id, from, to)
	if err != nil {
		slog.DebugContext(ctx, "Spread skipped", "rumor_id", id, "from", from, "to", to, "error", err)
		return false
	}
	return ok
}

// AutoPropagate runs incidental gossip between from and to.
func (e *Engine) AutoPropagate(ctx context.Context, from, to string) int {
	n := e.propagator.AutoPropagate(from, to)
	if n > 0 {
		slog.DebugContext(ctx, "Incidental gossip", "from", from, "to", to, "rumors", n)
	}
	return n
}

// Verify marks rumor id as confirmed true. It has no lifecycle effect.
func (e *Engine) Verify(id string) bool {
	r, ok := e.store.Get(id)
	if !ok {
		return false
	}
	r.Verified = true
	return true
}

// ShouldSweep is the periodic trigger: every SweepEvery turns, or when count is over SweepCountTrigger.
func (e *Engine) ShouldSweep(turn, count int) bool {
	return turn%e.settings.SweepEvery == 0 || count > e.settings.SweepCountTrigger
}

// NeedsEviction is the capacity trigger, independent of ShouldSweep.
func (e *Engine) NeedsEviction(count int) bool {
	return e.evictor.NeedsEviction(count)
}

// MaybeRunMaintenance sweeps when the periodic trigger fires, then always evicts down to the hard cap.
// Call it once per turn, after all propagation for that turn.
func (e *Engine) MaybeRunMaintenance(ctx context.Context, turn, count int) MaintenanceReport {
	start := time.Now()
	ctx = logging.WithPass(logging.WithTurn(ctx, turn), logging.NewPassID())

	report := MaintenanceReport{Turn: turn}
	if e.ShouldSweep(turn, count) {
		result := e.sweeper.Run(turn)
		report.Swept = true
		report.Faded = result.Faded
		report.Archived = result.Archived
	}
	for _, r := range e.evictor.Run(turn) {
		report.Evicted = append(report.Evicted, r.ID)
	}
	report.Count = e.store.Count()

	metrics.MaintenanceRunsTotal.WithLabelValues(fmt.Sprintf("%t", report.Swept)).Inc()
	metrics.MaintenanceDuration.Observe(time.Since(start).Seconds())
	metrics.RumorsCurrent.Set(float64(report.Count))

	if len(report.Faded)+len(report.Archived)+len(report.Evicted) > 0 {
		slog.InfoContext(ctx, "Maintenance pass",
			"swept", report.Swept,
			"faded", len(report.Faded),
			"archived", len(report.Archived),
			"evicted", len(report.Evicted),
			"count", report.Count)
	} else {
		slog.DebugContext(ctx, "Maintenance pass", "swept", report.Swept, "count", report.Count)
	}
	return report
}

// All returns a read-only snapshot in creation order.
func (e *Engine) All() []domain.Rumor {
	return e.store.All()
}

func (e *Engine) Count() int {
	return e.store.Count()
}

// Get returns a copy of rumor id.
func (e *Engine) Get(id string) (domain.Rumor, bool) {
	r, ok := e.store.Get(id)
	if !ok {
		return domain.Rumor{}, false
	}
	return r.Clone(), true
}

// KnownByAny selects rumors known by at least one of characters, active ones first.
// Creation order is kept within each group.
func (e *Engine) KnownByAny(characters ...string) []domain.Rumor {
	var active, rest []domain.Rumor
	for _, r := range e.store.All() {
		if !slices.ContainsFunc(characters, r.Knows) {
			continue
		}
		if r.EffectiveStatus() == domain.StatusActive {
			active = append(active, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(active, rest...)
}

// Restore loads a serialized rumor list into the store. Records that fail to
// decode or insert are skipped and reported; the rest are kept.
func (e *Engine) Restore(ctx context.Context, data []byte) (int, []error) {
	rumors, errs := DecodeRumors(data)
	restored := 0
	for _, r := range rumors {
		if err := e.store.Insert(r); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore rumor %q: %w", r.ID, err))
			continue
		}
		restored++
	}
	metrics.RumorsCurrent.Set(float64(e.store.Count()))

	if len(errs) > 0 {
		slog.WarnContext(ctx, "Restore skipped malformed rumors", "restored", restored, "skipped", len(errs))
	}
	return restored, errs
}

// DecodeRumors parses a JSON array of rumors and migrates missing statuses to active.
// A malformed element is reported and skipped without failing the rest.
func DecodeRumors(data []byte) ([]domain.Rumor, []error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, []error{apperrors.MalformedInputError("rumor list is not a JSON array").WithCause(err)}
	}

	var (
		rumors []domain.Rumor
		errs   []error
	)
	for i, item := range raw {
		var r domain.Rumor
		if err := json.Unmarshal(item, &r); err != nil {
			errs = append(errs, apperrors.MalformedInputError("rumor record is malformed").
				WithContext("index", i).
				WithCause(err))
			continue
		}
		r.Status = r.Status.Normalize()
		rumors = append(rumors, r)
	}
	return rumors, errs
}
