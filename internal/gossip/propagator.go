package gossip

import (
	"github.com/pscheid92/rumormill/internal/domain"
	apperrors "github.com/pscheid92/rumormill/internal/errors"
	"github.com/pscheid92/rumormill/internal/metrics"
)

// Propagator moves knowledge of a rumor from one character to another.
// It writes KnownBy and Distortion only; lifecycle state belongs to the Sweeper and Evictor.
type Propagator struct {
	store          *Store
	rng            domain.RandSource
	spreadChance   float64
	distortionStep float64
}

func NewPropagator(store *Store, rng domain.RandSource, spreadChance, distortionStep float64) *Propagator {
	return &Propagator{
		store:          store,
		rng:            rng,
		spreadChance:   spreadChance,
		distortionStep: distortionStep,
	}
}

// Spread tells rumor id to character to. It returns (false, nil) when to already knows it.
// from is not checked: deliberate telling may come from a character outside KnownBy.
func (p *Propagator) Spread(id, from, to string) (bool, error) {
	r, ok := p.store.Get(id)
	if !ok {
		metrics.RumorSpreadsTotal.WithLabelValues("not_found").Inc()
		return false, apperrors.NotFoundError("rumor not found").WithContext("rumor_id", id)
	}
	if status := r.EffectiveStatus(); status != domain.StatusActive {
		metrics.RumorSpreadsTotal.WithLabelValues("not_active").Inc()
		return false, apperrors.InvalidTransitionError("only active rumors spread").
			WithContext("rumor_id", id).
			WithContext("status", string(status)).
			WithContext("from", from)
	}
	if r.Knows(to) {
		metrics.RumorSpreadsTotal.WithLabelValues("already_known").Inc()
		return false, nil
	}

	r.KnownBy = append(r.KnownBy, to)
	r.Distortion += p.distortionStep
	metrics.RumorSpreadsTotal.WithLabelValues("spread").Inc()
	return true, nil
}

// AutoPropagate models incidental gossip: every active rumor from knows gets an
// independent roll, and rolls below the spread chance pass it on to to.
// Returns the number of rumors that reached to.
func (p *Propagator) AutoPropagate(from, to string) int {
	var candidates []string
	p.store.each(func(r *domain.Rumor) {
		if r.EffectiveStatus() == domain.StatusActive && r.Knows(from) {
			candidates = append(candidates, r.ID)
		}
	})

	spread := 0
	for _, id := range candidates {
		if p.rng.Float64() >= p.spreadChance {
			metrics.RumorAutoPropagateRolls.WithLabelValues("miss").Inc()
			continue
		}
		metrics.RumorAutoPropagateRolls.WithLabelValues("hit").Inc()
		if ok, _ := p.Spread(id, from, to); ok {
			spread++
		}
	}
	return spread
}
