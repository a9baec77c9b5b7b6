package gossip

import (
	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/pscheid92/rumormill/internal/metrics"
)

// Evictor keeps the store at or below a hard cap by removing the least relevant
// rumor one at a time. Evicted rumors skip the FADED state entirely.
type Evictor struct {
	store   *Store
	hardCap int
	sink    domain.ArchiveSink
}

func NewEvictor(store *Store, hardCap int) *Evictor {
	return &Evictor{
		store:   store,
		hardCap: hardCap,
	}
}

// NeedsEviction reports whether count is over the hard cap.
func (e *Evictor) NeedsEviction(count int) bool {
	return count > e.hardCap
}

// Run evicts until the store holds at most hardCap rumors and returns the evicted records.
func (e *Evictor) Run(turn int) []domain.Rumor {
	var evicted []domain.Rumor
	for e.store.Count() > 0 && e.NeedsEviction(e.store.Count()) {
		victim := e.leastRelevant(turn)
		removed := e.store.RemoveWhere(func(r *domain.Rumor) bool {
			return r.ID == victim
		})
		for _, r := range removed {
			if e.sink != nil {
				e.sink.Retire(r, domain.RemovalEvicted, turn)
			}
			evicted = append(evicted, r)
		}
	}
	metrics.RumorsEvictedTotal.Add(float64(len(evicted)))
	return evicted
}

// leastRelevant picks the minimum by relevance, then earliest CreatedTurn.
// Remaining ties go to the earliest inserted, since only strict improvements replace the pick.
func (e *Evictor) leastRelevant(turn int) string {
	var (
		victim    *domain.Rumor
		bestScore int
	)
	e.store.each(func(r *domain.Rumor) {
		score := Relevance(r, turn)
		if victim == nil || score < bestScore || (score == bestScore && r.CreatedTurn < victim.CreatedTurn) {
			victim = r
			bestScore = score
		}
	})
	return victim.ID
}
