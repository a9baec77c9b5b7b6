package gossip

import (
	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/pscheid92/rumormill/internal/metrics"
)

// SweepResult lists the rumor ids that changed state in one sweep.
type SweepResult struct {
	Faded    []string
	Archived []string
}

// Sweeper runs the ACTIVE -> FADED -> ARCHIVED state machine over the whole store.
// Each rumor's transition depends only on its own fields and the turn, so
// evaluation order never matters and a second run in the same turn is a no-op.
type Sweeper struct {
	store         *Store
	directory     domain.CharacterDirectory
	fadeThreshold float64
	archiveWindow int
	sink          domain.ArchiveSink
}

func NewSweeper(store *Store, directory domain.CharacterDirectory, fadeThreshold float64, archiveWindow int) *Sweeper {
	return &Sweeper{
		store:         store,
		directory:     directory,
		fadeThreshold: fadeThreshold,
		archiveWindow: archiveWindow,
	}
}

func (s *Sweeper) Run(turn int) SweepResult {
	var result SweepResult
	important := s.importantCharacters()

	s.store.each(func(r *domain.Rumor) {
		r.Status = r.EffectiveStatus()
		switch r.Status {
		case domain.StatusActive:
			if s.shouldFade(r, important) && advance(r, domain.StatusFaded) {
				faded := turn
				r.FadedAtTurn = &faded
				result.Faded = append(result.Faded, r.ID)
			}
		case domain.StatusFaded:
			// Foreign records can arrive faded without a turn; start their window now.
			if r.FadedAtTurn == nil {
				faded := turn
				r.FadedAtTurn = &faded
			}
		}
	})

	archived := s.store.RemoveWhere(func(r *domain.Rumor) bool {
		return r.Status == domain.StatusFaded && turn-*r.FadedAtTurn > s.archiveWindow
	})
	for _, r := range archived {
		if s.sink != nil {
			advance(&r, domain.StatusArchived)
			s.sink.Retire(r, domain.RemovalArchived, turn)
		}
		result.Archived = append(result.Archived, r.ID)
	}

	metrics.RumorTransitionsTotal.WithLabelValues(string(domain.StatusFaded)).Add(float64(len(result.Faded)))
	metrics.RumorTransitionsTotal.WithLabelValues(string(domain.StatusArchived)).Add(float64(len(result.Archived)))
	return result
}

// advance moves r forward to next. Backward or repeated transitions are refused.
func advance(r *domain.Rumor, next domain.Status) bool {
	if !r.Status.CanAdvanceTo(next) {
		return false
	}
	r.Status = next
	return true
}

func (s *Sweeper) importantCharacters() map[string]struct{} {
	important := make(map[string]struct{})
	for _, c := range s.directory.Characters() {
		if s.directory.IsImportant(c) {
			important[c] = struct{}{}
		}
	}
	return important
}

// shouldFade reports whether enough important characters know r.
// With no important characters the ratio is undefined and nothing fades.
func (s *Sweeper) shouldFade(r *domain.Rumor, important map[string]struct{}) bool {
	if len(important) == 0 {
		return false
	}
	known := 0
	for _, c := range r.KnownBy {
		if _, ok := important[c]; ok {
			known++
		}
	}
	return float64(known)/float64(len(important)) >= s.fadeThreshold
}
