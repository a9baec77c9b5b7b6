package gossip

import (
	"github.com/pscheid92/rumormill/internal/domain"
	apperrors "github.com/pscheid92/rumormill/internal/errors"
)

// Store is the ordered, in-memory collection of live rumors.
// Insertion order is preserved and survives removals. It holds no policy.
type Store struct {
	rumors []*domain.Rumor
	byID   map[string]*domain.Rumor
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]*domain.Rumor),
	}
}

// Insert appends a copy of r. A missing status is migrated to active, KnownBy is
// reduced to a set in first-seen order and a negative distortion is reset to zero.
func (s *Store) Insert(r domain.Rumor) error {
	if r.ID == "" {
		return apperrors.MalformedInputError("rumor has no id")
	}
	knownBy := uniqueCharacters(r.KnownBy)
	if len(knownBy) == 0 {
		return apperrors.MalformedInputError("rumor has no witnesses").WithContext("rumor_id", r.ID)
	}
	status := r.Status.Normalize()
	if !status.Valid() || status == domain.StatusArchived {
		return apperrors.MalformedInputError("rumor status cannot be stored").
			WithContext("rumor_id", r.ID).
			WithContext("status", string(r.Status))
	}
	if _, exists := s.byID[r.ID]; exists {
		return apperrors.ConflictError("rumor already exists").WithContext("rumor_id", r.ID)
	}

	stored := r.Clone()
	stored.Status = status
	stored.KnownBy = knownBy
	stored.Distortion = max(stored.Distortion, 0)
	s.rumors = append(s.rumors, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

// uniqueCharacters drops blanks and repeats, keeping first occurrences in order.
func uniqueCharacters(characters []string) []string {
	seen := make(map[string]struct{}, len(characters))
	out := make([]string, 0, len(characters))
	for _, c := range characters {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Get returns the live record for id. Callers inside the package mutate it in place.
func (s *Store) Get(id string) (*domain.Rumor, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// RemoveWhere deletes every rumor matching pred and returns them in store order.
func (s *Store) RemoveWhere(pred func(*domain.Rumor) bool) []domain.Rumor {
	var removed []domain.Rumor
	kept := s.rumors[:0]
	for _, r := range s.rumors {
		if pred(r) {
			removed = append(removed, *r)
			delete(s.byID, r.ID)
			continue
		}
		kept = append(kept, r)
	}
	clear(s.rumors[len(kept):])
	s.rumors = kept
	return removed
}

// All returns a deep-copied snapshot in insertion order.
func (s *Store) All() []domain.Rumor {
	out := make([]domain.Rumor, 0, len(s.rumors))
	for _, r := range s.rumors {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) Count() int {
	return len(s.rumors)
}

// each visits live records in insertion order.
func (s *Store) each(fn func(r *domain.Rumor)) {
	for _, r := range s.rumors {
		fn(r)
	}
}
