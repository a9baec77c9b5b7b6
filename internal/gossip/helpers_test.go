package gossip

import (
	"fmt"
	"slices"

	"github.com/pscheid92/rumormill/internal/domain"
)

// --- Fakes ---

type staticDirectory struct {
	characters []string
	important  []string
	focus      []string
}

func (d *staticDirectory) Characters() []string { return d.characters }

func (d *staticDirectory) IsImportant(id string) bool { return slices.Contains(d.important, id) }

func (d *staticDirectory) InFocus(id string) bool { return slices.Contains(d.focus, id) }

// scriptedRand replays rolls in order and repeats the last one when exhausted.
type scriptedRand struct {
	rolls []float64
	calls int
}

func (r *scriptedRand) Float64() float64 {
	i := min(r.calls, len(r.rolls)-1)
	r.calls++
	return r.rolls[i]
}

type retirement struct {
	ID     string
	Reason domain.RemovalReason
	Turn   int
	Status domain.Status
}

type recordingSink struct {
	retired []retirement
}

func (s *recordingSink) Retire(r domain.Rumor, reason domain.RemovalReason, turn int) {
	s.retired = append(s.retired, retirement{ID: r.ID, Reason: reason, Turn: turn, Status: r.Status})
}

// --- Helpers ---

// castOf returns a directory with n characters c0..c(n-1), all important.
func castOf(n int) *staticDirectory {
	d := &staticDirectory{}
	for i := range n {
		c := fmt.Sprintf("c%d", i)
		d.characters = append(d.characters, c)
		d.important = append(d.important, c)
	}
	return d
}

func rumorAt(id string, turn int, knownBy ...string) domain.Rumor {
	return domain.Rumor{
		ID:          id,
		Text:        "rumor " + id,
		Category:    domain.CategoryOther,
		Subject:     knownBy[0],
		Spin:        domain.SpinNeutral,
		CreatedTurn: turn,
		KnownBy:     knownBy,
		Status:      domain.StatusActive,
	}
}

func fadedAt(id string, createdTurn, fadedTurn int, knownBy ...string) domain.Rumor {
	r := rumorAt(id, createdTurn, knownBy...)
	r.Status = domain.StatusFaded
	r.FadedAtTurn = &fadedTurn
	return r
}

func ids(rumors []domain.Rumor) []string {
	out := make([]string, 0, len(rumors))
	for _, r := range rumors {
		out = append(out, r.ID)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("r-%03d", n)
	}
}

func newTestEngine(dir *staticDirectory, rng domain.RandSource, opts ...Option) (*Engine, *Store) {
	store := NewStore()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return New(store, dir, NewKeywordDetector(dir), rng, DefaultSettings(), opts...), store
}
