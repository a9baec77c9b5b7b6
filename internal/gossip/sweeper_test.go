package gossip

import (
	"fmt"
	"testing"

	"github.com/pscheid92/rumormill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSweeper(t *testing.T, dir domain.CharacterDirectory, rumors ...domain.Rumor) (*Sweeper, *Store) {
	t.Helper()
	s := NewStore()
	for _, r := range rumors {
		require.NoError(t, s.Insert(r))
	}
	return NewSweeper(s, dir, 0.75, 50), s
}

func knownByFirst(n int) []string {
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, fmt.Sprintf("c%d", i))
	}
	return out
}

func TestSweep_FadesAtThreshold(t *testing.T) {
	sw, s := newTestSweeper(t, castOf(4), rumorAt("a", 1, knownByFirst(3)...))

	result := sw.Run(10)

	assert.Equal(t, []string{"a"}, result.Faded)
	r, _ := s.Get("a")
	assert.Equal(t, domain.StatusFaded, r.Status)
	require.NotNil(t, r.FadedAtTurn)
	assert.Equal(t, 10, *r.FadedAtTurn)
}

func TestSweep_BelowThresholdStaysActive(t *testing.T) {
	// 74 of 100 important characters is 74%.
	sw, s := newTestSweeper(t, castOf(100), rumorAt("a", 1, knownByFirst(74)...))

	result := sw.Run(10)

	assert.Empty(t, result.Faded)
	r, _ := s.Get("a")
	assert.Equal(t, domain.StatusActive, r.Status)
	assert.Nil(t, r.FadedAtTurn)
}

func TestSweep_ExactlySeventyFivePercentOfHundred(t *testing.T) {
	sw, s := newTestSweeper(t, castOf(100), rumorAt("a", 1, knownByFirst(75)...))

	sw.Run(10)

	r, _ := s.Get("a")
	assert.Equal(t, domain.StatusFaded, r.Status)
}

func TestSweep_OnlyImportantCharactersCount(t *testing.T) {
	dir := &staticDirectory{
		characters: []string{"c0", "c1", "c2", "c3", "extra1", "extra2", "extra3"},
		important:  []string{"c0", "c1", "c2", "c3"},
	}
	sw, s := newTestSweeper(t, dir, rumorAt("a", 1, "c0", "c1", "extra1", "extra2", "extra3"))

	sw.Run(10)

	r, _ := s.Get("a")
	assert.Equal(t, domain.StatusActive, r.Status, "2 of 4 important characters is below the threshold")
}

func TestSweep_NoImportantCharactersNothingFades(t *testing.T) {
	dir := &staticDirectory{characters: []string{"c0", "c1"}}
	sw, s := newTestSweeper(t, dir, rumorAt("a", 1, "c0", "c1"))

	result := sw.Run(10)

	assert.Empty(t, result.Faded)
	r, _ := s.Get("a")
	assert.Equal(t, domain.StatusActive, r.Status)
}

func TestSweep_ArchiveWindow(t *testing.T) {
	tests := []struct {
		name        string
		fadedAt     int
		turn        int
		wantRemoved bool
	}{
		{"exactly fifty turns", 50, 100, false},
		{"fifty one turns", 49, 100, true},
		{"just faded", 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw, s := newTestSweeper(t, castOf(4), fadedAt("a", 1, tt.fadedAt, "c0"))

			result := sw.Run(tt.turn)

			_, present := s.Get("a")
			assert.Equal(t, !tt.wantRemoved, present)
			if tt.wantRemoved {
				assert.Equal(t, []string{"a"}, result.Archived)
			} else {
				assert.Empty(t, result.Archived)
			}
		})
	}
}

func TestSweep_FadedWithoutTurnStartsWindow(t *testing.T) {
	foreign := fadedAt("a", 1, 0, "c0")
	foreign.FadedAtTurn = nil
	sw, s := newTestSweeper(t, castOf(4), foreign)

	result := sw.Run(200)

	assert.Empty(t, result.Archived)
	r, ok := s.Get("a")
	require.True(t, ok)
	require.NotNil(t, r.FadedAtTurn)
	assert.Equal(t, 200, *r.FadedAtTurn)

	sw.Run(251)
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestSweep_LegacyStatusTreatedAsActive(t *testing.T) {
	legacy := rumorAt("a", 1, knownByFirst(4)...)
	sw, s := newTestSweeper(t, castOf(4), legacy)
	live, _ := s.Get("a")
	live.Status = ""

	assert.NotPanics(t, func() { sw.Run(10) })

	assert.Equal(t, domain.StatusFaded, live.Status)
}

func TestSweep_IdempotentWithinTurn(t *testing.T) {
	sw, s := newTestSweeper(t, castOf(4),
		rumorAt("fading", 1, knownByFirst(3)...),
		rumorAt("active", 1, "c0"),
		fadedAt("old", 1, 10, "c0"),
	)

	first := sw.Run(75)
	snapshot := s.All()
	second := sw.Run(75)

	assert.Equal(t, []string{"fading"}, first.Faded)
	assert.Equal(t, []string{"old"}, first.Archived)
	assert.Empty(t, second.Faded)
	assert.Empty(t, second.Archived)
	assert.Equal(t, snapshot, s.All())
}

func TestSweep_OrderIndependent(t *testing.T) {
	build := func(order []string) map[string]domain.Status {
		byID := map[string]domain.Rumor{
			"fading": rumorAt("fading", 1, knownByFirst(3)...),
			"active": rumorAt("active", 2, "c0"),
			"old":    fadedAt("old", 1, 10, "c0"),
			"young":  fadedAt("young", 1, 60, "c0"),
		}
		rumors := make([]domain.Rumor, 0, len(order))
		for _, id := range order {
			rumors = append(rumors, byID[id])
		}
		sw, s := newTestSweeper(t, castOf(4), rumors...)
		sw.Run(75)

		out := make(map[string]domain.Status)
		for _, r := range s.All() {
			out[r.ID] = r.Status
		}
		return out
	}

	forward := build([]string{"fading", "active", "old", "young"})
	reverse := build([]string{"young", "old", "active", "fading"})

	assert.Equal(t, forward, reverse)
	assert.Equal(t, map[string]domain.Status{
		"fading": domain.StatusFaded,
		"active": domain.StatusActive,
		"young":  domain.StatusFaded,
	}, forward)
}

func TestSweep_ArchiveSinkReceivesRecord(t *testing.T) {
	sink := &recordingSink{}
	sw, _ := newTestSweeper(t, castOf(4), fadedAt("a", 1, 10, "c0"))
	sw.sink = sink

	sw.Run(61)

	require.Len(t, sink.retired, 1)
	assert.Equal(t, retirement{ID: "a", Reason: domain.RemovalArchived, Turn: 61, Status: domain.StatusArchived}, sink.retired[0])
}
