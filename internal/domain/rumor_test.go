package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Normalize(t *testing.T) {
	assert.Equal(t, StatusActive, Status("").Normalize())
	assert.Equal(t, StatusFaded, StatusFaded.Normalize())
	assert.Equal(t, StatusActive, Status("ACTIVE").Normalize())
	assert.Equal(t, StatusFaded, Status(" Faded ").Normalize())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, Status("").Valid())
	assert.True(t, StatusArchived.Valid())
	assert.True(t, Status("ARCHIVED").Valid())
	assert.False(t, Status("rotten").Valid())
}

func TestStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusFaded, true},
		{StatusActive, StatusArchived, true},
		{StatusFaded, StatusArchived, true},
		{"", StatusFaded, true},
		{"ACTIVE", StatusFaded, true},
		{StatusFaded, StatusActive, false},
		{StatusArchived, StatusFaded, false},
		{StatusFaded, StatusFaded, false},
		{StatusActive, "rotten", false},
		{"rotten", StatusFaded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to), "%q -> %q", tt.from, tt.to)
	}
}

func TestRumor_Knows(t *testing.T) {
	r := Rumor{KnownBy: []string{"mira", "tomas"}}

	assert.True(t, r.Knows("tomas"))
	assert.False(t, r.Knows("edda"))
}

func TestRumor_EffectiveStatus(t *testing.T) {
	legacy := Rumor{}
	assert.Equal(t, StatusActive, legacy.EffectiveStatus())
}

func TestRumor_CloneIsDeep(t *testing.T) {
	faded := 12
	r := Rumor{ID: "a", KnownBy: []string{"mira"}, FadedAtTurn: &faded}

	c := r.Clone()
	c.KnownBy[0] = "changed"
	*c.FadedAtTurn = 99

	assert.Equal(t, "mira", r.KnownBy[0])
	require.NotNil(t, r.FadedAtTurn)
	assert.Equal(t, 12, *r.FadedAtTurn)
}
