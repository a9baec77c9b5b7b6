package domain

import (
	"slices"
	"strings"
)

// Status is the lifecycle state of a rumor. Only ACTIVE rumors propagate.
type Status string

const (
	StatusActive   Status = "active"
	StatusFaded    Status = "faded"
	StatusArchived Status = "archived"
)

// statusOrder ranks states so transitions can only move forward.
var statusOrder = map[Status]int{
	StatusActive:   0,
	StatusFaded:    1,
	StatusArchived: 2,
}

// Normalize migrates a missing status (legacy or foreign records) to StatusActive
// and folds foreign spellings such as "FADED" to the canonical lower case.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusActive
	}
	return Status(strings.ToLower(strings.TrimSpace(string(s))))
}

// Valid reports whether s is one of the known states after normalization.
func (s Status) Valid() bool {
	_, ok := statusOrder[s.Normalize()]
	return ok
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
func (s Status) CanAdvanceTo(next Status) bool {
	from, ok := statusOrder[s.Normalize()]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// Category classifies the kind of event a rumor is about. Informational only.
type Category string

const (
	CategoryRomance    Category = "romance"
	CategoryConflict   Category = "conflict"
	CategoryReputation Category = "reputation"
	CategorySecret     Category = "secret"
	CategoryOther      Category = "other"
)

// Spin is the valence attached to a rumor at creation.
type Spin string

const (
	SpinNeutral  Spin = "neutral"
	SpinPositive Spin = "positive"
	SpinNegative Spin = "negative"
)

// Rumor is a unit of socially propagating information.
//
// KnownBy is an ordered set: it only grows, and never holds duplicates.
// FadedAtTurn is nil while the rumor is ACTIVE.
type Rumor struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Category    Category `json:"category" yaml:"category"`
	Subject     string   `json:"subject" yaml:"subject"`
	Target      string   `json:"target,omitempty" yaml:"target,omitempty"`
	Spin        Spin     `json:"spin" yaml:"spin"`
	CreatedTurn int      `json:"created_turn" yaml:"created_turn"`
	KnownBy     []string `json:"known_by" yaml:"known_by"`
	Distortion  float64  `json:"distortion" yaml:"distortion"`
	Verified    bool     `json:"verified" yaml:"verified"`
	Status      Status   `json:"status,omitempty" yaml:"status,omitempty"`
	FadedAtTurn *int     `json:"faded_at_turn,omitempty" yaml:"faded_at_turn,omitempty"`
}

// Knows reports whether character is in KnownBy.
func (r *Rumor) Knows(character string) bool {
	return slices.Contains(r.KnownBy, character)
}

// EffectiveStatus returns the status with the legacy default applied.
func (r *Rumor) EffectiveStatus() Status {
	return r.Status.Normalize()
}

// Clone returns a deep copy safe to hand out as a read-only snapshot.
func (r *Rumor) Clone() Rumor {
	c := *r
	c.KnownBy = slices.Clone(r.KnownBy)
	if r.FadedAtTurn != nil {
		faded := *r.FadedAtTurn
		c.FadedAtTurn = &faded
	}
	return c
}

// RumorSeed is what an event detector (or a host) supplies to create a rumor.
// Witnesses is optional; when empty the engine seeds KnownBy from characters in focus.
type RumorSeed struct {
	Text      string
	Category  Category
	Subject   string
	Target    string
	Spin      Spin
	Witnesses []string
}
