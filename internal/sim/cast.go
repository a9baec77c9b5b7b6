package sim

import (
	"fmt"
	"math"
	"slices"
)

var villagers = []string{
	"mira", "tomas", "edda", "jonas", "greta", "anselm", "ilse", "bertram",
	"hanne", "konrad", "lotte", "wendel", "frieda", "oswin", "marthe", "ulrich",
}

// Cast is the village: a fixed set of characters, the leading share of them
// important, and a focus window that rotates one character per turn.
// It implements domain.CharacterDirectory.
type Cast struct {
	names     []string
	important map[string]bool
	focusSize int
	offset    int
}

func NewCast(size int, importantRatio float64, focusSize int) *Cast {
	names := make([]string, 0, size)
	for i := range size {
		if i < len(villagers) {
			names = append(names, villagers[i])
		} else {
			names = append(names, fmt.Sprintf("villager-%d", i))
		}
	}

	importantCount := int(math.Round(float64(size) * importantRatio))
	important := make(map[string]bool, importantCount)
	for _, n := range names[:importantCount] {
		important[n] = true
	}

	return &Cast{
		names:     names,
		important: important,
		focusSize: min(focusSize, size),
	}
}

func (c *Cast) Characters() []string {
	return slices.Clone(c.names)
}

func (c *Cast) IsImportant(id string) bool {
	return c.important[id]
}

func (c *Cast) InFocus(id string) bool {
	return slices.Contains(c.Focus(), id)
}

// Focus lists the characters currently in the scene.
func (c *Cast) Focus() []string {
	focus := make([]string, 0, c.focusSize)
	for i := range c.focusSize {
		focus = append(focus, c.names[(c.offset+i)%len(c.names)])
	}
	return focus
}

// Advance moves the focus window to the next character.
func (c *Cast) Advance() {
	if len(c.names) > 0 {
		c.offset = (c.offset + 1) % len(c.names)
	}
}
