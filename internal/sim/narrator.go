package sim

import (
	"fmt"
	"strings"

	"github.com/pscheid92/rumormill/internal/domain"
)

// Templates take subject then target. Some are deliberately mundane so not
// every turn produces a rumor.
var lineTemplates = []string{
	"%s kissed %s behind the mill.",
	"%s was seen flirting with %s at the harvest dance.",
	"%s fought %s over a stray goat.",
	"%s threatened %s in the market square.",
	"%s stole bread and blamed %s.",
	"%s saved %s from the flooded river.",
	"%s whispered a secret to %s by the well.",
	"%s secretly met %s after dark.",
	"%s shared lunch with %s.",
	"%s walked to the chapel with %s.",
	"%s mended a fence while %s watched.",
}

// Narrator produces one line of village narrative per turn.
type Narrator struct {
	rng domain.RandSource
}

func NewNarrator(rng domain.RandSource) *Narrator {
	return &Narrator{rng: rng}
}

// Line picks a template and two distinct characters from characters.
func (n *Narrator) Line(characters []string) string {
	if len(characters) < 2 {
		return ""
	}
	template := lineTemplates[pick(n.rng, len(lineTemplates))]
	subject, target := pickPair(n.rng, characters)
	return fmt.Sprintf(template, capitalize(subject), capitalize(target))
}

// pick returns a uniform index in [0, n).
func pick(rng domain.RandSource, n int) int {
	return min(int(rng.Float64()*float64(n)), n-1)
}

// pickPair returns two distinct members of characters. len(characters) must be at least 2.
func pickPair(rng domain.RandSource, characters []string) (string, string) {
	i := pick(rng, len(characters))
	j := pick(rng, len(characters)-1)
	if j >= i {
		j++
	}
	return characters[i], characters[j]
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
