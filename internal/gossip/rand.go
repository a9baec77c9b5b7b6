package gossip

import (
	"math/rand/v2"

	"github.com/pscheid92/rumormill/internal/domain"
)

// NewRandSource returns a seeded PCG generator. Equal seeds replay equal propagation.
func NewRandSource(seed uint64) domain.RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
