package gossip

import "github.com/pscheid92/rumormill/internal/domain"

// Relevance scores a rumor at turn: two points per knower, minus one per turn of age.
// Higher means more widely known and more recent.
func Relevance(r *domain.Rumor, turn int) int {
	return 2*len(r.KnownBy) - (turn - r.CreatedTurn)
}
