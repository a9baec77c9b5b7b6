package domain

// CharacterDirectory answers questions about the simulation's cast.
// It is owned by the host; the gossip core only reads from it.
type CharacterDirectory interface {
	Characters() []string
	IsImportant(characterID string) bool
	InFocus(characterID string) bool
}

// EventDetector decides whether a piece of narrative text is rumor-worthy.
type EventDetector interface {
	Detect(text string) (RumorSeed, bool)
}

// RandSource supplies uniform rolls in [0, 1). Seedable so propagation is reproducible.
type RandSource interface {
	Float64() float64
}

// RemovalReason tells an ArchiveSink why a rumor left the store.
type RemovalReason string

const (
	RemovalArchived RemovalReason = "archived"
	RemovalEvicted  RemovalReason = "evicted"
)

// ArchiveSink receives rumors just before they are dropped from the store.
// Hosts that want long-term recall keep their own bounded copy.
type ArchiveSink interface {
	Retire(rumor Rumor, reason RemovalReason, turn int)
}
