// Package gossip owns the rumor lifecycle: creation from narrative text,
// probabilistic propagation between characters, the ACTIVE -> FADED -> ARCHIVED
// sweep, and least-relevant-first eviction under a hard cap.
//
// Nothing here is safe for concurrent use. The host calls in from a single
// goroutine, one turn at a time, and must finish propagation before running
// maintenance for that turn.
package gossip
