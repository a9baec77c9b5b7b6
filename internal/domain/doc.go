// Package domain defines the rumor record, its lifecycle states, and the
// narrow interfaces the gossip core consumes from its host.
//
// No implementation code beyond small value helpers. Interfaces live here so
// gossip, sim and server can share them without importing each other.
package domain
