// Package sim hosts a rumor engine inside a small turn-driven village.
//
// Runner is an actor: one goroutine owns the gossip engine and every caller
// (turn ticker, HTTP handlers, CLI) talks to it through a command channel.
package sim
