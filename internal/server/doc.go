// Package server exposes the running simulation over HTTP using Echo.
//
// Routes: health, Prometheus metrics, and a small JSON API to inspect rumors and feed narrative text.
// Handlers split by concern: handlers_health.go, handlers_api.go.
package server
