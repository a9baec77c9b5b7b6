// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
// Validates the gossip tuning knobs and simulation shape before anything starts.
package config
