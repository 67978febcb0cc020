// Package config loads and validates the client's YAML configuration.
package config

import "time"

// ClientConfig is the top-level configuration for the market client.
type ClientConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Identity IdentityConfig `yaml:"identity"`
	Replay   ReplayConfig   `yaml:"replay"`
}

// ServerConfig points at the market authority.
type ServerConfig struct {
	WSURL  string `yaml:"ws_url"`  // WebSocket endpoint
	APIURL string `yaml:"api_url"` // REST endpoint (game creation)
}

// SessionConfig configures the market session.
type SessionConfig struct {
	GameID      string  `yaml:"game_id"`
	PlayerName  string  `yaml:"player_name"`
	MaxPosition float64 `yaml:"max_position"` // Absolute position cap
	QueueSize   int     `yaml:"queue_size"`   // Initial intake queue capacity
}

// IdentityConfig locates the persistent client token.
type IdentityConfig struct {
	TokenPath string `yaml:"token_path"`
}

// ReplayConfig configures log playback.
type ReplayConfig struct {
	LogPath  string        `yaml:"log_path"`
	Interval time.Duration `yaml:"interval"` // Delay between replayed events
}
