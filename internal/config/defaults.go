package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultWSURL          = "wss://marketmade.io/socket"
	DefaultAPIURL         = "https://marketmade.io"
	DefaultMaxPosition    = 20
	DefaultQueueSize      = 1024
	DefaultReplayInterval = 700 * time.Millisecond
)

// DefaultTokenPath is where the persistent client token lives unless
// configured otherwise.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".market-made-token"
	}
	return filepath.Join(home, ".market-made", "token")
}

func (c *ClientConfig) applyDefaults() {
	if c.Server.WSURL == "" {
		c.Server.WSURL = DefaultWSURL
	}
	if c.Server.APIURL == "" {
		c.Server.APIURL = DefaultAPIURL
	}

	if c.Session.MaxPosition == 0 {
		c.Session.MaxPosition = DefaultMaxPosition
	}
	if c.Session.QueueSize == 0 {
		c.Session.QueueSize = DefaultQueueSize
	}

	if c.Identity.TokenPath == "" {
		c.Identity.TokenPath = DefaultTokenPath()
	}

	if c.Replay.Interval == 0 {
		c.Replay.Interval = DefaultReplayInterval
	}
}
