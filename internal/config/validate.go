package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.Server.WSURL == "" {
		return errors.New("server.ws_url is required")
	}
	if c.Server.APIURL == "" {
		return errors.New("server.api_url is required")
	}

	if c.Session.MaxPosition < 0 {
		return fmt.Errorf("session.max_position must be >= 0, got %v", c.Session.MaxPosition)
	}
	if c.Session.QueueSize < 1 {
		return errors.New("session.queue_size must be >= 1")
	}

	if c.Identity.TokenPath == "" {
		return errors.New("identity.token_path is required")
	}

	if c.Replay.Interval < 0 {
		return fmt.Errorf("replay.interval must be >= 0, got %v", c.Replay.Interval)
	}

	return nil
}
