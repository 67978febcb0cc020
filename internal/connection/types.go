package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL               string        // WebSocket URL (e.g., wss://marketmade.io/socket)
	PingTimeout       time.Duration // Max time without ping before considering connection stale
	HeartbeatInterval time.Duration // How often we ping the authority ourselves
	PingPayload       string        // Payload carried on our outbound pings
	WriteTimeout      time.Duration // Write deadline for sends
	BufferSize        int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:       60 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PingPayload:       "marketmade-client",
		WriteTimeout:      5 * time.Second,
		BufferSize:        4096,
	}
}
