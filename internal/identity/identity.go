// Package identity manages the persistent client token. The authority keys a
// player's session on this token, not on the connection, so surviving a
// reconnect (or a restart) without losing the seat means the token must
// outlive the process.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreate returns the token stored at path, creating a fresh UUID and
// writing it first if the file does not exist. A corrupt file is an error
// rather than a silent regenerate: regenerating would orphan any live seat.
func LoadOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		token := strings.TrimSpace(string(data))
		if _, parseErr := uuid.Parse(token); parseErr != nil {
			return "", fmt.Errorf("token file %s: %w", path, parseErr)
		}
		return token, nil
	case os.IsNotExist(err):
		token := uuid.NewString()
		if err := write(path, token); err != nil {
			return "", err
		}
		return token, nil
	default:
		return "", fmt.Errorf("read token file %s: %w", path, err)
	}
}

func write(path, token string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file %s: %w", path, err)
	}
	return nil
}
