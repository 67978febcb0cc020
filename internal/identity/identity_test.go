package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestLoadOrCreate_CreatesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	token, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := uuid.Parse(token); err != nil {
		t.Errorf("token %q is not a UUID: %v", token, err)
	}

	// Second call must return the same token.
	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate failed: %v", err)
	}
	if again != token {
		t.Errorf("token changed across loads: %q then %q", token, again)
	}
}

func TestLoadOrCreate_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	want := uuid.NewString()
	if err := os.WriteFile(path, []byte("  "+want+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	token, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if token != want {
		t.Errorf("token = %q, want %q", token, want)
	}
}

func TestLoadOrCreate_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("not-a-uuid"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOrCreate(path); err == nil {
		t.Error("expected error for corrupt token file")
	}
}

func TestLoadOrCreate_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")

	token, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
}
