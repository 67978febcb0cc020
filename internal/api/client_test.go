package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{
			StatusCode: 404,
			Message:    "Not Found",
		}
		expected := "api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code string
			err  *APIError
			want bool
		}{
			{"500", &APIError{StatusCode: 500}, true},
			{"503", &APIError{StatusCode: 503}, true},
			{"429", &APIError{StatusCode: 429}, true},
			{"400", &APIError{StatusCode: 400}, false},
			{"404", &APIError{StatusCode: 404}, false},
		}
		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				if got := tt.err.IsRetryable(); got != tt.want {
					t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
				}
			})
		}
	})
}

func TestCreateGame(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/api/game/" {
				t.Errorf("path = %s, want /api/game/", r.URL.Path)
			}
			var req CreateGameRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.GameName != "windows in new york" {
				t.Errorf("gameName = %q", req.GameName)
			}
			if req.GameMinutes != 5 {
				t.Errorf("gameMinutes = %d, want 5", req.GameMinutes)
			}
			json.NewEncoder(w).Encode(CreateGameResponse{GameID: "abc123"})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.CreateGame(context.Background(), CreateGameRequest{
			GameName:    "windows in new york",
			GameMinutes: 5,
			MarketValue: "8400000",
		})
		if err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
		if resp.GameID != "abc123" {
			t.Errorf("GameID = %q, want abc123", resp.GameID)
		}
	})

	t.Run("validation error surfaces errorMessage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"errorMessage": "game name taken"})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.CreateGame(context.Background(), CreateGameRequest{
			GameName:    "dup",
			GameMinutes: 5,
		})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != 400 {
			t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
		}
		if apiErr.Message != "game name taken" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "game name taken")
		}
	})

	t.Run("rejects empty name locally", func(t *testing.T) {
		c := NewClient("http://unused.example.com")
		if _, err := c.CreateGame(context.Background(), CreateGameRequest{GameMinutes: 5}); err == nil {
			t.Error("expected error for empty game name")
		}
	})

	t.Run("rejects non-positive minutes locally", func(t *testing.T) {
		c := NewClient("http://unused.example.com")
		if _, err := c.CreateGame(context.Background(), CreateGameRequest{GameName: "x"}); err == nil {
			t.Error("expected error for zero game minutes")
		}
	})

	t.Run("retries on 500", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(CreateGameResponse{GameID: "retry-ok"})
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, 10*time.Millisecond))
		resp, err := c.CreateGame(context.Background(), CreateGameRequest{
			GameName:    "x",
			GameMinutes: 1,
		})
		if err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
		if resp.GameID != "retry-ok" {
			t.Errorf("GameID = %q, want retry-ok", resp.GameID)
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})

	t.Run("does not retry on 400", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.CreateGame(context.Background(), CreateGameRequest{GameName: "x", GameMinutes: 1}); err == nil {
			t.Error("expected error")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})
}
