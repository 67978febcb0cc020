// Package replay feeds a recorded event log through a session at a fixed
// cadence, recreating a past market without a server.
package replay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/micapu/market-made-web/internal/event"
)

// Log is a decoded replay log: events in recorded order.
type Log struct {
	Events []event.Event

	// Entries dropped during decode. Skips never abort a replay; the rest
	// of the log still has value.
	SkippedUnknown   int
	SkippedMalformed int
}

// Load reads a replay log from disk. The format is a JSON array of
// [kind, payload] pairs, e.g.
//
//	[["gameState", {...}], ["orderInsert", {...}], ...]
//
// Unknown kinds and malformed payloads are skipped and counted.
func Load(path string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay log: %w", err)
	}
	return Decode(data, logger)
}

// Decode parses replay log bytes. See Load for the format.
func Decode(data []byte, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var entries [][2]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse replay log: %w", err)
	}

	log := &Log{Events: make([]event.Event, 0, len(entries))}
	for i, entry := range entries {
		var name string
		if err := json.Unmarshal(entry[0], &name); err != nil {
			log.SkippedMalformed++
			logger.Warn("replay entry has non-string kind", "index", i)
			continue
		}

		kind := event.KindFromWire(name)
		if kind == event.KindUnknown {
			log.SkippedUnknown++
			logger.Debug("skipping unknown replay kind", "index", i, "kind", name)
			continue
		}

		ev, err := event.Decode(kind, entry[1])
		if err != nil {
			log.SkippedMalformed++
			logger.Warn("skipping malformed replay entry", "index", i, "kind", name, "error", err)
			continue
		}
		log.Events = append(log.Events, ev)
	}

	return log, nil
}
