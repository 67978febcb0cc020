// Package session wires the event dispatcher to the order book reducer, the
// trade tape, player accounting and the lifecycle machine, and owns the
// outbound command surface. One Session is one market viewed by one client,
// live or replayed.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/micapu/market-made-web/internal/book"
	"github.com/micapu/market-made-web/internal/event"
	"github.com/micapu/market-made-web/internal/lifecycle"
	"github.com/micapu/market-made-web/internal/model"
)

// Transport sends an encoded outbound command. Nil transport (replay mode)
// turns every command into a no-op.
type Transport interface {
	Send(data []byte) error
}

// Config holds session configuration.
type Config struct {
	GameID      string
	MaxPosition float64 // Absolute position cap enforced on order volumes
	QueueSize   int     // Initial intake queue capacity
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxPosition: 20,
		QueueSize:   1024,
	}
}

// Stats counts intake outcomes.
type Stats struct {
	EventsApplied  int64
	ParseErrors    int64
	UnknownEvents  int64
	DuplicateTicks int64
}

// Session holds the locally consistent view of one market.
//
// All state mutation happens on the single Run loop: an event is fully
// applied before the next is taken from the intake queue. The mutex only
// guards the read-side accessors and the countdown callback.
type Session struct {
	cfg        Config
	logger     *slog.Logger
	token      string
	transport  Transport
	dispatcher *event.Dispatcher
	queue      *event.Queue

	mu      sync.RWMutex
	name    string
	joined  bool
	parties []string
	book    *book.Book
	ticks   []model.Tick
	// Trade events are append-only, so a duplicated delivery would
	// double-count; the tape is the one place that needs id dedup.
	seenTicks map[int64]struct{}
	players   map[string]model.PlayerData
	game      model.GameState
	machine   *lifecycle.Machine

	lastInfo  string
	lastError string
	redirect  bool

	stats Stats
}

// New creates a Session and registers its event handlers. token is the
// persistent client identity carried on every outbound command.
func New(cfg Config, token string, transport Transport, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPosition <= 0 {
		cfg.MaxPosition = DefaultConfig().MaxPosition
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}

	s := &Session{
		cfg:        cfg,
		logger:     logger,
		token:      token,
		transport:  transport,
		dispatcher: event.NewDispatcher(logger),
		queue:      event.NewQueue(cfg.QueueSize),
		book:       book.New(),
		seenTicks:  make(map[int64]struct{}),
		players:    make(map[string]model.PlayerData),
	}
	s.machine = lifecycle.NewMachine(s.onMarketOver, logger)
	s.registerHandlers()
	return s
}

// registerHandlers binds one handler per kind. The closed Kind enum means a
// new inbound kind fails to compile until it is routed here.
func (s *Session) registerHandlers() {
	s.dispatcher.Register(event.KindGameState, s.handleGameState)
	s.dispatcher.Register(event.KindGameView, s.handleGameView)
	s.dispatcher.Register(event.KindOrderInsert, s.handleOrderInsert)
	s.dispatcher.Register(event.KindOrderUpdate, s.handleOrderUpdate)
	s.dispatcher.Register(event.KindTick, s.handleTick)
	s.dispatcher.Register(event.KindPlayerData, s.handlePlayerData)
	s.dispatcher.Register(event.KindYouJoined, s.handleYouJoined)
	s.dispatcher.Register(event.KindGameJoin, s.handleGameJoin)
	s.dispatcher.Register(event.KindGameStart, s.handleGameStart)
	s.dispatcher.Register(event.KindMarketValue, s.handleMarketValue)
	s.dispatcher.Register(event.KindError, s.handleError)
	s.dispatcher.Register(event.KindInfo, s.handleInfo)
}

// Enqueue adds a decoded event to the intake queue. Used by the replay driver
// and by IntakeRaw. Returns false once the session is shut down.
func (s *Session) Enqueue(ev event.Event) bool {
	return s.queue.Send(ev)
}

// IntakeRaw parses a raw transport message and enqueues it. Unknown kinds and
// malformed payloads drop that single message; applied state is untouched.
func (s *Session) IntakeRaw(data []byte) {
	ev, err := event.Parse(data)
	if err != nil {
		s.mu.Lock()
		switch {
		case errors.Is(err, event.ErrUnknownKind):
			s.stats.UnknownEvents++
			s.logger.Debug("skipping unknown event", "error", err)
		default:
			s.stats.ParseErrors++
			s.logger.Warn("dropping malformed event", "error", err)
		}
		s.mu.Unlock()
		return
	}
	s.Enqueue(ev)
}

// Run drains the intake queue, applying one event at a time until ctx is
// cancelled or the queue is closed. A handler error stops the loop and
// propagates: the dispatcher swallows nothing.
func (s *Session) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.queue.Close()
	}()

	for {
		ev, ok := s.queue.Receive()
		if !ok {
			s.machine.Stop()
			return ctx.Err()
		}
		if err := s.dispatcher.Dispatch(ev); err != nil {
			s.machine.Stop()
			return err
		}
		s.mu.Lock()
		s.stats.EventsApplied++
		s.mu.Unlock()
	}
}

// onMarketOver runs once when the lifecycle machine enters Over. The finals
// may not be local yet, so ask the authority for a fresh view.
func (s *Session) onMarketOver() {
	if err := s.sendCommand("viewGame", map[string]any{"gameId": s.cfg.GameID}); err != nil {
		s.logger.Warn("failed to request final view", "error", err)
	}
}

// CloseIntake closes the intake queue. Run applies whatever is already
// queued and then returns; the replay path calls this once the log is
// exhausted instead of cancelling the context.
func (s *Session) CloseIntake() {
	s.queue.Close()
}

// Stats returns intake counters.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// hardReset drops every piece of market state ahead of a fresh snapshot.
// Caller holds the write lock.
func (s *Session) hardResetLocked() {
	s.book = book.New()
	s.ticks = nil
	s.seenTicks = make(map[int64]struct{})
	s.players = make(map[string]model.PlayerData)
	s.parties = nil
}
