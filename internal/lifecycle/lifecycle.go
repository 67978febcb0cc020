// Package lifecycle tracks the session phase: Joining until the join is
// confirmed, Lobby until the host starts the market, Active while the
// countdown runs, Over once it expires. Over is terminal.
package lifecycle

import (
	"log/slog"
	"sync"
	"time"
)

// Phase is the session lifecycle phase.
type Phase int

const (
	PhaseJoining Phase = iota // No name chosen / join not confirmed
	PhaseLobby                // Joined, expiry unset, waiting for host start
	PhaseActive               // Expiry in the future, trading allowed
	PhaseOver                 // Expiry passed or market-over signal received
)

func (p Phase) String() string {
	switch p {
	case PhaseJoining:
		return "joining"
	case PhaseLobby:
		return "lobby"
	case PhaseActive:
		return "active"
	case PhaseOver:
		return "over"
	default:
		return "invalid"
	}
}

// Machine drives phase transitions from snapshot expiry fields and a
// client-local countdown timer. The timer is single-shot and idempotent: if
// it races an authoritative "already over" snapshot, Over is entered exactly
// once and onOver fires exactly once.
//
// The mutex only exists because the countdown fires on the timer goroutine;
// all other calls come from the session's event loop.
type Machine struct {
	mu     sync.Mutex
	phase  Phase
	expiry time.Time
	timer  *time.Timer
	onOver func()
	logger *slog.Logger

	now func() time.Time // injectable for tests
}

// NewMachine creates a machine in PhaseJoining. onOver runs once on entering
// PhaseOver (nil is allowed).
func NewMachine(onOver func(), logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		phase:  PhaseJoining,
		onOver: onOver,
		logger: logger,
		now:    time.Now,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Expiry returns the current expiry, zero if unset.
func (m *Machine) Expiry() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiry
}

// Joined handles the join confirmation: Joining moves to Lobby, or straight
// through to Active/Over when the accompanying snapshot already carries an
// expiry (expiryMillis 0 = not started).
func (m *Machine) Joined(expiryMillis int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseJoining {
		return
	}
	m.phase = PhaseLobby
	m.logger.Info("joined session")
	m.observeExpiryLocked(expiryMillis)
}

// ObserveExpiry applies an authoritative expiry field from a snapshot or
// view. Zero keeps the lobby waiting; a future timestamp (re)arms the
// countdown and enters Active; a past timestamp forces Over even if the local
// timer has not fired.
func (m *Machine) ObserveExpiry(expiryMillis int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observeExpiryLocked(expiryMillis)
}

// HardReset handles a game-start broadcast: back to Lobby with the countdown
// cleared, pending the fresh snapshot the session reloads from. No-op once
// Over.
func (m *Machine) HardReset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseOver || m.phase == PhaseJoining {
		return
	}
	m.stopTimerLocked()
	m.expiry = time.Time{}
	m.phase = PhaseLobby
	m.logger.Info("hard reset, awaiting fresh snapshot")
}

// MarketOver applies an explicit market-over signal.
func (m *Machine) MarketOver() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enterOverLocked("authoritative signal")
}

// Stop releases the countdown timer without a transition.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Machine) observeExpiryLocked(expiryMillis int64) {
	if m.phase == PhaseOver || m.phase == PhaseJoining {
		return
	}
	if expiryMillis == 0 {
		return
	}

	expiry := time.UnixMilli(expiryMillis)
	remaining := expiry.Sub(m.now())
	if remaining <= 0 {
		m.enterOverLocked("expiry in the past")
		return
	}

	m.expiry = expiry
	if m.phase != PhaseActive {
		m.phase = PhaseActive
		m.logger.Info("market active", "expiry", expiry)
	}
	m.armTimerLocked(remaining)
}

func (m *Machine) armTimerLocked(d time.Duration) {
	m.stopTimerLocked()
	m.timer = time.AfterFunc(d, m.countdownExpired)
}

func (m *Machine) countdownExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enterOverLocked("countdown expired")
}

func (m *Machine) enterOverLocked(reason string) {
	if m.phase == PhaseOver {
		return
	}
	m.stopTimerLocked()
	m.phase = PhaseOver
	m.logger.Info("market over", "reason", reason)
	if m.onOver != nil {
		m.onOver()
	}
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
