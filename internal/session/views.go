package session

import (
	"github.com/micapu/market-made-web/internal/book"
	"github.com/micapu/market-made-web/internal/chart"
	"github.com/micapu/market-made-web/internal/lifecycle"
	"github.com/micapu/market-made-web/internal/model"
	"github.com/micapu/market-made-web/internal/position"
)

// Name returns the local player's name ("" before joining).
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Joined reports whether the join confirmation has arrived.
func (s *Session) Joined() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joined
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() lifecycle.Phase {
	return s.machine.Phase()
}

// Parties returns the lobby player list.
func (s *Session) Parties() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.parties...)
}

// Bids returns the bid side, price ascending (best bid last).
func (s *Session) Bids() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Bids()
}

// Asks returns the ask side, price ascending (best ask first).
func (s *Session) Asks() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Asks()
}

// BidLevels aggregates the bid side into price levels.
func (s *Session) BidLevels() []model.PriceLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return book.Aggregate(s.book.Bids())
}

// AskLevels aggregates the ask side into price levels.
func (s *Session) AskLevels() []model.PriceLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return book.Aggregate(s.book.Asks())
}

// MyOutstandingOrders returns the local player's live orders, recomputed from
// the book so it can never drift from the order collections.
func (s *Session) MyOutstandingOrders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.OutstandingOrders(s.name)
}

// Ticks returns a copy of the trade tape, oldest first.
func (s *Session) Ticks() []model.Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Tick(nil), s.ticks...)
}

// Candles rolls the tape into one-minute OHLC windows.
func (s *Session) Candles() []model.Candle {
	s.mu.RLock()
	ticks := s.ticks
	s.mu.RUnlock()
	return chart.Candles(ticks, chart.DefaultInterval)
}

// Players returns a copy of the player accounting map.
func (s *Session) Players() map[string]model.PlayerData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make(map[string]model.PlayerData, len(s.players))
	for name, p := range s.players {
		players[name] = p
	}
	return players
}

// YourPlayer returns the local player's accounting record (zero value before
// the first playerDataUpdate).
func (s *Session) YourPlayer() model.PlayerData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[s.name]
}

// GameState returns a copy of the session-wide fields.
func (s *Session) GameState() model.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// Banner returns the most recent info and error messages and whether an
// error demanded navigation away from the session.
func (s *Session) Banner() (info, errMessage string, redirect bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastInfo, s.lastError, s.redirect
}

// Results settles the final player data against a market value and ranks the
// players. Uses the authoritative market value unless overrideValue is
// non-nil (the results screen lets the user simulate other values). Returns
// nil until finals and a market value are present.
func (s *Session) Results(overrideValue *float64) []position.Result {
	s.mu.RLock()
	finals := s.game.FinalPlayers
	value := s.game.MarketValue
	hasValue := s.game.HasMarketValue
	exposure := s.game.Exposure.Amount
	s.mu.RUnlock()

	if overrideValue != nil {
		value = *overrideValue
		hasValue = true
	}
	if finals == nil || !hasValue {
		return nil
	}
	if exposure == 0 {
		exposure = 1
	}
	return position.Settle(finals, value, exposure)
}

// Podium lays ranked results out in rows of 1, 2, 3, ... for display.
func (s *Session) Podium(overrideValue *float64) [][]position.Result {
	return position.PodiumRows(s.Results(overrideValue))
}
