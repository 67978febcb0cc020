package session

import (
	"fmt"

	"github.com/micapu/market-made-web/internal/event"
	"github.com/micapu/market-made-web/internal/model"
)

// handleGameState applies the full snapshot delivered on join or re-view:
// both book sides are replaced wholesale, the tape and dedup set are rebuilt,
// and session fields are filled in.
func (s *Session) handleGameState(ev event.Event) error {
	p, ok := ev.Payload.(event.GameStatePayload)
	if !ok {
		return payloadMismatch(ev)
	}

	s.mu.Lock()
	s.book.ApplySnapshot(p.Bids, p.Asks)
	s.ticks = nil
	s.seenTicks = make(map[int64]struct{})
	for _, tick := range p.Ticks {
		s.seenTicks[tick.TickID] = struct{}{}
		s.ticks = append(s.ticks, tick)
	}
	s.parties = append([]string(nil), p.Parties...)

	// Live playerDataUpdates may have landed before this snapshot; those
	// entries are fresher than the snapshot's, so existing names win.
	for name, player := range p.Players {
		if _, exists := s.players[name]; !exists {
			s.players[name] = player
		}
	}

	s.game.GameName = p.GameName
	s.game.GameMinutes = p.GameMinutes
	s.game.ExpiryTimestamp = p.ExpiryTimestamp
	s.game.Unit.TickSize = p.TickSize
	s.game.Unit.TickDecimals = p.TickDecimals
	s.mu.Unlock()

	s.machine.ObserveExpiry(p.ExpiryTimestamp)
	s.logger.Info("snapshot applied",
		"game", p.GameName,
		"bids", len(p.Bids),
		"asks", len(p.Asks),
		"ticks", len(p.Ticks),
	)
	return nil
}

// handleGameView applies the periodic full view, field by field. Finals and
// market value arrive here once the market is over.
func (s *Session) handleGameView(ev event.Event) error {
	p, ok := ev.Payload.(event.GameViewPayload)
	if !ok {
		return payloadMismatch(ev)
	}

	s.mu.Lock()
	s.game.GameName = p.GameName
	s.game.GameMinutes = p.GameMinutes
	s.game.ExpiryTimestamp = p.ExpiryTimestamp
	s.game.Unit = model.UnitDetails{
		Prefix:       p.UnitPrefix,
		Suffix:       p.UnitSuffix,
		TickSize:     p.TickSize,
		TickDecimals: p.TickDecimals,
	}
	s.game.Exposure = model.ExposureDetails{
		Currency: p.ExposureCurrency,
		Amount:   p.ExposureAmount,
	}
	s.game.IsHost = p.IsHost
	if p.MarketValue != nil {
		s.game.MarketValue = *p.MarketValue
		s.game.HasMarketValue = true
	}
	if p.FinalPlayers != nil {
		s.game.FinalPlayers = p.FinalPlayers
	}
	if p.FinalTicks != nil {
		s.game.FinalTicks = p.FinalTicks
	}
	if p.Parties != nil {
		s.parties = append([]string(nil), p.Parties...)
	}
	// The view's player map is a wholesale replacement when present.
	if p.Players != nil {
		s.players = make(map[string]model.PlayerData, len(p.Players))
		for name, player := range p.Players {
			s.players[name] = player
		}
	}
	if s.name == "" && p.YourName != "" {
		s.name = p.YourName
	}
	s.mu.Unlock()

	s.machine.ObserveExpiry(p.ExpiryTimestamp)
	return nil
}

func (s *Session) handleOrderInsert(ev event.Event) error {
	order, ok := ev.Payload.(model.Order)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.book.ApplyInsert(order)
	s.mu.Unlock()
	return nil
}

func (s *Session) handleOrderUpdate(ev event.Event) error {
	order, ok := ev.Payload.(model.Order)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.book.ApplyUpdate(order)
	s.mu.Unlock()
	return nil
}

// handleTick appends a trade to the tape. The tape is append-only, so a
// duplicated delivery is filtered by tick id here rather than corrupting
// volume totals downstream.
func (s *Session) handleTick(ev event.Event) error {
	tick, ok := ev.Payload.(model.Tick)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	if _, seen := s.seenTicks[tick.TickID]; seen {
		s.stats.DuplicateTicks++
		s.mu.Unlock()
		s.logger.Debug("duplicate tick dropped", "tick_id", tick.TickID)
		return nil
	}
	s.seenTicks[tick.TickID] = struct{}{}
	s.ticks = append(s.ticks, tick)
	s.mu.Unlock()
	return nil
}

// handlePlayerData replaces the player's entry wholesale.
func (s *Session) handlePlayerData(ev event.Event) error {
	player, ok := ev.Payload.(model.PlayerData)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.players[player.Name] = player
	s.mu.Unlock()
	return nil
}

func (s *Session) handleYouJoined(ev event.Event) error {
	p, ok := ev.Payload.(event.YouJoinedPayload)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	alreadyJoined := s.joined
	if !alreadyJoined {
		s.joined = true
		s.name = p.Player.Name
		if p.Player.Name != "" {
			s.players[p.Player.Name] = p.Player
		}
	}
	expiry := s.game.ExpiryTimestamp
	s.mu.Unlock()

	if !alreadyJoined {
		s.machine.Joined(expiry)
	}
	return nil
}

func (s *Session) handleGameJoin(ev event.Event) error {
	p, ok := ev.Payload.(event.GameJoinPayload)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.parties = append(s.parties, p.Name)
	s.mu.Unlock()
	return nil
}

// handleGameStart performs the hard reset: drop all market state, rewind the
// lifecycle to the lobby, and ask the authority for a fresh snapshot.
func (s *Session) handleGameStart(ev event.Event) error {
	if _, ok := ev.Payload.(event.GameStartPayload); !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.hardResetLocked()
	s.mu.Unlock()

	s.machine.HardReset()
	s.logger.Info("game started, reloading state")
	return s.sendCommand("viewGame", map[string]any{"gameId": s.cfg.GameID})
}

func (s *Session) handleMarketValue(ev event.Event) error {
	p, ok := ev.Payload.(event.MarketValuePayload)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.game.MarketValue = p.Value
	s.game.HasMarketValue = true
	s.mu.Unlock()
	return nil
}

func (s *Session) handleError(ev event.Event) error {
	p, ok := ev.Payload.(event.ErrorPayload)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.lastError = p.Message
	if p.Redirect {
		s.redirect = true
	}
	s.mu.Unlock()
	s.logger.Warn("authority rejected action", "message", p.Message, "redirect", p.Redirect)
	return nil
}

func (s *Session) handleInfo(ev event.Event) error {
	p, ok := ev.Payload.(event.InfoPayload)
	if !ok {
		return payloadMismatch(ev)
	}
	s.mu.Lock()
	s.lastInfo = p.Message
	s.mu.Unlock()
	s.logger.Info("info", "message", p.Message)
	return nil
}

func payloadMismatch(ev event.Event) error {
	return fmt.Errorf("event %s carries payload %T", ev.Kind, ev.Payload)
}
