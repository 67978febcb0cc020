package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/micapu/market-made-web/internal/position"
	"github.com/micapu/market-made-web/internal/pricing"
)

// Order types accepted by the authority.
const (
	OrderTypeLimit = "limit"
	OrderTypeIOC   = "ioc"
	OrderTypeDime  = "dime"
)

// Command errors. These are local validation failures: the command is
// suppressed before anything reaches the wire.
var (
	ErrZeroOrder     = errors.New("order price and volume must be non-zero")
	ErrEmptySide     = errors.New("no resting orders on that side")
	ErrNoOutstanding = errors.New("no outstanding orders to pull")
)

// commandEnvelope is the outbound wire format. Every command carries the
// persistent client identity token.
type commandEnvelope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
	Data  any    `json:"data,omitempty"`
}

func (s *Session) sendCommand(kind string, data any) error {
	if s.transport == nil {
		return nil
	}
	payload, err := json.Marshal(commandEnvelope{
		Type:  kind,
		Token: s.token,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := s.transport.Send(payload); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	return nil
}

// ViewGame requests the current view of the session's game.
func (s *Session) ViewGame() error {
	return s.sendCommand("viewGame", map[string]any{"gameId": s.cfg.GameID})
}

// JoinGame asks to join under the given display name.
func (s *Session) JoinGame(name string) error {
	return s.sendCommand("joinGame", map[string]any{"name": name})
}

// SubmitOrder submits an order. A positive volume bids, a negative volume
// offers; the signed volume is clamped against the position cap before
// sending. Zero price or volume is suppressed locally: no command is sent.
// The price is unsanitised on purpose; the authority snaps it to the grid.
func (s *Session) SubmitOrder(price, volume float64, orderType string) error {
	if price == 0 || volume == 0 {
		return ErrZeroOrder
	}

	s.mu.RLock()
	standingBid, standingAsk := s.book.StandingVolume(s.name)
	net := s.players[s.name].NetPosition()
	s.mu.RUnlock()

	volume = position.ClampVolume(volume, s.cfg.MaxPosition, standingBid, standingAsk, net)
	if volume == 0 {
		return ErrZeroOrder
	}

	isBid := volume > 0
	return s.sendCommand("insertOrder", map[string]any{
		"unsanitizedPrice":  price,
		"unsanitizedVolume": math.Abs(volume),
		"isBid":             isBid,
		"orderType":         orderType,
	})
}

// SendIOC submits an immediate-or-cancel order against resting liquidity.
func (s *Session) SendIOC(price, volume float64) error {
	return s.SubmitOrder(price, volume, OrderTypeIOC)
}

// PlaceDimeBid bids one tick above the current best bid.
func (s *Session) PlaceDimeBid() error {
	s.mu.RLock()
	best, ok := s.book.BestBid()
	unit := s.game.Unit
	s.mu.RUnlock()
	if !ok {
		return ErrEmptySide
	}
	return s.SubmitOrder(pricing.DimeBid(best.Price, unit.TickSize, unit.TickDecimals), 1, OrderTypeDime)
}

// PlaceDimeAsk offers one tick below the current best ask.
func (s *Session) PlaceDimeAsk() error {
	s.mu.RLock()
	best, ok := s.book.BestAsk()
	unit := s.game.Unit
	s.mu.RUnlock()
	if !ok {
		return ErrEmptySide
	}
	return s.SubmitOrder(pricing.DimeAsk(best.Price, unit.TickSize, unit.TickDecimals), -1, OrderTypeDime)
}

// CancelOrder asks the authority to cancel an order. Cancellation is
// wait-for-echo: local state keeps the order until the volume-zero update
// arrives, so the caller must not assume the cancel succeeded.
func (s *Session) CancelOrder(orderID int64) error {
	return s.sendCommand("cancelOrder", map[string]any{"orderId": orderID})
}

// PullOrders cancels all of the local player's outstanding orders
// (wait-for-echo, like CancelOrder).
func (s *Session) PullOrders() error {
	s.mu.RLock()
	outstanding := len(s.book.OutstandingOrders(s.name))
	s.mu.RUnlock()
	if outstanding == 0 {
		return ErrNoOutstanding
	}
	return s.sendCommand("pullOrders", nil)
}

// UpdateMarketValue sets the settlement value (host only; the authority
// rejects it otherwise).
func (s *Session) UpdateMarketValue(value float64) error {
	return s.sendCommand("updateMarketValue", map[string]any{"value": value})
}

// StartGame starts the market (host only).
func (s *Session) StartGame() error {
	return s.sendCommand("startGame", nil)
}
