package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/micapu/market-made-web/internal/model"
)

// Errors returned by Parse and Decode.
var (
	ErrUnknownKind = errors.New("unknown event kind")
	ErrMalformed   = errors.New("malformed event payload")
)

// The authority defaulted the grid to a tenth before unit details were
// introduced; old snapshots still omit tickSize.
const defaultTickSize = 0.1

// Parse decodes a raw wire message into a typed Event.
// Unknown message types return ErrUnknownKind; missing required fields return
// an error wrapping ErrMalformed. Either way the caller drops the message.
func Parse(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	kind := KindFromWire(env.Type)
	if kind == KindUnknown {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}

	return Decode(kind, env.Data)
}

// Decode decodes the payload for a known kind. Replay logs carry (kind,
// payload) pairs without the envelope and decode through here directly.
func Decode(kind Kind, raw json.RawMessage) (Event, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	switch kind {
	case KindGameState:
		var wire gameStateWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		p, err := gameStateFromWire(wire)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: p}, nil

	case KindGameView:
		var wire gameViewWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		p, err := gameViewFromWire(wire)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: p}, nil

	case KindOrderInsert, KindOrderUpdate:
		var wire orderWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		order, err := orderFromWire(wire)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: order}, nil

	case KindTick:
		var wire tickWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		tick, err := tickFromWire(wire)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: tick}, nil

	case KindPlayerData:
		var wire playerDataWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		player, err := playerFromWire(wire)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: player}, nil

	case KindYouJoined:
		var wire playerDataWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		// The synthetic replay youJoined has no name; that is legal here.
		player := model.PlayerData{
			Name:                 stringOr(wire.Name, ""),
			LongPosition:         wire.LongPosition,
			ShortPosition:        wire.ShortPosition,
			TotalLongVolume:      wire.TotalLongVolume,
			TotalShortVolume:     wire.TotalShortVolume,
			OutstandingBidVolume: outstandingBid(wire),
			OutstandingAskVolume: outstandingAsk(wire),
			ScrapeValue:          wire.ScrapeValue,
		}
		return Event{Kind: kind, Payload: YouJoinedPayload{Player: player}}, nil

	case KindGameJoin:
		var wire gameJoinWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		if wire.Name == nil || *wire.Name == "" {
			return Event{}, fmt.Errorf("%w: gameJoin missing name", ErrMalformed)
		}
		return Event{Kind: kind, Payload: GameJoinPayload{Name: *wire.Name}}, nil

	case KindGameStart:
		return Event{Kind: kind, Payload: GameStartPayload{}}, nil

	case KindMarketValue:
		var wire marketValueWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		if wire.Value == nil {
			return Event{}, fmt.Errorf("%w: marketValueUpdate missing value", ErrMalformed)
		}
		return Event{Kind: kind, Payload: MarketValuePayload{Value: *wire.Value}}, nil

	case KindError:
		var wire errorWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: ErrorPayload{Message: wire.Message, Redirect: wire.Redirect}}, nil

	case KindInfo:
		var wire infoWire
		if err := unmarshal(raw, &wire); err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, Payload: InfoPayload{Message: wire.Message}}, nil

	default:
		return Event{}, fmt.Errorf("%w: kind %d", ErrUnknownKind, kind)
	}
}

func unmarshal(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// orderFromWire validates the required order fields and converts.
func orderFromWire(wire orderWire) (model.Order, error) {
	if wire.OrderID == nil || wire.Name == nil || wire.Price == nil ||
		wire.Volume == nil || wire.OriginalVolume == nil || wire.IsBid == nil {
		return model.Order{}, fmt.Errorf("%w: order missing required field", ErrMalformed)
	}
	order := model.Order{
		OrderID:        *wire.OrderID,
		OwnerName:      *wire.Name,
		Price:          *wire.Price,
		Volume:         *wire.Volume,
		OriginalVolume: *wire.OriginalVolume,
		IsBid:          *wire.IsBid,
	}
	if !order.Valid() {
		return model.Order{}, fmt.Errorf("%w: order %d violates volume invariant", ErrMalformed, order.OrderID)
	}
	return order, nil
}

// tickFromWire validates the required tick fields and converts. The tick id
// falls back to the legacy transaction id on old logs.
func tickFromWire(wire tickWire) (model.Tick, error) {
	if wire.Price == nil || wire.Volume == nil || wire.Buyer == nil ||
		wire.Seller == nil || wire.Timestamp == nil {
		return model.Tick{}, fmt.Errorf("%w: tick missing required field", ErrMalformed)
	}
	id := int64(0)
	switch {
	case wire.TickID != nil:
		id = *wire.TickID
	case wire.TransactionID != nil:
		id = *wire.TransactionID
	default:
		return model.Tick{}, fmt.Errorf("%w: tick missing id", ErrMalformed)
	}
	return model.Tick{
		TickID:          id,
		Price:           *wire.Price,
		Volume:          *wire.Volume,
		BuyerName:       *wire.Buyer,
		SellerName:      *wire.Seller,
		BidWasAggressor: wire.BidWasAggressor,
		Timestamp:       *wire.Timestamp,
	}, nil
}

func playerFromWire(wire playerDataWire) (model.PlayerData, error) {
	if wire.Name == nil || *wire.Name == "" {
		return model.PlayerData{}, fmt.Errorf("%w: playerData missing name", ErrMalformed)
	}
	return model.PlayerData{
		Name:                 *wire.Name,
		LongPosition:         wire.LongPosition,
		ShortPosition:        wire.ShortPosition,
		TotalLongVolume:      wire.TotalLongVolume,
		TotalShortVolume:     wire.TotalShortVolume,
		OutstandingBidVolume: outstandingBid(wire),
		OutstandingAskVolume: outstandingAsk(wire),
		ScrapeValue:          wire.ScrapeValue,
	}, nil
}

func gameStateFromWire(wire gameStateWire) (GameStatePayload, error) {
	bids, err := ordersFromWire(wire.Bids)
	if err != nil {
		return GameStatePayload{}, err
	}
	asks, err := ordersFromWire(wire.Asks)
	if err != nil {
		return GameStatePayload{}, err
	}
	ticks, err := ticksFromWire(wire.Ticks)
	if err != nil {
		return GameStatePayload{}, err
	}
	players, err := playersFromWire(wire.Players)
	if err != nil {
		return GameStatePayload{}, err
	}
	return GameStatePayload{
		GameName:        wire.GameName,
		GameMinutes:     wire.GameMinutes,
		Parties:         wire.Parties,
		Bids:            bids,
		Asks:            asks,
		Ticks:           ticks,
		Players:         players,
		ExpiryTimestamp: int64Or(wire.ExpiryTimestamp, 0),
		TickSize:        floatOr(wire.TickSize, defaultTickSize),
		TickDecimals:    wire.TickDecimals,
	}, nil
}

func gameViewFromWire(wire gameViewWire) (GameViewPayload, error) {
	finals, err := playersFromWire(wire.FinalPlayers)
	if err != nil {
		return GameViewPayload{}, err
	}
	finalTicks, err := ticksFromWire(wire.FinalTicks)
	if err != nil {
		return GameViewPayload{}, err
	}
	players, err := playersFromWire(wire.Players)
	if err != nil {
		return GameViewPayload{}, err
	}
	return GameViewPayload{
		GameName:         wire.GameName,
		GameMinutes:      wire.GameMinutes,
		Parties:          wire.Parties,
		ExpiryTimestamp:  int64Or(wire.ExpiryTimestamp, 0),
		FinalPlayers:     finals,
		FinalTicks:       finalTicks,
		MarketValue:      wire.MarketValue,
		UnitPrefix:       wire.UnitPrefix,
		UnitSuffix:       wire.UnitSuffix,
		TickSize:         floatOr(wire.TickSize, defaultTickSize),
		TickDecimals:     wire.TickDecimals,
		IsHost:           wire.IsHost,
		YourName:         wire.YourName,
		Players:          players,
		ExposureAmount:   wire.ExposureAmount,
		ExposureCurrency: wire.ExposureCurrency,
	}, nil
}

func ordersFromWire(wires []orderWire) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(wires))
	for _, w := range wires {
		o, err := orderFromWire(w)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func ticksFromWire(wires []tickWire) ([]model.Tick, error) {
	ticks := make([]model.Tick, 0, len(wires))
	for _, w := range wires {
		tk, err := tickFromWire(w)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, tk)
	}
	return ticks, nil
}

func playersFromWire(wires map[string]playerDataWire) (map[string]model.PlayerData, error) {
	if wires == nil {
		return nil, nil
	}
	players := make(map[string]model.PlayerData, len(wires))
	for name, w := range wires {
		if w.Name == nil {
			w.Name = &name
		}
		p, err := playerFromWire(w)
		if err != nil {
			return nil, err
		}
		players[p.Name] = p
	}
	return players, nil
}

// outstandingBid prefers the current wire name, falling back to the legacy
// one. Legacy logs carry these as negatives; magnitude is what matters.
func outstandingBid(wire playerDataWire) float64 {
	if wire.TotalOutstandingLongVolume != nil && wire.OutstandingBidVolume == 0 {
		return abs(*wire.TotalOutstandingLongVolume)
	}
	return wire.OutstandingBidVolume
}

func outstandingAsk(wire playerDataWire) float64 {
	if wire.TotalOutstandingShortVolume != nil && wire.OutstandingAskVolume == 0 {
		return abs(*wire.TotalOutstandingShortVolume)
	}
	return wire.OutstandingAskVolume
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func int64Or(i *int64, def int64) int64 {
	if i == nil {
		return def
	}
	return *i
}

func floatOr(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}
