package event

import (
	"encoding/json"

	"github.com/micapu/market-made-web/internal/model"
)

// Event is a decoded inbound event. Payload holds the typed payload for the
// kind: GameStatePayload, GameViewPayload, model.Order, model.Tick,
// model.PlayerData, YouJoinedPayload, GameJoinPayload, GameStartPayload,
// MarketValuePayload, ErrorPayload or InfoPayload.
type Event struct {
	Kind    Kind
	Payload any
}

// GameStatePayload is the full snapshot delivered on session join or re-view.
type GameStatePayload struct {
	GameName        string
	GameMinutes     float64
	Parties         []string
	Bids            []model.Order
	Asks            []model.Order
	Ticks           []model.Tick
	Players         map[string]model.PlayerData
	ExpiryTimestamp int64 // ms since epoch, 0 = not started
	TickSize        float64
	TickDecimals    int32
}

// GameViewPayload is the periodic full view, also carrying final results once
// the market is over.
type GameViewPayload struct {
	GameName         string
	GameMinutes      float64
	Parties          []string
	ExpiryTimestamp  int64
	FinalPlayers     map[string]model.PlayerData
	FinalTicks       []model.Tick
	MarketValue      *float64
	UnitPrefix       string
	UnitSuffix       string
	TickSize         float64
	TickDecimals     int32
	IsHost           bool
	YourName         string
	Players          map[string]model.PlayerData
	ExposureAmount   float64
	ExposureCurrency string
}

// YouJoinedPayload confirms the join and carries your initial accounting record.
type YouJoinedPayload struct {
	Player model.PlayerData
}

// GameJoinPayload announces another player joining the lobby.
type GameJoinPayload struct {
	Name string
}

// GameStartPayload signals a host start: a hard reset followed by a fresh
// snapshot request. It carries no fields.
type GameStartPayload struct{}

// MarketValuePayload carries a new settlement value.
type MarketValuePayload struct {
	Value float64
}

// ErrorPayload is an authoritative rejection. Redirect forces navigation away
// from the session after a short delay.
type ErrorPayload struct {
	Message  string
	Redirect bool
}

// InfoPayload is an informational banner message.
type InfoPayload struct {
	Message string
}

// -----------------------------------------------------------------------------
// Wire structs
//
// Required fields are pointers so a missing field is distinguishable from a
// zero value; orderId 0 and price 0 are legal on the wire.
// -----------------------------------------------------------------------------

// envelope is used for type extraction before the payload is decoded.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type orderWire struct {
	OrderID        *int64   `json:"orderId"`
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	Volume         *float64 `json:"volume"`
	OriginalVolume *float64 `json:"originalVolume"`
	IsBid          *bool    `json:"isBid"`
}

type tickWire struct {
	TickID          *int64   `json:"tickId"`
	TransactionID   *int64   `json:"transactionId"` // Legacy id, used when tickId is absent
	Price           *float64 `json:"price"`
	Volume          *float64 `json:"volume"`
	Buyer           *string  `json:"buyer"`
	Seller          *string  `json:"seller"`
	BidWasAggressor bool     `json:"bidWasAggressor"`
	Timestamp       *int64   `json:"timestamp"`
}

type playerDataWire struct {
	Name             *string `json:"name"`
	LongPosition     float64 `json:"longPosition"`
	ShortPosition    float64 `json:"shortPosition"`
	TotalLongVolume  float64 `json:"totalLongVolume"`
	TotalShortVolume float64 `json:"totalShortVolume"`

	OutstandingBidVolume float64 `json:"outstandingBidVolume"`
	OutstandingAskVolume float64 `json:"outstandingAskVolume"`
	// Legacy names used by early log revisions.
	TotalOutstandingLongVolume  *float64 `json:"totalOutstandingLongVolume"`
	TotalOutstandingShortVolume *float64 `json:"totalOutstandingShortVolume"`

	ScrapeValue float64 `json:"scrapeValue"`
}

type gameStateWire struct {
	GameName        string                    `json:"gameName"`
	GameMinutes     float64                   `json:"gameMinutes"`
	Parties         []string                  `json:"parties"`
	Bids            []orderWire               `json:"bids"`
	Asks            []orderWire               `json:"asks"`
	Ticks           []tickWire                `json:"ticks"`
	Players         map[string]playerDataWire `json:"playerData"`
	ExpiryTimestamp *int64                    `json:"expiryTimestamp"`
	TickSize        *float64                  `json:"tickSize"`
	TickDecimals    int32                     `json:"tickDecimals"`
}

type gameViewWire struct {
	GameName         string                    `json:"gameName"`
	GameMinutes      float64                   `json:"gameMinutes"`
	Parties          []string                  `json:"parties"`
	ExpiryTimestamp  *int64                    `json:"expiryTimestamp"`
	FinalPlayers     map[string]playerDataWire `json:"finalPlayerData"`
	FinalTicks       []tickWire                `json:"finalTicks"`
	MarketValue      *float64                  `json:"marketValue"`
	UnitPrefix       string                    `json:"unitPrefix"`
	UnitSuffix       string                    `json:"unitSuffix"`
	TickSize         *float64                  `json:"tickSize"`
	TickDecimals     int32                     `json:"tickDecimals"`
	IsHost           bool                      `json:"isHost"`
	YourName         string                    `json:"yourName"`
	Players          map[string]playerDataWire `json:"playerData"`
	ExposureAmount   float64                   `json:"exposureAmount"`
	ExposureCurrency string                    `json:"exposureCurrency"`
}

type gameJoinWire struct {
	Name *string `json:"name"`
}

type marketValueWire struct {
	Value *float64 `json:"value"`
}

type errorWire struct {
	Message  string `json:"message"`
	Redirect bool   `json:"redirect"`
}

type infoWire struct {
	Message string `json:"message"`
}
