package model

import "strings"

// -----------------------------------------------------------------------------
// Order Book Types
// -----------------------------------------------------------------------------

// Order is a single resting order on one side of the book.
//
// Invariant: 0 <= Volume <= OriginalVolume. OriginalVolume never changes for
// the life of the order; Volume only decreases. An order whose volume reaches
// zero is removed from the book, never retained as a zero record.
type Order struct {
	OrderID        int64   // Issued monotonically by the authority
	OwnerName      string  // Player who placed the order
	Price          float64 // Limit price
	Volume         float64 // Remaining unfilled volume
	OriginalVolume float64 // Volume at insertion
	IsBid          bool    // true = bid, false = ask
}

// Valid reports whether the order satisfies the volume invariant and carries
// an owner. Malformed orders are dropped before they touch the book.
func (o Order) Valid() bool {
	return o.OwnerName != "" && o.Volume >= 0 && o.Volume <= o.OriginalVolume
}

// LevelOrder is the per-party breakdown entry within a price level.
type LevelOrder struct {
	OwnerName      string
	OrderID        int64
	Volume         float64
	OriginalVolume float64
}

// PriceLevel is the aggregated view of all orders at one exact price.
// Derived, never stored: TotalVolume == sum of member volumes.
type PriceLevel struct {
	Price       float64
	TotalVolume float64
	Orders      []LevelOrder // Sorted by (price, orderId); price is constant here
}

// -----------------------------------------------------------------------------
// Trade Tape Types
// -----------------------------------------------------------------------------

// Tick is a recorded trade execution between two parties.
// Immutable once created; the tape is append-only.
type Tick struct {
	TickID          int64
	Price           float64
	Volume          float64
	BuyerName       string
	SellerName      string
	BidWasAggressor bool  // true when the buy side crossed the book
	Timestamp       int64 // ms since epoch
}

// -----------------------------------------------------------------------------
// Player Types
// -----------------------------------------------------------------------------

// PlayerData is the authority's full accounting record for one player.
// Each playerDataUpdate replaces the entry wholesale; it is never patched.
type PlayerData struct {
	Name                 string
	LongPosition         float64 // Sum of price*volume over buys
	ShortPosition        float64 // Sum of price*volume over sells
	TotalLongVolume      float64
	TotalShortVolume     float64
	OutstandingBidVolume float64
	OutstandingAskVolume float64
	ScrapeValue          float64 // Live mark value, computed by the authority
}

// NetPosition returns bought volume minus sold volume.
func (p PlayerData) NetPosition() float64 {
	return p.TotalLongVolume - p.TotalShortVolume
}

// ShortName derives the player's uppercase display code: initials of up to
// three words for multi-word names, otherwise a 3-character prefix. An empty
// name gets a sentinel so a missing name shows up instead of a blank cell.
func ShortName(name string) string {
	if name == "" {
		return "NONAME"
	}
	upper := strings.ToUpper(name)
	runes := []rune(upper)
	if len(runes) < 3 {
		return upper
	}
	words := strings.Split(upper, " ")
	if len(words) >= 2 {
		if len(words) > 3 {
			words = words[:3]
		}
		var b strings.Builder
		for _, w := range words {
			if w != "" {
				b.WriteRune([]rune(w)[0])
			}
		}
		return b.String()
	}
	return string(runes[:3])
}

// -----------------------------------------------------------------------------
// Session Types
// -----------------------------------------------------------------------------

// UnitDetails describes how prices are displayed and quantised.
type UnitDetails struct {
	Prefix       string  // e.g. "$"
	Suffix       string  // e.g. "mm"
	TickSize     float64 // Price grid increment
	TickDecimals int32   // Decimal places shown
}

// ExposureDetails describes the notional amount used to normalise profit.
type ExposureDetails struct {
	Currency string
	Amount   float64
}

// GameState holds session-wide fields delivered by snapshot and view events.
// Created by the first snapshot; later events replace fields individually.
type GameState struct {
	GameName        string
	GameMinutes     float64
	ExpiryTimestamp int64 // ms since epoch; 0 = not yet started (lobby)
	Unit            UnitDetails
	Exposure        ExposureDetails
	MarketValue     float64 // Settlement value; meaningful once HasMarketValue
	HasMarketValue  bool
	IsHost          bool
	FinalPlayers    map[string]PlayerData // Set once the market is over
	FinalTicks      []Tick
}

// Started reports whether the host has started the market.
func (g GameState) Started() bool {
	return g.ExpiryTimestamp != 0
}

// Candle is one fixed-interval OHLC window over the trade tape.
type Candle struct {
	WindowStart int64 // ms since epoch, inclusive
	Open        float64
	High        float64
	Low         float64
	Close       float64
}
