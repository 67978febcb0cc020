package event

// Kind identifies an inbound event. The set is closed: adding a kind means
// adding a case to every exhaustive switch, so new wire messages are caught at
// compile time rather than silently ignored.
type Kind int

const (
	KindUnknown Kind = iota
	KindGameState
	KindGameView
	KindOrderInsert
	KindOrderUpdate
	KindTick
	KindPlayerData
	KindYouJoined
	KindGameJoin
	KindGameStart
	KindMarketValue
	KindError
	KindInfo
)

// wireNames maps wire message types to kinds. The names are the original
// marketmade protocol names and must not change.
var wireNames = map[string]Kind{
	"gameState":         KindGameState,
	"gameView":          KindGameView,
	"orderInsert":       KindOrderInsert,
	"orderUpdate":       KindOrderUpdate,
	"onTick":            KindTick,
	"playerDataUpdate":  KindPlayerData,
	"youJoined":         KindYouJoined,
	"gameJoin":          KindGameJoin,
	"gameStart":         KindGameStart,
	"marketValueUpdate": KindMarketValue,
	"erroneousAction":   KindError,
	"info":              KindInfo,
}

// KindFromWire returns the kind for a wire message type, or KindUnknown.
func KindFromWire(name string) Kind {
	return wireNames[name]
}

// WireName returns the wire message type for a kind.
func (k Kind) WireName() string {
	for name, kind := range wireNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// String returns the wire name; kinds log under their protocol names.
func (k Kind) String() string {
	return k.WireName()
}
