// Package position derives player accounting figures from the authority's
// PlayerData records: net position, average price, order volume caps during
// trading, and settlement profit/ranking once a final market value is known.
package position

import (
	"math"

	"github.com/micapu/market-made-web/internal/model"
)

// SafeDiv divides, returning 0 on a zero denominator. Position arithmetic
// never raises a division error for empty accounts.
func SafeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// AveragePrice is the volume-weighted average price the player has traded at:
// |(longPosition + shortPosition) / (totalLongVolume + totalShortVolume)|,
// 0 for a player who has not traded.
func AveragePrice(p model.PlayerData) float64 {
	return math.Abs(SafeDiv(p.LongPosition+p.ShortPosition, p.TotalLongVolume+p.TotalShortVolume))
}

// VolumeBounds returns the permitted order volume interval [maxSell, maxBuy]
// for a player, so that position plus standing orders can never exceed
// maxPosition in either direction. Sells are negative volumes.
func VolumeBounds(maxPosition, standingBidVolume, standingAskVolume, netPosition float64) (maxSell, maxBuy float64) {
	maxSell = -maxPosition + standingAskVolume - netPosition
	maxBuy = maxPosition - standingBidVolume - netPosition
	return maxSell, maxBuy
}

// ClampVolume clamps a requested signed volume into the permitted interval.
func ClampVolume(requested, maxPosition, standingBidVolume, standingAskVolume, netPosition float64) float64 {
	maxSell, maxBuy := VolumeBounds(maxPosition, standingBidVolume, standingAskVolume, netPosition)
	return math.Min(math.Max(requested, maxSell), maxBuy)
}
