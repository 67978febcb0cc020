// Package pricing snaps user-entered prices onto the session's tick grid.
// The arithmetic runs in decimal so grid multiples and tickDecimals rounding
// come out exact rather than drifting through binary floats.
package pricing

import (
	"github.com/shopspring/decimal"
)

// tooFarRatio is the deviation (relative to the entered price) above which
// the coerced price needs explicit user confirmation before submission.
const tooFarRatio = 0.1

// CoerceToPrice rounds value to the nearest multiple of tickSize, expressed
// to tickDecimals places. When the snap moves the price by 10% or more of the
// entered value, tooFar is true and the caller must confirm with the user
// rather than silently substituting the coerced price.
func CoerceToPrice(value, tickSize float64, tickDecimals int32) (coerced float64, tooFar bool) {
	if tickSize <= 0 {
		return value, false
	}

	v := decimal.NewFromFloat(value)
	tick := decimal.NewFromFloat(tickSize)

	steps := v.Div(tick).Round(0)
	snapped := steps.Mul(tick).Round(tickDecimals)
	coerced, _ = snapped.Float64()

	if value != 0 {
		deviation := snapped.Sub(v).Abs().Div(v.Abs())
		tooFar = deviation.GreaterThanOrEqual(decimal.NewFromFloat(tooFarRatio))
	}
	return coerced, tooFar
}

// DimeBid returns the price one tick above the current best bid.
func DimeBid(bestBid, tickSize float64, tickDecimals int32) float64 {
	p, _ := CoerceToPrice(bestBid+tickSize, tickSize, tickDecimals)
	return p
}

// DimeAsk returns the price one tick below the current best ask.
func DimeAsk(bestAsk, tickSize float64, tickDecimals int32) float64 {
	p, _ := CoerceToPrice(bestAsk-tickSize, tickSize, tickDecimals)
	return p
}
