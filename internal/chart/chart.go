// Package chart rolls the trade tape up into fixed-interval OHLC candles for
// the price chart.
package chart

import (
	"sort"
	"time"

	"github.com/micapu/market-made-web/internal/model"
)

// DefaultInterval is the candle width used by the market view.
const DefaultInterval = time.Minute

// Candles groups ticks into fixed windows of the given interval and produces
// one open/high/low/close candle per non-empty window, ascending by window
// start. Pure over its input; the tape is never modified.
func Candles(ticks []model.Tick, interval time.Duration) []model.Candle {
	if len(ticks) == 0 || interval <= 0 {
		return nil
	}

	intervalMs := interval.Milliseconds()
	sorted := make([]model.Tick, len(ticks))
	copy(sorted, ticks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].TickID < sorted[j].TickID
	})

	var candles []model.Candle
	for _, tick := range sorted {
		start := (tick.Timestamp / intervalMs) * intervalMs
		if n := len(candles); n > 0 && candles[n-1].WindowStart == start {
			c := &candles[n-1]
			c.Close = tick.Price
			if tick.Price > c.High {
				c.High = tick.Price
			}
			if tick.Price < c.Low {
				c.Low = tick.Price
			}
			continue
		}
		candles = append(candles, model.Candle{
			WindowStart: start,
			Open:        tick.Price,
			High:        tick.Price,
			Low:         tick.Price,
			Close:       tick.Price,
		})
	}
	return candles
}
