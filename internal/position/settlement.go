package position

import (
	"math"
	"sort"

	"github.com/micapu/market-made-web/internal/model"
)

// Result is one player's settled outcome.
type Result struct {
	Player    model.PlayerData
	RawProfit float64
	Profit    float64 // Normalised for display: raw / |worst| * exposure
	Rank      int     // 1-based, best first
}

// RawProfit values the player's book against a final market value:
// longs earn V per unit bought minus what was paid, shorts earn what was
// received minus V per unit sold.
func RawProfit(p model.PlayerData, marketValue float64) float64 {
	profitFromLongs := marketValue*p.TotalLongVolume - p.LongPosition
	profitFromShorts := p.ShortPosition - marketValue*p.TotalShortVolume
	return profitFromLongs + profitFromShorts
}

// Settle values every player against marketValue and ranks them descending by
// raw profit, ties kept in input iteration order (stable; keyed by sorted
// name so repeated runs agree). Normalised profit is raw scaled so the worst
// loss equals the exposure amount; when the worst raw profit is zero, every
// normalised profit is zero.
func Settle(players map[string]model.PlayerData, marketValue, exposure float64) []Result {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, 0, len(names))
	worst := math.Inf(1)
	for _, name := range names {
		raw := RawProfit(players[name], marketValue)
		if raw < worst {
			worst = raw
		}
		results = append(results, Result{Player: players[name], RawProfit: raw})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RawProfit > results[j].RawProfit
	})

	for i := range results {
		results[i].Rank = i + 1
		if worst != 0 {
			results[i].Profit = results[i].RawProfit / math.Abs(worst) * exposure
		}
	}
	return results
}

// PodiumRows lays ranked results out as rows of size 1, 2, 3, ... — the
// podium pyramid shown on the results screen. Purely a display policy.
func PodiumRows(results []Result) [][]Result {
	var rows [][]Result
	width := 1
	for start := 0; start < len(results); start += width {
		end := start + width
		if end > len(results) {
			end = len(results)
		}
		rows = append(rows, results[start:end])
		width++
	}
	return rows
}
