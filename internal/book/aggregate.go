package book

import (
	"sort"

	"github.com/micapu/market-made-web/internal/model"
)

// Aggregate groups one side's orders by exact price into PriceLevels, sorted
// ascending by price. Each level's order list is sorted by Less and its
// TotalVolume is the sum of member volumes.
//
// Pure and idempotent: it never touches its input and can be called any
// number of times against the current book state.
func Aggregate(orders []model.Order) []model.PriceLevel {
	if len(orders) == 0 {
		return nil
	}

	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})

	var levels []model.PriceLevel
	for _, o := range sorted {
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			level := &levels[n-1]
			level.TotalVolume += o.Volume
			level.Orders = append(level.Orders, levelOrder(o))
			continue
		}
		levels = append(levels, model.PriceLevel{
			Price:       o.Price,
			TotalVolume: o.Volume,
			Orders:      []model.LevelOrder{levelOrder(o)},
		})
	}
	return levels
}

// SideVolume is the total resting volume across one side's levels.
func SideVolume(levels []model.PriceLevel) float64 {
	var total float64
	for _, l := range levels {
		total += l.TotalVolume
	}
	return total
}

func levelOrder(o model.Order) model.LevelOrder {
	return model.LevelOrder{
		OwnerName:      o.OwnerName,
		OrderID:        o.OrderID,
		Volume:         o.Volume,
		OriginalVolume: o.OriginalVolume,
	}
}
