// Package book implements the order book reducer: the bid/ask collections,
// the insert/update/snapshot application rules, and the pure aggregation view
// that rolls a side up into per-price levels with per-party breakdown.
package book

import (
	"sort"

	"github.com/micapu/market-made-web/internal/model"
)

// Book owns one market's bid and ask collections.
//
// Both sides are kept sorted by Less (price ascending, then orderId
// ascending): the best bid is the last element of the bid slice, the best ask
// the first element of the ask slice. Every apply installs fresh slices, so a
// slice handed out by Bids or Asks is never mutated afterwards.
//
// Book is not safe for concurrent use; the session's event loop is the only
// writer.
type Book struct {
	bids []model.Order
	asks []model.Order
}

// New returns an empty book.
func New() *Book {
	return &Book{}
}

// Less is the order sort function: ascending price, ties broken by ascending
// orderId. Order ids are issued monotonically by the authority, so the
// tie-break approximates time priority.
func Less(a, b model.Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.OrderID < b.OrderID
}

// ApplySnapshot replaces both sides wholesale. Used on session join and after
// a game-start hard reset. Input order is irrelevant; both sides are sorted.
func (b *Book) ApplySnapshot(bids, asks []model.Order) {
	b.bids = sortedCopy(bids)
	b.asks = sortedCopy(asks)
}

// ApplyInsert inserts an order into the matching side at its sort position.
// Malformed orders are rejected and the book is left untouched.
func (b *Book) ApplyInsert(order model.Order) {
	if !order.Valid() {
		return
	}
	side := b.side(order.IsBid)
	i := sort.Search(len(side), func(i int) bool {
		return Less(order, side[i])
	})
	next := make([]model.Order, 0, len(side)+1)
	next = append(next, side[:i]...)
	next = append(next, order)
	next = append(next, side[i:]...)
	b.setSide(order.IsBid, next)
}

// ApplyUpdate locates the existing order by id within the matching side and
// replaces it, or removes it when the incoming volume is zero. An unknown
// orderId is a no-op: the event is stale or already resolved by a snapshot.
// A price change on update is not supported; the authority models that as
// cancel+insert.
func (b *Book) ApplyUpdate(order model.Order) {
	if !order.Valid() {
		return
	}
	side := b.side(order.IsBid)
	for i := range side {
		if side[i].OrderID != order.OrderID {
			continue
		}
		var next []model.Order
		if order.Volume == 0 {
			next = make([]model.Order, 0, len(side)-1)
			next = append(next, side[:i]...)
			next = append(next, side[i+1:]...)
		} else {
			next = make([]model.Order, len(side))
			copy(next, side)
			next[i] = order
		}
		b.setSide(order.IsBid, next)
		return
	}
}

// Bids returns the bid side, price ascending. Callers must not modify it.
func (b *Book) Bids() []model.Order { return b.bids }

// Asks returns the ask side, price ascending. Callers must not modify it.
func (b *Book) Asks() []model.Order { return b.asks }

// BestBid returns the highest-priced bid.
func (b *Book) BestBid() (model.Order, bool) {
	if len(b.bids) == 0 {
		return model.Order{}, false
	}
	return b.bids[len(b.bids)-1], true
}

// BestAsk returns the lowest-priced ask.
func (b *Book) BestAsk() (model.Order, bool) {
	if len(b.asks) == 0 {
		return model.Order{}, false
	}
	return b.asks[0], true
}

// OutstandingOrders returns the live orders owned by name, both sides, in
// sort order (bids first). Always recomputed from the book, so it can never
// drift from the order collections.
func (b *Book) OutstandingOrders(name string) []model.Order {
	var mine []model.Order
	for _, o := range b.bids {
		if o.OwnerName == name {
			mine = append(mine, o)
		}
	}
	for _, o := range b.asks {
		if o.OwnerName == name {
			mine = append(mine, o)
		}
	}
	return mine
}

// StandingVolume sums name's outstanding volume per side.
func (b *Book) StandingVolume(name string) (bidVolume, askVolume float64) {
	for _, o := range b.bids {
		if o.OwnerName == name {
			bidVolume += o.Volume
		}
	}
	for _, o := range b.asks {
		if o.OwnerName == name {
			askVolume += o.Volume
		}
	}
	return bidVolume, askVolume
}

func (b *Book) side(isBid bool) []model.Order {
	if isBid {
		return b.bids
	}
	return b.asks
}

func (b *Book) setSide(isBid bool, side []model.Order) {
	if isBid {
		b.bids = side
	} else {
		b.asks = side
	}
}

func sortedCopy(orders []model.Order) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Valid() {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}
