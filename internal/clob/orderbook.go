// Package clob implements the continuous, price-time-priority limit order
// book described in the matching core: LIMIT, MARKET, IOC application and
// cancel-by-id, with best-bid/best-ask available in O(log L).
package clob

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"

	"matchcore/internal/common"
)

type priceLevels = btree.BTreeG[*priceLevel]

// OrderBook is a single-instrument continuous limit order book. It is
// synchronous and owns no goroutines; callers serialize access themselves
// (internal/sim invokes it from exactly one goroutine at a time).
type OrderBook struct {
	bids *priceLevels // best bid first: sorted by descending price
	asks *priceLevels // best ask first: sorted by ascending price

	index map[int64]indexEntry // order_id -> (side, price) for CANCEL

	trades []common.Fill // append-only internal trade log
}

// New returns an empty order book.
func New() *OrderBook {
	bids := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.priceTicks > b.priceTicks
	})
	asks := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.priceTicks < b.priceTicks
	})
	return &OrderBook{
		bids:  bids,
		asks:  asks,
		index: make(map[int64]indexEntry),
	}
}

// AddOrder applies an incoming LIMIT, MARKET, or IOC order and returns the
// fills it generated, in the order they were produced. CANCEL must go
// through CancelOrder instead.
func (b *OrderBook) AddOrder(o common.Order) ([]common.Fill, error) {
	if o.Type != common.Cancel && o.Qty == 0 {
		return nil, fmt.Errorf("%w: order %d has non-positive quantity", common.ErrInvalidOrder, o.ID)
	}

	switch o.Type {
	case common.Limit:
		fills, remaining := b.match(o.Side, o.Price, o.Qty, o.ID, true)
		if remaining > 0 {
			b.rest(o.Side, o.Price, o.ID, remaining)
		}
		return fills, nil
	case common.Market:
		fills, _ := b.match(o.Side, 0, o.Qty, o.ID, false)
		return fills, nil
	case common.IOC:
		fills, _ := b.match(o.Side, o.Price, o.Qty, o.ID, true)
		return fills, nil
	default:
		return nil, fmt.Errorf("%w: order %d has unknown type %d", common.ErrInvalidOrder, o.ID, o.Type)
	}
}

// CancelOrder removes a resting order by id. It returns false, not an error,
// when the id is not currently resting — an absent CANCEL target is a
// normal outcome, not a failure (§7 UnknownCancelTarget).
func (b *OrderBook) CancelOrder(id int64) bool {
	entry, ok := b.index[id]
	if !ok {
		return false
	}

	levels := b.levelsForSide(entry.side)
	lvl, ok := levels.GetMut(&priceLevel{priceTicks: entry.priceTicks})
	if !ok {
		// Index and book disagree; treat as not-found rather than panic.
		log.Error().Int64("orderID", id).Msg("cancel: index entry had no matching price level")
		delete(b.index, id)
		return false
	}

	for i, ro := range lvl.orders {
		if ro.id == id {
			lvl.orders = append(lvl.orders[:i], lvl.orders[i+1:]...)
			break
		}
	}
	delete(b.index, id)

	if lvl.empty() {
		levels.Delete(lvl)
	}
	return true
}

// Snapshot returns the current best bid and best ask. A nil side means that
// side of the book currently has no resting orders.
func (b *OrderBook) Snapshot() common.Quote {
	var q common.Quote
	if lvl, ok := b.bids.Min(); ok {
		p := lvl.priceTicks
		q.Bid = &p
	}
	if lvl, ok := b.asks.Min(); ok {
		p := lvl.priceTicks
		q.Ask = &p
	}
	return q
}

// Trades returns the internal trade log accumulated so far, in the order
// fills were produced.
func (b *OrderBook) Trades() []common.Fill {
	return b.trades
}

func (b *OrderBook) levelsForSide(side common.Side) *priceLevels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// match sweeps the opposing side of the book against an arriving order with
// quantity qty, taking min(remaining, resting) at each resting order until
// remaining reaches zero, the opposing side is exhausted, or (when
// checkCross is true) the crossing condition fails. It returns the fills
// produced and whatever quantity remains unmatched.
func (b *OrderBook) match(side common.Side, price common.Ticks, qty uint64, takerID int64, checkCross bool) ([]common.Fill, uint64) {
	opp := b.levelsForSide(oppositeSide(side))
	remaining := qty
	var fills []common.Fill

	for remaining > 0 {
		lvl, ok := opp.Min()
		if !ok {
			break
		}
		if checkCross {
			if side == common.Buy && lvl.priceTicks > price {
				break
			}
			if side == common.Sell && lvl.priceTicks < price {
				break
			}
		}

		for len(lvl.orders) > 0 && remaining > 0 {
			front := lvl.orders[0]
			tradeQty := min(remaining, front.remaining)

			var fill common.Fill
			if side == common.Buy {
				fill = common.Fill{BuyerID: takerID, SellerID: front.id, Price: lvl.priceTicks, Qty: tradeQty, TakerSide: side}
			} else {
				fill = common.Fill{BuyerID: front.id, SellerID: takerID, Price: lvl.priceTicks, Qty: tradeQty, TakerSide: side}
			}
			fills = append(fills, fill)
			b.trades = append(b.trades, fill)

			remaining -= tradeQty
			front.remaining -= tradeQty
			if front.remaining == 0 {
				delete(b.index, front.id)
				lvl.orders = lvl.orders[1:]
			}
		}

		if lvl.empty() {
			opp.Delete(lvl)
		}
	}

	return fills, remaining
}

// rest enqueues a residual LIMIT quantity at the tail of its (side, price)
// level, creating the level if it does not yet exist, and registers the
// order in the cancel index.
func (b *OrderBook) rest(side common.Side, price common.Ticks, id int64, qty uint64) {
	levels := b.levelsForSide(side)
	if lvl, ok := levels.GetMut(&priceLevel{priceTicks: price}); ok {
		lvl.orders = append(lvl.orders, &restingOrder{id: id, remaining: qty})
	} else {
		levels.Set(&priceLevel{
			priceTicks: price,
			orders:     []*restingOrder{{id: id, remaining: qty}},
		})
	}
	b.index[id] = indexEntry{side: side, priceTicks: price}
}

func oppositeSide(side common.Side) common.Side {
	if side == common.Buy {
		return common.Sell
	}
	return common.Buy
}
