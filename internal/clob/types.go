package clob

import "matchcore/internal/common"

// restingOrder is the mutable record for an order sitting in a FIFO queue at a
// specific price level. A resting order with zero remainder is removed
// immediately; it never lingers at remaining == 0.
type restingOrder struct {
	id        int64
	remaining uint64
}

// priceLevel is a (side, price) bucket holding resting orders in arrival
// order. Empty levels never exist in the book or in the best-price index.
type priceLevel struct {
	priceTicks common.Ticks
	orders     []*restingOrder
}

func (l *priceLevel) empty() bool {
	return len(l.orders) == 0
}

// indexEntry is what the order index keeps per resting order id, so CANCEL
// can find the level to mutate in O(log L) without scanning both sides.
type indexEntry struct {
	side       common.Side
	priceTicks common.Ticks
}
