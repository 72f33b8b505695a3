// Package auction implements the periodic uniform-price batch auction: given
// a set of orders active in one interval, it finds the clearing price that
// maximises executed volume and allocates fills FIFO at that price.
package auction

import (
	"sort"

	"matchcore/internal/common"
)

// entry is a normalised participant in the auction: a BUY or SELL at a
// (possibly synthetic) price, carrying enough provenance to sort FIFO.
type entry struct {
	id        int64
	price     common.Ticks
	qty       uint64
	timestamp int64
}

// ClearBatch finds the uniform clearing price maximising executed volume over
// orders, tie-breaking deterministically, and allocates fills FIFO. It
// returns (nil, nil) when no candidate price has positive volume.
//
// preMid, when non-nil, is the external tie-break reference (see
// PreAuctionSnapshot). tick is the grid granularity, in instrument
// ticks, used to snap the midpoint convention when preMid is absent.
func ClearBatch(orders []common.Order, preMid *common.Ticks, tick common.Ticks) (*common.Ticks, []common.Fill) {
	bids, asks := normalize(orders)

	bidLevels := aggregate(bids)
	askLevels := aggregate(asks)

	candidates := candidatePrices(bids, asks)
	if len(candidates) == 0 {
		return nil, nil
	}

	bestVolume := uint64(0)
	var winners []common.Ticks
	for _, p := range candidates {
		v := volumeAt(bidLevels, askLevels, p)
		switch {
		case v > bestVolume:
			bestVolume = v
			winners = []common.Ticks{p}
		case v == bestVolume && v > 0:
			winners = append(winners, p)
		}
	}
	if bestVolume == 0 {
		return nil, nil
	}

	clearingPrice := selectClearingPrice(winners, preMid, tick)
	targetVolume := volumeAt(bidLevels, askLevels, clearingPrice)

	fills := allocate(bids, asks, clearingPrice, targetVolume)
	return &clearingPrice, fills
}

// normalize drops CANCEL entries (meaningless outside CLOB), treats IOC as
// LIMIT (there is no arrival-time "or cancel" when everything clears
// simultaneously), and maps MARKET orders to synthetic sentinel prices that
// participate in aggregation but never as a candidate clearing price.
func normalize(orders []common.Order) (bids, asks []entry) {
	for _, o := range orders {
		if o.Type == common.Cancel {
			continue
		}

		price := o.Price
		if o.Type == common.Market {
			if o.Side == common.Buy {
				price = common.MaxTicks
			} else {
				price = common.MinTicks
			}
		}

		e := entry{id: o.ID, price: price, qty: o.Qty, timestamp: o.Timestamp}
		if o.Side == common.Buy {
			bids = append(bids, e)
		} else {
			asks = append(asks, e)
		}
	}
	return bids, asks
}

func aggregate(entries []entry) map[common.Ticks]uint64 {
	levels := make(map[common.Ticks]uint64, len(entries))
	for _, e := range entries {
		levels[e.price] += e.qty
	}
	return levels
}

// candidatePrices is the union of finite prices present in either side,
// excluding the MARKET sentinels (which would otherwise define a degenerate
// clear at the extremes).
func candidatePrices(bids, asks []entry) []common.Ticks {
	set := make(map[common.Ticks]struct{})
	add := func(entries []entry) {
		for _, e := range entries {
			if e.price == common.MaxTicks || e.price == common.MinTicks {
				continue
			}
			set[e.price] = struct{}{}
		}
	}
	add(bids)
	add(asks)

	out := make([]common.Ticks, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func demandAt(bidLevels map[common.Ticks]uint64, p common.Ticks) uint64 {
	var total uint64
	for px, q := range bidLevels {
		if px >= p {
			total += q
		}
	}
	return total
}

func supplyAt(askLevels map[common.Ticks]uint64, p common.Ticks) uint64 {
	var total uint64
	for px, q := range askLevels {
		if px <= p {
			total += q
		}
	}
	return total
}

func volumeAt(bidLevels, askLevels map[common.Ticks]uint64, p common.Ticks) uint64 {
	return min(demandAt(bidLevels, p), supplyAt(askLevels, p))
}

// selectClearingPrice applies the tie-break rules over the winners plateau.
func selectClearingPrice(winners []common.Ticks, preMid *common.Ticks, tick common.Ticks) common.Ticks {
	if len(winners) == 1 {
		return winners[0]
	}

	if preMid != nil {
		best := winners[0]
		bestDist := absTicks(best - *preMid)
		for _, p := range winners[1:] {
			dist := absTicks(p - *preMid)
			if dist < bestDist || (dist == bestDist && p < best) {
				best = p
				bestDist = dist
			}
		}
		return best
	}

	lo, hi := winners[0], winners[0]
	for _, p := range winners[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return snapToTick(lo, hi, tick)
}

// snapToTick rounds the midpoint of [lo, hi] to the nearest multiple of tick.
// The snapped value need not lie in the winners set — that is intentional
// (the auction "midpoint" convention).
func snapToTick(lo, hi, tick common.Ticks) common.Ticks {
	if tick <= 0 {
		tick = 1
	}
	sum := int64(lo) + int64(hi)
	denom := int64(tick) * 2
	return common.Ticks(roundDiv(sum, denom)) * tick
}

// roundDiv performs round-half-away-from-zero integer division.
func roundDiv(num, denom int64) int64 {
	if denom == 0 {
		return 0
	}
	neg := (num < 0) != (denom < 0)
	if num < 0 {
		num = -num
	}
	if denom < 0 {
		denom = -denom
	}
	q := (2*num + denom) / (2 * denom)
	if neg {
		return -q
	}
	return q
}

func absTicks(t common.Ticks) common.Ticks {
	if t < 0 {
		return -t
	}
	return t
}

// allocate walks both sides in price-time priority, emitting fills at price
// until target volume has traded. BUYs are ordered best-priced first, then
// earliest-arrival, then smallest id; SELLs symmetrically.
func allocate(bids, asks []entry, price common.Ticks, target uint64) []common.Fill {
	validBids := filterSide(bids, func(e entry) bool { return e.price >= price })
	validAsks := filterSide(asks, func(e entry) bool { return e.price <= price })

	sort.Slice(validBids, func(i, j int) bool {
		a, b := validBids[i], validBids[j]
		if a.price != b.price {
			return a.price > b.price
		}
		if a.timestamp != b.timestamp {
			return a.timestamp < b.timestamp
		}
		return a.id < b.id
	})
	sort.Slice(validAsks, func(i, j int) bool {
		a, b := validAsks[i], validAsks[j]
		if a.price != b.price {
			return a.price < b.price
		}
		if a.timestamp != b.timestamp {
			return a.timestamp < b.timestamp
		}
		return a.id < b.id
	})

	bidRem := make([]uint64, len(validBids))
	for i, e := range validBids {
		bidRem[i] = e.qty
	}
	askRem := make([]uint64, len(validAsks))
	for i, e := range validAsks {
		askRem[i] = e.qty
	}

	var fills []common.Fill
	traded := uint64(0)
	bi, ai := 0, 0
	for traded < target && bi < len(validBids) && ai < len(validAsks) {
		if bidRem[bi] == 0 {
			bi++
			continue
		}
		if askRem[ai] == 0 {
			ai++
			continue
		}

		qty := min(bidRem[bi], askRem[ai], target-traded)
		fills = append(fills, common.Fill{
			BuyerID:   validBids[bi].id,
			SellerID:  validAsks[ai].id,
			Price:     price,
			Qty:       qty,
			TakerSide: common.Buy,
		})
		bidRem[bi] -= qty
		askRem[ai] -= qty
		traded += qty
	}
	return fills
}

func filterSide(entries []entry, keep func(entry) bool) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
