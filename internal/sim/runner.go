// Package sim drives one run of the matching core end to end: it applies the
// batching rule from the distilled spec's §6, dispatches to whichever matcher
// mode was selected, and collects the resulting fill and quote streams. The
// core packages it calls (internal/clob, internal/auction) stay synchronous
// and I/O-free; this package is the only place concurrency appears, and only
// around the core, never inside it.
package sim

import (
	"sort"

	"matchcore/internal/auction"
	"matchcore/internal/clob"
	"matchcore/internal/common"
)

// Mode selects which matcher processes a run's orders.
type Mode int

const (
	Continuous Mode = iota
	Batch
)

// Result is everything a run produces: fills and quotes, in the order the
// matcher emitted them.
type Result struct {
	Fills  []common.Fill
	Quotes []common.Quote
}

// RunContinuous feeds orders one at a time, in the order supplied, into a
// fresh continuous order book. A quote snapshot is taken after every order,
// matching §3's "one is emitted after each order applied" rule.
func RunContinuous(orders []common.Order) Result {
	book := clob.New()
	var result Result

	for _, o := range orders {
		if o.Type == common.Cancel {
			book.CancelOrder(o.TargetID)
		} else {
			fills, err := book.AddOrder(o)
			// InvalidOrder is a programmer error (§7): the order never
			// should have reached the core. It is skipped rather than
			// aborting the run, and still gets its snapshot row below.
			if err == nil {
				result.Fills = append(result.Fills, fills...)
			}
		}
		result.Quotes = append(result.Quotes, book.Snapshot())
	}
	return result
}

// RunBatch groups orders into batches per the §6 batching rule (integer
// division of each order's timestamp by intervalMS*1e6), processes batches in
// increasing bucket order, and clears each one independently. One quote row
// is emitted per batch, only when both sides of the pre-auction snapshot are
// present, matching §6.
func RunBatch(orders []common.Order, intervalMS int64, tick common.Ticks) Result {
	buckets := bucketize(orders, intervalMS)

	ids := make([]int64, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result Result
	for _, id := range ids {
		batchOrders := buckets[id]

		bestBid, bestAsk, preMid := auction.PreAuctionSnapshot(batchOrders)
		if bestBid != nil && bestAsk != nil {
			result.Quotes = append(result.Quotes, common.Quote{Bid: bestBid, Ask: bestAsk})
		}

		_, fills := auction.ClearBatch(batchOrders, preMid, tick)
		result.Fills = append(result.Fills, fills...)
	}
	return result
}

func bucketize(orders []common.Order, intervalMS int64) map[int64][]common.Order {
	buckets := make(map[int64][]common.Order)
	intervalNS := intervalMS * 1_000_000
	for _, o := range orders {
		id := o.Timestamp / intervalNS
		buckets[id] = append(buckets[id], o)
	}
	return buckets
}
