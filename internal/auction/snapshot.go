package auction

import "matchcore/internal/common"

// PreAuctionSnapshot derives the tie-break reference mid from a batch's
// resting-style limits: the best (highest) BUY and best (lowest) SELL among
// LIMIT/IOC orders only. MARKET orders are excluded because their synthetic
// sentinel prices would degrade the reference mid.
func PreAuctionSnapshot(orders []common.Order) (bestBid, bestAsk, preMid *common.Ticks) {
	for _, o := range orders {
		if o.Type != common.Limit && o.Type != common.IOC {
			continue
		}
		p := o.Price
		switch o.Side {
		case common.Buy:
			if bestBid == nil || p > *bestBid {
				bestBid = &p
			}
		case common.Sell:
			if bestAsk == nil || p < *bestAsk {
				bestAsk = &p
			}
		}
	}

	if bestBid != nil && bestAsk != nil {
		mid := roundDiv(int64(*bestBid)+int64(*bestAsk), 2)
		m := common.Ticks(mid)
		preMid = &m
	}
	return bestBid, bestAsk, preMid
}
