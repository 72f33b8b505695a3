package common

import "fmt"

// Fill is the output record of a single execution, shared by both matcher
// modes so downstream consumers can compare their behaviour uniformly.
type Fill struct {
	BuyerID   int64
	SellerID  int64
	Price     Ticks  // execution price: the resting level in CLOB, the uniform clearing price in batch
	Qty       uint64 // > 0
	TakerSide Side   // arriving aggressor's side in CLOB; fixed to Buy in batch (set by auction.ClearBatch's allocation)
}

func (f Fill) String() string {
	return fmt.Sprintf(
		"Fill{buyer=%d seller=%d price=%d qty=%d taker=%s}",
		f.BuyerID, f.SellerID, f.Price, f.Qty, f.TakerSide,
	)
}

// Quote is a best-bid/best-ask snapshot. Either side is nil when that side of
// the book (CLOB) or the batch's resting-style limits (auction) is empty.
type Quote struct {
	Bid *Ticks
	Ask *Ticks
}
