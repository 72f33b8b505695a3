// Package egress renders fills and quotes back out to the CSV wire format,
// the mirror of internal/ingest: the only place ticks are formatted back
// into decimal text.
package egress

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"matchcore/internal/common"
)

// WriteTrades writes the buyer_id,seller_id,price,qty,taker_side header and
// one row per fill, in the order they were produced.
func WriteTrades(w io.Writer, fills []common.Fill, tick decimal.Decimal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"buyer_id", "seller_id", "price", "qty", "taker_side"}); err != nil {
		return err
	}
	for _, f := range fills {
		row := []string{
			itoa(f.BuyerID),
			itoa(f.SellerID),
			common.FormatTicks(f.Price, tick),
			utoa(f.Qty),
			f.TakerSide.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteQuotes writes the bid,ask header and one row per quote. A nil Bid or
// Ask (an empty side of the book) is rendered as an empty cell, matching the
// reference writer's treatment of a missing side.
func WriteQuotes(w io.Writer, quotes []common.Quote, tick decimal.Decimal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bid", "ask"}); err != nil {
		return err
	}
	for _, q := range quotes {
		row := []string{formatSide(q.Bid, tick), formatSide(q.Ask, tick)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatSide(t *common.Ticks, tick decimal.Decimal) string {
	if t == nil {
		return ""
	}
	return common.FormatTicks(*t, tick)
}

func itoa(v int64) string  { return strconv.FormatInt(v, 10) }
func utoa(v uint64) string { return strconv.FormatUint(v, 10) }
