// Package metrics computes trade quality measures (VWAP, signed slippage)
// over a completed run's fills and quotes, and compares two runs against
// each other.
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"matchcore/internal/common"
)

// VWAP returns the volume-weighted average price of fills, in ticks (as a
// decimal, since the weighted average is rarely an integer number of
// ticks). Returns false if trades is empty or carries zero total quantity.
func VWAP(fills []common.Fill) (decimal.Decimal, bool) {
	totalVal := decimal.Zero
	var totalQty uint64
	for _, f := range fills {
		totalVal = totalVal.Add(decimal.NewFromInt(int64(f.Price)).Mul(decimal.NewFromInt(int64(f.Qty))))
		totalQty += f.Qty
	}
	if totalQty == 0 {
		return decimal.Zero, false
	}
	return totalVal.Div(decimal.NewFromInt(int64(totalQty))), true
}

// SignedSlippageTicks returns, per fill, (price-reference)/1 signed so that a
// BUY paying above the reference is positive slippage and a SELL trading
// below it is also positive (i.e. the taker always benefits from negative
// values and pays for positive ones). reference is typically the run's VWAP
// or average mid, already expressed in ticks.
func SignedSlippageTicks(fills []common.Fill, reference decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(fills))
	for i, f := range fills {
		raw := decimal.NewFromInt(int64(f.Price)).Sub(reference)
		if f.TakerSide == common.Sell {
			raw = raw.Neg()
		}
		out[i] = raw
	}
	return out
}

// Summary is the aggregate view of one run's fills used for reporting and
// cross-mode comparison.
type Summary struct {
	Trades       int
	Volume       uint64
	VWAP         decimal.Decimal
	HasVWAP      bool
	AvgSlippage  decimal.Decimal
	HasSlippage  bool
}

// Summarize reduces a run's fills to a Summary. Average signed slippage uses
// the run's own VWAP as the reference price, matching the reference
// comparison tool's convention.
func Summarize(fills []common.Fill) Summary {
	s := Summary{Trades: len(fills)}
	for _, f := range fills {
		s.Volume += f.Qty
	}

	vwap, ok := VWAP(fills)
	s.VWAP, s.HasVWAP = vwap, ok
	if !ok || len(fills) == 0 {
		return s
	}

	slips := SignedSlippageTicks(fills, vwap)
	sum := decimal.Zero
	for _, v := range slips {
		sum = sum.Add(v)
	}
	s.AvgSlippage = sum.Div(decimal.NewFromInt(int64(len(slips))))
	s.HasSlippage = true
	return s
}

// LoadTrades parses a trades.csv (as written by internal/egress.WriteTrades)
// back into Fills, for post-hoc comparison tooling.
func LoadTrades(r io.Reader) ([]common.Fill, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := headerIndex(rows[0])

	fills := make([]common.Fill, 0, len(rows)-1)
	for _, row := range rows[1:] {
		price, err := decimal.NewFromString(row[idx["price"]])
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		fills = append(fills, common.Fill{
			BuyerID:   parseInt(row[idx["buyer_id"]]),
			SellerID:  parseInt(row[idx["seller_id"]]),
			Price:     common.Ticks(price.IntPart()),
			Qty:       uint64(parseInt(row[idx["qty"]])),
			TakerSide: parseTakerSide(row[idx["taker_side"]]),
		})
	}
	return fills, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func parseInt(s string) int64 {
	var v int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return v
		}
		v = v*10 + int64(c-'0')
	}
	return v
}

func parseTakerSide(s string) common.Side {
	if s == "SELL" {
		return common.Sell
	}
	return common.Buy
}

// Compare renders the two-run markdown comparison table the reference CLI's
// `compare` subcommand prints: trade count, volume, VWAP and average signed
// slippage side by side.
func Compare(batch, continuous []common.Fill) string {
	b := Summarize(batch)
	c := Summarize(continuous)

	vwapCell := func(s Summary) string {
		if !s.HasVWAP {
			return "N/A"
		}
		return s.VWAP.StringFixed(4)
	}
	slipCell := func(s Summary) string {
		if !s.HasSlippage {
			return "0.00"
		}
		return s.AvgSlippage.StringFixed(2)
	}

	return fmt.Sprintf(
		"# Batch vs Continuous Comparison\n\n"+
			"| Metric | Batch | Continuous |\n"+
			"| --- | --- | --- |\n"+
			"| Trades | %d | %d |\n"+
			"| Volume | %d | %d |\n"+
			"| VWAP | %s | %s |\n"+
			"| Avg signed slippage (ticks) | %s | %s |\n",
		b.Trades, c.Trades,
		b.Volume, c.Volume,
		vwapCell(b), vwapCell(c),
		slipCell(b), slipCell(c),
	)
}
