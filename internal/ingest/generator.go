package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
)

// GenConfig parameterises the deterministic order generator.
type GenConfig struct {
	N                int     // number of orders to generate
	Seed             uint64  // RNG seed; same seed+config reproduces the same stream
	AuctionIntervalMS int64  // informational only; timestamps are ns-spaced regardless
	CrossRate        float64 // fraction of priced orders that cross the synthetic spread
	TickSize         float64 // decimal tick increment used while drifting the synthetic mid
}

// GenerateOrders writes a deterministic order CSV to w: a synthetic mid price
// drifts slowly, and each row is LIMIT/MARKET/IOC/CANCEL chosen by weighted
// die roll, mirroring the distribution the reference generator uses (80%
// LIMIT, 15% IOC, 5% MARKET among priced orders; a 5% chance of CANCEL
// against a still-live id). Quantities are uniform in [1, 100]. The stream is
// reproducible for a given (N, Seed, CrossRate, TickSize): this package uses
// math/rand/v2's seeded PCG source rather than a process-global RNG so two
// calls with the same GenConfig always produce byte-identical output.
func GenerateOrders(w io.Writer, cfg GenConfig) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>32|1))

	cw := csv.NewWriter(w)
	if err := cw.Write(orderColumns); err != nil {
		return err
	}

	mid := 100.0
	const spreadTicks = 5
	tick := cfg.TickSize
	if tick <= 0 {
		tick = 0.01
	}

	var liveIDs []int64
	nextID := int64(1)
	var timestamp int64

	for i := 0; i < cfg.N; i++ {
		if rng.Float64() < 0.1 {
			sign := 1.0
			if rng.Float64() < 0.5 {
				sign = -1.0
			}
			steps := float64(1 + rng.IntN(3))
			mid += sign * tick * steps
			if mid < 50.0 {
				mid = 50.0
			}
		}

		typeRoll := rng.Float64()
		var row []string
		switch {
		case typeRoll < 0.05 && len(liveIDs) > 0:
			idx := rng.IntN(len(liveIDs))
			cancelID := liveIDs[idx]
			liveIDs = append(liveIDs[:idx], liveIDs[idx+1:]...)
			row = []string{fmt.Sprint(timestamp), fmt.Sprint(nextID), "CANCEL", "", fmt.Sprint(cancelID), ""}
			nextID++
		default:
			var orderType string
			switch {
			case typeRoll < 0.80:
				orderType = "LIMIT"
			case typeRoll < 0.95:
				orderType = "IOC"
			default:
				orderType = "MARKET"
			}

			side := "SELL"
			if rng.Float64() < 0.5 {
				side = "BUY"
			}

			priceCell := ""
			if orderType != "MARKET" {
				var price float64
				if rng.Float64() < cfg.CrossRate {
					steps := float64(rng.IntN(spreadTicks + 1))
					if side == "BUY" {
						price = mid + tick*steps
					} else {
						price = mid - tick*steps
					}
				} else {
					steps := float64(1 + rng.IntN(spreadTicks*2))
					if side == "BUY" {
						price = mid - tick*steps
					} else {
						price = mid + tick*steps
					}
				}
				price = roundToTick(price, tick)
				if price < tick {
					price = tick
				}
				priceCell = fmt.Sprintf("%.2f", price)
			}

			qty := 1 + rng.IntN(100)
			row = []string{fmt.Sprint(timestamp), fmt.Sprint(nextID), orderType, side, priceCell, fmt.Sprint(qty)}
			liveIDs = append(liveIDs, nextID)
			nextID++
		}

		if err := cw.Write(row); err != nil {
			return err
		}

		timestamp += int64(100 + rng.IntN(9901))
	}

	cw.Flush()
	return cw.Error()
}

func roundToTick(price, tick float64) float64 {
	units := price / tick
	r := float64(int64(units + 0.5))
	if units < 0 {
		r = float64(int64(units - 0.5))
	}
	return r * tick
}
