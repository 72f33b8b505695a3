package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseTicks converts a decimal price string (as read off a CSV row) into an
// integer number of ticks. Ingest converts every order price through here;
// everything downstream of ingest operates on Ticks, per the
// fixed-point-over-float design decision.
func ParseTicks(raw string, tick decimal.Decimal) (Ticks, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return DecimalToTicks(d, tick)
}

// DecimalToTicks converts an already-parsed decimal price into ticks,
// rounding to the nearest tick.
func DecimalToTicks(price, tick decimal.Decimal) (Ticks, error) {
	if tick.Sign() <= 0 {
		return 0, fmt.Errorf("tick size must be positive, got %s", tick)
	}
	ratio := price.Div(tick)
	return Ticks(ratio.Round(0).IntPart()), nil
}

// FormatTicks converts an integer number of ticks back into a decimal string
// suitable for a CSV cell, with as many decimal places as tick carries
// (10000 ticks of 0.01 is "100.00"). It is the mirror of ParseTicks, used
// only at egress.
func FormatTicks(t Ticks, tick decimal.Decimal) string {
	d := decimal.NewFromInt(int64(t)).Mul(tick)
	if places := -tick.Exponent(); places > 0 {
		return d.StringFixed(places)
	}
	return d.String()
}
