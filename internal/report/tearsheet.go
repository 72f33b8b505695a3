// Package report renders a run's metrics.Summary as a markdown tearsheet,
// the Go equivalent of the reference CLI's `metrics` subcommand.
package report

import (
	"fmt"

	"matchcore/internal/metrics"
)

// Tearsheet renders the single-run markdown report written by the `metrics`
// subcommand: trade count, total volume, and VWAP (or N/A when there were no
// trades).
func Tearsheet(s metrics.Summary) string {
	vwap := "N/A"
	if s.HasVWAP {
		vwap = s.VWAP.StringFixed(4)
	}
	return fmt.Sprintf(
		"# Trade Metrics Tearsheet\n\n"+
			"**Total Trades:** %d\n"+
			"**Total Volume:** %d\n"+
			"**VWAP:** %s\n",
		s.Trades, s.Volume, vwap,
	)
}
