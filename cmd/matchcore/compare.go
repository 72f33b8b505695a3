package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"matchcore/internal/ingest"
	"matchcore/internal/metrics"
	"matchcore/internal/sim"
)

func newCompareCmd() *cobra.Command {
	var (
		inPath   string
		interval int64
		tickSize string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both modes over the same orders and print a markdown comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := decimal.NewFromString(tickSize)
			if err != nil {
				return fail("parse tick", err)
			}

			f, err := os.Open(inPath)
			if err != nil {
				return fail("open input", err)
			}
			defer f.Close()

			orders, err := ingest.ReadOrders(f, tick)
			if err != nil {
				return fail("read orders", err)
			}

			// Prices are already in tick units by the time they reach the
			// core (see common.ParseTicks), so the midpoint-snap grid is
			// always 1 tick regardless of the instrument's decimal tick size.
			batch := sim.RunBatch(orders, interval, 1)
			continuous := sim.RunContinuous(orders)

			_, err = fmt.Fprint(cmd.OutOrStdout(), metrics.Compare(batch.Fills, continuous.Fills))
			return err
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "input order CSV")
	cmd.Flags().Int64Var(&interval, "interval", 100, "batch interval in ms")
	cmd.Flags().StringVar(&tickSize, "tick", "0.01", "decimal tick size")
	cmd.MarkFlagRequired("in")

	return cmd
}
