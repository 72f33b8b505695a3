package main

import (
	"os"

	"github.com/spf13/cobra"

	"matchcore/internal/ingest"
)

func newGenCmd() *cobra.Command {
	var (
		n            int
		seed         int64
		auctionMS    int64
		crossRate    float64
		tickSize     float64
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a deterministic order CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fail("create output", err)
				}
				defer f.Close()
				out = f
			}

			cfg := ingest.GenConfig{
				N:                 n,
				Seed:              uint64(seed),
				AuctionIntervalMS: auctionMS,
				CrossRate:         crossRate,
				TickSize:          tickSize,
			}
			return ingest.GenerateOrders(out, cfg)
		},
	}

	cmd.Flags().IntVar(&n, "n", 1000, "number of orders to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	cmd.Flags().Int64Var(&auctionMS, "auction-ms", 100, "batch auction interval in ms (informational)")
	cmd.Flags().Float64Var(&crossRate, "cross-rate", 0.3, "fraction of priced orders that cross the spread")
	cmd.Flags().Float64Var(&tickSize, "tick", 0.01, "decimal tick size")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	return cmd
}
