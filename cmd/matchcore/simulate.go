package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"matchcore/internal/sim"
)

func newSimulateCmd() *cobra.Command {
	var (
		inPath   string
		mode     string
		interval int64
		outDir   string
		tickSize string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulation in batch or continuous mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := decimal.NewFromString(tickSize)
			if err != nil {
				return fail("parse tick", err)
			}

			m := sim.Continuous
			if mode == "batch" {
				m = sim.Batch
			}

			in, err := os.Open(inPath)
			if err != nil {
				return fail("open input", err)
			}
			defer in.Close()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fail("create output dir", err)
			}
			tradesFile, err := os.Create(filepath.Join(outDir, "trades.csv"))
			if err != nil {
				return fail("create trades.csv", err)
			}
			defer tradesFile.Close()
			quotesFile, err := os.Create(filepath.Join(outDir, "quotes.csv"))
			if err != nil {
				return fail("create quotes.csv", err)
			}
			defer quotesFile.Close()

			cfg := sim.Config{Mode: m, IntervalMS: interval, TickSize: tick}
			if err := sim.Stream(cmd.Context(), in, tradesFile, quotesFile, cfg); err != nil {
				return fail("simulate", err)
			}

			log.Info().Str("out", outDir).Msg("simulation complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "input order CSV")
	cmd.Flags().StringVar(&mode, "mode", "continuous", "matcher mode: batch or continuous")
	cmd.Flags().Int64Var(&interval, "interval", 100, "batch interval in ms (batch mode only)")
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	cmd.Flags().StringVar(&tickSize, "tick", "0.01", "decimal tick size")
	cmd.MarkFlagRequired("in")

	return cmd
}
