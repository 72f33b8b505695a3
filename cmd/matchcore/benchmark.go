package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"matchcore/internal/bench"
	"matchcore/internal/ingest"
)

func newBenchmarkCmd() *cobra.Command {
	var (
		inPath   string
		mode     string
		interval int64
		outDir   string
		tickSize string
	)

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Benchmark matcher throughput and per-order latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			tick, err := decimal.NewFromString(tickSize)
			if err != nil {
				return fail("parse tick", err)
			}

			in, err := os.Open(inPath)
			if err != nil {
				return fail("open input", err)
			}
			defer in.Close()

			orders, err := ingest.ReadOrders(in, tick)
			if err != nil {
				return fail("read orders", err)
			}

			var result bench.Result
			if mode == "batch" {
				result = bench.RunBatch(orders, interval)
			} else {
				result = bench.RunContinuous(orders)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fail("create output dir", err)
			}
			path := filepath.Join(outDir, "bench.json")
			f, err := os.Create(path)
			if err != nil {
				return fail("create bench.json", err)
			}
			defer f.Close()

			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fail("write bench.json", err)
			}

			log.Info().Str("path", path).Msg("benchmark complete")
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
