package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"matchcore/internal/metrics"
	"matchcore/internal/report"
)

func newMetricsCmd() *cobra.Command {
	var (
		tradesPath string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute trade metrics and write a markdown tearsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(tradesPath)
			if err != nil {
				return fail("open trades", err)
			}
			defer f.Close()

			fills, err := metrics.LoadTrades(f)
			if err != nil {
				return fail("load trades", err)
			}

			summary := metrics.Summarize(fills)
			sheet := report.Tearsheet(summary)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fail("create output dir", err)
			}
			path := filepath.Join(outDir, "tearsheet.md")
			if err := os.WriteFile(path, []byte(sheet), 0o644); err != nil {
				return fail("write tearsheet", err)
			}

			log.Info().Str("path", path).Msg("metrics written")
			return nil
		},
	}

	cmd.Flags().StringVar(&tradesPath, "trades", "", "trades.csv path")
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	cmd.MarkFlagRequired("trades")

	return cmd
}
