package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("matchcore failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matchcore",
		Short: "Continuous and batch-auction matching engine simulator",
	}

	root.AddCommand(
		newGenCmd(),
		newSimulateCmd(),
		newBenchmarkCmd(),
		newCompareCmd(),
		newMetricsCmd(),
	)
	return root
}

func fail(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
