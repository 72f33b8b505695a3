package sim

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/common"
	"matchcore/internal/egress"
	"matchcore/internal/ingest"
)

// Config configures one run driven through Stream.
type Config struct {
	Mode       Mode
	IntervalMS int64
	TickSize   decimal.Decimal
}

// Stream reads an order CSV from r, drives the selected matcher mode, and
// writes the resulting trade/quote CSVs to tradesOut/quotesOut. It threads a
// tomb.Tomb around a small read -> match -> write pipeline so the run
// responds to ctx cancellation (SIGINT/SIGTERM from the CLI), mirroring the
// supervised-worker-pool shutdown discipline the teacher's TCP server used —
// even though the matcher itself (RunContinuous/RunBatch) never blocks or
// suspends and is invoked from exactly one goroutine. Cancelling ctx is a
// clean stop: Stream returns nil, and output not yet written is not written.
func Stream(ctx context.Context, r io.Reader, tradesOut, quotesOut io.Writer, cfg Config) error {
	runID := uuid.New()
	logger := log.With().Str("runID", runID.String()).Logger()

	t, ctx := tomb.WithContext(ctx)

	orders := make(chan common.Order, 256)
	results := make(chan Result, 1)

	t.Go(func() error {
		defer close(orders)
		parsed, err := ingest.ReadOrders(r, cfg.TickSize)
		if err != nil {
			return fmt.Errorf("read orders: %w", err)
		}
		logger.Info().Int("count", len(parsed)).Msg("orders ingested")
		for _, o := range parsed {
			select {
			case <-t.Dying():
				return nil
			case orders <- o:
			}
		}
		return nil
	})

	t.Go(func() error {
		defer close(results)
		buffered := make([]common.Order, 0, 256)
		for {
			select {
			case <-t.Dying():
				return nil
			case o, ok := <-orders:
				if !ok {
					result := match(buffered, cfg)
					logger.Info().
						Int("fills", len(result.Fills)).
						Int("quotes", len(result.Quotes)).
						Str("mode", modeName(cfg.Mode)).
						Msg("run matched")
					select {
					case results <- result:
					case <-t.Dying():
					}
					return nil
				}
				buffered = append(buffered, o)
			}
		}
	})

	t.Go(func() error {
		select {
		case <-t.Dying():
			return nil
		case result, ok := <-results:
			if !ok {
				return nil
			}
			if err := egress.WriteTrades(tradesOut, result.Fills, cfg.TickSize); err != nil {
				return fmt.Errorf("write trades: %w", err)
			}
			if err := egress.WriteQuotes(quotesOut, result.Quotes, cfg.TickSize); err != nil {
				return fmt.Errorf("write quotes: %w", err)
			}
			return nil
		}
	})

	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func match(orders []common.Order, cfg Config) Result {
	switch cfg.Mode {
	case Batch:
		// Prices are already expressed in tick units by the time they reach
		// the core (see common.ParseTicks), so the midpoint-snap grid is
		// always 1 tick regardless of the instrument's decimal tick size.
		return RunBatch(orders, cfg.IntervalMS, 1)
	default:
		return RunContinuous(orders)
	}
}

func modeName(m Mode) string {
	if m == Batch {
		return "batch"
	}
	return "continuous"
}
