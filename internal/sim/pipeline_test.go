package sim

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_ContinuousEndToEnd(t *testing.T) {
	input := "timestamp,order_id,type,side,price,qty\n" +
		"0,1,LIMIT,SELL,100.00,10\n" +
		"1,2,LIMIT,BUY,100.00,5\n"

	var trades, quotes bytes.Buffer
	cfg := Config{Mode: Continuous, TickSize: decimal.NewFromFloat(0.01)}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := Stream(ctx, strings.NewReader(input), &trades, &quotes, cfg)
	require.NoError(t, err)
	assert.Contains(t, trades.String(), "2,1,100.00,5,BUY")
	assert.Contains(t, quotes.String(), "bid,ask")
}

func TestStream_BatchEndToEnd(t *testing.T) {
	input := "timestamp,order_id,type,side,price,qty\n" +
		"0,1,LIMIT,BUY,100.00,10\n" +
		"0,2,LIMIT,SELL,99.00,10\n"

	var trades, quotes bytes.Buffer
	cfg := Config{Mode: Batch, IntervalMS: 100, TickSize: decimal.NewFromFloat(0.01)}

	err := Stream(context.Background(), strings.NewReader(input), &trades, &quotes, cfg)
	require.NoError(t, err)
	assert.Contains(t, trades.String(), "buyer_id,seller_id,price,qty,taker_side")

	lines := strings.Split(strings.TrimSpace(trades.String()), "\n")
	require.Len(t, lines, 2, "one header row plus one fill row")
}

func TestStream_CancelledContextStopsEarly(t *testing.T) {
	input := "timestamp,order_id,type,side,price,qty\n" +
		"0,1,LIMIT,BUY,100.00,10\n"

	var trades, quotes bytes.Buffer
	cfg := Config{Mode: Continuous, TickSize: decimal.NewFromFloat(0.01)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Stream(ctx, strings.NewReader(input), &trades, &quotes, cfg)
	require.NoError(t, err)
}
