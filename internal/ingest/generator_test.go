package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrders_DeterministicForSameSeed(t *testing.T) {
	cfg := GenConfig{N: 200, Seed: 42, AuctionIntervalMS: 100, CrossRate: 0.3, TickSize: 0.01}

	var a, b bytes.Buffer
	require.NoError(t, GenerateOrders(&a, cfg))
	require.NoError(t, GenerateOrders(&b, cfg))
	assert.Equal(t, a.String(), b.String())
}

func TestGenerateOrders_DifferentSeedsDiverge(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, GenerateOrders(&a, GenConfig{N: 200, Seed: 1, CrossRate: 0.3, TickSize: 0.01}))
	require.NoError(t, GenerateOrders(&b, GenConfig{N: 200, Seed: 2, CrossRate: 0.3, TickSize: 0.01}))
	assert.NotEqual(t, a.String(), b.String())
}

func TestGenerateOrders_OutputParsesBackAsOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateOrders(&buf, GenConfig{N: 50, Seed: 7, CrossRate: 0.3, TickSize: 0.01}))

	orders, err := ReadOrders(&buf, tick())
	require.NoError(t, err)
	assert.NotEmpty(t, orders)
}
