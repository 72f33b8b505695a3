package clob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore/internal/common"
)

func limit(id int64, side common.Side, price common.Ticks, qty uint64) common.Order {
	return common.Order{ID: id, Type: common.Limit, Side: side, Price: price, Qty: qty}
}

// S1 — CLOB basic cross.
func TestAddOrder_BasicCross(t *testing.T) {
	book := New()

	fills, err := book.AddOrder(limit(1, common.Sell, 10000, 10))
	require.NoError(t, err)
	assert.Empty(t, fills)

	fills, err = book.AddOrder(limit(2, common.Buy, 10000, 5))
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, common.Fill{BuyerID: 2, SellerID: 1, Price: 10000, Qty: 5, TakerSide: common.Buy}, fills[0])

	q := book.Snapshot()
	require.NotNil(t, q.Ask)
	assert.Equal(t, common.Ticks(10000), *q.Ask)
	assert.Nil(t, q.Bid)
}

// S2 — CLOB FIFO at a price level.
func TestAddOrder_FIFO(t *testing.T) {
	book := New()
	_, err := book.AddOrder(limit(1, common.Sell, 10000, 5))
	require.NoError(t, err)
	_, err = book.AddOrder(limit(2, common.Sell, 10000, 5))
	require.NoError(t, err)
	_, err = book.AddOrder(limit(3, common.Sell, 10000, 5))
	require.NoError(t, err)

	fills, err := book.AddOrder(limit(4, common.Buy, 10000, 10))
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, int64(1), fills[0].SellerID)
	assert.Equal(t, uint64(5), fills[0].Qty)
	assert.Equal(t, int64(2), fills[1].SellerID)
	assert.Equal(t, uint64(5), fills[1].Qty)

	// id=3 must still be resting, untouched.
	ok := book.CancelOrder(3)
	assert.True(t, ok)
}

// S3 — IOC partial fill discards the residual instead of resting it.
func TestAddOrder_IOCPartialDiscardsResidual(t *testing.T) {
	book := New()
	_, err := book.AddOrder(limit(1, common.Sell, 10000, 5))
	require.NoError(t, err)

	fills, err := book.AddOrder(common.Order{ID: 2, Type: common.IOC, Side: common.Buy, Price: 10000, Qty: 10})
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(5), fills[0].Qty)

	// id=2 never rests: cancelling it must report not-found.
	assert.False(t, book.CancelOrder(2))
	q := book.Snapshot()
	assert.Nil(t, q.Bid)
	assert.Nil(t, q.Ask)
}

func TestAddOrder_MarketSweepsMultipleLevels(t *testing.T) {
	book := New()
	_, _ = book.AddOrder(limit(1, common.Sell, 10000, 5))
	_, _ = book.AddOrder(limit(2, common.Sell, 10010, 5))

	fills, err := book.AddOrder(common.Order{ID: 3, Type: common.Market, Side: common.Buy, Qty: 8})
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, common.Ticks(10000), fills[0].Price)
	assert.Equal(t, uint64(5), fills[0].Qty)
	assert.Equal(t, common.Ticks(10010), fills[1].Price)
	assert.Equal(t, uint64(3), fills[1].Qty)
}

func TestAddOrder_PricePriority(t *testing.T) {
	book := New()
	_, _ = book.AddOrder(limit(1, common.Sell, 10010, 10))
	_, _ = book.AddOrder(limit(2, common.Sell, 10000, 10))

	fills, err := book.AddOrder(limit(3, common.Buy, 10010, 5))
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, common.Ticks(10000), fills[0].Price, "must trade at the better (lower) ask first")
}

func TestCancelOrder_UnknownIDIsFalse(t *testing.T) {
	book := New()
	assert.False(t, book.CancelOrder(999))
}

func TestCancelOrder_PreservesSurvivingFIFOOrder(t *testing.T) {
	book := New()
	_, _ = book.AddOrder(limit(1, common.Sell, 10000, 5))
	_, _ = book.AddOrder(limit(2, common.Sell, 10000, 5))
	_, _ = book.AddOrder(limit(3, common.Sell, 10000, 5))

	assert.True(t, book.CancelOrder(2))

	fills, err := book.AddOrder(limit(4, common.Buy, 10000, 10))
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, int64(1), fills[0].SellerID)
	assert.Equal(t, int64(3), fills[1].SellerID, "id=2 was cancelled; id=1 then id=3 must fill in arrival order")
}

func TestCancelOrder_RemovesEmptyLevelFromSnapshot(t *testing.T) {
	book := New()
	_, _ = book.AddOrder(limit(1, common.Buy, 9900, 10))
	assert.True(t, book.CancelOrder(1))

	q := book.Snapshot()
	assert.Nil(t, q.Bid, "snapshot must never report a price with no resting orders")
}

func TestAddOrder_RejectsNonPositiveQty(t *testing.T) {
	book := New()
	_, err := book.AddOrder(common.Order{ID: 1, Type: common.Limit, Side: common.Buy, Price: 100, Qty: 0})
	assert.ErrorIs(t, err, common.ErrInvalidOrder)
}
