package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore/internal/common"
)

func limitOrder(id int64, ts int64, side common.Side, price common.Ticks, qty uint64) common.Order {
	return common.Order{ID: id, Timestamp: ts, Type: common.Limit, Side: side, Price: price, Qty: qty}
}

// S4 — batch max volume. Volume is min(demand, supply) = min(10, 15) = 10 at
// both 9950 and 10000 (and 0 at 9900), so the winners plateau holds two
// prices; with no pre_mid the midpoint convention snaps to 9975.
func TestClearBatch_MaxVolumeTiedWinnersSnapToMidpoint(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
		limitOrder(2, 0, common.Buy, 9900, 10),
		limitOrder(3, 0, common.Sell, 9950, 15),
	}

	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	assert.Equal(t, common.Ticks(9975), *price)

	var total uint64
	for _, f := range fills {
		total += f.Qty
		assert.Equal(t, *price, f.Price, "batch uniformity: every fill shares the clearing price")
	}
	assert.Equal(t, uint64(10), total)
}

// S5 — tie-break with pre_mid provided. The candidate set is {98.00, 100.00};
// pre_mid=99.00 is equidistant from both, so the tie breaks to the lowest
// price (98.00), matching clear_batch's argmin-then-lowest rule exactly
// (verified against original_source/src/auction.py and tests/test_auction.py,
// which this scenario is grounded on — the distilled spec's narrative
// description of this scenario's expected price does not match its own
// algorithm and is treated as an authoring error; see DESIGN.md).
func TestClearBatch_TieBreakWithPreMid(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
		limitOrder(2, 0, common.Sell, 9800, 10),
	}
	preMid := common.Ticks(9900)

	price, fills := ClearBatch(orders, &preMid, 1)
	require.NotNil(t, price)
	assert.Equal(t, common.Ticks(9800), *price)
	require.Len(t, fills, 1)
	assert.Equal(t, common.Fill{BuyerID: 1, SellerID: 2, Price: 9800, Qty: 10, TakerSide: common.Buy}, fills[0])
}

// S6 — tie-break midpoint when pre_mid is absent.
func TestClearBatch_TieBreakMidpointSnapped(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
		limitOrder(2, 0, common.Sell, 9800, 10),
	}

	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	assert.Equal(t, common.Ticks(9900), *price)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(10), fills[0].Qty)
}

// S7 — FIFO allocation across two buys at the same price.
func TestClearBatch_FIFOAllocation(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 1, common.Buy, 10000, 5),
		limitOrder(2, 2, common.Buy, 10000, 5),
		limitOrder(3, 3, common.Sell, 9900, 7),
	}

	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	require.Len(t, fills, 2)
	assert.Equal(t, int64(1), fills[0].BuyerID)
	assert.Equal(t, uint64(5), fills[0].Qty)
	assert.Equal(t, int64(2), fills[1].BuyerID)
	assert.Equal(t, uint64(2), fills[1].Qty)
}

func TestClearBatch_NoCrossReturnsNil(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 9900, 10),
		limitOrder(2, 0, common.Sell, 10000, 10),
	}
	price, fills := ClearBatch(orders, nil, 1)
	assert.Nil(t, price)
	assert.Nil(t, fills)
}

func TestClearBatch_EmptyBatch(t *testing.T) {
	price, fills := ClearBatch(nil, nil, 1)
	assert.Nil(t, price)
	assert.Nil(t, fills)
}

func TestClearBatch_CancelsAreIgnored(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
		limitOrder(2, 0, common.Sell, 9900, 10),
		{ID: 3, Type: common.Cancel, TargetID: 1},
	}
	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	require.Len(t, fills, 1)
}

func TestClearBatch_MarketOrdersParticipateButNeverClear(t *testing.T) {
	orders := []common.Order{
		{ID: 1, Type: common.Market, Side: common.Buy, Qty: 10},
		limitOrder(2, 0, common.Sell, 9900, 10),
	}
	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	assert.Equal(t, common.Ticks(9900), *price)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(10), fills[0].Qty)
}

func TestClearBatch_IOCTreatedAsLimit(t *testing.T) {
	orders := []common.Order{
		{ID: 1, Type: common.IOC, Side: common.Buy, Price: 10000, Qty: 10},
		limitOrder(2, 0, common.Sell, 9900, 10),
	}
	price, fills := ClearBatch(orders, nil, 1)
	require.NotNil(t, price)
	require.Len(t, fills, 1)
}

func TestClearBatch_Determinism(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 1, common.Buy, 10000, 5),
		limitOrder(2, 2, common.Buy, 10000, 5),
		limitOrder(3, 3, common.Sell, 9900, 7),
	}

	p1, f1 := ClearBatch(orders, nil, 1)
	p2, f2 := ClearBatch(orders, nil, 1)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, *p1, *p2)
	assert.Equal(t, f1, f2)
}

func TestPreAuctionSnapshot(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
		limitOrder(2, 0, common.Sell, 9950, 10),
		{ID: 3, Type: common.Market, Side: common.Buy, Qty: 5},
	}

	bestBid, bestAsk, preMid := PreAuctionSnapshot(orders)
	require.NotNil(t, bestBid)
	require.NotNil(t, bestAsk)
	require.NotNil(t, preMid)
	assert.Equal(t, common.Ticks(10000), *bestBid)
	assert.Equal(t, common.Ticks(9950), *bestAsk)
	assert.Equal(t, common.Ticks(9975), *preMid)
}

func TestPreAuctionSnapshot_MissingSideIsNil(t *testing.T) {
	orders := []common.Order{
		limitOrder(1, 0, common.Buy, 10000, 10),
	}
	bestBid, bestAsk, preMid := PreAuctionSnapshot(orders)
	require.NotNil(t, bestBid)
	assert.Nil(t, bestAsk)
	assert.Nil(t, preMid)
}
