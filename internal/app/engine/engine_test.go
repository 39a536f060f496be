package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/quantex/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantex/matching-engine/internal/usecase/export"
	"github.com/quantex/matching-engine/internal/usecase/orderbook"
	"github.com/quantex/matching-engine/pkg/logger"
)

type fakePublisher struct {
	events []*tradepublisherv1.TradeEventPayload
	ctxs   []context.Context
	err    error
	closed bool
}

func (f *fakePublisher) PublishTrade(ctx context.Context, event *tradepublisherv1.TradeEventPayload) error {
	f.ctxs = append(f.ctxs, ctx)
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func testLogger(t *testing.T) logger.Interface {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ErrorLevel),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	require.NoError(t, err)
	return log
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(orderbook.NewBook(), nil, nil, testLogger(t), nil)
}

func TestEngine_SubmitAssignsSequentialIDs(t *testing.T) {
	eng := newTestEngine(t)

	id1, trades, err := eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Empty(t, trades)

	id2, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 99.0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)
}

func TestEngine_RejectedSubmitLeavesNoGap(t *testing.T) {
	eng := newTestEngine(t)

	_, _, err := eng.Submit(context.Background(), orderbookv1.Buy, -1.0, 5)
	require.ErrorIs(t, err, orderbookv1.ErrInvalidPrice)
	_, _, err = eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 0)
	require.ErrorIs(t, err, orderbookv1.ErrInvalidQuantity)

	id, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "rejected submissions must not consume ids")
}

func TestEngine_SubmitOrderAdvancesCounters(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.SubmitOrder(context.Background(), orderbookv1.NewOrder(10, orderbookv1.Buy, 100.0, 5, 10))
	require.NoError(t, err)

	id, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 99.0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestEngine_CancelAndModify(t *testing.T) {
	eng := newTestEngine(t)

	id, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 5)
	require.NoError(t, err)

	trades, err := eng.Modify(context.Background(), id, 8, 101.0)
	require.NoError(t, err)
	assert.Empty(t, trades)

	require.NoError(t, eng.Cancel(id))
	assert.ErrorIs(t, eng.Cancel(id), orderbookv1.ErrOrderNotFound)
	_, err = eng.Modify(context.Background(), id, 5, 100.0)
	assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
}

func TestEngine_PublishesExecutedTrades(t *testing.T) {
	pub := &fakePublisher{}
	eng := NewEngine(orderbook.NewBook(), nil, pub, testLogger(t), &Options{Instrument: "ETH-USD"})

	_, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 10)
	require.NoError(t, err)
	require.Empty(t, pub.events)

	_, trades, err := eng.Submit(context.Background(), orderbookv1.Sell, 99.0, 4)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "ETH-USD", pub.events[0].Instrument)
	assert.Equal(t, int64(1), pub.events[0].BuyOrderID)
	assert.Equal(t, int64(2), pub.events[0].SellOrderID)
	assert.Equal(t, int64(4), pub.events[0].Quantity)
}

type ctxKey string

// Each submission's own context must reach the publisher; the engine holds
// no context state of its own.
func TestEngine_PublishUsesCallerContext(t *testing.T) {
	pub := &fakePublisher{}
	eng := NewEngine(orderbook.NewBook(), nil, pub, testLogger(t), nil)

	ctx := context.WithValue(context.Background(), ctxKey("origin"), "feed")
	_, _, err := eng.Submit(ctx, orderbookv1.Buy, 100.0, 10)
	require.NoError(t, err)
	_, _, err = eng.Submit(ctx, orderbookv1.Sell, 99.0, 4)
	require.NoError(t, err)

	require.Len(t, pub.ctxs, 1)
	assert.Equal(t, "feed", pub.ctxs[0].Value(ctxKey("origin")))
}

func TestEngine_PublishFailureDoesNotBlockMatching(t *testing.T) {
	pub := &fakePublisher{err: assert.AnError}
	eng := NewEngine(orderbook.NewBook(), nil, pub, testLogger(t), nil)

	_, _, err := eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 10)
	require.NoError(t, err)
	_, trades, err := eng.Submit(context.Background(), orderbookv1.Sell, 99.0, 4)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, int64(4), eng.TotalVolume())
}

func TestEngine_TradeAccessors(t *testing.T) {
	eng := newTestEngine(t)

	_, _, _ = eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 10)
	_, _, _ = eng.Submit(context.Background(), orderbookv1.Sell, 99.0, 4)
	_, _, _ = eng.Submit(context.Background(), orderbookv1.Sell, 99.0, 6)

	assert.Equal(t, 2, eng.TradeCount())
	assert.Equal(t, int64(10), eng.TotalVolume())
	assert.Len(t, eng.Trades(), 2)

	snap := eng.Snapshot()
	assert.Empty(t, snap.Bids)
	assert.Empty(t, snap.Asks)
}

func TestEngine_Export(t *testing.T) {
	exporter, err := export.NewExporter(t.TempDir(), testLogger(t))
	require.NoError(t, err)
	eng := NewEngine(orderbook.NewBook(), exporter, nil, testLogger(t), nil)

	_, _, _ = eng.Submit(context.Background(), orderbookv1.Buy, 100.0, 10)
	_, _, _ = eng.Submit(context.Background(), orderbookv1.Sell, 99.0, 4)

	tradesPath, bookPath, err := eng.Export()
	require.NoError(t, err)
	assert.NotEmpty(t, tradesPath)
	assert.NotEmpty(t, bookPath)
}

func TestEngine_ExportWithoutExporter(t *testing.T) {
	eng := newTestEngine(t)

	tradesPath, bookPath, err := eng.Export()
	require.NoError(t, err)
	assert.Empty(t, tradesPath)
	assert.Empty(t, bookPath)
}
