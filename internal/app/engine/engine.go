package engine

import (
	"context"
	"sync"

	exportv1 "github.com/quantex/matching-engine/internal/domain/export/v1"
	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/quantex/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantex/matching-engine/internal/usecase/orderbook"
	"github.com/quantex/matching-engine/pkg/errors"
	"github.com/quantex/matching-engine/pkg/logger"
)

// Engine owns the book and serializes every mutation behind one mutex: the
// core performs no locking of its own, so the engine is the single logical
// writer the book requires. It assigns order ids and the strictly
// increasing logical timestamp, and fans executed trades out to the trade
// publisher.
type Engine struct {
	mu   sync.Mutex
	book *orderbook.Book

	exporter  exportv1.Exporter
	publisher tradepublisherv1.TradePublisher
	logger    logger.Interface
	opts      *Options

	nextID int64
	clock  int64
}

// NewEngine wires an engine around the given book. exporter and publisher
// may be nil; the corresponding collaborations become no-ops.
func NewEngine(
	book *orderbook.Book,
	exporter exportv1.Exporter,
	publisher tradepublisherv1.TradePublisher,
	log logger.Interface,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}
	return &Engine{
		book:      book,
		exporter:  exporter,
		publisher: publisher,
		logger:    log,
		opts:      opts,
		nextID:    1,
		clock:     1,
	}
}

// Submit places a new limit order with an engine-assigned id and timestamp.
// It returns the assigned id and the trades the submission executed.
func (e *Engine) Submit(ctx context.Context, side orderbookv1.Side, price float64, quantity int64) (int64, []orderbookv1.Trade, error) {
	e.mu.Lock()
	id := e.nextID
	ts := e.clock
	order := orderbookv1.NewOrder(id, side, price, quantity, ts)

	trades, err := e.book.AddOrder(order)
	if err != nil {
		e.mu.Unlock()
		return 0, nil, err
	}
	// Ids and timestamps advance only for accepted orders, so rejected
	// submissions leave no gap.
	e.nextID++
	e.clock++
	e.mu.Unlock()

	e.publishTrades(ctx, trades)
	return id, trades, nil
}

// SubmitOrder places an order with a caller-assigned id and timestamp. The
// caller is responsible for keeping timestamps strictly increasing.
func (e *Engine) SubmitOrder(ctx context.Context, order *orderbookv1.Order) ([]orderbookv1.Trade, error) {
	e.mu.Lock()
	trades, err := e.book.AddOrder(order)
	if err == nil && order.ID >= e.nextID {
		e.nextID = order.ID + 1
	}
	if err == nil && order.Timestamp >= e.clock {
		e.clock = order.Timestamp + 1
	}
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	e.publishTrades(ctx, trades)
	return trades, nil
}

// Cancel removes an open order. No matching is triggered.
func (e *Engine) Cancel(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.CancelOrder(id)
}

// Modify replaces an open order with a fresh timestamp, losing its previous
// time priority. It returns any trades the reinsertion executed.
func (e *Engine) Modify(ctx context.Context, id, newQuantity int64, newPrice float64) ([]orderbookv1.Trade, error) {
	e.mu.Lock()
	ts := e.clock
	trades, err := e.book.ModifyOrder(id, newQuantity, newPrice, ts)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.clock++
	e.mu.Unlock()

	e.publishTrades(ctx, trades)
	return trades, nil
}

// Trades returns the trade log in execution order.
func (e *Engine) Trades() []orderbookv1.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Trades()
}

// TradeCount returns the number of executed trades.
func (e *Engine) TradeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.book.Trades())
}

// TotalVolume returns the cumulative traded quantity.
func (e *Engine) TotalVolume() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.TotalVolume()
}

// Snapshot copies the resting book for reporting and export.
func (e *Engine) Snapshot() *orderbookv1.BookSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Snapshot()
}

// Export writes the trade log and a book snapshot through the exporter and
// returns the created file paths.
func (e *Engine) Export() (tradesPath, bookPath string, err error) {
	if e.exporter == nil {
		return "", "", nil
	}

	e.mu.Lock()
	trades := e.book.Trades()
	snapshot := e.book.Snapshot()
	e.mu.Unlock()

	tradesPath, err = e.exporter.ExportTrades(trades)
	if err != nil {
		return "", "", err
	}
	bookPath, err = e.exporter.ExportBook(snapshot)
	if err != nil {
		return tradesPath, "", err
	}
	return tradesPath, bookPath, nil
}

// publishTrades forwards executed trades to the publisher. Publish failures
// are logged and dropped; they must never corrupt or block matching.
func (e *Engine) publishTrades(ctx context.Context, trades []orderbookv1.Trade) {
	if e.publisher == nil || len(trades) == 0 {
		return
	}
	for _, trade := range trades {
		event := tradepublisherv1.FromTrade(e.opts.Instrument, trade)
		if err := e.publisher.PublishTrade(ctx, event); err != nil {
			e.logger.Error(err,
				logger.Field{Key: "code", Value: string(errors.CodeOf(err))},
				logger.Field{Key: "buyOrderID", Value: trade.BuyOrderID},
				logger.Field{Key: "sellOrderID", Value: trade.SellOrderID},
			)
		}
	}
}
