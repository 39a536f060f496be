package orderbook

import (
	"math"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
)

// PricePolicy selects the execution price of a match.
type PricePolicy int8

const (
	// RestingPrice executes at the limit price of the order that was
	// already in the book before the crossing order arrived. This is the
	// standard price-time-priority convention: the aggressor gets the
	// price improvement.
	RestingPrice PricePolicy = iota
	// SellPrice executes at the sell order's limit price regardless of
	// which side was resting. Kept for conformance with output produced
	// under the legacy rule.
	SellPrice
)

// Book is the matching engine for a single instrument: both book sides, the
// id index, the trade log and the volume counter.
//
// The book performs no internal locking. It assumes a single logical
// writer; concurrent callers must serialize access (the app engine wraps
// every operation in one mutex). Every public call runs to completion
// synchronously, so no caller can observe a partially updated book.
type Book struct {
	bids *orderbookv1.BookSide
	asks *orderbookv1.BookSide

	// orders is the id index: one entry per open order, kept in lockstep
	// with every side mutation.
	orders map[int64]*orderbookv1.Order

	trades      []orderbookv1.Trade
	totalVolume int64
	pricePolicy PricePolicy
}

// Option configures a Book.
type Option func(*Book)

// WithPricePolicy overrides the default RestingPrice execution price rule.
func WithPricePolicy(p PricePolicy) Option {
	return func(b *Book) {
		b.pricePolicy = p
	}
}

// NewBook creates an empty book.
func NewBook(opts ...Option) *Book {
	b := &Book{
		bids:   orderbookv1.NewBookSide(orderbookv1.Buy),
		asks:   orderbookv1.NewBookSide(orderbookv1.Sell),
		orders: make(map[int64]*orderbookv1.Order),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddOrder validates the order, rests it on its side, and runs the matching
// loop. It returns the trades executed by this call, in execution order.
// A rejected order never touches book state.
func (b *Book) AddOrder(o *orderbookv1.Order) ([]orderbookv1.Trade, error) {
	if o == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if o.ID <= 0 {
		return nil, orderbookv1.ErrInvalidOrderID
	}
	if o.Quantity <= 0 {
		return nil, orderbookv1.ErrInvalidQuantity
	}
	if o.Price <= 0 || math.IsInf(o.Price, 0) || math.IsNaN(o.Price) {
		return nil, orderbookv1.ErrInvalidPrice
	}
	if _, exists := b.orders[o.ID]; exists {
		return nil, orderbookv1.ErrDuplicateOrderID
	}

	b.sideOf(o.Side).Insert(o)
	b.orders[o.ID] = o

	return b.MatchOrders(), nil
}

// CancelOrder removes an open order from the book. No matching is
// triggered. It returns ErrOrderNotFound for unknown or already-terminal
// ids, including ids that were fully filled.
func (b *Book) CancelOrder(id int64) error {
	o, ok := b.orders[id]
	if !ok {
		return orderbookv1.ErrOrderNotFound
	}
	b.sideOf(o.Side).Remove(o)
	delete(b.orders, id)
	return nil
}

// ModifyOrder replaces an open order: the old order is removed and a fresh
// order with the same id and side is inserted with the new price, quantity
// and timestamp. The replacement deliberately loses the old time priority
// even when the price is unchanged, and its insertion may trigger matching.
// A newQuantity <= 0 degrades to a plain cancel with no reinsertion.
func (b *Book) ModifyOrder(id, newQuantity int64, newPrice float64, newTimestamp int64) ([]orderbookv1.Trade, error) {
	o, ok := b.orders[id]
	if !ok {
		return nil, orderbookv1.ErrOrderNotFound
	}
	if newQuantity > 0 && (newPrice <= 0 || math.IsInf(newPrice, 0) || math.IsNaN(newPrice)) {
		return nil, orderbookv1.ErrInvalidPrice
	}

	side := o.Side
	b.sideOf(side).Remove(o)
	delete(b.orders, id)

	if newQuantity <= 0 {
		return nil, nil
	}

	replacement := orderbookv1.NewOrder(id, side, newPrice, newQuantity, newTimestamp)
	b.sideOf(side).Insert(replacement)
	b.orders[id] = replacement

	return b.MatchOrders(), nil
}

// MatchOrders crosses the best bid against the best ask until the book no
// longer crosses or one side is empty. Each iteration trades
// min(remaining) between the two earliest orders at the best levels,
// removing any order that fills completely. Calling it on a book that does
// not cross is a no-op.
func (b *Book) MatchOrders() []orderbookv1.Trade {
	var executed []orderbookv1.Trade

	for {
		bestBid := b.bids.BestLevel()
		bestAsk := b.asks.BestLevel()
		if bestBid == nil || bestAsk == nil || bestBid.Price < bestAsk.Price {
			break
		}

		buy := bestBid.Front()
		sell := bestAsk.Front()
		qty := min(buy.Quantity, sell.Quantity)

		// The earlier-arrived of the two is the resting order; the
		// aggressor supplies the execution timestamp.
		price := buy.Price
		ts := sell.Timestamp
		if sell.Timestamp < buy.Timestamp {
			price = sell.Price
			ts = buy.Timestamp
		}
		if b.pricePolicy == SellPrice {
			price = sell.Price
		}

		buy.Fill(qty)
		sell.Fill(qty)
		b.totalVolume += qty

		trade := orderbookv1.Trade{
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			Price:       price,
			Quantity:    qty,
			Timestamp:   ts,
		}
		b.trades = append(b.trades, trade)
		executed = append(executed, trade)

		if buy.IsFilled() {
			b.bids.Remove(buy)
			delete(b.orders, buy.ID)
		}
		if sell.IsFilled() {
			b.asks.Remove(sell)
			delete(b.orders, sell.ID)
		}
	}

	return executed
}

// Trades returns the full trade log in execution order. The returned slice
// is shared with the book and must not be modified.
func (b *Book) Trades() []orderbookv1.Trade {
	return b.trades
}

// TotalVolume returns the cumulative traded quantity across all trades.
func (b *Book) TotalVolume() int64 {
	return b.totalVolume
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (float64, bool) {
	lvl := b.bids.BestLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (float64, bool) {
	lvl := b.asks.BestLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// Depth returns the number of open orders on each side.
func (b *Book) Depth() (bids, asks int) {
	return b.bids.Len(), b.asks.Len()
}

// OpenOrder returns the open order with the given id, or nil. The returned
// order is live book state and must not be mutated by callers.
func (b *Book) OpenOrder(id int64) *orderbookv1.Order {
	return b.orders[id]
}

// Snapshot copies the resting book for reporting and export: bids price
// descending, asks ascending, FIFO within each level.
func (b *Book) Snapshot() *orderbookv1.BookSnapshot {
	snap := &orderbookv1.BookSnapshot{}
	snap.Bids = collectEntries(b.bids)
	snap.Asks = collectEntries(b.asks)
	return snap
}

func collectEntries(side *orderbookv1.BookSide) []orderbookv1.BookEntry {
	entries := make([]orderbookv1.BookEntry, 0, side.Len())
	side.ForEachLevel(func(lvl *orderbookv1.PriceLevel) bool {
		for _, o := range lvl.Orders() {
			entries = append(entries, orderbookv1.BookEntry{
				OrderID:   o.ID,
				Side:      o.Side,
				Price:     lvl.Price,
				Quantity:  o.Quantity,
				Timestamp: o.Timestamp,
			})
		}
		return true
	})
	return entries
}

func (b *Book) sideOf(s orderbookv1.Side) *orderbookv1.BookSide {
	if s == orderbookv1.Buy {
		return b.bids
	}
	return b.asks
}
