package orderbookv1

import "errors"

var (
	// ErrNilOrder is returned when a nil order is submitted.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidOrderID is returned when an order carries a non-positive id.
	ErrInvalidOrderID = errors.New("order id must be positive")
	// ErrInvalidPrice is returned when an order carries a non-positive or non-finite price.
	ErrInvalidPrice = errors.New("price must be positive and finite")
	// ErrInvalidQuantity is returned when an order carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrDuplicateOrderID is returned when an order id is already resting in the book.
	ErrDuplicateOrderID = errors.New("order id already in book")
	// ErrOrderNotFound is returned by cancel/modify for an unknown or already-terminal id.
	ErrOrderNotFound = errors.New("order not found")
)

// Side is the direction of an order.
type Side int8

const (
	// Buy bids for the instrument.
	Buy Side = iota
	// Sell offers the instrument.
	Sell
)

// String returns the display name of the side.
func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an order of side s matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is a single limit order.
//
// ID is caller-assigned, positive, and unique for as long as the order is
// open. Timestamp is a strictly increasing logical counter assigned at
// submission, used only to break ties within a price level.
//
// While resting, an order is owned by exactly one BookSide. The level
// back-pointer plus the intrusive next/prev links give O(1) removal by id
// without scanning a queue, and being plain pointers they stay valid when
// the level tree rebalances.
type Order struct {
	ID        int64
	Side      Side
	Price     float64
	Quantity  int64
	Timestamp int64

	level *PriceLevel
	next  *Order
	prev  *Order
}

// NewOrder builds an order ready for submission.
func NewOrder(id int64, side Side, price float64, quantity, timestamp int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
	}
}

// Fill consumes qty from the order's remaining quantity, keeping the owning
// level's TotalQuantity in sync while the order rests.
func (o *Order) Fill(qty int64) {
	o.Quantity -= qty
	if o.level != nil {
		o.level.TotalQuantity -= qty
	}
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Quantity <= 0
}

// Level returns the price level currently holding the order, or nil when the
// order is not resting.
func (o *Order) Level() *PriceLevel {
	return o.level
}
