package orderbookv1

// PriceLevel holds every resting order at one price, in arrival (FIFO)
// order. Orders are chained through their intrusive next/prev links so both
// enqueue and unlink are O(1).
type PriceLevel struct {
	Price         float64
	TotalQuantity int64
	OrderCount    int

	head *Order
	tail *Order
}

// Enqueue appends the order at the tail of the level queue and takes
// ownership of it.
func (l *PriceLevel) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	o.level = l
	l.TotalQuantity += o.Quantity
	l.OrderCount++
}

// Front returns the earliest-arrived order at this level, or nil when the
// level is empty.
func (l *PriceLevel) Front() *Order {
	return l.head
}

// Unlink removes the order from the level queue. The order must currently
// rest at this level. TotalQuantity drops by the order's remaining quantity,
// so a fully filled order must be unlinked after its quantity reaches zero.
func (l *PriceLevel) Unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	o.level = nil
	l.TotalQuantity -= o.Quantity
	l.OrderCount--
}

// IsEmpty reports whether the level holds no orders.
func (l *PriceLevel) IsEmpty() bool {
	return l.head == nil
}

// Orders returns the level's orders in FIFO order. The returned slice is a
// copy; the orders themselves are live book state.
func (l *PriceLevel) Orders() []*Order {
	orders := make([]*Order, 0, l.OrderCount)
	for o := l.head; o != nil; o = o.next {
		orders = append(orders, o)
	}
	return orders
}
