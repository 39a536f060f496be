package orderbookv1

// BookEntry is one resting order as seen by reporting and export
// collaborators.
type BookEntry struct {
	OrderID   int64   `json:"orderID"`
	Side      Side    `json:"side"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
}

// BookSnapshot is a read-only copy of the resting book: bids best-first
// (price descending), asks best-first (price ascending), FIFO within a
// level. Taking or consuming a snapshot never alters book state.
type BookSnapshot struct {
	Bids []BookEntry `json:"bids"`
	Asks []BookEntry `json:"asks"`
}
