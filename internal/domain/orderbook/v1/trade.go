package orderbookv1

// Trade records one executed match between a buy and a sell order.
// Trades are append-only: once recorded they are never mutated or removed.
type Trade struct {
	BuyOrderID  int64   `json:"buyOrderID"`
	SellOrderID int64   `json:"sellOrderID"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
}
