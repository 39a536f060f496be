package tradepublisherv1

import (
	"context"
	"encoding/json"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
)

// TradePublisher defines the interface for publishing executed trades to
// downstream consumers.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type TradePublisher interface {
	// PublishTrade publishes a single executed trade.
	PublishTrade(ctx context.Context, event *TradeEventPayload) error
	// Close releases the underlying transport.
	Close() error
}

// TradeEventPayload is the wire representation of an executed trade.
type TradeEventPayload struct {
	Instrument  string  `json:"instrument"`
	BuyOrderID  int64   `json:"buyOrderID"`
	SellOrderID int64   `json:"sellOrderID"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
}

// FromTrade builds a payload from a recorded trade.
func FromTrade(instrument string, trade orderbookv1.Trade) *TradeEventPayload {
	return &TradeEventPayload{
		Instrument:  instrument,
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		Price:       trade.Price,
		Quantity:    trade.Quantity,
		Timestamp:   trade.Timestamp,
	}
}

// ToBytes serializes the payload for the transport.
func ToBytes(event *TradeEventPayload) []byte {
	buf, _ := json.Marshal(event)
	return buf
}
