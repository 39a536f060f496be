package exportv1

import (
	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
)

// Exporter defines the interface for serializing the trade log and book
// snapshots to external storage. Implementations must never mutate their
// input; export failures are the caller's to report and cannot reach book
// state.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=exportv1_mock
type Exporter interface {
	// ExportTrades writes the trade log and returns the created file path.
	ExportTrades(trades []orderbookv1.Trade) (string, error)
	// ExportBook writes a book snapshot and returns the created file path.
	ExportBook(snapshot *orderbookv1.BookSnapshot) (string, error)
}
