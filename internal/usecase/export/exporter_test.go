package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantex/matching-engine/pkg/logger"
)

func testLogger(t *testing.T) logger.Interface {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ErrorLevel),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	require.NoError(t, err)
	return log
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExporter_ExportTrades(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, testLogger(t))
	require.NoError(t, err)

	trades := []orderbookv1.Trade{
		{BuyOrderID: 1, SellOrderID: 2, Price: 100.0, Quantity: 5, Timestamp: 2},
		{BuyOrderID: 5, SellOrderID: 4, Price: 102.5, Quantity: 3, Timestamp: 5},
	}

	path, err := exporter.ExportTrades(trades)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "trades_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"trade_seq", "buy_order_id", "sell_order_id", "price", "quantity", "timestamp"}, records[0])
	assert.Equal(t, []string{"1", "1", "2", "100", "5", "2"}, records[1])
	assert.Equal(t, []string{"2", "5", "4", "102.5", "3", "5"}, records[2])
}

func TestExporter_ExportTradesEmpty(t *testing.T) {
	exporter, err := NewExporter(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	path, err := exporter.ExportTrades(nil)
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 1, "header only")
}

func TestExporter_ExportBook(t *testing.T) {
	exporter, err := NewExporter(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	snap := &orderbookv1.BookSnapshot{
		Bids: []orderbookv1.BookEntry{
			{OrderID: 3, Side: orderbookv1.Buy, Price: 101.0, Quantity: 2, Timestamp: 3},
			{OrderID: 1, Side: orderbookv1.Buy, Price: 100.0, Quantity: 5, Timestamp: 1},
		},
		Asks: []orderbookv1.BookEntry{
			{OrderID: 4, Side: orderbookv1.Sell, Price: 102.0, Quantity: 8, Timestamp: 4},
		},
	}

	path, err := exporter.ExportBook(snap)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "book_"))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"side", "price", "order_id", "quantity", "timestamp"}, records[0])
	assert.Equal(t, []string{"BUY", "101", "3", "2", "3"}, records[1])
	assert.Equal(t, []string{"BUY", "100", "1", "5", "1"}, records[2])
	assert.Equal(t, []string{"SELL", "102", "4", "8", "4"}, records[3])
}

func TestExporter_UniqueFilenames(t *testing.T) {
	exporter, err := NewExporter(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	p1, err := exporter.ExportTrades(nil)
	require.NoError(t, err)
	p2, err := exporter.ExportTrades(nil)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestNewExporter_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	_, err := NewExporter(dir, testLogger(t))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
