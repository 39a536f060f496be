package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantex/matching-engine/pkg/errors"
	"github.com/quantex/matching-engine/pkg/logger"
)

// Exporter writes trades and book snapshots as CSV files, one record per
// line. Each export produces a fresh file named <prefix>_<ULID>.csv so runs
// never overwrite each other and filenames sort by creation time.
type Exporter struct {
	dir    string
	logger logger.Interface
}

// NewExporter creates an exporter rooted at dir, creating the directory if
// needed.
func NewExporter(dir string, log logger.Interface) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewCodeTracer(errors.ExportWriteError).Wrap(err)
	}
	return &Exporter{dir: dir, logger: log}, nil
}

// ExportTrades writes the trade log in execution order and returns the
// created file path.
func (e *Exporter) ExportTrades(trades []orderbookv1.Trade) (string, error) {
	path := e.nextPath("trades")
	header := []string{"trade_seq", "buy_order_id", "sell_order_id", "price", "quantity", "timestamp"}

	rows := make([][]string, 0, len(trades))
	for i, t := range trades {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(t.BuyOrderID, 10),
			strconv.FormatInt(t.SellOrderID, 10),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatInt(t.Quantity, 10),
			strconv.FormatInt(t.Timestamp, 10),
		})
	}

	if err := e.writeCSV(path, header, rows); err != nil {
		return "", err
	}
	e.logger.Info("exported trades",
		logger.Field{Key: "path", Value: path},
		logger.Field{Key: "trades", Value: len(trades)},
	)
	return path, nil
}

// ExportBook writes a book snapshot, bids before asks, each side best-first
// and FIFO within a level, and returns the created file path.
func (e *Exporter) ExportBook(snapshot *orderbookv1.BookSnapshot) (string, error) {
	path := e.nextPath("book")
	header := []string{"side", "price", "order_id", "quantity", "timestamp"}

	rows := make([][]string, 0, len(snapshot.Bids)+len(snapshot.Asks))
	for _, entry := range snapshot.Bids {
		rows = append(rows, bookRow(entry))
	}
	for _, entry := range snapshot.Asks {
		rows = append(rows, bookRow(entry))
	}

	if err := e.writeCSV(path, header, rows); err != nil {
		return "", err
	}
	e.logger.Info("exported book snapshot",
		logger.Field{Key: "path", Value: path},
		logger.Field{Key: "orders", Value: len(rows)},
	)
	return path, nil
}

func bookRow(entry orderbookv1.BookEntry) []string {
	return []string{
		entry.Side.String(),
		strconv.FormatFloat(entry.Price, 'f', -1, 64),
		strconv.FormatInt(entry.OrderID, 10),
		strconv.FormatInt(entry.Quantity, 10),
		strconv.FormatInt(entry.Timestamp, 10),
	}
}

func (e *Exporter) nextPath(prefix string) string {
	return filepath.Join(e.dir, prefix+"_"+ulid.Make().String()+".csv")
}

func (e *Exporter) writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewCodeTracer(errors.ExportWriteError).Wrap(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.NewCodeTracer(errors.ExportWriteError).Wrap(err)
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.NewCodeTracer(errors.ExportWriteError).Wrap(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewCodeTracer(errors.ExportWriteError).Wrap(err)
	}
	return nil
}
