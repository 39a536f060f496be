package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantex/matching-engine/pkg/logger"
)

// RunSession drives the engine from a textual command stream, one command
// per line, writing responses to out:
//
//	BUY <price> <qty>
//	SELL <price> <qty>
//	CANCEL <id>
//	MODIFY <id> <qty> <price>
//	PRINT
//	TRADES
//	EXPORT
//	EXIT
//
// Validation failures and unknown ids are reported to out and logged as
// warnings; they never end the session.
func (e *Engine) RunSession(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !e.handleCommand(ctx, line, out) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if e.opts.AutoExport {
		if _, _, err := e.Export(); err != nil {
			e.logger.Error(err)
		}
	}
	return nil
}

// handleCommand dispatches one command line. It returns false when the
// session should end.
func (e *Engine) handleCommand(ctx context.Context, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	command := strings.ToUpper(fields[0])

	switch command {
	case "BUY", "SELL":
		side := orderbookv1.Buy
		if command == "SELL" {
			side = orderbookv1.Sell
		}
		price, qty, err := parsePriceQty(fields[1:])
		if err != nil {
			fmt.Fprintf(out, "Invalid %s command: %v\n", command, err)
			return true
		}
		id, trades, err := e.Submit(ctx, side, price, qty)
		if err != nil {
			e.logger.Warn("order rejected",
				logger.Field{Key: "side", Value: side.String()},
				logger.Field{Key: "price", Value: price},
				logger.Field{Key: "quantity", Value: qty},
				logger.Field{Key: "reason", Value: err.Error()},
			)
			fmt.Fprintf(out, "Order rejected: %v\n", err)
			return true
		}
		fmt.Fprintf(out, "Order %d accepted.\n", id)
		writeTrades(out, trades)

	case "CANCEL":
		id, err := parseID(fields[1:])
		if err != nil {
			fmt.Fprintf(out, "Invalid CANCEL command: %v\n", err)
			return true
		}
		if err := e.Cancel(id); err != nil {
			fmt.Fprintln(out, "Order not found.")
			return true
		}
		fmt.Fprintln(out, "Order cancelled.")

	case "MODIFY":
		id, qty, price, err := parseModify(fields[1:])
		if err != nil {
			fmt.Fprintf(out, "Invalid MODIFY command: %v\n", err)
			return true
		}
		trades, err := e.Modify(ctx, id, qty, price)
		if err != nil {
			fmt.Fprintln(out, "Order not found.")
			return true
		}
		fmt.Fprintln(out, "Order modified.")
		writeTrades(out, trades)

	case "PRINT":
		e.writeBook(out)

	case "TRADES":
		e.writeTradeLog(out)

	case "EXPORT":
		tradesPath, bookPath, err := e.Export()
		if err != nil {
			fmt.Fprintf(out, "Export failed: %v\n", err)
			return true
		}
		if tradesPath == "" {
			fmt.Fprintln(out, "Export is not configured.")
			return true
		}
		fmt.Fprintf(out, "Exported %s and %s\n", tradesPath, bookPath)

	case "EXIT":
		return false

	default:
		e.logger.Warn("unknown command", logger.Field{Key: "command", Value: command})
		fmt.Fprintf(out, "Unknown command: %s\n", command)
	}
	return true
}

func parsePriceQty(args []string) (float64, int64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <price> <qty>")
	}
	price, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad price %q", args[0])
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad quantity %q", args[1])
	}
	return price, qty, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", args[0])
	}
	return id, nil
}

func parseModify(args []string) (int64, int64, float64, error) {
	if len(args) != 3 {
		return 0, 0, 0, fmt.Errorf("expected <id> <qty> <price>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad id %q", args[0])
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad quantity %q", args[1])
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad price %q", args[2])
	}
	return id, qty, price, nil
}

func writeTrades(out io.Writer, trades []orderbookv1.Trade) {
	for _, t := range trades {
		fmt.Fprintf(out, "TRADE: %d @ $%s [buy %d, sell %d]\n",
			t.Quantity, formatPrice(t.Price), t.BuyOrderID, t.SellOrderID)
	}
}

func (e *Engine) writeBook(out io.Writer) {
	snapshot := e.Snapshot()

	fmt.Fprintln(out, "\nOrder Book:")
	fmt.Fprintln(out, "BIDS:")
	writeSide(out, snapshot.Bids)
	fmt.Fprintln(out, "ASKS:")
	writeSide(out, snapshot.Asks)
	fmt.Fprintf(out, "Total Volume Traded: %d units\n", e.TotalVolume())
}

// writeSide prints one price level per line, orders in FIFO order.
func writeSide(out io.Writer, entries []orderbookv1.BookEntry) {
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].Price == entries[i].Price {
			j++
		}
		fmt.Fprintf(out, " $%s x %d orders:", formatPrice(entries[i].Price), j-i)
		for _, entry := range entries[i:j] {
			fmt.Fprintf(out, " [ID %d, qty %d]", entry.OrderID, entry.Quantity)
		}
		fmt.Fprintln(out)
		i = j
	}
}

func (e *Engine) writeTradeLog(out io.Writer) {
	trades := e.Trades()
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades executed.")
		return
	}
	for i, t := range trades {
		fmt.Fprintf(out, "%d: %d @ $%s [buy %d, sell %d] ts=%d\n",
			i+1, t.Quantity, formatPrice(t.Price), t.BuyOrderID, t.SellOrderID, t.Timestamp)
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
