package orderbook

import (
	"math/rand"
	"testing"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
)

type benchOp struct {
	side  orderbookv1.Side
	price float64
	qty   int64
}

func benchOps(n int, seed int64) []benchOp {
	rng := rand.New(rand.NewSource(seed))
	ops := make([]benchOp, n)
	for i := range ops {
		side := orderbookv1.Buy
		if rng.Intn(2) == 1 {
			side = orderbookv1.Sell
		}
		ops[i] = benchOp{
			side:  side,
			price: 90.0 + rng.Float64()*20,
			qty:   int64(rng.Intn(5) + 1),
		}
	}
	return ops
}

func BenchmarkBook_AddOrder(b *testing.B) {
	ops := benchOps(b.N, 42)
	book := NewBook()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op := ops[i]
		_, _ = book.AddOrder(orderbookv1.NewOrder(int64(i+1), op.side, op.price, op.qty, int64(i+1)))
	}
}

func BenchmarkBook_AddOrderNoCross(b *testing.B) {
	ops := benchOps(b.N, 42)
	book := NewBook()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op := ops[i]
		// Bids below 100, asks above: the book never crosses, so this
		// isolates insert cost from matching cost.
		price := 90.0 + op.price/200
		if op.side == orderbookv1.Sell {
			price += 20
		}
		_, _ = book.AddOrder(orderbookv1.NewOrder(int64(i+1), op.side, price, op.qty, int64(i+1)))
	}
}

func BenchmarkBook_CancelOrder(b *testing.B) {
	book := NewBook()
	for i := 0; i < b.N; i++ {
		// Disjoint price ranges keep every order resting.
		price := 90.0
		if i%2 == 1 {
			price = 110.0
		}
		side := orderbookv1.Buy
		if i%2 == 1 {
			side = orderbookv1.Sell
		}
		_, _ = book.AddOrder(orderbookv1.NewOrder(int64(i+1), side, price, 5, int64(i+1)))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = book.CancelOrder(int64(i + 1))
	}
}
