package generator

import (
	"context"
	"math/rand"
	"time"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
)

// Submitter accepts generated order submissions. The app engine implements
// it.
type Submitter interface {
	Submit(ctx context.Context, side orderbookv1.Side, price float64, quantity int64) (int64, []orderbookv1.Trade, error)
	TotalVolume() int64
	TradeCount() int
}

// Config bounds the synthetic order stream. The defaults reproduce the
// stress profile the engine is benchmarked with: uniform prices in
// [90, 110), quantities in [1, 5], fair coin side.
type Config struct {
	Seed     int64
	MinPrice float64
	MaxPrice float64
	MinQty   int64
	MaxQty   int64
}

// DefaultConfig returns the standard stress profile with a fixed seed for
// reproducible runs.
func DefaultConfig() Config {
	return Config{
		Seed:     42,
		MinPrice: 90.0,
		MaxPrice: 110.0,
		MinQty:   1,
		MaxQty:   5,
	}
}

// Report summarizes one generator run.
type Report struct {
	Orders       int
	Trades       int
	Volume       int64
	Elapsed      time.Duration
	TradesPerSec float64
}

// Generator produces a deterministic stream of synthetic limit orders for
// load testing and benchmarks.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator creates a generator with the given profile.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Next draws one synthetic order.
func (g *Generator) Next() (orderbookv1.Side, float64, int64) {
	side := orderbookv1.Buy
	if g.rng.Intn(2) == 1 {
		side = orderbookv1.Sell
	}
	price := g.cfg.MinPrice + g.rng.Float64()*(g.cfg.MaxPrice-g.cfg.MinPrice)
	qty := g.cfg.MinQty + g.rng.Int63n(g.cfg.MaxQty-g.cfg.MinQty+1)
	return side, price, qty
}

// Run submits n synthetic orders and reports throughput.
func (g *Generator) Run(ctx context.Context, submitter Submitter, n int) Report {
	start := time.Now()
	for i := 0; i < n; i++ {
		side, price, qty := g.Next()
		_, _, _ = submitter.Submit(ctx, side, price, qty)
	}
	elapsed := time.Since(start)

	trades := submitter.TradeCount()
	report := Report{
		Orders:  n,
		Trades:  trades,
		Volume:  submitter.TotalVolume(),
		Elapsed: elapsed,
	}
	if elapsed > 0 {
		report.TradesPerSec = float64(trades) / elapsed.Seconds()
	}
	return report
}
