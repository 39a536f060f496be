package feed

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	orderbookv1 "github.com/quantex/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantex/matching-engine/pkg/config"
	"github.com/quantex/matching-engine/pkg/errors"
	"github.com/quantex/matching-engine/pkg/logger"
)

// Submitter accepts synthetic order submissions produced by the feed. The
// app engine implements it; the feed never touches the book directly.
type Submitter interface {
	Submit(ctx context.Context, side orderbookv1.Side, price float64, quantity int64) (int64, []orderbookv1.Trade, error)
}

// tickerMessage is the subset of a Binance-style bookTicker update the feed
// consumes: best bid and best ask, quoted as decimal strings.
type tickerMessage struct {
	BidPrice string `json:"b"`
	AskPrice string `json:"a"`
}

// Feed streams live best bid/ask updates over WebSocket and converts each
// update into a burst of jittered synthetic orders around the mid price.
// Feed failures terminate the feed only; they can never corrupt or block
// the matching path.
type Feed struct {
	cfg       config.FeedConfig
	submitter Submitter
	logger    logger.Interface
	rng       *rand.Rand
}

// NewFeed creates a feed against the given submitter. A non-zero cfg.Seed
// makes the synthetic order stream reproducible.
func NewFeed(cfg config.FeedConfig, submitter Submitter, log logger.Interface) *Feed {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Feed{
		cfg:       cfg,
		submitter: submitter,
		logger:    log,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Run connects to the stream and emits orders until the context is
// canceled, the configured order limit is reached, or the stream fails.
func (f *Feed) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.cfg.URL, nil)
	if err != nil {
		return errors.NewCodeTracer(errors.FeedConnectionError).Wrap(err)
	}
	defer conn.Close()

	// Unblock the read loop when the context is canceled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	f.logger.Info("market-data feed connected", logger.Field{Key: "url", Value: f.cfg.URL})

	sent := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.NewCodeTracer(errors.FeedConnectionError).Wrap(err)
		}

		mid, err := parseMidPrice(data)
		if err != nil {
			f.logger.Warn("skipping malformed ticker update", logger.Field{Key: "error", Value: err.Error()})
			continue
		}

		for i := 0; i < f.cfg.Burst; i++ {
			side, price, qty := f.syntheticOrder(mid)
			if _, _, err := f.submitter.Submit(ctx, side, price, qty); err != nil {
				f.logger.Warn("feed order rejected",
					logger.Field{Key: "side", Value: side.String()},
					logger.Field{Key: "price", Value: price},
					logger.Field{Key: "quantity", Value: qty},
				)
			}
			sent++
			if f.cfg.MaxOrders > 0 && sent >= f.cfg.MaxOrders {
				f.logger.Info("feed order limit reached", logger.Field{Key: "orders", Value: sent})
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.cfg.Rate):
		}
	}
}

// parseMidPrice extracts the mid price from a bookTicker update.
func parseMidPrice(data []byte) (float64, error) {
	var tick tickerMessage
	if err := json.Unmarshal(data, &tick); err != nil {
		return 0, err
	}
	bid, err := strconv.ParseFloat(tick.BidPrice, 64)
	if err != nil {
		return 0, err
	}
	ask, err := strconv.ParseFloat(tick.AskPrice, 64)
	if err != nil {
		return 0, err
	}
	return (bid + ask) / 2, nil
}

// syntheticOrder jitters the mid price by up to ±5bps and draws a small
// random quantity, matching the synthetic stream the engine was tuned
// against.
func (f *Feed) syntheticOrder(mid float64) (orderbookv1.Side, float64, int64) {
	side := orderbookv1.Buy
	if f.rng.Intn(2) == 1 {
		side = orderbookv1.Sell
	}
	jitter := 1 + (f.rng.Float64()-0.5)*0.001
	qty := int64(f.rng.Intn(5) + 1)
	return side, mid * jitter, qty
}
