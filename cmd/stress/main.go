package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/quantex/matching-engine/internal/app/engine"
	"github.com/quantex/matching-engine/internal/usecase/generator"
	"github.com/quantex/matching-engine/internal/usecase/orderbook"
	"github.com/quantex/matching-engine/pkg/logger"
)

func main() {
	orders := flag.Int("orders", 2_000_000, "number of synthetic orders to submit")
	seed := flag.Int64("seed", 42, "RNG seed for reproducible runs")
	flag.Parse()

	appLogger, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.WarnLevel),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	book := orderbook.NewBook()
	eng := engine.NewEngine(book, nil, nil, appLogger, nil)

	cfg := generator.DefaultConfig()
	cfg.Seed = *seed
	report := generator.NewGenerator(cfg).Run(context.Background(), eng, *orders)

	fmt.Println("STRESS RESULTS:")
	fmt.Printf("Orders processed: %d\n", report.Orders)
	fmt.Printf("Trades executed: %d\n", report.Trades)
	fmt.Printf("Volume traded: %d\n", report.Volume)
	fmt.Printf("Elapsed time: %s\n", report.Elapsed)
	fmt.Printf("Throughput: %.0f trades/sec\n", report.TradesPerSec)
}
