package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantex/matching-engine/internal/app/engine"
	exportv1 "github.com/quantex/matching-engine/internal/domain/export/v1"
	tradepublisherv1 "github.com/quantex/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantex/matching-engine/internal/usecase/export"
	"github.com/quantex/matching-engine/internal/usecase/feed"
	"github.com/quantex/matching-engine/internal/usecase/orderbook"
	tradepublisher "github.com/quantex/matching-engine/internal/usecase/trade-publisher"
	"github.com/quantex/matching-engine/pkg/config"
	"github.com/quantex/matching-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	var exporter exportv1.Exporter
	csvExporter, err := export.NewExporter(cfg.Export.Dir, appLogger)
	if err != nil {
		appLogger.Error(err)
		os.Exit(1)
	}
	exporter = csvExporter

	var publisher tradepublisherv1.TradePublisher
	if cfg.TradeKafka.Enabled {
		kafkaPublisher := tradepublisher.NewPublisher(cfg.TradeKafka, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	book := orderbook.NewBook()
	eng := engine.NewEngine(book, exporter, publisher, appLogger, &engine.Options{
		Instrument: cfg.App.Instrument,
		AutoExport: cfg.Export.Auto,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the session on SIGINT/SIGTERM so auto-export still runs.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Info("shutting down")
		cancel()
	}()

	if cfg.Feed.Enabled {
		marketFeed := feed.NewFeed(cfg.Feed, eng, appLogger)
		go func() {
			if err := marketFeed.Run(ctx); err != nil {
				appLogger.Error(err)
			}
		}()
	}

	appLogger.Info("matching engine started",
		logger.Field{Key: "app", Value: cfg.App.Name},
		logger.Field{Key: "environment", Value: cfg.App.Environment},
		logger.Field{Key: "instrument", Value: cfg.App.Instrument},
	)

	if err := eng.RunSession(ctx, os.Stdin, os.Stdout); err != nil {
		appLogger.Error(err)
		os.Exit(1)
	}
}
