package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig        `envPrefix:"APP_"`
	Export     ExportConfig     `envPrefix:"EXPORT_"`
	Feed       FeedConfig       `envPrefix:"FEED_"`
	TradeKafka TradeKafkaConfig `envPrefix:"TRADE_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"matching-engine"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Instrument  string `env:"INSTRUMENT" envDefault:"BTC-USD"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// ExportConfig configures the CSV export collaborator.
type ExportConfig struct {
	Dir  string `env:"DIR" envDefault:"exports"`
	Auto bool   `env:"AUTO" envDefault:"false"`
}

// FeedConfig configures the live market-data feed collaborator.
type FeedConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"false"`
	URL       string        `env:"URL" envDefault:"wss://stream.binance.us:9443/ws/btcusdt@bookTicker"`
	Rate      time.Duration `env:"RATE" envDefault:"150ms"`
	Burst     int           `env:"BURST" envDefault:"3"`
	MaxOrders int           `env:"MAX_ORDERS" envDefault:"0"`
	Seed      int64         `env:"SEED" envDefault:"0"`
}

// TradeKafkaConfig configures the trade event publisher.
type TradeKafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
