package tradepublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	tradepublisherv1 "github.com/quantex/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantex/matching-engine/pkg/config"
	"github.com/quantex/matching-engine/pkg/errors"
	"github.com/quantex/matching-engine/pkg/logger"
)

// Publisher represents a Kafka publisher for executed trade events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing trade events.
// It returns an implementation of the TradePublisher interface.
func NewPublisher(cfg config.TradeKafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrade publishes a trade event to the Kafka topic.
func (p *Publisher) PublishTrade(ctx context.Context, event *tradepublisherv1.TradeEventPayload) error {
	msg := kafka.Message{
		Value: tradepublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "buyOrderID", Value: event.BuyOrderID},
			logger.Field{Key: "sellOrderID", Value: event.SellOrderID},
			logger.Field{Key: "quantity", Value: event.Quantity},
		)
		return errors.NewCodeTracer(errors.TradePublishError).Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
