package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"crm_backend/internal/config"
	"crm_backend/internal/infrastructure/encoding/avro"
	"crm_backend/pkg/logger"
)

// OrderEventProducer publishes Avro-encoded order-created events.
type OrderEventProducer struct {
	client  *kgo.Client
	encoder *avro.Encoder
	topic   string
	log     logger.Logger
}

func NewOrderEventProducer(cfg config.KafkaConfig, encoder *avro.Encoder, log logger.Logger) (*OrderEventProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.OrderEventTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.DisableIdempotentWrite(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.OrderEventTopic),
	)

	return &OrderEventProducer{
		client:  client,
		encoder: encoder,
		topic:   cfg.OrderEventTopic,
		log:     log,
	}, nil
}

// PublishOrderCreated encodes the JSON payload to Avro and produces it
// synchronously so the caller learns about broker failures.
func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	binary, err := p.encoder.EncodeJSON(payload)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(uuid.NewString()),
		Value:     binary,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *OrderEventProducer) Close() {
	p.client.Close()
}
