package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"crm_backend/internal/config"
	"crm_backend/internal/infrastructure/encoding/avro"
	"crm_backend/internal/infrastructure/logsink"
	"crm_backend/pkg/logger"
)

// OrderEventConsumer reads order-created events and appends a notification
// line per event to the notification sink.
type OrderEventConsumer struct {
	reader  *kafkago.Reader
	encoder *avro.Encoder
	sink    logsink.Sink
	log     logger.Logger
	now     func() time.Time
}

func NewOrderEventConsumer(cfg config.KafkaConfig, encoder *avro.Encoder, sink logsink.Sink, log logger.Logger) *OrderEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.OrderEventTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &OrderEventConsumer{
		reader:  reader,
		encoder: encoder,
		sink:    sink,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start consumes until ctx is cancelled. A malformed message is logged and
// skipped rather than wedging the consumer group.
func (c *OrderEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.handle(msg.Value); err != nil {
			c.log.Warn("skip order event",
				logger.Int("offset", int(msg.Offset)),
				logger.Error(err),
			)
		}
	}
}

func (c *OrderEventConsumer) handle(value []byte) error {
	record, err := c.encoder.Decode(value)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	line := fmt.Sprintf("%s - Order %v created: customer %v, $%v (%v items)",
		c.now().Format("2006-01-02 15:04:05"),
		record["order_id"],
		record["customer_id"],
		record["total_amount"],
		record["item_count"],
	)
	if err := c.sink.Append(line); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

func (c *OrderEventConsumer) Close() {
	_ = c.reader.Close()
}
