package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/getsentiment/internal/models"
)

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// ResultPublisher writes classified texts to a Kafka topic, one JSON message
// per text keyed by content id.
type ResultPublisher struct {
	producer producer
	topic    string
	retry    time.Duration
}

func NewResultPublisher(cfg KafkaConfig) (*ResultPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"client.id":          PRODUCER_CLIENTID,
		"security.protocol":  "PLAINTEXT",
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return newResultPublisher(p, cfg.Topic), nil
}

func newResultPublisher(p producer, topic string) *ResultPublisher {
	return &ResultPublisher{producer: p, topic: topic, retry: RETRY_DELAY}
}

func (rp *ResultPublisher) Name() string { return "kafka" }

func (rp *ResultPublisher) Store(ctx context.Context, results []models.ScoredText) error {
	if len(results) == 0 {
		return nil
	}

	deliveries := make(chan kafka.Event, len(results))

	for _, result := range results {
		value, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("[KafkaClient] failed to marshal result %s: %w", result.ContentID, err)
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &rp.topic, Partition: kafka.PartitionAny},
			Key:            []byte(result.ContentID),
			Value:          value,
		}

		if err := rp.produceWithRetry(ctx, msg, deliveries); err != nil {
			return err
		}
	}

	timeout := time.NewTimer(DELIVERY_TIMEOUT)
	defer timeout.Stop()

	for delivered := 0; delivered < len(results); {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return fmt.Errorf("[KafkaClient] timed out waiting for %d delivery reports", len(results)-delivered)
		case ev := <-deliveries:
			m, ok := ev.(*kafka.Message)
			if !ok {
				continue
			}
			if m.TopicPartition.Error != nil {
				return fmt.Errorf("[KafkaClient] delivery failed for key %s: %w", string(m.Key), m.TopicPartition.Error)
			}
			delivered++
		}
	}

	slog.Info("[KafkaClient] Published sentiment results",
		slog.String("topic", rp.topic),
		slog.Int("count", len(results)))
	return nil
}

func (rp *ResultPublisher) produceWithRetry(ctx context.Context, msg *kafka.Message, deliveries chan kafka.Event) error {
	var err error
	for i := 0; i < MAX_RETRIES; i++ {
		err = rp.producer.Produce(msg, deliveries)
		if err == nil {
			return nil
		}

		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rp.retry):
		}
	}
	return fmt.Errorf("[KafkaClient] failed to produce message after %d attempts: %w", MAX_RETRIES, err)
}

func (rp *ResultPublisher) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := rp.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	rp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
