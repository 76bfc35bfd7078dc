package notifications

import (
	"context"
	"fmt"
	"time"

	"outletdesk/pkg/logger"
	"outletdesk/pkg/metrics"

	"github.com/IBM/sarama"
)

// Publisher sends outlet events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event *OutletEvent) error
	Close() error
}

type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "outlet-events",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// NewSaramaConfig builds the producer side of the sarama configuration
func (c *KafkaProducerConfig) NewSaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	// events of one outlet stay ordered on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaPublisher(config *KafkaProducerConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, config.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer, e.g. sarama's mocks in tests
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *OutletEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		metrics.IncEventPublished(string(event.Type), false)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		metrics.IncEventPublished(string(event.Type), false)
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	metrics.IncEventPublished(string(event.Type), true)
	p.log.DebugContext(ctx, "outlet event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", string(event.Type),
		"outlet_id", event.OutletID.String(),
	)
	return nil
}

func createHeaders(event *OutletEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("outlet_id"), Value: []byte(event.OutletID.String())},
		{Key: []byte("producer"), Value: []byte("outletdesk")},
		{Key: []byte("version"), Value: []byte("1")},
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		p.log.Info("Kafka event producer closed")
	}
	return nil
}

// NoopPublisher is used when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *OutletEvent) error {
	logger.GetDefault().DebugContext(ctx, "event stream disabled, dropping event", "type", string(event.Type))
	return nil
}

func (NoopPublisher) Close() error { return nil }
