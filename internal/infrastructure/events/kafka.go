// Package events publishes booking lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// Envelope is the JSON value of every published message.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// KafkaPublisher sends events through a sarama SyncProducer. The topic of a
// message is the event type prefixed with TopicPrefix.
type KafkaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
	log         zerolog.Logger
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// NewProducerConfig returns the sarama settings used by the publisher: acks
// from all in-sync replicas and delivery reports enabled, as SyncProducer
// requires.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "booking-api"
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	return cfg
}

// NewKafkaPublisher dials the brokers and returns a ready publisher.
func NewKafkaPublisher(brokers []string, topicPrefix string, log zerolog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.Info().Strs("brokers", brokers).Msg("kafka producer initialized")
	return NewKafkaPublisherWithProducer(producer, topicPrefix, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topicPrefix: topicPrefix, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       topic,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + topic,
		Value: sarama.ByteEncoder(data),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	metrics.EventsPublishedTotal.WithLabelValues(topic, metrics.Outcome(err)).Inc()
	if err != nil {
		return fmt.Errorf("send %s event: %w", topic, err)
	}

	p.log.Debug().
		Str("topic", msg.Topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("event published")
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher is used when no broker is configured: events are only logged.
type LogPublisher struct {
	log zerolog.Logger
}

var _ ports.EventPublisher = LogPublisher{}

func NewLogPublisher(log zerolog.Logger) LogPublisher {
	return LogPublisher{log: log}
}

func (p LogPublisher) Publish(_ context.Context, topic, key string, _ any) error {
	metrics.EventsPublishedTotal.WithLabelValues(topic, "ok").Inc()
	p.log.Debug().Str("topic", topic).Str("key", key).Msg("event (no broker configured)")
	return nil
}

func (LogPublisher) Close() error { return nil }
