package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	defer func() { _ = producer.Close() }()

	var captured *sarama.ProducerMessage
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		captured = msg
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "booking.", zerolog.Nop())
	err := pub.Publish(context.Background(), "appointment.created", "apt-1", map[string]string{"id": "apt-1"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if captured.Topic != "booking.appointment.created" {
		t.Errorf("unexpected topic %q", captured.Topic)
	}
	key, _ := captured.Key.Encode()
	if string(key) != "apt-1" {
		t.Errorf("unexpected key %q", key)
	}
	value, _ := captured.Value.Encode()
	var env struct {
		ID   string            `json:"id"`
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(value, &env); err != nil {
		t.Fatalf("value is not an envelope: %v", err)
	}
	if env.ID == "" || env.Type != "appointment.created" || env.Data["id"] != "apt-1" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestKafkaPublisher_Publish_NoKey(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	defer func() { _ = producer.Close() }()

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Key != nil {
			return errors.New("expected no key")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "", zerolog.Nop())
	if err := pub.Publish(context.Background(), "support.contact", "", map[string]string{}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
}

func TestKafkaPublisher_Publish_SendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	defer func() { _ = producer.Close() }()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "", zerolog.Nop())
	err := pub.Publish(context.Background(), "payment.completed", "pay-1", nil)
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected ErrOutOfBrokers, got %v", err)
	}
}

func TestKafkaPublisher_Publish_MarshalError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	defer func() { _ = producer.Close() }()

	pub := NewKafkaPublisherWithProducer(producer, "", zerolog.Nop())
	if err := pub.Publish(context.Background(), "payment.failed", "", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestKafkaPublisher_Publish_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	defer func() { _ = producer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := NewKafkaPublisherWithProducer(producer, "", zerolog.Nop())
	if err := pub.Publish(ctx, "payment.failed", "", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLogPublisher(t *testing.T) {
	pub := NewLogPublisher(zerolog.Nop())
	if err := pub.Publish(context.Background(), "appointment.cancelled", "apt-1", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
