// internal/pkg/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
)

// Topics
const (
	TopicOrderPlaced = "order.placed"
	TopicBookCreated = "book.created"
	TopicBookUpdated = "book.updated"
	TopicBookDeleted = "book.deleted"
)

// Event is the envelope written to the bus.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// New returns a kafka publisher when brokers are configured, otherwise a log-only publisher.
func New(cfg config.EventConfig, log *logrus.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		return NewLogPublisher(log)
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.TopicPrefix, log)
}

func envelope(topic, key string, payload any) ([]byte, error) {
	data, err := json.Marshal(Event{
		Type:       topic,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s: %w", topic, err)
	}
	return data, nil
}

// KafkaPublisher writes events to kafka, one topic per event type.
type KafkaPublisher struct {
	writer *kafka.Writer
	prefix string
	log    *logrus.Logger
}

// NewKafkaPublisher creates a kafka-backed publisher.
func NewKafkaPublisher(brokers []string, prefix string, log *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		prefix: prefix,
		log:    log,
	}
}

func (p *KafkaPublisher) topic(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// Publish writes one event and waits for the broker ack.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := envelope(topic, key, payload)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic(topic),
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}

	p.log.WithFields(logrus.Fields{"topic": p.topic(topic), "key": key}).Debug("Event published")
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher writes events to the log only.
type LogPublisher struct {
	log *logrus.Logger
}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	data, err := envelope(topic, key, payload)
	if err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{"topic": topic, "key": key, "event": string(data)}).Info("Event emitted")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
