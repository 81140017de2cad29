package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CloudEvent is the envelope every published message is wrapped in.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps a payload in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data interface{}) (*CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            payload,
	}, nil
}

// ParseData unmarshals the event payload into v.
func (e *CloudEvent) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ParseCloudEvent decodes a raw Kafka message value into a CloudEvent.
func ParseCloudEvent(raw []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(raw, &ce); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return ce, nil
}

// Producer publishes CloudEvents to Kafka topics.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

// PublishEvent writes a CloudEvent to a topic, keyed by the event ID so
// per-aggregate ordering is preserved when callers reuse the aggregate ID.
func (p *Producer) PublishEvent(ctx context.Context, topic string, key string, event *CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", event.Type),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
