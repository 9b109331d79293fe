package retry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DLQMessage represents a message in the dead letter queue
type DLQMessage struct {
	// ID is the unique identifier for the message
	ID string `json:"id"`
	// OriginalTopic is the topic the message was originally sent to
	OriginalTopic string `json:"original_topic"`
	// OriginalKey is the original message key
	OriginalKey string `json:"original_key"`
	// Payload is the original message payload
	Payload json.RawMessage `json:"payload"`
	// Error is the error message that caused the failure
	Error string `json:"error"`
	// Attempts is the number of attempts made before moving to DLQ
	Attempts int `json:"attempts"`
	// FirstAttemptAt is when the first attempt was made
	FirstAttemptAt time.Time `json:"first_attempt_at"`
	// LastAttemptAt is when the last attempt was made
	LastAttemptAt time.Time `json:"last_attempt_at"`
	// MovedToDLQAt is when the message was moved to DLQ
	MovedToDLQAt time.Time `json:"moved_to_dlq_at"`
	// Source is the service that moved the message to DLQ
	Source string `json:"source"`
	// Metadata contains additional context
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DLQPublisher publishes failed messages to a dead letter queue
type DLQPublisher interface {
	// PublishToDLQ publishes a message to the dead letter queue
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
	// GetDLQTopic returns the DLQ topic name for a given original topic
	GetDLQTopic(originalTopic string) string
}

// DLQConfig contains configuration for DLQ publishing
type DLQConfig struct {
	// TopicSuffix is the suffix for DLQ topics (default: ".dlq")
	TopicSuffix string
	// Source is the service name for logging
	Source string
}

// DefaultDLQConfig returns default DLQ configuration
func DefaultDLQConfig() *DLQConfig {
	return &DLQConfig{
		TopicSuffix: ".dlq",
		Source:      "unknown",
	}
}

// KafkaPublisher interface for publishing to Kafka
type KafkaPublisher interface {
	PublishJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error
}

// KafkaDLQPublisher publishes failed messages to Kafka DLQ topics
type KafkaDLQPublisher struct {
	producer KafkaPublisher
	config   *DLQConfig
}

// NewKafkaDLQPublisher creates a new Kafka DLQ publisher
func NewKafkaDLQPublisher(producer KafkaPublisher, config *DLQConfig) *KafkaDLQPublisher {
	if config == nil {
		config = DefaultDLQConfig()
	}
	return &KafkaDLQPublisher{
		producer: producer,
		config:   config,
	}
}

// PublishToDLQ publishes a message to the dead letter queue
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return fmt.Errorf("DLQ message cannot be nil")
	}

	dlqTopic := p.GetDLQTopic(msg.OriginalTopic)
	msg.MovedToDLQAt = time.Now()
	msg.Source = p.config.Source

	headers := map[string]string{
		"content_type":    "application/json",
		"original_topic":  msg.OriginalTopic,
		"error":           msg.Error,
		"attempts":        fmt.Sprintf("%d", msg.Attempts),
		"moved_to_dlq_at": msg.MovedToDLQAt.Format(time.RFC3339),
		"source":          msg.Source,
	}

	return p.producer.PublishJSON(ctx, dlqTopic, msg.OriginalKey, msg, headers)
}

// GetDLQTopic returns the DLQ topic name for a given original topic
func (p *KafkaDLQPublisher) GetDLQTopic(originalTopic string) string {
	return originalTopic + p.config.TopicSuffix
}

// NoOpDLQPublisher is a DLQ publisher that does nothing (for testing or disabled DLQ)
type NoOpDLQPublisher struct {
	config *DLQConfig
}

// NewNoOpDLQPublisher creates a new no-op DLQ publisher
func NewNoOpDLQPublisher() *NoOpDLQPublisher {
	return &NoOpDLQPublisher{
		config: DefaultDLQConfig(),
	}
}

// PublishToDLQ does nothing
func (p *NoOpDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	return nil
}

// GetDLQTopic returns the DLQ topic name
func (p *NoOpDLQPublisher) GetDLQTopic(originalTopic string) string {
	return originalTopic + p.config.TopicSuffix
}
