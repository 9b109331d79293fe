package retry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDefaultDLQConfig(t *testing.T) {
	config := DefaultDLQConfig()

	if config.TopicSuffix != ".dlq" {
		t.Errorf("TopicSuffix = %s, want .dlq", config.TopicSuffix)
	}

	if config.Source != "unknown" {
		t.Errorf("Source = %s, want unknown", config.Source)
	}
}

// MockKafkaPublisher is a mock Kafka publisher for testing
type MockKafkaPublisher struct {
	PublishedMessages []struct {
		Topic   string
		Key     string
		Data    interface{}
		Headers map[string]string
	}
	ShouldFail bool
}

func (m *MockKafkaPublisher) PublishJSON(ctx context.Context, topic string, key string, data interface{}, headers map[string]string) error {
	if m.ShouldFail {
		return errors.New("mock publish failed")
	}

	m.PublishedMessages = append(m.PublishedMessages, struct {
		Topic   string
		Key     string
		Data    interface{}
		Headers map[string]string
	}{
		Topic:   topic,
		Key:     key,
		Data:    data,
		Headers: headers,
	})

	return nil
}

func TestKafkaDLQPublisher_GetDLQTopic(t *testing.T) {
	tests := []struct {
		name          string
		originalTopic string
		suffix        string
		expected      string
	}{
		{
			name:          "default suffix",
			originalTopic: "ticket-events",
			suffix:        ".dlq",
			expected:      "ticket-events.dlq",
		},
		{
			name:          "custom suffix",
			originalTopic: "reclamation-failures",
			suffix:        "-dead-letter",
			expected:      "reclamation-failures-dead-letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &DLQConfig{
				TopicSuffix: tt.suffix,
			}

			publisher := NewKafkaDLQPublisher(&MockKafkaPublisher{}, config)
			got := publisher.GetDLQTopic(tt.originalTopic)

			if got != tt.expected {
				t.Errorf("GetDLQTopic(%s) = %s, want %s", tt.originalTopic, got, tt.expected)
			}
		})
	}
}

func TestKafkaDLQPublisher_PublishToDLQ(t *testing.T) {
	mock := &MockKafkaPublisher{}
	config := &DLQConfig{
		TopicSuffix: ".dlq",
		Source:      "ticket-service",
	}

	publisher := NewKafkaDLQPublisher(mock, config)

	msg := &DLQMessage{
		ID:             "msg-123",
		OriginalTopic:  "ticket-events",
		OriginalKey:    "ticket-456",
		Payload:        json.RawMessage(`{"ticket_id": "ticket-456"}`),
		Error:          "kafka connection failed",
		Attempts:       3,
		FirstAttemptAt: time.Now().Add(-1 * time.Minute),
		LastAttemptAt:  time.Now(),
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err != nil {
		t.Fatalf("PublishToDLQ failed: %v", err)
	}

	if len(mock.PublishedMessages) != 1 {
		t.Fatalf("Expected 1 published message, got %d", len(mock.PublishedMessages))
	}

	published := mock.PublishedMessages[0]

	if published.Topic != "ticket-events.dlq" {
		t.Errorf("Topic = %s, want ticket-events.dlq", published.Topic)
	}

	if published.Key != "ticket-456" {
		t.Errorf("Key = %s, want ticket-456", published.Key)
	}

	// Check headers
	if published.Headers["original_topic"] != "ticket-events" {
		t.Errorf("Header original_topic = %s, want ticket-events", published.Headers["original_topic"])
	}

	if published.Headers["error"] != "kafka connection failed" {
		t.Errorf("Header error = %s, want 'kafka connection failed'", published.Headers["error"])
	}

	if published.Headers["attempts"] != "3" {
		t.Errorf("Header attempts = %s, want 3", published.Headers["attempts"])
	}

	if published.Headers["source"] != "ticket-service" {
		t.Errorf("Header source = %s, want ticket-service", published.Headers["source"])
	}

	// Check that MovedToDLQAt was set
	publishedMsg, ok := published.Data.(*DLQMessage)
	if !ok {
		t.Fatal("Published data is not a DLQMessage")
	}

	if publishedMsg.MovedToDLQAt.IsZero() {
		t.Error("MovedToDLQAt should be set")
	}

	if publishedMsg.Source != "ticket-service" {
		t.Errorf("Source = %s, want ticket-service", publishedMsg.Source)
	}
}

func TestKafkaDLQPublisher_PublishToDLQ_NilMessage(t *testing.T) {
	mock := &MockKafkaPublisher{}
	publisher := NewKafkaDLQPublisher(mock, nil)

	err := publisher.PublishToDLQ(context.Background(), nil)
	if err == nil {
		t.Error("Expected error for nil message")
	}
}

func TestKafkaDLQPublisher_PublishToDLQ_PublishFails(t *testing.T) {
	mock := &MockKafkaPublisher{ShouldFail: true}
	publisher := NewKafkaDLQPublisher(mock, nil)

	msg := &DLQMessage{
		ID:            "msg-123",
		OriginalTopic: "ticket-events",
		OriginalKey:   "ticket-456",
		Error:         "test error",
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err == nil {
		t.Error("Expected error when publish fails")
	}
}

func TestNewKafkaDLQPublisher_WithNilConfig(t *testing.T) {
	mock := &MockKafkaPublisher{}
	publisher := NewKafkaDLQPublisher(mock, nil)

	if publisher.config == nil {
		t.Fatal("Config should not be nil")
	}

	if publisher.config.TopicSuffix != ".dlq" {
		t.Errorf("TopicSuffix = %s, want .dlq", publisher.config.TopicSuffix)
	}
}

func TestNoOpDLQPublisher(t *testing.T) {
	publisher := NewNoOpDLQPublisher()

	msg := &DLQMessage{
		ID:            "msg-123",
		OriginalTopic: "test-topic",
	}

	err := publisher.PublishToDLQ(context.Background(), msg)
	if err != nil {
		t.Errorf("NoOpDLQPublisher.PublishToDLQ should not return error, got %v", err)
	}

	topic := publisher.GetDLQTopic("test-topic")
	if topic != "test-topic.dlq" {
		t.Errorf("GetDLQTopic = %s, want test-topic.dlq", topic)
	}
}
