package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/kafka"
)

// EventPublisher defines the interface for publishing ticket lifecycle events
type EventPublisher interface {
	// PublishTicketReserved publishes a ticket reserved event
	PublishTicketReserved(ctx context.Context, ticket *domain.Ticket) error

	// PublishTicketPaid publishes a ticket paid event
	PublishTicketPaid(ctx context.Context, ticket *domain.Ticket) error

	// PublishTicketUsed publishes a ticket used event
	PublishTicketUsed(ctx context.Context, ticket *domain.Ticket) error

	// PublishTicketCanceled publishes a ticket canceled event
	PublishTicketCanceled(ctx context.Context, ticket *domain.Ticket) error

	// PublishTicketExpired publishes a ticket expired event
	PublishTicketExpired(ctx context.Context, ticket *domain.Ticket) error

	// Close closes the event publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    *kafka.Producer
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "ticket-events"
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ticket-service"
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "ticket-service-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		BatchSize:     100,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// PublishTicketReserved publishes a ticket reserved event
func (p *KafkaEventPublisher) PublishTicketReserved(ctx context.Context, ticket *domain.Ticket) error {
	return p.publishEvent(ctx, domain.TicketEventReserved, ticket)
}

// PublishTicketPaid publishes a ticket paid event
func (p *KafkaEventPublisher) PublishTicketPaid(ctx context.Context, ticket *domain.Ticket) error {
	return p.publishEvent(ctx, domain.TicketEventPaid, ticket)
}

// PublishTicketUsed publishes a ticket used event
func (p *KafkaEventPublisher) PublishTicketUsed(ctx context.Context, ticket *domain.Ticket) error {
	return p.publishEvent(ctx, domain.TicketEventUsed, ticket)
}

// PublishTicketCanceled publishes a ticket canceled event
func (p *KafkaEventPublisher) PublishTicketCanceled(ctx context.Context, ticket *domain.Ticket) error {
	return p.publishEvent(ctx, domain.TicketEventCanceled, ticket)
}

// PublishTicketExpired publishes a ticket expired event
func (p *KafkaEventPublisher) PublishTicketExpired(ctx context.Context, ticket *domain.Ticket) error {
	return p.publishEvent(ctx, domain.TicketEventExpired, ticket)
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// publishEvent publishes a ticket lifecycle event to Kafka
func (p *KafkaEventPublisher) publishEvent(ctx context.Context, eventType domain.TicketEventType, ticket *domain.Ticket) error {
	eventID := uuid.New().String()
	event := domain.NewTicketEvent(eventType, ticket, eventID)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := map[string]string{
		"event_type":   string(eventType),
		"event_id":     eventID,
		"source":       p.serviceName,
		"content_type": "application/json",
	}

	msg := &kafka.Message{
		Topic:     p.topic,
		Key:       []byte(event.Key()),
		Value:     value,
		Headers:   headers,
		Timestamp: time.Now(),
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	return nil
}

// NoOpEventPublisher is a no-op implementation of EventPublisher for testing
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// PublishTicketReserved is a no-op
func (p *NoOpEventPublisher) PublishTicketReserved(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

// PublishTicketPaid is a no-op
func (p *NoOpEventPublisher) PublishTicketPaid(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

// PublishTicketUsed is a no-op
func (p *NoOpEventPublisher) PublishTicketUsed(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

// PublishTicketCanceled is a no-op
func (p *NoOpEventPublisher) PublishTicketCanceled(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

// PublishTicketExpired is a no-op
func (p *NoOpEventPublisher) PublishTicketExpired(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

// Close is a no-op
func (p *NoOpEventPublisher) Close() error {
	return nil
}
