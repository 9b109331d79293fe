package service

import (
	"context"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/dto"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/repository"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventService defines the interface for event registry business logic
type EventService interface {
	// CreateEvent registers a new event in SKETCH status
	CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error)

	// ListEvents returns events, optionally filtered by status
	ListEvents(ctx context.Context, status string) ([]*dto.EventResponse, error)

	// UpdateEventStatus moves an event through its publication lifecycle.
	// Only the organizer may change the status.
	UpdateEventStatus(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent registers a new event in SKETCH status
func (s *eventService) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	span.SetAttributes(attribute.String("organizer_id", organizerID))

	event, err := domain.NewEvent(
		req.Title,
		req.Slug,
		req.Description,
		req.Location,
		organizerID,
		req.StartDate,
		req.EndDate,
		req.TotalCapacity,
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("event_id", event.ID))
	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// ListEvents returns events, optionally filtered by status
func (s *eventService) ListEvents(ctx context.Context, status string) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	events, err := s.eventRepo.List(ctx, domain.EventStatus(status))
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("event_count", len(events)))
	span.SetStatus(codes.Ok, "")
	return dto.EventsFromDomain(events), nil
}

// UpdateEventStatus moves an event through its publication lifecycle
func (s *eventService) UpdateEventStatus(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("status", req.Status),
	)

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		span.SetStatus(codes.Error, "not organizer")
		return nil, domain.ErrUnauthorized
	}

	status := domain.EventStatus(req.Status)
	if err := s.eventRepo.UpdateStatus(ctx, eventID, status); err != nil {
		return nil, err
	}
	event.Status = status

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}
