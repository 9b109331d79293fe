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

// TicketTypeService defines the interface for ticket type management
type TicketTypeService interface {
	// CreateTicketType adds a priced admission category to an event.
	// Only the event's organizer may do this.
	CreateTicketType(ctx context.Context, eventID, organizerID string, req *dto.CreateTicketTypeRequest) (*dto.TicketTypeResponse, error)

	// GetTicketType retrieves a ticket type by ID
	GetTicketType(ctx context.Context, ticketTypeID string) (*dto.TicketTypeResponse, error)

	// ListByEvent returns all ticket types of an event
	ListByEvent(ctx context.Context, eventID string) ([]*dto.TicketTypeResponse, error)

	// UpdateTicketType changes mutable fields of a ticket type. Capacity
	// is immutable after creation.
	UpdateTicketType(ctx context.Context, ticketTypeID, organizerID string, req *dto.UpdateTicketTypeRequest) (*dto.TicketTypeResponse, error)

	// UpdateStatus opens or closes a ticket type for sale
	UpdateStatus(ctx context.Context, ticketTypeID, organizerID string, status domain.TicketTypeStatus) (*dto.TicketTypeResponse, error)
}

// ticketTypeService implements TicketTypeService
type ticketTypeService struct {
	ticketTypeRepo repository.TicketTypeRepository
	eventRepo      repository.EventRepository
}

// NewTicketTypeService creates a new ticket type service
func NewTicketTypeService(ticketTypeRepo repository.TicketTypeRepository, eventRepo repository.EventRepository) TicketTypeService {
	return &ticketTypeService{
		ticketTypeRepo: ticketTypeRepo,
		eventRepo:      eventRepo,
	}
}

// requireOrganizer loads the event and checks the caller owns it
func (s *ticketTypeService) requireOrganizer(ctx context.Context, eventID, organizerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrUnauthorized
	}
	return event, nil
}

// CreateTicketType adds a priced admission category to an event
func (s *ticketTypeService) CreateTicketType(ctx context.Context, eventID, organizerID string, req *dto.CreateTicketTypeRequest) (*dto.TicketTypeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("name", req.Name),
	)

	event, err := s.requireOrganizer(ctx, eventID, organizerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		span.SetStatus(codes.Error, "event not published")
		return nil, domain.ErrEventNotPublished
	}

	name := domain.TicketTypeName(req.Name)
	if !name.IsValid() {
		span.SetStatus(codes.Error, "invalid ticket type name")
		return nil, domain.ErrInvalidTicketTypeName
	}

	tt, err := domain.NewTicketType(eventID, name, req.Description, req.Price, req.Capacity, req.SaleStart, req.SaleEnd)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.ticketTypeRepo.Create(ctx, tt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_type_id", tt.ID))
	span.SetStatus(codes.Ok, "")
	return dto.TicketTypeFromDomain(tt), nil
}

// GetTicketType retrieves a ticket type by ID
func (s *ticketTypeService) GetTicketType(ctx context.Context, ticketTypeID string) (*dto.TicketTypeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.get")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	tt, err := s.ticketTypeRepo.GetByID(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.TicketTypeFromDomain(tt), nil
}

// ListByEvent returns all ticket types of an event
func (s *ticketTypeService) ListByEvent(ctx context.Context, eventID string) ([]*dto.TicketTypeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	types, err := s.ticketTypeRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("ticket_type_count", len(types)))
	span.SetStatus(codes.Ok, "")
	return dto.TicketTypesFromDomain(types), nil
}

// UpdateTicketType changes mutable fields. The patch is validated against the
// domain invariants before it is written, so a SOCIAL type can never gain a
// price and the sale window can never invert.
func (s *ticketTypeService) UpdateTicketType(ctx context.Context, ticketTypeID, organizerID string, req *dto.UpdateTicketTypeRequest) (*dto.TicketTypeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.update")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	tt, err := s.ticketTypeRepo.GetByID(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOrganizer(ctx, tt.EventID, organizerID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if req.Description != nil {
		tt.Description = *req.Description
	}
	if req.Price != nil {
		tt.Price = *req.Price
	}
	if req.SaleStart != nil {
		tt.SaleStart = *req.SaleStart
	}
	if req.SaleEnd != nil {
		tt.SaleEnd = *req.SaleEnd
	}
	if err := tt.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.ticketTypeRepo.Update(ctx, tt); err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.TicketTypeFromDomain(tt), nil
}

// UpdateStatus opens or closes a ticket type for sale
func (s *ticketTypeService) UpdateStatus(ctx context.Context, ticketTypeID, organizerID string, status domain.TicketTypeStatus) (*dto.TicketTypeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket_type.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.String("status", status.String()),
	)

	tt, err := s.ticketTypeRepo.GetByID(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOrganizer(ctx, tt.EventID, organizerID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.ticketTypeRepo.UpdateStatus(ctx, ticketTypeID, status); err != nil {
		return nil, err
	}
	tt.Status = status

	span.SetStatus(codes.Ok, "")
	return dto.TicketTypeFromDomain(tt), nil
}
