package service

import (
	"context"
	"time"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/dto"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/metrics"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/repository"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/logger"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TicketService defines the interface for ticket lifecycle business logic
type TicketService interface {
	// Reserve creates a PENDING_PAYMENT ticket, taking one capacity unit
	Reserve(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error)

	// Pay confirms payment, activating the ticket
	Pay(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error)

	// Use validates a ticket at the gate by its code
	Use(ctx context.Context, code string) (*dto.TicketResponse, error)

	// Cancel cancels a ticket. Pending cancellations release capacity;
	// active cancellations do not.
	Cancel(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)

	// GetTicket retrieves a ticket owned by the buyer
	GetTicket(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)

	// ListBuyerTickets retrieves all tickets owned by the buyer
	ListBuyerTickets(ctx context.Context, buyerID string) ([]*dto.TicketResponse, error)

	// GetAvailability returns the remaining capacity of a ticket type
	GetAvailability(ctx context.Context, ticketTypeID string) (*dto.AvailabilityResponse, error)
}

// ticketService implements TicketService
type ticketService struct {
	ledger          repository.CapacityLedger
	ticketRepo      repository.TicketRepository
	ticketTypeRepo  repository.TicketTypeRepository
	eventRepo       repository.EventRepository
	cache           repository.AvailabilityCache
	publisher       EventPublisher
	notifier        Notifier
	holdTimeout     time.Duration
	availabilityTTL time.Duration
	log             *logger.Logger
}

// TicketServiceConfig contains configuration for the ticket service
type TicketServiceConfig struct {
	HoldTimeout     time.Duration
	AvailabilityTTL time.Duration
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ledger repository.CapacityLedger,
	ticketRepo repository.TicketRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	eventRepo repository.EventRepository,
	cache repository.AvailabilityCache,
	publisher EventPublisher,
	notifier Notifier,
	cfg *TicketServiceConfig,
) TicketService {
	holdTimeout := 15 * time.Minute
	availabilityTTL := 5 * time.Second
	if cfg != nil {
		if cfg.HoldTimeout > 0 {
			holdTimeout = cfg.HoldTimeout
		}
		if cfg.AvailabilityTTL > 0 {
			availabilityTTL = cfg.AvailabilityTTL
		}
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	if notifier == nil {
		notifier = NewNoOpNotifier()
	}
	return &ticketService{
		ledger:          ledger,
		ticketRepo:      ticketRepo,
		ticketTypeRepo:  ticketTypeRepo,
		eventRepo:       eventRepo,
		cache:           cache,
		publisher:       publisher,
		notifier:        notifier,
		holdTimeout:     holdTimeout,
		availabilityTTL: availabilityTTL,
		log:             logger.Get(),
	}
}

// Reserve creates a PENDING_PAYMENT ticket. The capacity unit is taken by the
// ledger's conditional decrement before the ticket row exists; if the insert
// fails the unit is released again, so no path leaks capacity.
func (s *ticketService) Reserve(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.reserve")
	defer span.End()

	if buyerID == "" {
		span.SetStatus(codes.Error, "invalid buyer_id")
		return nil, domain.ErrInvalidBuyerID
	}
	if req == nil || req.TicketTypeID == "" {
		span.SetStatus(codes.Error, "invalid ticket_type_id")
		return nil, domain.ErrTicketTypeNotFound
	}

	span.SetAttributes(
		attribute.String("buyer_id", buyerID),
		attribute.String("ticket_type_id", req.TicketTypeID),
	)

	ticketType, err := s.ticketTypeRepo.GetByID(ctx, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, ticketType.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished() {
		span.SetStatus(codes.Error, "event not published")
		metrics.RecordFailure(ctx, req.TicketTypeID, "event_not_published")
		return nil, domain.ErrEventNotPublished
	}
	if !ticketType.Sellable(time.Now()) {
		span.SetStatus(codes.Error, "ticket type not sellable")
		metrics.RecordFailure(ctx, req.TicketTypeID, "not_sellable")
		return nil, domain.ErrTicketTypeNotSellable
	}

	open, err := s.ticketRepo.HasOpenTicket(ctx, req.TicketTypeID, buyerID)
	if err != nil {
		return nil, err
	}
	if open {
		span.SetStatus(codes.Error, "duplicate reservation")
		metrics.RecordFailure(ctx, req.TicketTypeID, "duplicate")
		return nil, domain.ErrDuplicateReservation
	}

	if err := s.ledger.Reserve(ctx, req.TicketTypeID); err != nil {
		if err == domain.ErrNoCapacity {
			metrics.RecordFailure(ctx, req.TicketTypeID, "sold_out")
		}
		return nil, err
	}

	ticket, err := domain.NewTicket(req.TicketTypeID, buyerID, ticketType.Price)
	if err != nil {
		s.compensateReserve(ctx, req.TicketTypeID)
		return nil, err
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		s.compensateReserve(ctx, req.TicketTypeID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateAvailability(ctx, req.TicketTypeID)

	_ = s.publisher.PublishTicketReserved(ctx, ticket)

	metrics.RecordReservation(ctx, req.TicketTypeID)

	span.AddEvent("reservation_created", trace.WithAttributes(
		attribute.String("ticket_id", ticket.ID),
		attribute.String("ticket_code", ticket.Code),
	))
	span.SetAttributes(attribute.String("ticket_id", ticket.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.ReserveTicketResponse{
		TicketID:  ticket.ID,
		Code:      ticket.Code,
		Status:    ticket.Status.String(),
		PricePaid: ticket.PricePaid,
		ExpiresAt: ticket.BoughtAt.Add(s.holdTimeout),
	}, nil
}

// compensateReserve returns the capacity unit taken by a reservation whose
// ticket row could not be created
func (s *ticketService) compensateReserve(ctx context.Context, ticketTypeID string) {
	if err := s.ledger.Release(ctx, ticketTypeID); err != nil {
		// Worst case this leaks one unit until an operator reconciles;
		// it can never oversell.
		s.log.Error("failed to compensate capacity after create failure",
			zap.String("ticket_type_id", ticketTypeID),
			zap.Error(err),
		)
	}
}

// Pay confirms payment for a pending ticket. The status guard in storage
// makes it race-safe against the reclamation sweep: whichever commits first
// wins and the loser sees a classified conflict.
func (s *ticketService) Pay(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.pay")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("buyer_id", buyerID),
	)

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.BelongsTo(buyerID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrUnauthorized
	}

	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, domain.TicketStatusPendingPayment, domain.TicketStatusActive); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatusActive

	_ = s.publisher.PublishTicketPaid(ctx, ticket)

	metrics.RecordPayment(ctx, ticket.TicketTypeID, time.Since(ticket.BoughtAt).Seconds())

	if buyerEmail != "" {
		// Best-effort: a failed email never fails the payment
		go func(t domain.Ticket, email string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.notifier.SendTicketConfirmation(sendCtx, email, &t); err != nil {
				s.log.Warn("failed to send ticket confirmation",
					zap.String("ticket_id", t.ID),
					zap.Error(err),
				)
			}
		}(*ticket, buyerEmail)
	}

	span.SetStatus(codes.Ok, "")
	return dto.TicketFromDomain(ticket), nil
}

// Use validates a ticket at the gate by its code and marks it USED
func (s *ticketService) Use(ctx context.Context, code string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.use")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_code", code))

	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	usedAt := time.Now()
	if err := s.ticketRepo.MarkUsed(ctx, ticket.ID, usedAt); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatusUsed
	ticket.UsedAt = &usedAt

	_ = s.publisher.PublishTicketUsed(ctx, ticket)

	metrics.RecordValidation(ctx, ticket.TicketTypeID)

	span.SetAttributes(attribute.String("ticket_id", ticket.ID))
	span.SetStatus(codes.Ok, "")
	return dto.TicketFromDomain(ticket), nil
}

// Cancel cancels a ticket. A pending ticket returns its capacity unit to the
// pool; an active ticket does not, because its unit was sold.
func (s *ticketService) Cancel(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("buyer_id", buyerID),
	)

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.BelongsTo(buyerID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrUnauthorized
	}

	released := false
	switch ticket.Status {
	case domain.TicketStatusPendingPayment:
		if err := s.ticketRepo.CancelPendingReleasingCapacity(ctx, ticketID); err != nil {
			return nil, err
		}
		released = true
		s.invalidateAvailability(ctx, ticket.TicketTypeID)
	case domain.TicketStatusActive:
		if err := s.ticketRepo.UpdateStatus(ctx, ticketID, domain.TicketStatusActive, domain.TicketStatusCanceled); err != nil {
			return nil, err
		}
	default:
		span.SetStatus(codes.Error, "not cancellable")
		return nil, domain.TransitionError(ticket.Status, domain.TicketStatusCanceled)
	}
	ticket.Status = domain.TicketStatusCanceled

	_ = s.publisher.PublishTicketCanceled(ctx, ticket)

	metrics.RecordCancellation(ctx, ticket.TicketTypeID, released)

	span.SetAttributes(attribute.Bool("capacity_released", released))
	span.SetStatus(codes.Ok, "")
	return dto.TicketFromDomain(ticket), nil
}

// GetTicket retrieves a ticket owned by the buyer
func (s *ticketService) GetTicket(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.get")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", ticketID))

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.BelongsTo(buyerID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrUnauthorized
	}

	span.SetStatus(codes.Ok, "")
	return dto.TicketFromDomain(ticket), nil
}

// ListBuyerTickets retrieves all tickets owned by the buyer, newest first
func (s *ticketService) ListBuyerTickets(ctx context.Context, buyerID string) ([]*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.list_by_buyer")
	defer span.End()

	span.SetAttributes(attribute.String("buyer_id", buyerID))

	tickets, err := s.ticketRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("ticket_count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return dto.TicketsFromDomain(tickets), nil
}

// GetAvailability returns the remaining capacity of a ticket type, served
// from cache when fresh. Cache failures fall through to storage.
func (s *ticketService) GetAvailability(ctx context.Context, ticketTypeID string) (*dto.AvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.availability")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	if s.cache != nil {
		available, found, err := s.cache.Get(ctx, ticketTypeID)
		if err != nil {
			s.log.Warn("availability cache read failed",
				zap.String("ticket_type_id", ticketTypeID),
				zap.Error(err),
			)
		} else if found {
			span.SetStatus(codes.Ok, "")
			return &dto.AvailabilityResponse{
				TicketTypeID:      ticketTypeID,
				QuantityAvailable: available,
			}, nil
		}
	}

	available, err := s.ledger.Availability(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ticketTypeID, available, s.availabilityTTL); err != nil {
			s.log.Warn("availability cache write failed",
				zap.String("ticket_type_id", ticketTypeID),
				zap.Error(err),
			)
		}
	}

	span.SetStatus(codes.Ok, "")
	return &dto.AvailabilityResponse{
		TicketTypeID:      ticketTypeID,
		QuantityAvailable: available,
	}, nil
}

// invalidateAvailability drops the cached count after a capacity movement
func (s *ticketService) invalidateAvailability(ctx context.Context, ticketTypeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ticketTypeID); err != nil {
		s.log.Warn("availability cache invalidation failed",
			zap.String("ticket_type_id", ticketTypeID),
			zap.Error(err),
		)
	}
}
