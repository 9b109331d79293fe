package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/dto"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/service"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/middleware"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/response"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Reserve handles POST /api/v1/tickets/reserve
func (h *TicketHandler) Reserve(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.reserve")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	buyerID := middleware.UserID(c)
	if buyerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.ReserveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("buyer_id", buyerID),
		attribute.String("ticket_type_id", req.TicketTypeID),
	)

	result, err := h.ticketService.Reserve(ctx, buyerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("ticket_id", result.TicketID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Pay handles POST /api/v1/tickets/:id/pay
func (h *TicketHandler) Pay(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.pay")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	buyerID := middleware.UserID(c)
	if buyerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID := c.Param("id")
	buyerEmail := c.GetString(middleware.ContextKeyUserEmail)

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("buyer_id", buyerID),
	)

	result, err := h.ticketService.Pay(ctx, ticketID, buyerID, buyerEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Validate handles POST /api/v1/tickets/validate (gate check by code)
func (h *TicketHandler) Validate(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.validate")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	span.SetAttributes(attribute.String("ticket_code", req.Code))

	result, err := h.ticketService.Use(ctx, req.Code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Cancel handles POST /api/v1/tickets/:id/cancel
func (h *TicketHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	buyerID := middleware.UserID(c)
	if buyerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID := c.Param("id")
	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("buyer_id", buyerID),
	)

	result, err := h.ticketService.Cancel(ctx, ticketID, buyerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Get handles GET /api/v1/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	buyerID := middleware.UserID(c)
	if buyerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID := c.Param("id")
	span.SetAttributes(attribute.String("ticket_id", ticketID))

	result, err := h.ticketService.GetTicket(ctx, ticketID, buyerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// List handles GET /api/v1/tickets
func (h *TicketHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	buyerID := middleware.UserID(c)
	if buyerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	result, err := h.ticketService.ListBuyerTickets(ctx, buyerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("ticket_count", len(result)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Availability handles GET /api/v1/ticket-types/:id/availability
func (h *TicketHandler) Availability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.availability")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ticketTypeID := c.Param("id")
	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	result, err := h.ticketService.GetAvailability(ctx, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// handleError maps domain errors to HTTP status codes
func (h *TicketHandler) handleError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
	case errors.Is(err, domain.ErrNoCapacity):
		response.Error(c, http.StatusConflict, "SOLD_OUT", err.Error(), "")
	case errors.Is(err, domain.ErrDuplicateReservation):
		response.Error(c, http.StatusConflict, "DUPLICATE_RESERVATION", err.Error(), "")
	case errors.Is(err, domain.ErrTerminalState):
		response.Error(c, http.StatusConflict, "TICKET_FINALIZED", err.Error(), "")
	case errors.Is(err, domain.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error(), "")
	case errors.Is(err, domain.ErrTicketTypeNotSellable):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_SELLABLE", err.Error(), "")
	case errors.Is(err, domain.ErrEventNotPublished):
		response.Error(c, http.StatusUnprocessableEntity, "EVENT_NOT_PUBLISHED", err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error(), "")
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}
