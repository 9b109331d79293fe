package handler

import (
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

// TicketTypeHandler handles ticket type management HTTP requests
type TicketTypeHandler struct {
	ticketTypeService service.TicketTypeService
}

// NewTicketTypeHandler creates a new ticket type handler
func NewTicketTypeHandler(ticketTypeService service.TicketTypeService) *TicketTypeHandler {
	return &TicketTypeHandler{ticketTypeService: ticketTypeService}
}

// Create handles POST /api/v1/events/:id/ticket-types
func (h *TicketTypeHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerID := middleware.UserID(c)
	if organizerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	eventID := c.Param("id")
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("name", req.Name),
	)

	result, err := h.ticketTypeService.CreateTicketType(ctx, eventID, organizerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.String("ticket_type_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Get handles GET /api/v1/ticket-types/:id
func (h *TicketTypeHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ticketTypeID := c.Param("id")
	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	result, err := h.ticketTypeService.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// ListByEvent handles GET /api/v1/events/:id/ticket-types
func (h *TicketTypeHandler) ListByEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.list_by_event")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	result, err := h.ticketTypeService.ListByEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("ticket_type_count", len(result)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Update handles PATCH /api/v1/ticket-types/:id
func (h *TicketTypeHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerID := middleware.UserID(c)
	if organizerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	ticketTypeID := c.Param("id")
	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	result, err := h.ticketTypeService.UpdateTicketType(ctx, ticketTypeID, organizerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// UpdateStatus handles PATCH /api/v1/ticket-types/:id/status
func (h *TicketTypeHandler) UpdateStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket_type.update_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerID := middleware.UserID(c)
	if organizerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	ticketTypeID := c.Param("id")
	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.String("status", req.Status),
	)

	result, err := h.ticketTypeService.UpdateStatus(ctx, ticketTypeID, organizerID, domain.TicketTypeStatus(req.Status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
