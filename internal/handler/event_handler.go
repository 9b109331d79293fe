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

// EventHandler handles event registry HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerID := middleware.UserID(c)
	if organizerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	span.SetAttributes(attribute.String("organizer_id", organizerID))

	result, err := h.eventService.CreateEvent(ctx, organizerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.String("event_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	result, err := h.eventService.GetEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// List handles GET /api/v1/events?status=PUBLISHED
func (h *EventHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	status := c.Query("status")

	result, err := h.eventService.ListEvents(ctx, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("event_count", len(result)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// UpdateStatus handles PATCH /api/v1/events/:id/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	organizerID := middleware.UserID(c)
	if organizerID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	eventID := c.Param("id")
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("status", req.Status),
	)

	result, err := h.eventService.UpdateEventStatus(ctx, eventID, organizerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleDomainError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// handleDomainError maps domain errors to HTTP status codes for the registry
// handlers
func handleDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
	case err == domain.ErrUnauthorized:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error(), "")
	case err == domain.ErrEventNotPublished:
		response.Error(c, http.StatusUnprocessableEntity, "EVENT_NOT_PUBLISHED", err.Error(), "")
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}
