package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/dto"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/middleware"
)

// MockEventService is a mock implementation of EventService for testing
type MockEventService struct {
	CreateEventFunc       func(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetEventFunc          func(ctx context.Context, eventID string) (*dto.EventResponse, error)
	ListEventsFunc        func(ctx context.Context, status string) ([]*dto.EventResponse, error)
	UpdateEventStatusFunc func(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error)
}

func (m *MockEventService) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, organizerID, req)
	}
	return nil, nil
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockEventService) ListEvents(ctx context.Context, status string) ([]*dto.EventResponse, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockEventService) UpdateEventStatus(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
	if m.UpdateEventStatusFunc != nil {
		return m.UpdateEventStatusFunc(ctx, eventID, organizerID, req)
	}
	return nil, nil
}

func setupEventRouter(svc *MockEventService, organizerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if organizerID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyUserID, organizerID)
			c.Next()
		})
	}

	h := NewEventHandler(svc)
	events := router.Group("/api/v1/events")
	{
		events.POST("", h.Create)
		events.GET("", h.List)
		events.GET("/:id", h.Get)
		events.PATCH("/:id/status", h.UpdateStatus)
	}

	return router
}

func validCreateEventRequest() dto.CreateEventRequest {
	start := time.Now().Add(30 * 24 * time.Hour)
	return dto.CreateEventRequest{
		Title:         "GopherCon Brasil",
		Slug:          "gophercon-brasil-2026",
		Description:   "Annual Go conference",
		StartDate:     start,
		EndDate:       start.Add(8 * time.Hour),
		Location:      "Florianopolis",
		TotalCapacity: 1500,
	}
}

func TestEventHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		organizerID    string
		body           interface{}
		mockFunc       func(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "successful creation",
			organizerID: "organizer-001",
			body:        validCreateEventRequest(),
			mockFunc: func(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
				return &dto.EventResponse{ID: "event-001", Title: req.Title, Status: "SKETCH", OrganizerID: organizerID}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthenticated",
			organizerID:    "",
			body:           validCreateEventRequest(),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing title",
			organizerID:    "organizer-001",
			body:           map[string]interface{}{"slug": "no-title"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:        "invalid date window",
			organizerID: "organizer-001",
			body:        validCreateEventRequest(),
			mockFunc: func(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
				return nil, domain.ErrInvalidSaleWindow
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockEventService{CreateEventFunc: tt.mockFunc}
			router := setupEventRouter(svc, tt.organizerID)

			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedCode != "" {
				if code := decodeErrorCode(t, w.Body); code != tt.expectedCode {
					t.Errorf("error code = %s, want %s", code, tt.expectedCode)
				}
			}
		})
	}
}

func TestEventHandler_UpdateStatus(t *testing.T) {
	t.Run("publish succeeds for organizer", func(t *testing.T) {
		svc := &MockEventService{
			UpdateEventStatusFunc: func(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
				return &dto.EventResponse{ID: eventID, Status: req.Status}, nil
			},
		}
		router := setupEventRouter(svc, "organizer-001")

		payload, _ := json.Marshal(dto.UpdateEventStatusRequest{Status: "PUBLISHED"})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/event-001/status", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("rejected for non organizer", func(t *testing.T) {
		svc := &MockEventService{
			UpdateEventStatusFunc: func(ctx context.Context, eventID, organizerID string, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
				return nil, domain.ErrUnauthorized
			},
		}
		router := setupEventRouter(svc, "organizer-002")

		payload, _ := json.Marshal(dto.UpdateEventStatusRequest{Status: "PUBLISHED"})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/event-001/status", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("rejects unknown status value", func(t *testing.T) {
		svc := &MockEventService{}
		router := setupEventRouter(svc, "organizer-001")

		payload, _ := json.Marshal(map[string]string{"status": "OPEN"})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/event-001/status", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestEventHandler_List(t *testing.T) {
	svc := &MockEventService{
		ListEventsFunc: func(ctx context.Context, status string) ([]*dto.EventResponse, error) {
			if status != "PUBLISHED" {
				t.Errorf("status filter = %q, want PUBLISHED", status)
			}
			return []*dto.EventResponse{{ID: "event-001", Status: "PUBLISHED"}}, nil
		},
	}
	router := setupEventRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?status=PUBLISHED", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []*dto.EventResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("events = %d, want 1", len(resp.Data))
	}
}
