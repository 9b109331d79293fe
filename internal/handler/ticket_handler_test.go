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

const testTicketTypeID = "550e8400-e29b-41d4-a716-446655440000"

// MockTicketService is a mock implementation of TicketService for testing
type MockTicketService struct {
	ReserveFunc          func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error)
	PayFunc              func(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error)
	UseFunc              func(ctx context.Context, code string) (*dto.TicketResponse, error)
	CancelFunc           func(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)
	GetTicketFunc        func(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)
	ListBuyerTicketsFunc func(ctx context.Context, buyerID string) ([]*dto.TicketResponse, error)
	GetAvailabilityFunc  func(ctx context.Context, ticketTypeID string) (*dto.AvailabilityResponse, error)
}

func (m *MockTicketService) Reserve(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, buyerID, req)
	}
	return nil, nil
}

func (m *MockTicketService) Pay(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error) {
	if m.PayFunc != nil {
		return m.PayFunc(ctx, ticketID, buyerID, buyerEmail)
	}
	return nil, nil
}

func (m *MockTicketService) Use(ctx context.Context, code string) (*dto.TicketResponse, error) {
	if m.UseFunc != nil {
		return m.UseFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockTicketService) Cancel(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, ticketID, buyerID)
	}
	return nil, nil
}

func (m *MockTicketService) GetTicket(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	if m.GetTicketFunc != nil {
		return m.GetTicketFunc(ctx, ticketID, buyerID)
	}
	return nil, nil
}

func (m *MockTicketService) ListBuyerTickets(ctx context.Context, buyerID string) ([]*dto.TicketResponse, error) {
	if m.ListBuyerTicketsFunc != nil {
		return m.ListBuyerTicketsFunc(ctx, buyerID)
	}
	return nil, nil
}

func (m *MockTicketService) GetAvailability(ctx context.Context, ticketTypeID string) (*dto.AvailabilityResponse, error) {
	if m.GetAvailabilityFunc != nil {
		return m.GetAvailabilityFunc(ctx, ticketTypeID)
	}
	return nil, nil
}

func setupTicketRouter(svc *MockTicketService, buyerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if buyerID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyUserID, buyerID)
			c.Next()
		})
	}

	h := NewTicketHandler(svc)
	tickets := router.Group("/api/v1/tickets")
	{
		tickets.POST("/reserve", h.Reserve)
		tickets.POST("/validate", h.Validate)
		tickets.GET("", h.List)
		tickets.GET("/:id", h.Get)
		tickets.POST("/:id/pay", h.Pay)
		tickets.POST("/:id/cancel", h.Cancel)
	}
	router.GET("/api/v1/ticket-types/:id/availability", h.Availability)

	return router
}

func decodeErrorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

func TestTicketHandler_Reserve(t *testing.T) {
	tests := []struct {
		name           string
		buyerID        string
		body           interface{}
		mockFunc       func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:    "successful reservation",
			buyerID: "buyer-001",
			body:    dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			mockFunc: func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
				return &dto.ReserveTicketResponse{
					TicketID:  "ticket-001",
					Code:      "TIX-ABCD1234",
					Status:    "PENDING_PAYMENT",
					ExpiresAt: time.Now().Add(15 * time.Minute),
				}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthenticated",
			buyerID:        "",
			body:           dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing ticket type id",
			buyerID:        "buyer-001",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:    "sold out",
			buyerID: "buyer-001",
			body:    dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			mockFunc: func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
				return nil, domain.ErrNoCapacity
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "SOLD_OUT",
		},
		{
			name:    "duplicate reservation",
			buyerID: "buyer-001",
			body:    dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			mockFunc: func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
				return nil, domain.ErrDuplicateReservation
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "DUPLICATE_RESERVATION",
		},
		{
			name:    "event not published",
			buyerID: "buyer-001",
			body:    dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			mockFunc: func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
				return nil, domain.ErrEventNotPublished
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "EVENT_NOT_PUBLISHED",
		},
		{
			name:    "unknown ticket type",
			buyerID: "buyer-001",
			body:    dto.ReserveTicketRequest{TicketTypeID: testTicketTypeID},
			mockFunc: func(ctx context.Context, buyerID string, req *dto.ReserveTicketRequest) (*dto.ReserveTicketResponse, error) {
				return nil, domain.ErrTicketTypeNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockTicketService{ReserveFunc: tt.mockFunc}
			router := setupTicketRouter(svc, tt.buyerID)

			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/reserve", bytes.NewReader(payload))
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

func TestTicketHandler_Pay(t *testing.T) {
	t.Run("successful payment", func(t *testing.T) {
		svc := &MockTicketService{
			PayFunc: func(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error) {
				return &dto.TicketResponse{ID: ticketID, Status: "ACTIVE"}, nil
			},
		}
		router := setupTicketRouter(svc, "buyer-001")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/ticket-001/pay", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("hold already reclaimed", func(t *testing.T) {
		svc := &MockTicketService{
			PayFunc: func(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error) {
				return nil, domain.ErrTicketNotFound
			},
		}
		router := setupTicketRouter(svc, "buyer-001")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/ticket-001/pay", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		svc := &MockTicketService{
			PayFunc: func(ctx context.Context, ticketID, buyerID, buyerEmail string) (*dto.TicketResponse, error) {
				return nil, domain.ErrUnauthorized
			},
		}
		router := setupTicketRouter(svc, "buyer-002")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/ticket-001/pay", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}

func TestTicketHandler_Validate(t *testing.T) {
	t.Run("valid ticket", func(t *testing.T) {
		usedAt := time.Now()
		svc := &MockTicketService{
			UseFunc: func(ctx context.Context, code string) (*dto.TicketResponse, error) {
				return &dto.TicketResponse{Code: code, Status: "USED", UsedAt: &usedAt}, nil
			},
		}
		router := setupTicketRouter(svc, "")

		payload, _ := json.Marshal(dto.ValidateTicketRequest{Code: "TIX-ABCD1234"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/validate", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("already used", func(t *testing.T) {
		svc := &MockTicketService{
			UseFunc: func(ctx context.Context, code string) (*dto.TicketResponse, error) {
				return nil, domain.TransitionError(domain.TicketStatusUsed, domain.TicketStatusUsed)
			},
		}
		router := setupTicketRouter(svc, "")

		payload, _ := json.Marshal(dto.ValidateTicketRequest{Code: "TIX-ABCD1234"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/validate", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
		if code := decodeErrorCode(t, w.Body); code != "TICKET_FINALIZED" {
			t.Errorf("error code = %s, want TICKET_FINALIZED", code)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := &MockTicketService{
			UseFunc: func(ctx context.Context, code string) (*dto.TicketResponse, error) {
				return nil, domain.ErrTicketNotFound
			},
		}
		router := setupTicketRouter(svc, "")

		payload, _ := json.Marshal(dto.ValidateTicketRequest{Code: "TIX-NOPE"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/validate", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestTicketHandler_Availability(t *testing.T) {
	svc := &MockTicketService{
		GetAvailabilityFunc: func(ctx context.Context, ticketTypeID string) (*dto.AvailabilityResponse, error) {
			return &dto.AvailabilityResponse{TicketTypeID: ticketTypeID, QuantityAvailable: 12}, nil
		},
	}
	router := setupTicketRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ticket-types/"+testTicketTypeID+"/availability", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.AvailabilityResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.QuantityAvailable != 12 {
		t.Errorf("quantity_available = %d, want 12", resp.Data.QuantityAvailable)
	}
}
