package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/database"
	redisclient "github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/redis"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redisclient.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, redis *redisclient.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Liveness handles GET /health/live
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /health/ready. The service is ready when storage is
// reachable; the cache is reported but does not gate readiness because reads
// fall back to storage.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["postgres"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = "degraded: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
