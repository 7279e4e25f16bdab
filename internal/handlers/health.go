package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/railsahayak/complaint-server/internal/models"
	"github.com/railsahayak/complaint-server/internal/services"
	"go.uber.org/zap"
)

const version = "1.0.0"

var startTime = time.Now()

// Pinger is satisfied by the Redis rate limiter
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints
type HealthHandler struct {
	redis    Pinger
	sessions *services.SessionStore
	logger   *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler; redis may be nil
func NewHealthHandler(redis Pinger, sessions *services.SessionStore, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{redis: redis, sessions: sessions, logger: logger}
}

// Check handles GET /api/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:   "ok",
		Version:  version,
		Uptime:   time.Since(startTime).String(),
		Sessions: h.sessions.Len(),
	})
}

// Ready handles GET /api/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:   "ready",
		Version:  version,
		Uptime:   time.Since(startTime).String(),
		Sessions: h.sessions.Len(),
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			h.logger.Warnw("Redis ping failed", "error", err)
			status.Status = "not ready"
			status.Redis = "disconnected"
			respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status.Redis = "connected"
	}

	respondJSON(w, http.StatusOK, status)
}
