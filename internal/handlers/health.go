package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/middleware"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	db    *database.DB
	redis *middleware.RedisRateLimiter
}

// NewHealthChecker creates a new health checker. redis may be nil when rate
// limiting is disabled.
func NewHealthChecker(db *database.DB, redis *middleware.RedisRateLimiter) *HealthChecker {
	return &HealthChecker{db: db, redis: redis}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. mode=extended pings the
// database and Redis.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") != "extended" {
		respondJSON(w, http.StatusOK, response)
		return
	}

	checks := make(map[string]string)

	if err := h.checkDatabase(r.Context()); err != nil {
		response.Status = "unhealthy"
		checks["database"] = "unhealthy: " + err.Error()
	} else {
		checks["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "healthy"
		}
	}

	response.Checks = checks

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, response)
}

func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}
