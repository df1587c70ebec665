package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

// HealthHandler reports whether the primary database answers.
type HealthHandler struct {
	ping observability.Check
}

func NewHealthHandler(ping observability.Check) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		observability.GetLogger(ctx).Warn("health check failed", zap.Error(err))
		transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "error",
			"message":  err.Error(),
			"hint":     "Check DATABASE_URL and that Postgres is reachable",
			"database": "disconnected",
		})
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"message":  "Database connection healthy",
		"database": "postgres",
	})
}
