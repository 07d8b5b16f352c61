package api

import (
	"net/http"
	"time"

	"github.com/jungle/notifications-service/internal/api/shared"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "notifications-service"

// HealthHandler reports liveness.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
