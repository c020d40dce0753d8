package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mission-control/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
	Driver    string `json:"driver"`
}

// Pinger is the storage connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
	driver  string
}

func NewHealthHandler(storage Pinger, driver string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Storage:   "connected",
		Driver:    h.driver,
	}
	status := http.StatusOK

	if err := h.storage.Ping(ctx); err != nil {
		logger.Warn("Storage ping failed", "driver", h.driver, "error", err)
		resp.Status = "unhealthy"
		resp.Storage = "disconnected"
		status = http.StatusServiceUnavailable
	}

	response.Success(w, status, resp)
}
