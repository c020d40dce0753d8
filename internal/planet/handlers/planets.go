package handlers

import (
	"log/slog"
	"net/http"

	"mission-control/internal/planet"
	"mission-control/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// GetAll handles GET /planets
func (h *PlanetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_all_planets")

	planets, err := h.service.GetAllPlanets(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, planets)
}
