package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"mission-control/internal/launch"
	"mission-control/internal/shared/errors"
	"mission-control/internal/shared/pagination"
	"mission-control/internal/shared/response"
)

type LaunchHandler struct {
	service *launch.Service
}

func NewLaunchHandler(service *launch.Service) *LaunchHandler {
	return &LaunchHandler{service: service}
}

type abortResponse struct {
	OK bool `json:"ok"`
}

// GetAll handles GET /launches?page=&limit=
func (h *LaunchHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_all_launches")

	page := pagination.FromQuery(r.URL.Query())

	launches, err := h.service.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, launches)
}

// Create handles POST /launches
func (h *LaunchHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_launch")

	var req launch.ScheduleRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	// An empty body decodes as {} so Schedule reports the missing property.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	scheduled, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, scheduled)
}

// Abort handles DELETE /launches/{id} and POST /launches/{id}
func (h *LaunchHandler) Abort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "abort_launch")

	// A non-numeric id can never match a flight number.
	flightNumber, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.NotFound(launch.MsgNotFound))
		return
	}

	exists, err := h.service.Exists(ctx, flightNumber)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !exists {
		response.Error(w, r, logger, errors.NotFound(launch.MsgNotFound))
		return
	}

	aborted, err := h.service.Abort(ctx, flightNumber)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !aborted {
		response.Error(w, r, logger, errors.Validation(launch.MsgNotAborted))
		return
	}

	response.Success(w, http.StatusOK, abortResponse{OK: true})
}
