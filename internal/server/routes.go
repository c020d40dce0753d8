package server

import (
	"log/slog"
	"net/http"

	"mission-control/internal/launch"
	launchHandlers "mission-control/internal/launch/handlers"
	"mission-control/internal/middleware"
	"mission-control/internal/planet"
	planetHandlers "mission-control/internal/planet/handlers"
	serverHandlers "mission-control/internal/server/handlers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	apiPrefix     string
	publicDir     string
	storage       serverHandlers.Pinger
	storageDriver string
	planetService *planet.Service
	launchService *launch.Service
	operatorAuth  *middleware.OperatorAuth
}

type RoutesConfig struct {
	APIPrefix     string
	PublicDir     string
	Storage       serverHandlers.Pinger
	StorageDriver string
	PlanetService *planet.Service
	LaunchService *launch.Service
	OperatorAuth  *middleware.OperatorAuth
}

func NewRoutes(cfg RoutesConfig) *Routes {
	return &Routes{
		apiPrefix:     cfg.APIPrefix,
		publicDir:     cfg.PublicDir,
		storage:       cfg.Storage,
		storageDriver: cfg.StorageDriver,
		planetService: cfg.PlanetService,
		launchService: cfg.LaunchService,
		operatorAuth:  cfg.OperatorAuth,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.storage, r.storageDriver)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	launchHandler := launchHandlers.NewLaunchHandler(r.launchService)

	api := func(method, route string) string {
		return method + " " + r.apiPrefix + route
	}

	// Operational endpoints
	mux.Handle("GET /healthz", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Public endpoints
	mux.HandleFunc(api(http.MethodGet, "/planets"), planetHandler.GetAll)
	mux.HandleFunc(api(http.MethodGet, "/launches"), launchHandler.GetAll)

	// Operator endpoints (open when operator auth is disabled)
	mux.Handle(api(http.MethodPost, "/launches"), r.operatorAuth.RequireFunc(launchHandler.Create))
	mux.Handle(api(http.MethodDelete, "/launches/{id}"), r.operatorAuth.RequireFunc(launchHandler.Abort))
	mux.Handle(api(http.MethodPost, "/launches/{id}"), r.operatorAuth.RequireFunc(launchHandler.Abort))

	// Front-end
	if r.publicDir != "" {
		mux.Handle("GET /", serverHandlers.NewStaticHandler(r.publicDir))
	}

	logger.Info("Routes configured successfully",
		"api_prefix", r.apiPrefix,
		"public_endpoints", []string{api("GET", "/planets"), api("GET", "/launches")},
		"operator_endpoints", []string{api("POST", "/launches"), api("DELETE", "/launches/{id}"), api("POST", "/launches/{id}")},
		"operational_endpoints", []string{"/healthz", "/metrics"},
		"public_dir", r.publicDir,
	)

	return mux
}
