package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mission-control/internal/auth"
	"mission-control/internal/launch"
	"mission-control/internal/middleware"
	"mission-control/internal/planet"
	"mission-control/internal/shared/config"
	"mission-control/internal/storage"
)

var testSecret = strings.Repeat("m", auth.MinSecretLength)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	*httptest.Server
	store *storage.Store
}

func newTestServer(t *testing.T, authCfg config.AuthConfig) *testServer {
	t.Helper()

	logger := testLogger()
	store := storage.NewMemory()
	_, err := store.Planets.UpsertPlanet(context.Background(), planet.Planet{KeplerName: "Kepler-186 f"})
	require.NoError(t, err)

	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<h1>Mission Control</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "app.js"), []byte("console.log('nasa')"), 0o600))

	planetService := planet.NewService(store.Planets, logger)
	routes := NewRoutes(RoutesConfig{
		APIPrefix:     "/v1",
		PublicDir:     publicDir,
		Storage:       store,
		StorageDriver: store.Driver,
		PlanetService: planetService,
		LaunchService: launch.NewService(store.Launches, planetService, logger),
		OperatorAuth:  middleware.NewOperatorAuth(authCfg),
	})

	srv := httptest.NewServer(middleware.Metrics(routes.Setup()))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

const newLaunch = `{"mission":"USS Enterprise","rocket":"NCC 1701-D","target":"Kepler-186 f","launchDate":"January 4, 2028"}`

func TestLaunchLifecycle(t *testing.T) {
	s := newTestServer(t, config.AuthConfig{})

	status, body := s.do(t, http.MethodGet, "/v1/planets", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"keplerName":"Kepler-186 f"}]`, body)

	status, body = s.do(t, http.MethodPost, "/v1/launches", newLaunch, "")
	require.Equal(t, http.StatusCreated, status)

	var created launch.Launch
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, 101, created.FlightNumber)
	assert.Equal(t, time.Date(2028, time.January, 4, 0, 0, 0, 0, time.UTC), created.LaunchDate)

	status, body = s.do(t, http.MethodGet, "/v1/launches", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"flightNumber":101`)

	status, body = s.do(t, http.MethodDelete, "/v1/launches/101", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, body)

	status, body = s.do(t, http.MethodPost, "/v1/launches/101", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Launch not aborted"}`, body)

	status, body = s.do(t, http.MethodDelete, "/v1/launches/555", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Launch not found"}`, body)
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, config.AuthConfig{Enabled: true, JWTSecret: testSecret})

	status, _ := s.do(t, http.MethodPost, "/v1/launches", newLaunch, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/v1/launches", "", "")
	assert.Equal(t, http.StatusOK, status, "reads stay public")

	token, err := auth.GenerateToken(testSecret, "flight-director", auth.RoleOperator, time.Hour)
	require.NoError(t, err)

	status, _ = s.do(t, http.MethodPost, "/v1/launches", newLaunch, token)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodDelete, "/v1/launches/101", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodDelete, "/v1/launches/101", "", token)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, config.AuthConfig{})

	status, body := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"storage":"connected"`)
	assert.Contains(t, body, `"driver":"memory"`)

	s.do(t, http.MethodGet, "/v1/planets", "", "")
	status, body = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "mission_http_requests_total")
}

func TestHealthReportsStorageFailure(t *testing.T) {
	routes := NewRoutes(RoutesConfig{
		APIPrefix:     "/v1",
		Storage:       failingPinger{},
		StorageDriver: config.StorageDriverPostgres,
		PlanetService: planet.NewService(planet.NewMemoryRepository(), testLogger()),
		LaunchService: launch.NewService(launch.NewMemoryRepository(), nil, testLogger()),
		OperatorAuth:  middleware.NewOperatorAuth(config.AuthConfig{}),
	})

	rec := httptest.NewRecorder()
	routes.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"disconnected"`)
}

func TestStaticFallback(t *testing.T) {
	s := newTestServer(t, config.AuthConfig{})

	status, body := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Mission Control")

	status, body = s.do(t, http.MethodGet, "/history", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Mission Control")

	status, body = s.do(t, http.MethodGet, "/app.js", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "nasa")
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(config.ServerConfig{Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second}, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second, testLogger()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
