package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/config"
	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	assetshandlers "github.com/codingisforpros/wealthtrack/internal/modules/assets/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
	authhandlers "github.com/codingisforpros/wealthtrack/internal/modules/auth/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	dashboardhandlers "github.com/codingisforpros/wealthtrack/internal/modules/dashboard/handlers"
	wttest "github.com/codingisforpros/wealthtrack/internal/testing"
)

// newTestServer wires a minimal server over an in-memory wealth database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, cleanup := wttest.NewMemoryDB(t, "wealth")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	bus := events.NewBus(log)
	mgr := events.NewManager(bus, log)

	userRepo := auth.NewRepository(db, log)
	authService := auth.NewService(userRepo, "test-secret", 30*time.Minute, log)

	assetRepo := assets.NewRepository(db, log)
	assetService := assets.NewService(assetRepo, nil, mgr, log)
	dashboardService := dashboard.NewService(assetService, nil, log)

	cfg := &config.Config{
		Host:        "127.0.0.1",
		Port:        0,
		DataDir:     t.TempDir(),
		DevMode:     true,
		CORSOrigins: []string{"*"},
	}

	return New(Config{
		Cfg:         cfg,
		Log:         log,
		EventBus:    bus,
		AuthService: authService,
		AuthHandler: authhandlers.NewHandler(authService, log),
		Modules: []RouteRegistrar{
			assetshandlers.NewHandler(assetService, log),
			dashboardhandlers.NewHandler(dashboardService, log),
		},
		Users:  userRepo,
		Assets: assetRepo,
	})
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/assets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "detail")
}

func TestRegisterLoginAndCreateAsset(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "ira@example.com",
		"password":  "long-enough-password",
		"full_name": "Ira",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ira@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.AccessToken)

	rec = doJSON(t, srv, http.MethodPost, "/api/assets", tokenResp.AccessToken, map[string]interface{}{
		"asset_type":     "stocks",
		"name":           "Index fund",
		"purchase_value": 100000,
		"current_value":  120000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard", tokenResp.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary dashboard.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.InDelta(t, 120000, summary.TotalNetWorth, 1e-9)
	assert.InDelta(t, 100000, summary.TotalInvestment, 1e-9)
}

func TestEventsStreamRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/events/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "detail")

	rec = doJSON(t, srv, http.MethodGet, "/api/events/stream?token=not-a-jwt", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/events/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "stream@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))

	// The stream blocks until the client disconnects; cancel after the
	// initial connected event has been written.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events/stream?token="+tokenResp.AccessToken, nil)
	req = req.WithContext(ctx)

	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"connected"`)
}

func TestTriggerUnknownJobWithoutScheduler(t *testing.T) {
	srv := newTestServer(t)

	// Authenticate first; system routes sit inside the auth group.
	rec := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ops@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))

	rec = doJSON(t, srv, http.MethodPost, "/api/jobs/nope", tokenResp.AccessToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
