package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekeeperapp/storekeeper-server/internal/auth"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/service"
	"github.com/storekeeperapp/storekeeper-server/internal/store/sqlite"
	"github.com/storekeeperapp/storekeeper-server/internal/validation"
)

// testEnvelope mirrors the response envelope for decoding in tests.
// Success responses fill Data; coded errors fill Code and Message.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

const testPassword = "hunter2hunter2"

// setupTestServer creates a test server backed by a temporary SQLite
// database. The rate limiter is generous so tests never trip it.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Format: "json", Level: slog.LevelError})

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.Open(dbPath, log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens, err := auth.NewTokenService(
		[]byte("0123456789abcdef0123456789abcdef"),
		15*time.Minute,
		720*time.Hour,
	)
	require.NoError(t, err)

	v := validation.New()
	services := &Services{
		Auth:    service.NewAuthService(st, tokens, v, log),
		Catalog: service.NewCatalogService(st, v, log),
		User:    service.NewUserService(st, log),
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Storekeeper Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          log,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerStoreRoutes()
	s.registerItemRoutes()
	s.registerTagRoutes()
	s.registerUserRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, api),
		tokens: tokens,
	}
}

// registerUser creates an account and returns its user ID. The first
// account registered against a server becomes root.
func (ts *testServer) registerUser(t *testing.T, username string) string {
	t.Helper()

	resp := ts.api.Post("/register", map[string]any{
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[RegisterResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.UserID
}

// loginUser authenticates an account and returns its token pair.
func (ts *testServer) loginUser(t *testing.T, username string) TokenPairResponse {
	t.Helper()

	resp := ts.api.Post("/login", map[string]any{
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var envelope testEnvelope[TokenPairResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data
}

// adminToken registers the first account and logs it in.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	ts.registerUser(t, "admin")
	return ts.loginUser(t, "admin").AccessToken
}

// createStore creates a store and returns its ID.
func (ts *testServer) createStore(t *testing.T, name string) string {
	t.Helper()

	resp := ts.api.Post("/store", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, "create store failed: %s", resp.Body.String())

	var envelope testEnvelope[StoreResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.ID
}

// createItem creates an item and returns its ID.
func (ts *testServer) createItem(t *testing.T, token, storeID, name string, price float64) string {
	t.Helper()

	resp := ts.api.Post("/item", "Authorization: Bearer "+token, map[string]any{
		"store_id": storeID,
		"name":     name,
		"price":    price,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "create item failed: %s", resp.Body.String())

	var envelope testEnvelope[ItemResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.ID
}

// createTag creates a tag in a store and returns its ID.
func (ts *testServer) createTag(t *testing.T, storeID, name string) string {
	t.Helper()

	resp := ts.api.Post("/store/"+storeID+"/tags", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, "create tag failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
