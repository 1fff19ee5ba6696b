package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storekeeperapp/storekeeper-server/internal/auth"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/store/sqlite"
	"github.com/storekeeperapp/storekeeper-server/internal/validation"
)

// testEnv bundles the services under test with their shared store.
type testEnv struct {
	auth    *AuthService
	catalog *CatalogService
	users   *UserService
	tokens  *auth.TokenService
	store   *sqlite.Store
}

// newTestEnv creates services backed by a temporary SQLite database.
func newTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		auth:    NewAuthService(st, tokens, v, log),
		catalog: NewCatalogService(st, v, log),
		users:   NewUserService(st, log),
		tokens:  tokens,
		store:   st,
	}
}

// register creates an account and returns its user ID.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Username: username,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	return resp.UserID
}

// login authenticates an account and returns the token pair.
func (e *testEnv) login(t *testing.T, username string) *LoginResponse {
	t.Helper()
	resp, err := e.auth.Login(context.Background(), LoginRequest{
		Username: username,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	return resp
}
