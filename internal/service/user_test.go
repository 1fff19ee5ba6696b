package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
)

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)

	userID := env.register(t, "alice")

	user, err := env.users.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = env.users.GetUser(context.Background(), "user-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rootID := env.register(t, "alice")
	bobID := env.register(t, "bob")

	// Root cannot be deleted.
	err := env.users.DeleteUser(ctx, rootID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.users.DeleteUser(ctx, bobID))

	_, err = env.users.GetUser(ctx, bobID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice")
	env.register(t, "bob")

	users, err := env.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
