package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser_Success(t *testing.T) {
	ts := setupTestServer(t)
	userID := ts.registerUser(t, "alice")
	ts.loginUser(t, "alice")

	resp := ts.api.Get("/user/" + userID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "alice", envelope.Data.Username)
	assert.True(t, envelope.Data.IsRoot)
	assert.NotNil(t, envelope.Data.LastLoginAt)
}

func TestGetUser_NeverLoggedIn(t *testing.T) {
	ts := setupTestServer(t)
	userID := ts.registerUser(t, "alice")

	resp := ts.api.Get("/user/" + userID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Nil(t, envelope.Data.LastLoginAt)
}

func TestGetUser_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/user/user-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListUsers_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := ts.adminToken(t)

	ts.registerUser(t, "bob")
	bobToken := ts.loginUser(t, "bob").AccessToken

	resp := ts.api.Get("/user", "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/user", "Authorization: Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListUsersResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Len(t, envelope.Data.Users, 2)
}

func TestDeleteUser_RootProtected(t *testing.T) {
	ts := setupTestServer(t)
	rootID := ts.registerUser(t, "admin")

	resp := ts.api.Delete("/user/" + rootID)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestDeleteUser_Success(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "admin")
	bobID := ts.registerUser(t, "bob")

	resp := ts.api.Delete("/user/" + bobID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MessageResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "User deleted.", envelope.Data.Message)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/user/"+bobID).Code)
}

func TestDeleteUser_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Delete("/user/user-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
