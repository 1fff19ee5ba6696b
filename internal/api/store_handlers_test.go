package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStore_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/store", map[string]any{
		"name": "Corner Shop",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var envelope testEnvelope[StoreResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Corner Shop", envelope.Data.Name)
	assert.False(t, envelope.Data.CreatedAt.IsZero())
}

func TestCreateStore_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)

	ts.createStore(t, "Corner Shop")

	resp := ts.api.Post("/store", map[string]any{
		"name": "Corner Shop",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestCreateStore_EmptyName(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/store", map[string]any{
		"name": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListStores(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.adminToken(t)

	firstID := ts.createStore(t, "First")
	ts.createStore(t, "Second")
	ts.createItem(t, token, firstID, "Milk", 2.49)
	ts.createTag(t, firstID, "dairy")

	resp := ts.api.Get("/store")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListStoresResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Stores, 2)
	assert.Equal(t, "First", envelope.Data.Stores[0].Name)
	assert.Equal(t, "Second", envelope.Data.Stores[1].Name)

	// Stores are listed with their contents nested.
	assert.Len(t, envelope.Data.Stores[0].Items, 1)
	assert.Len(t, envelope.Data.Stores[0].Tags, 1)
	assert.Empty(t, envelope.Data.Stores[1].Items)
}

func TestGetStore_WithItemsAndTags(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.adminToken(t)

	storeID := ts.createStore(t, "Corner Shop")
	itemID := ts.createItem(t, token, storeID, "Milk", 2.49)
	tagID := ts.createTag(t, storeID, "dairy")

	resp := ts.api.Get("/store/" + storeID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[StoreDetailResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, storeID, envelope.Data.ID)
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, itemID, envelope.Data.Items[0].ID)
	assert.InDelta(t, 2.49, envelope.Data.Items[0].Price, 0.001)
	require.Len(t, envelope.Data.Tags, 1)
	assert.Equal(t, tagID, envelope.Data.Tags[0].ID)
}

func TestGetStore_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/store/store-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestDeleteStore_CascadesItemsAndTags(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.adminToken(t)

	storeID := ts.createStore(t, "Corner Shop")
	itemID := ts.createItem(t, token, storeID, "Milk", 2.49)
	tagID := ts.createTag(t, storeID, "dairy")

	resp := ts.api.Delete("/store/" + storeID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MessageResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "Store deleted.", envelope.Data.Message)

	// Store, item, and tag are all gone.
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/store/"+storeID).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/item/"+itemID, "Authorization: Bearer "+token).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/tag/"+tagID).Code)
}

func TestDeleteStore_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Delete("/store/store-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
