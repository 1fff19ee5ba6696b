package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
)

func (e *testEnv) createStore(t *testing.T, name string) *domain.Store {
	t.Helper()
	st, err := e.catalog.CreateStore(context.Background(), CreateStoreRequest{Name: name})
	require.NoError(t, err)
	return st
}

func (e *testEnv) createItem(t *testing.T, storeID, name string, price float64) *domain.Item {
	t.Helper()
	item, err := e.catalog.CreateItem(context.Background(), CreateItemRequest{
		StoreID: storeID,
		Name:    name,
		Price:   price,
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) createTag(t *testing.T, storeID, name string) *domain.Tag {
	t.Helper()
	tag, err := e.catalog.CreateTag(context.Background(), storeID, CreateTagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func TestCreateStore_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	env.createStore(t, "Bookshop")

	_, err := env.catalog.CreateStore(context.Background(), CreateStoreRequest{Name: "Bookshop"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestGetStore_Detail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	env.createItem(t, st.ID, "Novel", 12.5)
	env.createTag(t, st.ID, "fiction")

	detail, err := env.catalog.GetStore(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bookshop", detail.Name)
	assert.Len(t, detail.Items, 1)
	assert.Len(t, detail.Tags, 1)
}

func TestDeleteStore_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.5)
	tag := env.createTag(t, st.ID, "fiction")

	require.NoError(t, env.catalog.DeleteStore(ctx, st.ID))

	_, err := env.catalog.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.catalog.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = env.catalog.DeleteStore(ctx, st.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreateItem_RoundsPrice(t *testing.T) {
	env := newTestEnv(t)

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.499)

	assert.Equal(t, 12.5, item.Price)
}

func TestCreateItem_MissingStore(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateItem(context.Background(), CreateItemRequest{
		StoreID: "store-missing",
		Name:    "Novel",
		Price:   1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUpsertItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.5)

	// Update path: store_id not required.
	updated, created, err := env.catalog.UpsertItem(ctx, item.ID, UpdateItemRequest{
		Name:        "Paperback",
		Description: "Second edition",
		Price:       9.99,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Paperback", updated.Name)
	assert.Equal(t, "Second edition", updated.Description)
	assert.Equal(t, 9.99, updated.Price)
	assert.Equal(t, st.ID, updated.StoreID)

	// Upsert is idempotent.
	again, created, err := env.catalog.UpsertItem(ctx, item.ID, UpdateItemRequest{
		Name:        "Paperback",
		Description: "Second edition",
		Price:       9.99,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, updated.Name, again.Name)
	assert.Equal(t, updated.Price, again.Price)
}

func TestUpsertItem_CreatesWhenAbsent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")

	// Creation without store_id is a validation error.
	_, _, err := env.catalog.UpsertItem(ctx, "item-new", UpdateItemRequest{
		Name:  "Novel",
		Price: 5,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	item, created, err := env.catalog.UpsertItem(ctx, "item-new", UpdateItemRequest{
		Name:    "Novel",
		Price:   5,
		StoreID: st.ID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "item-new", item.ID)
}

func TestCreateTag_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	other := env.createStore(t, "Hardware")

	env.createTag(t, st.ID, "sale")

	_, err := env.catalog.CreateTag(ctx, st.ID, CreateTagRequest{Name: "sale"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// Uniqueness spans stores.
	_, err = env.catalog.CreateTag(ctx, other.ID, CreateTagRequest{Name: "sale"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestCreateItem_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	other := env.createStore(t, "Hardware")

	env.createItem(t, st.ID, "Novel", 12.5)

	_, err := env.catalog.CreateItem(ctx, CreateItemRequest{
		StoreID: other.ID,
		Name:    "Novel",
		Price:   8,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestLinkTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.5)
	tag := env.createTag(t, st.ID, "fiction")

	detail, err := env.catalog.LinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, tag.ID, detail.Tags[0].ID)

	// Linking twice doesn't duplicate.
	detail, err = env.catalog.LinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Tags, 1)
}

func TestLinkTag_CrossStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	other := env.createStore(t, "Hardware")
	item := env.createItem(t, st.ID, "Novel", 12.5)
	tag := env.createTag(t, other.ID, "tools")

	_, err := env.catalog.LinkTag(ctx, item.ID, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUnlinkTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.5)
	tag := env.createTag(t, st.ID, "fiction")

	_, err := env.catalog.LinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)

	gotItem, gotTag, err := env.catalog.UnlinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, gotItem.ID)
	assert.Equal(t, tag.ID, gotTag.ID)

	_, _, err = env.catalog.UnlinkTag(ctx, item.ID, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteTag_InUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st := env.createStore(t, "Bookshop")
	item := env.createItem(t, st.ID, "Novel", 12.5)
	tag := env.createTag(t, st.ID, "fiction")

	_, err := env.catalog.LinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)

	// Linked tags cannot be deleted.
	err = env.catalog.DeleteTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// After unlinking, deletion succeeds.
	_, _, err = env.catalog.UnlinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)
	assert.NoError(t, env.catalog.DeleteTag(ctx, tag.ID))
}

func TestListStoreTags_MissingStore(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.ListStoreTags(context.Background(), "store-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
