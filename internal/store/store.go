// Package store defines the persistence contract for the Storekeeper server.
package store

import (
	"context"
	"time"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/errors"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrAlreadyExists
)

// Store is the persistence interface implemented by the SQLite backend.
type Store interface {
	UserStore
	CatalogStore
	TokenStore

	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists if the
	// username is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByUsername retrieves a user by case-insensitive username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// UpdateUserLastLogin records a successful login.
	UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error
	// CountUsers returns the number of registered accounts.
	CountUsers(ctx context.Context) (int, error)
	// DeleteUser removes a user. Returns ErrNotFound if absent.
	DeleteUser(ctx context.Context, id string) error
}

// CatalogStore persists stores, items, tags, and their links.
type CatalogStore interface {
	// CreateStore inserts a new store. Returns ErrAlreadyExists if the
	// name is taken.
	CreateStore(ctx context.Context, s *domain.Store) error
	// GetStore retrieves a store by ID. Returns ErrNotFound if absent.
	GetStore(ctx context.Context, id string) (*domain.Store, error)
	// ListStores returns all stores ordered by creation time.
	ListStores(ctx context.Context) ([]*domain.Store, error)
	// DeleteStore removes a store and, via cascade, its items and tags.
	DeleteStore(ctx context.Context, id string) error

	// CreateItem inserts a new item. Returns ErrAlreadyExists if the
	// name is taken and ErrNotFound if the parent store is absent.
	CreateItem(ctx context.Context, item *domain.Item) error
	// GetItem retrieves an item by ID.
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	// ListItems returns all items across all stores.
	ListItems(ctx context.Context) ([]*domain.Item, error)
	// ListItemsByStore returns all items belonging to a store.
	ListItemsByStore(ctx context.Context, storeID string) ([]*domain.Item, error)
	// ListItemsByTag returns all items linked to a tag.
	ListItemsByTag(ctx context.Context, tagID string) ([]*domain.Item, error)
	// UpdateItem performs a full row update. Returns ErrNotFound if absent.
	UpdateItem(ctx context.Context, item *domain.Item) error
	// DeleteItem removes an item and its tag links.
	DeleteItem(ctx context.Context, id string) error

	// CreateTag inserts a new tag. Returns ErrAlreadyExists if the
	// name is taken and ErrNotFound if the parent store is absent.
	CreateTag(ctx context.Context, tag *domain.Tag) error
	// GetTag retrieves a tag by ID.
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	// ListTagsByStore returns all tags belonging to a store.
	ListTagsByStore(ctx context.Context, storeID string) ([]*domain.Tag, error)
	// ListTagsByItem returns all tags linked to an item.
	ListTagsByItem(ctx context.Context, itemID string) ([]*domain.Tag, error)
	// DeleteTag removes a tag. Callers must check CountItemsWithTag first.
	DeleteTag(ctx context.Context, id string) error
	// CountItemsWithTag returns how many items currently carry the tag.
	CountItemsWithTag(ctx context.Context, tagID string) (int, error)

	// LinkTag attaches a tag to an item. Linking an already-linked pair
	// is a no-op.
	LinkTag(ctx context.Context, itemID, tagID string) error
	// UnlinkTag detaches a tag from an item. Returns ErrNotFound if the
	// pair is not linked.
	UnlinkTag(ctx context.Context, itemID, tagID string) error
}

// TokenStore persists the jti revocation blocklist. Entries are
// insert-only; they become irrelevant once the token would have
// expired anyway.
type TokenStore interface {
	// RevokeToken adds a jti to the blocklist. Revoking an
	// already-revoked jti is a no-op.
	RevokeToken(ctx context.Context, jti string, at time.Time) error
	// IsTokenRevoked reports whether a jti is on the blocklist.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}
