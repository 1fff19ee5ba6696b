package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
	"github.com/storekeeperapp/storekeeper-server/internal/id"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
	"github.com/storekeeperapp/storekeeper-server/internal/validation"
)

// CatalogService manages stores, items, tags, and item-tag links.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Store, v *validation.Validator, log *logger.Logger) *CatalogService {
	return &CatalogService{
		store:     st,
		validator: v,
		logger:    log,
	}
}

// CreateStoreRequest contains store creation data.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// CreateItemRequest contains item creation data.
type CreateItemRequest struct {
	StoreID     string  `json:"store_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=80"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// UpdateItemRequest contains item upsert data. StoreID is only needed
// when the item does not exist yet and must be created.
type UpdateItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=80"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	StoreID     string  `json:"store_id,omitempty"`
}

// CreateTagRequest contains tag creation data.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// StoreDetail is a store together with its items and tags.
type StoreDetail struct {
	*domain.Store
	Items []*domain.Item `json:"items"`
	Tags  []*domain.Tag  `json:"tags"`
}

// ItemDetail is an item together with its parent store and tags.
type ItemDetail struct {
	*domain.Item
	Store *domain.Store `json:"store"`
	Tags  []*domain.Tag `json:"tags"`
}

// TagDetail is a tag together with its parent store and the items
// that carry it.
type TagDetail struct {
	*domain.Tag
	Store *domain.Store  `json:"store"`
	Items []*domain.Item `json:"items"`
}

// roundPrice normalizes prices to two decimal places.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// CreateStore creates a new store with a unique name.
func (s *CatalogService) CreateStore(ctx context.Context, req CreateStoreRequest) (*domain.Store, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	storeID, err := id.Generate("store")
	if err != nil {
		return nil, fmt.Errorf("generate store ID: %w", err)
	}

	st := &domain.Store{Name: req.Name}
	st.ID = storeID
	st.Touch(time.Now())

	if err := s.store.CreateStore(ctx, st); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a store with that name already exists")
		}
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.logger.Info("store created", "store_id", storeID, "name", st.Name)
	return st, nil
}

// GetStore returns a store with its items and tags.
func (s *CatalogService) GetStore(ctx context.Context, storeID string) (*StoreDetail, error) {
	st, err := s.store.GetStore(ctx, storeID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("store %s not found", storeID)
		}
		return nil, fmt.Errorf("get store: %w", err)
	}

	items, err := s.store.ListItemsByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	tags, err := s.store.ListTagsByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return &StoreDetail{Store: st, Items: items, Tags: tags}, nil
}

// ListStores returns all stores, each with its items and tags.
func (s *CatalogService) ListStores(ctx context.Context) ([]*StoreDetail, error) {
	stores, err := s.store.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	details := make([]*StoreDetail, 0, len(stores))
	for _, st := range stores {
		items, err := s.store.ListItemsByStore(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		tags, err := s.store.ListTagsByStore(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		details = append(details, &StoreDetail{Store: st, Items: items, Tags: tags})
	}
	return details, nil
}

// DeleteStore removes a store along with all of its items and tags.
func (s *CatalogService) DeleteStore(ctx context.Context, storeID string) error {
	if err := s.store.DeleteStore(ctx, storeID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("store %s not found", storeID)
		}
		return fmt.Errorf("delete store: %w", err)
	}

	s.logger.Info("store deleted", "store_id", storeID)
	return nil
}

// CreateItem creates a new item in a store.
func (s *CatalogService) CreateItem(ctx context.Context, req CreateItemRequest) (*domain.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, fmt.Errorf("generate item ID: %w", err)
	}

	item := &domain.Item{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Description: req.Description,
		Price:       roundPrice(req.Price),
	}
	item.ID = itemID
	item.Touch(time.Now())

	if err := s.store.CreateItem(ctx, item); err != nil {
		switch {
		case domainerrors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.AlreadyExists("an item with that name already exists")
		case domainerrors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFoundf("store %s not found", req.StoreID)
		default:
			return nil, fmt.Errorf("create item: %w", err)
		}
	}

	s.logger.Info("item created", "item_id", itemID, "store_id", req.StoreID)
	return item, nil
}

// GetItem returns an item with its parent store and tags.
func (s *CatalogService) GetItem(ctx context.Context, itemID string) (*ItemDetail, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("item %s not found", itemID)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	st, err := s.store.GetStore(ctx, item.StoreID)
	if err != nil {
		return nil, fmt.Errorf("get item store: %w", err)
	}
	tags, err := s.store.ListTagsByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item tags: %w", err)
	}

	return &ItemDetail{Item: item, Store: st, Tags: tags}, nil
}

// ListItems returns all items across all stores.
func (s *CatalogService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// UpsertItem updates an item's mutable fields, creating the item under
// the given ID if it does not exist. Creation requires store_id in the
// request. The returned bool reports whether the item was created.
func (s *CatalogService) UpsertItem(ctx context.Context, itemID string, req UpdateItemRequest) (*domain.Item, bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	item, err := s.store.GetItem(ctx, itemID)
	switch {
	case err == nil:
		item.Name = req.Name
		item.Description = req.Description
		item.Price = roundPrice(req.Price)
		item.Touch(time.Now())
		if err := s.store.UpdateItem(ctx, item); err != nil {
			if domainerrors.Is(err, store.ErrAlreadyExists) {
				return nil, false, domainerrors.AlreadyExists("an item with that name already exists")
			}
			return nil, false, fmt.Errorf("update item: %w", err)
		}
		return item, false, nil

	case domainerrors.Is(err, store.ErrNotFound):
		if req.StoreID == "" {
			return nil, false, domainerrors.Validation("store_id is required when creating an item")
		}
		item = &domain.Item{
			StoreID:     req.StoreID,
			Name:        req.Name,
			Description: req.Description,
			Price:       roundPrice(req.Price),
		}
		item.ID = itemID
		item.Touch(time.Now())
		if err := s.store.CreateItem(ctx, item); err != nil {
			switch {
			case domainerrors.Is(err, store.ErrAlreadyExists):
				return nil, false, domainerrors.AlreadyExists("an item with that name already exists")
			case domainerrors.Is(err, store.ErrNotFound):
				return nil, false, domainerrors.NotFoundf("store %s not found", req.StoreID)
			default:
				return nil, false, fmt.Errorf("create item: %w", err)
			}
		}
		s.logger.Info("item created via upsert", "item_id", itemID, "store_id", req.StoreID)
		return item, true, nil

	default:
		return nil, false, fmt.Errorf("get item: %w", err)
	}
}

// DeleteItem removes an item and its tag links.
func (s *CatalogService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("item %s not found", itemID)
		}
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info("item deleted", "item_id", itemID)
	return nil
}

// CreateTag creates a new tag in a store. Tag names are unique across
// all stores.
func (s *CatalogService) CreateTag(ctx context.Context, storeID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{StoreID: storeID, Name: req.Name}
	tag.ID = tagID
	tag.Touch(time.Now())

	if err := s.store.CreateTag(ctx, tag); err != nil {
		switch {
		case domainerrors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.AlreadyExists("a tag with that name already exists")
		case domainerrors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFoundf("store %s not found", storeID)
		default:
			return nil, fmt.Errorf("create tag: %w", err)
		}
	}

	s.logger.Info("tag created", "tag_id", tagID, "store_id", storeID)
	return tag, nil
}

// GetTag returns a tag with its parent store and the items that
// carry it.
func (s *CatalogService) GetTag(ctx context.Context, tagID string) (*TagDetail, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("tag %s not found", tagID)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	st, err := s.store.GetStore(ctx, tag.StoreID)
	if err != nil {
		return nil, fmt.Errorf("get tag store: %w", err)
	}
	items, err := s.store.ListItemsByTag(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("list tag items: %w", err)
	}

	return &TagDetail{Tag: tag, Store: st, Items: items}, nil
}

// ListStoreTags returns all tags belonging to a store.
// Returns a not found error if the store does not exist.
func (s *CatalogService) ListStoreTags(ctx context.Context, storeID string) ([]*domain.Tag, error) {
	if _, err := s.store.GetStore(ctx, storeID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("store %s not found", storeID)
		}
		return nil, fmt.Errorf("get store: %w", err)
	}

	tags, err := s.store.ListTagsByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag. A tag still linked to items cannot be
// deleted; unlink it from every item first.
func (s *CatalogService) DeleteTag(ctx context.Context, tagID string) error {
	count, err := s.store.CountItemsWithTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("count tag links: %w", err)
	}
	if count > 0 {
		return domainerrors.Conflict("tag is still linked to items; unlink it from all items first")
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("tag %s not found", tagID)
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}

// LinkTag attaches a tag to an item. The item and tag must belong to
// the same store. Linking an already-linked pair is a no-op.
func (s *CatalogService) LinkTag(ctx context.Context, itemID, tagID string) (*ItemDetail, error) {
	item, tag, err := s.getItemAndTag(ctx, itemID, tagID)
	if err != nil {
		return nil, err
	}

	if item.StoreID != tag.StoreID {
		return nil, domainerrors.Validation("item and tag must belong to the same store")
	}

	if err := s.store.LinkTag(ctx, itemID, tagID); err != nil {
		return nil, fmt.Errorf("link tag: %w", err)
	}

	s.logger.Info("tag linked", "item_id", itemID, "tag_id", tagID)
	return s.GetItem(ctx, itemID)
}

// UnlinkTag detaches a tag from an item and returns both so the caller
// can echo them back.
func (s *CatalogService) UnlinkTag(ctx context.Context, itemID, tagID string) (*domain.Item, *domain.Tag, error) {
	item, tag, err := s.getItemAndTag(ctx, itemID, tagID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.UnlinkTag(ctx, itemID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("item does not carry this tag")
		}
		return nil, nil, fmt.Errorf("unlink tag: %w", err)
	}

	s.logger.Info("tag unlinked", "item_id", itemID, "tag_id", tagID)
	return item, tag, nil
}

func (s *CatalogService) getItemAndTag(ctx context.Context, itemID, tagID string) (*domain.Item, *domain.Tag, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFoundf("item %s not found", itemID)
		}
		return nil, nil, fmt.Errorf("get item: %w", err)
	}

	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFoundf("tag %s not found", tagID)
		}
		return nil, nil, fmt.Errorf("get tag: %w", err)
	}

	return item, tag, nil
}
