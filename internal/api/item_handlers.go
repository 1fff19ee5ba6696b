package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listItems",
		Method:      http.MethodGet,
		Path:        "/item",
		Summary:     "List items",
		Description: "Returns all items across all stores. Requires a fresh access token.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createItem",
		Method:        http.MethodPost,
		Path:          "/item",
		Summary:       "Create item",
		Description:   "Creates a new item in a store",
		Tags:          []string{"Items"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/item/{id}",
		Summary:     "Get item",
		Description: "Returns an item with its tags",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "upsertItem",
		Method:      http.MethodPut,
		Path:        "/item/{id}",
		Summary:     "Update or create item",
		Description: "Updates an item in place. If the item does not exist it is created under the given ID, which requires store_id in the body.",
		Tags:        []string{"Items"},
	}, s.handleUpsertItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/item/{id}",
		Summary:     "Delete item",
		Description: "Deletes an item. Requires admin privileges.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItem)
}

// === DTOs ===

// ItemResponse contains item data in API responses.
type ItemResponse struct {
	ID          string    `json:"id" doc:"Item ID"`
	StoreID     string    `json:"store_id" doc:"Owning store ID"`
	Name        string    `json:"name" doc:"Item name, unique across all stores"`
	Description string    `json:"description,omitempty" doc:"Item description"`
	Price       float64   `json:"price" doc:"Item price, rounded to two decimals"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ItemDetailResponse is an item with its parent store and tags.
type ItemDetailResponse struct {
	ItemResponse
	Store StoreResponse `json:"store" doc:"Parent store"`
	Tags  []TagResponse `json:"tags" doc:"Tags attached to this item"`
}

// ListItemsInput contains parameters for listing items.
type ListItemsInput struct {
	Authorization string `header:"Authorization"`
}

// ListItemsResponse contains a list of items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"List of items"`
}

// ListItemsOutput wraps the list items response for Huma.
type ListItemsOutput struct {
	Body ListItemsResponse
}

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	StoreID     string  `json:"store_id" doc:"Owning store ID"`
	Name        string  `json:"name" doc:"Item name, unique across all stores"`
	Description string  `json:"description,omitempty" doc:"Optional item description"`
	Price       float64 `json:"price" doc:"Item price"`
}

// CreateItemInput wraps the create item request for Huma.
type CreateItemInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateItemRequest
}

// ItemOutput wraps a single item response for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// GetItemInput contains parameters for getting an item.
type GetItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// ItemDetailOutput wraps the item detail response for Huma.
type ItemDetailOutput struct {
	Body ItemDetailResponse
}

// UpsertItemRequest is the request body for updating or creating an
// item. StoreID is only needed when the item must be created.
type UpsertItemRequest struct {
	Name        string  `json:"name" doc:"Item name"`
	Description string  `json:"description,omitempty" doc:"Optional item description"`
	Price       float64 `json:"price" doc:"Item price"`
	StoreID     string  `json:"store_id,omitempty" doc:"Owning store ID, required only when creating"`
}

// UpsertItemInput wraps the upsert item request for Huma.
type UpsertItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body UpsertItemRequest
}

// DeleteItemInput contains parameters for deleting an item.
type DeleteItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// === Handlers ===

func (s *Server) handleListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	if _, err := s.authenticate(ctx, input.Authorization, true); err != nil {
		return nil, err
	}

	items, err := s.services.Catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListItemsResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, mapItem(item))
	}
	return &ListItemsOutput{Body: resp}, nil
}

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if _, err := s.authenticate(ctx, input.Authorization, false); err != nil {
		return nil, err
	}

	item, err := s.services.Catalog.CreateItem(ctx, service.CreateItemRequest{
		StoreID:     input.Body.StoreID,
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Price:       input.Body.Price,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *GetItemInput) (*ItemDetailOutput, error) {
	if _, err := s.authenticate(ctx, input.Authorization, false); err != nil {
		return nil, err
	}

	detail, err := s.services.Catalog.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemDetailOutput{Body: mapItemDetail(detail)}, nil
}

func (s *Server) handleUpsertItem(ctx context.Context, input *UpsertItemInput) (*ItemOutput, error) {
	item, _, err := s.services.Catalog.UpsertItem(ctx, input.ID, service.UpdateItemRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Price:       input.Body.Price,
		StoreID:     input.Body.StoreID,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*MessageOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteItem(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Item deleted."}}, nil
}

// === Helpers ===

func mapItem(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		StoreID:     item.StoreID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func mapItemDetail(detail *service.ItemDetail) ItemDetailResponse {
	resp := ItemDetailResponse{
		ItemResponse: mapItem(detail.Item),
		Store:        mapStore(detail.Store),
		Tags:         make([]TagResponse, 0, len(detail.Tags)),
	}
	for _, tag := range detail.Tags {
		resp.Tags = append(resp.Tags, mapTag(tag))
	}
	return resp
}
