package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/service"
)

func (s *Server) registerStoreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listStores",
		Method:      http.MethodGet,
		Path:        "/store",
		Summary:     "List stores",
		Description: "Returns all stores with their items and tags",
		Tags:        []string{"Stores"},
	}, s.handleListStores)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createStore",
		Method:        http.MethodPost,
		Path:          "/store",
		Summary:       "Create store",
		Description:   "Creates a new store with a unique name",
		Tags:          []string{"Stores"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateStore)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStore",
		Method:      http.MethodGet,
		Path:        "/store/{id}",
		Summary:     "Get store",
		Description: "Returns a store with its items and tags",
		Tags:        []string{"Stores"},
	}, s.handleGetStore)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteStore",
		Method:      http.MethodDelete,
		Path:        "/store/{id}",
		Summary:     "Delete store",
		Description: "Deletes a store along with all of its items and tags",
		Tags:        []string{"Stores"},
	}, s.handleDeleteStore)
}

// === DTOs ===

// StoreResponse contains store data in API responses.
type StoreResponse struct {
	ID        string    `json:"id" doc:"Store ID"`
	Name      string    `json:"name" doc:"Store name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// StoreDetailResponse is a store with its items and tags.
type StoreDetailResponse struct {
	StoreResponse
	Items []ItemResponse `json:"items" doc:"Items in this store"`
	Tags  []TagResponse  `json:"tags" doc:"Tags in this store"`
}

// ListStoresResponse contains a list of stores with their contents.
type ListStoresResponse struct {
	Stores []StoreDetailResponse `json:"stores" doc:"List of stores with nested items and tags"`
}

// ListStoresOutput wraps the list stores response for Huma.
type ListStoresOutput struct {
	Body ListStoresResponse
}

// CreateStoreRequest is the request body for creating a store.
type CreateStoreRequest struct {
	Name string `json:"name" doc:"Store name, unique across all stores"`
}

// CreateStoreInput wraps the create store request for Huma.
type CreateStoreInput struct {
	Body CreateStoreRequest
}

// StoreOutput wraps a single store response for Huma.
type StoreOutput struct {
	Body StoreResponse
}

// GetStoreInput contains parameters for getting a store.
type GetStoreInput struct {
	ID string `path:"id" doc:"Store ID"`
}

// StoreDetailOutput wraps the store detail response for Huma.
type StoreDetailOutput struct {
	Body StoreDetailResponse
}

// DeleteStoreInput contains parameters for deleting a store.
type DeleteStoreInput struct {
	ID string `path:"id" doc:"Store ID"`
}

// === Handlers ===

func (s *Server) handleListStores(ctx context.Context, _ *struct{}) (*ListStoresOutput, error) {
	stores, err := s.services.Catalog.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListStoresResponse{Stores: make([]StoreDetailResponse, 0, len(stores))}
	for _, detail := range stores {
		resp.Stores = append(resp.Stores, mapStoreDetail(detail))
	}
	return &ListStoresOutput{Body: resp}, nil
}

func (s *Server) handleCreateStore(ctx context.Context, input *CreateStoreInput) (*StoreOutput, error) {
	st, err := s.services.Catalog.CreateStore(ctx, service.CreateStoreRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &StoreOutput{Body: mapStore(st)}, nil
}

func (s *Server) handleGetStore(ctx context.Context, input *GetStoreInput) (*StoreDetailOutput, error) {
	detail, err := s.services.Catalog.GetStore(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &StoreDetailOutput{Body: mapStoreDetail(detail)}, nil
}

func (s *Server) handleDeleteStore(ctx context.Context, input *DeleteStoreInput) (*MessageOutput, error) {
	if err := s.services.Catalog.DeleteStore(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Store deleted."}}, nil
}

// === Helpers ===

func mapStore(st *domain.Store) StoreResponse {
	return StoreResponse{
		ID:        st.ID,
		Name:      st.Name,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

func mapStoreDetail(detail *service.StoreDetail) StoreDetailResponse {
	resp := StoreDetailResponse{
		StoreResponse: mapStore(detail.Store),
		Items:         make([]ItemResponse, 0, len(detail.Items)),
		Tags:          make([]TagResponse, 0, len(detail.Tags)),
	}
	for _, item := range detail.Items {
		resp.Items = append(resp.Items, mapItem(item))
	}
	for _, tag := range detail.Tags {
		resp.Tags = append(resp.Tags, mapTag(tag))
	}
	return resp
}
