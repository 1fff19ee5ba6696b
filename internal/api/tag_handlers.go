package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listStoreTags",
		Method:      http.MethodGet,
		Path:        "/store/{id}/tags",
		Summary:     "List store tags",
		Description: "Returns all tags belonging to a store",
		Tags:        []string{"Tags"},
	}, s.handleListStoreTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/store/{id}/tags",
		Summary:       "Create tag",
		Description:   "Creates a new tag in a store. Tag names are unique across all stores.",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/tag/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag with the items that carry it",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteTag",
		Method:        http.MethodDelete,
		Path:          "/tag/{id}",
		Summary:       "Delete tag",
		Description:   "Deletes a tag. A tag still linked to items cannot be deleted.",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusAccepted,
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "linkTag",
		Method:        http.MethodPost,
		Path:          "/item/{item_id}/tag/{tag_id}",
		Summary:       "Link tag to item",
		Description:   "Attaches a tag to an item. Both must belong to the same store.",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleLinkTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlinkTag",
		Method:      http.MethodDelete,
		Path:        "/item/{item_id}/tag/{tag_id}",
		Summary:     "Unlink tag from item",
		Description: "Detaches a tag from an item",
		Tags:        []string{"Tags"},
	}, s.handleUnlinkTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	StoreID   string    `json:"store_id" doc:"Owning store ID"`
	Name      string    `json:"name" doc:"Tag name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// TagDetailResponse is a tag with its parent store and the items
// that carry it.
type TagDetailResponse struct {
	TagResponse
	Store StoreResponse  `json:"store" doc:"Parent store"`
	Items []ItemResponse `json:"items" doc:"Items carrying this tag"`
}

// ListStoreTagsInput contains parameters for listing a store's tags.
type ListStoreTagsInput struct {
	ID string `path:"id" doc:"Store ID"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" doc:"Tag name, unique across all stores"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	ID   string `path:"id" doc:"Store ID"`
	Body CreateTagRequest
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// TagDetailOutput wraps the tag detail response for Huma.
type TagDetailOutput struct {
	Body TagDetailResponse
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// TagLinkInput identifies an item-tag pair.
type TagLinkInput struct {
	ItemID string `path:"item_id" doc:"Item ID"`
	TagID  string `path:"tag_id" doc:"Tag ID"`
}

// UnlinkTagResponse echoes the detached item and tag.
type UnlinkTagResponse struct {
	Message string       `json:"message" doc:"Confirmation message"`
	Item    ItemResponse `json:"item" doc:"The item the tag was removed from"`
	Tag     TagResponse  `json:"tag" doc:"The detached tag"`
}

// UnlinkTagOutput wraps the unlink response for Huma.
type UnlinkTagOutput struct {
	Body UnlinkTagResponse
}

// === Handlers ===

func (s *Server) handleListStoreTags(ctx context.Context, input *ListStoreTagsInput) (*ListTagsOutput, error) {
	tags, err := s.services.Catalog.ListStoreTags(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := ListTagsResponse{Tags: make([]TagResponse, 0, len(tags))}
	for _, tag := range tags {
		resp.Tags = append(resp.Tags, mapTag(tag))
	}
	return &ListTagsOutput{Body: resp}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	tag, err := s.services.Catalog.CreateTag(ctx, input.ID, service.CreateTagRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: mapTag(tag)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagDetailOutput, error) {
	detail, err := s.services.Catalog.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := TagDetailResponse{
		TagResponse: mapTag(detail.Tag),
		Store:       mapStore(detail.Store),
		Items:       make([]ItemResponse, 0, len(detail.Items)),
	}
	for _, item := range detail.Items {
		resp.Items = append(resp.Items, mapItem(item))
	}
	return &TagDetailOutput{Body: resp}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	if err := s.services.Catalog.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted."}}, nil
}

func (s *Server) handleLinkTag(ctx context.Context, input *TagLinkInput) (*ItemDetailOutput, error) {
	detail, err := s.services.Catalog.LinkTag(ctx, input.ItemID, input.TagID)
	if err != nil {
		return nil, err
	}

	return &ItemDetailOutput{Body: mapItemDetail(detail)}, nil
}

func (s *Server) handleUnlinkTag(ctx context.Context, input *TagLinkInput) (*UnlinkTagOutput, error) {
	item, tag, err := s.services.Catalog.UnlinkTag(ctx, input.ItemID, input.TagID)
	if err != nil {
		return nil, err
	}

	return &UnlinkTagOutput{
		Body: UnlinkTagResponse{
			Message: "Item removed from tag.",
			Item:    mapItem(item),
			Tag:     mapTag(tag),
		},
	}, nil
}

// === Helpers ===

func mapTag(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		StoreID:   tag.StoreID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}
