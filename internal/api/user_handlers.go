package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/user",
		Summary:     "List users",
		Description: "Returns all registered accounts. Requires admin privileges.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/user/{id}",
		Summary:     "Get user",
		Description: "Returns a user account by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/user/{id}",
		Summary:     "Delete user",
		Description: "Deletes a user account. The root account cannot be deleted.",
		Tags:        []string{"Users"},
	}, s.handleDeleteUser)
}

// === DTOs ===

// UserResponse contains user data in API responses. The password hash
// never leaves the server.
type UserResponse struct {
	ID          string     `json:"id" doc:"User ID"`
	Username    string     `json:"username" doc:"Account username"`
	IsRoot      bool       `json:"is_root" doc:"Whether this is the root account"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" doc:"Time of last successful login"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update time"`
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
}

// ListUsersResponse contains a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"List of users"`
}

// ListUsersOutput wraps the list users response for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// DeleteUserInput contains parameters for deleting a user.
type DeleteUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.User.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, mapUser(user))
	}
	return &ListUsersOutput{Body: resp}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.User.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*MessageOutput, error) {
	if err := s.services.User.DeleteUser(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted."}}, nil
}

// === Helpers ===

func mapUser(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		IsRoot:    user.IsRoot,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if !user.LastLoginAt.IsZero() {
		t := user.LastLoginAt
		resp.LastLoginAt = &t
	}
	return resp
}
