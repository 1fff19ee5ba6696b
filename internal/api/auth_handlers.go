package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register user",
		Description:   "Creates a new user account. The first account becomes the admin.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Log in",
		Description: "Exchanges credentials for a fresh access token and a refresh token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/logout",
		Summary:     "Log out",
		Description: "Revokes the presented access token",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/refresh",
		Summary:     "Refresh access token",
		Description: "Exchanges a refresh token for a new, non-fresh access token. Refresh tokens are single use.",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRefresh)
}

// === DTOs ===

// CredentialsRequest is the request body for register and login.
type CredentialsRequest struct {
	Username string `json:"username" doc:"Account username"`
	Password string `json:"password" doc:"Account password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body CredentialsRequest
}

// RegisterResponse contains the result of a registration.
type RegisterResponse struct {
	UserID  string `json:"user_id" doc:"New user ID"`
	Message string `json:"message" doc:"Confirmation message"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body CredentialsRequest
}

// TokenPairResponse contains the tokens issued on login.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token" doc:"Fresh access token"`
	RefreshToken string `json:"refresh_token" doc:"Refresh token"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body TokenPairResponse
}

// LogoutInput carries the access token to revoke.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
}

// MessageResponse contains a confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// RefreshInput carries the refresh token.
type RefreshInput struct {
	Authorization string `header:"Authorization"`
}

// RefreshResponse contains the replacement access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token" doc:"Non-fresh access token"`
}

// RefreshOutput wraps the refresh response for Huma.
type RefreshOutput struct {
	Body RefreshResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			UserID:  resp.UserID,
			Message: resp.Message,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Body: TokenPairResponse{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	claims, err := s.authenticate(ctx, input.Authorization, false)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, claims); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Successfully logged out."}}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
	claims, err := s.authenticateRefresh(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.Refresh(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &RefreshOutput{Body: RefreshResponse{AccessToken: resp.AccessToken}}, nil
}
