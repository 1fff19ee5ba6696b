// Package service implements the application logic between the API layer and persistence.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storekeeperapp/storekeeper-server/internal/auth"
	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
	"github.com/storekeeperapp/storekeeper-server/internal/id"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
	"github.com/storekeeperapp/storekeeper-server/internal/validation"
)

// AuthService handles registration, login, token issuance, verification,
// and the revocation blocklist.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *logger.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st store.Store, tokens *auth.TokenService, v *validation.Validator, log *logger.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		validator: v,
		logger:    log,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// RegisterResponse contains the result of a registration request.
type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair issued on login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse contains the replacement access token from a refresh
// exchange. The access token it carries is not fresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates a new user account. The first account ever created
// becomes the root user and holds admin privileges.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		IsRoot:       count == 0,
	}
	user.ID = userID
	user.Touch(now)

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a user with that username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", userID,
		"is_root", user.IsRoot,
	)

	return &RegisterResponse{
		UserID:  userID,
		Message: "User created successfully.",
	}, nil
}

// Login authenticates a user and issues a fresh access token alongside
// a refresh token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Don't leak whether the username exists.
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	accessToken, _, err := s.tokens.IssueAccessToken(user, true)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, _, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.store.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Log but don't fail the login.
		s.logger.WithError(err).Warn("failed to update last login time", "user_id", user.ID)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the presented access token by blocklisting its jti.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.store.RevokeToken(ctx, claims.JTI(), time.Now()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID())
	return nil
}

// Refresh exchanges a verified refresh token for a new, non-fresh
// access token. The refresh token is single use: its jti is
// blocklisted as part of the exchange.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.Claims) (*RefreshResponse, error) {
	user, err := s.store.GetUser(ctx, claims.UserID())
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.TokenInvalid("token subject no longer exists")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	accessToken, _, err := s.tokens.IssueAccessToken(user, false)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	if err := s.store.RevokeToken(ctx, claims.JTI(), time.Now()); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return &RefreshResponse{AccessToken: accessToken}, nil
}

// VerifyAccess checks a presented access token. The outcome carries
// exactly one failure mode, or the claims on success. When
// requireFresh is set, tokens minted through a refresh exchange are
// rejected with StatusNotFresh.
func (s *AuthService) VerifyAccess(ctx context.Context, token string, requireFresh bool) auth.Outcome {
	return s.verify(ctx, token, auth.TokenTypeAccess, requireFresh)
}

// VerifyRefresh checks a presented refresh token.
func (s *AuthService) VerifyRefresh(ctx context.Context, token string) auth.Outcome {
	return s.verify(ctx, token, auth.TokenTypeRefresh, false)
}

func (s *AuthService) verify(ctx context.Context, token string, typ auth.TokenType, requireFresh bool) auth.Outcome {
	if token == "" {
		return auth.Outcome{Status: auth.StatusMissing}
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if domainerrors.Is(err, auth.ErrTokenExpired) {
			return auth.Outcome{Status: auth.StatusExpired}
		}
		return auth.Outcome{Status: auth.StatusInvalid}
	}

	if claims.TokenType != typ {
		return auth.Outcome{Status: auth.StatusInvalid}
	}

	revoked, err := s.store.IsTokenRevoked(ctx, claims.JTI())
	if err != nil {
		s.logger.WithError(err).Error("blocklist lookup failed", "jti", claims.JTI())
		// Fail closed.
		return auth.Outcome{Status: auth.StatusInvalid}
	}
	if revoked {
		return auth.Outcome{Status: auth.StatusRevoked}
	}

	if requireFresh && !claims.Fresh {
		return auth.Outcome{Status: auth.StatusNotFresh}
	}

	return auth.Outcome{Status: auth.StatusOk, Claims: claims}
}
