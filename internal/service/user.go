package service

import (
	"context"
	"fmt"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
)

// UserService exposes account lookup and removal. These back the
// debugging endpoints; registration and login live in AuthService.
type UserService struct {
	store  store.Store
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, log *logger.Logger) *UserService {
	return &UserService{store: st, logger: log}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all registered accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user account. The root account cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("user %s not found", userID)
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.IsRoot {
		return domainerrors.Forbidden("the root account cannot be deleted")
	}

	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
