package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService resolves and manages platform users
type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Resolve looks a user up by external auth identity first, then falls back
// to the internal user identifier. Returns ErrUserNotFound when neither
// matches.
func (s *UserService) Resolve(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByAuth0UserID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	user, err = s.userRepo.GetByUserIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

// GetByIdentifier returns the user with the given internal identifier
func (s *UserService) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.userRepo.GetByUserIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListByRole returns all users holding the given role
func (s *UserService) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}
	return s.userRepo.ListByRole(ctx, role)
}
