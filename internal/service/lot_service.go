package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LotService manages lots and their assigned-user sets
type LotService struct {
	lotRepo     *repository.LotRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	logger      *zap.Logger
}

// NewLotService creates a new LotService
func NewLotService(
	lotRepo *repository.LotRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *LotService {
	return &LotService{
		lotRepo:     lotRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create adds a lot to an existing project
func (s *LotService) Create(ctx context.Context, req *domain.CreateLotRequest) (*domain.LotDTO, error) {
	_, err := s.projectRepo.GetByIdentifier(ctx, req.ProjectIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, req.ProjectIdentifier)
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	lot := &domain.Lot{
		LotID:                  uuid.New(),
		ProjectIdentifier:      req.ProjectIdentifier,
		LotNumber:              req.LotNumber,
		CivicAddress:           req.CivicAddress,
		Price:                  req.Price,
		DimensionsSquareFeet:   req.DimensionsSquareFeet,
		DimensionsSquareMeters: req.DimensionsSquareMeters,
		Status:                 domain.LotStatusAvailable,
	}

	if err := s.lotRepo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}

	s.logger.Info("lot created",
		zap.String("lotId", lot.LotID.String()),
		zap.String("projectIdentifier", lot.ProjectIdentifier),
		zap.String("lotNumber", lot.LotNumber))

	dto := mapper.ToLotDTO(lot)
	return &dto, nil
}

// GetByID returns a lot with its assigned users
func (s *LotService) GetByID(ctx context.Context, lotID uuid.UUID) (*domain.LotDTO, error) {
	lot, err := s.getLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToLotDTO(lot)
	return &dto, nil
}

// ListByProject returns all lots in a project
func (s *LotService) ListByProject(ctx context.Context, projectIdentifier string) ([]domain.LotDTO, error) {
	_, err := s.projectRepo.GetByIdentifier(ctx, projectIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, projectIdentifier)
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	lots, err := s.lotRepo.ListByProject(ctx, projectIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	return mapper.ToLotDTOs(lots), nil
}

// AssignUser adds a user to the lot's assigned set. Assigning an already
// assigned user is a no-op.
func (s *LotService) AssignUser(ctx context.Context, lotID uuid.UUID, userIdentifier string) (*domain.LotDTO, error) {
	lot, err := s.getLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUserIdentifier(ctx, userIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userIdentifier)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := s.lotRepo.AddAssignedUser(ctx, lot, user); err != nil {
		return nil, fmt.Errorf("failed to assign user to lot: %w", err)
	}

	s.logger.Info("user assigned to lot",
		zap.String("lotId", lotID.String()),
		zap.String("userIdentifier", userIdentifier))

	return s.GetByID(ctx, lotID)
}

// UnassignUser removes a user from the lot's assigned set
func (s *LotService) UnassignUser(ctx context.Context, lotID uuid.UUID, userIdentifier string) (*domain.LotDTO, error) {
	lot, err := s.getLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUserIdentifier(ctx, userIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userIdentifier)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := s.lotRepo.RemoveAssignedUser(ctx, lot, user); err != nil {
		return nil, fmt.Errorf("failed to unassign user from lot: %w", err)
	}

	s.logger.Info("user unassigned from lot",
		zap.String("lotId", lotID.String()),
		zap.String("userIdentifier", userIdentifier))

	return s.GetByID(ctx, lotID)
}

func (s *LotService) getLot(ctx context.Context, lotID uuid.UUID) (*domain.Lot, error) {
	lot, err := s.lotRepo.GetByLotID(ctx, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrLotNotFound, lotID)
		}
		return nil, fmt.Errorf("failed to get lot: %w", err)
	}
	return lot, nil
}
