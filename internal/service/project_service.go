package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const projectIdentifierPrefix = "PRJ-"

// ProjectService implements project CRUD. Project identifiers follow the
// same max-plus-one numbering pattern as quote numbers, zero-padded to five
// digits (PRJ-00001).
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo *repository.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Create persists a new project with a generated identifier
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	identifier, err := s.nextProjectIdentifier(ctx)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ProjectIdentifier: identifier,
		ProjectName:       req.ProjectName,
		Description:       req.Description,
		Status:            domain.ProjectStatusPlanned,
		CustomerID:        req.CustomerID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: project identifier already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("projectIdentifier", project.ProjectIdentifier),
		zap.String("projectName", project.ProjectName))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// GetByIdentifier returns a single project
func (s *ProjectService) GetByIdentifier(ctx context.Context, identifier string) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// List returns a page of projects, optionally filtered by status
func (s *ProjectService) List(ctx context.Context, page, pageSize int, status *domain.ProjectStatus) ([]domain.ProjectDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if status != nil && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, *status)
	}

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return mapper.ToProjectDTOs(projects), total, nil
}

// Update changes a project's name, description, and status
func (s *ProjectService) Update(ctx context.Context, identifier string, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, req.Status)
	}

	project.ProjectName = req.ProjectName
	project.Description = req.Description
	project.Status = req.Status

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info("project updated", zap.String("projectIdentifier", identifier))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Delete removes a project and, through the store's cascade, its lots
func (s *ProjectService) Delete(ctx context.Context, identifier string) error {
	_, err := s.projectRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, identifier)
		}
		return fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("projectIdentifier", identifier))
	return nil
}

func (s *ProjectService) nextProjectIdentifier(ctx context.Context) (string, error) {
	max, found, err := s.projectRepo.FindMaxProjectSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate project identifier: %w", err)
	}
	nextSeq := 1
	if found {
		nextSeq = max + 1
	}
	return fmt.Sprintf("%s%05d", projectIdentifierPrefix, nextSeq), nil
}
