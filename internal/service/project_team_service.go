package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectTeamService assigns and removes the single contractor and
// salesperson roles on a project, recording every accepted change in the
// project activity log. Assigning over an existing assignee replaces it
// silently; removing when nothing is assigned is a silent no-op.
type ProjectTeamService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	logRepo     *repository.ActivityLogRepository
	logger      *zap.Logger
}

// NewProjectTeamService creates a new ProjectTeamService
func NewProjectTeamService(
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	logRepo *repository.ActivityLogRepository,
	logger *zap.Logger,
) *ProjectTeamService {
	return &ProjectTeamService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logRepo:     logRepo,
		logger:      logger,
	}
}

// AssignContractor sets the project's contractor, replacing any previous
// value. The replaced contractor is not separately logged as removed.
func (s *ProjectTeamService) AssignContractor(ctx context.Context, projectIdentifier, contractorID, actorAuth0ID string) (*domain.ProjectDTO, error) {
	return s.assignRole(ctx, projectIdentifier, contractorID, actorAuth0ID,
		domain.ActivityContractorAssigned, "contractor",
		func(p *domain.Project, id *string) { p.ContractorID = id })
}

// RemoveContractor clears the project's contractor. When no contractor is
// assigned the project is persisted unchanged and no log entry is written.
func (s *ProjectTeamService) RemoveContractor(ctx context.Context, projectIdentifier, actorAuth0ID string) (*domain.ProjectDTO, error) {
	return s.removeRole(ctx, projectIdentifier, actorAuth0ID,
		domain.ActivityContractorRemoved, "contractor",
		func(p *domain.Project) *string { return p.ContractorID },
		func(p *domain.Project, id *string) { p.ContractorID = id })
}

// AssignSalesperson sets the project's salesperson, replacing any previous
// value. The replaced salesperson is not separately logged as removed.
func (s *ProjectTeamService) AssignSalesperson(ctx context.Context, projectIdentifier, salespersonID, actorAuth0ID string) (*domain.ProjectDTO, error) {
	return s.assignRole(ctx, projectIdentifier, salespersonID, actorAuth0ID,
		domain.ActivitySalespersonAssigned, "salesperson",
		func(p *domain.Project, id *string) { p.SalespersonID = id })
}

// RemoveSalesperson clears the project's salesperson. When no salesperson
// is assigned the project is persisted unchanged and no log entry is
// written.
func (s *ProjectTeamService) RemoveSalesperson(ctx context.Context, projectIdentifier, actorAuth0ID string) (*domain.ProjectDTO, error) {
	return s.removeRole(ctx, projectIdentifier, actorAuth0ID,
		domain.ActivitySalespersonRemoved, "salesperson",
		func(p *domain.Project) *string { return p.SalespersonID },
		func(p *domain.Project, id *string) { p.SalespersonID = id })
}

// GetProjectActivityLog returns the project's team-change history, newest
// first. Existence of the project is not re-validated here: an unknown
// project yields an empty list, the same as a project with no history.
func (s *ProjectTeamService) GetProjectActivityLog(ctx context.Context, projectIdentifier string) ([]domain.ActivityLogDTO, error) {
	entries, err := s.logRepo.ListByProject(ctx, projectIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}
	return mapper.ToActivityLogDTOs(entries), nil
}

func (s *ProjectTeamService) assignRole(
	ctx context.Context,
	projectIdentifier, userID, actorAuth0ID string,
	activityType domain.ActivityType,
	roleName string,
	setRole func(*domain.Project, *string),
) (*domain.ProjectDTO, error) {
	project, err := s.getProject(ctx, projectIdentifier)
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: %s id is required", ErrInvalidInput, roleName)
	}

	assignee, err := s.userRepo.GetByUserIdentifier(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", roleName, err)
	}

	actorName := s.resolveActorName(ctx, actorAuth0ID)

	setRole(project, &assignee.UserIdentifier)

	entry := &domain.ProjectActivityLog{
		ProjectIdentifier: projectIdentifier,
		ActivityType:      activityType,
		UserIdentifier:    assignee.UserIdentifier,
		UserName:          assignee.FullName(),
		ChangedBy:         actorAuth0ID,
		ChangedByName:     actorName,
		Timestamp:         time.Now(),
		Description:       fmt.Sprintf("%s %s assigned to project %s", capitalize(roleName), assignee.FullName(), projectIdentifier),
	}

	if err := s.persistWithLog(ctx, project, entry); err != nil {
		return nil, err
	}

	s.logger.Info("project role assigned",
		zap.String("projectIdentifier", projectIdentifier),
		zap.String("role", roleName),
		zap.String("userIdentifier", assignee.UserIdentifier),
		zap.String("changedBy", actorAuth0ID))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectTeamService) removeRole(
	ctx context.Context,
	projectIdentifier, actorAuth0ID string,
	activityType domain.ActivityType,
	roleName string,
	getRole func(*domain.Project) *string,
	setRole func(*domain.Project, *string),
) (*domain.ProjectDTO, error) {
	project, err := s.getProject(ctx, projectIdentifier)
	if err != nil {
		return nil, err
	}

	current := getRole(project)
	if current == nil {
		// Nothing assigned: persist unchanged, write no log entry.
		if err := s.projectRepo.Update(ctx, project); err != nil {
			return nil, fmt.Errorf("failed to save project: %w", err)
		}
		dto := mapper.ToProjectDTO(project)
		return &dto, nil
	}

	removedID := *current
	removedName := removedID
	// Name resolution is best-effort; a missing user must not block removal.
	if removed, err := s.userRepo.GetByUserIdentifier(ctx, removedID); err == nil {
		removedName = removed.FullName()
	}

	actorName := s.resolveActorName(ctx, actorAuth0ID)

	setRole(project, nil)

	entry := &domain.ProjectActivityLog{
		ProjectIdentifier: projectIdentifier,
		ActivityType:      activityType,
		UserIdentifier:    removedID,
		UserName:          removedName,
		ChangedBy:         actorAuth0ID,
		ChangedByName:     actorName,
		Timestamp:         time.Now(),
		Description:       fmt.Sprintf("%s %s removed from project %s", capitalize(roleName), removedName, projectIdentifier),
	}

	if err := s.persistWithLog(ctx, project, entry); err != nil {
		return nil, err
	}

	s.logger.Info("project role removed",
		zap.String("projectIdentifier", projectIdentifier),
		zap.String("role", roleName),
		zap.String("userIdentifier", removedID),
		zap.String("changedBy", actorAuth0ID))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// persistWithLog saves the project and appends the log entry in one
// transaction so the audit trail never diverges from the role fields.
func (s *ProjectTeamService) persistWithLog(ctx context.Context, project *domain.Project, entry *domain.ProjectActivityLog) error {
	err := s.projectRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.projectRepo.UpdateTx(ctx, tx, project); err != nil {
			return err
		}
		return s.logRepo.CreateTx(ctx, tx, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to save project team change: %w", err)
	}
	return nil
}

func (s *ProjectTeamService) getProject(ctx context.Context, projectIdentifier string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByIdentifier(ctx, projectIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrProjectNotFound, projectIdentifier)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// resolveActorName returns the acting user's display name for log
// attribution. Attribution is best-effort and never gates the operation.
func (s *ProjectTeamService) resolveActorName(ctx context.Context, actorAuth0ID string) string {
	actor, err := s.userRepo.GetByAuth0UserID(ctx, actorAuth0ID)
	if err != nil {
		return ""
	}
	return actor.FullName()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
