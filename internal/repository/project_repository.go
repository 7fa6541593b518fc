package repository

import (
	"context"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Where("project_identifier = ?", identifier).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// UpdateTx saves the project using the given transaction handle
func (r *ProjectRepository) UpdateTx(ctx context.Context, tx *gorm.DB, project *domain.Project) error {
	return tx.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, identifier string) error {
	return r.db.WithContext(ctx).
		Where("project_identifier = ?", identifier).
		Delete(&domain.Project{}).Error
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, status *domain.ProjectStatus) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&projects).Error

	return projects, total, err
}

// FindMaxProjectSequence returns the largest numeric suffix among stored
// project identifiers of the form PRJ-NNNNN. The second return value is
// false when no project exists yet.
func (r *ProjectRepository) FindMaxProjectSequence(ctx context.Context) (int, bool, error) {
	var max *int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Select("MAX(CAST(SUBSTR(project_identifier, 5) AS INTEGER))").
		Scan(&max).Error
	if err != nil {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return int(*max), true, nil
}

// Transaction runs fn inside a database transaction
func (r *ProjectRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
