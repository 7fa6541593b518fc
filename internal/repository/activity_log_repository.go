package repository

import (
	"context"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *domain.ProjectActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateTx appends the entry using the given transaction handle so the log
// write commits or rolls back together with the project mutation.
func (r *ActivityLogRepository) CreateTx(ctx context.Context, tx *gorm.DB, entry *domain.ProjectActivityLog) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// ListByProject returns the project's log entries newest first
func (r *ActivityLogRepository) ListByProject(ctx context.Context, projectIdentifier string) ([]domain.ProjectActivityLog, error) {
	var entries []domain.ProjectActivityLog
	err := r.db.WithContext(ctx).
		Where("project_identifier = ?", projectIdentifier).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}
