package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

func (r *LotRepository) Create(ctx context.Context, lot *domain.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// GetByLotID loads a lot with its assigned users preloaded
func (r *LotRepository) GetByLotID(ctx context.Context, lotID uuid.UUID) (*domain.Lot, error) {
	var lot domain.Lot
	err := r.db.WithContext(ctx).
		Preload("AssignedUsers").
		Where("lot_id = ?", lotID).
		First(&lot).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *LotRepository) ListByProject(ctx context.Context, projectIdentifier string) ([]domain.Lot, error) {
	var lots []domain.Lot
	err := r.db.WithContext(ctx).
		Preload("AssignedUsers").
		Where("project_identifier = ?", projectIdentifier).
		Order("lot_number ASC").
		Find(&lots).Error
	return lots, err
}

func (r *LotRepository) Update(ctx context.Context, lot *domain.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *LotRepository) Delete(ctx context.Context, lotID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Delete(&domain.Lot{}).Error
}

// AddAssignedUser places a user in the lot's assigned set. Adding a user
// that is already assigned is a no-op.
func (r *LotRepository) AddAssignedUser(ctx context.Context, lot *domain.Lot, user *domain.User) error {
	return r.db.WithContext(ctx).Model(lot).Association("AssignedUsers").Append(user)
}

// RemoveAssignedUser takes a user out of the lot's assigned set
func (r *LotRepository) RemoveAssignedUser(ctx context.Context, lot *domain.Lot, user *domain.User) error {
	return r.db.WithContext(ctx).Model(lot).Association("AssignedUsers").Delete(user)
}
