package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type LotDocumentRepository struct {
	db *gorm.DB
}

func NewLotDocumentRepository(db *gorm.DB) *LotDocumentRepository {
	return &LotDocumentRepository{db: db}
}

func (r *LotDocumentRepository) Create(ctx context.Context, doc *domain.LotDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *LotDocumentRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.LotDocument, error) {
	var doc domain.LotDocument
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *LotDocumentRepository) ListByLot(ctx context.Context, lotID uuid.UUID) ([]domain.LotDocument, error) {
	var docs []domain.LotDocument
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *LotDocumentRepository) Delete(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.LotDocument{}).Error
}
