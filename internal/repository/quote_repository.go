package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// FindMaxQuoteSequence returns the largest numeric suffix among stored quote
// numbers of the form QT-NNNNNNN. The second return value is false when no
// quote exists yet.
func (r *QuoteRepository) FindMaxQuoteSequence(ctx context.Context) (int, bool, error) {
	var max *int64
	err := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Select("MAX(CAST(SUBSTR(quote_number, 4) AS INTEGER))").
		Scan(&max).Error
	if err != nil {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return int(*max), true, nil
}

func (r *QuoteRepository) GetByQuoteNumber(ctx context.Context, quoteNumber string) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("quote_number = ?", quoteNumber).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) ListByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Quote, error) {
	return r.list(ctx, r.db.Where("lot_id = ?", lotID))
}

func (r *QuoteRepository) ListByContractor(ctx context.Context, contractorID string) ([]domain.Quote, error) {
	return r.list(ctx, r.db.Where("contractor_id = ?", contractorID))
}

func (r *QuoteRepository) ListByProject(ctx context.Context, projectIdentifier string) ([]domain.Quote, error) {
	return r.list(ctx, r.db.Where("project_identifier = ?", projectIdentifier))
}

func (r *QuoteRepository) ListByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	return r.list(ctx, r.db.Where("status = ?", status))
}

func (r *QuoteRepository) ListAll(ctx context.Context) ([]domain.Quote, error) {
	return r.list(ctx, r.db)
}

// ListOwnerApprovedForCustomer returns owner-approved quotes for lots the
// given customer is assigned to.
func (r *QuoteRepository) ListOwnerApprovedForCustomer(ctx context.Context, customerUserIdentifier string) ([]domain.Quote, error) {
	query := r.db.
		Joins("JOIN lots ON lots.lot_id = quotes.lot_id").
		Joins("JOIN lot_assigned_users ON lot_assigned_users.lot_id = lots.id").
		Joins("JOIN users ON users.id = lot_assigned_users.user_id").
		Where("users.user_identifier = ?", customerUserIdentifier).
		Where("quotes.status = ?", domain.QuoteStatusOwnerApproved)
	return r.list(ctx, query)
}

func (r *QuoteRepository) list(ctx context.Context, query *gorm.DB) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := query.WithContext(ctx).Model(&domain.Quote{}).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Order("quotes.created_at DESC").
		Find(&quotes).Error
	return quotes, err
}
