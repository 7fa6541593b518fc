package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) ListForUser(ctx context.Context, recipientUserID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_user_id = ?", recipientUserID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("read", true).Error
}

// DeleteReadOlderThan prunes read notifications created before the cutoff.
// Returns the number of rows removed.
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&domain.Notification{})
	return result.RowsAffected, result.Error
}
