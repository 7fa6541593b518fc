package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService delivers in-app notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create stores a notification for a single recipient
func (s *NotificationService) Create(ctx context.Context, recipientUserID, title, message, link string, category domain.NotificationCategory) error {
	notification := &domain.Notification{
		NotificationID:  uuid.New(),
		RecipientUserID: recipientUserID,
		Title:           title,
		Message:         message,
		Link:            link,
		Category:        category,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("notificationId", notification.NotificationID.String()),
		zap.String("recipient", recipientUserID),
		zap.String("category", string(category)))

	return nil
}

// ListForUser returns a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, recipientUserID string) ([]domain.NotificationDTO, error) {
	notifications, err := s.notificationRepo.ListForUser(ctx, recipientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return mapper.ToNotificationDTOs(notifications), nil
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	_, err := s.notificationRepo.GetByNotificationID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// CleanupRead prunes read notifications older than the retention period.
// Returns the number of rows removed.
func (s *NotificationService) CleanupRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	removed, err := s.notificationRepo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", err)
	}
	if removed > 0 {
		s.logger.Info("pruned read notifications",
			zap.Int64("removed", removed),
			zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
