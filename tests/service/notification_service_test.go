package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) (*service.NotificationService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	return service.NewNotificationService(repository.NewNotificationRepository(db), zap.NewNop()), db
}

func TestCreateAndListNotifications(t *testing.T) {
	svc, _ := newNotificationService(t)
	ctx := context.Background()

	err := svc.Create(ctx, "customer-1", "Quote approved",
		"Quote QT-0000001 has been approved and is awaiting your approval.",
		"/customer/quotes/approval", domain.NotificationQuoteApproved)
	require.NoError(t, err)
	err = svc.Create(ctx, "customer-2", "Other", "Not yours", "", domain.NotificationQuoteApproved)
	require.NoError(t, err)

	notifications, err := svc.ListForUser(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Quote approved", notifications[0].Title)
	assert.False(t, notifications[0].Read)
	assert.NotEmpty(t, notifications[0].CreatedAt)
}

func TestListNotifications_NewestFirst(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		notification := &domain.Notification{
			NotificationID:  uuid.New(),
			RecipientUserID: "customer-1",
			Title:           title,
			Category:        domain.NotificationQuoteApproved,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(notification).Error)
	}

	notifications, err := svc.ListForUser(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "newest", notifications[0].Title)
	assert.Equal(t, "oldest", notifications[2].Title)
}

func TestMarkNotificationRead(t *testing.T) {
	svc, _ := newNotificationService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "customer-1", "Quote approved", "msg", "", domain.NotificationQuoteApproved))

	notifications, err := svc.ListForUser(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, svc.MarkRead(ctx, notifications[0].NotificationID))

	notifications, err = svc.ListForUser(ctx, "customer-1")
	require.NoError(t, err)
	assert.True(t, notifications[0].Read)

	err = svc.MarkRead(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCleanupRead_RemovesOnlyOldReadNotifications(t *testing.T) {
	svc, db := newNotificationService(t)
	ctx := context.Background()

	seed := func(title string, read bool, age time.Duration) {
		notification := &domain.Notification{
			NotificationID:  uuid.New(),
			RecipientUserID: "customer-1",
			Title:           title,
			Category:        domain.NotificationQuoteApproved,
			Read:            read,
			CreatedAt:       time.Now().Add(-age),
		}
		require.NoError(t, db.Create(notification).Error)
	}

	seed("old and read", true, 40*24*time.Hour)
	seed("old but unread", false, 40*24*time.Hour)
	seed("recent and read", true, time.Hour)

	removed, err := svc.CleanupRead(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	notifications, err := svc.ListForUser(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	for _, n := range notifications {
		assert.NotEqual(t, "old and read", n.Title)
	}
}

func TestCleanupRead_NothingToRemove(t *testing.T) {
	svc, _ := newNotificationService(t)

	removed, err := svc.CleanupRead(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
