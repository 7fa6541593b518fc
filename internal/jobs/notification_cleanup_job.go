package jobs

import (
	"context"
	"time"

	"github.com/lcdc-construction/projects-api/internal/config"
	"github.com/lcdc-construction/projects-api/internal/service"
	"go.uber.org/zap"
)

// NotificationCleanupJob prunes read notifications that are older than the
// configured retention period.
type NotificationCleanupJob struct {
	notificationService *service.NotificationService
	cfg                 *config.JobsConfig
	logger              *zap.Logger
}

// NewNotificationCleanupJob creates the cleanup job.
func NewNotificationCleanupJob(notificationService *service.NotificationService, cfg *config.JobsConfig, logger *zap.Logger) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		notificationService: notificationService,
		cfg:                 cfg,
		logger:              logger,
	}
}

// Register adds the job to the scheduler using the configured cron expression.
func (j *NotificationCleanupJob) Register(scheduler *Scheduler) error {
	return scheduler.AddJob("notification_cleanup", j.cfg.NotificationCleanupCron, j.Run)
}

// Run executes one cleanup pass.
func (j *NotificationCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := j.notificationService.CleanupRead(ctx, j.cfg.NotificationRetention())
	if err != nil {
		j.logger.Error("notification cleanup failed", zap.Error(err))
		return
	}

	j.logger.Info("notification cleanup completed",
		zap.Int64("removed", removed),
		zap.Int("retention_days", j.cfg.NotificationRetentionDays))
}
