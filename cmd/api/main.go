package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/config"
	"github.com/lcdc-construction/projects-api/internal/database"
	"github.com/lcdc-construction/projects-api/internal/http/handler"
	"github.com/lcdc-construction/projects-api/internal/http/middleware"
	"github.com/lcdc-construction/projects-api/internal/http/router"
	"github.com/lcdc-construction/projects-api/internal/jobs"
	"github.com/lcdc-construction/projects-api/internal/logger"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/internal/storage"
	"go.uber.org/zap"
)

// @title LCDC Projects API
// @version 1.0
// @description Construction project management API for projects, lots, contractor quotes and team assignment

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	documentStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	lotRepo := repository.NewLotRepository(db)
	userRepo := repository.NewUserRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	lotDocumentRepo := repository.NewLotDocumentRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	quoteNumberService := service.NewQuoteNumberService(quoteRepo, log)
	quoteService := service.NewQuoteService(quoteRepo, projectRepo, lotRepo, userService, quoteNumberService, notificationService, log)
	projectService := service.NewProjectService(projectRepo, log)
	teamService := service.NewProjectTeamService(projectRepo, userRepo, activityLogRepo, log)
	lotService := service.NewLotService(lotRepo, projectRepo, userRepo, log)
	lotDocumentService := service.NewLotDocumentService(lotDocumentRepo, lotRepo, documentStorage, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService, teamService, log)
	lotHandler := handler.NewLotHandler(lotService, lotDocumentService, cfg.Storage.MaxUploadSizeMB, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		projectHandler,
		lotHandler,
		quoteHandler,
		notificationHandler,
	)

	// Initialize and start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)
	cleanupJob := jobs.NewNotificationCleanupJob(notificationService, &cfg.Jobs, log)
	if err := cleanupJob.Register(scheduler); err != nil {
		log.Error("Failed to register notification cleanup job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started",
			zap.String("cron_expr", cfg.Jobs.NotificationCleanupCron),
			zap.Int("retention_days", cfg.Jobs.NotificationRetentionDays),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler; running jobs complete before shutdown proceeds
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
