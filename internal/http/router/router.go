package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/config"
	"github.com/lcdc-construction/projects-api/internal/database"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/http/handler"
	"github.com/lcdc-construction/projects-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	projectHandler      *handler.ProjectHandler
	lotHandler          *handler.LotHandler
	quoteHandler        *handler.QuoteHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	projectHandler *handler.ProjectHandler,
	lotHandler *handler.LotHandler,
	quoteHandler *handler.QuoteHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		projectHandler:      projectHandler,
		lotHandler:          lotHandler,
		quoteHandler:        quoteHandler,
		notificationHandler: notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Projects. Mutations and team assignment are owner-only.
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Get("/{identifier}", rt.projectHandler.GetByIdentifier)
				r.Get("/{identifier}/activity-log", rt.projectHandler.GetActivityLog)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireOwner)
					r.Post("/", rt.projectHandler.Create)
					r.Put("/{identifier}", rt.projectHandler.Update)
					r.Delete("/{identifier}", rt.projectHandler.Delete)
					r.Put("/{identifier}/contractor", rt.projectHandler.AssignContractor)
					r.Delete("/{identifier}/contractor", rt.projectHandler.RemoveContractor)
					r.Put("/{identifier}/salesperson", rt.projectHandler.AssignSalesperson)
					r.Delete("/{identifier}/salesperson", rt.projectHandler.RemoveSalesperson)
				})

				// Sub-resources
				r.Get("/{identifier}/lots", rt.lotHandler.ListByProject)
				r.Get("/{identifier}/quotes", rt.quoteHandler.ListByProject)
			})

			// Lots. Creation and user assignment are for staff roles.
			r.Route("/lots", func(r chi.Router) {
				r.Get("/{lotId}", rt.lotHandler.GetByID)
				r.Get("/{lotId}/quotes", rt.quoteHandler.ListByLot)

				staff := rt.authMiddleware.RequireRole(domain.RoleOwner, domain.RoleSalesperson)
				r.With(staff).Post("/", rt.lotHandler.Create)
				r.With(staff).Post("/{lotId}/users", rt.lotHandler.AssignUser)
				r.With(staff).Delete("/{lotId}/users/{userId}", rt.lotHandler.UnassignUser)

				// Documents
				r.Post("/{lotId}/documents", rt.lotHandler.UploadDocument)
				r.Get("/{lotId}/documents", rt.lotHandler.ListDocuments)
			})

			// Lot documents addressed directly
			r.Route("/documents", func(r chi.Router) {
				r.Get("/{documentId}", rt.lotHandler.DownloadDocument)
				r.Delete("/{documentId}", rt.lotHandler.DeleteDocument)
			})

			// Quotes. Review surfaces and owner approval are owner-only;
			// customer approval is authorized per quote in the service.
			r.Route("/quotes", func(r chi.Router) {
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/mine", rt.quoteHandler.ListMine)
				r.Get("/pending-approval", rt.quoteHandler.ListPendingCustomerApproval)
				r.Get("/{quoteNumber}", rt.quoteHandler.GetByNumber)
				r.Post("/{quoteNumber}/customer-approve", rt.quoteHandler.CustomerApprove)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireOwner)
					r.Get("/", rt.quoteHandler.ListAll)
					r.Get("/submitted", rt.quoteHandler.ListSubmitted)
					r.Get("/contractor/{contractorId}", rt.quoteHandler.ListByContractor)
					r.Post("/{quoteNumber}/approve", rt.quoteHandler.Approve)
					r.Post("/{quoteNumber}/reject", rt.quoteHandler.Reject)
				})
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Post("/{notificationId}/read", rt.notificationHandler.MarkRead)
			})
		})
	})

	return r
}
