package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/service"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Success 200 {array} domain.NotificationDTO
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	notifications, err := h.notificationService.ListForUser(r.Context(), userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err), zap.String("user_id", userCtx.Auth0UserID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// @Summary Mark a notification as read
// @Tags Notifications
// @Param notificationId path string true "Notification ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/{notificationId}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID: must be a valid UUID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), notificationID); err != nil {
		h.logger.Error("failed to mark notification read", zap.Error(err), zap.String("notification_id", notificationID.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
