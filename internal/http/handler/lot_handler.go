package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/service"
	"go.uber.org/zap"
)

type LotHandler struct {
	lotService      *service.LotService
	documentService *service.LotDocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewLotHandler(lotService *service.LotService, documentService *service.LotDocumentService, maxUploadMB int64, logger *zap.Logger) *LotHandler {
	return &LotHandler{
		lotService:      lotService,
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// @Summary Create lot
// @Tags Lots
// @Accept json
// @Produce json
// @Param request body domain.CreateLotRequest true "Lot data"
// @Success 201 {object} domain.LotDTO
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots [post]
func (h *LotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lot, err := h.lotService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create lot", zap.Error(err), zap.String("project_identifier", req.ProjectIdentifier))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/lots/"+lot.LotID.String())
	respondJSON(w, http.StatusCreated, lot)
}

// @Summary Get lot
// @Tags Lots
// @Produce json
// @Param lotId path string true "Lot ID"
// @Success 200 {object} domain.LotDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId} [get]
func (h *LotHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	lot, err := h.lotService.GetByID(r.Context(), lotID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lot)
}

// @Summary List lots in a project
// @Tags Lots
// @Produce json
// @Param identifier path string true "Project identifier"
// @Success 200 {array} domain.LotDTO
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/lots [get]
func (h *LotHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	lots, err := h.lotService.ListByProject(r.Context(), identifier)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lots)
}

// @Summary Assign user to lot
// @Tags Lots
// @Accept json
// @Produce json
// @Param lotId path string true "Lot ID"
// @Param request body domain.AssignLotUserRequest true "User"
// @Success 200 {object} domain.LotDTO
// @Failure 400 {object} domain.APIError "Unknown user"
// @Failure 404 {object} domain.APIError "Lot not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId}/users [post]
func (h *LotHandler) AssignUser(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	var req domain.AssignLotUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lot, err := h.lotService.AssignUser(r.Context(), lotID, req.UserID)
	if err != nil {
		h.logger.Error("failed to assign user to lot",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
			zap.String("user_id", req.UserID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lot)
}

// @Summary Remove user from lot
// @Tags Lots
// @Produce json
// @Param lotId path string true "Lot ID"
// @Param userId path string true "User identifier"
// @Success 200 {object} domain.LotDTO
// @Failure 404 {object} domain.APIError "Lot or user not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId}/users/{userId} [delete]
func (h *LotHandler) UnassignUser(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	userID := chi.URLParam(r, "userId")

	lot, err := h.lotService.UnassignUser(r.Context(), lotID, userID)
	if err != nil {
		h.logger.Error("failed to unassign user from lot",
			zap.Error(err),
			zap.String("lot_id", lotID.String()),
			zap.String("user_id", userID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lot)
}

// @Summary Upload lot document
// @Tags Lots
// @Accept multipart/form-data
// @Produce json
// @Param lotId path string true "Lot ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.LotDocumentDTO
// @Failure 404 {object} domain.APIError "Lot not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId}/documents [post]
func (h *LotHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), lotID, header.Filename, header.Header.Get("Content-Type"), userCtx.Auth0UserID, file)
	if err != nil {
		h.logger.Error("failed to upload lot document", zap.Error(err), zap.String("lot_id", lotID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// @Summary List lot documents
// @Tags Lots
// @Produce json
// @Param lotId path string true "Lot ID"
// @Success 200 {array} domain.LotDocumentDTO
// @Failure 404 {object} domain.APIError "Lot not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /lots/{lotId}/documents [get]
func (h *LotHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "lotId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lot ID: must be a valid UUID")
		return
	}

	docs, err := h.documentService.List(r.Context(), lotID)
	if err != nil {
		h.logger.Error("failed to list lot documents", zap.Error(err), zap.String("lot_id", lotID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// @Summary Download lot document
// @Tags Lots
// @Produce application/octet-stream
// @Param documentId path string true "Document ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /documents/{documentId} [get]
func (h *LotHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	reader, doc, err := h.documentService.Download(r.Context(), documentID)
	if err != nil {
		h.logger.Error("failed to download lot document", zap.Error(err), zap.String("document_id", documentID.String()))
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// @Summary Delete lot document
// @Tags Lots
// @Param documentId path string true "Document ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /documents/{documentId} [delete]
func (h *LotHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	if err := h.documentService.Delete(r.Context(), documentID); err != nil {
		h.logger.Error("failed to delete lot document", zap.Error(err), zap.String("document_id", documentID.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
