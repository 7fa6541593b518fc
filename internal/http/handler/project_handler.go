package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lcdc-construction/projects-api/internal/auth"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	teamService    *service.ProjectTeamService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, teamService *service.ProjectTeamService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		teamService:    teamService,
		logger:         logger,
	}
}

// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status" Enums(PLANNED, IN_PROGRESS, COMPLETED, ON_HOLD)
// @Success 200 {array} domain.ProjectDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.ProjectStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ProjectStatus(s)
		status = &st
	}

	projects, total, err := h.projectService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list projects", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	respondJSON(w, http.StatusOK, projects)
}

// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project data"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create project", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/projects/"+project.ProjectIdentifier)
	respondJSON(w, http.StatusCreated, project)
}

// @Summary Get project
// @Tags Projects
// @Produce json
// @Param identifier path string true "Project identifier (PRJ-00001)"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier} [get]
func (h *ProjectHandler) GetByIdentifier(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	project, err := h.projectService.GetByIdentifier(r.Context(), identifier)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param identifier path string true "Project identifier"
// @Param request body domain.UpdateProjectRequest true "Project data"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var req domain.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), identifier, &req)
	if err != nil {
		h.logger.Error("failed to update project", zap.Error(err), zap.String("project_identifier", identifier))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// @Summary Delete project
// @Tags Projects
// @Param identifier path string true "Project identifier"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	if err := h.projectService.Delete(r.Context(), identifier); err != nil {
		h.logger.Error("failed to delete project", zap.Error(err), zap.String("project_identifier", identifier))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Assign contractor to project
// @Description Assigns a contractor to the project. A prior contractor is
// @Description replaced silently; only the assignment is logged.
// @Tags Projects
// @Accept json
// @Produce json
// @Param identifier path string true "Project identifier"
// @Param request body domain.AssignTeamMemberRequest true "Contractor"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError "Missing or unknown user"
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/contractor [put]
func (h *ProjectHandler) AssignContractor(w http.ResponseWriter, r *http.Request) {
	h.assignTeamMember(w, r, h.teamService.AssignContractor)
}

// @Summary Remove contractor from project
// @Description Clears the project's contractor and logs the removal. Removing
// @Description when no contractor is assigned is a silent no-op.
// @Tags Projects
// @Produce json
// @Param identifier path string true "Project identifier"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/contractor [delete]
func (h *ProjectHandler) RemoveContractor(w http.ResponseWriter, r *http.Request) {
	h.removeTeamMember(w, r, h.teamService.RemoveContractor)
}

// @Summary Assign salesperson to project
// @Tags Projects
// @Accept json
// @Produce json
// @Param identifier path string true "Project identifier"
// @Param request body domain.AssignTeamMemberRequest true "Salesperson"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError "Missing or unknown user"
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/salesperson [put]
func (h *ProjectHandler) AssignSalesperson(w http.ResponseWriter, r *http.Request) {
	h.assignTeamMember(w, r, h.teamService.AssignSalesperson)
}

// @Summary Remove salesperson from project
// @Tags Projects
// @Produce json
// @Param identifier path string true "Project identifier"
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError "Project not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/salesperson [delete]
func (h *ProjectHandler) RemoveSalesperson(w http.ResponseWriter, r *http.Request) {
	h.removeTeamMember(w, r, h.teamService.RemoveSalesperson)
}

// @Summary Get project activity log
// @Description Returns team-change log entries ordered newest first. An unknown
// @Description project yields an empty list.
// @Tags Projects
// @Produce json
// @Param identifier path string true "Project identifier"
// @Success 200 {array} domain.ActivityLogDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{identifier}/activity-log [get]
func (h *ProjectHandler) GetActivityLog(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	entries, err := h.teamService.GetProjectActivityLog(r.Context(), identifier)
	if err != nil {
		h.logger.Error("failed to get activity log", zap.Error(err), zap.String("project_identifier", identifier))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

type assignFunc func(ctx context.Context, projectIdentifier, userID, actorAuth0ID string) (*domain.ProjectDTO, error)

type removeFunc func(ctx context.Context, projectIdentifier, actorAuth0ID string) (*domain.ProjectDTO, error)

func (h *ProjectHandler) assignTeamMember(w http.ResponseWriter, r *http.Request, assign assignFunc) {
	identifier := chi.URLParam(r, "identifier")

	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req domain.AssignTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := assign(r.Context(), identifier, req.UserID, userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to assign team member",
			zap.Error(err),
			zap.String("project_identifier", identifier),
			zap.String("user_id", req.UserID))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) removeTeamMember(w http.ResponseWriter, r *http.Request, remove removeFunc) {
	identifier := chi.URLParam(r, "identifier")

	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	project, err := remove(r.Context(), identifier, userCtx.Auth0UserID)
	if err != nil {
		h.logger.Error("failed to remove team member",
			zap.Error(err),
			zap.String("project_identifier", identifier))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}
