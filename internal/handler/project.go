package handler

import (
	"log/slog"
	"net/http"

	"codegen/internal/config"
	"codegen/internal/domain/models"
	"codegen/internal/domain/services"
	"codegen/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// updateProjectBody is the wire form of a partial update.
// There is no status field: status only changes through generation.
type updateProjectBody struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	Config      *models.JSONMap         `json:"config"`
}

// CreateProject creates a draft project bound to a template
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req, config.MaxRequestBodyBytes); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.UserID = userID

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "Project created successfully", project)
}

// ListProjects lists the caller's projects, optionally only those bound to a template
// GET /api/v1/projects?template_id=&skip=&limit=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	page, err := parsePage(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var projects []models.Project
	if templateID := r.URL.Query().Get("template_id"); templateID != "" {
		projects, err = h.projectService.ListProjectsForTemplate(r.Context(), templateID, userID, page)
	} else {
		projects, err = h.projectService.ListProjects(r.Context(), userID, page)
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Projects retrieved successfully", projects)
}

// RecentProjects lists the caller's most recently touched projects
// GET /api/v1/projects/recent?limit=
func (h *ProjectHandler) RecentProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, err := httputil.QueryInt(r, "limit", models.DefaultRecent)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := (models.Page{Limit: limit}).Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := h.projectService.RecentProjects(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Recent projects retrieved successfully", projects)
}

// GetProject retrieves a project by ID
// GET /api/v1/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Project retrieved successfully", project)
}

// UpdateProject applies a partial update
// PUT/PATCH /api/v1/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	var body updateProjectBody
	if err := httputil.ParseJSON(w, r, &body, config.MaxRequestBodyBytes); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, userID, &services.UpdateProjectRequest{
		Name:        body.Name,
		Description: body.Description.ToModel(),
		Config:      body.Config,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Project updated successfully", project)
}

// DeleteProject deletes a project
// DELETE /api/v1/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	if _, err := h.projectService.DeleteProject(r.Context(), id, userID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Project deleted successfully", nil)
}

// GenerateCode renders the project's template with the posted variables
// POST /api/v1/projects/{id}/generate
func (h *ProjectHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	variables, err := parseVariables(w, r, false)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	project, err := h.projectService.GenerateCode(r.Context(), id, userID, variables)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Code generated successfully", project)
}

// GetGeneratedCode returns the latest output and status
// GET /api/v1/projects/{id}/code
func (h *ProjectHandler) GetGeneratedCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	code, err := h.projectService.GetGeneratedCode(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Generated code retrieved", code)
}
