package handler

import (
	"log/slog"
	"net/http"

	"codegen/internal/config"
	"codegen/internal/domain/models"
	"codegen/internal/domain/services"
	"codegen/internal/httputil"
)

// TemplateHandler handles template HTTP requests
type TemplateHandler struct {
	templateService services.TemplateService
	logger          *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService services.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// TemplatePage is the paging envelope for template listings.
// Total counts the items on this page.
type TemplatePage struct {
	Items []models.Template `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Pages int               `json:"pages"`
}

func newTemplatePage(items []models.Template, page models.Page) TemplatePage {
	total := len(items)
	return TemplatePage{
		Items: items,
		Total: total,
		Page:  page.Skip/page.Limit + 1,
		Size:  page.Limit,
		Pages: (total + page.Limit - 1) / page.Limit,
	}
}

// updateTemplateBody is the wire form of a partial update
type updateTemplateBody struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	Content     *string                 `json:"content"`
	Category    *string                 `json:"category"`
	Language    *string                 `json:"language"`
	Variables   *models.JSONMap         `json:"variables"`
	IsPublic    *bool                   `json:"is_public"`
}

// CreateTemplate creates a template owned by the caller
// POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateTemplateRequest
	if err := httputil.ParseJSON(w, r, &req, config.MaxRequestBodyBytes); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.UserID = userID

	template, err := h.templateService.CreateTemplate(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "Template created successfully", template)
}

// ListTemplates lists or searches templates
// GET /api/v1/templates?category=&language=&search=&my_templates=&skip=&limit=
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	mine, err := httputil.QueryBool(r, "my_templates")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	query := r.URL.Query()
	var templates []models.Template
	if search := query.Get("search"); search != "" {
		templates, err = h.templateService.SearchTemplates(r.Context(), search, page)
	} else {
		filter := models.TemplateFilter{
			Category:   query.Get("category"),
			Language:   query.Get("language"),
			PublicOnly: !mine,
			Page:       page,
		}
		if mine {
			filter.UserID = httputil.GetUserID(r)
		}
		templates, err = h.templateService.ListTemplates(r.Context(), filter)
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Templates retrieved successfully", newTemplatePage(templates, page))
}

// GetTemplate retrieves a template by ID
// GET /api/v1/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Template")
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Template retrieved successfully", template)
}

// UpdateTemplate applies a partial update
// PUT/PATCH /api/v1/templates/{id}
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Template")
	if !ok {
		return
	}

	var body updateTemplateBody
	if err := httputil.ParseJSON(w, r, &body, config.MaxRequestBodyBytes); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	template, err := h.templateService.UpdateTemplate(r.Context(), id, userID, &services.UpdateTemplateRequest{
		Name:        body.Name,
		Description: body.Description.ToModel(),
		Content:     body.Content,
		Category:    body.Category,
		Language:    body.Language,
		Variables:   body.Variables,
		IsPublic:    body.IsPublic,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Template updated successfully", template)
}

// DeleteTemplate deletes a template and detaches its projects
// DELETE /api/v1/templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Template")
	if !ok {
		return
	}

	if _, err := h.templateService.DeleteTemplate(r.Context(), id, userID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Template deleted successfully", nil)
}

// PreviewTemplate renders a template without storing the result
// POST /api/v1/templates/{id}/preview
func (h *TemplateHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Template")
	if !ok {
		return
	}

	variables, err := parseVariables(w, r, true)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	preview, err := h.templateService.PreviewTemplate(r.Context(), id, variables)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Template rendered", preview)
}
