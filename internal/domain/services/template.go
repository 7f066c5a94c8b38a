package services

import (
	"context"

	"codegen/internal/domain/models"
)

// CreateTemplateRequest represents a request to create a template
type CreateTemplateRequest struct {
	UserID      string         `json:"-"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Content     string         `json:"content"`
	Category    string         `json:"category"`
	Language    string         `json:"language"`
	Variables   models.JSONMap `json:"variables"`
	IsPublic    bool           `json:"is_public"`
}

// UpdateTemplateRequest represents a partial template update.
// nil pointers are left untouched.
type UpdateTemplateRequest struct {
	Name        *string
	Description models.OptionalString
	Content     *string
	Category    *string
	Language    *string
	Variables   *models.JSONMap
	IsPublic    *bool
}

// TemplateService defines business logic operations for templates
type TemplateService interface {
	// CreateTemplate creates a template owned by req.UserID
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*models.Template, error)

	// GetTemplate retrieves a template by ID regardless of visibility
	GetTemplate(ctx context.Context, id string) (*models.Template, error)

	// UpdateTemplate applies a partial update; owner only
	UpdateTemplate(ctx context.Context, id, userID string, req *UpdateTemplateRequest) (*models.Template, error)

	// DeleteTemplate deletes a template and detaches projects bound to it; owner only
	DeleteTemplate(ctx context.Context, id, userID string) (bool, error)

	// ListTemplates lists templates using the fixed filter priority owner > category > language > public
	ListTemplates(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error)

	// SearchTemplates searches public templates by name or description
	SearchTemplates(ctx context.Context, query string, page models.Page) ([]models.Template, error)

	// PreviewTemplate renders a template without persisting anything
	PreviewTemplate(ctx context.Context, id string, variables map[string]interface{}) (*models.RenderPreview, error)
}
