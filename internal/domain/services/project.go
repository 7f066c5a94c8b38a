package services

import (
	"context"

	"codegen/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	UserID      string         `json:"-"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	TemplateID  string         `json:"template_id"`
	Config      models.JSONMap `json:"config"`
}

// UpdateProjectRequest represents a partial project update.
// There is no Status field: status only changes through GenerateCode.
type UpdateProjectRequest struct {
	Name        *string
	Description models.OptionalString
	Config      *models.JSONMap
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// CreateProject creates a draft project bound to an existing template
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// UpdateProject applies a partial update; owner only
	UpdateProject(ctx context.Context, id, userID string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject deletes a project; owner only
	DeleteProject(ctx context.Context, id, userID string) (bool, error)

	// GenerateCode renders the bound template with variables and stores the output; owner only
	GenerateCode(ctx context.Context, id, userID string, variables map[string]interface{}) (*models.Project, error)

	// GetGeneratedCode returns the latest output and status
	GetGeneratedCode(ctx context.Context, id string) (*models.ProjectCode, error)

	// ListProjects lists a user's projects, newest first
	ListProjects(ctx context.Context, userID string, page models.Page) ([]models.Project, error)

	// RecentProjects lists a user's most recently touched projects
	RecentProjects(ctx context.Context, userID string, limit int) ([]models.Project, error)

	// ListProjectsForTemplate lists a user's projects bound to a template
	ListProjectsForTemplate(ctx context.Context, templateID, userID string, page models.Page) ([]models.Project, error)
}
