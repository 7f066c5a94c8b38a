package repositories

import (
	"context"

	"codegen/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	Repository[models.Project]

	// ListByUser returns a user's projects ordered by created_at DESC
	ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Project, error)

	// ListByTemplate returns userID's projects bound to templateID ordered by created_at DESC
	ListByTemplate(ctx context.Context, templateID, userID string, page models.Page) ([]models.Project, error)

	// ListRecent returns a user's most recently touched projects (updated_at DESC, falling back to created_at)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.Project, error)

	// DetachTemplate clears template_id on every project bound to templateID
	// and returns how many projects were detached
	DetachTemplate(ctx context.Context, templateID string) (int64, error)
}
