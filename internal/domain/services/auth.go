package services

import (
	"context"

	"codegen/internal/domain/models"
)

// ResourceAuthorizer checks if a user may mutate a resource.
// Current implementation: single-owner (caller id must equal the stored owner id).
//
// Both methods load the resource first, so a missing id always reports
// domain.ErrNotFound before any domain.ErrForbidden.
type ResourceAuthorizer interface {
	// AuthorizeTemplate loads the template and checks userID owns it
	AuthorizeTemplate(ctx context.Context, userID, templateID string) (*models.Template, error)

	// AuthorizeProject loads the project and checks userID owns it
	AuthorizeProject(ctx context.Context, userID, projectID string) (*models.Project, error)
}
