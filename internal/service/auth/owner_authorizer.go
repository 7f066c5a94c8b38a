package auth

import (
	"context"
	"fmt"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"
	"codegen/internal/domain/services"
)

// LoaderFunc loads an entity by id, returning an error wrapping domain.ErrNotFound when absent.
type LoaderFunc[E models.Owned] func(ctx context.Context, id string) (E, error)

// LoadOwned is the single load → NotFound → Forbidden sequence shared by every
// owner-only operation. Existence is always checked before ownership.
func LoadOwned[E models.Owned](ctx context.Context, load LoaderFunc[E], kind, id, userID string) (E, error) {
	entity, err := load(ctx, id)
	if err != nil {
		var zero E
		return zero, err
	}
	if err := CheckOwner(entity, kind, id, userID); err != nil {
		var zero E
		return zero, err
	}
	return entity, nil
}

// CheckOwner fails with domain.ErrForbidden unless userID owns entity.
func CheckOwner(entity models.Owned, kind, id, userID string) error {
	if userID == "" || entity.OwnerID() != userID {
		return fmt.Errorf("not authorized to modify %s %s: %w", kind, id, domain.ErrForbidden)
	}
	return nil
}

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can mutate a resource only if they created it.
type OwnerBasedAuthorizer struct {
	templateRepo repositories.TemplateRepository
	projectRepo  repositories.ProjectRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	templateRepo repositories.TemplateRepository,
	projectRepo repositories.ProjectRepository,
) services.ResourceAuthorizer {
	return &OwnerBasedAuthorizer{
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
	}
}

// AuthorizeTemplate loads the template and checks userID owns it
func (a *OwnerBasedAuthorizer) AuthorizeTemplate(ctx context.Context, userID, templateID string) (*models.Template, error) {
	return LoadOwned[*models.Template](ctx, a.templateRepo.Get, "template", templateID, userID)
}

// AuthorizeProject loads the project and checks userID owns it
func (a *OwnerBasedAuthorizer) AuthorizeProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	return LoadOwned[*models.Project](ctx, a.projectRepo.Get, "project", projectID, userID)
}
