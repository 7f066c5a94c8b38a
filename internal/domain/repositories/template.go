package repositories

import (
	"context"

	"codegen/internal/domain/models"
)

// TemplateRepository defines data access operations for templates.
// Every listing is ordered by created_at DESC and bounded by the page window.
type TemplateRepository interface {
	Repository[models.Template]

	// ListByUser returns all templates owned by userID, public or not
	ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Template, error)

	// ListPublic returns public templates
	ListPublic(ctx context.Context, page models.Page) ([]models.Template, error)

	// ListPublicByCategory returns public templates in a category
	ListPublicByCategory(ctx context.Context, category string, page models.Page) ([]models.Template, error)

	// ListPublicByLanguage returns public templates for a language tag
	ListPublicByLanguage(ctx context.Context, language string, page models.Page) ([]models.Template, error)

	// SearchPublic matches query case-insensitively against name or description
	SearchPublic(ctx context.Context, query string, page models.Page) ([]models.Template, error)
}
