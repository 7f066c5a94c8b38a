package repositories

import (
	"context"

	"codegen/internal/domain/models"
)

// Repository is the capability set shared by every entity store.
// Get returns an error wrapping domain.ErrNotFound when the id does not exist.
type Repository[T any] interface {
	// Get retrieves a single entity by ID
	Get(ctx context.Context, id string) (*T, error)

	// GetAll returns a bounded window of entities, newest first
	GetAll(ctx context.Context, page models.Page) ([]T, error)

	// Create inserts the entity and populates store-assigned fields (id, created_at)
	Create(ctx context.Context, entity *T) error

	// Update persists the entity and populates updated_at
	Update(ctx context.Context, entity *T) error

	// Delete removes the entity, reporting whether a row existed
	Delete(ctx context.Context, id string) (bool, error)
}
