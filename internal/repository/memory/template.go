package memory

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"

	"github.com/google/uuid"
)

// TemplateRepository implements repositories.TemplateRepository over a Store
type TemplateRepository struct {
	store *Store
}

// NewTemplateRepository creates a template repository backed by store
func NewTemplateRepository(store *Store) repositories.TemplateRepository {
	return &TemplateRepository{store: store}
}

func cloneTemplate(t models.Template) models.Template {
	t.Description = cloneString(t.Description)
	t.UpdatedAt = cloneTime(t.UpdatedAt)
	t.Variables = maps.Clone(t.Variables)
	if t.Variables == nil {
		t.Variables = models.JSONMap{}
	}
	return t
}

// Create stores a copy of template and assigns id and created_at
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	r.store.write(ctx, func() {
		template.ID = uuid.NewString()
		template.CreatedAt = r.store.now()
		template.UpdatedAt = nil
		r.store.templates[template.ID] = record[models.Template]{
			seq:    r.store.nextSeq(),
			entity: cloneTemplate(*template),
		}
	})
	return nil
}

// Get retrieves a template by ID
func (r *TemplateRepository) Get(ctx context.Context, id string) (*models.Template, error) {
	var (
		t  models.Template
		ok bool
	)
	r.store.read(ctx, func() {
		var rec record[models.Template]
		if rec, ok = r.store.templates[id]; ok {
			t = cloneTemplate(rec.entity)
		}
	})
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// GetAll returns every template, newest first
func (r *TemplateRepository) GetAll(ctx context.Context, page models.Page) ([]models.Template, error) {
	return r.list(ctx, page, func(models.Template) bool { return true }), nil
}

// Update replaces the stored template and stamps updated_at
func (r *TemplateRepository) Update(ctx context.Context, template *models.Template) error {
	var err error
	r.store.write(ctx, func() {
		rec, ok := r.store.templates[template.ID]
		if !ok {
			err = fmt.Errorf("template %s: %w", template.ID, domain.ErrNotFound)
			return
		}
		now := r.store.now()
		template.UpdatedAt = &now
		// Store-assigned fields are not caller-writable.
		template.CreatedAt = rec.entity.CreatedAt
		template.UserID = rec.entity.UserID
		rec.entity = cloneTemplate(*template)
		r.store.templates[template.ID] = rec
	})
	return err
}

// Delete removes a template, reporting whether it existed
func (r *TemplateRepository) Delete(ctx context.Context, id string) (bool, error) {
	var existed bool
	r.store.write(ctx, func() {
		_, existed = r.store.templates[id]
		delete(r.store.templates, id)
	})
	return existed, nil
}

// ListByUser returns all templates owned by userID
func (r *TemplateRepository) ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, page, func(t models.Template) bool { return t.UserID == userID }), nil
}

// ListPublic returns public templates
func (r *TemplateRepository) ListPublic(ctx context.Context, page models.Page) ([]models.Template, error) {
	return r.list(ctx, page, func(t models.Template) bool { return t.IsPublic }), nil
}

// ListPublicByCategory returns public templates in a category
func (r *TemplateRepository) ListPublicByCategory(ctx context.Context, category string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, page, func(t models.Template) bool { return t.IsPublic && t.Category == category }), nil
}

// ListPublicByLanguage returns public templates for a language
func (r *TemplateRepository) ListPublicByLanguage(ctx context.Context, language string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, page, func(t models.Template) bool { return t.IsPublic && t.Language == language }), nil
}

// SearchPublic matches name or description case-insensitively
func (r *TemplateRepository) SearchPublic(ctx context.Context, query string, page models.Page) ([]models.Template, error) {
	q := strings.ToLower(query)
	return r.list(ctx, page, func(t models.Template) bool {
		if !t.IsPublic {
			return false
		}
		if strings.Contains(strings.ToLower(t.Name), q) {
			return true
		}
		return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), q)
	}), nil
}

func (r *TemplateRepository) list(ctx context.Context, page models.Page, keep func(models.Template) bool) []models.Template {
	var recs []record[models.Template]
	r.store.read(ctx, func() {
		recs = make([]record[models.Template], 0, len(r.store.templates))
		for _, rec := range r.store.templates {
			if keep(rec.entity) {
				rec.entity = cloneTemplate(rec.entity)
				recs = append(recs, rec)
			}
		}
	})

	sortNewest(recs, func(t models.Template) time.Time { return t.CreatedAt })
	return window(recs, page)
}
