package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"

	"github.com/google/uuid"
)

// ProjectRepository implements repositories.ProjectRepository over a Store
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository creates a project repository backed by store
func NewProjectRepository(store *Store) repositories.ProjectRepository {
	return &ProjectRepository{store: store}
}

func cloneProject(p models.Project) models.Project {
	p.Description = cloneString(p.Description)
	p.TemplateID = cloneString(p.TemplateID)
	p.GeneratedCode = cloneString(p.GeneratedCode)
	p.UpdatedAt = cloneTime(p.UpdatedAt)
	p.Config = maps.Clone(p.Config)
	if p.Config == nil {
		p.Config = models.JSONMap{}
	}
	return p
}

// Create stores a copy of project and assigns id and created_at.
// A template reference must resolve, mirroring the foreign key.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	var err error
	r.store.write(ctx, func() {
		if project.HasTemplate() {
			if _, ok := r.store.templates[*project.TemplateID]; !ok {
				err = fmt.Errorf("template %s: %w", *project.TemplateID, domain.ErrNotFound)
				return
			}
		}
		project.ID = uuid.NewString()
		project.CreatedAt = r.store.now()
		project.UpdatedAt = nil
		r.store.projects[project.ID] = record[models.Project]{
			seq:    r.store.nextSeq(),
			entity: cloneProject(*project),
		}
	})
	return err
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	var (
		p  models.Project
		ok bool
	)
	r.store.read(ctx, func() {
		var rec record[models.Project]
		if rec, ok = r.store.projects[id]; ok {
			p = cloneProject(rec.entity)
		}
	})
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// GetAll returns every project, newest first
func (r *ProjectRepository) GetAll(ctx context.Context, page models.Page) ([]models.Project, error) {
	recs := r.collect(ctx, func(models.Project) bool { return true })
	sortNewest(recs, func(p models.Project) time.Time { return p.CreatedAt })
	return window(recs, page), nil
}

// Update replaces the stored project and stamps updated_at
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	var err error
	r.store.write(ctx, func() {
		rec, ok := r.store.projects[project.ID]
		if !ok {
			err = fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
			return
		}
		now := r.store.now()
		project.UpdatedAt = &now
		project.CreatedAt = rec.entity.CreatedAt
		project.UserID = rec.entity.UserID
		rec.entity = cloneProject(*project)
		r.store.projects[project.ID] = rec
	})
	return err
}

// Delete removes a project, reporting whether it existed
func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	var existed bool
	r.store.write(ctx, func() {
		_, existed = r.store.projects[id]
		delete(r.store.projects, id)
	})
	return existed, nil
}

// ListByUser returns a user's projects, newest first
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Project, error) {
	recs := r.collect(ctx, func(p models.Project) bool { return p.UserID == userID })
	sortNewest(recs, func(p models.Project) time.Time { return p.CreatedAt })
	return window(recs, page), nil
}

// ListByTemplate returns userID's projects bound to templateID, newest first
func (r *ProjectRepository) ListByTemplate(ctx context.Context, templateID, userID string, page models.Page) ([]models.Project, error) {
	recs := r.collect(ctx, func(p models.Project) bool {
		return p.UserID == userID && p.HasTemplate() && *p.TemplateID == templateID
	})
	sortNewest(recs, func(p models.Project) time.Time { return p.CreatedAt })
	return window(recs, page), nil
}

// ListRecent returns a user's most recently touched projects
func (r *ProjectRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.Project, error) {
	recs := r.collect(ctx, func(p models.Project) bool { return p.UserID == userID })
	touched := func(p models.Project) time.Time {
		if p.UpdatedAt != nil {
			return *p.UpdatedAt
		}
		return p.CreatedAt
	}
	sort.SliceStable(recs, func(i, j int) bool {
		ti, tj := touched(recs[i].entity), touched(recs[j].entity)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return recs[i].seq > recs[j].seq
	})
	return window(recs, models.Page{Limit: limit}), nil
}

// DetachTemplate clears template_id on every project bound to templateID
func (r *ProjectRepository) DetachTemplate(ctx context.Context, templateID string) (int64, error) {
	var n int64
	r.store.write(ctx, func() {
		now := r.store.now()
		for id, rec := range r.store.projects {
			if rec.entity.TemplateID == nil || *rec.entity.TemplateID != templateID {
				continue
			}
			rec.entity = cloneProject(rec.entity)
			rec.entity.TemplateID = nil
			rec.entity.UpdatedAt = &now
			r.store.projects[id] = rec
			n++
		}
	})
	return n, nil
}

func (r *ProjectRepository) collect(ctx context.Context, keep func(models.Project) bool) []record[models.Project] {
	var recs []record[models.Project]
	r.store.read(ctx, func() {
		recs = make([]record[models.Project], 0, len(r.store.projects))
		for _, rec := range r.store.projects {
			if keep(rec.entity) {
				rec.entity = cloneProject(rec.entity)
				recs = append(recs, rec)
			}
		}
	})
	return recs
}
