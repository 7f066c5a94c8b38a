package postgres

import (
	"context"
	"fmt"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, name, description, template_id, user_id, config, status, generated_code, created_at, updated_at`

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a project and fills in id and created_at
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, template_id, user_id, config, status, generated_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.TemplateID,
		project.UserID,
		jsonOrEmpty(project.Config),
		string(project.Status),
		project.GeneratedCode,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("template %s: %w", derefOr(project.TemplateID, ""), domain.ErrNotFound)
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *PostgresProjectRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, projectColumns, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "project", id, "get project")
	}

	return project, nil
}

// GetAll returns every project, newest first
func (r *PostgresProjectRepository) GetAll(ctx context.Context, page models.Page) ([]models.Project, error) {
	return r.list(ctx, "TRUE", "created_at DESC, id", page)
}

// Update persists all mutable fields and stamps updated_at
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	if _, err := uuid.Parse(project.ID); err != nil {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, template_id = $3, config = $4, status = $5,
		    generated_code = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.TemplateID,
		jsonOrEmpty(project.Config),
		string(project.Status),
		project.GeneratedCode,
		project.ID,
	).Scan(&project.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "project", project.ID, "update project")
	}

	return nil
}

// Delete removes a project, reporting whether it existed
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByUser returns a user's projects, newest first
func (r *PostgresProjectRepository) ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Project, error) {
	return r.list(ctx, "user_id = $3", "created_at DESC, id", page, userID)
}

// ListByTemplate returns userID's projects bound to templateID, newest first
func (r *PostgresProjectRepository) ListByTemplate(ctx context.Context, templateID, userID string, page models.Page) ([]models.Project, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return []models.Project{}, nil
	}
	return r.list(ctx, "template_id = $3 AND user_id = $4", "created_at DESC, id", page, templateID, userID)
}

// ListRecent returns a user's most recently touched projects
func (r *PostgresProjectRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.Project, error) {
	return r.list(ctx, "user_id = $3", "COALESCE(updated_at, created_at) DESC, id", models.Page{Limit: limit}, userID)
}

// DetachTemplate clears template_id on every project bound to templateID
func (r *PostgresProjectRepository) DetachTemplate(ctx context.Context, templateID string) (int64, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET template_id = NULL, updated_at = now()
		WHERE template_id = $1
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, templateID)
	if err != nil {
		return 0, fmt.Errorf("detach template %s: %w", templateID, err)
	}

	return result.RowsAffected(), nil
}

// list runs a bounded listing; $1 and $2 are reserved for LIMIT and OFFSET.
func (r *PostgresProjectRepository) list(ctx context.Context, where, orderBy string, page models.Page, args ...interface{}) ([]models.Project, error) {
	page.ApplyDefaults()

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, projectColumns, r.tables.Projects, where, orderBy)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, append([]interface{}{page.Limit, page.Skip}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var status string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.TemplateID,
		&p.UserID,
		&p.Config,
		&status,
		&p.GeneratedCode,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	return &p, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
