package postgres

import (
	"context"
	"fmt"
	"strings"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateColumns = `id, name, description, content, category, language, variables, user_id, is_public, created_at, updated_at`

// PostgresTemplateRepository implements the TemplateRepository interface
type PostgresTemplateRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(config *RepositoryConfig) repositories.TemplateRepository {
	return &PostgresTemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a template and fills in id and created_at
func (r *PostgresTemplateRepository) Create(ctx context.Context, template *models.Template) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, content, category, language, variables, user_id, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		template.Name,
		template.Description,
		template.Content,
		template.Category,
		template.Language,
		jsonOrEmpty(template.Variables),
		template.UserID,
		template.IsPublic,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// Get retrieves a template by ID
func (r *PostgresTemplateRepository) Get(ctx context.Context, id string) (*models.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, templateColumns, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	template, err := scanTemplate(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "template", id, "get template")
	}

	return template, nil
}

// GetAll returns every template, newest first
func (r *PostgresTemplateRepository) GetAll(ctx context.Context, page models.Page) ([]models.Template, error) {
	return r.list(ctx, "TRUE", page)
}

// Update persists all mutable fields and stamps updated_at
func (r *PostgresTemplateRepository) Update(ctx context.Context, template *models.Template) error {
	if _, err := uuid.Parse(template.ID); err != nil {
		return fmt.Errorf("template %s: %w", template.ID, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, content = $3, category = $4, language = $5,
		    variables = $6, is_public = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at
	`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		template.Name,
		template.Description,
		template.Content,
		template.Category,
		template.Language,
		jsonOrEmpty(template.Variables),
		template.IsPublic,
		template.ID,
	).Scan(&template.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "template", template.ID, "update template")
	}

	return nil
}

// Delete removes a template, reporting whether it existed
func (r *PostgresTemplateRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Templates)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByUser returns all templates owned by userID
func (r *PostgresTemplateRepository) ListByUser(ctx context.Context, userID string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, "user_id = $3", page, userID)
}

// ListPublic returns public templates
func (r *PostgresTemplateRepository) ListPublic(ctx context.Context, page models.Page) ([]models.Template, error) {
	return r.list(ctx, "is_public", page)
}

// ListPublicByCategory returns public templates in a category
func (r *PostgresTemplateRepository) ListPublicByCategory(ctx context.Context, category string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, "is_public AND category = $3", page, category)
}

// ListPublicByLanguage returns public templates for a language
func (r *PostgresTemplateRepository) ListPublicByLanguage(ctx context.Context, language string, page models.Page) ([]models.Template, error) {
	return r.list(ctx, "is_public AND language = $3", page, language)
}

// SearchPublic matches name or description case-insensitively.
// LIKE wildcards in query are matched literally.
func (r *PostgresTemplateRepository) SearchPublic(ctx context.Context, query string, page models.Page) ([]models.Template, error) {
	where := `is_public AND (name ILIKE $3 ESCAPE '\' OR description ILIKE $3 ESCAPE '\')`
	return r.list(ctx, where, page, "%"+escapeLike(query)+"%")
}

// list runs a newest-first listing; $1 and $2 are reserved for LIMIT and OFFSET.
func (r *PostgresTemplateRepository) list(ctx context.Context, where string, page models.Page, args ...interface{}) ([]models.Template, error) {
	page.ApplyDefaults()

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, templateColumns, r.tables.Templates, where)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, append([]interface{}{page.Limit, page.Skip}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var t models.Template
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Content,
		&t.Category,
		&t.Language,
		&t.Variables,
		&t.UserID,
		&t.IsPublic,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func jsonOrEmpty(m models.JSONMap) models.JSONMap {
	if m == nil {
		return models.JSONMap{}
	}
	return m
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
