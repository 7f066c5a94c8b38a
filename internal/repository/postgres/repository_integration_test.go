//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"
	"codegen/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type fixture struct {
	pool      *pgxpool.Pool
	templates repositories.TemplateRepository
	projects  repositories.ProjectRepository
	tx        repositories.TransactionManager
}

func setupTestDB(t *testing.T) *fixture {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("codegen"),
		tcpostgres.WithUsername("codegen"),
		tcpostgres.WithPassword("codegen"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.CreateConnectionPool(ctx, connStr, postgres.PoolOptions{MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tables := postgres.NewTableNames("test_")
	require.NoError(t, postgres.Migrate(ctx, pool, tables, logger))

	cfg := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	return &fixture{
		pool:      pool,
		templates: postgres.NewTemplateRepository(cfg),
		projects:  postgres.NewProjectRepository(cfg),
		tx:        postgres.NewTransactionManager(pool, logger),
	}
}

func newTemplate(name, category, language, owner string, public bool) *models.Template {
	return &models.Template{
		Name:      name,
		Content:   "package {{pkg}}",
		Category:  category,
		Language:  language,
		Variables: models.JSONMap{"pkg": "string"},
		UserID:    owner,
		IsPublic:  public,
	}
}

func TestPostgresRepositories(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	t.Run("template crud", func(t *testing.T) {
		tpl := newTemplate("Go package", "backend", "go", "alice", true)
		require.NoError(t, f.templates.Create(ctx, tpl))
		assert.NotEmpty(t, tpl.ID)
		assert.False(t, tpl.CreatedAt.IsZero())
		assert.Nil(t, tpl.UpdatedAt)

		got, err := f.templates.Get(ctx, tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go package", got.Name)
		assert.Equal(t, "string", got.Variables["pkg"])

		got.Name = "Go module"
		require.NoError(t, f.templates.Update(ctx, got))
		require.NotNil(t, got.UpdatedAt)

		deleted, err := f.templates.Delete(ctx, tpl.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = f.templates.Delete(ctx, tpl.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = f.templates.Get(ctx, tpl.ID)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		_, err := f.templates.Get(ctx, "not-a-uuid")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		_, err = f.projects.Get(ctx, "not-a-uuid")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("public listings and search", func(t *testing.T) {
		for _, tpl := range []*models.Template{
			newTemplate("React component", "frontend", "typescript", "bob", true),
			newTemplate("Flask app", "backend", "python", "bob", true),
			newTemplate("100%_private", "backend", "python", "bob", false),
		} {
			require.NoError(t, f.templates.Create(ctx, tpl))
		}

		page := models.Page{Limit: 20}

		backend, err := f.templates.ListPublicByCategory(ctx, "backend", page)
		require.NoError(t, err)
		require.Len(t, backend, 1)
		assert.Equal(t, "Flask app", backend[0].Name)

		python, err := f.templates.ListPublicByLanguage(ctx, "python", page)
		require.NoError(t, err)
		assert.Len(t, python, 1)

		mine, err := f.templates.ListByUser(ctx, "bob", page)
		require.NoError(t, err)
		require.Len(t, mine, 3)
		assert.Equal(t, "100%_private", mine[0].Name)

		found, err := f.templates.SearchPublic(ctx, "REACT", page)
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = f.templates.SearchPublic(ctx, "%", page)
		require.NoError(t, err)
		assert.Empty(t, found)

		limited, err := f.templates.ListPublic(ctx, models.Page{Skip: 1, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("project lifecycle and template detach", func(t *testing.T) {
		tpl := newTemplate("CLI", "tools", "go", "carol", false)
		require.NoError(t, f.templates.Create(ctx, tpl))

		project := &models.Project{
			Name:       "mytool",
			TemplateID: &tpl.ID,
			UserID:     "carol",
			Status:     models.ProjectStatusDraft,
		}
		require.NoError(t, f.projects.Create(ctx, project))
		assert.NotEmpty(t, project.ID)

		got, err := f.projects.Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusDraft, got.Status)
		assert.NotNil(t, got.Config)
		assert.Nil(t, got.GeneratedCode)

		got.MarkGenerated("package main")
		require.NoError(t, f.projects.Update(ctx, got))

		byTemplate, err := f.projects.ListByTemplate(ctx, tpl.ID, "carol", models.Page{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, byTemplate, 1)

		err = f.tx.ExecTx(ctx, func(ctx context.Context) error {
			n, err := f.projects.DetachTemplate(ctx, tpl.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, int64(1), n)
			_, err = f.templates.Delete(ctx, tpl.ID)
			return err
		})
		require.NoError(t, err)

		got, err = f.projects.Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Nil(t, got.TemplateID)
		assert.Equal(t, models.ProjectStatusGenerated, got.Status)
		require.NotNil(t, got.GeneratedCode)
		assert.Equal(t, "package main", *got.GeneratedCode)
	})

	t.Run("recent orders by last touch", func(t *testing.T) {
		first := &models.Project{Name: "first", UserID: "dave", Status: models.ProjectStatusDraft}
		second := &models.Project{Name: "second", UserID: "dave", Status: models.ProjectStatusDraft}
		require.NoError(t, f.projects.Create(ctx, first))
		require.NoError(t, f.projects.Create(ctx, second))

		first.Name = "first (edited)"
		require.NoError(t, f.projects.Update(ctx, first))

		recent, err := f.projects.ListRecent(ctx, "dave", 10)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, first.ID, recent[0].ID)

		all, err := f.projects.ListByUser(ctx, "dave", models.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
	})

	t.Run("rollback discards the unit", func(t *testing.T) {
		boom := errors.New("boom")
		var id string
		err := f.tx.ExecTx(ctx, func(ctx context.Context) error {
			p := &models.Project{Name: "ghost", UserID: "erin", Status: models.ProjectStatusDraft}
			if err := f.projects.Create(ctx, p); err != nil {
				return err
			}
			id = p.ID
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = f.projects.Get(ctx, id)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
