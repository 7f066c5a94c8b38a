package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTemplate(t *testing.T, env *testEnv, owner, name, category, language, content string, public bool) *models.Template {
	t.Helper()
	tpl, err := env.templates.CreateTemplate(context.Background(), &services.CreateTemplateRequest{
		UserID:   owner,
		Name:     name,
		Content:  content,
		Category: category,
		Language: language,
		IsPublic: public,
	})
	require.NoError(t, err)
	return tpl
}

func TestTemplateService_CreateTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID:   "alice",
		Name:     "  Go handler  ",
		Content:  "func {{name}}() {}",
		Category: "backend",
		Language: "go",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, "Go handler", tpl.Name)
	assert.Equal(t, "alice", tpl.UserID)
	assert.False(t, tpl.IsPublic)
	assert.NotNil(t, tpl.Variables)
	assert.False(t, tpl.CreatedAt.IsZero())

	// Placeholder balance is only checked when rendering
	malformed, err := env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID: "alice", Name: "broken", Content: "{{a} and {{b}}", Category: "misc", Language: "text",
	})
	require.NoError(t, err)
	assert.Equal(t, "{{a} and {{b}}", malformed.Content)
}

func TestTemplateService_CreateTemplate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := func() *services.CreateTemplateRequest {
		return &services.CreateTemplateRequest{UserID: "u", Name: "n", Content: "c", Category: "cat", Language: "go"}
	}

	tests := []struct {
		name   string
		mutate func(*services.CreateTemplateRequest)
	}{
		{"empty name", func(r *services.CreateTemplateRequest) { r.Name = "" }},
		{"blank name", func(r *services.CreateTemplateRequest) { r.Name = "   " }},
		{"long name", func(r *services.CreateTemplateRequest) { r.Name = strings.Repeat("n", 256) }},
		{"empty content", func(r *services.CreateTemplateRequest) { r.Content = "" }},
		{"empty category", func(r *services.CreateTemplateRequest) { r.Category = "" }},
		{"long category", func(r *services.CreateTemplateRequest) { r.Category = strings.Repeat("c", 101) }},
		{"empty language", func(r *services.CreateTemplateRequest) { r.Language = "" }},
		{"long language", func(r *services.CreateTemplateRequest) { r.Language = strings.Repeat("l", 51) }},
		{"no owner", func(r *services.CreateTemplateRequest) { r.UserID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := env.templates.CreateTemplate(ctx, req)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}

	_, err := env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID: "u", Name: strings.Repeat("n", 255), Content: "c", Category: "cat", Language: "go",
	})
	assert.NoError(t, err)
}

func TestTemplateService_GetTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	private := createTemplate(t, env, "alice", "secret", "misc", "go", "x", false)

	// Any caller holding the id may read it
	got, err := env.templates.GetTemplate(ctx, private.ID)
	require.NoError(t, err)
	assert.Equal(t, private.ID, got.ID)

	_, err = env.templates.GetTemplate(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTemplateService_UpdateTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tpl, err := env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID: "alice", Name: "orig", Description: strPtr("desc"), Content: "{{x}}", Category: "cat", Language: "go",
	})
	require.NoError(t, err)

	t.Run("only present fields change", func(t *testing.T) {
		updated, err := env.templates.UpdateTemplate(ctx, tpl.ID, "alice", &services.UpdateTemplateRequest{
			Name:     strPtr("renamed"),
			IsPublic: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Name)
		assert.True(t, updated.IsPublic)
		assert.Equal(t, "{{x}}", updated.Content)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "desc", *updated.Description)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("explicit null clears description", func(t *testing.T) {
		updated, err := env.templates.UpdateTemplate(ctx, tpl.ID, "alice", &services.UpdateTemplateRequest{
			Description: models.OptionalString{Present: true},
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
		assert.Equal(t, "renamed", updated.Name)
	})

	t.Run("other caller is forbidden regardless of fields", func(t *testing.T) {
		for _, req := range []*services.UpdateTemplateRequest{
			{},
			{Name: strPtr("hijack")},
			{Name: strPtr("")},
		} {
			_, err := env.templates.UpdateTemplate(ctx, tpl.ID, "mallory", req)
			assert.True(t, errors.Is(err, domain.ErrForbidden), "got %v", err)
		}

		got, err := env.templates.GetTemplate(ctx, tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
	})

	t.Run("anonymous caller is forbidden", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, tpl.ID, "", &services.UpdateTemplateRequest{})
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("missing template is not found before forbidden", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, "missing", "mallory", &services.UpdateTemplateRequest{})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("owner gets validation errors", func(t *testing.T) {
		_, err := env.templates.UpdateTemplate(ctx, tpl.ID, "alice", &services.UpdateTemplateRequest{Category: strPtr(" ")})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestTemplateService_DeleteTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tpl := createTemplate(t, env, "alice", "t", "cat", "go", "package {{pkg}}", false)
	project, err := env.projects.CreateProject(ctx, &services.CreateProjectRequest{
		UserID: "alice", Name: "p", TemplateID: tpl.ID,
	})
	require.NoError(t, err)

	_, err = env.templates.DeleteTemplate(ctx, tpl.ID, "mallory")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	deleted, err := env.templates.DeleteTemplate(ctx, tpl.ID, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = env.templates.GetTemplate(ctx, tpl.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// The project survives with its reference cleared
	got, err := env.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TemplateID)

	_, err = env.templates.DeleteTemplate(ctx, tpl.ID, "alice")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTemplateService_ListTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	api1 := createTemplate(t, env, "alice", "api one", "API", "python", "x", true)
	createTemplate(t, env, "alice", "api private", "API", "python", "x", false)
	createTemplate(t, env, "bob", "web", "frontend", "typescript", "x", true)
	api2 := createTemplate(t, env, "bob", "api two", "API", "go", "x", true)

	names := func(ts []models.Template) []string {
		out := make([]string, len(ts))
		for i, tpl := range ts {
			out[i] = tpl.Name
		}
		return out
	}

	t.Run("category returns public only, newest first", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{Category: "API", Page: models.Page{Limit: 10}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, api2.ID, got[0].ID)
		assert.Equal(t, api1.ID, got[1].ID)
		for _, tpl := range got {
			assert.True(t, tpl.IsPublic)
			assert.Equal(t, "API", tpl.Category)
		}
	})

	t.Run("category respects skip and limit", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{Category: "API", Page: models.Page{Skip: 1, Limit: 1}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, api1.ID, got[0].ID)
	})

	t.Run("owner filter wins over category", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{UserID: "alice", Category: "frontend"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"api one", "api private"}, names(got))
	})

	t.Run("public only ignores owner", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{UserID: "alice", PublicOnly: true, Category: "frontend"})
		require.NoError(t, err)
		assert.Equal(t, []string{"web"}, names(got))
	})

	t.Run("category wins over language", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{Category: "frontend", Language: "go"})
		require.NoError(t, err)
		assert.Equal(t, []string{"web"}, names(got))
	})

	t.Run("language", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{Language: "python"})
		require.NoError(t, err)
		assert.Equal(t, []string{"api one"}, names(got))
	})

	t.Run("all public", func(t *testing.T) {
		got, err := env.templates.ListTemplates(ctx, models.TemplateFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"api two", "web", "api one"}, names(got))
	})
}

func TestTemplateService_SearchTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID: "a", Name: "Kafka consumer", Description: strPtr("Reads EVENTS from a topic"), Content: "x", Category: "c", Language: "go", IsPublic: true,
	})
	require.NoError(t, err)
	_, err = env.templates.CreateTemplate(ctx, &services.CreateTemplateRequest{
		UserID: "a", Name: "Event sourcing", Content: "x", Category: "c", Language: "go", IsPublic: false,
	})
	require.NoError(t, err)

	got, err := env.templates.SearchTemplates(ctx, "events", models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kafka consumer", got[0].Name)

	got, err = env.templates.SearchTemplates(ctx, "KAFKA", models.Page{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = env.templates.SearchTemplates(ctx, "  ", models.Page{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTemplateService_PreviewTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tpl := createTemplate(t, env, "a", "t", "c", "python", "def {{fn}}():\n    {{body}}", true)
	preview, err := env.templates.PreviewTemplate(ctx, tpl.ID, map[string]interface{}{"fn": "foo"})
	require.NoError(t, err)
	assert.True(t, preview.Valid)
	assert.Equal(t, []string{"fn", "body"}, preview.Placeholders)
	assert.Equal(t, "def foo():\n    {{body}}", preview.Content)

	broken := createTemplate(t, env, "a", "b", "c", "text", "{{a} and {{b}}", true)
	preview, err = env.templates.PreviewTemplate(ctx, broken.ID, map[string]interface{}{"b": 1})
	require.NoError(t, err)
	assert.False(t, preview.Valid)
	assert.Equal(t, "{{a} and {{b}}", preview.Content)

	_, err = env.templates.PreviewTemplate(ctx, "missing", nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func boolPtr(b bool) *bool { return &b }
