package service

import (
	"io"
	"log/slog"
	"testing"

	"codegen/internal/domain/repositories"
	"codegen/internal/domain/services"
	"codegen/internal/lock"
	"codegen/internal/repository/memory"
	svcauth "codegen/internal/service/auth"
	"codegen/internal/service/codegen"
)

type testEnv struct {
	templates    services.TemplateService
	projects     services.ProjectService
	templateRepo repositories.TemplateRepository
	projectRepo  repositories.ProjectRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	templateRepo := memory.NewTemplateRepository(store)
	projectRepo := memory.NewProjectRepository(store)
	txManager := memory.NewTransactionManager(store)
	authorizer := svcauth.NewOwnerBasedAuthorizer(templateRepo, projectRepo)
	engine := codegen.NewEngine()

	return &testEnv{
		templates:    NewTemplateService(templateRepo, projectRepo, txManager, authorizer, engine, logger),
		projects:     NewProjectService(projectRepo, templateRepo, txManager, authorizer, engine, lock.NewMemoryLocker(), logger),
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
	}
}

func strPtr(s string) *string { return &s }
