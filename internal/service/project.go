package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codegen/internal/config"
	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"
	"codegen/internal/domain/services"
	"codegen/internal/lock"
	"codegen/internal/metrics"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo  repositories.ProjectRepository
	templateRepo repositories.TemplateRepository
	txManager    repositories.TransactionManager
	authorizer   services.ResourceAuthorizer
	engine       services.CodeGenerator
	locker       lock.Locker
	logger       *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	templateRepo repositories.TemplateRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	engine services.CodeGenerator,
	locker lock.Locker,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		templateRepo: templateRepo,
		txManager:    txManager,
		authorizer:   authorizer,
		engine:       engine,
		locker:       locker,
		logger:       logger,
	}
}

// CreateProject creates a draft project. The template must exist at creation time.
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.TemplateID = strings.TrimSpace(req.TemplateID)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	cfg := req.Config
	if cfg == nil {
		cfg = models.JSONMap{}
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		UserID:      req.UserID,
		Config:      cfg,
		Status:      models.ProjectStatusDraft,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		template, err := s.templateRepo.Get(ctx, req.TemplateID)
		if err != nil {
			return err
		}
		project.TemplateID = &template.ID

		return s.projectRepo.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"template_id", req.TemplateID,
		"user_id", req.UserID,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.Get(ctx, id)
}

// UpdateProject applies the fields present in req; owner only.
func (s *projectService) UpdateProject(ctx context.Context, id, userID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	var project *models.Project

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		project, err = s.authorizer.AuthorizeProject(ctx, userID, id)
		if err != nil {
			return err
		}

		trimPtr(req.Name)
		if err := s.validateUpdateRequest(req); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		if req.Name != nil {
			project.Name = *req.Name
		}
		req.Description.Apply(&project.Description)
		if req.Config != nil {
			project.Config = *req.Config
			if project.Config == nil {
				project.Config = models.JSONMap{}
			}
		}

		return s.projectRepo.Update(ctx, project)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject deletes a project; owner only
func (s *projectService) DeleteProject(ctx context.Context, id, userID string) (bool, error) {
	var deleted bool

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.authorizer.AuthorizeProject(ctx, userID, id); err != nil {
			return err
		}

		var err error
		deleted, err = s.projectRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("project deleted",
		"id", id,
		"user_id", userID,
	)

	return deleted, nil
}

// GenerateCode runs the generation pipeline:
// existence → ownership → bound template → template resolution → render → persist.
// Runs for the same project are serialized and each run commits as one unit.
func (s *projectService) GenerateCode(ctx context.Context, id, userID string, variables map[string]interface{}) (*models.Project, error) {
	start := time.Now()

	unlock, err := s.locker.Lock(ctx, "project:"+id)
	if err != nil {
		metrics.ObserveGeneration(metrics.GenerationFailed, time.Since(start), 0)
		return nil, fmt.Errorf("acquire generation lock for project %s: %w", id, err)
	}
	defer unlock()

	var project *models.Project
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		project, err = s.authorizer.AuthorizeProject(ctx, userID, id)
		if err != nil {
			return err
		}

		if !project.HasTemplate() {
			return fmt.Errorf("project %s has no template bound: %w", id, domain.ErrInvalidState)
		}

		template, err := s.templateRepo.Get(ctx, *project.TemplateID)
		if err != nil {
			return err
		}

		code, err := s.engine.Render(template.Content, variables)
		if err != nil {
			return err
		}

		project.MarkGenerated(code)
		return s.projectRepo.Update(ctx, project)
	})

	result := generationResult(err)
	if err != nil {
		metrics.ObserveGeneration(result, time.Since(start), 0)
		s.logger.Warn("code generation failed",
			"project_id", id,
			"user_id", userID,
			"result", result,
			"error", err,
		)
		return nil, err
	}

	metrics.ObserveGeneration(result, time.Since(start), len(*project.GeneratedCode))
	s.logger.Info("code generated",
		"project_id", id,
		"template_id", *project.TemplateID,
		"user_id", userID,
		"bytes", len(*project.GeneratedCode),
	)

	return project, nil
}

// GetGeneratedCode returns the latest output and status
func (s *projectService) GetGeneratedCode(ctx context.Context, id string) (*models.ProjectCode, error) {
	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ProjectCode{
		ProjectID: project.ID,
		Code:      project.GeneratedCode,
		Status:    project.Status,
	}, nil
}

// ListProjects lists a user's projects, newest first
func (s *projectService) ListProjects(ctx context.Context, userID string, page models.Page) ([]models.Project, error) {
	page.ApplyDefaults()
	return s.projectRepo.ListByUser(ctx, userID, page)
}

// RecentProjects lists a user's most recently touched projects
func (s *projectService) RecentProjects(ctx context.Context, userID string, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = models.DefaultRecent
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}
	return s.projectRepo.ListRecent(ctx, userID, limit)
}

// ListProjectsForTemplate lists a user's projects bound to a template
func (s *projectService) ListProjectsForTemplate(ctx context.Context, templateID, userID string, page models.Page) ([]models.Project, error) {
	page.ApplyDefaults()
	return s.projectRepo.ListByTemplate(ctx, templateID, userID, page)
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Name,
			validation.Required.Error("project name is required"),
			validation.RuneLength(1, config.MaxProjectNameLength),
		),
		validation.Field(&req.TemplateID, validation.Required.Error("template_id is required")),
	)
}

// validateUpdateRequest validates the fields present in an update request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty.Error("project name cannot be empty"),
			validation.RuneLength(1, config.MaxProjectNameLength),
		),
	)
}

func generationResult(err error) string {
	switch {
	case err == nil:
		return metrics.GenerationSucceeded
	case errors.Is(err, domain.ErrTemplateMalformed):
		return metrics.GenerationMalformed
	case errors.Is(err, domain.ErrInvalidState):
		return metrics.GenerationInvalidState
	default:
		return metrics.GenerationFailed
	}
}
