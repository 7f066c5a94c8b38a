package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codegen/internal/config"
	"codegen/internal/domain"
	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"
	"codegen/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// templateService implements the TemplateService interface
type templateService struct {
	templateRepo repositories.TemplateRepository
	projectRepo  repositories.ProjectRepository
	txManager    repositories.TransactionManager
	authorizer   services.ResourceAuthorizer
	engine       services.CodeGenerator
	logger       *slog.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo repositories.TemplateRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	engine services.CodeGenerator,
	logger *slog.Logger,
) services.TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
		txManager:    txManager,
		authorizer:   authorizer,
		engine:       engine,
		logger:       logger,
	}
}

// CreateTemplate creates a template owned by req.UserID.
// Placeholder balance is not checked here; it is enforced at render time.
func (s *templateService) CreateTemplate(ctx context.Context, req *services.CreateTemplateRequest) (*models.Template, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Language = strings.TrimSpace(req.Language)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	variables := req.Variables
	if variables == nil {
		variables = models.JSONMap{}
	}

	template := &models.Template{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Language:    req.Language,
		Variables:   variables,
		UserID:      req.UserID,
		IsPublic:    req.IsPublic,
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info("template created",
		"id", template.ID,
		"name", template.Name,
		"user_id", req.UserID,
		"public", template.IsPublic,
	)

	return template, nil
}

// GetTemplate retrieves a template by ID. Visibility is not checked:
// sharing an id is the read access model.
func (s *templateService) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	return s.templateRepo.Get(ctx, id)
}

// UpdateTemplate applies the fields present in req. Existence and ownership
// are checked before the supplied fields are looked at.
func (s *templateService) UpdateTemplate(ctx context.Context, id, userID string, req *services.UpdateTemplateRequest) (*models.Template, error) {
	var template *models.Template

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		template, err = s.authorizer.AuthorizeTemplate(ctx, userID, id)
		if err != nil {
			return err
		}

		trimPtr(req.Name)
		trimPtr(req.Category)
		trimPtr(req.Language)
		if err := s.validateUpdateRequest(req); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		if req.Name != nil {
			template.Name = *req.Name
		}
		req.Description.Apply(&template.Description)
		if req.Content != nil {
			template.Content = *req.Content
		}
		if req.Category != nil {
			template.Category = *req.Category
		}
		if req.Language != nil {
			template.Language = *req.Language
		}
		if req.Variables != nil {
			template.Variables = *req.Variables
			if template.Variables == nil {
				template.Variables = models.JSONMap{}
			}
		}
		if req.IsPublic != nil {
			template.IsPublic = *req.IsPublic
		}

		return s.templateRepo.Update(ctx, template)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template updated",
		"id", template.ID,
		"user_id", userID,
	)

	return template, nil
}

// DeleteTemplate deletes a template. Projects bound to it are detached in
// the same unit of work and stay readable with no template.
func (s *templateService) DeleteTemplate(ctx context.Context, id, userID string) (bool, error) {
	var (
		deleted  bool
		detached int64
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := s.authorizer.AuthorizeTemplate(ctx, userID, id); err != nil {
			return err
		}

		var err error
		detached, err = s.projectRepo.DetachTemplate(ctx, id)
		if err != nil {
			return err
		}

		deleted, err = s.templateRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("template deleted",
		"id", id,
		"user_id", userID,
		"detached_projects", detached,
	)

	return deleted, nil
}

// ListTemplates picks exactly one listing by fixed priority:
// owner (unless public-only) > category > language > all public.
func (s *templateService) ListTemplates(ctx context.Context, filter models.TemplateFilter) ([]models.Template, error) {
	page := filter.Page
	page.ApplyDefaults()

	switch {
	case filter.UserID != "" && !filter.PublicOnly:
		return s.templateRepo.ListByUser(ctx, filter.UserID, page)
	case filter.Category != "":
		return s.templateRepo.ListPublicByCategory(ctx, filter.Category, page)
	case filter.Language != "":
		return s.templateRepo.ListPublicByLanguage(ctx, filter.Language, page)
	default:
		return s.templateRepo.ListPublic(ctx, page)
	}
}

// SearchTemplates searches public templates by name or description
func (s *templateService) SearchTemplates(ctx context.Context, query string, page models.Page) ([]models.Template, error) {
	query = strings.TrimSpace(query)
	err := validation.Validate(query,
		validation.Required.Error("search query is required"),
		validation.RuneLength(1, config.MaxSearchQueryLength),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	page.ApplyDefaults()
	return s.templateRepo.SearchPublic(ctx, query, page)
}

// PreviewTemplate renders a stored template with variables without persisting
// anything. A malformed template yields Valid=false and the unrendered content.
func (s *templateService) PreviewTemplate(ctx context.Context, id string, variables map[string]interface{}) (*models.RenderPreview, error) {
	template, err := s.templateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	preview := &models.RenderPreview{
		TemplateID:   template.ID,
		Valid:        s.engine.Validate(template.Content),
		Placeholders: s.engine.Placeholders(template.Content),
		Content:      template.Content,
	}

	if preview.Valid {
		rendered, err := s.engine.Render(template.Content, variables)
		if err != nil {
			return nil, err
		}
		preview.Content = rendered
	}

	return preview, nil
}

// validateCreateRequest validates a create template request
func (s *templateService) validateCreateRequest(req *services.CreateTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Name,
			validation.Required.Error("template name is required"),
			validation.RuneLength(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Content, validation.Required.Error("template content is required")),
		validation.Field(&req.Category,
			validation.Required.Error("category is required"),
			validation.RuneLength(1, config.MaxCategoryLength),
		),
		validation.Field(&req.Language,
			validation.Required.Error("language is required"),
			validation.RuneLength(1, config.MaxLanguageLength),
		),
	)
}

// validateUpdateRequest validates the fields present in an update request
func (s *templateService) validateUpdateRequest(req *services.UpdateTemplateRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty.Error("template name cannot be empty"),
			validation.RuneLength(1, config.MaxTemplateNameLength),
		),
		validation.Field(&req.Content, validation.NilOrNotEmpty.Error("template content cannot be empty")),
		validation.Field(&req.Category,
			validation.NilOrNotEmpty.Error("category cannot be empty"),
			validation.RuneLength(1, config.MaxCategoryLength),
		),
		validation.Field(&req.Language,
			validation.NilOrNotEmpty.Error("language cannot be empty"),
			validation.RuneLength(1, config.MaxLanguageLength),
		),
	)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
