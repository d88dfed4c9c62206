package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/errs"
	"github.com/rwidyatama/go-genai-service/internal/lib/prompt"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// TemplateService manages prompt templates. Template bodies are validated
// as Go templates on every write so broken syntax is rejected at save time,
// not at render time.
type TemplateService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewTemplateService(s *server.Server, repos *repository.Repositories) *TemplateService {
	return &TemplateService{server: s, repos: repos}
}

// TemplateInput carries the writable fields of a prompt template.
type TemplateInput struct {
	Name        string
	Description string
	Body        string
	Model       *string
	Temperature *float64
	MaxTokens   *int
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (*domain.PromptTemplate, error) {
	if err := prompt.Validate(input.Body); err != nil {
		return nil, errs.NewBadRequestError("Template body is not a valid template: "+err.Error(), true, nil, nil, nil)
	}

	tmpl := &domain.PromptTemplate{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Body:        input.Body,
		Model:       input.Model,
		Temperature: input.Temperature,
		MaxTokens:   input.MaxTokens,
	}

	if err := s.repos.Template.Create(ctx, tmpl); err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Str("template_id", tmpl.ID.String()).
		Str("name", tmpl.Name).
		Msg("prompt template created")

	return tmpl, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.PromptTemplate, error) {
	return s.repos.Template.GetByID(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context, limit, offset int) ([]domain.PromptTemplate, int64, error) {
	return s.repos.Template.List(ctx, limit, offset)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*domain.PromptTemplate, error) {
	if err := prompt.Validate(input.Body); err != nil {
		return nil, errs.NewBadRequestError("Template body is not a valid template: "+err.Error(), true, nil, nil, nil)
	}

	tmpl, err := s.repos.Template.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tmpl.Name = input.Name
	tmpl.Description = input.Description
	tmpl.Body = input.Body
	tmpl.Model = input.Model
	tmpl.Temperature = input.Temperature
	tmpl.MaxTokens = input.MaxTokens

	if err := s.repos.Template.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.repos.Template.Delete(ctx, id)
}

// RenderTemplate renders a template's body with vars without generating a
// completion. Useful for previewing what would be sent to the model.
func (s *TemplateService) RenderTemplate(ctx context.Context, id uuid.UUID, vars map[string]any) (string, error) {
	tmpl, err := s.repos.Template.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	rendered, err := prompt.Render(tmpl.Body, vars)
	if err != nil {
		return "", errs.NewBadRequestError("Failed to render template: "+err.Error(), true, nil, nil, nil)
	}
	return rendered, nil
}
