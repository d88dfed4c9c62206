package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/middleware"
	"github.com/rwidyatama/go-genai-service/internal/server"
	"github.com/rwidyatama/go-genai-service/internal/service"
	"github.com/rwidyatama/go-genai-service/internal/validation"
)

// TemplateHandler serves prompt template CRUD, rendering previews, and
// template-based completion generation.
type TemplateHandler struct {
	Handler
	templateService   *service.TemplateService
	completionService *service.CompletionService
}

func NewTemplateHandler(s *server.Server, templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		Handler:         NewHandler(s),
		templateService: templateService,
	}
}

// WithCompletionService wires the completion service used by the
// template-based generation endpoint.
func (h *TemplateHandler) WithCompletionService(completionService *service.CompletionService) *TemplateHandler {
	h.completionService = completionService
	return h
}

// SaveTemplateRequest is the payload for creating and updating templates.
type SaveTemplateRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=128"`
	Description string   `json:"description" validate:"omitempty,max=1024"`
	Body        string   `json:"body" validate:"required,min=1,max=32768"`
	Model       *string  `json:"model" validate:"omitempty,max=128"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `json:"max_tokens" validate:"omitempty,min=1,max=32768"`
}

func (r *SaveTemplateRequest) Validate() error {
	return validate.Struct(r)
}

func (r *SaveTemplateRequest) toInput() service.TemplateInput {
	return service.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		Body:        r.Body,
		Model:       r.Model,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	}
}

// UpdateTemplateRequest is SaveTemplateRequest addressed by path parameter.
type UpdateTemplateRequest struct {
	ID string `param:"id"`
	SaveTemplateRequest
}

func (r *UpdateTemplateRequest) Validate() error {
	if !validation.IsValidUUID(r.ID) {
		return validation.CustomValidationErrors{{
			Field:   "id",
			Message: "must be a valid UUID",
		}}
	}
	return r.SaveTemplateRequest.Validate()
}

// TemplateIDRequest addresses a single template by path parameter.
type TemplateIDRequest struct {
	ID string `param:"id"`
}

func (r *TemplateIDRequest) Validate() error {
	if !validation.IsValidUUID(r.ID) {
		return validation.CustomValidationErrors{{
			Field:   "id",
			Message: "must be a valid UUID",
		}}
	}
	return nil
}

// ListTemplatesRequest carries the query parameters of GET /v1/templates.
type ListTemplatesRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

func (r *ListTemplatesRequest) Validate() error {
	return validate.Struct(r)
}

// ListTemplatesResponse is a page of templates with pagination metadata.
type ListTemplatesResponse struct {
	Templates []domain.PromptTemplate `json:"templates"`
	Total     int64                   `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
}

// RenderTemplateRequest is the payload for POST /v1/templates/:id/render.
type RenderTemplateRequest struct {
	ID   string         `param:"id"`
	Vars map[string]any `json:"vars"`
}

func (r *RenderTemplateRequest) Validate() error {
	if !validation.IsValidUUID(r.ID) {
		return validation.CustomValidationErrors{{
			Field:   "id",
			Message: "must be a valid UUID",
		}}
	}
	return nil
}

// RenderTemplateResponse is the rendered prompt preview.
type RenderTemplateResponse struct {
	Prompt string `json:"prompt"`
}

// TemplateCompletionRequest is the payload for POST /v1/templates/:id/completions.
// Parameter overrides beat the template's own overrides.
type TemplateCompletionRequest struct {
	ID          string         `param:"id"`
	Vars        map[string]any `json:"vars"`
	Async       bool           `json:"async"`
	Model       string         `json:"model" validate:"omitempty,max=128"`
	Temperature *float64       `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int            `json:"max_tokens" validate:"omitempty,min=1,max=32768"`
}

// TemplateCompletionResponse is the completion plus the mode-dependent
// status: 201 Created for a synchronous result, 202 Accepted for a pending
// record that the worker will fill in.
type TemplateCompletionResponse struct {
	*domain.Completion
	accepted bool
}

func (r *TemplateCompletionResponse) StatusCode() int {
	if r.accepted {
		return http.StatusAccepted
	}
	return http.StatusCreated
}

func (r *TemplateCompletionRequest) Validate() error {
	if !validation.IsValidUUID(r.ID) {
		return validation.CustomValidationErrors{{
			Field:   "id",
			Message: "must be a valid UUID",
		}}
	}
	return validate.Struct(r)
}

// Create handles POST /v1/templates.
func (h *TemplateHandler) Create(c echo.Context, req *SaveTemplateRequest) (*domain.PromptTemplate, error) {
	return h.templateService.CreateTemplate(c.Request().Context(), req.toInput())
}

// Get handles GET /v1/templates/:id.
func (h *TemplateHandler) Get(c echo.Context, req *TemplateIDRequest) (*domain.PromptTemplate, error) {
	return h.templateService.GetTemplate(c.Request().Context(), uuid.MustParse(req.ID))
}

// List handles GET /v1/templates.
func (h *TemplateHandler) List(c echo.Context, req *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	templates, total, err := h.templateService.ListTemplates(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	return &ListTemplatesResponse{
		Templates: templates,
		Total:     total,
		Limit:     limit,
		Offset:    req.Offset,
	}, nil
}

// Update handles PUT /v1/templates/:id.
func (h *TemplateHandler) Update(c echo.Context, req *UpdateTemplateRequest) (*domain.PromptTemplate, error) {
	return h.templateService.UpdateTemplate(c.Request().Context(), uuid.MustParse(req.ID), req.toInput())
}

// Delete handles DELETE /v1/templates/:id with a 204 on success.
func (h *TemplateHandler) Delete(c echo.Context, req *TemplateIDRequest) error {
	return h.templateService.DeleteTemplate(c.Request().Context(), uuid.MustParse(req.ID))
}

// Render handles POST /v1/templates/:id/render.
func (h *TemplateHandler) Render(c echo.Context, req *RenderTemplateRequest) (*RenderTemplateResponse, error) {
	prompt, err := h.templateService.RenderTemplate(c.Request().Context(), uuid.MustParse(req.ID), req.Vars)
	if err != nil {
		return nil, err
	}
	return &RenderTemplateResponse{Prompt: prompt}, nil
}

// GenerateCompletion handles POST /v1/templates/:id/completions.
func (h *TemplateHandler) GenerateCompletion(c echo.Context, req *TemplateCompletionRequest) (*TemplateCompletionResponse, error) {
	input := service.CompletionInput{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		RequestedBy: middleware.GetUserID(c),
	}

	completion, err := h.completionService.GenerateFromTemplate(c.Request().Context(), uuid.MustParse(req.ID), req.Vars, input, req.Async)
	if err != nil {
		return nil, err
	}

	return &TemplateCompletionResponse{Completion: completion, accepted: req.Async}, nil
}
