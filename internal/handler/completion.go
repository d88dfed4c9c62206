package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/middleware"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/server"
	"github.com/rwidyatama/go-genai-service/internal/service"
	"github.com/rwidyatama/go-genai-service/internal/validation"
)

// CompletionHandler serves the completion endpoints: synchronous and async
// generation, lookup, listing, and deletion.
type CompletionHandler struct {
	Handler
	completionService *service.CompletionService
}

func NewCompletionHandler(s *server.Server, completionService *service.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		Handler:           NewHandler(s),
		completionService: completionService,
	}
}

// GenerateCompletionRequest is the payload for POST /v1/completions and
// POST /v1/completions/async. Unset model parameters fall back to config
// defaults.
type GenerateCompletionRequest struct {
	Prompt      string   `json:"prompt" validate:"required,min=1,max=32768"`
	Model       string   `json:"model" validate:"omitempty,max=128"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int      `json:"max_tokens" validate:"omitempty,min=1,max=32768"`
}

func (r *GenerateCompletionRequest) Validate() error {
	return validate.Struct(r)
}

func (r *GenerateCompletionRequest) toInput(c echo.Context) service.CompletionInput {
	return service.CompletionInput{
		Prompt:      r.Prompt,
		Model:       r.Model,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
		RequestedBy: middleware.GetUserID(c),
	}
}

// CompletionIDRequest addresses a single completion by path parameter.
type CompletionIDRequest struct {
	ID string `param:"id"`
}

func (r *CompletionIDRequest) Validate() error {
	if !validation.IsValidUUID(r.ID) {
		return validation.CustomValidationErrors{{
			Field:   "id",
			Message: "must be a valid UUID",
		}}
	}
	return nil
}

// ListCompletionsRequest carries the query parameters of GET /v1/completions.
type ListCompletionsRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func (r *ListCompletionsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Status != "" && !domain.CompletionStatus(r.Status).Valid() {
		return validation.CustomValidationErrors{{
			Field:   "status",
			Message: "must be one of: pending, processing, completed, failed",
		}}
	}
	return nil
}

// ListCompletionsResponse is a page of completions with pagination metadata.
type ListCompletionsResponse struct {
	Completions []domain.Completion `json:"completions"`
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

// Generate handles POST /v1/completions.
func (h *CompletionHandler) Generate(c echo.Context, req *GenerateCompletionRequest) (*domain.Completion, error) {
	return h.completionService.Generate(c.Request().Context(), req.toInput(c))
}

// GenerateAsync handles POST /v1/completions/async. It returns 202 with the
// pending completion; clients poll Get for the result.
func (h *CompletionHandler) GenerateAsync(c echo.Context, req *GenerateCompletionRequest) (*domain.Completion, error) {
	return h.completionService.GenerateAsync(c.Request().Context(), req.toInput(c))
}

// Get handles GET /v1/completions/:id.
func (h *CompletionHandler) Get(c echo.Context, req *CompletionIDRequest) (*domain.Completion, error) {
	return h.completionService.GetCompletion(c.Request().Context(), uuid.MustParse(req.ID))
}

// List handles GET /v1/completions.
func (h *CompletionHandler) List(c echo.Context, req *ListCompletionsRequest) (*ListCompletionsResponse, error) {
	filter := repository.CompletionFilter{
		Status: domain.CompletionStatus(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	completions, total, err := h.completionService.ListCompletions(c.Request().Context(), filter)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	return &ListCompletionsResponse{
		Completions: completions,
		Total:       total,
		Limit:       limit,
		Offset:      filter.Offset,
	}, nil
}

// Delete handles DELETE /v1/completions/:id with a 204 on success.
func (h *CompletionHandler) Delete(c echo.Context, req *CompletionIDRequest) error {
	return h.completionService.DeleteCompletion(c.Request().Context(), uuid.MustParse(req.ID))
}
