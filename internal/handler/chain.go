package handler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rwidyatama/go-genai-service/internal/middleware"
	"github.com/rwidyatama/go-genai-service/internal/server"
	"github.com/rwidyatama/go-genai-service/internal/service"
	"github.com/rwidyatama/go-genai-service/internal/validation"
)

// ChainHandler serves multi-step prompt chain execution.
type ChainHandler struct {
	Handler
	chainService *service.ChainService
}

func NewChainHandler(s *server.Server, chainService *service.ChainService) *ChainHandler {
	return &ChainHandler{
		Handler:      NewHandler(s),
		chainService: chainService,
	}
}

// ChainStepRequest is one step of a chain: an inline prompt or a stored
// template reference, never both. Prompts and template bodies may use
// {{.previous}} to reference the previous step's output.
type ChainStepRequest struct {
	Prompt      string         `json:"prompt" validate:"omitempty,min=1,max=32768"`
	TemplateID  string         `json:"template_id"`
	Vars        map[string]any `json:"vars"`
	Model       string         `json:"model" validate:"omitempty,max=128"`
	Temperature *float64       `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int            `json:"max_tokens" validate:"omitempty,min=1,max=32768"`
}

// RunChainRequest is the payload for POST /v1/chains.
type RunChainRequest struct {
	Steps []ChainStepRequest `json:"steps" validate:"required,min=1,max=10,dive"`
}

func (r *RunChainRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	var errs validation.CustomValidationErrors
	for i, step := range r.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		hasPrompt := step.Prompt != ""
		hasTemplate := step.TemplateID != ""

		switch {
		case hasPrompt == hasTemplate:
			errs = append(errs, validation.CustomValidationError{
				Field:   field,
				Message: "must set exactly one of prompt or template_id",
			})
		case hasTemplate && !validation.IsValidUUID(step.TemplateID):
			errs = append(errs, validation.CustomValidationError{
				Field:   field,
				Message: "template_id must be a valid UUID",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Run handles POST /v1/chains. Steps run sequentially; each one is
// persisted as its own completion.
func (h *ChainHandler) Run(c echo.Context, req *RunChainRequest) (*service.ChainResult, error) {
	steps := make([]service.ChainStep, 0, len(req.Steps))
	for _, step := range req.Steps {
		chainStep := service.ChainStep{
			Prompt:      step.Prompt,
			Vars:        step.Vars,
			Model:       step.Model,
			Temperature: step.Temperature,
			MaxTokens:   step.MaxTokens,
		}
		if step.TemplateID != "" {
			id := uuid.MustParse(step.TemplateID)
			chainStep.TemplateID = &id
		}
		steps = append(steps, chainStep)
	}

	return h.chainService.Run(c.Request().Context(), service.ChainInput{
		Steps:       steps,
		RequestedBy: middleware.GetUserID(c),
	})
}
