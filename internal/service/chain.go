package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/errs"
	"github.com/rwidyatama/go-genai-service/internal/lib/prompt"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// ChainService runs multi-step prompt chains: each step's prompt is a
// template that can reference the previous step's output as {{.previous}}.
// Steps run sequentially and every step is persisted as its own completion.
type ChainService struct {
	server     *server.Server
	completion *CompletionService
}

func NewChainService(s *server.Server, completion *CompletionService) *ChainService {
	return &ChainService{server: s, completion: completion}
}

// ChainStep is one link in a chain: either an inline prompt body or a
// reference to a stored template, plus the variables to render it with.
type ChainStep struct {
	Prompt      string
	TemplateID  *uuid.UUID
	Vars        map[string]any
	Model       string
	Temperature *float64
	MaxTokens   int
}

// ChainInput is a full chain request.
type ChainInput struct {
	Steps       []ChainStep
	RequestedBy string
}

// ChainResult is the outcome of a chain run. Completions holds one entry
// per executed step in order; Output is the final step's response.
type ChainResult struct {
	Completions []domain.Completion `json:"completions"`
	Output      string              `json:"output"`
}

// Run executes the chain. A failing step aborts the chain; completions for
// the steps that already ran stay persisted, and the step error propagates
// to the error handler.
func (s *ChainService) Run(ctx context.Context, input ChainInput) (*ChainResult, error) {
	result := &ChainResult{}
	previous := ""

	for i, step := range input.Steps {
		vars := make(map[string]any, len(step.Vars)+1)
		for k, v := range step.Vars {
			vars[k] = v
		}
		vars["previous"] = previous

		completion, err := s.runStep(ctx, step, vars, input.RequestedBy)
		if err != nil {
			s.server.Logger.Warn().
				Int("step", i).
				Err(err).
				Msg("chain aborted at failing step")
			return nil, err
		}

		result.Completions = append(result.Completions, *completion)
		if completion.Response != nil {
			previous = *completion.Response
		}
	}

	result.Output = previous
	return result, nil
}

func (s *ChainService) runStep(ctx context.Context, step ChainStep, vars map[string]any, requestedBy string) (*domain.Completion, error) {
	input := CompletionInput{
		Model:       step.Model,
		Temperature: step.Temperature,
		MaxTokens:   step.MaxTokens,
		RequestedBy: requestedBy,
	}

	if step.TemplateID != nil {
		return s.completion.GenerateFromTemplate(ctx, *step.TemplateID, vars, input, false)
	}

	rendered, err := prompt.Render(step.Prompt, vars)
	if err != nil {
		return nil, errs.NewBadRequestError("Failed to render chain step prompt: "+err.Error(), true, nil, nil, nil)
	}

	input.Prompt = rendered
	return s.completion.Generate(ctx, input)
}
