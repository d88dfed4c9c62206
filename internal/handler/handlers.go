package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/rwidyatama/go-genai-service/internal/server"
	"github.com/rwidyatama/go-genai-service/internal/service"
)

// validate is the shared validator instance used by request payloads.
var validate = validator.New()

// Handlers groups all HTTP handlers so router setup passes one object.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Completion *CompletionHandler
	Template   *TemplateHandler
	Chain      *ChainHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Completion: NewCompletionHandler(s, services.Completion),
		Template:   NewTemplateHandler(s, services.Template).WithCompletionService(services.Completion),
		Chain:      NewChainHandler(s, services.Chain),
	}
}
