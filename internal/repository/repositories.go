package repository

import (
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// Repositories holds every repository in the application.
type Repositories struct {
	Completion *CompletionRepository
	Template   *TemplateRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Completion: NewCompletionRepository(s),
		Template:   NewTemplateRepository(s),
	}
}
