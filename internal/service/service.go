// Package service contains the application's business logic. Services sit
// between handlers and repositories: they resolve defaults, talk to the
// model provider, manage the response cache, and enqueue background work.
package service

import (
	"github.com/rwidyatama/go-genai-service/internal/lib/email"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// Services holds every service in the application.
type Services struct {
	Auth       *AuthService
	Completion *CompletionService
	Template   *TemplateService
	Chain      *ChainService
	Usage      *UsageService
}

func NewService(s *server.Server, repos *repository.Repositories) *Services {
	completion := NewCompletionService(s, repos)

	return &Services{
		Auth:       NewAuthService(s),
		Completion: completion,
		Template:   NewTemplateService(s, repos),
		Chain:      NewChainService(s, completion),
		Usage:      NewUsageService(s, repos, email.NewClient(s.Config, s.Logger)),
	}
}
