package service

import (
	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/rwidyatama/go-genai-service/internal/server"
)

// AuthService configures the Clerk SDK. Token verification itself happens in
// the auth middleware; this service owns the SDK's global key setup.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)

	return &AuthService{server: s}
}
