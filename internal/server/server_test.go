package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

func TestShutdownWithoutHTTPServer(t *testing.T) {
	// One-shot commands build a Server and defer Shutdown without ever
	// calling SetupHTTPServer; Shutdown must skip what was never started.
	s := &Server{}

	assert.NotPanics(t, func() {
		assert.NoError(t, s.Shutdown(context.Background()))
	})
}

func TestStartRequiresSetupHTTPServer(t *testing.T) {
	s := &Server{Config: &config.Config{}}

	err := s.Start()
	assert.EqualError(t, err, "HTTP server not initialized")
}
