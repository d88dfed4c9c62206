// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the provider and renders HTML bodies from
// embedded templates. The only mail this service sends today is the
// periodic usage report.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

//go:embed templates/*.html
var templates embed.FS

// Client wraps the Resend client and a logger.
type Client struct {
	client *resend.Client
	logger *zerolog.Logger
}

// NewClient creates an email Client using the API key from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client: resend.NewClient(cfg.Integration.ResendAPIKey),
		logger: logger,
	}
}

// SendEmail sends an email with HTML rendered from an embedded template.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	tmplPath := fmt.Sprintf("templates/%s.html", templateName)

	tmpl, err := template.ParseFS(templates, tmplPath)
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "GenAI Service", "reports@resend.dev"),
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info().
		Str("to", to).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
