// Package prompt renders prompt template bodies.
//
// Bodies use Go text/template syntax with the sprig function map, so
// templates can do light formatting ({{.topic | title}}, {{.items | join ", "}})
// without any logic living in handlers.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render executes a template body against vars.
//
// Missing variables are an error, not a silent "<no value>": a prompt sent
// to the model with holes in it bills tokens for garbage output.
func Render(body string, vars map[string]any) (string, error) {
	tmpl, err := template.New("prompt").
		Funcs(sprig.FuncMap()).
		Option("missingkey=error").
		Parse(body)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, vars); err != nil {
		return "", fmt.Errorf("rendering prompt template: %w", err)
	}

	return out.String(), nil
}

// Validate parses a template body without executing it, for CRUD-time
// rejection of malformed templates.
func Validate(body string) error {
	_, err := template.New("prompt").Funcs(sprig.FuncMap()).Parse(body)
	if err != nil {
		return fmt.Errorf("invalid template body: %w", err)
	}
	return nil
}
