package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("Summarize {{.topic}} for a {{.audience}}.", map[string]any{
		"topic":    "vector databases",
		"audience": "beginner",
	})

	require.NoError(t, err)
	assert.Equal(t, "Summarize vector databases for a beginner.", out)
}

func TestRenderSprigFunctions(t *testing.T) {
	out, err := Render(`{{ .name | upper }} ({{ .tags | join ", " }})`, map[string]any{
		"name": "classifier",
		"tags": []string{"nlp", "fast"},
	})

	require.NoError(t, err)
	assert.Equal(t, "CLASSIFIER (nlp, fast)", out)
}

func TestRenderMissingVariableFails(t *testing.T) {
	_, err := Render("Hello {{.name}}", map[string]any{})
	assert.Error(t, err)
}

func TestRenderInvalidSyntaxFails(t *testing.T) {
	_, err := Render("Hello {{.name", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("plain text, no variables"))
	assert.NoError(t, Validate("Hello {{.name}}"))
	assert.Error(t, Validate("{{ if }}"))
	assert.Error(t, Validate("{{.unclosed"))
}
