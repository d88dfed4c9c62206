package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestGenerateCompletionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerateCompletionRequest
		wantErr bool
	}{
		{"valid minimal", GenerateCompletionRequest{Prompt: "hello"}, false},
		{"valid full", GenerateCompletionRequest{Prompt: "hello", Model: "gpt-4o", Temperature: floatPtr(0.3), MaxTokens: 100}, false},
		{"zero temperature is valid", GenerateCompletionRequest{Prompt: "hello", Temperature: floatPtr(0)}, false},
		{"missing prompt", GenerateCompletionRequest{}, true},
		{"temperature too high", GenerateCompletionRequest{Prompt: "x", Temperature: floatPtr(2.5)}, true},
		{"negative temperature", GenerateCompletionRequest{Prompt: "x", Temperature: floatPtr(-0.1)}, true},
		{"max tokens too large", GenerateCompletionRequest{Prompt: "x", MaxTokens: 100000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompletionIDRequestValidate(t *testing.T) {
	assert.NoError(t, (&CompletionIDRequest{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}).Validate())
	assert.Error(t, (&CompletionIDRequest{ID: "42"}).Validate())
	assert.Error(t, (&CompletionIDRequest{}).Validate())
}

func TestListCompletionsRequestValidate(t *testing.T) {
	assert.NoError(t, (&ListCompletionsRequest{}).Validate())
	assert.NoError(t, (&ListCompletionsRequest{Status: "completed", Limit: 50}).Validate())
	assert.Error(t, (&ListCompletionsRequest{Status: "done"}).Validate())
	assert.Error(t, (&ListCompletionsRequest{Limit: 500}).Validate())
	assert.Error(t, (&ListCompletionsRequest{Offset: -1}).Validate())
}

func TestSaveTemplateRequestValidate(t *testing.T) {
	valid := SaveTemplateRequest{Name: "summarizer", Body: "Summarize: {{.text}}"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&SaveTemplateRequest{Body: "x"}).Validate())
	assert.Error(t, (&SaveTemplateRequest{Name: "x"}).Validate())

	withOverrides := valid
	withOverrides.Temperature = floatPtr(3)
	assert.Error(t, withOverrides.Validate())
}

func TestUpdateTemplateRequestValidate(t *testing.T) {
	req := UpdateTemplateRequest{
		ID:                  "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		SaveTemplateRequest: SaveTemplateRequest{Name: "n", Body: "b"},
	}
	assert.NoError(t, req.Validate())

	req.ID = "nope"
	assert.Error(t, req.Validate())
}

func TestRunChainRequestValidate(t *testing.T) {
	templateID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	tests := []struct {
		name    string
		req     RunChainRequest
		wantErr bool
	}{
		{
			"prompt steps",
			RunChainRequest{Steps: []ChainStepRequest{{Prompt: "a"}, {Prompt: "b {{.previous}}"}}},
			false,
		},
		{
			"template step",
			RunChainRequest{Steps: []ChainStepRequest{{TemplateID: templateID}}},
			false,
		},
		{
			"no steps",
			RunChainRequest{},
			true,
		},
		{
			"step with neither prompt nor template",
			RunChainRequest{Steps: []ChainStepRequest{{Vars: map[string]any{"a": 1}}}},
			true,
		},
		{
			"step with both prompt and template",
			RunChainRequest{Steps: []ChainStepRequest{{Prompt: "a", TemplateID: templateID}}},
			true,
		},
		{
			"bad template id",
			RunChainRequest{Steps: []ChainStepRequest{{TemplateID: "nope"}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTemplateCompletionResponseStatusCode(t *testing.T) {
	sync := &TemplateCompletionResponse{}
	assert.Equal(t, http.StatusCreated, sync.StatusCode())

	async := &TemplateCompletionResponse{accepted: true}
	assert.Equal(t, http.StatusAccepted, async.StatusCode())
}
