package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, text := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func TestGeneratorSendsStructuredRequest(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"matchScore": 1,`, ` "strengths": []}`)}
	g := newGenerator(models, "", zap.NewNop())

	output, err := g.GenerateJSON(context.Background(), "prompt text", ResultSchema())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != `{"matchScore": 1,"strengths": []}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if models.calls != 1 {
		t.Fatalf("expected a single call, got %d", models.calls)
	}

	if models.model != defaultModel {
		t.Fatalf("expected default model, got %q", models.model)
	}

	if models.config == nil || models.config.ResponseMIMEType != jsonMIMEType {
		t.Fatalf("expected json response mime type, got %+v", models.config)
	}

	schema := models.config.ResponseSchema
	if schema == nil || len(schema.Required) != 4 {
		t.Fatalf("expected schema with four required fields, got %+v", schema)
	}

	if len(models.contents) != 1 || models.contents[0].Parts[0].Text != "prompt text" {
		t.Fatalf("unexpected contents: %+v", models.contents)
	}
}

func TestGeneratorSkipsThoughtParts(t *testing.T) {
	resp := textResponse("thinking about it", `{"ok": true}`)
	resp.Candidates[0].Content.Parts[0].Thought = true

	g := newGenerator(&fakeModels{resp: resp}, "gemini-pro", nil)

	output, err := g.GenerateJSON(context.Background(), "prompt", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		cause   error
		message string
	}{
		{
			name: "api error detail",
			err: genai.APIError{
				Code:    http.StatusBadRequest,
				Status:  "INVALID_ARGUMENT",
				Message: "API key not valid. Please pass a valid API key.",
			},
			message: "API key not valid. Please pass a valid API key.",
		},
		{
			name:    "transport error",
			err:     fmt.Errorf("dial tcp: %w", context.DeadlineExceeded),
			cause:   context.DeadlineExceeded,
			message: ai.MsgService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newGenerator(&fakeModels{resp: tt.resp, err: tt.err}, "gemini-pro", zap.NewNop())

			_, err := g.GenerateJSON(context.Background(), "prompt", ResultSchema())
			if ai.KindOf(err) != ai.KindService {
				t.Fatalf("expected service error, got %v", err)
			}

			if got := ai.Message(err); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}

			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Fatalf("expected cause to be wrapped, got %v", err)
			}
		})
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{}
	g := newGenerator(models, "gemini-pro", nil)

	if _, err := g.GenerateJSON(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	if models.calls != 0 {
		t.Fatalf("expected no call, got %d", models.calls)
	}

	var nilGenerator *Generator
	if _, err := nilGenerator.GenerateJSON(context.Background(), "prompt", nil); err == nil {
		t.Fatal("expected error for nil generator")
	}

	if nilGenerator.Model() != "" {
		t.Fatal("expected empty model for nil generator")
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "empty text part", resp: textResponse("")},
		{name: "nil response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newGenerator(&fakeModels{resp: tt.resp}, "gemini-pro", zap.NewNop())

			output, err := g.GenerateJSON(context.Background(), "prompt", ResultSchema())
			if err != nil {
				t.Fatalf("expected empty payload without error, got %v", err)
			}

			if output != "" {
				t.Fatalf("expected empty output, got %q", output)
			}
		})
	}
}
