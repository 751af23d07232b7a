package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastSchema *genai.Schema
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string, schema *genai.Schema) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastSchema = schema
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

const (
	testResume = "Senior engineer, 5 years Go, led a team of 4"
	testJob    = "Looking for a backend engineer with Go and leadership experience"
)

func TestAnalyzerAnalyze(t *testing.T) {
	stub := &stubGenerator{response: `{"matchScore": 82, "strengths": ["Go experience","Leadership"], "missingKeywords": ["Kubernetes"], "suggestions": ["Mention container orchestration experience"]}`}
	analyzer := NewAnalyzer(stub, 0, zap.NewNop())

	result, err := analyzer.Analyze(context.Background(), testResume, testJob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := &ai.Result{
		MatchScore:      82,
		Strengths:       []string{"Go experience", "Leadership"},
		MissingKeywords: []string{"Kubernetes"},
		Suggestions:     []string{"Mention container orchestration experience"},
	}
	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("unexpected result: %+v", result)
	}

	if stub.calls != 1 {
		t.Fatalf("expected a single request, got %d", stub.calls)
	}

	if !strings.Contains(stub.lastPrompt, testResume) || !strings.Contains(stub.lastPrompt, testJob) {
		t.Fatalf("expected both texts in prompt: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, "integer from 0 to 100") {
		t.Fatalf("expected score constraint in prompt")
	}

	for _, field := range []string{ai.FieldMatchScore, ai.FieldStrengths, ai.FieldMissingKeywords, ai.FieldSuggestions} {
		if !strings.Contains(stub.lastPrompt, `"`+field+`"`) {
			t.Fatalf("expected field %s described in prompt", field)
		}
	}

	if stub.lastSchema == nil || stub.lastSchema.Type != genai.TypeObject {
		t.Fatalf("expected object schema to be sent, got %+v", stub.lastSchema)
	}
}

func TestAnalyzerRejectsBlankInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		resume string
		job    string
	}{
		{name: "empty resume", resume: "", job: testJob},
		{name: "whitespace job", resume: testResume, job: " \n\t "},
		{name: "both empty", resume: "", job: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{response: "{}"}
			analyzer := NewAnalyzer(stub, 0, zap.NewNop())

			_, err := analyzer.Analyze(context.Background(), tt.resume, tt.job)
			if ai.KindOf(err) != ai.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}

			if stub.calls != 0 {
				t.Fatalf("expected no request, got %d", stub.calls)
			}
		})
	}
}

func TestAnalyzerScoreOutOfRange(t *testing.T) {
	stub := &stubGenerator{response: `{"matchScore": 150, "strengths": [], "missingKeywords": [], "suggestions": []}`}
	core, observed := observer.New(zapcore.WarnLevel)
	analyzer := NewAnalyzer(stub, 0, zap.New(core))

	result, err := analyzer.Analyze(context.Background(), testResume, testJob)
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}

	if ai.KindOf(err) != ai.KindResponseFormat {
		t.Fatalf("expected response format error, got %v", err)
	}

	if !errors.Is(err, ai.ErrScoreRange) {
		t.Fatalf("expected score range cause, got %v", err)
	}

	if observed.FilterMessage("gemini response failed validation").Len() != 1 {
		t.Fatalf("expected validation failure to be logged")
	}
}

func TestAnalyzerEmptyPayloadIsFormatError(t *testing.T) {
	generator := newGenerator(&fakeModels{resp: textResponse("")}, "", zap.NewNop())
	analyzer := NewAnalyzer(generator, 0, zap.NewNop())

	result, err := analyzer.Analyze(context.Background(), testResume, testJob)
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}

	if ai.KindOf(err) != ai.KindResponseFormat || ai.Message(err) != ai.MsgResponseFormat {
		t.Fatalf("expected response format error, got %v", err)
	}

	if !errors.Is(err, ai.ErrMalformed) {
		t.Fatalf("expected malformed cause, got %v", err)
	}
}

func TestAnalyzerServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "classified service error keeps detail",
			err:     ai.NewServiceError("quota exhausted", errors.New("429")),
			message: "quota exhausted",
		},
		{
			name:    "unclassified generator error",
			err:     errors.New("gemini generator is not initialized"),
			message: ai.MsgService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{err: tt.err}
			analyzer := NewAnalyzer(stub, 0, nil)

			_, err := analyzer.Analyze(context.Background(), testResume, testJob)
			if ai.KindOf(err) != ai.KindService {
				t.Fatalf("expected service error, got %v", err)
			}

			if got := ai.Message(err); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
		})
	}
}

func TestBuildPromptKeepsInputsVerbatim(t *testing.T) {
	resume := "  Go {{JOB_DESCRIPTION}} expert\n"
	job := "Needs Go\n\n"

	prompt := buildPrompt(resume, job)

	if !strings.Contains(prompt, resume) {
		t.Fatalf("expected resume verbatim in prompt: %q", prompt)
	}

	if strings.Count(prompt, job) != 1 {
		t.Fatalf("expected job description substituted once: %q", prompt)
	}

	if strings.Contains(prompt, resumePlaceholder) {
		t.Fatalf("resume placeholder left in prompt")
	}
}

func TestAnalyzerModel(t *testing.T) {
	if got := NewAnalyzer(&stubGenerator{}, 0, nil).Model(); got != "stub-model" {
		t.Fatalf("expected stub-model, got %q", got)
	}

	var analyzer *Analyzer
	if got := analyzer.Model(); got != "" {
		t.Fatalf("expected empty model for nil analyzer, got %q", got)
	}
}
