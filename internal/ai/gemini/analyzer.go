package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/utils"
)

const (
	resumePlaceholder         = "{{RESUME}}"
	jobDescriptionPlaceholder = "{{JOB_DESCRIPTION}}"
	defaultMaxLogLength       = 200
)

//go:embed prompt.md
var promptTemplate string

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

// Analyzer compares a resume with a job description using Gemini.
type Analyzer struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator jsonGenerator, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Model reports the model the analyzer talks to.
func (a *Analyzer) Model() string {
	if a == nil || a.generator == nil {
		return ""
	}
	return a.generator.Model()
}

func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*ai.Result, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescriptionText) == "" {
		return nil, ai.NewValidationError(ai.MsgValidation)
	}

	prompt := buildPrompt(resumeText, jobDescriptionText)

	a.logger.Debug("gemini generate content request",
		zap.Int("resume_length", utf8.RuneCountInString(resumeText)),
		zap.Int("job_description_length", utf8.RuneCountInString(jobDescriptionText)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt, ResultSchema())
	if err != nil {
		if ai.KindOf(err) == ai.KindUnknown {
			return nil, ai.NewServiceError("", err)
		}
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	result, err := ai.ParseResult(raw)
	if err != nil {
		a.logger.Warn("gemini response failed validation",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
		)
		return nil, err
	}

	a.logger.Info("analysis completed",
		zap.Int("match_score", result.MatchScore),
		zap.Int("strengths", len(result.Strengths)),
		zap.Int("missing_keywords", len(result.MissingKeywords)),
		zap.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}

// buildPrompt substitutes both texts verbatim in a single pass so that
// placeholder-like text inside the inputs is never expanded.
func buildPrompt(resumeText, jobDescriptionText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n" + resumePlaceholder + "\n\nJob Description:\n" + jobDescriptionPlaceholder + "\n\nJSON Response:"
	}

	return strings.NewReplacer(
		resumePlaceholder, resumeText,
		jobDescriptionPlaceholder, jobDescriptionText,
	).Replace(template)
}
