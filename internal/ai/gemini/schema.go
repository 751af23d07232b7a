package gemini

import (
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// ResultSchema describes the structured output expected from the model.
func ResultSchema() *genai.Schema {
	minScore, maxScore := float64(ai.MinScore), float64(ai.MaxScore)

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			ai.FieldMatchScore: {
				Type:        genai.TypeNumber,
				Description: "How well the resume fits the job, an integer from 0 to 100.",
				Minimum:     &minScore,
				Maximum:     &maxScore,
			},
			ai.FieldStrengths: stringList("Strengths of the resume relevant to the job."),
			ai.FieldMissingKeywords: stringList(
				"Skills or keywords present in the job description but absent from the resume.",
			),
			ai.FieldSuggestions: stringList("Actionable improvements to the resume."),
		},
		Required: []string{
			ai.FieldMatchScore,
			ai.FieldStrengths,
			ai.FieldMissingKeywords,
			ai.FieldSuggestions,
		},
		PropertyOrdering: []string{
			ai.FieldMatchScore,
			ai.FieldStrengths,
			ai.FieldMissingKeywords,
			ai.FieldSuggestions,
		},
	}
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}
