package ai

import (
	"context"
)

// Result is the comparison report produced by a single analysis.
type Result struct {
	MatchScore      int      `json:"matchScore"`
	Strengths       []string `json:"strengths"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

// Analyzer compares a resume with a job description.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*Result, error)
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}

	return &Result{
		MatchScore:      r.MatchScore,
		Strengths:       cloneStrings(r.Strengths),
		MissingKeywords: cloneStrings(r.MissingKeywords),
		Suggestions:     cloneStrings(r.Suggestions),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
