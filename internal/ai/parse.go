package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	FieldMatchScore      = "matchScore"
	FieldStrengths       = "strengths"
	FieldMissingKeywords = "missingKeywords"
	FieldSuggestions     = "suggestions"

	MinScore = 0
	MaxScore = 100
)

var listFields = []string{FieldStrengths, FieldMissingKeywords, FieldSuggestions}

type payload struct {
	MatchScore      float64  `mapstructure:"matchScore"`
	Strengths       []string `mapstructure:"strengths"`
	MissingKeywords []string `mapstructure:"missingKeywords"`
	Suggestions     []string `mapstructure:"suggestions"`
}

// ParseResult turns a raw service payload into a Result. Every failure is
// reported as a KindResponseFormat error wrapping one of ErrMalformed,
// ErrMissingField, ErrWrongType or ErrScoreRange.
func ParseResult(raw string) (*Result, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, NewResponseFormatError(fmt.Errorf("%w: empty payload", ErrMalformed))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, NewResponseFormatError(fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	if data == nil {
		return nil, NewResponseFormatError(fmt.Errorf("%w: null payload", ErrMalformed))
	}

	return ValidateResult(data)
}

// ValidateResult checks decoded structured data against the result schema.
func ValidateResult(data map[string]any) (*Result, error) {
	for _, field := range append([]string{FieldMatchScore}, listFields...) {
		value, ok := data[field]
		if !ok || value == nil {
			return nil, NewResponseFormatError(fmt.Errorf("%w: %s", ErrMissingField, field))
		}
	}

	for _, field := range listFields {
		items, ok := data[field].([]any)
		if !ok {
			return nil, NewResponseFormatError(fmt.Errorf("%w: %s must be a list of strings", ErrWrongType, field))
		}
		for i, item := range items {
			if _, ok := item.(string); !ok {
				return nil, NewResponseFormatError(fmt.Errorf("%w: %s[%d] must be a string", ErrWrongType, field, i))
			}
		}
	}

	var decoded payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &decoded,
		ErrorUnset: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build result decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, NewResponseFormatError(fmt.Errorf("%w: %v", ErrWrongType, err))
	}

	score := decoded.MatchScore
	if math.IsNaN(score) || math.IsInf(score, 0) || score != math.Trunc(score) {
		return nil, NewResponseFormatError(fmt.Errorf("%w: %s must be an integer, got %v", ErrWrongType, FieldMatchScore, score))
	}
	if score < MinScore || score > MaxScore {
		return nil, NewResponseFormatError(fmt.Errorf("%w: %v not in [%d, %d]", ErrScoreRange, score, MinScore, MaxScore))
	}

	return &Result{
		MatchScore:      int(score),
		Strengths:       nonNil(decoded.Strengths),
		MissingKeywords: nonNil(decoded.MissingKeywords),
		Suggestions:     nonNil(decoded.Suggestions),
	}, nil
}

// extractJSON drops markdown code fences some models wrap around json output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
