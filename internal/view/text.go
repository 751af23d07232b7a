package view

import (
	"fmt"
	"io"
	"strings"
)

const (
	IdleTitle = "Your resume analysis will appear here."
	IdleHint  = `Fill in your resume and the job description, then click "Analyze Resume".`
)

// RenderText writes the panel selected by Display(s) as plain text.
func RenderText(w io.Writer, s State) error {
	var b strings.Builder

	switch Display(s) {
	case DisplayLoading:
		b.WriteString("Analyzing...\n")
	case DisplayIdle:
		fmt.Fprintf(&b, "%s\n%s\n", IdleTitle, IdleHint)
	case DisplayError:
		fmt.Fprintf(&b, "Error: %s\n", s.Error)
	case DisplayReport:
		b.WriteString("Analysis Report\n\n")
		fmt.Fprintf(&b, "Match score: %d/100\n", s.Result.MatchScore)
		writeSection(&b, "Strengths", s.Result.Strengths)
		writeSection(&b, "Missing keywords", s.Result.MissingKeywords)
		writeSection(&b, "Suggestions", s.Result.Suggestions)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
