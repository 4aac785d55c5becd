// Package utils provides utility functions for the cinta project.
package utils

import (
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Span is a region [Start, End) of a text painted with a color
type Span struct {
	Start int
	End   int
	Color *color.Color
}

// Highlight paints the given spans of text with ANSI colors. Spans are
// applied by start position; a span overlapping an earlier one is dropped,
// so callers put the spans that must win first.
func Highlight(text string, spans []Span) string {
	if text == "" {
		return ""
	}

	var tokens []Span
	for _, s := range spans {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End || s.Color == nil {
			continue
		}
		if !overlapsAny(s.Start, s.End, tokens) {
			tokens = append(tokens, s)
		}
	}

	return buildHighlightedString(text, tokens)
}

// overlapsAny checks if a range overlaps with any existing token
func overlapsAny(start, end int, tokens []Span) bool {
	for _, t := range tokens {
		if start < t.End && end > t.Start {
			return true
		}
	}
	return false
}

// buildHighlightedString constructs the final string with color codes
func buildHighlightedString(text string, tokens []Span) string {
	if len(tokens) == 0 {
		return text
	}

	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })

	var result strings.Builder
	pos := 0

	for _, t := range tokens {
		// Add unhighlighted text before this token
		if t.Start > pos {
			result.WriteString(text[pos:t.Start])
		}
		result.WriteString(t.Color.Sprint(text[t.Start:t.End]))
		pos = t.End
	}

	if pos < len(text) {
		result.WriteString(text[pos:])
	}

	return result.String()
}
