package utils

import (
	"strings"
	"unicode/utf8"
)

// AsciiCell is one box of a row drawn by AsciiCells
type AsciiCell struct {
	// Header is drawn centered above the box
	Header string

	// Body is drawn centered inside the box
	Body string

	// Marked cells get the marker drawn below them
	Marked bool
}

// Centers text in a field of length columns filled with filler
func writeRow(text string, filler string, length int, builder *strings.Builder) {
	textLength := utf8.RuneCountInString(text)
	if textLength > length {
		textLength = length
	}

	leftpadLength := (length - textLength) / 2
	rightpadLength := length - textLength - leftpadLength

	builder.WriteString(strings.Repeat(filler, leftpadLength))
	builder.WriteString(text)
	builder.WriteString(strings.Repeat(filler, rightpadLength))
}

// AsciiCells draws a row of equally sized boxes:
//
//	  0    1
//	+----+----+
//	| 7  | 42 |
//	+----+----+
//	       ^
//
// Every line is prefixed with leftpad spaces. The marker line is omitted if
// no cell is marked.
func AsciiCells(cells []AsciiCell, marker string, leftpad int) string {
	const (
		body_splitter   string = "|"
		border_splitter string = "+"
		border_body     string = "-"
		filler          string = " "
	)

	if len(cells) == 0 {
		return ""
	}

	width := utf8.RuneCountInString(marker)
	marked := false
	for _, cell := range cells {
		width = max(width, utf8.RuneCountInString(cell.Header), utf8.RuneCountInString(cell.Body))
		marked = marked || cell.Marked
	}
	width += 2

	pad := strings.Repeat(filler, leftpad)
	var header, border, body, markers strings.Builder

	for _, cell := range cells {
		header.WriteString(filler)
		writeRow(cell.Header, filler, width, &header)

		border.WriteString(border_splitter)
		border.WriteString(strings.Repeat(border_body, width))

		body.WriteString(body_splitter)
		writeRow(cell.Body, filler, width, &body)

		markers.WriteString(filler)
		if cell.Marked {
			writeRow(marker, filler, width, &markers)
		} else {
			markers.WriteString(strings.Repeat(filler, width))
		}
	}
	border.WriteString(border_splitter)
	body.WriteString(body_splitter)

	lines := []string{
		strings.TrimRight(header.String(), filler),
		border.String(),
		body.String(),
		border.String(),
	}
	if marked {
		lines = append(lines, strings.TrimRight(markers.String(), filler))
	}

	var result strings.Builder
	for _, line := range lines {
		if line != "" {
			result.WriteString(pad)
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}
