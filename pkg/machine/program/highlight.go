package program

import (
	"github.com/Manu343726/cinta/pkg/utils"
	"github.com/fatih/color"
)

// Category groups instructions by what they act on
type Category int

const (
	// CategoryNone is any non-instruction character
	CategoryNone Category = iota
	// CategoryMove is '<' and '>'
	CategoryMove
	// CategoryArithmetic is '+' and '-'
	CategoryArithmetic
	// CategoryIO is '.' and ','
	CategoryIO
	// CategoryControl is '[' and ']'
	CategoryControl
)

// Category returns the group of the instruction
func (i Instruction) Category() Category {
	switch i {
	case MoveLeft, MoveRight:
		return CategoryMove
	case Increment, Decrement:
		return CategoryArithmetic
	case Output, Input:
		return CategoryIO
	case LoopStart, LoopEnd:
		return CategoryControl
	default:
		return CategoryNone
	}
}

// Program highlighting colors
var (
	categoryColors = map[Category]*color.Color{
		CategoryNone:       color.New(color.FgHiBlack),
		CategoryMove:       color.New(color.FgCyan),
		CategoryArithmetic: color.New(color.FgYellow),
		CategoryIO:         color.New(color.FgGreen),
		CategoryControl:    color.New(color.FgMagenta, color.Bold),
	}
	cursorColor     = color.New(color.ReverseVideo, color.Bold)
	breakpointColor = color.New(color.FgRed, color.Underline)
)

// Highlight returns the program source with ANSI colors: comments dimmed,
// each instruction category in its own color, the instruction at cursor in
// reverse video and breakpoints in red. A cursor outside the program is not
// drawn.
func (p *Program) Highlight(cursor int, breakpoints ...int) string {
	var spans []utils.Span

	if _, ok := p.At(cursor); ok {
		spans = append(spans, utils.Span{Start: cursor, End: cursor + 1, Color: cursorColor})
	}
	for _, b := range breakpoints {
		spans = append(spans, utils.Span{Start: b, End: b + 1, Color: breakpointColor})
	}

	// runs of the same category share one span
	start := 0
	for i := 1; i <= len(p.source); i++ {
		current := Instruction(p.source[start]).Category()
		if i < len(p.source) && Instruction(p.source[i]).Category() == current {
			continue
		}
		spans = append(spans, splitAround(start, i, categoryColors[current], spans)...)
		start = i
	}

	return utils.Highlight(p.source, spans)
}

// splitAround cuts [start, end) into spans that avoid the already placed ones
func splitAround(start, end int, c *color.Color, placed []utils.Span) []utils.Span {
	var result []utils.Span
	from := start
	for i := start; i < end; i++ {
		for _, s := range placed {
			if i >= s.Start && i < s.End {
				if from < i {
					result = append(result, utils.Span{Start: from, End: i, Color: c})
				}
				from = i + 1
				break
			}
		}
	}
	if from < end {
		result = append(result, utils.Span{Start: from, End: end, Color: c})
	}
	return result
}
