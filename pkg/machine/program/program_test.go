package program

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BracketTable(t *testing.T) {
	p, err := Parse("+[>[-]<]")
	require.NoError(t, err)

	assert.Equal(t, BracketTable{1: 7, 7: 1, 3: 5, 5: 3}, p.Jumps())
	assert.Equal(t, []int{1, 3, 5, 7}, p.Brackets())
}

func TestParse_BracketTableIsSymmetric(t *testing.T) {
	sources := []string{
		"",
		"[]",
		"[[][]]",
		"++[>++[>+<-]<-]>>.",
		"a[b[c]d]e[f]",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			p, err := Parse(source)
			require.NoError(t, err)

			for _, k := range p.Brackets() {
				match, ok := p.Match(k)
				require.True(t, ok)
				back, ok := p.Match(match)
				require.True(t, ok)
				assert.Equal(t, k, back)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		source   string
		position int
		symbol   Instruction
	}{
		{"[", 0, LoopStart},
		{"]", 0, LoopEnd},
		{"+[[]", 1, LoopStart},
		{"[]]", 2, LoopEnd},
		{"[[[", 2, LoopStart},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			p, err := Parse(tt.source)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.position, syntaxErr.Position)
			assert.Equal(t, tt.symbol, syntaxErr.Symbol)
			assert.Contains(t, err.Error(), string(rune(tt.symbol)))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("]") })
	assert.NotPanics(t, func() { MustParse("[]") })
}

func TestProgram_At(t *testing.T) {
	p := MustParse("+ x")

	symbol, ok := p.At(0)
	assert.True(t, ok)
	assert.Equal(t, Increment, symbol)

	_, ok = p.At(1)
	assert.False(t, ok)

	_, ok = p.At(3)
	assert.False(t, ok)
	_, ok = p.At(-1)
	assert.False(t, ok)
}

func TestProgram_NextInstruction(t *testing.T) {
	p := MustParse("  +\n# comment\n.")

	assert.Equal(t, 2, p.NextInstruction(0))
	assert.Equal(t, 2, p.NextInstruction(2))
	assert.Equal(t, 14, p.NextInstruction(3))
	assert.Equal(t, p.Len(), p.NextInstruction(15))
	assert.Equal(t, 2, p.InstructionCount())
}

func TestDescriptors(t *testing.T) {
	assert.Len(t, Instructions, 8)
	for _, symbol := range "><+-.,[]" {
		d := Describe(byte(symbol))
		require.NotNil(t, d, "missing descriptor for %c", symbol)
		assert.NotEmpty(t, d.Description)
	}

	assert.Nil(t, Describe('x'))
	assert.Equal(t, "NOP", Instruction('x').Mnemonic())
	assert.Equal(t, "INC", Increment.Mnemonic())
	assert.Equal(t, "[", LoopStart.String())
}

func TestDocString(t *testing.T) {
	docs := DocString()

	assert.True(t, strings.HasPrefix(docs, "total instructions: 8\n"))
	for _, d := range Instructions {
		assert.Contains(t, docs, d.Description)
	}
}

func TestInstructionCategory(t *testing.T) {
	assert.Equal(t, CategoryMove, MoveLeft.Category())
	assert.Equal(t, CategoryArithmetic, Decrement.Category())
	assert.Equal(t, CategoryIO, Input.Category())
	assert.Equal(t, CategoryControl, LoopEnd.Category())
	assert.Equal(t, CategoryNone, Instruction('#').Category())
}

func TestProgram_Highlight(t *testing.T) {
	noColor := color.NoColor
	defer func() { color.NoColor = noColor }()

	p := MustParse("++x[-]")

	color.NoColor = true
	assert.Equal(t, p.Source(), p.Highlight(0))

	color.NoColor = false
	expected := cursorColor.Sprint("+") +
		categoryColors[CategoryArithmetic].Sprint("+") +
		categoryColors[CategoryNone].Sprint("x") +
		categoryColors[CategoryControl].Sprint("[") +
		breakpointColor.Sprint("-") +
		categoryColors[CategoryControl].Sprint("]")
	assert.Equal(t, expected, p.Highlight(0, 4))

	// a cursor past the end draws nothing special
	assert.NotContains(t, p.Highlight(p.Len()), cursorColor.Sprint("+"))
}
