// Package program loads instruction strings and precomputes the bracket jump
// table used by the interpreter.
package program

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSyntax is the root of every load time program error
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports an unmatched bracket
type SyntaxError struct {
	// Position of the offending bracket in the source
	Position int
	// Symbol is the offending bracket
	Symbol Instruction
}

func (e *SyntaxError) Error() string {
	if e.Symbol == LoopStart {
		return fmt.Sprintf("%v: unmatched '[' at position %d", ErrSyntax, e.Position)
	}
	return fmt.Sprintf("%v: unmatched ']' at position %d", ErrSyntax, e.Position)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// BracketTable maps each bracket position to the position of its match
type BracketTable map[int]int

// Program is an immutable instruction string plus its bracket table
type Program struct {
	source string
	jumps  BracketTable
}

// Parse validates the source and builds the bracket table with a single left
// to right scan. An unmatched bracket returns a *SyntaxError and no program.
func Parse(source string) (*Program, error) {
	jumps := make(BracketTable)
	var open []int

	for i := 0; i < len(source); i++ {
		switch Instruction(source[i]) {
		case LoopStart:
			open = append(open, i)
		case LoopEnd:
			if len(open) == 0 {
				return nil, &SyntaxError{Position: i, Symbol: LoopEnd}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			jumps[start] = i
			jumps[i] = start
		}
	}

	if len(open) > 0 {
		// report the innermost unclosed bracket
		return nil, &SyntaxError{Position: open[len(open)-1], Symbol: LoopStart}
	}

	return &Program{
		source: source,
		jumps:  jumps,
	}, nil
}

// MustParse is like Parse but panics on error
func MustParse(source string) *Program {
	p, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the program text
func (p *Program) Source() string {
	return p.source
}

// Len returns the length of the program text
func (p *Program) Len() int {
	return len(p.source)
}

// At returns the character at position and whether it is a recognized instruction
func (p *Program) At(position int) (Instruction, bool) {
	if position < 0 || position >= len(p.source) {
		return 0, false
	}
	symbol := p.source[position]
	return Instruction(symbol), IsInstruction(symbol)
}

// Match returns the position of the bracket matching the one at position
func (p *Program) Match(position int) (int, bool) {
	match, ok := p.jumps[position]
	return match, ok
}

// Jumps returns a copy of the bracket table
func (p *Program) Jumps() BracketTable {
	result := make(BracketTable, len(p.jumps))
	for k, v := range p.jumps {
		result[k] = v
	}
	return result
}

// Brackets returns every bracket position in ascending order
func (p *Program) Brackets() []int {
	positions := make([]int, 0, len(p.jumps))
	for k := range p.jumps {
		positions = append(positions, k)
	}
	sort.Ints(positions)
	return positions
}

// NextInstruction returns the first position >= from holding a recognized
// instruction, or Len() if there is none
func (p *Program) NextInstruction(from int) int {
	if from < 0 {
		from = 0
	}
	for from < len(p.source) && !IsInstruction(p.source[from]) {
		from++
	}
	return from
}

// InstructionCount returns how many recognized instructions the program has
func (p *Program) InstructionCount() int {
	count := 0
	for i := 0; i < len(p.source); i++ {
		if IsInstruction(p.source[i]) {
			count++
		}
	}
	return count
}
