package program

import (
	"fmt"
	"strings"
)

// Represents one of the eight recognized instruction symbols
type Instruction byte

const (
	// Move the pointer one cell to the right
	MoveRight Instruction = '>'
	// Move the pointer one cell to the left
	MoveLeft Instruction = '<'
	// Increment the current cell
	Increment Instruction = '+'
	// Decrement the current cell
	Decrement Instruction = '-'
	// Emit the current cell value
	Output Instruction = '.'
	// Request one input value into the current cell
	Input Instruction = ','
	// Jump past the matching ']' if the current cell is zero
	LoopStart Instruction = '['
	// Jump back past the matching '[' if the current cell is not zero
	LoopEnd Instruction = ']'
)

// Contains information describing an instruction
type InstructionDescriptor struct {
	// Instruction symbol in program text
	Symbol Instruction
	// Short mnemonic used in traces and logs
	Mnemonic string
	// Instruction description (for documentation and debugging)
	Description string
}

// Returns a human readable string representation of the instruction
func (d *InstructionDescriptor) String() string {
	return fmt.Sprintf("'%c' (%s)", d.Symbol, d.Mnemonic)
}

// Returns full documentation for the instruction
func (d *InstructionDescriptor) Documentation(leftpad int) string {
	leftpadStr := strings.Repeat(" ", leftpad)

	var builder strings.Builder
	builder.WriteString(leftpadStr)
	builder.WriteString(d.String())
	builder.WriteString("\n")
	builder.WriteString(leftpadStr)
	builder.WriteString("  ")
	builder.WriteString(d.Description)
	builder.WriteString("\n")
	return builder.String()
}

// Instructions lists every recognized instruction in documentation order
var Instructions = []*InstructionDescriptor{
	{Symbol: MoveRight, Mnemonic: "RIGHT", Description: "Move the pointer one cell to the right, growing the tape if needed."},
	{Symbol: MoveLeft, Mnemonic: "LEFT", Description: "Move the pointer one cell to the left, growing the tape if needed."},
	{Symbol: Increment, Mnemonic: "INC", Description: "Increment the current cell. 255 wraps to 0."},
	{Symbol: Decrement, Mnemonic: "DEC", Description: "Decrement the current cell. 0 wraps to 255."},
	{Symbol: Output, Mnemonic: "OUT", Description: "Emit the value of the current cell as one output byte."},
	{Symbol: Input, Mnemonic: "IN", Description: "Suspend until one input character is supplied, then store it in the current cell."},
	{Symbol: LoopStart, Mnemonic: "LOOP", Description: "If the current cell is 0, continue after the matching ']'."},
	{Symbol: LoopEnd, Mnemonic: "END", Description: "If the current cell is not 0, continue after the matching '['."},
}

var descriptors = func() map[Instruction]*InstructionDescriptor {
	result := make(map[Instruction]*InstructionDescriptor, len(Instructions))
	for _, d := range Instructions {
		result[d.Symbol] = d
	}
	return result
}()

// Describe returns the descriptor of an instruction symbol, or nil if the
// symbol is not an instruction
func Describe(symbol byte) *InstructionDescriptor {
	return descriptors[Instruction(symbol)]
}

// IsInstruction checks whether a program character is one of the recognized symbols
func IsInstruction(symbol byte) bool {
	_, ok := descriptors[Instruction(symbol)]
	return ok
}

// Mnemonic returns the mnemonic of the instruction
func (i Instruction) Mnemonic() string {
	if d := descriptors[i]; d != nil {
		return d.Mnemonic
	}
	return "NOP"
}

// String returns the instruction symbol
func (i Instruction) String() string {
	return string(rune(i))
}

// Dumps the language reference as one big multiline string
func Documentation(leftpad int) string {
	leftpadStr := strings.Repeat(" ", leftpad)

	var builder strings.Builder
	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("total instructions: %v\n", len(Instructions)))
	builder.WriteString(leftpadStr)
	builder.WriteString("cell width (bits): 8, arithmetic wraps modulo 256\n")
	builder.WriteString(leftpadStr)
	builder.WriteString("any other character is ignored\n\n")
	builder.WriteString(leftpadStr)
	builder.WriteString("Instructions:\n\n")

	for _, d := range Instructions {
		builder.WriteString(d.Documentation(leftpad + 2))
		builder.WriteString("\n")
	}

	return builder.String()
}

// Like Documentation(), but with zero leftpad
func DocString() string {
	return Documentation(0)
}
