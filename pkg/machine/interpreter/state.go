package interpreter

import (
	"fmt"

	"github.com/Manu343726/cinta/pkg/machine/memory"
	"github.com/Manu343726/cinta/pkg/machine/program"
)

// State is the execution state of an Engine
type State int

const (
	// StateIdle is the initial state, nothing executed yet
	StateIdle State = iota
	// StateRunning means the engine is being driven by an auto-run loop
	StateRunning
	// StatePaused means the engine is driven by manual single steps
	StatePaused
	// StateAwaitingInput blocks every step until Resume supplies a value
	StateAwaitingInput
	// StateHalted is terminal: the cursor reached the end of the program
	StateHalted
	// StateFaulted is terminal: a memory fault stopped execution
	StateFaulted
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// IsTerminal returns true for Halted and Faulted
func (s State) IsTerminal() bool {
	return s == StateHalted || s == StateFaulted
}

// StatusKind describes what a single step did
type StatusKind int

const (
	// StatusContinue means an instruction executed with no visible side effect
	StatusContinue StatusKind = iota
	// StatusOutput means an output byte was emitted
	StatusOutput
	// StatusAwaitingInput means the engine is suspended on an input instruction
	StatusAwaitingInput
	// StatusHalted means the program finished
	StatusHalted
	// StatusFault means execution stopped on a memory fault
	StatusFault
)

// String returns the string representation of a StatusKind
func (k StatusKind) String() string {
	switch k {
	case StatusContinue:
		return "continue"
	case StatusOutput:
		return "output"
	case StatusAwaitingInput:
		return "awaiting_input"
	case StatusHalted:
		return "halted"
	case StatusFault:
		return "fault"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Status is the result of one Step call
type Status struct {
	// Kind describes what happened
	Kind StatusKind
	// Value is the emitted byte for StatusOutput
	Value byte
	// Position is the program position of the dispatched (or pending) instruction
	Position int
	// Instruction is the dispatched instruction, zero for Halted
	Instruction program.Instruction
	// Err holds the fault detail for StatusFault
	Err error
}

// Message returns the fault message, or an empty string
func (s Status) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// String returns a human readable representation of the status
func (s Status) String() string {
	switch s.Kind {
	case StatusOutput:
		return fmt.Sprintf("output(%d)", s.Value)
	case StatusFault:
		return fmt.Sprintf("fault(%s)", s.Message())
	default:
		return s.Kind.String()
	}
}

// CellSnapshot is a copy of a tape cell at the time it was observed
type CellSnapshot struct {
	Index int
	Value uint8
}

// Hooks are the change notifications an Engine emits. Every field is optional.
// Hooks run synchronously inside the engine call that triggered them and must
// not call back into the engine.
type Hooks struct {
	// OnOutput is called with every emitted byte
	OnOutput func(value byte)
	// OnInputRequest is called when an input instruction suspends the engine
	OnInputRequest func(cell CellSnapshot)
	// OnCursorChanged is called when the instruction cursor moves
	OnCursorChanged func(position int)
	// OnPointerMoved is called after every pointer move
	OnPointerMoved func(index int)
	// OnTapeGrown is called once per new boundary cell
	OnTapeGrown func(index int, side memory.Side)
	// OnCellChanged is called when a cell value is written
	OnCellChanged func(index int, value uint8)
	// OnStateChanged is called on every state transition
	OnStateChanged func(from, to State)
	// OnReset is called after the engine has been reset
	OnReset func()
}

// Snapshot is an immutable copy of the engine state for renderers
type Snapshot struct {
	State   State
	Cursor  int
	Pointer int
	// First is the tape index of Cells[0]
	First int
	Cells []uint8
	Steps int
}

// Last returns the highest populated tape index
func (s *Snapshot) Last() int {
	return s.First + len(s.Cells) - 1
}

// Value returns the value of the cell at index, if populated
func (s *Snapshot) Value(index int) (uint8, bool) {
	if index < s.First || index > s.Last() {
		return 0, false
	}
	return s.Cells[index-s.First], true
}
