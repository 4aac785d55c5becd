// Package interpreter provides the instruction dispatch state machine.
//
// The Engine is a pure state machine: every Step dispatches exactly one
// instruction and returns a Status describing what happened. It has no notion
// of time. Hosts that want timed execution drive it through a Runner.
package interpreter

import (
	"unicode/utf8"

	"github.com/Manu343726/cinta/pkg/machine/memory"
	"github.com/Manu343726/cinta/pkg/machine/program"
)

// Engine owns a program, its tape and pointer, the instruction cursor and the
// execution state
type Engine struct {
	program *program.Program
	tape    *memory.Tape
	pointer *memory.Pointer

	cursor int
	state  State
	steps  int
	fault  error

	subscribers      []subscriber
	nextSubscriberID int
}

type subscriber struct {
	id    int
	hooks Hooks
}

// New parses source and creates an engine for it. Unmatched brackets fail with
// a *program.SyntaxError and no engine is created.
func New(source string) (*Engine, error) {
	p, err := program.Parse(source)
	if err != nil {
		return nil, err
	}
	return NewEngine(p), nil
}

// NewEngine creates an engine for an already validated program
func NewEngine(p *program.Program) *Engine {
	e := &Engine{
		program: p,
		tape:    memory.NewTape(),
	}
	e.pointer = memory.NewPointer(e.tape)
	e.tape.OnGrow(e.notifyTapeGrown)
	e.pointer.OnMove(e.notifyPointerMoved)
	return e
}

// Program returns the loaded program
func (e *Engine) Program() *program.Program {
	return e.program
}

// State returns the current execution state
func (e *Engine) State() State {
	return e.state
}

// Cursor returns the position of the next instruction to execute
func (e *Engine) Cursor() int {
	return e.cursor
}

// Pointer returns the current tape index
func (e *Engine) Pointer() int {
	return e.pointer.Index()
}

// Steps returns how many instructions were dispatched since the last reset
func (e *Engine) Steps() int {
	return e.steps
}

// Fault returns the error that faulted the engine, if any
func (e *Engine) Fault() error {
	return e.fault
}

// Get returns the value of a populated tape cell
func (e *Engine) Get(index int) (uint8, error) {
	return e.tape.Get(index)
}

// Contains checks whether a tape index is populated
func (e *Engine) Contains(index int) bool {
	return e.tape.Contains(index)
}

// Bounds returns the populated tape range
func (e *Engine) Bounds() (first, last int) {
	return e.tape.First(), e.tape.Last()
}

// Snapshot returns a copy of the engine state
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:   e.state,
		Cursor:  e.cursor,
		Pointer: e.pointer.Index(),
		First:   e.tape.First(),
		Cells:   e.tape.Values(),
		Steps:   e.steps,
	}
}

// Subscribe registers a set of hooks and returns a function that removes them
func (e *Engine) Subscribe(hooks Hooks) (unsubscribe func()) {
	id := e.nextSubscriberID
	e.nextSubscriberID++
	e.subscribers = append(e.subscribers, subscriber{id: id, hooks: hooks})

	return func() {
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Step dispatches exactly one instruction.
//
// Once halted or faulted further calls return the same terminal status without
// mutating anything. While awaiting input every call returns
// StatusAwaitingInput until Resume is called. A step from Idle moves the engine
// to Running; a step while Paused executes normally and stays Paused.
func (e *Engine) Step() Status {
	switch e.state {
	case StateHalted:
		return Status{Kind: StatusHalted, Position: e.cursor}
	case StateFaulted:
		return Status{Kind: StatusFault, Position: e.cursor, Err: e.fault}
	case StateAwaitingInput:
		return Status{Kind: StatusAwaitingInput, Position: e.cursor, Instruction: program.Input}
	case StateIdle:
		e.setState(StateRunning)
	}

	// skip leading comments so the first dispatch lands on an instruction
	if next := e.program.NextInstruction(e.cursor); next != e.cursor {
		e.setCursor(next)
	}

	if e.cursor >= e.program.Len() {
		e.setState(StateHalted)
		return Status{Kind: StatusHalted, Position: e.cursor}
	}

	position := e.cursor
	symbol, _ := e.program.At(position)
	status := Status{Kind: StatusContinue, Position: position, Instruction: symbol}

	cell, err := e.pointer.Cell()
	if err != nil {
		return e.faultWith(status, err)
	}

	next := position + 1

	switch symbol {
	case program.MoveRight:
		e.pointer.MoveRight()
	case program.MoveLeft:
		e.pointer.MoveLeft()
	case program.Increment:
		cell.Inc()
		e.notifyCellChanged(e.pointer.Index(), cell.Value())
	case program.Decrement:
		cell.Dec()
		e.notifyCellChanged(e.pointer.Index(), cell.Value())
	case program.Output:
		status.Kind = StatusOutput
		status.Value = cell.Value()
		e.notifyOutput(status.Value)
	case program.Input:
		// the cursor stays on ',' until Resume supplies the value
		e.steps++
		status.Kind = StatusAwaitingInput
		e.setState(StateAwaitingInput)
		e.notifyInputRequest(CellSnapshot{Index: e.pointer.Index(), Value: cell.Value()})
		return status
	case program.LoopStart:
		if cell.Value() == 0 {
			match, _ := e.program.Match(position)
			next = match + 1
		}
	case program.LoopEnd:
		if cell.Value() != 0 {
			match, _ := e.program.Match(position)
			next = match + 1
		}
	}

	e.steps++
	e.setCursor(e.program.NextInstruction(next))
	return status
}

// Resume supplies the value requested by an input instruction and moves the
// engine to next, which must be StateRunning or StatePaused. The input must be
// exactly one character whose code fits in 8 bits; otherwise ErrInput is
// returned and the engine keeps waiting.
func (e *Engine) Resume(input string, next State) error {
	if e.state != StateAwaitingInput {
		return makeError(ErrInvalidState, "cannot resume while %v", e.state)
	}
	if next != StateRunning && next != StatePaused {
		return makeError(ErrInvalidState, "cannot resume into %v", next)
	}

	value, err := parseInput(input)
	if err != nil {
		return err
	}

	cell, err := e.pointer.Cell()
	if err != nil {
		e.faultWith(Status{Position: e.cursor, Instruction: program.Input}, err)
		return err
	}

	cell.Set(value)
	e.notifyCellChanged(e.pointer.Index(), value)
	e.setState(next)
	e.setCursor(e.program.NextInstruction(e.cursor + 1))
	return nil
}

// Pause switches the engine to manual stepping
func (e *Engine) Pause() error {
	switch e.state {
	case StateIdle, StateRunning:
		e.setState(StatePaused)
		return nil
	case StatePaused:
		return nil
	default:
		return makeError(ErrInvalidState, "cannot pause while %v", e.state)
	}
}

// Continue switches the engine to auto-run. It is also how a run starts.
func (e *Engine) Continue() error {
	switch e.state {
	case StateIdle, StatePaused:
		e.setState(StateRunning)
		return nil
	case StateRunning:
		return nil
	default:
		return makeError(ErrInvalidState, "cannot continue while %v", e.state)
	}
}

// Reset clears the tape to a single zero cell, moves the pointer and the
// cursor back to 0 and the state to Idle. It always succeeds.
func (e *Engine) Reset() {
	e.tape.Reset()
	e.pointer.Reset()
	e.cursor = 0
	e.steps = 0
	e.fault = nil
	e.setState(StateIdle)

	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnReset != nil {
			s.hooks.OnReset()
		}
	}
}

func parseInput(input string) (uint8, error) {
	if count := utf8.RuneCountInString(input); count != 1 {
		return 0, makeError(ErrInput, "expected exactly one character, got %d", count)
	}

	r, size := utf8.DecodeRuneInString(input)
	if r == utf8.RuneError && size == 1 {
		// raw non UTF-8 byte
		return input[0], nil
	}
	if r > 0xFF {
		return 0, makeError(ErrInput, "character %q does not fit in 8 bits", r)
	}
	return uint8(r), nil
}

func (e *Engine) faultWith(status Status, err error) Status {
	e.fault = err
	e.setState(StateFaulted)
	status.Kind = StatusFault
	status.Err = err
	return status
}

func (e *Engine) setState(state State) {
	if e.state == state {
		return
	}
	from := e.state
	e.state = state
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnStateChanged != nil {
			s.hooks.OnStateChanged(from, state)
		}
	}
}

func (e *Engine) setCursor(position int) {
	if e.cursor == position {
		return
	}
	e.cursor = position
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnCursorChanged != nil {
			s.hooks.OnCursorChanged(position)
		}
	}
}

func (e *Engine) snapshotSubscribers() []subscriber {
	return append([]subscriber(nil), e.subscribers...)
}

func (e *Engine) notifyOutput(value byte) {
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnOutput != nil {
			s.hooks.OnOutput(value)
		}
	}
}

func (e *Engine) notifyInputRequest(cell CellSnapshot) {
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnInputRequest != nil {
			s.hooks.OnInputRequest(cell)
		}
	}
}

func (e *Engine) notifyPointerMoved(index int) {
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnPointerMoved != nil {
			s.hooks.OnPointerMoved(index)
		}
	}
}

func (e *Engine) notifyTapeGrown(index int, side memory.Side) {
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnTapeGrown != nil {
			s.hooks.OnTapeGrown(index, side)
		}
	}
}

func (e *Engine) notifyCellChanged(index int, value uint8) {
	for _, s := range e.snapshotSubscribers() {
		if s.hooks.OnCellChanged != nil {
			s.hooks.OnCellChanged(index, value)
		}
	}
}
