package memory

import "fmt"

// Side identifies the tape boundary a new cell was added to
type Side int

const (
	// SideLeft means the tape grew below its first index
	SideLeft Side = iota
	// SideRight means the tape grew past its last index
	SideRight
)

// String returns the string representation of a Side
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// GrowHandler is called once per cell added to the tape
type GrowHandler func(index int, side Side)

// Tape is a contiguous, bidirectionally unbounded sequence of cells indexed by
// signed integers. The populated range [First, Last] never has gaps and never
// shrinks except through Reset.
type Tape struct {
	// right holds indices 0, 1, 2, ...
	right []Cell
	// left holds indices -1, -2, -3, ...
	left []Cell

	onGrow GrowHandler
}

// NewTape creates a tape with a single zero cell at index 0
func NewTape() *Tape {
	return &Tape{
		right: make([]Cell, 1),
	}
}

// OnGrow sets the handler notified of every new boundary cell
func (t *Tape) OnGrow(handler GrowHandler) {
	t.onGrow = handler
}

// First returns the lowest populated index
func (t *Tape) First() int {
	return -len(t.left)
}

// Last returns the highest populated index
func (t *Tape) Last() int {
	return len(t.right) - 1
}

// Len returns the number of populated cells
func (t *Tape) Len() int {
	return len(t.left) + len(t.right)
}

// Contains checks whether index lies in the populated range
func (t *Tape) Contains(index int) bool {
	return index >= t.First() && index <= t.Last()
}

func (t *Tape) cell(index int) *Cell {
	if index >= 0 {
		return &t.right[index]
	}
	return &t.left[-index-1]
}

// Cell returns the cell at the given index without growing the tape
func (t *Tape) Cell(index int) (*Cell, error) {
	if !t.Contains(index) {
		return nil, makeError(ErrMemoryFault, "cell %d is outside the tape range [%d, %d]", index, t.First(), t.Last())
	}
	return t.cell(index), nil
}

// Get returns the value at index. Accessing an index outside the populated
// range is a fault: callers are expected to Ensure the index first.
func (t *Tape) Get(index int) (uint8, error) {
	cell, err := t.Cell(index)
	if err != nil {
		return 0, err
	}
	return cell.Value(), nil
}

// Ensure grows the tape one boundary cell at a time until index is populated
// and returns the cell at index. New cells hold 0.
func (t *Tape) Ensure(index int) *Cell {
	for index > t.Last() {
		t.right = append(t.right, Cell{})
		t.notifyGrow(t.Last(), SideRight)
	}
	for index < t.First() {
		t.left = append(t.left, Cell{})
		t.notifyGrow(t.First(), SideLeft)
	}
	return t.cell(index)
}

// Set ensures index is populated and stores value there
func (t *Tape) Set(index int, value uint8) {
	t.Ensure(index).Set(value)
}

// Values returns a copy of the populated cells ordered from First to Last
func (t *Tape) Values() []uint8 {
	values := make([]uint8, 0, t.Len())
	for i := len(t.left) - 1; i >= 0; i-- {
		values = append(values, t.left[i].value)
	}
	for i := range t.right {
		values = append(values, t.right[i].value)
	}
	return values
}

// Reset clears the tape back to a single zero cell at index 0
func (t *Tape) Reset() {
	t.right = make([]Cell, 1)
	t.left = nil
}

func (t *Tape) notifyGrow(index int, side Side) {
	if t.onGrow != nil {
		t.onGrow(index, side)
	}
}
