// Package window keeps a fixed size view over the tape that follows the
// pointer.
//
// The window never jumps: every pointer move shifts it by at most one cell in
// one direction, adding exactly one slot on one edge and evicting exactly one
// slot on the opposite edge. Slots live in a ring buffer so a shift is O(1)
// regardless of the window size.
package window

import (
	"errors"
	"fmt"

	"github.com/Manu343726/cinta/pkg/utils"
)

var (
	// ErrInvalidSize is returned when a window is created with a size < 1
	ErrInvalidSize = errors.New("invalid window size")
	// ErrJump is returned when the pointer moved more than one cell past an edge
	ErrJump = errors.New("pointer jumped past window edge")
)

// Source is the tape the window reads values from
type Source interface {
	// Get returns the value of a populated cell
	Get(index int) (uint8, error)
	// Contains checks whether a tape index is populated
	Contains(index int) bool
}

// Slot is one rendered position of the window
type Slot struct {
	// Index is the tape index shown in this slot
	Index int
	// Value is the cell value, zero if the cell is not populated yet
	Value uint8
	// Populated is false for positions the tape has not grown into yet
	Populated bool
}

// Direction of a window shift
type Direction int

const (
	// DirectionNone means the window did not move
	DirectionNone Direction = iota
	// DirectionLeft means the window start decreased by one
	DirectionLeft
	// DirectionRight means the window start increased by one
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// Shift describes the change caused by one pointer move
type Shift struct {
	Direction Direction
	// Added is the slot that entered the window
	Added Slot
	// Evicted is the slot that left the window on the opposite edge
	Evicted Slot
}

// Moved returns true if the window shifted
func (s Shift) Moved() bool {
	return s.Direction != DirectionNone
}

// Window is a sliding view of size cells over a Source
type Window struct {
	source Source
	start  int
	slots  []Slot
	// head is the ring position of the slot at start
	head int
}

// New creates a window of the given size whose first slot shows tape index start
func New(source Source, size int, start int) (*Window, error) {
	if size < 1 {
		return nil, utils.MakeError(ErrInvalidSize, "got %d", size)
	}

	w := &Window{
		source: source,
		slots:  make([]Slot, size),
	}
	w.Reset(start)
	return w, nil
}

// Centered creates a window of the given size with index in its middle slot
func Centered(source Source, size int, index int) (*Window, error) {
	return New(source, size, index-size/2)
}

// Size returns the number of slots
func (w *Window) Size() int {
	return len(w.slots)
}

// Start returns the tape index of the first slot
func (w *Window) Start() int {
	return w.start
}

// End returns the tape index of the last slot
func (w *Window) End() int {
	return w.start + len(w.slots) - 1
}

// Contains checks whether a tape index is inside the window
func (w *Window) Contains(index int) bool {
	return index >= w.start && index <= w.End()
}

// Offset returns the position of a tape index inside the window
func (w *Window) Offset(index int) (int, bool) {
	if !w.Contains(index) {
		return 0, false
	}
	return index - w.start, true
}

// Slot returns the slot showing a tape index
func (w *Window) Slot(index int) (Slot, bool) {
	if !w.Contains(index) {
		return Slot{}, false
	}
	return *w.slot(index), true
}

// Slots returns a copy of all slots ordered from Start to End
func (w *Window) Slots() []Slot {
	result := make([]Slot, len(w.slots))
	for i := range result {
		result[i] = w.slots[(w.head+i)%len(w.slots)]
	}
	return result
}

// PointerMoved follows the pointer to index. If index is one cell past an
// edge the window shifts by one; a move further away than that fails with
// ErrJump and leaves the window untouched.
func (w *Window) PointerMoved(index int) (Shift, error) {
	switch {
	case w.Contains(index):
		return Shift{}, nil
	case index == w.start-1:
		return w.shiftLeft(), nil
	case index == w.End()+1:
		return w.shiftRight(), nil
	default:
		return Shift{}, utils.MakeError(ErrJump, "index %d, window [%d, %d]", index, w.start, w.End())
	}
}

// TapeGrown marks a new boundary cell as populated if it is in view. It
// returns true if a slot changed.
func (w *Window) TapeGrown(index int) bool {
	if !w.Contains(index) {
		return false
	}
	*w.slot(index) = w.read(index)
	return true
}

// CellChanged updates the value of a slot if it is in view. It returns true
// if a slot changed.
func (w *Window) CellChanged(index int, value uint8) bool {
	if !w.Contains(index) {
		return false
	}
	s := w.slot(index)
	s.Value = value
	s.Populated = true
	return true
}

// Reset moves the window so its first slot is start and reloads every slot
func (w *Window) Reset(start int) {
	w.start = start
	w.head = 0
	w.Refresh()
}

// Recenter moves the window so index is in the middle slot
func (w *Window) Recenter(index int) {
	w.Reset(index - len(w.slots)/2)
}

// Refresh reloads every slot from the source
func (w *Window) Refresh() {
	for i := range w.slots {
		w.slots[(w.head+i)%len(w.slots)] = w.read(w.start + i)
	}
}

func (w *Window) slot(index int) *Slot {
	return &w.slots[(w.head+index-w.start)%len(w.slots)]
}

func (w *Window) read(index int) Slot {
	s := Slot{Index: index}
	if !w.source.Contains(index) {
		return s
	}
	value, err := w.source.Get(index)
	if err != nil {
		return s
	}
	s.Value = value
	s.Populated = true
	return s
}

func (w *Window) shiftLeft() Shift {
	last := (w.head + len(w.slots) - 1) % len(w.slots)
	shift := Shift{Direction: DirectionLeft, Evicted: w.slots[last]}

	// the evicted last slot becomes the new first one
	w.head = last
	w.start--
	w.slots[w.head] = w.read(w.start)

	shift.Added = w.slots[w.head]
	return shift
}

func (w *Window) shiftRight() Shift {
	shift := Shift{Direction: DirectionRight, Evicted: w.slots[w.head]}

	// the evicted first slot becomes the new last one
	end := w.End() + 1
	w.slots[w.head] = w.read(end)
	added := w.slots[w.head]
	w.head = (w.head + 1) % len(w.slots)
	w.start++

	shift.Added = added
	return shift
}
