package memory

// MoveHandler is called after every pointer move with the new index
type MoveHandler func(index int)

// Pointer is the current tape index. It moves one cell at a time and grows the
// tape as part of the same move, so it never points outside the populated range.
type Pointer struct {
	index  int
	tape   *Tape
	onMove MoveHandler
}

// NewPointer creates a pointer at index 0 of the given tape
func NewPointer(tape *Tape) *Pointer {
	return &Pointer{
		tape: tape,
	}
}

// OnMove sets the handler notified after each move
func (p *Pointer) OnMove(handler MoveHandler) {
	p.onMove = handler
}

// Index returns the current tape index
func (p *Pointer) Index() int {
	return p.index
}

// Cell returns the cell under the pointer
func (p *Pointer) Cell() (*Cell, error) {
	return p.tape.Cell(p.index)
}

// MoveLeft moves the pointer one cell to the left
func (p *Pointer) MoveLeft() {
	p.move(-1)
}

// MoveRight moves the pointer one cell to the right
func (p *Pointer) MoveRight() {
	p.move(+1)
}

func (p *Pointer) move(delta int) {
	p.index += delta
	p.tape.Ensure(p.index)

	if p.onMove != nil {
		p.onMove(p.index)
	}
}

// Reset moves the pointer back to index 0 without notifying move handlers
func (p *Pointer) Reset() {
	p.index = 0
}
