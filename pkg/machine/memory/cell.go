// Package memory implements the tape memory of the machine: 8 bit cells, an
// unbounded tape that grows one cell at a time in both directions, and the
// pointer that walks over it.
package memory

// Cell is a single tape memory unit. Arithmetic wraps modulo 256.
type Cell struct {
	value uint8
}

// Value returns the current value of the cell
func (c *Cell) Value() uint8 {
	return c.value
}

// Set overwrites the value of the cell
func (c *Cell) Set(value uint8) {
	c.value = value
}

// Inc increments the cell, wrapping 255 to 0
func (c *Cell) Inc() {
	c.value++
}

// Dec decrements the cell, wrapping 0 to 255
func (c *Cell) Dec() {
	c.value--
}

// Char returns the cell value interpreted as a character
func (c *Cell) Char() rune {
	return rune(c.value)
}
