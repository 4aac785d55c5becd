package memory

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_Wraparound(t *testing.T) {
	t.Run("inc 255 is 0", func(t *testing.T) {
		c := Cell{value: 255}
		c.Inc()
		assert.Equal(t, uint8(0), c.Value())
	})

	t.Run("dec 0 is 255", func(t *testing.T) {
		c := Cell{}
		c.Dec()
		assert.Equal(t, uint8(255), c.Value())
	})

	t.Run("256 increments is identity", func(t *testing.T) {
		for v := 0; v < 256; v++ {
			c := Cell{value: uint8(v)}
			for i := 0; i < 256; i++ {
				c.Inc()
			}
			assert.Equal(t, uint8(v), c.Value())
		}
	})

	t.Run("char", func(t *testing.T) {
		c := Cell{}
		c.Set('A')
		assert.Equal(t, 'A', c.Char())
	})
}

func TestNewTape(t *testing.T) {
	tape := NewTape()

	assert.Equal(t, 0, tape.First())
	assert.Equal(t, 0, tape.Last())
	assert.Equal(t, 1, tape.Len())
	assert.Equal(t, []uint8{0}, tape.Values())
}

func TestTape_Get(t *testing.T) {
	tape := NewTape()

	value, err := tape.Get(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), value)

	_, err = tape.Get(1)
	assert.ErrorIs(t, err, ErrMemoryFault)

	_, err = tape.Get(-1)
	assert.ErrorIs(t, err, ErrMemoryFault)
}

func TestTape_EnsureGrowsOneCellAtATime(t *testing.T) {
	tape := NewTape()

	type growth struct {
		index int
		side  Side
	}
	var grown []growth
	tape.OnGrow(func(index int, side Side) {
		grown = append(grown, growth{index, side})
	})

	tape.Ensure(2)
	tape.Ensure(-2)
	tape.Ensure(1)

	assert.Equal(t, []growth{
		{1, SideRight},
		{2, SideRight},
		{-1, SideLeft},
		{-2, SideLeft},
	}, grown)
	assert.Equal(t, -2, tape.First())
	assert.Equal(t, 2, tape.Last())
	assert.Equal(t, 5, tape.Len())
}

func TestTape_EnsureKeepsRangeContiguous(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tape := NewTape()

	for i := 0; i < 500; i++ {
		index := rng.Intn(201) - 100
		tape.Ensure(index)

		require.True(t, tape.Contains(index))
		require.Equal(t, tape.Last()-tape.First()+1, tape.Len())
		for j := tape.First(); j <= tape.Last(); j++ {
			_, err := tape.Get(j)
			require.NoError(t, err)
		}
	}
}

func TestTape_SetAndValues(t *testing.T) {
	tape := NewTape()

	tape.Set(-1, 7)
	tape.Set(1, 9)
	tape.Ensure(0).Inc()

	assert.Equal(t, []uint8{7, 1, 9}, tape.Values())
}

func TestTape_Reset(t *testing.T) {
	tape := NewTape()
	tape.Set(-3, 1)
	tape.Set(3, 1)

	tape.Reset()

	assert.Equal(t, 0, tape.First())
	assert.Equal(t, 0, tape.Last())
	assert.Equal(t, []uint8{0}, tape.Values())
}

func TestPointer_Moves(t *testing.T) {
	tape := NewTape()
	pointer := NewPointer(tape)

	grows := 0
	tape.OnGrow(func(int, Side) { grows++ })

	var moves []int
	pointer.OnMove(func(index int) {
		// the tape must already contain the new index when the move is observed
		assert.True(t, tape.Contains(index))
		moves = append(moves, index)
	})

	pointer.MoveRight()
	assert.Equal(t, 1, grows)
	pointer.MoveLeft()
	assert.Equal(t, 1, grows)
	pointer.MoveLeft()
	assert.Equal(t, 2, grows)

	assert.Equal(t, []int{1, 0, -1}, moves)
	assert.Equal(t, -1, pointer.Index())

	cell, err := pointer.Cell()
	require.NoError(t, err)
	cell.Inc()
	assert.Equal(t, []uint8{1, 0, 0}, tape.Values())
}

func TestPointer_Reset(t *testing.T) {
	tape := NewTape()
	pointer := NewPointer(tape)
	pointer.MoveRight()

	pointer.Reset()

	assert.Equal(t, 0, pointer.Index())
}

func TestSide_String(t *testing.T) {
	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "right", SideRight.String())
	assert.Equal(t, "unknown(7)", Side(7).String())
}
