package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/taplist/internal/keymap"
)

// A 100-track playlist in a 10-row window.
var long = View{Len: 100, Height: 10}

func TestJump_Clamps(t *testing.T) {
	tests := []struct {
		name string
		row  int
		want int
	}{
		{"inside", 42, 42},
		{"negative", -5, 0},
		{"past end", 500, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(2)
			c.Jump(tt.row, long)
			assert.Equal(t, tt.want, c.Pos())
		})
	}
}

func TestJump_EmptyListIgnored(t *testing.T) {
	c := New(2)
	c.Jump(5, long)

	c.Jump(0, View{Height: 10})

	assert.Equal(t, 5, c.Pos())
}

func TestMove_KeepsMargin(t *testing.T) {
	c := New(2)

	for range 7 {
		c.Move(1, long)
	}
	assert.Equal(t, 7, c.Pos())
	assert.Equal(t, 0, c.Top(), "rows 0..9 visible, cursor 2 rows above the edge")

	c.Move(1, long)
	assert.Equal(t, 1, c.Top())

	c.Move(-6, long)
	assert.Equal(t, 2, c.Pos())
	assert.Equal(t, 0, c.Top())
}

func TestMove_NearEndDoesNotOverscroll(t *testing.T) {
	c := New(3)

	c.Jump(99, long)

	assert.Equal(t, 90, c.Top())
	start, end := c.Window(long)
	assert.Equal(t, [2]int{90, 100}, [2]int{start, end})
}

func TestFollow_MarginLargerThanWindow(t *testing.T) {
	c := New(10)
	small := View{Len: 100, Height: 3}

	c.Jump(50, small)

	start, end := c.Window(small)
	assert.True(t, start <= 50 && 50 < end, "cursor row %d outside [%d, %d)", c.Pos(), start, end)
}

func TestFollow_AfterShrink(t *testing.T) {
	c := New(2)
	c.Jump(95, long)

	shrunk := View{Len: 100, Height: 30}
	c.Follow(shrunk)

	assert.Equal(t, 70, c.Top())
}

func TestCenter(t *testing.T) {
	c := New(2)
	c.Jump(40, long)

	c.Center(long)
	assert.Equal(t, 35, c.Top())

	c.Jump(2, long)
	c.Center(long)
	assert.Equal(t, 0, c.Top())

	c.Jump(98, long)
	c.Center(long)
	assert.Equal(t, 90, c.Top())
}

func TestWindow(t *testing.T) {
	c := New(2)

	start, end := c.Window(View{Len: 4, Height: 10})
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)

	start, end = c.Window(View{Height: 10})
	assert.Zero(t, start)
	assert.Zero(t, end)

	start, end = c.Window(View{Len: 4})
	assert.Zero(t, end-start)
}

func TestApply(t *testing.T) {
	tests := []struct {
		action keymap.Action
		from   int
		want   int
	}{
		{keymap.ActionMoveDown, 10, 11},
		{keymap.ActionMoveUp, 10, 9},
		{keymap.ActionMoveUp, 0, 0},
		{keymap.ActionPageDown, 10, 15},
		{keymap.ActionPageUp, 10, 5},
		{keymap.ActionJumpStart, 10, 0},
		{keymap.ActionJumpEnd, 10, 99},
	}

	for _, tt := range tests {
		c := New(2)
		c.Jump(tt.from, long)

		assert.True(t, c.Apply(tt.action, long))
		assert.Equal(t, tt.want, c.Pos(), "action %v from %d", tt.action, tt.from)
	}
}

func TestApply_NotNavigation(t *testing.T) {
	c := New(2)
	c.Jump(10, long)

	assert.False(t, c.Apply(keymap.ActionSelect, long))
	assert.Equal(t, 10, c.Pos())
}

func TestReset(t *testing.T) {
	c := New(2)
	c.Jump(60, long)

	c.Reset()

	assert.Zero(t, c.Pos())
	assert.Zero(t, c.Top())
}
