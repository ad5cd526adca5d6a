// Package cursor tracks the selected row and scroll window of the track list.
package cursor

import "github.com/llehouerou/taplist/internal/keymap"

// View is the list the cursor moves over: its length and the number of
// rows on screen. Both change with the playlist and the terminal size, so
// callers pass the current View on every call.
type View struct {
	Len    int
	Height int
}

func (v View) maxTop() int { return max(v.Len-v.Height, 0) }

// Cursor is a row index plus the index of the first visible row. Scrolling
// keeps margin rows between the cursor and the window edge when it can.
type Cursor struct {
	row, top, margin int
}

// New returns a cursor on row 0 with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: max(margin, 0)}
}

// Pos is the cursor row.
func (c Cursor) Pos() int { return c.row }

// Top is the first visible row.
func (c Cursor) Top() int { return c.top }

// Reset returns to row 0 at the top of the list.
func (c *Cursor) Reset() { c.row, c.top = 0, 0 }

// Jump puts the cursor on row, clamped into the list, and scrolls to it.
// An empty list leaves the cursor alone.
func (c *Cursor) Jump(row int, v View) {
	if v.Len == 0 {
		return
	}
	c.row = min(max(row, 0), v.Len-1)
	c.Follow(v)
}

// Move shifts the cursor by delta rows without wrapping.
func (c *Cursor) Move(delta int, v View) { c.Jump(c.row+delta, v) }

// Follow scrolls the least amount that brings the cursor within margin of
// the window. Call it after the View changes.
func (c *Cursor) Follow(v View) {
	if v.Height <= 0 || v.Len == 0 {
		return
	}
	margin := min(c.margin, (v.Height-1)/2)
	if lo := c.row - margin; lo < c.top {
		c.top = lo
	}
	if hi := c.row + margin + 1 - v.Height; hi > c.top {
		c.top = hi
	}
	c.top = min(max(c.top, 0), v.maxTop())
}

// Center scrolls so the cursor sits in the middle of the window.
func (c *Cursor) Center(v View) {
	if v.Height <= 0 || v.Len == 0 {
		return
	}
	c.top = min(max(c.row-v.Height/2, 0), v.maxTop())
}

// Window returns the visible rows as [start, end).
func (c Cursor) Window(v View) (start, end int) {
	if v.Height <= 0 || v.Len == 0 {
		return 0, 0
	}
	start = min(c.top, v.maxTop())
	return start, min(start+v.Height, v.Len)
}

// Apply runs a list navigation action. It returns false for actions that
// are not navigation.
func (c *Cursor) Apply(action keymap.Action, v View) bool {
	page := max(v.Height/2, 1)
	switch action {
	case keymap.ActionMoveDown:
		c.Move(1, v)
	case keymap.ActionMoveUp:
		c.Move(-1, v)
	case keymap.ActionPageDown:
		c.Move(page, v)
	case keymap.ActionPageUp:
		c.Move(-page, v)
	case keymap.ActionJumpStart:
		c.Jump(0, v)
	case keymap.ActionJumpEnd:
		c.Jump(v.Len-1, v)
	default:
		return false
	}
	return true
}
