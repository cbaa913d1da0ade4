// Package cursor provides the selection cursor of a paginated thumbnail grid.
package cursor

import (
	"github.com/llehouerou/lsix/internal/keymap"
	"github.com/llehouerou/lsix/internal/layout"
)

// Cursor tracks the selected index in a row-major grid of items.
// The item count and grid geometry are passed to methods rather than stored,
// since they change with the terminal size.
type Cursor struct {
	pos int // Selected index (0-indexed)
}

// New creates a cursor on the first item.
func New() Cursor {
	return Cursor{}
}

// Pos returns the selected index.
func (c Cursor) Pos() int {
	return c.pos
}

// PageOffset returns the index of the first item on the selected item's page.
func (c Cursor) PageOffset(perPage int) int {
	return layout.PageOffset(c.pos, perPage)
}

// Jump selects an absolute index, clamped to [0, n).
// If n is 0, this is a no-op.
func (c *Cursor) Jump(pos, n int) {
	if n == 0 {
		return
	}
	c.pos = clamp(pos, n-1)
}

// Left selects the previous item. The first item stays selected.
func (c *Cursor) Left() {
	if c.pos > 0 {
		c.pos--
	}
}

// Right selects the next item. The last item stays selected.
func (c *Cursor) Right(n int) {
	if c.pos+1 < n {
		c.pos++
	}
}

// Down selects the item one grid row below. From the bottom row of a column
// it wraps to the top row of the same column.
func (c *Cursor) Down(n, cols int) {
	if n == 0 || cols <= 0 {
		return
	}
	if next := c.pos + cols; next < n {
		c.pos = next
		return
	}
	c.pos %= cols
}

// Up selects the item one grid row above. From the top row it wraps to the
// last row holding an item in the same column.
func (c *Cursor) Up(n, cols int) {
	if n == 0 || cols <= 0 {
		return
	}
	if c.pos >= cols {
		c.pos -= cols
		return
	}
	col := c.pos
	lastRow := (n - 1) / cols
	for row := lastRow; row > 0; row-- {
		if idx := row*cols + col; idx < n {
			c.pos = idx
			return
		}
	}
}

// PageUp moves back by exactly perPage items, stopping at the first item.
func (c *Cursor) PageUp(perPage int) {
	c.pos = max(c.pos-perPage, 0)
}

// PageDown moves forward by exactly perPage items, stopping at the last one.
func (c *Cursor) PageDown(n, perPage int) {
	if n == 0 {
		return
	}
	c.pos = min(c.pos+perPage, n-1)
}

// JumpStart selects the first item.
func (c *Cursor) JumpStart() {
	c.pos = 0
}

// JumpEnd selects the last item.
func (c *Cursor) JumpEnd(n int) {
	c.Jump(n-1, n)
}

// ClampToBounds keeps the selection valid after the item count changed.
// Returns true if the cursor was adjusted.
func (c *Cursor) ClampToBounds(n int) bool {
	old := c.pos
	if n == 0 {
		c.pos = 0
	}
	c.Jump(c.pos, n)
	return c.pos != old
}

// HandleAction applies a grid navigation action and returns true if the
// action was a navigation action. The caller compares Pos before and after
// to know whether the selection moved.
func (c *Cursor) HandleAction(action keymap.Action, n, cols, perPage int) bool {
	switch action {
	case keymap.ActionMoveLeft:
		c.Left()
	case keymap.ActionMoveRight:
		c.Right(n)
	case keymap.ActionMoveUp:
		c.Up(n, cols)
	case keymap.ActionMoveDown:
		c.Down(n, cols)
	case keymap.ActionPageUp:
		c.PageUp(perPage)
	case keymap.ActionPageDown:
		c.PageDown(n, perPage)
	case keymap.ActionJumpStart:
		c.JumpStart()
	case keymap.ActionJumpEnd:
		c.JumpEnd(n)
	default:
		return false
	}
	return true
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
