package ir

// Position identifies an insertion point in a layout: new instructions go
// immediately before At. At == NoInst means at the end of Ebb.
type Position struct {
	Ebb Ebb
	At  Inst
}

// Cursor is a movable insertion point over a layout. Positions can be saved
// and restored; they stay valid across insertions anywhere in the layout.
type Cursor struct {
	layout *Layout
	pos    Position
}

// NewCursor returns a cursor over layout with no position.
func NewCursor(layout *Layout) *Cursor {
	return &Cursor{layout: layout}
}

// Layout returns the layout the cursor operates on.
func (c *Cursor) Layout() *Layout {
	return c.layout
}

// Position returns the current insertion point for later restoration.
func (c *Cursor) Position() Position {
	return c.pos
}

// SetPosition restores a previously saved insertion point.
func (c *Cursor) SetPosition(pos Position) {
	c.pos = pos
}

// GotoInst moves the insertion point to immediately before inst.
func (c *Cursor) GotoInst(inst Inst) {
	c.pos = Position{Ebb: c.layout.InstEbb(inst), At: inst}
}

// GotoTop moves the insertion point to the top of ebb, before its first
// instruction.
func (c *Cursor) GotoTop(ebb Ebb) {
	first, _ := c.layout.FirstInst(ebb)
	c.pos = Position{Ebb: ebb, At: first}
}

// GotoBottom moves the insertion point to the end of ebb.
func (c *Cursor) GotoBottom(ebb Ebb) {
	c.pos = Position{Ebb: ebb, At: NoInst}
}

// InsertInst places inst at the insertion point. Consecutive insertions
// appear in program order.
func (c *Cursor) InsertInst(inst Inst) {
	if c.pos.At != NoInst {
		c.layout.InsertInst(inst, c.pos.At)
	} else {
		c.layout.AppendInst(inst, c.pos.Ebb)
	}
}
