package pathcursor

// SaveState returns a snapshot of the current position.
func (c *Cursor) SaveState() State { return c.state }

// RestoreState returns the cursor to a snapshot taken by SaveState.
func (c *Cursor) RestoreState(s State) { c.state = s }

// ScopedState is a snapshot bound to its cursor.
type ScopedState struct {
	cursor *Cursor
	saved  State
}

// Scoped captures the current position. Moves made afterwards persist
// unless Restore is called.
func (c *Cursor) Scoped() ScopedState {
	return ScopedState{cursor: c, saved: c.state}
}

// Restore returns the cursor to the captured position.
func (s ScopedState) Restore() { s.cursor.state = s.saved }

// State returns the captured snapshot.
func (s ScopedState) State() State { return s.saved }
