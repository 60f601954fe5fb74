package input

import (
	"errors"
)

// Line is an editable sequence of cells fed one keystroke at a time.
//
// Line is not safe for concurrent use.
type Line struct {
	resolver *Resolver
	cells    []*Cell
}

// NewLine creates an empty line.
func NewLine(r *Resolver) *Line {
	return &Line{resolver: r}
}

// Resolver returns the line's resolver.
func (l *Line) Resolver() *Resolver { return l.resolver }

func (l *Line) last() *Cell {
	if len(l.cells) == 0 {
		return nil
	}
	return l.cells[len(l.cells)-1]
}

// Type resolves and applies one keystroke.
func (l *Line) Type(key rune) CellUpdate {
	u := l.resolver.Resolve(l.last(), key)
	switch u.Action {
	case ActionAppend:
		if prev := l.last(); prev != nil {
			prev.open = false
		}
		l.cells = append(l.cells, u.Cell)
	case ActionReplace:
		l.cells[len(l.cells)-1] = u.Cell
	}
	return u
}

// TypeString types every rune of s. Rejected keystrokes are skipped and
// their errors joined.
func (l *Line) TypeString(s string) error {
	var errs []error
	for _, key := range s {
		if u := l.Type(key); u.Action == ActionReject {
			errs = append(errs, u.Err)
		}
	}
	return errors.Join(errs...)
}

// Backspace undoes the most recent modifier of the last cell, or deletes
// the cell when it has none. It reports whether the line changed.
func (l *Line) Backspace() bool {
	c := l.last()
	if c == nil {
		return false
	}
	if len(c.history) > 0 {
		c.restore()
		return true
	}
	l.cells = l.cells[:len(l.cells)-1]
	if prev := l.last(); prev != nil && prev.reopenable() {
		prev.open = true
	}
	return true
}

// Commit closes the last cell so the next keystroke starts a new one.
func (l *Line) Commit() {
	if c := l.last(); c != nil {
		c.open = false
	}
}

// Reset removes every cell.
func (l *Line) Reset() { l.cells = nil }

// Len returns the number of cells.
func (l *Line) Len() int { return len(l.cells) }

// Cell returns the i-th cell. The cell must not be modified.
func (l *Line) Cell(i int) *Cell { return l.cells[i] }

// Cells returns deep copies of the cells.
func (l *Line) Cells() []*Cell {
	out := make([]*Cell, len(l.cells))
	for i, c := range l.cells {
		out[i] = c.Clone()
	}
	return out
}

// Codepoints returns the code points of all cells in order.
func (l *Line) Codepoints() []rune {
	var out []rune
	for _, c := range l.cells {
		out = append(out, c.Codepoints...)
	}
	return out
}
