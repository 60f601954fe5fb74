package input

import (
	"slices"

	"github.com/gogpu/notation/decoration"
	"github.com/gogpu/notation/glyph"
)

// Role is what a cell stands for in the line.
type Role int

const (
	RolePitch Role = iota
	RoleAccidentalCompound
	RoleBarline
	RoleBarlineCompound
	RoleDecorationAnchor
	RoleText
)

func (r Role) String() string {
	switch r {
	case RolePitch:
		return "pitch"
	case RoleAccidentalCompound:
		return "accidental-compound"
	case RoleBarline:
		return "barline"
	case RoleBarlineCompound:
		return "barline-compound"
	case RoleDecorationAnchor:
		return "decoration-anchor"
	case RoleText:
		return "text"
	}
	return "unknown"
}

// cellState is everything a modifier keystroke can change.
type cellState struct {
	cp     rune
	role   Role
	pitch  glyph.Pitch
	source string
}

// Cell is the smallest unit of the line. A fused cell holds exactly one
// code point no matter how many keystrokes produced it.
type Cell struct {
	// Codepoints is the persisted content of the cell.
	Codepoints []rune

	Role Role

	// Decorations are filled in by layout and cleared whenever the cell's
	// code point changes.
	Decorations []decoration.Decoration

	// Source is the folded keystrokes that produced the cell.
	Source string

	open     bool
	hasPitch bool
	pitch    glyph.Pitch
	history  []cellState
}

// Codepoint returns the cell's code point.
func (c *Cell) Codepoint() rune {
	if len(c.Codepoints) == 0 {
		return 0
	}
	return c.Codepoints[0]
}

// Open reports whether the next keystroke may still combine into the cell.
func (c *Cell) Open() bool { return c.open }

// Pitch returns the pitch of a pitch cell.
func (c *Cell) Pitch() (glyph.Pitch, bool) { return c.pitch, c.hasPitch }

// Modifiers returns the number of keystrokes that can be undone before the
// cell itself is deleted.
func (c *Cell) Modifiers() int { return len(c.history) }

func (c *Cell) state() cellState {
	return cellState{cp: c.Codepoint(), role: c.Role, pitch: c.pitch, source: c.Source}
}

// derive returns a copy of c with the current state pushed onto the
// history and new content applied. Decorations are dropped.
func (c *Cell) derive(cp rune, role Role, key rune) *Cell {
	n := &Cell{
		Codepoints: []rune{cp},
		Role:       role,
		Source:     c.Source + string(key),
		open:       c.open,
		hasPitch:   c.hasPitch,
		pitch:      c.pitch,
		history:    append(slices.Clip(c.history), c.state()),
	}
	return n
}

// restore pops the most recent modifier.
func (c *Cell) restore() {
	s := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.Codepoints = []rune{s.cp}
	c.Role = s.role
	c.pitch = s.pitch
	c.Source = s.source
	c.Decorations = nil
	c.open = true
}

// reopenable reports whether a cell can accept modifiers again once it is
// the last cell of the line.
func (c *Cell) reopenable() bool {
	switch c.Role {
	case RolePitch, RoleAccidentalCompound, RoleBarline:
		return true
	case RoleText:
		return c.Codepoint() == ':'
	}
	return false
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	n := *c
	n.Codepoints = slices.Clone(c.Codepoints)
	n.Decorations = slices.Clone(c.Decorations)
	n.history = slices.Clone(c.history)
	return &n
}
