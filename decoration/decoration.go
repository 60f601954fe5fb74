// Package decoration computes where underlines, overlines and beat-loop
// brackets go relative to the ink of the glyphs they decorate.
//
// Every horizontal extent is taken from measured ink, never from advance
// widths, so a narrow glyph such as "1" gets an underline as narrow as the
// digit itself. Every vertical position is derived from the LineFrame of the
// decorated line alone.
package decoration

import (
	"errors"
	"fmt"

	"github.com/gogpu/notation/metrics"
)

// ErrInvalidSpan is returned for cell ranges that are empty or out of bounds.
var ErrInvalidSpan = errors.New("decoration: invalid span")

// Kind is the type of a decoration.
type Kind int

const (
	Underline Kind = iota
	Overline
	BracketOpen
	BracketClose
)

func (k Kind) String() string {
	switch k {
	case Underline:
		return "underline"
	case Overline:
		return "overline"
	case BracketOpen:
		return "bracket-open"
	case BracketClose:
		return "bracket-close"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Geometry is the placed extent of a decoration in line coordinates.
// YOffset is the top edge.
type Geometry struct {
	StartX  float64
	EndX    float64
	YOffset float64
}

// Width returns EndX - StartX.
func (g Geometry) Width() float64 { return g.EndX - g.StartX }

// Decoration is one placed decoration.
type Decoration struct {
	Kind Kind

	// Level is the underline nesting level, starting at 1. Brackets carry the
	// level of the underline they sit on.
	Level int

	// Anchor and Last are the first and last decorated cell indices.
	Anchor int
	Last   int

	Geometry

	// Thickness is the stroke height of lines.
	Thickness float64

	// Glyph and GlyphOriginX are set for brackets: the bracket is drawn by
	// placing Glyph's origin at GlyphOriginX.
	Glyph        rune
	GlyphOriginX float64

	// Provisional is set when any input record was an estimate.
	Provisional bool
}

// LineFrame is the vertical frame of one laid out line.
type LineFrame struct {
	Top        float64
	Baseline   float64
	CellTop    float64
	CellBottom float64
}

// Placement is a glyph positioned on a line.
type Placement struct {
	OriginX float64
	Metrics metrics.Record
}

// inkSpan returns the horizontal ink extent. Blank glyphs use their advance.
func (p Placement) inkSpan() (left, right float64) {
	m := p.Metrics
	if m.Blank() {
		return p.OriginX, p.OriginX + m.Advance
	}
	return p.OriginX + m.InkLeft, p.OriginX + m.InkRight
}
