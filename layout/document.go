// Package layout assembles resolved cells into positioned, decorated lines.
//
// A [Session] never blocks on font loading. While the font is pending it
// lays out with provisional metrics and arranges exactly one corrective pass
// that runs, through the session's [Scheduler], once the font is ready.
package layout

import (
	"github.com/gogpu/notation/decoration"
	"github.com/gogpu/notation/input"
	"github.com/gogpu/notation/metrics"
)

// Document is the input of a layout pass.
type Document struct {
	// Header is the height reserved above the first line.
	Header float64

	// FontSize is the pixel size glyphs are measured at.
	FontSize float64

	Lines []Line
}

// Line is one line of cells with its decoration spans.
type Line struct {
	Cells []*input.Cell

	// Groups are underlined spans, optionally enclosed in beat-loop brackets.
	Groups []Group

	Overlines []Span
}

// Span is an inclusive range of cell indices.
type Span struct {
	First, Last int
}

// Group is an underlined span at a nesting level starting at 1.
type Group struct {
	Span
	Level   int
	Bracket bool
}

// codepoints returns every code point the document needs measured, after
// mapping cell code points through glyphOf.
func (d Document) codepoints(glyphOf glyphFunc, brackets []rune) []rune {
	seen := make(map[rune]struct{})
	var out []rune
	add := func(cp rune) {
		if _, ok := seen[cp]; !ok {
			seen[cp] = struct{}{}
			out = append(out, cp)
		}
	}
	needBrackets := false
	for _, l := range d.Lines {
		for _, c := range l.Cells {
			for _, cp := range c.Codepoints {
				add(glyphOf(cp))
			}
		}
		for _, g := range l.Groups {
			needBrackets = needBrackets || g.Bracket
		}
	}
	if needBrackets {
		for _, cp := range brackets {
			if cp != 0 {
				add(cp)
			}
		}
	}
	return out
}

// PlacedCell is a cell positioned on its line.
type PlacedCell struct {
	// Cell is a copy of the input cell with Decorations filled in.
	Cell *input.Cell

	OriginX float64

	// Glyphs are the code points measured for the cell. They differ from
	// Cell.Codepoints where a stale code point was replaced by the
	// registry's placeholder.
	Glyphs []rune

	// Metrics is the combined record of the cell's glyphs.
	Metrics metrics.Record
}

// LineResult is one laid out line.
type LineResult struct {
	Frame       decoration.LineFrame
	Bottom      float64
	Width       float64
	Cells       []PlacedCell
	Decorations []decoration.Decoration
}

// Result is the output of a layout pass.
type Result struct {
	Lines  []LineResult
	Height float64

	// Status is the metrics status the pass ran with.
	Status metrics.Status

	// Provisional is set when any glyph used estimated metrics.
	Provisional bool

	// Generation increases with every pass of the session.
	Generation uint64

	// Err joins problems with decoration spans; affected decorations are
	// left out.
	Err error
}
