// Package notation turns keystrokes into private-use glyph code points for
// numbered, western, sargam and solfège music notation, and lays the
// resulting cells out with underlines, overlines and beat-loop brackets.
//
// # Overview
//
// An [Engine] ties together the pieces that live in sub-packages:
//
//   - glyph: the codepoint allocator, built from a YAML font manifest
//   - input: the composite input resolver that fuses keystrokes into cells
//   - metrics: the glyph metrics cache with its Pending/Ready contract
//   - decoration: underline, overline and bracket geometry
//   - layout: non-blocking layout sessions with one corrective pass
//
// # Quick Start
//
//	e, err := notation.New(notation.WithFont(
//	    metrics.LoadFont(ctx, "notation.ttf", metrics.FileLoader("notation.ttf"))))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	line, _ := e.NewLine("number")
//	_ = line.TypeString("1#2'|")
//	res := e.Layout(layout.Document{Lines: []layout.Line{{Cells: line.Cells()}}})
//
// Layout never waits for the font. While it loads, results are provisional
// and the corrective result arrives through [WithRelayout].
//
// # Logging
//
// notation is silent by default. See [SetLogger].
package notation
