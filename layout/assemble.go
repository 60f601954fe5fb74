package layout

import (
	"errors"
	"fmt"

	"github.com/gogpu/notation/decoration"
	"github.com/gogpu/notation/metrics"
)

// recordFunc returns the record to lay a code point out with.
type recordFunc func(cp rune) metrics.Record

// glyphFunc maps a cell code point to the glyph drawn for it.
type glyphFunc func(cp rune) rune

func identity(cp rune) rune { return cp }

// brackets holds the beat-loop glyphs; zero when the registry has none.
type brackets struct {
	open, close rune
}

// assemble lays out doc. It is a pure function of its inputs.
func assemble(doc Document, cfg Config, placer *decoration.Placer, br brackets, glyphOf glyphFunc, lookup recordFunc) ([]LineResult, float64, bool, error) {
	var (
		out         = make([]LineResult, 0, len(doc.Lines))
		y           = doc.Header
		provisional bool
		errs        []error
	)
	for li, line := range doc.Lines {
		lr, p, err := assembleLine(line, y, doc.FontSize, cfg, placer, br, glyphOf, lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", li, err))
		}
		provisional = provisional || p
		out = append(out, lr)
		y = lr.Bottom + cfg.LineGap
	}
	height := doc.Header
	if n := len(out); n > 0 {
		height = out[n-1].Bottom
	}
	return out, height, provisional, errors.Join(errs...)
}

func assembleLine(line Line, top, size float64, cfg Config, placer *decoration.Placer, br brackets, glyphOf glyphFunc, lookup recordFunc) (LineResult, bool, error) {
	var (
		lr = LineResult{Cells: make([]PlacedCell, len(line.Cells))}

		provisional bool
		errs        []error
	)

	frame := decoration.LineFrame{Top: top, CellTop: top + cfg.OverlineRoom}
	frame.Baseline = frame.CellTop + cfg.Ascent*size
	frame.CellBottom = frame.Baseline + cfg.Descent*size
	lr.Frame = frame

	x := cfg.LeftMargin
	placements := make([]decoration.Placement, len(line.Cells))
	for i, c := range line.Cells {
		glyphs := make([]rune, len(c.Codepoints))
		for j, cp := range c.Codepoints {
			glyphs[j] = glyphOf(cp)
		}
		rec := combine(glyphs, size, lookup)
		provisional = provisional || rec.Provisional
		cell := c.Clone()
		cell.Decorations = nil
		lr.Cells[i] = PlacedCell{Cell: cell, OriginX: x, Glyphs: glyphs, Metrics: rec}
		placements[i] = decoration.Placement{OriginX: x, Metrics: rec}
		x += rec.Advance + cfg.CellSpacing
	}
	lr.Width = x - cfg.LeftMargin

	maxLevel, anyBracket := 0, false
	for _, g := range line.Groups {
		d, err := placer.Underline(frame, placements, g.First, g.Last, g.Level)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lr.add(d)
		maxLevel = max(maxLevel, g.Level)
		if !g.Bracket {
			continue
		}
		if br.open == 0 || br.close == 0 {
			errs = append(errs, fmt.Errorf("group %d-%d: no beat-loop glyphs", g.First, g.Last))
			continue
		}
		o, c, err := placer.Brackets(frame, placements, g.First, g.Last, g.Level,
			br.open, lookup(br.open), br.close, lookup(br.close))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		provisional = provisional || o.Provisional
		lr.add(o)
		lr.add(c)
		anyBracket = true
	}
	for _, s := range line.Overlines {
		d, err := placer.Overline(frame, placements, s.First, s.Last)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lr.add(d)
	}

	lr.Bottom = frame.CellBottom + placer.Depth(maxLevel, anyBracket)
	return lr, provisional, errors.Join(errs...)
}

// add records d on the line and on its anchor cell.
func (lr *LineResult) add(d decoration.Decoration) {
	lr.Decorations = append(lr.Decorations, d)
	c := lr.Cells[d.Anchor].Cell
	c.Decorations = append(c.Decorations, d)
}

// combine merges the records of a cell's code points laid side by side.
func combine(cps []rune, size float64, lookup recordFunc) metrics.Record {
	switch len(cps) {
	case 0:
		return metrics.Record{Size: size}
	case 1:
		return lookup(cps[0])
	}
	out := metrics.Record{Codepoint: cps[0], Size: size}
	var x float64
	inked := false
	for _, cp := range cps {
		r := lookup(cp)
		out.Provisional = out.Provisional || r.Provisional
		if !r.Blank() {
			l, rt := x+r.InkLeft, x+r.InkRight
			if !inked {
				out.InkLeft, out.InkRight, out.InkTop, out.InkBottom = l, rt, r.InkTop, r.InkBottom
				inked = true
			} else {
				out.InkLeft = min(out.InkLeft, l)
				out.InkRight = max(out.InkRight, rt)
				out.InkTop = min(out.InkTop, r.InkTop)
				out.InkBottom = max(out.InkBottom, r.InkBottom)
			}
		}
		x += r.Advance
	}
	out.Advance = x
	return out
}
