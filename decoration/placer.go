package decoration

import (
	"fmt"

	"github.com/gogpu/notation/metrics"
)

// Config holds the vertical geometry of decorations, in pixels.
type Config struct {
	// UnderlineGap is the distance from the cell bottom to the first underline.
	UnderlineGap float64

	// LevelSpacing is the distance between nested underline levels.
	LevelSpacing float64

	// Thickness is the stroke height of underlines and overlines.
	Thickness float64

	// OverlineGap is the distance from the cell top up to the overline's
	// bottom edge.
	OverlineGap float64

	// BracketHeight is the height reserved for beat-loop brackets below the
	// deepest underline.
	BracketHeight float64
}

// DefaultConfig returns the standard decoration geometry.
func DefaultConfig() Config {
	return Config{
		UnderlineGap:  2,
		LevelSpacing:  3,
		Thickness:     1,
		OverlineGap:   2,
		BracketHeight: 5,
	}
}

// Placer computes decoration geometry. It is stateless and safe for
// concurrent use.
type Placer struct {
	cfg Config
}

// NewPlacer creates a placer.
func NewPlacer(cfg Config) *Placer {
	return &Placer{cfg: cfg}
}

// Config returns the placer configuration.
func (p *Placer) Config() Config { return p.cfg }

// UnderlineY returns the top of the underline at level within frame.
func (p *Placer) UnderlineY(frame LineFrame, level int) float64 {
	return frame.CellBottom + p.cfg.UnderlineGap + float64(level-1)*p.cfg.LevelSpacing
}

// OverlineY returns the top of the overline within frame.
func (p *Placer) OverlineY(frame LineFrame) float64 {
	return frame.CellTop - p.cfg.OverlineGap - p.cfg.Thickness
}

// Depth returns how far below the cell bottom decorations with the given
// deepest underline level reach, including room for brackets.
func (p *Placer) Depth(levels int, brackets bool) float64 {
	if levels <= 0 && !brackets {
		return 0
	}
	d := p.cfg.UnderlineGap + float64(max(levels, 1)-1)*p.cfg.LevelSpacing + p.cfg.Thickness
	if brackets {
		d += p.cfg.BracketHeight
	}
	return d
}

func checkSpan(cells []Placement, first, last int) error {
	if first < 0 || last >= len(cells) || first > last {
		return fmt.Errorf("%w: [%d,%d] of %d cells", ErrInvalidSpan, first, last, len(cells))
	}
	return nil
}

func provisional(cells []Placement, first, last int, extra ...metrics.Record) bool {
	for _, c := range cells[first : last+1] {
		if c.Metrics.Provisional {
			return true
		}
	}
	for _, r := range extra {
		if r.Provisional {
			return true
		}
	}
	return false
}

// Underline spans cells[first..last] from the first cell's ink left edge to
// the last cell's ink right edge.
func (p *Placer) Underline(frame LineFrame, cells []Placement, first, last, level int) (Decoration, error) {
	if err := checkSpan(cells, first, last); err != nil {
		return Decoration{}, err
	}
	if level < 1 {
		return Decoration{}, fmt.Errorf("%w: underline level %d", ErrInvalidSpan, level)
	}
	start, _ := cells[first].inkSpan()
	_, end := cells[last].inkSpan()
	return Decoration{
		Kind:        Underline,
		Level:       level,
		Anchor:      first,
		Last:        last,
		Geometry:    Geometry{StartX: start, EndX: end, YOffset: p.UnderlineY(frame, level)},
		Thickness:   p.cfg.Thickness,
		Provisional: provisional(cells, first, last),
	}, nil
}

// Overline spans cells[first..last] above the cell top.
func (p *Placer) Overline(frame LineFrame, cells []Placement, first, last int) (Decoration, error) {
	if err := checkSpan(cells, first, last); err != nil {
		return Decoration{}, err
	}
	start, _ := cells[first].inkSpan()
	_, end := cells[last].inkSpan()
	return Decoration{
		Kind:        Overline,
		Anchor:      first,
		Last:        last,
		Geometry:    Geometry{StartX: start, EndX: end, YOffset: p.OverlineY(frame)},
		Thickness:   p.cfg.Thickness,
		Provisional: provisional(cells, first, last),
	}, nil
}

// Brackets places a beat-loop bracket pair around cells[first..last]. The
// open glyph's ink right edge meets the first cell's ink left edge and the
// close glyph's ink left edge meets the last cell's ink right edge. Both
// brackets hang from the top of the underline at level.
func (p *Placer) Brackets(frame LineFrame, cells []Placement, first, last, level int,
	openGlyph rune, open metrics.Record, closeGlyph rune, closeRec metrics.Record,
) (Decoration, Decoration, error) {
	if err := checkSpan(cells, first, last); err != nil {
		return Decoration{}, Decoration{}, err
	}
	if level < 1 {
		return Decoration{}, Decoration{}, fmt.Errorf("%w: bracket level %d", ErrInvalidSpan, level)
	}
	y := p.UnderlineY(frame, level)
	prov := provisional(cells, first, last, open, closeRec)

	inkLeft, _ := cells[first].inkSpan()
	_, inkRight := cells[last].inkSpan()

	openRight, openLeft := open.InkRight, open.InkLeft
	if open.Blank() {
		openLeft, openRight = 0, open.Advance
	}
	openOrigin := inkLeft - openRight

	closeLeft, closeRight := closeRec.InkLeft, closeRec.InkRight
	if closeRec.Blank() {
		closeLeft, closeRight = 0, closeRec.Advance
	}
	closeOrigin := inkRight - closeLeft

	o := Decoration{
		Kind:   BracketOpen,
		Level:  level,
		Anchor: first,
		Last:   last,
		Geometry: Geometry{
			StartX:  openOrigin + openLeft,
			EndX:    inkLeft,
			YOffset: y,
		},
		Glyph:        openGlyph,
		GlyphOriginX: openOrigin,
		Provisional:  prov,
	}
	c := Decoration{
		Kind:   BracketClose,
		Level:  level,
		Anchor: first,
		Last:   last,
		Geometry: Geometry{
			StartX:  inkRight,
			EndX:    closeOrigin + closeRight,
			YOffset: y,
		},
		Glyph:        closeGlyph,
		GlyphOriginX: closeOrigin,
		Provisional:  prov,
	}
	return o, c, nil
}
