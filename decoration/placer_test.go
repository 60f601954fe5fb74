package decoration

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/notation/metrics"
)

func rec(adv, inkL, inkR float64) metrics.Record {
	return metrics.Record{Advance: adv, InkLeft: inkL, InkRight: inkR, InkTop: -10, InkBottom: 0, Size: 16}
}

var frame = LineFrame{Top: 0, Baseline: 20, CellTop: 4, CellBottom: 24}

func checkPlaced(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("placement error = %v", err)
	}
}

func TestNarrowGlyphUnderlineFollowsInk(t *testing.T) {
	f, err := metrics.NewFont("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	c := metrics.NewCache(f)
	if _, err := c.EnsureMeasured([]rune{'1'}, 32); err != nil {
		t.Fatal(err)
	}
	one, err := c.Lookup('1', 32)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPlacer(DefaultConfig())
	d, err := p.Underline(frame, []Placement{{OriginX: 100, Metrics: one}}, 0, 0, 1)
	checkPlaced(t, err)

	if d.Width() > one.InkWidth()+2 || d.Width() >= one.Advance {
		t.Errorf("Width() = %g, want about ink width %g and below advance %g", d.Width(), one.InkWidth(), one.Advance)
	}
	if math.Abs(d.StartX-(100+one.InkLeft)) > 1e-9 || math.Abs(d.EndX-(100+one.InkRight)) > 1e-9 {
		t.Errorf("underline = [%g, %g], want [%g, %g]", d.StartX, d.EndX, 100+one.InkLeft, 100+one.InkRight)
	}
}

func TestUnderlineSpansFirstToLastInk(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{
		{OriginX: 10, Metrics: rec(10, 3, 7)},
		{OriginX: 20, Metrics: rec(10, 1, 9)},
		{OriginX: 30, Metrics: rec(10, 4, 6)},
	}
	d, err := p.Underline(frame, cells, 0, 2, 1)
	checkPlaced(t, err)
	if d.StartX != 13 || d.EndX != 36 || d.YOffset != 26 {
		t.Errorf("underline = [%g, %g] at %g, want [13, 36] at 26", d.StartX, d.EndX, d.YOffset)
	}
	if d.Anchor != 0 || d.Last != 2 {
		t.Errorf("span = %d..%d, want 0..2", d.Anchor, d.Last)
	}

	// second level sits one spacing lower
	d2, err := p.Underline(frame, cells, 0, 2, 2)
	checkPlaced(t, err)
	if d2.YOffset != 29 {
		t.Errorf("level 2 YOffset = %g, want 29", d2.YOffset)
	}
}

func TestOverline(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{{OriginX: 0, Metrics: rec(10, 2, 8)}}
	d, err := p.Overline(frame, cells, 0, 0)
	checkPlaced(t, err)
	if d.Kind != Overline {
		t.Errorf("Kind = %v, want %v", d.Kind, Overline)
	}
	if d.StartX != 2 || d.EndX != 8 || d.YOffset != 1 {
		t.Errorf("overline = [%g, %g] at %g, want [2, 8] at 1", d.StartX, d.EndX, d.YOffset)
	}
}

func TestBracketsMeetInk(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{
		{OriginX: 50, Metrics: rec(10, 3, 7)},
		{OriginX: 60, Metrics: rec(10, 2, 6)},
	}
	open := rec(6, 1, 4)
	closeRec := rec(6, 2, 5)
	o, c, err := p.Brackets(frame, cells, 0, 1, 1, 0xE620, open, 0xE621, closeRec)
	if err != nil {
		t.Fatalf("Brackets() error = %v", err)
	}

	// Open bracket ink right edge meets the first cell's ink left edge.
	if got := o.GlyphOriginX + open.InkRight; got != 53 || o.EndX != 53 {
		t.Errorf("open ink right = %g, EndX = %g; want 53", got, o.EndX)
	}
	if want := o.GlyphOriginX + open.InkLeft; o.StartX != want {
		t.Errorf("open StartX = %g, want %g", o.StartX, want)
	}
	// Close bracket ink left edge meets the last cell's ink right edge.
	if got := c.GlyphOriginX + closeRec.InkLeft; got != 66 || c.StartX != 66 {
		t.Errorf("close ink left = %g, StartX = %g; want 66", got, c.StartX)
	}

	u, err := p.Underline(frame, cells, 0, 1, 1)
	checkPlaced(t, err)
	if o.YOffset != u.YOffset || c.YOffset != u.YOffset {
		t.Errorf("bracket YOffsets = %g, %g; want underline's %g", o.YOffset, c.YOffset, u.YOffset)
	}
	if o.Glyph != 0xE620 || c.Glyph != 0xE621 {
		t.Errorf("glyphs = %U, %U; want U+E620, U+E621", o.Glyph, c.Glyph)
	}
}

func TestHeaderShiftsEveryLineEqually(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{{OriginX: 0, Metrics: rec(10, 2, 8)}}
	for _, header := range []float64{0, 17.5, 120} {
		shifted := LineFrame{
			Top:        frame.Top + header,
			Baseline:   frame.Baseline + header,
			CellTop:    frame.CellTop + header,
			CellBottom: frame.CellBottom + header,
		}
		d, err := p.Underline(shifted, cells, 0, 0, 1)
		checkPlaced(t, err)
		if want := shifted.CellBottom + 2; d.YOffset != want {
			t.Errorf("header %g: YOffset = %g, want %g", header, d.YOffset, want)
		}
	}
}

func TestBlankCellUsesAdvance(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	blank := metrics.Record{Advance: 8}
	d, err := p.Underline(frame, []Placement{{OriginX: 5, Metrics: blank}}, 0, 0, 1)
	checkPlaced(t, err)
	if d.StartX != 5 || d.EndX != 13 {
		t.Errorf("underline = [%g, %g], want [5, 13]", d.StartX, d.EndX)
	}
}

func TestProvisionalPropagates(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{{Metrics: metrics.Provisional(0xE000, 20)}}
	d, err := p.Underline(frame, cells, 0, 0, 1)
	checkPlaced(t, err)
	if !d.Provisional {
		t.Error("Provisional = false, want true")
	}
}

func TestInvalidSpans(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	cells := []Placement{{Metrics: rec(10, 1, 9)}}
	_, errLast := p.Underline(frame, cells, 0, 1, 1)
	_, errLevel := p.Underline(frame, cells, 0, 0, 0)
	_, errEmpty := p.Overline(frame, nil, 0, 0)
	_, _, errOrder := p.Brackets(frame, cells, 1, 0, 1, 0, rec(1, 0, 1), 0, rec(1, 0, 1))

	tests := []struct {
		name string
		err  error
	}{
		{"last past end", errLast},
		{"level zero", errLevel},
		{"no cells", errEmpty},
		{"reversed", errOrder},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrInvalidSpan) {
			t.Errorf("%s: error = %v, want ErrInvalidSpan", tt.name, tt.err)
		}
	}
}

func TestDepth(t *testing.T) {
	p := NewPlacer(DefaultConfig())
	tests := []struct {
		levels   int
		brackets bool
		want     float64
	}{
		{0, false, 0},
		{1, false, 3},
		{2, false, 6},
		{2, true, 11},
	}
	for _, tt := range tests {
		if got := p.Depth(tt.levels, tt.brackets); got != tt.want {
			t.Errorf("Depth(%d, %v) = %g, want %g", tt.levels, tt.brackets, got, tt.want)
		}
	}
}
