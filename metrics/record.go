package metrics

// Record is the measured geometry of one code point at one size, in pixels.
// Horizontal values are relative to the glyph origin; vertical values are
// relative to the baseline with y growing downwards, so InkTop is negative
// for glyphs that rise above the baseline.
//
// Records are immutable once published.
type Record struct {
	Codepoint rune
	Size      float64
	Advance   float64

	InkLeft   float64
	InkRight  float64
	InkTop    float64
	InkBottom float64

	// Provisional marks estimates that were not measured on a surface.
	Provisional bool

	// Missing marks code points the font has no glyph for. The record is
	// blank and its advance is that of the font's .notdef glyph.
	Missing bool
}

// InkWidth returns the width of the ink box.
func (r Record) InkWidth() float64 { return r.InkRight - r.InkLeft }

// InkHeight returns the height of the ink box.
func (r Record) InkHeight() float64 { return r.InkBottom - r.InkTop }

// Blank reports whether the glyph draws no pixels.
func (r Record) Blank() bool { return r.InkRight <= r.InkLeft || r.InkBottom <= r.InkTop }

// Provisional advance and ink estimates, as fractions of the font size.
const (
	ProvisionalAdvance = 0.6
	ProvisionalAscent  = 0.7
)

// Provisional returns the estimate used while a font is pending: an advance
// of 0.6 em with ink filling the advance from the baseline up to 0.7 em.
func Provisional(cp rune, size float64) Record {
	adv := size * ProvisionalAdvance
	return Record{
		Codepoint:   cp,
		Size:        size,
		Advance:     adv,
		InkLeft:     0,
		InkRight:    adv,
		InkTop:      -size * ProvisionalAscent,
		InkBottom:   0,
		Provisional: true,
	}
}
