package metrics

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// advanceShaper computes advance widths with HarfBuzz shaping.
// HarfbuzzShaper is not safe for concurrent use, so instances are pooled.
type advanceShaper struct {
	pool sync.Pool
}

func newAdvanceShaper() *advanceShaper {
	return &advanceShaper{
		pool: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
	}
}

// advance shapes cp alone and returns the pen advance in pixels.
func (s *advanceShaper) advance(f *gotext.Font, cp rune, size float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	runes := []rune{cp}
	script := language.LookupScript(cp)
	if script == language.Unknown {
		script = language.Latin
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		// Face is not safe for concurrent use; NewFace is cheap.
		Face:     gotext.NewFace(f),
		Size:     fixed.Int26_6(size * 64),
		Script:   script,
		Language: language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	if len(out.Glyphs) == 0 {
		return 0, false
	}
	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.Advance
	}
	return float64(adv) / 64, true
}
