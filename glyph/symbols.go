package glyph

import (
	"fmt"
	"slices"
)

// Well-known symbol categories.
const (
	SymbolOctaveDots = "octave-dots"
	SymbolBarlines   = "barlines"
	SymbolBeatLoop   = "beat-loop"
)

// BarlineKind identifies a barline glyph.
type BarlineKind int

const (
	BarlineSingle BarlineKind = iota
	BarlineDouble
	BarlineRepeatLeft
	BarlineRepeatRight
	BarlineRepeatBoth
	BarlineFinal
)

var barlineNames = [...]string{
	BarlineSingle:      "single",
	BarlineDouble:      "double",
	BarlineRepeatLeft:  "repeat-left",
	BarlineRepeatRight: "repeat-right",
	BarlineRepeatBoth:  "repeat-both",
	BarlineFinal:       "final",
}

func (k BarlineKind) String() string {
	if k < 0 || int(k) >= len(barlineNames) {
		return fmt.Sprintf("BarlineKind(%d)", int(k))
	}
	return barlineNames[k]
}

// BracketSide selects the opening or closing beat-loop bracket.
type BracketSide int

const (
	BracketOpen BracketSide = iota
	BracketClose
)

func (b BracketSide) String() string {
	if b == BracketClose {
		return "close"
	}
	return "open"
}

// OctaveDot identifies a standalone octave marker glyph.
type OctaveDot int

const (
	DotAbove OctaveDot = iota
	DotAbove2
	DotBelow
	DotBelow2
)

func (d OctaveDot) String() string {
	switch d {
	case DotAbove:
		return "above-1"
	case DotAbove2:
		return "above-2"
	case DotBelow:
		return "below-1"
	case DotBelow2:
		return "below-2"
	}
	return fmt.Sprintf("OctaveDot(%d)", int(d))
}

// SymbolSet is a one-dimensional category whose indices carry names.
type SymbolSet struct {
	label    string
	variants []string
	category *Category
}

func newSymbolSet(name, label string, base rune, variants []string) (*SymbolSet, error) {
	cat, err := NewCategory(name, base, Dimension{Name: "variant", Size: len(variants)})
	if err != nil {
		return nil, err
	}
	return &SymbolSet{label: label, variants: slices.Clone(variants), category: cat}, nil
}

// Name returns the symbol category name.
func (s *SymbolSet) Name() string { return s.category.name }

// Label returns the human readable label.
func (s *SymbolSet) Label() string { return s.label }

// Category returns the backing category.
func (s *SymbolSet) Category() *Category { return s.category }

// Variants returns the variant names in index order.
func (s *SymbolSet) Variants() []string { return slices.Clone(s.variants) }

// Codepoint returns the code point of the named variant.
func (s *SymbolSet) Codepoint(variant string) (rune, error) {
	i := slices.Index(s.variants, variant)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownSymbol, s.category.name, variant)
	}
	return s.category.base + rune(i), nil
}

// VariantOf returns the variant name for a code point of this set.
func (s *SymbolSet) VariantOf(cp rune) (string, bool) {
	if !s.category.Contains(cp) {
		return "", false
	}
	return s.variants[cp-s.category.base], true
}
