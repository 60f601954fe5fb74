package glyph

import (
	"fmt"
	"slices"
)

// Accidental is a pitch alteration. The zero value is Natural.
type Accidental int

const (
	Natural Accidental = iota
	Flat
	HalfFlat
	DoubleFlat
	Sharp
	DoubleSharp
)

var accidentalNames = [...]string{
	Natural:     "natural",
	Flat:        "flat",
	HalfFlat:    "half-flat",
	DoubleFlat:  "double-flat",
	Sharp:       "sharp",
	DoubleSharp: "double-sharp",
}

func (a Accidental) String() string {
	if a < 0 || int(a) >= len(accidentalNames) {
		return fmt.Sprintf("Accidental(%d)", int(a))
	}
	return accidentalNames[a]
}

// ParseAccidental parses the manifest spelling of an accidental.
func ParseAccidental(s string) (Accidental, error) {
	for i, n := range accidentalNames {
		if n == s {
			return Accidental(i), nil
		}
	}
	return 0, fmt.Errorf("glyph: unknown accidental %q", s)
}

// Pitch is the logical content of a pitch glyph.
type Pitch struct {
	Char       rune
	Accidental Accidental
	Octave     int
}

func (p Pitch) String() string {
	return fmt.Sprintf("%c/%s/%+d", p.Char, p.Accidental, p.Octave)
}

// Dimension positions within a pitch category.
const (
	DimAccidental = 0
	DimOctave     = 1
	DimChar       = 2
)

// NotationSystem is a named alphabet of pitch characters mapped onto a
// three-dimensional category of accidental × octave × character.
type NotationSystem struct {
	name        string
	chars       []rune
	accidentals []Accidental
	octaves     []int
	category    *Category
}

func newNotationSystem(name string, base rune, chars []rune, acc []Accidental, slots []int, blocks int, octaves []int) (*NotationSystem, error) {
	cat, err := NewCategory(name, base,
		Dimension{Name: "accidental", Size: len(acc), Slots: slots, Blocks: blocks},
		Dimension{Name: "octave", Size: len(octaves)},
		Dimension{Name: "char", Size: len(chars)},
	)
	if err != nil {
		return nil, err
	}
	return &NotationSystem{
		name:        name,
		chars:       slices.Clone(chars),
		accidentals: slices.Clone(acc),
		octaves:     slices.Clone(octaves),
		category:    cat,
	}, nil
}

// Name returns the system name.
func (s *NotationSystem) Name() string { return s.name }

// Base returns the system's first code point.
func (s *NotationSystem) Base() rune { return s.category.base }

// Category returns the pitch category backing the system.
func (s *NotationSystem) Category() *Category { return s.category }

// Chars returns the pitch characters in index order.
func (s *NotationSystem) Chars() []rune { return slices.Clone(s.chars) }

// CharCount returns the number of pitch characters.
func (s *NotationSystem) CharCount() int { return len(s.chars) }

// Octaves returns the octave shifts in index order.
func (s *NotationSystem) Octaves() []int { return slices.Clone(s.octaves) }

// Accidentals returns the accidentals in index order.
func (s *NotationSystem) Accidentals() []Accidental { return slices.Clone(s.accidentals) }

// VariantsPerCharacter is the number of accidental and octave combinations.
func (s *NotationSystem) VariantsPerCharacter() int {
	return len(s.accidentals) * len(s.octaves)
}

// TotalGlyphs is the number of pitch glyphs, characters × variants. The
// code point range is larger when the accidental blocks leave gaps.
func (s *NotationSystem) TotalGlyphs() int { return s.category.count }

// CharIndex returns the index of a pitch character.
func (s *NotationSystem) CharIndex(r rune) (int, bool) {
	i := slices.Index(s.chars, r)
	return i, i >= 0
}

// HasOctave reports whether the shift is representable.
func (s *NotationSystem) HasOctave(shift int) bool {
	return slices.Contains(s.octaves, shift)
}

// Pitch converts a logical pitch into a validated descriptor.
func (s *NotationSystem) Pitch(p Pitch) (Descriptor, error) {
	ci, ok := s.CharIndex(p.Char)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q is not a %s character", ErrOutOfRange, p.Char, s.name)
	}
	ai := slices.Index(s.accidentals, p.Accidental)
	if ai < 0 {
		return Descriptor{}, fmt.Errorf("%w: accidental %s not in %s", ErrOutOfRange, p.Accidental, s.name)
	}
	oi := slices.Index(s.octaves, p.Octave)
	if oi < 0 {
		return Descriptor{}, &OutOfRangeError{
			Category:  s.name,
			Dimension: "octave",
			Index:     p.Octave,
			Size:      len(s.octaves),
		}
	}
	return s.category.Descriptor(ai, oi, ci)
}

// PitchOf converts a descriptor of this system back into a pitch.
func (s *NotationSystem) PitchOf(d Descriptor) (Pitch, error) {
	if err := s.category.validate(d); err != nil {
		return Pitch{}, err
	}
	return Pitch{
		Char:       s.chars[d.Indices[DimChar]],
		Accidental: s.accidentals[d.Indices[DimAccidental]],
		Octave:     s.octaves[d.Indices[DimOctave]],
	}, nil
}
