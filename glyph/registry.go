package glyph

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Registry is the authoritative table of categories. It is built once from a
// manifest and is immutable afterwards, so it is safe for concurrent use.
type Registry struct {
	revision    string
	placeholder rune

	categories []*Category // sorted by base
	byName     map[string]*Category

	systems  []*NotationSystem
	bySystem map[string]*NotationSystem

	symbols  []*SymbolSet
	bySymbol map[string]*SymbolSet
}

// NewRegistry validates the manifest and builds a registry from it.
func NewRegistry(m *Manifest) (*Registry, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil manifest", ErrInvalidManifest)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	slots, blocks, err := m.slots()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	acc := make([]Accidental, len(m.Accidentals))
	for i, a := range m.Accidentals {
		acc[i], _ = ParseAccidental(a.Name)
	}

	r := &Registry{
		revision:    m.Revision,
		placeholder: rune(m.Placeholder),
		byName:      make(map[string]*Category),
		bySystem:    make(map[string]*NotationSystem),
		bySymbol:    make(map[string]*SymbolSet),
	}
	if r.placeholder == 0 {
		r.placeholder = DefaultPlaceholder
	}

	for _, s := range m.Systems {
		sys, err := newNotationSystem(s.Name, rune(s.Base), []rune(s.Chars), acc, slots, blocks, m.Octaves)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		r.systems = append(r.systems, sys)
		r.bySystem[sys.name] = sys
		r.add(sys.category)
	}
	for _, s := range m.Symbols {
		set, err := newSymbolSet(s.Name, s.Label, rune(s.Base), s.Variants)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		r.symbols = append(r.symbols, set)
		r.bySymbol[s.Name] = set
		r.add(set.category)
	}
	sort.Slice(r.categories, func(i, j int) bool {
		return r.categories[i].base < r.categories[j].base
	})
	return r, nil
}

func (r *Registry) add(c *Category) {
	r.categories = append(r.categories, c)
	r.byName[c.name] = c
}

// DefaultPlaceholder is used when a manifest does not name one.
const DefaultPlaceholder rune = 0xFFFD

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	m, err := ParseManifest(defaultManifest)
	if err != nil {
		return nil, err
	}
	return NewRegistry(m)
})

// Default returns the registry built from the embedded manifest.
// The registry is built on first use and shared afterwards.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// Revision returns the manifest revision.
func (r *Registry) Revision() string { return r.revision }

// Placeholder returns the code point drawn for unmappable content.
func (r *Registry) Placeholder() rune { return r.placeholder }

// Categories returns all categories sorted by base code point.
func (r *Registry) Categories() []*Category {
	return append([]*Category(nil), r.categories...)
}

// Category looks up a category by name.
func (r *Registry) Category(name string) (*Category, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Systems returns the notation systems in manifest order.
func (r *Registry) Systems() []*NotationSystem {
	return append([]*NotationSystem(nil), r.systems...)
}

// System looks up a notation system by name.
func (r *Registry) System(name string) (*NotationSystem, error) {
	s, ok := r.bySystem[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
	return s, nil
}

// Symbols looks up a symbol set by name.
func (r *Registry) Symbols(name string) (*SymbolSet, error) {
	s, ok := r.bySymbol[name]
	if !ok {
		return nil, fmt.Errorf("%w: set %q", ErrUnknownSymbol, name)
	}
	return s, nil
}

// Allocate returns the code point of a descriptor.
func (r *Registry) Allocate(d Descriptor) (rune, error) {
	if d.Category == nil || r.byName[d.Category.name] != d.Category {
		return 0, fmt.Errorf("%w: %s is not registered", ErrInvalidDescriptor, d)
	}
	return d.Category.Allocate(d)
}

// Decode returns the descriptor a code point encodes.
func (r *Registry) Decode(cp rune) (Descriptor, error) {
	c := r.lookup(cp)
	if c == nil {
		return Descriptor{}, &UnknownCodepointError{Codepoint: cp}
	}
	return c.Decode(cp)
}

// lookup finds the category containing cp, or nil.
func (r *Registry) lookup(cp rune) *Category {
	i := sort.Search(len(r.categories), func(i int) bool {
		return r.categories[i].base > cp
	})
	if i == 0 {
		return nil
	}
	if c := r.categories[i-1]; c.Contains(cp) {
		return c
	}
	return nil
}

// Barline returns the code point of a barline kind.
func (r *Registry) Barline(kind BarlineKind) (rune, error) {
	return r.symbol(SymbolBarlines, kind.String())
}

// BarlineKindOf reports which barline a code point is.
func (r *Registry) BarlineKindOf(cp rune) (BarlineKind, bool) {
	set, ok := r.bySymbol[SymbolBarlines]
	if !ok {
		return 0, false
	}
	v, ok := set.VariantOf(cp)
	if !ok {
		return 0, false
	}
	for k, n := range barlineNames {
		if n == v {
			return BarlineKind(k), true
		}
	}
	return 0, false
}

// Bracket returns the code point of a beat-loop bracket.
func (r *Registry) Bracket(side BracketSide) (rune, error) {
	return r.symbol(SymbolBeatLoop, side.String())
}

// OctaveDot returns the code point of a standalone octave marker.
func (r *Registry) OctaveDot(d OctaveDot) (rune, error) {
	return r.symbol(SymbolOctaveDots, d.String())
}

func (r *Registry) symbol(set, variant string) (rune, error) {
	s, err := r.Symbols(set)
	if err != nil {
		return 0, err
	}
	return s.Codepoint(variant)
}

// Describe returns a short human readable name for a code point.
func (r *Registry) Describe(cp rune) string {
	d, err := r.Decode(cp)
	if err != nil {
		return fmt.Sprintf("U+%04X (unknown)", cp)
	}
	name := d.Category.name
	if sys, ok := r.bySystem[name]; ok {
		p, _ := sys.PitchOf(d)
		return fmt.Sprintf("U+%04X %s %s", cp, name, p)
	}
	if set, ok := r.bySymbol[name]; ok {
		v, _ := set.VariantOf(cp)
		return fmt.Sprintf("U+%04X %s %s", cp, name, v)
	}
	return fmt.Sprintf("U+%04X %s", cp, d)
}

// Glyph returns the code point to measure and render for cp. Private use
// code points the registry cannot decode, such as ones saved against an
// older manifest, become the placeholder; the decode error is returned
// alongside. Other code points are returned as is.
func (r *Registry) Glyph(cp rune) (rune, error) {
	if !IsPrivateUse(cp) {
		return cp, nil
	}
	if _, err := r.Decode(cp); err != nil {
		return r.placeholder, err
	}
	return cp, nil
}

// Dump writes the registry layout, one category per line, sorted by base.
func (r *Registry) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "revision %s placeholder=U+%04X\n", r.revision, r.placeholder); err != nil {
		return err
	}
	for _, c := range r.categories {
		if _, err := fmt.Fprintf(w, "%s last=U+%04X\n", c, c.Last()); err != nil {
			return err
		}
	}
	return nil
}
