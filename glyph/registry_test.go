package glyph

import (
	"errors"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return r
}

func TestSpanEqualsProduct(t *testing.T) {
	r := mustDefault(t)
	for _, c := range r.Categories() {
		want := 1
		for _, d := range c.Dimensions() {
			want *= d.Size
		}
		if c.Span() != want || c.Count() != want {
			t.Errorf("%s: Span(), Count() = %d, %d, want %d", c.Name(), c.Span(), c.Count(), want)
		}
	}
	for _, s := range r.Systems() {
		if got, want := s.TotalGlyphs(), s.CharCount()*s.VariantsPerCharacter(); got != want {
			t.Errorf("%s: TotalGlyphs() = %d, want %d", s.Name(), got, want)
		}
	}
}

func TestRoundTripEveryDescriptor(t *testing.T) {
	r := mustDefault(t)
	seen := make(map[rune]string)
	for _, c := range r.Categories() {
		dims := c.Dimensions()
		idx := make([]int, len(dims))
		for n := 0; n < c.Count(); n++ {
			// Enumerate indices in row-major order.
			rem := n
			for k := len(dims) - 1; k >= 0; k-- {
				idx[k] = rem % dims[k].Size
				rem /= dims[k].Size
			}
			d, err := c.Descriptor(idx...)
			if err != nil {
				t.Fatalf("%s%v: Descriptor() error = %v", c.Name(), idx, err)
			}
			cp, err := r.Allocate(d)
			if err != nil {
				t.Fatalf("%s: Allocate() error = %v", d, err)
			}
			if !c.Contains(cp) {
				t.Fatalf("%s: U+%04X outside category", d, cp)
			}
			if prev, dup := seen[cp]; dup {
				t.Fatalf("U+%04X allocated to both %s and %s", cp, prev, d)
			}
			seen[cp] = d.String()

			got, err := r.Decode(cp)
			if err != nil {
				t.Fatalf("Decode(U+%04X) error = %v", cp, err)
			}
			if got != d {
				t.Fatalf("Decode(Allocate(%s)) = %s", d, got)
			}
		}
	}
}

func TestAllocateNumberSharp(t *testing.T) {
	r := mustDefault(t)
	num, err := r.System("number")
	if err != nil {
		t.Fatal(err)
	}
	d, err := num.Pitch(Pitch{Char: '1', Accidental: Sharp})
	if err != nil {
		t.Fatalf("Pitch() error = %v", err)
	}
	cp, err := r.Allocate(d)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if cp != 0xE08C {
		t.Errorf("Allocate(1#) = U+%04X, want U+E08C", cp)
	}
}

func TestAllocateKnownCodepoints(t *testing.T) {
	r := mustDefault(t)
	tests := []struct {
		system string
		pitch  Pitch
		want   rune
	}{
		{"number", Pitch{Char: '1'}, 0xE000},
		{"number", Pitch{Char: '7'}, 0xE006},
		{"number", Pitch{Char: '1', Octave: -2}, 0xE007},
		{"number", Pitch{Char: '1', Octave: 1}, 0xE015},
		{"number", Pitch{Char: '3', Accidental: Flat}, 0xE025},
		{"number", Pitch{Char: '7', Accidental: DoubleSharp, Octave: 2}, 0xE0D1},
		{"western", Pitch{Char: 'C'}, 0xE100},
		{"western", Pitch{Char: 'G', Accidental: HalfFlat, Octave: -1}, 0xE100 + 70 + 14 + 4},
		{"sargam", Pitch{Char: 'N', Accidental: Sharp}, 0xE300 + 240 + 11},
		{"doremi", Pitch{Char: 't', Accidental: DoubleFlat, Octave: 1}, 0xE500 + 105 + 21 + 6},
	}
	for _, tt := range tests {
		t.Run(tt.system+"/"+tt.pitch.String(), func(t *testing.T) {
			sys, err := r.System(tt.system)
			if err != nil {
				t.Fatal(err)
			}
			d, err := sys.Pitch(tt.pitch)
			if err != nil {
				t.Fatalf("Pitch() error = %v", err)
			}
			cp, err := r.Allocate(d)
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if cp != tt.want {
				t.Errorf("got U+%04X, want U+%04X", cp, tt.want)
			}
			back, err := sys.PitchOf(d)
			if err != nil {
				t.Fatalf("PitchOf() error = %v", err)
			}
			if back != tt.pitch {
				t.Errorf("PitchOf() = %v, want %v", back, tt.pitch)
			}
		})
	}
}

func TestEachDimensionRejectsSize(t *testing.T) {
	r := mustDefault(t)
	for _, c := range r.Categories() {
		dims := c.Dimensions()
		for k, dim := range dims {
			idx := make([]int, len(dims))
			idx[k] = dim.Size
			_, err := c.Descriptor(idx...)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("%s dim %s index %d: error = %v, want ErrOutOfRange", c.Name(), dim.Name, dim.Size, err)
			}
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("%s: error %T is not *OutOfRangeError", c.Name(), err)
			}
			if oor.Dimension != dim.Name || oor.Index != dim.Size || oor.Size != dim.Size || oor.Category != c.Name() {
				t.Errorf("%s: OutOfRangeError = %+v", c.Name(), *oor)
			}

			// A descriptor built by hand must be rejected by Allocate too.
			raw := Descriptor{Category: c}
			raw.Indices[k] = dim.Size
			if _, err := r.Allocate(raw); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("%s: Allocate(raw) error = %v, want ErrOutOfRange", c.Name(), err)
			}
			raw.Indices[k] = -1
			if _, err := r.Allocate(raw); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("%s: Allocate(-1) error = %v, want ErrOutOfRange", c.Name(), err)
			}
		}
	}
}

func TestPitchRejectsUnknownOctave(t *testing.T) {
	r := mustDefault(t)
	num, _ := r.System("number")
	if _, err := num.Pitch(Pitch{Char: '1', Octave: 3}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("octave +3: error = %v, want ErrOutOfRange", err)
	}
	if _, err := num.Pitch(Pitch{Char: '8'}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("char 8: error = %v, want ErrOutOfRange", err)
	}
}

func TestDescriptorArity(t *testing.T) {
	r := mustDefault(t)
	c, ok := r.Category("number")
	if !ok {
		t.Fatal("number category missing")
	}
	if _, err := c.Descriptor(0, 0); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Descriptor(0,0) error = %v, want ErrInvalidDescriptor", err)
	}
	if _, err := r.Allocate(Descriptor{}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Allocate(zero) error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestAllocateForeignCategory(t *testing.T) {
	r := mustDefault(t)
	other, err := NewCategory("number", 0xE000, Dimension{Name: "x", Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	d, _ := other.Descriptor(0)
	if _, err := r.Allocate(d); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestDecodeUnknown(t *testing.T) {
	r := mustDefault(t)
	for _, cp := range []rune{'A', 0xDFFF, 0xE0D2, 0xE0FF, 0xE1D2, 0xE604, 0xE622, 0xF8FF} {
		_, err := r.Decode(cp)
		if !errors.Is(err, ErrUnknownCodepoint) {
			t.Errorf("Decode(U+%04X) error = %v, want ErrUnknownCodepoint", cp, err)
		}
	}
}

func TestRegistryGlyph(t *testing.T) {
	r := mustDefault(t)
	tests := []struct {
		name    string
		cp      rune
		want    rune
		wantErr bool
	}{
		{"allocated", 0xE08C, 0xE08C, false},
		{"barline", 0xE611, 0xE611, false},
		{"text", '1', '1', false},
		{"stale in category", 0xE0FF, DefaultPlaceholder, true},
		{"outside every category", 0xF000, DefaultPlaceholder, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Glyph(tt.cp)
			if got != tt.want {
				t.Errorf("Glyph(U+%04X) = U+%04X, want U+%04X", tt.cp, got, tt.want)
			}
			if tt.wantErr != errors.Is(err, ErrUnknownCodepoint) {
				t.Errorf("Glyph(U+%04X) error = %v, want unknown-codepoint error: %v", tt.cp, err, tt.wantErr)
			}
		})
	}
	if r.Placeholder() != DefaultPlaceholder {
		t.Errorf("Placeholder() = U+%04X, want U+%04X", r.Placeholder(), DefaultPlaceholder)
	}
}

func TestSymbols(t *testing.T) {
	r := mustDefault(t)
	tests := []struct {
		name string
		got  func() (rune, error)
		want rune
	}{
		{"barline single", func() (rune, error) { return r.Barline(BarlineSingle) }, 0xE610},
		{"barline double", func() (rune, error) { return r.Barline(BarlineDouble) }, 0xE611},
		{"repeat-left", func() (rune, error) { return r.Barline(BarlineRepeatLeft) }, 0xE612},
		{"repeat-right", func() (rune, error) { return r.Barline(BarlineRepeatRight) }, 0xE613},
		{"final", func() (rune, error) { return r.Barline(BarlineFinal) }, 0xE615},
		{"bracket open", func() (rune, error) { return r.Bracket(BracketOpen) }, 0xE620},
		{"bracket close", func() (rune, error) { return r.Bracket(BracketClose) }, 0xE621},
		{"dot below", func() (rune, error) { return r.OctaveDot(DotBelow) }, 0xE602},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := tt.got()
			if err != nil {
				t.Fatal(err)
			}
			if cp != tt.want {
				t.Errorf("got U+%04X, want U+%04X", cp, tt.want)
			}
		})
	}

	if k, ok := r.BarlineKindOf(0xE613); !ok || k != BarlineRepeatRight {
		t.Errorf("BarlineKindOf(U+E613) = %v, %v", k, ok)
	}
	if _, ok := r.BarlineKindOf(0xE000); ok {
		t.Error("BarlineKindOf(U+E000) should be false")
	}
}

func TestDescribe(t *testing.T) {
	r := mustDefault(t)
	if got, want := r.Describe(0xE08C), "U+E08C number 1/sharp/+0"; got != want {
		t.Errorf("Describe(U+E08C) = %q, want %q", got, want)
	}
	if got, want := r.Describe(0xE611), "U+E611 barlines double"; got != want {
		t.Errorf("Describe(U+E611) = %q, want %q", got, want)
	}
	if got := r.Describe('x'); !strings.Contains(got, "unknown") {
		t.Errorf("Describe('x') = %q", got)
	}
}

func TestDump(t *testing.T) {
	r := mustDefault(t)
	var sb strings.Builder
	if err := r.Dump(&sb); err != nil {
		t.Fatal(err)
	}
	want := `revision 2024.3 placeholder=U+FFFD
number base=U+E000 span=210 dims=[accidental=6@[0 1 2 3 4 5] octave=5 char=7] last=U+E0D1
western base=U+E100 span=210 dims=[accidental=6@[0 1 2 3 4 5] octave=5 char=7] last=U+E1D1
sargam base=U+E300 span=360 dims=[accidental=6@[0 1 2 3 4 5] octave=5 char=12] last=U+E467
doremi base=U+E500 span=210 dims=[accidental=6@[0 1 2 3 4 5] octave=5 char=7] last=U+E5D1
octave-dots base=U+E600 span=4 dims=[variant=4] last=U+E603
barlines base=U+E610 span=6 dims=[variant=6] last=U+E615
beat-loop base=U+E620 span=2 dims=[variant=2] last=U+E621
`
	if got := sb.String(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestFontConfig(t *testing.T) {
	r := mustDefault(t)
	fc := r.FontConfig()
	if len(fc.Systems) != 4 {
		t.Fatalf("len(Systems) = %d, want 4", len(fc.Systems))
	}
	num := fc.Systems[0]
	if num.SystemName != "number" || num.PUABase != 0xE000 || num.CharCount != 7 ||
		num.VariantsPerCharacter != 30 || num.TotalGlyphs != 210 {
		t.Errorf("number config = %+v", num)
	}
	if len(fc.Symbols) != 12 {
		t.Errorf("len(Symbols) = %d, want 12", len(fc.Symbols))
	}
	data, err := fc.JSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"system_name": "number"`, `"pua_base": 57344`, `"variants_per_character": 30`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON lacks %s", key)
		}
	}
}
