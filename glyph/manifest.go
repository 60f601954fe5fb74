package glyph

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed manifest/default.yaml
var defaultManifest []byte

// DefaultManifestData returns the embedded default manifest source.
func DefaultManifestData() []byte { return slices.Clone(defaultManifest) }

// Codepoint is a code point as written in a manifest. It accepts integers
// in any base understood by strconv (0xE000) and the U+E000 notation.
type Codepoint rune

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Codepoint) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: codepoint must be a scalar", value.Line)
	}
	s := strings.TrimSpace(value.Value)
	var (
		n   int64
		err error
	)
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "U+"); ok {
		n, err = strconv.ParseInt(rest, 16, 32)
	} else {
		n, err = strconv.ParseInt(s, 0, 32)
	}
	if err != nil {
		return fmt.Errorf("line %d: bad codepoint %q", value.Line, value.Value)
	}
	*c = Codepoint(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Codepoint) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%04X", rune(c)), nil
}

// Manifest is the declarative description of a notation font's code point
// layout. It is the single source for both the registry and the font
// build configuration.
type Manifest struct {
	Revision    string            `yaml:"revision"`
	Placeholder Codepoint         `yaml:"placeholder"`
	Accidentals []AccidentalBlock `yaml:"accidentals"`
	Octaves     []int             `yaml:"octaves"`
	Systems     []SystemSpec      `yaml:"systems"`
	Symbols     []SymbolSpec      `yaml:"symbols"`
}

// AccidentalBlock places an accidental's glyph block within each system.
// Block is measured in units of the system's character count.
type AccidentalBlock struct {
	Name  string `yaml:"name"`
	Block int    `yaml:"block"`
}

// SystemSpec declares a notation system. VariantsPerCharacter and
// TotalGlyphs are optional cross-checks.
type SystemSpec struct {
	Name                 string    `yaml:"name"`
	Base                 Codepoint `yaml:"base"`
	Chars                string    `yaml:"chars"`
	VariantsPerCharacter int       `yaml:"variants_per_character,omitempty"`
	TotalGlyphs          int       `yaml:"total_glyphs,omitempty"`
}

// SymbolSpec declares a named set of symbol glyphs.
type SymbolSpec struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label,omitempty"`
	Base     Codepoint `yaml:"base"`
	Variants []string  `yaml:"variants"`
}

// ParseManifest decodes a YAML manifest. Unknown fields are rejected.
// The result is not validated; see Manifest.Validate.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// Marshal encodes the manifest back to YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// privateUse lists the three Unicode private use areas.
var privateUse = [...][2]rune{
	{0xE000, 0xF8FF},
	{0xF0000, 0xFFFFD},
	{0x100000, 0x10FFFD},
}

func inPrivateUse(first, last rune) bool {
	for _, r := range privateUse {
		if first >= r[0] && last <= r[1] {
			return true
		}
	}
	return false
}

// IsPrivateUse reports whether cp lies in a Unicode private use area.
func IsPrivateUse(cp rune) bool { return inPrivateUse(cp, cp) }

type span struct {
	name        string
	first, last rune
}

// Validate checks the manifest and reports every problem at once.
// The returned error wraps ErrInvalidManifest.
func (m *Manifest) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(m.Accidentals) == 0 {
		fail("no accidentals declared")
	}
	seenAcc := map[Accidental]bool{}
	for _, a := range m.Accidentals {
		acc, err := ParseAccidental(a.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seenAcc[acc] {
			fail("accidental %q declared twice", a.Name)
		}
		seenAcc[acc] = true
	}
	if len(m.Accidentals) > 0 && !seenAcc[Natural] {
		fail("accidental %q is required", Natural)
	}

	if len(m.Octaves) == 0 {
		fail("no octaves declared")
	} else if m.Octaves[0] != 0 {
		fail("octave index 0 must be shift 0, got %d", m.Octaves[0])
	}
	seenOct := map[int]bool{}
	for _, o := range m.Octaves {
		if seenOct[o] {
			fail("octave %d declared twice", o)
		}
		seenOct[o] = true
	}
	blocks := len(m.Accidentals)
	if len(m.Octaves) > 0 && len(m.Accidentals) > 0 {
		if _, n, err := m.slots(); err != nil {
			errs = append(errs, err)
		} else {
			blocks = n
		}
	}

	var spans []span
	names := map[string]bool{}
	claim := func(name string) {
		if names[name] {
			fail("name %q declared twice", name)
		}
		names[name] = true
	}

	if len(m.Systems) == 0 {
		fail("no notation systems declared")
	}
	variants := len(m.Accidentals) * len(m.Octaves)
	for _, s := range m.Systems {
		claim(s.Name)
		if s.Name == "" {
			fail("system with base U+%04X has no name", rune(s.Base))
		}
		chars := []rune(s.Chars)
		if len(chars) == 0 {
			fail("system %q has no characters", s.Name)
			continue
		}
		for i, r := range chars {
			if slices.Index(chars, r) != i {
				fail("system %q repeats character %q", s.Name, r)
			}
		}
		if s.VariantsPerCharacter != 0 && s.VariantsPerCharacter != variants {
			fail("system %q declares %d variants per character, accidentals × octaves is %d",
				s.Name, s.VariantsPerCharacter, variants)
		}
		total := len(chars) * variants
		if s.TotalGlyphs != 0 && s.TotalGlyphs != total {
			fail("system %q declares %d glyphs, characters × variants is %d",
				s.Name, s.TotalGlyphs, total)
		}
		// Gaps between accidental blocks still belong to the system's range.
		if reserved := len(chars) * len(m.Octaves) * blocks; reserved > 0 {
			spans = append(spans, span{s.Name, rune(s.Base), rune(s.Base) + rune(reserved) - 1})
		}
	}

	for _, s := range m.Symbols {
		claim(s.Name)
		if len(s.Variants) == 0 {
			fail("symbol set %q has no variants", s.Name)
			continue
		}
		for i, v := range s.Variants {
			if slices.Index(s.Variants, v) != i {
				fail("symbol set %q repeats variant %q", s.Name, v)
			}
		}
		spans = append(spans, span{s.Name, rune(s.Base), rune(s.Base) + rune(len(s.Variants)) - 1})
	}
	errs = append(errs, m.checkRequiredSymbols()...)

	for _, sp := range spans {
		if !inPrivateUse(sp.first, sp.last) {
			fail("%q range U+%04X..U+%04X is outside the private use areas", sp.name, sp.first, sp.last)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].first < spans[j].first })
	for i := 1; i < len(spans); i++ {
		if spans[i].first <= spans[i-1].last {
			fail("%q (U+%04X..U+%04X) overlaps %q (U+%04X..U+%04X)",
				spans[i].name, spans[i].first, spans[i].last,
				spans[i-1].name, spans[i-1].first, spans[i-1].last)
		}
	}
	if p := rune(m.Placeholder); p != 0 {
		for _, sp := range spans {
			if p >= sp.first && p <= sp.last {
				fail("placeholder U+%04X lies inside %q", p, sp.name)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
}

// slots converts accidental blocks into the slot table of the accidental
// dimension and returns it with the number of blocks the table spans.
// Blocks must be distinct multiples of the octave count; unused blocks
// between them are gaps left by accidentals a font revision dropped.
func (m *Manifest) slots() ([]int, int, error) {
	octs := len(m.Octaves)
	out := make([]int, len(m.Accidentals))
	blocks := len(out)
	for i, a := range m.Accidentals {
		if a.Block < 0 || a.Block%octs != 0 {
			return nil, 0, fmt.Errorf("accidental %q block %d is not a multiple of the octave count %d",
				a.Name, a.Block, octs)
		}
		out[i] = a.Block / octs
		blocks = max(blocks, out[i]+1)
	}
	if err := checkSlots(out, len(out), blocks); err != nil {
		return nil, 0, fmt.Errorf("accidental blocks overlap: %v", err)
	}
	return out, blocks, nil
}

func (m *Manifest) checkRequiredSymbols() []error {
	required := map[string][]string{
		SymbolBarlines: {BarlineSingle.String(), BarlineDouble.String(),
			BarlineRepeatLeft.String(), BarlineRepeatRight.String()},
		SymbolBeatLoop: {BracketOpen.String(), BracketClose.String()},
	}
	var errs []error
	for _, name := range []string{SymbolBarlines, SymbolBeatLoop} {
		i := slices.IndexFunc(m.Symbols, func(s SymbolSpec) bool { return s.Name == name })
		if i < 0 {
			errs = append(errs, fmt.Errorf("required symbol set %q missing", name))
			continue
		}
		for _, v := range required[name] {
			if !slices.Contains(m.Symbols[i].Variants, v) {
				errs = append(errs, fmt.Errorf("symbol set %q lacks variant %q", name, v))
			}
		}
	}
	return errs
}
