package input

import (
	"maps"

	"golang.org/x/text/width"

	"github.com/gogpu/notation/glyph"
)

// TokenKind classifies a keystroke.
type TokenKind int

const (
	// TokenNone marks keys with no special meaning: pitch characters and text.
	TokenNone TokenKind = iota
	TokenAccidental
	TokenHalfFlat
	TokenOctaveUp
	TokenOctaveDown
	TokenBarline
	TokenColon
	TokenAnchor
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "none"
	case TokenAccidental:
		return "accidental"
	case TokenHalfFlat:
		return "half-flat"
	case TokenOctaveUp:
		return "octave-up"
	case TokenOctaveDown:
		return "octave-down"
	case TokenBarline:
		return "barline"
	case TokenColon:
		return "colon"
	case TokenAnchor:
		return "anchor"
	}
	return "unknown"
}

// Token is the meaning of one keystroke.
type Token struct {
	Kind       TokenKind
	Accidental glyph.Accidental // for TokenAccidental
}

// Keymap binds keys to tokens. Keys are matched after full-width folding.
type Keymap map[rune]Token

// DefaultKeymap returns the standard bindings:
//
//	# ♯   sharp          b ♭   flat
//	x 𝄪   double sharp   𝄫     double flat
//	♮     natural        /     flat to half-flat
//	'     octave up      ,     octave down
//	|     barline        :     barline head
//	-     decoration anchor
func DefaultKeymap() Keymap {
	return Keymap{
		'#': {Kind: TokenAccidental, Accidental: glyph.Sharp},
		'♯': {Kind: TokenAccidental, Accidental: glyph.Sharp},
		'b': {Kind: TokenAccidental, Accidental: glyph.Flat},
		'♭': {Kind: TokenAccidental, Accidental: glyph.Flat},
		'x': {Kind: TokenAccidental, Accidental: glyph.DoubleSharp},
		'𝄪': {Kind: TokenAccidental, Accidental: glyph.DoubleSharp},
		'𝄫': {Kind: TokenAccidental, Accidental: glyph.DoubleFlat},
		'♮': {Kind: TokenAccidental, Accidental: glyph.Natural},
		'/': {Kind: TokenHalfFlat},

		'\'': {Kind: TokenOctaveUp},
		',':  {Kind: TokenOctaveDown},

		'|': {Kind: TokenBarline},
		':': {Kind: TokenColon},
		'-': {Kind: TokenAnchor},
	}
}

// Clone returns an independent copy.
func (k Keymap) Clone() Keymap { return maps.Clone(k) }

// Lookup returns the token bound to key.
func (k Keymap) Lookup(key rune) Token {
	return k[Fold(key)]
}

// Fold maps full-width forms produced by input methods (＃, ｜, １) to their
// canonical equivalents. Other runes are returned unchanged.
func Fold(key rune) rune {
	if f := width.LookupRune(key).Folded(); f != 0 {
		return f
	}
	return key
}
