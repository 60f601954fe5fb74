// Package glyph maps musical notation content onto Private Use Area code points.
//
// A [Registry] holds one [Category] per notation system and per symbol set.
// Every category is a contiguous range addressed row-major by its
// [Dimension]s, so the code point of a [Descriptor] is a pure function of its
// indices and [Registry.Decode] is its exact inverse.
//
// Pitch categories have three dimensions:
//
//	accidental × octave × char
//
// and the code point of a pitch is
//
//	base + block(accidental)×char_count + octave_index×char_count + char_index
//
// where block comes from the manifest, not from the accidental's index.
// With the default manifest the number system's "1" with a sharp is U+E08C.
//
// # Manifest
//
// The layout is declared in YAML (see manifest/default.yaml) and validated by
// [Manifest.Validate] before a registry is built. The embedded default is
// available through [Default].
//
// # Errors
//
// Allocation never clamps. Indices outside a dimension fail with an
// [*OutOfRangeError] that unwraps to [ErrOutOfRange]; code points outside
// every category fail with [ErrUnknownCodepoint].
package glyph
