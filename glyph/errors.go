package glyph

import (
	"errors"
	"fmt"
)

// Sentinel errors for glyph package.
var (
	// ErrOutOfRange is returned when a descriptor index violates its dimension bound.
	ErrOutOfRange = errors.New("glyph: index out of range")

	// ErrUnknownCodepoint is returned when a code point lies outside every registered category.
	ErrUnknownCodepoint = errors.New("glyph: unknown codepoint")

	// ErrInvalidDescriptor is returned for descriptors that do not belong to the registry
	// or have the wrong number of indices.
	ErrInvalidDescriptor = errors.New("glyph: invalid descriptor")

	// ErrInvalidCategory is returned when a category definition is malformed.
	ErrInvalidCategory = errors.New("glyph: invalid category")

	// ErrInvalidManifest is returned when a font manifest fails validation.
	ErrInvalidManifest = errors.New("glyph: invalid manifest")

	// ErrUnknownSystem is returned when a notation system name is not registered.
	ErrUnknownSystem = errors.New("glyph: unknown notation system")

	// ErrUnknownSymbol is returned when a symbol category or variant is not registered.
	ErrUnknownSymbol = errors.New("glyph: unknown symbol")
)

// OutOfRangeError reports which dimension of which category rejected an index.
type OutOfRangeError struct {
	Category  string
	Dimension string
	Index     int
	Size      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("glyph: %s index %d out of range [0,%d) in category %q",
		e.Dimension, e.Index, e.Size, e.Category)
}

// Unwrap returns ErrOutOfRange.
func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// UnknownCodepointError is returned by Decode for values outside every span.
type UnknownCodepointError struct {
	Codepoint rune
	Reason    string
}

func (e *UnknownCodepointError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("glyph: unknown codepoint U+%04X: %s", e.Codepoint, e.Reason)
	}
	return fmt.Sprintf("glyph: unknown codepoint U+%04X", e.Codepoint)
}

// Unwrap returns ErrUnknownCodepoint.
func (e *UnknownCodepointError) Unwrap() error { return ErrUnknownCodepoint }
