package metrics

import (
	"errors"
	"fmt"
)

// Sentinel errors for metrics package.
var (
	// ErrNotMeasured is returned by Lookup when the cache holds no record for
	// the code point at the requested size. Layout falls back to Provisional.
	ErrNotMeasured = errors.New("metrics: glyph not measured")

	// ErrFontUnavailable is returned when no font can be used for measurement.
	ErrFontUnavailable = errors.New("metrics: font unavailable")

	// ErrInvalidSize is returned for non-positive font sizes.
	ErrInvalidSize = errors.New("metrics: invalid font size")
)

// FontError describes a font that failed to load or parse.
// It matches both ErrFontUnavailable and the underlying cause.
type FontError struct {
	Name string
	Err  error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("metrics: font %q unavailable: %v", e.Name, e.Err)
}

// Unwrap returns ErrFontUnavailable and the cause.
func (e *FontError) Unwrap() []error { return []error{ErrFontUnavailable, e.Err} }
