package notation

import (
	"time"

	"github.com/gogpu/notation/glyph"
	"github.com/gogpu/notation/input"
	"github.com/gogpu/notation/layout"
	"github.com/gogpu/notation/metrics"
)

// DefaultFontSize is the pixel size used when a document leaves FontSize at 0.
const DefaultFontSize = 24

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := notation.New(
//	    notation.WithFontSize(32),
//	    notation.WithFontDeadline(2*time.Second),
//	)
type Option func(*engineOptions)

type engineOptions struct {
	manifest     *glyph.Manifest
	manifestData []byte
	font         *metrics.Font
	fallback     *metrics.Font
	size         float64
	keymap       input.Keymap
	layout       []layout.Option
}

func defaultOptions() engineOptions {
	return engineOptions{size: DefaultFontSize}
}

// WithManifest builds the registry from m instead of the embedded default.
func WithManifest(m *glyph.Manifest) Option {
	return func(o *engineOptions) {
		o.manifest = m
	}
}

// WithManifestData parses YAML manifest data. It is ignored when
// WithManifest is also given.
func WithManifestData(data []byte) Option {
	return func(o *engineOptions) {
		o.manifestData = data
	}
}

// WithFont sets the primary font. It may still be loading.
func WithFont(f *metrics.Font) Option {
	return func(o *engineOptions) {
		o.font = f
	}
}

// WithFallbackFont sets the font measured when the primary font fails.
func WithFallbackFont(f *metrics.Font) Option {
	return func(o *engineOptions) {
		o.fallback = f
	}
}

// WithFontSize sets the default pixel size. Non-positive sizes are ignored.
func WithFontSize(size float64) Option {
	return func(o *engineOptions) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithKeymap replaces the default keymap of every line the engine creates.
func WithKeymap(k input.Keymap) Option {
	return func(o *engineOptions) {
		o.keymap = k
	}
}

// WithScheduler sets where corrective layout passes run.
func WithScheduler(s layout.Scheduler) Option {
	return func(o *engineOptions) {
		o.layout = append(o.layout, layout.WithScheduler(s))
	}
}

// WithRelayout sets the callback receiving corrective layout results.
func WithRelayout(fn func(layout.Result)) Option {
	return func(o *engineOptions) {
		o.layout = append(o.layout, layout.WithRelayout(fn))
	}
}

// WithFontDeadline sets how long the font may load before it counts as
// slow. A slow font that loads in the end is not reported.
func WithFontDeadline(d time.Duration) Option {
	return func(o *engineOptions) {
		o.layout = append(o.layout, layout.WithFontDeadline(d))
	}
}

// WithWarnings sets the callback receiving font warnings.
func WithWarnings(fn func(layout.Warning)) Option {
	return func(o *engineOptions) {
		o.layout = append(o.layout, layout.WithWarnings(fn))
	}
}
