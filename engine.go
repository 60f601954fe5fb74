package notation

import (
	"fmt"

	"github.com/gogpu/notation/glyph"
	"github.com/gogpu/notation/input"
	"github.com/gogpu/notation/layout"
	"github.com/gogpu/notation/metrics"
)

// Engine wires a glyph registry, a metrics cache and a layout session.
//
// Engine is safe for concurrent use. Lines created by NewLine are not.
type Engine struct {
	reg     *glyph.Registry
	cache   *metrics.Cache
	session *layout.Session
	keymap  input.Keymap
	size    float64
}

// New creates an engine. Without options it uses the embedded manifest and
// no font, so layouts stay provisional until SetFont is called.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reg, err := registry(o)
	if err != nil {
		return nil, err
	}
	var cacheOpts []metrics.CacheOption
	if o.fallback != nil {
		cacheOpts = append(cacheOpts, metrics.WithFallback(o.fallback))
	}
	cache := metrics.NewCache(o.font, cacheOpts...)

	e := &Engine{
		reg:     reg,
		cache:   cache,
		session: layout.NewSession(reg, cache, o.layout...),
		keymap:  o.keymap,
		size:    o.size,
	}
	Logger().Debug("notation: engine created", "revision", reg.Revision(), "size", o.size)
	return e, nil
}

func registry(o engineOptions) (*glyph.Registry, error) {
	switch {
	case o.manifest != nil:
		return glyph.NewRegistry(o.manifest)
	case o.manifestData != nil:
		m, err := glyph.ParseManifest(o.manifestData)
		if err != nil {
			return nil, err
		}
		return glyph.NewRegistry(m)
	default:
		return glyph.Default()
	}
}

// Registry returns the engine's codepoint registry.
func (e *Engine) Registry() *glyph.Registry { return e.reg }

// Cache returns the engine's metrics cache.
func (e *Engine) Cache() *metrics.Cache { return e.cache }

// FontSize returns the default pixel size.
func (e *Engine) FontSize() float64 { return e.size }

// FontConfig returns the font build configuration of the registry.
func (e *Engine) FontConfig() glyph.FontConfig { return e.reg.FontConfig() }

// NewLine starts an input line for the named notation system.
func (e *Engine) NewLine(system string) (*input.Line, error) {
	var opts []input.Option
	if e.keymap != nil {
		opts = append(opts, input.WithKeymap(e.keymap))
	}
	r, err := input.NewResolver(e.reg, system, opts...)
	if err != nil {
		return nil, fmt.Errorf("notation: new line: %w", err)
	}
	return input.NewLine(r), nil
}

// Layout lays out doc without blocking. A zero FontSize uses the engine's.
func (e *Engine) Layout(doc layout.Document) layout.Result {
	if doc.FontSize == 0 {
		doc.FontSize = e.size
	}
	return e.session.Layout(doc)
}

// Pending reports whether a corrective layout pass is outstanding.
func (e *Engine) Pending() bool { return e.session.Pending() }

// Glyph returns the code point to render for cp. Private-use code points
// the registry cannot decode, such as those persisted against an older
// manifest, are replaced by the placeholder glyph. Layout measures the
// same substitute.
func (e *Engine) Glyph(cp rune) rune {
	g, err := e.reg.Glyph(cp)
	if err != nil {
		Logger().Warn("notation: placeholder glyph", "codepoint", fmt.Sprintf("U+%04X", cp),
			"revision", e.reg.Revision(), "err", err)
	}
	return g
}

// Glyphs maps every code point of cell through Glyph.
func (e *Engine) Glyphs(cell *input.Cell) []rune {
	out := make([]rune, len(cell.Codepoints))
	for i, cp := range cell.Codepoints {
		out[i] = e.Glyph(cp)
	}
	return out
}

// Describe returns a readable description of cp.
func (e *Engine) Describe(cp rune) string { return e.reg.Describe(cp) }

// SetFont replaces the primary font and re-lays out the latest document.
func (e *Engine) SetFont(f *metrics.Font) error { return e.session.SetFont(f) }

// Close stops outstanding corrective passes and closes the rasterizer
// faces opened for measuring.
func (e *Engine) Close() error {
	if err := e.session.Close(); err != nil {
		return err
	}
	return e.cache.Close()
}
