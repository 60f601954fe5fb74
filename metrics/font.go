package metrics

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/notation/internal/logging"
)

// Loader fetches raw font data. It may block; LoadFont runs it in its own
// goroutine.
type Loader func(ctx context.Context) ([]byte, error)

// FileLoader reads the font from a file.
func FileLoader(path string) Loader {
	return func(context.Context) ([]byte, error) {
		return os.ReadFile(path)
	}
}

// BytesLoader returns data as is.
func BytesLoader(data []byte) Loader {
	return func(context.Context) ([]byte, error) {
		return data, nil
	}
}

var nextFontID atomic.Uint64

// Font is a font whose data may still be loading. It is ready once Ready is
// closed; after that Err reports whether it can be used.
//
// Font is safe for concurrent use.
type Font struct {
	id    uint64
	name  string
	ready chan struct{}

	// Set before ready is closed, read-only afterwards.
	err    error
	family string
	ot     *opentype.Font
	shaped *gotext.Font
}

func newFont(name string) *Font {
	return &Font{
		id:    nextFontID.Add(1),
		name:  name,
		ready: make(chan struct{}),
	}
}

// NewFont parses data synchronously and returns a ready font.
func NewFont(name string, data []byte) (*Font, error) {
	f := newFont(name)
	f.err = f.parse(data)
	close(f.ready)
	if f.err != nil {
		return nil, f.err
	}
	return f, nil
}

// LoadFont starts loading a font in the background and returns immediately.
// The font becomes ready when loading finishes or ctx is cancelled.
func LoadFont(ctx context.Context, name string, load Loader) *Font {
	f := newFont(name)
	go func() {
		defer close(f.ready)
		data, err := load(ctx)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			f.err = &FontError{Name: name, Err: err}
		} else {
			f.err = f.parse(data)
		}
		if f.err != nil {
			logging.Logger().Warn("metrics: font load failed", "font", name, "err", f.err)
			return
		}
		logging.Logger().Info("metrics: font ready", "font", name, "family", f.family)
	}()
	return f
}

func (f *Font) parse(data []byte) error {
	ot, err := opentype.Parse(data)
	if err != nil {
		return &FontError{Name: f.name, Err: fmt.Errorf("parse: %w", err)}
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return &FontError{Name: f.name, Err: fmt.Errorf("parse for shaping: %w", err)}
	}
	f.ot = ot
	f.shaped = face.Font
	if fam, err := ot.Name(nil, sfnt.NameIDFamily); err == nil {
		f.family = fam
	}
	return nil
}

// ID uniquely identifies this font instance. Reloading the same file yields
// a new ID.
func (f *Font) ID() uint64 { return f.id }

// Name returns the name the font was loaded under.
func (f *Font) Name() string { return f.name }

// Family returns the family name from the font's name table, once ready.
func (f *Font) Family() string {
	if !f.IsReady() {
		return ""
	}
	return f.family
}

// Ready is closed when loading has finished, successfully or not.
func (f *Font) Ready() <-chan struct{} { return f.ready }

// IsReady reports whether loading has finished without blocking.
func (f *Font) IsReady() bool {
	select {
	case <-f.ready:
		return true
	default:
		return false
	}
}

// Err returns the load error. It is nil while the font is still loading.
func (f *Font) Err() error {
	if !f.IsReady() {
		return nil
	}
	return f.err
}

// Usable reports whether the font is ready and loaded without error.
func (f *Font) Usable() bool { return f.IsReady() && f.err == nil }

// Wait blocks until the font is ready or ctx is done.
func (f *Font) Wait(ctx context.Context) error {
	select {
	case <-f.ready:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Font) String() string {
	return fmt.Sprintf("%s#%d", f.name, f.id)
}
