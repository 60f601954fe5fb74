package metrics

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/notation/internal/facecache"
	"github.com/gogpu/notation/internal/logging"
)

// Measurer produces the record of one code point. Implementations must be
// safe for concurrent use.
type Measurer interface {
	Measure(f *Font, cp rune, size float64) (Record, error)
}

type faceKey struct {
	font uint64
	size float64
}

// SurfaceMeasurer measures ink by rendering on an alpha surface and takes
// the advance from text shaping, falling back to the face's advance when
// shaping yields nothing.
type SurfaceMeasurer struct {
	faces  *facecache.Cache[faceKey, *lockedFace]
	shaper *advanceShaper
}

// lockedFace guards an opentype face, which is not safe for concurrent use.
type lockedFace struct {
	mu   sync.Mutex
	face font.Face
}

// defaultFaceLimit bounds the number of (font, size) faces kept open.
const defaultFaceLimit = 16

// NewSurfaceMeasurer creates a measurer with its own face cache.
func NewSurfaceMeasurer() *SurfaceMeasurer {
	return &SurfaceMeasurer{
		faces: facecache.New(defaultFaceLimit, func(_ faceKey, lf *lockedFace) {
			lf.mu.Lock()
			_ = lf.face.Close()
			lf.mu.Unlock()
		}),
		shaper: newAdvanceShaper(),
	}
}

func (m *SurfaceMeasurer) face(f *Font, size float64) (*lockedFace, error) {
	return m.faces.GetOrCreate(faceKey{f.id, size}, func() (*lockedFace, error) {
		face, err := opentype.NewFace(f.ot, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}
		return &lockedFace{face: face}, nil
	})
}

// Measure implements Measurer.
func (m *SurfaceMeasurer) Measure(f *Font, cp rune, size float64) (Record, error) {
	if size <= 0 {
		return Record{}, fmt.Errorf("%w: %g", ErrInvalidSize, size)
	}
	if !f.Usable() {
		return Record{}, &FontError{Name: f.name, Err: fmt.Errorf("not ready")}
	}
	lf, err := m.face(f, size)
	if err != nil {
		return Record{}, &FontError{Name: f.name, Err: err}
	}

	lf.mu.Lock()
	ink, faceAdvance, ok := inkBox(lf.face, cp)
	lf.mu.Unlock()

	rec := Record{Codepoint: cp, Size: size, Missing: !ok}
	if ok {
		rec.Advance = float64(faceAdvance) / 64
		rec.InkLeft = float64(ink.Min.X)
		rec.InkRight = float64(ink.Max.X)
		rec.InkTop = float64(ink.Min.Y)
		rec.InkBottom = float64(ink.Max.Y)
	} else {
		logging.Logger().Debug("metrics: no glyph in font", "font", f.String(),
			"codepoint", fmt.Sprintf("U+%04X", cp))
	}
	if adv, ok := m.shaper.advance(f.shaped, cp, size); ok {
		rec.Advance = adv
	}
	return rec, nil
}

// Close closes every open face. The measurer stays usable and reopens
// faces on demand.
func (m *SurfaceMeasurer) Close() error {
	m.faces.Clear()
	return nil
}

// Forget closes every face opened for f.
func (m *SurfaceMeasurer) Forget(f *Font) int {
	return m.faces.DeleteFunc(func(k faceKey) bool { return k.font == f.id })
}
