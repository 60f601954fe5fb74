package metrics

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// surfaceMargin pads the drawing surface beyond the face's reported bounds
// so antialiasing spill is scanned too.
const surfaceMargin = 2

// inkBox renders cp alone onto an off-screen alpha surface with the origin
// at (0, 0) and returns the box of non-transparent pixels. A glyph that
// draws nothing yields an empty rectangle. ok is false when the face has no
// glyph for cp.
func inkBox(face font.Face, cp rune) (ink image.Rectangle, advance fixed.Int26_6, ok bool) {
	bounds, advance, ok := face.GlyphBounds(cp)
	if !ok {
		return image.Rectangle{}, 0, false
	}

	rect := image.Rect(
		bounds.Min.X.Floor()-surfaceMargin,
		bounds.Min.Y.Floor()-surfaceMargin,
		bounds.Max.X.Ceil()+surfaceMargin,
		bounds.Max.Y.Ceil()+surfaceMargin,
	)
	if rect.Empty() {
		return image.Rectangle{}, advance, true
	}
	surface := image.NewAlpha(rect)

	d := &font.Drawer{
		Dst:  surface,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{},
	}
	d.DrawString(string(cp))

	return scanInk(surface), advance, true
}

// scanInk returns the bounding box of pixels with non-zero alpha.
func scanInk(a *image.Alpha) image.Rectangle {
	r := a.Bounds()
	minX, minY := r.Max.X, r.Max.Y
	maxX, maxY := r.Min.X, r.Min.Y
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := a.Pix[(y-r.Min.Y)*a.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x-r.Min.X] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x+1)
			minY = min(minY, y)
			maxY = max(maxY, y+1)
		}
	}
	if maxX <= minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}
