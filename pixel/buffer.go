package pixel

import (
	"image"
	"image/color"
)

// Buffer is a width x height grid of samples stored row-major with the
// origin at the top-left. It implements image.Image, so a buffer can be
// passed directly to any standard library encoder.
type Buffer[P Sample[P]] struct {
	Width, Height int
	Pix           []P
}

// NewBuffer allocates a zero-filled buffer. Negative dimensions are
// treated as zero.
func NewBuffer[P Sample[P]](width, height int) *Buffer[P] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer[P]{
		Width:  width,
		Height: height,
		Pix:    make([]P, width*height),
	}
}

// InBounds reports whether (x, y) addresses a sample of the buffer.
func (b *Buffer[P]) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Pixel returns the sample at (x, y), or the zero sample when (x, y) is
// out of bounds.
func (b *Buffer[P]) Pixel(x, y int) P {
	if !b.InBounds(x, y) {
		var zero P
		return zero
	}
	return b.Pix[y*b.Width+x]
}

// SetPixel stores p at (x, y). Out of bounds writes are ignored.
func (b *Buffer[P]) SetPixel(x, y int, p P) {
	if !b.InBounds(x, y) {
		return
	}
	b.Pix[y*b.Width+x] = p
}

// Equal reports whether both buffers have the same dimensions and samples.
func (b *Buffer[P]) Equal(o *Buffer[P]) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the buffer.
func (b *Buffer[P]) Clone() *Buffer[P] {
	c := &Buffer[P]{Width: b.Width, Height: b.Height, Pix: make([]P, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// ColorModel implements image.Image.
func (b *Buffer[P]) ColorModel() color.Model {
	var zero P
	return zero.Model()
}

// Bounds implements image.Image.
func (b *Buffer[P]) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image.
func (b *Buffer[P]) At(x, y int) color.Color {
	return b.Pixel(x, y).Color()
}

// Set implements draw.Image. The color is converted to P.
func (b *Buffer[P]) Set(x, y int, c color.Color) {
	var zero P
	b.SetPixel(x, y, zero.FromColor(c))
}

// Kind returns the sample kind of the buffer.
func (b *Buffer[P]) Kind() Kind {
	var zero P
	return zero.Kind()
}
