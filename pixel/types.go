package pixel

import (
	"image/color"
)

// Gray is a single 8-bit luminance sample.
type Gray struct {
	Y uint8
}

// GrayAlpha is an 8-bit luminance sample with straight (non-premultiplied) alpha.
type GrayAlpha struct {
	Y, A uint8
}

// RGB is an opaque 8-bit color sample.
type RGB struct {
	R, G, B uint8
}

// RGBA is an 8-bit color sample with straight (non-premultiplied) alpha.
type RGBA struct {
	R, G, B, A uint8
}

func diff(a, b uint8) int32 {
	return int32(a) - int32(b)
}

// Gray

func (Gray) Kind() Kind    { return KindGray }
func (Gray) Channels() int { return 1 }

func (p Gray) Delta(o Gray) float32 {
	return float32(diff(p.Y, o.Y)) / 255
}

func (p Gray) AppendBytes(dst []byte) []byte {
	return append(dst, p.Y)
}

func (Gray) FromBytes(b []byte) Gray {
	return Gray{Y: b[0]}
}

func (p Gray) Color() color.Color {
	return color.Gray{Y: p.Y}
}

func (Gray) FromColor(c color.Color) Gray {
	return Gray{Y: color.GrayModel.Convert(c).(color.Gray).Y}
}

func (Gray) Model() color.Model { return color.GrayModel }

// GrayAlpha

func (GrayAlpha) Kind() Kind    { return KindGrayAlpha }
func (GrayAlpha) Channels() int { return 2 }

func (p GrayAlpha) Delta(o GrayAlpha) float32 {
	return float32(diff(p.Y, o.Y)+diff(p.A, o.A)) / 255
}

func (p GrayAlpha) AppendBytes(dst []byte) []byte {
	return append(dst, p.Y, p.A)
}

func (GrayAlpha) FromBytes(b []byte) GrayAlpha {
	return GrayAlpha{Y: b[0], A: b[1]}
}

// Color returns the sample as a gray color.NRGBA.
func (p GrayAlpha) Color() color.Color {
	return color.NRGBA{R: p.Y, G: p.Y, B: p.Y, A: p.A}
}

func (GrayAlpha) FromColor(c color.Color) GrayAlpha {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	opaque := color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
	return GrayAlpha{Y: color.GrayModel.Convert(opaque).(color.Gray).Y, A: n.A}
}

func (GrayAlpha) Model() color.Model { return color.NRGBAModel }

// RGB

func (RGB) Kind() Kind    { return KindRGB }
func (RGB) Channels() int { return 3 }

func (p RGB) Delta(o RGB) float32 {
	return float32(diff(p.R, o.R)+diff(p.G, o.G)+diff(p.B, o.B)) / 255
}

func (p RGB) AppendBytes(dst []byte) []byte {
	return append(dst, p.R, p.G, p.B)
}

func (RGB) FromBytes(b []byte) RGB {
	return RGB{R: b[0], G: b[1], B: b[2]}
}

func (p RGB) Color() color.Color {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff}
}

// FromColor drops any alpha after un-premultiplying.
func (RGB) FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

func (RGB) Model() color.Model { return color.RGBAModel }

// RGBA

func (RGBA) Kind() Kind    { return KindRGBA }
func (RGBA) Channels() int { return 4 }

func (p RGBA) Delta(o RGBA) float32 {
	return float32(diff(p.R, o.R)+diff(p.G, o.G)+diff(p.B, o.B)+diff(p.A, o.A)) / 255
}

func (p RGBA) AppendBytes(dst []byte) []byte {
	return append(dst, p.R, p.G, p.B, p.A)
}

func (RGBA) FromBytes(b []byte) RGBA {
	return RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}
}

func (p RGBA) Color() color.Color {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func (RGBA) FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

func (RGBA) Model() color.Model { return color.NRGBAModel }
