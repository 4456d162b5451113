// Package imgconv converts between standard library images and zimg pixel
// buffers, and reads and writes the raster formats the zimg tool accepts.
//
// Supported inputs are PNG, JPEG, GIF, QOI and JPEG 2000. Outputs are PNG
// and QOI.
package imgconv

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"github.com/mrjoshuak/go-jpeg2000"
	"github.com/nfnt/resize"
	"github.com/xfmoulet/qoi"

	"github.com/mrjoshuak/go-zimg/pixel"
)

var (
	// ErrUnsupportedSampleType is returned for decoded images whose pixel
	// layout does not map onto one of the four sample kinds.
	ErrUnsupportedSampleType = errors.New("imgconv: unsupported sample type")

	// ErrUnknownFormat is returned when an output path has an extension
	// that no encoder handles.
	ErrUnknownFormat = errors.New("imgconv: unknown image format")
)

// Format identifies an output encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatQOI
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatQOI:
		return "qoi"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".qoi":
		return FormatQOI, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

func isJPEG2000(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".j2k", ".j2c", ".jpc", ".jp2", ".jpx":
		return true
	}
	return false
}

// Decode reads an image from r. The name is only used to route raw JPEG
// 2000 codestreams, which carry no registered signature; everything else
// is detected from its contents.
func Decode(r io.Reader, name string) (image.Image, string, error) {
	if isJPEG2000(name) {
		img, err := jpeg2000.Decode(r)
		if err != nil {
			return nil, "", fmt.Errorf("imgconv: decoding %s: %w", name, err)
		}
		return img, "jpeg2000", nil
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imgconv: decoding %s: %w", name, err)
	}
	return img, format, nil
}

// DecodeFile opens and decodes the named image file.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return Decode(bufio.NewReader(f), path)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatQOI:
		return qoi.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// EncodeFile writes img to path, choosing the format from its extension.
func EncodeFile(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, format); err != nil {
		return err
	}
	return bw.Flush()
}

// Classify maps a decoded image onto the sample kind that holds it without
// loss. 8-bit gray becomes Gray; non-premultiplied images become GrayAlpha
// when every pixel is neutral and RGBA otherwise; RGBA, YCbCr and paletted
// images become RGB when opaque and RGBA otherwise. Anything else, such as
// 16-bit or CMYK images, is rejected.
func Classify(img image.Image) (pixel.Kind, error) {
	switch m := img.(type) {
	case *image.Gray:
		return pixel.KindGray, nil
	case *image.NRGBA:
		if neutral(m) {
			return pixel.KindGrayAlpha, nil
		}
		return pixel.KindRGBA, nil
	case *image.RGBA:
		return opaqueKind(m.Opaque()), nil
	case *image.YCbCr:
		return pixel.KindRGB, nil
	case *image.Paletted:
		return opaqueKind(m.Opaque()), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedSampleType, img)
	}
}

func opaqueKind(opaque bool) pixel.Kind {
	if opaque {
		return pixel.KindRGB
	}
	return pixel.KindRGBA
}

func neutral(m *image.NRGBA) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			r, g, bl := m.Pix[i], m.Pix[i+1], m.Pix[i+2]
			if r != g || g != bl {
				return false
			}
		}
	}
	return true
}

// ToBuffer copies img into a new buffer of sample type P. The buffer's
// origin is the image's top-left corner.
func ToBuffer[P pixel.Sample[P]](img image.Image) *pixel.Buffer[P] {
	b := img.Bounds()
	buf := pixel.NewBuffer[P](b.Dx(), b.Dy())
	var zero P
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.SetPixel(x-b.Min.X, y-b.Min.Y, zero.FromColor(img.At(x, y)))
		}
	}
	return buf
}

// ToImage copies buf into the standard library image type matching its
// sample kind.
func ToImage[P pixel.Sample[P]](buf *pixel.Buffer[P]) image.Image {
	r := image.Rect(0, 0, buf.Width, buf.Height)
	var dst draw.Image
	switch buf.Kind() {
	case pixel.KindGray:
		dst = image.NewGray(r)
	case pixel.KindRGB:
		dst = image.NewRGBA(r)
	default:
		dst = image.NewNRGBA(r)
	}
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			dst.Set(x, y, buf.Pixel(x, y).Color())
		}
	}
	return dst
}

// Downscale shrinks img by an integer factor with nearest-neighbor
// sampling. Each side keeps at least one pixel. A factor of 0 or 1, or an
// empty image, returns img unchanged.
func Downscale(img image.Image, factor uint) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	w := uint(b.Dx()) / factor
	h := uint(b.Dy()) / factor
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return resize.Resize(w, h, img, resize.NearestNeighbor)
}

// Grayscale converts img to 8-bit luminance.
func Grayscale(img image.Image) *image.Gray {
	g := gift.New(gift.Grayscale())
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
