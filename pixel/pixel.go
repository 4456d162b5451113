// Package pixel provides the 8-bit sample types handled by zimg and a
// generic two-dimensional buffer of them.
//
// Four sample kinds are supported: Gray (1 channel), GrayAlpha (2), RGB (3)
// and RGBA (4). Each channel is an unsigned byte. All four types satisfy
// the Sample constraint, which is the capability set the compressor is
// parameterized over: a signed dissimilarity measure (Delta), the channel
// layout, and byte-exact serialization in channel order.
package pixel

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
)

var (
	// ErrUnknownKind is returned by ParseKind for unrecognized names.
	ErrUnknownKind = errors.New("pixel: unknown sample kind")
)

// Kind identifies one of the four sample layouts.
type Kind uint8

// Sample kinds.
const (
	KindGray      Kind = 1
	KindGrayAlpha Kind = 2
	KindRGB       Kind = 3
	KindRGBA      Kind = 4
)

// Channels returns the number of 8-bit channels of the kind.
func (k Kind) Channels() int {
	switch k {
	case KindGray, KindGrayAlpha, KindRGB, KindRGBA:
		return int(k)
	default:
		return 0
	}
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGray:
		return "gray"
	case KindGrayAlpha:
		return "grayalpha"
	case KindRGB:
		return "rgb"
	case KindRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses a kind name as produced by Kind.String.
// "ga" and "graya" are accepted as aliases of "grayalpha", "grey" of "gray".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gray", "grey", "luma":
		return KindGray, nil
	case "grayalpha", "greyalpha", "graya", "ga":
		return KindGrayAlpha, nil
	case "rgb":
		return KindRGB, nil
	case "rgba":
		return KindRGBA, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Sample is the capability set of a pixel sample type P.
//
// Implementations are small value types; the constraint is used as a type
// parameter so the comparison loops are specialized per sample type.
type Sample[P any] interface {
	comparable

	// Kind returns the sample layout.
	Kind() Kind

	// Channels returns the number of bytes in the serialized sample.
	Channels() int

	// Delta returns the sum of the signed per-channel differences
	// (self - other) divided by 255. No absolute value is taken.
	Delta(other P) float32

	// AppendBytes appends the channels of the sample to dst in channel order.
	AppendBytes(dst []byte) []byte

	// FromBytes builds a sample from the first Channels() bytes of b.
	FromBytes(b []byte) P

	// Color converts the sample to a standard library color.
	Color() color.Color

	// FromColor converts a standard library color to a sample.
	FromColor(c color.Color) P

	// Model returns the color model matching Color.
	Model() color.Model
}

// ReadOne reads exactly one sample of type P from r.
//
// It returns io.EOF if no bytes remain and io.ErrUnexpectedEOF if the
// stream ends part way through the sample.
func ReadOne[P Sample[P]](r io.Reader) (P, error) {
	var zero P
	var buf [4]byte
	b := buf[:zero.Channels()]
	if _, err := io.ReadFull(r, b); err != nil {
		return zero, err
	}
	return zero.FromBytes(b), nil
}

// WriteOne writes the channels of p to w in channel order.
func WriteOne[P Sample[P]](w io.Writer, p P) error {
	var buf [4]byte
	b := p.AppendBytes(buf[:0])
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return err
}

// KindOf returns the kind of the sample type P.
func KindOf[P Sample[P]]() Kind {
	var zero P
	return zero.Kind()
}
