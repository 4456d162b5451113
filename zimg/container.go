package zimg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/noxer/bytewriter"

	"github.com/mrjoshuak/go-zimg/internal/xdr"
	"github.com/mrjoshuak/go-zimg/pixel"
)

// Container layout (all integers little-endian uint32):
//
//	width, height, schema_count, dot_count
//	schema_count x { small_x, small_y, small_wh, big_wh, bigs_len, bigs_len x {x, y} }
//	dot_count    x { x, y, C sample bytes }
const (
	headerSize       = 4 * xdr.Uint32Size
	schemaHeaderSize = 5 * xdr.Uint32Size
)

// maxPrealloc bounds the capacity reserved from counts read off the wire;
// a corrupt count then fails on a short read instead of a huge allocation.
const maxPrealloc = 1 << 16

// ErrTooLarge is returned by Encode when a count does not fit the
// container's 32-bit fields.
var ErrTooLarge = errors.New("zimg: image too large for container")

// EncodedSize returns the exact number of bytes Encode writes for z.
func (z *ZImage[P]) EncodedSize() int64 {
	var zero P
	size := int64(headerSize)
	for i := range z.Schemas {
		size += schemaHeaderSize + int64(len(z.Schemas[i].Bigs))*xdr.PairSize
	}
	size += int64(len(z.Dots)) * int64(xdr.PairSize+zero.Channels())
	return size
}

// Encode writes z to w in container format. Errors from w are returned
// unchanged.
func Encode[P pixel.Sample[P]](w io.Writer, z *ZImage[P]) error {
	if uint64(len(z.Schemas)) > math.MaxUint32 || uint64(len(z.Dots)) > math.MaxUint32 {
		return ErrTooLarge
	}

	sw := xdr.NewStreamWriter(w)
	sw.WriteUint32(z.Width)
	sw.WriteUint32(z.Height)
	sw.WriteUint32(uint32(len(z.Schemas)))
	sw.WriteUint32(uint32(len(z.Dots)))

	for i := range z.Schemas {
		s := &z.Schemas[i]
		if uint64(len(s.Bigs)) > math.MaxUint32 {
			return ErrTooLarge
		}
		sw.WriteUint32(s.SmallX)
		sw.WriteUint32(s.SmallY)
		sw.WriteUint32(s.SmallWH)
		sw.WriteUint32(s.BigWH)
		sw.WriteUint32(uint32(len(s.Bigs)))
		for _, b := range s.Bigs {
			sw.WritePair(b.X, b.Y)
		}
		if err := sw.Err(); err != nil {
			return err
		}
	}

	for _, d := range z.Dots {
		sw.WritePair(d.X, d.Y)
		if err := pixel.WriteOne(sw, d.Sample); err != nil {
			return err
		}
	}
	return sw.Err()
}

// Decode reads a container written for sample type P from r and validates
// it. A stream that ends early yields io.ErrUnexpectedEOF (io.EOF if r was
// empty); coordinates outside the image yield an error wrapping
// ErrOutOfBounds.
//
// The container does not record the sample kind. Decoding with a P other
// than the one used to encode either fails or silently misreads dots.
func Decode[P pixel.Sample[P]](r io.Reader) (*ZImage[P], error) {
	sr := xdr.NewStreamReader(r)
	z, err := decode[P](sr)
	if err != nil {
		if err == io.EOF && sr.Consumed() > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if err := z.Validate(); err != nil {
		return nil, fmt.Errorf("zimg: invalid container: %w", err)
	}
	return z, nil
}

func decode[P pixel.Sample[P]](sr *xdr.StreamReader) (*ZImage[P], error) {
	z := &ZImage[P]{}
	var err error
	if z.Width, err = sr.ReadUint32(); err != nil {
		return nil, err
	}
	if z.Height, err = sr.ReadUint32(); err != nil {
		return nil, err
	}
	schemaCount, err := sr.ReadUint32()
	if err != nil {
		return nil, err
	}
	dotCount, err := sr.ReadUint32()
	if err != nil {
		return nil, err
	}

	z.Schemas = make([]Schema, 0, prealloc(schemaCount))
	for i := uint32(0); i < schemaCount; i++ {
		s, err := decodeSchema(sr)
		if err != nil {
			return nil, err
		}
		z.Schemas = append(z.Schemas, s)
	}

	z.Dots = make([]Dot[P], 0, prealloc(dotCount))
	for i := uint32(0); i < dotCount; i++ {
		x, y, err := sr.ReadPair()
		if err != nil {
			return nil, err
		}
		sample, err := pixel.ReadOne[P](sr)
		if err != nil {
			return nil, err
		}
		z.Dots = append(z.Dots, Dot[P]{X: x, Y: y, Sample: sample})
	}
	return z, nil
}

func decodeSchema(sr *xdr.StreamReader) (Schema, error) {
	var s Schema
	var fields [5]uint32
	for i := range fields {
		v, err := sr.ReadUint32()
		if err != nil {
			return s, err
		}
		fields[i] = v
	}
	s.SmallX, s.SmallY, s.SmallWH, s.BigWH = fields[0], fields[1], fields[2], fields[3]

	count := fields[4]
	s.Bigs = make([]Point, 0, prealloc(count))
	for i := uint32(0); i < count; i++ {
		x, y, err := sr.ReadPair()
		if err != nil {
			return s, err
		}
		s.Bigs = append(s.Bigs, Point{X: x, Y: y})
	}
	return s, nil
}

func prealloc(n uint32) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (z *ZImage[P]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, z.EncodedSize())
	if err := Encode(bytewriter.New(buf), z); err != nil {
		return nil, err
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Trailing bytes
// after the last dot are rejected.
func (z *ZImage[P]) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	decoded, err := Decode[P](r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("zimg: %d trailing bytes after container", r.Len())
	}
	*z = *decoded
	return nil
}

// Save writes z to the named file, creating or truncating it.
func (z *ZImage[P]) Save(path string) (err error) {
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
	if err := Encode(bw, z); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a container for sample type P from the named file.
func Load[P pixel.Sample[P]](path string) (*ZImage[P], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode[P](bufio.NewReader(f))
}
