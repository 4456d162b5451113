package zimg

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/go-zimg/compression"
	"github.com/mrjoshuak/go-zimg/pixel"
)

// EncodePacked writes the raw container for z through the given outer
// packing method. MethodNone produces exactly the output of Encode.
func EncodePacked[P pixel.Sample[P]](w io.Writer, z *ZImage[P], m compression.Method) error {
	pw, err := compression.NewWriter(w, m)
	if err != nil {
		return err
	}
	if err := Encode(pw, z); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

// DecodePacked reads a container packed with method m.
func DecodePacked[P pixel.Sample[P]](r io.Reader, m compression.Method) (*ZImage[P], error) {
	pr, err := compression.NewReader(r, m)
	if err != nil {
		return nil, fmt.Errorf("zimg: opening %v stream: %w", m, err)
	}
	defer pr.Close()

	return Decode[P](pr)
}

// SavePacked writes z to the named file through the given packing method.
func (z *ZImage[P]) SavePacked(path string, m compression.Method) (err error) {
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
	if err := EncodePacked(bw, z, m); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadPacked reads a container packed with method m from the named file.
func LoadPacked[P pixel.Sample[P]](path string, m compression.Method) (*ZImage[P], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodePacked[P](bufio.NewReader(f), m)
}

// MarshalPacked returns the raw container for z packed with method m.
func (z *ZImage[P]) MarshalPacked(m compression.Method) ([]byte, error) {
	raw, err := z.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return compression.Compress(raw, m)
}

// UnmarshalPacked replaces z with the container packed in data with
// method m. Trailing bytes after the unpacked container are rejected.
func (z *ZImage[P]) UnmarshalPacked(data []byte, m compression.Method) error {
	raw, err := compression.Decompress(data, m)
	if err != nil {
		return fmt.Errorf("zimg: unpacking %v container: %w", m, err)
	}
	return z.UnmarshalBinary(raw)
}
