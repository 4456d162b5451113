// Package compression provides optional outer packing for zimg container
// streams.
//
// The raw container format is never altered: a packed file is simply the
// raw container passed through zlib or zstd. The packing method is not
// recorded in the output, so the reader has to be told which one was used.
package compression

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnknownMethod is returned for unsupported packing methods.
	ErrUnknownMethod = errors.New("compression: unknown method")

	// ErrCorrupted is returned when packed data cannot be unpacked.
	ErrCorrupted = errors.New("compression: corrupted data")
)

// Method selects the outer packing of a container stream.
type Method uint8

// Packing methods.
const (
	MethodNone Method = iota
	MethodZlib
	MethodZstd
)

// String returns the name of the method.
func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodZlib:
		return "zlib"
	case MethodZstd:
		return "zstd"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// ParseMethod parses a method name. The empty string selects MethodNone.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "raw":
		return MethodNone, nil
	case "zlib", "zip":
		return MethodZlib, nil
	case "zstd", "zst":
		return MethodZstd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// CompressionLevel is a method-specific effort level. Zlib accepts -2 to 9;
// zstd maps positive values onto its speed presets.
type CompressionLevel int

// Standard compression levels
const (
	CompressionLevelHuffmanOnly CompressionLevel = -2 // Huffman-only (zlib only)
	CompressionLevelDefault     CompressionLevel = -1 // Default for the method
	CompressionLevelNone        CompressionLevel = 0  // Store (zlib only)
	CompressionLevelBestSpeed   CompressionLevel = 1  // Best speed
	CompressionLevelBestSize    CompressionLevel = 9  // Best compression
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer that packs everything written to it into w
// using the default level. Close must be called to flush the packed
// stream; it does not close w.
func NewWriter(w io.Writer, m Method) (io.WriteCloser, error) {
	return NewWriterLevel(w, m, CompressionLevelDefault)
}

// NewWriterLevel is like NewWriter with an explicit level.
func NewWriterLevel(w io.Writer, m Method, level CompressionLevel) (io.WriteCloser, error) {
	switch m {
	case MethodNone:
		return nopWriteCloser{w}, nil
	case MethodZlib:
		return newZlibWriter(w, level)
	case MethodZstd:
		return newZstdWriter(w, level)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// NewReader returns a reader that unpacks r. Closing it releases decoder
// resources but does not close r.
func NewReader(r io.Reader, m Method) (io.ReadCloser, error) {
	switch m {
	case MethodNone:
		return io.NopCloser(r), nil
	case MethodZlib:
		return newZlibReader(r)
	case MethodZstd:
		return newZstdReader(r)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// Compress packs src in one call.
func Compress(src []byte, m Method) ([]byte, error) {
	switch m {
	case MethodNone:
		return append([]byte(nil), src...), nil
	case MethodZlib:
		return ZlibCompress(src)
	case MethodZstd:
		return ZstdCompress(src)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// Decompress unpacks src in one call.
func Decompress(src []byte, m Method) ([]byte, error) {
	switch m {
	case MethodNone:
		return append([]byte(nil), src...), nil
	case MethodZlib:
		return ZlibDecompress(src)
	case MethodZstd:
		return ZstdDecompress(src)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}
