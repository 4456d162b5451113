package compression

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// FLevel represents the compression level category from zlib header.
// This is a 2-bit field in the zlib header indicating the general
// compression level category, not the exact level.
type FLevel int

const (
	FLevelFastest FLevel = 0 // Fastest algorithm (levels -2, 0, 1)
	FLevelFast    FLevel = 1 // Fast algorithm (levels 2, 3, 4, 5)
	FLevelDefault FLevel = 2 // Default algorithm (levels 6, -1)
	FLevelBest    FLevel = 3 // Maximum compression (levels 7, 8, 9)
)

func (l FLevel) String() string {
	switch l {
	case FLevelFastest:
		return "fastest"
	case FLevelFast:
		return "fast"
	case FLevelDefault:
		return "default"
	case FLevelBest:
		return "best"
	default:
		return fmt.Sprintf("flevel(%d)", int(l))
	}
}

// DetectZlibFLevel extracts the FLEVEL from zlib compressed data.
// Returns the FLevel and true if successful, or 0 and false if the
// data is too short or has an invalid header.
func DetectZlibFLevel(data []byte) (FLevel, bool) {
	if len(data) < 2 {
		return 0, false
	}

	cmf := data[0]
	flg := data[1]

	// Compression method must be 8 (deflate).
	if cmf&0x0f != 8 {
		return 0, false
	}

	h := uint16(cmf)<<8 | uint16(flg)
	if h%31 != 0 {
		return 0, false
	}

	return FLevel((flg >> 6) & 0x03), true
}

// Pool for default-level zlib writers used by ZlibCompress.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

func newZlibWriter(w io.Writer, level CompressionLevel) (io.WriteCloser, error) {
	zw, err := zlib.NewWriterLevel(w, int(level))
	if err != nil {
		return nil, err
	}
	return zw, nil
}

func newZlibReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, ErrCorrupted
	}
	return zr, nil
}

// ZlibCompress packs src with zlib at the default level.
func ZlibCompress(src []byte) ([]byte, error) {
	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	defer zlibWriterPool.Put(item)

	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(src); err != nil {
		item.writer.Close()
		return nil, err
	}
	if err := item.writer.Close(); err != nil {
		return nil, err
	}

	result := make([]byte, item.buf.Len())
	copy(result, item.buf.Bytes())
	return result, nil
}

// ZlibDecompress unpacks zlib data of unknown decompressed size.
func ZlibDecompress(src []byte) ([]byte, error) {
	if _, ok := DetectZlibFLevel(src); !ok {
		return nil, ErrCorrupted
	}

	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, ErrCorrupted
	}
	defer zr.Close()

	dst, err := io.ReadAll(zr)
	if err != nil {
		return nil, ErrCorrupted
	}
	return dst, nil
}
