package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

func zstdLevel(level CompressionLevel) zstd.EncoderLevel {
	if level <= 0 {
		return zstd.SpeedDefault
	}
	return zstd.EncoderLevelFromZstd(int(level))
}

func newZstdWriter(w io.Writer, level CompressionLevel) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstdLevel(level)))
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

// ZstdCompress packs src with zstd at the default level.
func ZstdCompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := newZstdWriter(&buf, CompressionLevelDefault)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(src); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZstdDecompress unpacks zstd data of unknown decompressed size.
func ZstdDecompress(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	dst, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, ErrCorrupted
	}
	return dst, nil
}
