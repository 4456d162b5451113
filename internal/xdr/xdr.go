// Package xdr provides little-endian binary encoding and decoding utilities
// for reading and writing zimg container streams.
//
// Every multi-byte value in a container is an unsigned 32-bit little-endian
// integer. Coordinates travel as (x, y) pairs of such integers. This package
// provides stream readers and writers for those primitives.
package xdr

import (
	"encoding/binary"
	"io"
)

// ByteOrder is the byte order used by zimg containers.
var ByteOrder = binary.LittleEndian

// Uint32Size is the encoded size of one container integer.
const Uint32Size = 4

// PairSize is the encoded size of one (x, y) coordinate pair.
const PairSize = 2 * Uint32Size

// StreamReader wraps an io.Reader for little-endian binary reading.
// It holds no buffering of its own, so reads may be interleaved with
// other consumers of the same underlying reader.
type StreamReader struct {
	r   io.Reader
	buf [8]byte
	n   int64
}

// NewStreamReader creates a StreamReader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// Consumed returns the number of bytes read through this reader.
func (r *StreamReader) Consumed() int64 {
	return r.n
}

// Read implements io.Reader so that sample decoders can share the stream.
func (r *StreamReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}

// ReadUint32 reads an unsigned 32-bit integer in little-endian order.
func (r *StreamReader) ReadUint32() (uint32, error) {
	n, err := io.ReadFull(r.r, r.buf[:4])
	r.n += int64(n)
	if err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(r.buf[:4]), nil
}

// ReadPair reads an (x, y) coordinate pair.
func (r *StreamReader) ReadPair() (x, y uint32, err error) {
	n, err := io.ReadFull(r.r, r.buf[:8])
	r.n += int64(n)
	if err != nil {
		return 0, 0, err
	}
	return ByteOrder.Uint32(r.buf[:4]), ByteOrder.Uint32(r.buf[4:8]), nil
}

// StreamWriter wraps an io.Writer for little-endian binary writing.
//
// The first write error is latched: later writes become no-ops and the
// error is reported by Err. This lets encoders emit a whole record and
// check once.
type StreamWriter struct {
	w   io.Writer
	buf [8]byte
	n   int64
	err error
}

// NewStreamWriter creates a StreamWriter from an io.Writer.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Err returns the first error encountered by the writer.
func (w *StreamWriter) Err() error {
	return w.err
}

// Written returns the number of bytes successfully written.
func (w *StreamWriter) Written() int64 {
	return w.n
}

func (w *StreamWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	w.err = err
}

// Write implements io.Writer. After a failure it keeps returning the
// latched error without writing.
func (w *StreamWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	before := w.n
	w.write(p)
	return int(w.n - before), w.err
}

// WriteUint32 writes an unsigned 32-bit integer in little-endian order.
func (w *StreamWriter) WriteUint32(v uint32) error {
	ByteOrder.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
	return w.err
}

// WritePair writes an (x, y) coordinate pair.
func (w *StreamWriter) WritePair(x, y uint32) error {
	ByteOrder.PutUint32(w.buf[:4], x)
	ByteOrder.PutUint32(w.buf[4:8], y)
	w.write(w.buf[:8])
	return w.err
}
