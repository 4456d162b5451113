package compression

import (
	"bytes"
	"io"
	"testing"
)

func TestZlibRoundTrip(t *testing.T) {
	tests := [][]byte{
		{},
		{1},
		{1, 2},
		{1, 2, 3, 4, 5},
		{100, 100, 100, 100, 100, 100, 100, 100},
		{1, 2, 3, 3, 3, 3, 4, 5, 6},
		{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3},
	}

	for i, original := range tests {
		compressed, err := ZlibCompress(original)
		if err != nil {
			t.Errorf("test %d: compress error: %v", i, err)
			continue
		}

		decompressed, err := ZlibDecompress(compressed)
		if err != nil {
			t.Errorf("test %d: decompress error: %v", i, err)
			continue
		}
		if !bytes.Equal(decompressed, original) {
			t.Errorf("test %d: round-trip failed:\ngot  %v\nwant %v", i, decompressed, original)
		}
	}
}

func TestZlibRoundTripLarge(t *testing.T) {
	// Container-like data: runs of small integers and sample bytes.
	data := make([]byte, 4096)
	for i := range data {
		if i%100 < 30 {
			data[i] = 0
		} else {
			data[i] = byte(i * 17)
		}
	}

	compressed, err := ZlibCompress(data)
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("compressed size %d not smaller than %d", len(compressed), len(data))
	}

	decompressed, err := ZlibDecompress(compressed)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("Large round-trip failed")
	}
}

func TestZlibDecompressCorrupted(t *testing.T) {
	corrupted := [][]byte{
		nil,
		{0x78},
		{0x00, 0x00, 0x00},
		{0x78, 0x9c, 0xff, 0xff, 0xff},
	}
	for i, src := range corrupted {
		if _, err := ZlibDecompress(src); err != ErrCorrupted {
			t.Errorf("test %d: error = %v, want ErrCorrupted", i, err)
		}
	}
}

func TestDetectZlibFLevel(t *testing.T) {
	compressed, err := ZlibCompress([]byte("zimg zimg zimg zimg"))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	level, ok := DetectZlibFLevel(compressed)
	if !ok {
		t.Fatal("DetectZlibFLevel() failed on valid data")
	}
	if level != FLevelDefault {
		t.Errorf("DetectZlibFLevel() = %d, want %d", level, FLevelDefault)
	}

	if _, ok := DetectZlibFLevel([]byte{0x78}); ok {
		t.Error("DetectZlibFLevel() accepted a 1-byte header")
	}
}

func TestZlibStreamLevels(t *testing.T) {
	data := bytes.Repeat([]byte{6, 0, 0, 0, 3, 0, 0, 0}, 256)
	levels := []CompressionLevel{
		CompressionLevelHuffmanOnly,
		CompressionLevelDefault,
		CompressionLevelNone,
		CompressionLevelBestSpeed,
		CompressionLevelBestSize,
	}

	for _, level := range levels {
		var packed bytes.Buffer
		w, err := NewWriterLevel(&packed, MethodZlib, level)
		if err != nil {
			t.Fatalf("level %d: NewWriterLevel error: %v", level, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("level %d: Write error: %v", level, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("level %d: Close error: %v", level, err)
		}

		r, err := NewReader(&packed, MethodZlib)
		if err != nil {
			t.Fatalf("level %d: NewReader error: %v", level, err)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("level %d: ReadAll error: %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("level %d: stream round-trip mismatch", level)
		}
	}
}

func TestFLevelString(t *testing.T) {
	tests := []struct {
		level FLevel
		want  string
	}{
		{FLevelFastest, "fastest"},
		{FLevelFast, "fast"},
		{FLevelDefault, "default"},
		{FLevelBest, "best"},
		{FLevel(7), "flevel(7)"},
	}
	for _, tc := range tests {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("FLevel(%d).String() = %q, want %q", int(tc.level), got, tc.want)
		}
	}
}
