package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/go-zimg/imgconv"
	"github.com/mrjoshuak/go-zimg/pixel"
	"github.com/mrjoshuak/go-zimg/zimg"
)

// writeInput writes a 12x6 PNG whose left cell is white and whose right
// cell is dark, so one schema zips the left cell.
func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 12, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 6 {
				c = color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 10, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "input.png")
	require.NoError(t, imgconv.EncodeFile(path, img))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"zimg"}, args...))
	return out.String(), err
}

func TestRoundTripCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	_, err := run(t, "--out", out, in)
	require.NoError(t, err)

	img, _, err := imgconv.DecodeFile(out)
	require.NoError(t, err)
	got := imgconv.ToBuffer[pixel.RGB](img)
	src, _, err := imgconv.DecodeFile(in)
	require.NoError(t, err)
	want := imgconv.ToBuffer[pixel.RGB](src)

	require.Equal(t, 12, got.Width)
	require.Equal(t, 6, got.Height)
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			w := want.Pixel(x, y)
			if x < 6 {
				w = want.Pixel(6+x/2, 3+y/2)
			}
			assert.Equal(t, w, got.Pixel(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRoundTripCommandQOIAndPreprocessing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.qoi")

	_, err := run(t, "--out", out, "--gray", "--scale", "2", "--verbose", in)
	require.NoError(t, err)

	img, format, err := imgconv.DecodeFile(out)
	require.NoError(t, err)
	assert.Equal(t, "qoi", format)
	assert.Equal(t, image.Rect(0, 0, 6, 3), img.Bounds())
}

func TestEncodeInspectDecode(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	container := filepath.Join(dir, "image.zimg")
	report := filepath.Join(dir, "schemas.csv")

	packings := map[string]string{
		"none": "none",
		"zlib": "zlib (default level)",
		"zstd": "zstd",
	}
	for _, pack := range []string{"none", "zlib", "zstd"} {
		t.Run(pack, func(t *testing.T) {
			stdout, err := run(t, "encode", "--container", container, "--pack", pack, "--report", report, in)
			require.NoError(t, err)
			assert.Equal(t, "rgb\n", stdout)

			csv, err := os.ReadFile(report)
			require.NoError(t, err)
			assert.Equal(t, "index,small_x,small_y,small_wh,big_wh,bigs,big_origins\n0,6,3,3,6,1,0:0\n", string(csv))

			stdout, err = run(t, "inspect", "--kind", "rgb", "--pack", pack, container)
			require.NoError(t, err)
			assert.Contains(t, stdout, "size:         12x6\n")
			assert.Contains(t, stdout, "schemas:      1\n")
			assert.Contains(t, stdout, "dots:         36\n")
			assert.Contains(t, stdout, "packing:      "+packings[pack]+"\n")
			info, err := os.Stat(container)
			require.NoError(t, err)
			assert.Contains(t, stdout, fmt.Sprintf("file size:    %d bytes\n", info.Size()))

			out := filepath.Join(dir, "decoded.png")
			_, err = run(t, "decode", "--kind", "rgb", "--pack", pack, "--out", out, container)
			require.NoError(t, err)

			decoded, _, err := imgconv.DecodeFile(out)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 12, 6), decoded.Bounds())
		})
	}
}

func TestEncodeGrayPrintsKind(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	container := filepath.Join(dir, "gray.zimg")

	stdout, err := run(t, "encode", "--gray", "--container", container, in)
	require.NoError(t, err)
	assert.Equal(t, "gray\n", stdout)

	info, err := os.Stat(container)
	require.NoError(t, err)
	// Gray dots take one sample byte each.
	assert.Equal(t, int64(16+20+8+36*(8+1)), info.Size())
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	container := filepath.Join(dir, "image.zimg")
	_, err := run(t, "encode", "--container", container, in)
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", nil, "expected one input image"},
		{"missing input", []string{filepath.Join(dir, "missing.png")}, "missing.png"},
		{"bad policy", []string{"--big", "7", "--out", filepath.Join(dir, "x.png"), in}, "invalid compression policy"},
		{"bad output", []string{"--out", filepath.Join(dir, "x.bmp"), in}, "unknown image format"},
		{"bad kind", []string{"inspect", "--kind", "cmyk", container}, "unknown sample kind"},
		{"bad pack", []string{"inspect", "--kind", "rgb", "--pack", "lzma", container}, "unknown"},
		{"wrong pack", []string{"inspect", "--kind", "rgb", "--pack", "zlib", container}, "image.zimg"},
		{"missing kind", []string{"inspect", container}, "kind"},
		{"nan epsilon", []string{"--epsilon", "NaN", "--out", filepath.Join(dir, "x.png"), in}, "epsilon is NaN"},
		{"candidates overflow", []string{"--candidates", "4294967296", "--out", filepath.Join(dir, "x.png"), in}, "--candidates 4294967296 is out of range"},
		{"candidate range", []string{"encode", "--candidates", "2147483648", "--container", container, in}, "exceed the coordinate range"},
		{"small overflow", []string{"encode", "--small", "4294967299", "--container", container, in}, "--small 4294967299 is out of range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.want), "error %q does not mention %q", err, tc.want)
		})
	}
}

func TestDecodeRefusesOversizedContainer(t *testing.T) {
	dir := t.TempDir()
	container := filepath.Join(dir, "huge.zimg")
	huge := &zimg.ZImage[pixel.RGB]{Width: 1 << 20, Height: 1 << 20}
	require.NoError(t, huge.Save(container))
	out := filepath.Join(dir, "huge.png")

	_, err := run(t, "decode", "--kind", "rgb", "--out", out, container)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "over the limit of 1073741824")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "decode wrote %s", out)

	// A lower limit also applies to small containers.
	in := writeInput(t, dir)
	small := filepath.Join(dir, "small.zimg")
	_, err = run(t, "encode", "--container", small, in)
	require.NoError(t, err)
	_, err = run(t, "decode", "--kind", "rgb", "--max-size", "215", "--out", out, small)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12x6 image needs 216 bytes")

	_, err = run(t, "decode", "--kind", "rgb", "--max-size", "216", "--out", out, small)
	require.NoError(t, err)
}
