package zimg_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-zimg/compression"
	"github.com/mrjoshuak/go-zimg/pixel"
	"github.com/mrjoshuak/go-zimg/zimg"
)

// sampleBuffer returns a 12x6 image whose left cell is white and whose
// right cell is dark.
func sampleBuffer() *pixel.Buffer[pixel.RGB] {
	buf := pixel.NewBuffer[pixel.RGB](12, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			p := pixel.RGB{R: 255, G: 255, B: 255}
			if x >= 6 {
				p = pixel.RGB{R: uint8(x * 3), G: uint8(y * 5), B: 10}
			}
			buf.SetPixel(x, y, p)
		}
	}
	return buf
}

// Example_compress compresses an image and reconstructs it.
func Example_compress() {
	z := zimg.Compress(sampleBuffer())

	for _, s := range z.Schemas {
		fmt.Printf("source %v generates %d region(s)\n", s.Small(), len(s.Bigs))
	}
	fmt.Println("residual dots:", len(z.Dots))

	out := zimg.Decompress(z)
	fmt.Println("pixel (0,0):", out.Pixel(0, 0))
	// Output:
	// source 3x3@(6,3) generates 1 region(s)
	// residual dots: 36
	// pixel (0,0): {18 15 10}
}

// Example_policy compresses with custom search parameters.
func Example_policy() {
	policy := zimg.DefaultPolicy()
	policy.Candidates = 4

	_, stats, err := zimg.CompressWithPolicy(sampleBuffer(), policy)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("cells=%d zipped=%d unzipped=%d\n", stats.Cells, stats.Zipped, stats.Unzipped)
	// Output:
	// cells=2 zipped=1 unzipped=1
}

// Example_container saves a compressed image and loads it back.
func Example_container() {
	z := zimg.Compress(sampleBuffer())

	dir, err := os.MkdirTemp("", "zimg-example")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "image.zimg")
	if err := z.Save(path); err != nil {
		fmt.Println("Error saving:", err)
		return
	}

	// The container does not record the sample type; load with the same one.
	loaded, err := zimg.Load[pixel.RGB](path)
	if err != nil {
		fmt.Println("Error loading:", err)
		return
	}
	fmt.Println("equal:", zimg.Equal(z, loaded))
	fmt.Println("bytes:", z.EncodedSize())
	// Output:
	// equal: true
	// bytes: 440
}

// Example_packed wraps the container in zstd.
func Example_packed() {
	z := zimg.Compress(sampleBuffer())

	var buf bytes.Buffer
	if err := zimg.EncodePacked(&buf, z, compression.MethodZstd); err != nil {
		fmt.Println("Error:", err)
		return
	}

	back, err := zimg.DecodePacked[pixel.RGB](&buf, compression.MethodZstd)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("equal:", zimg.Equal(z, back))
	// Output:
	// equal: true
}
