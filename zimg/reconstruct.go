package zimg

import (
	"math"

	"github.com/boljen/go-bitmap"

	"github.com/mrjoshuak/go-zimg/pixel"
)

// ReconstructStats counts, over every schema source pixel read during
// reconstruction, how many were stored literally as dots and how many were
// produced by another schema (or left at zero).
type ReconstructStats struct {
	FromResidual int
	Derived      int
}

// Decompress reconstructs an approximation of the original image.
//
// The result is a fresh zero-filled Width x Height buffer into which every
// dot is written, followed by every schema in reverse order of storage.
// Writes that fall outside the buffer are dropped, so Decompress never
// fails; use Validate to detect such images.
func Decompress[P pixel.Sample[P]](z *ZImage[P]) *pixel.Buffer[P] {
	buf, _ := DecompressWithStats(z)
	return buf
}

// DecompressWithStats is like Decompress and also reports where schema
// source pixels came from.
func DecompressWithStats[P pixel.Sample[P]](z *ZImage[P]) (*pixel.Buffer[P], ReconstructStats) {
	buf := pixel.NewBuffer[P](int(z.Width), int(z.Height))
	r := &reconstructor[P]{
		buf:      buf,
		residual: bitmap.New(len(buf.Pix)),
	}

	for _, d := range z.Dots {
		x, y := int(d.X), int(d.Y)
		if !buf.InBounds(x, y) {
			continue
		}
		buf.SetPixel(x, y, d.Sample)
		r.residual.Set(y*buf.Width+x, true)
	}

	for i := len(z.Schemas) - 1; i >= 0; i-- {
		r.paint(&z.Schemas[i])
	}
	return buf, r.stats
}

// DecompressedSize returns the number of sample bytes Decompress allocates
// for z, saturating at math.MaxUint64. Callers decoding untrusted
// containers should bound it before decompressing.
func (z *ZImage[P]) DecompressedSize() uint64 {
	var zero P
	pixels := uint64(z.Width) * uint64(z.Height)
	channels := uint64(zero.Channels())
	if pixels > math.MaxUint64/channels {
		return math.MaxUint64
	}
	return pixels * channels
}

type reconstructor[P pixel.Sample[P]] struct {
	buf      *pixel.Buffer[P]
	residual bitmap.Bitmap
	stats    ReconstructStats
}

// paint copies every small pixel of s onto a d x d block of each big region.
func (r *reconstructor[P]) paint(s *Schema) {
	d := int(s.Scale())
	if d == 0 {
		return
	}
	side := int(s.SmallWH)
	for x := 0; x < side; x++ {
		sx := int(s.SmallX) + x
		for y := 0; y < side; y++ {
			sy := int(s.SmallY) + y
			v := r.buf.Pixel(sx, sy)
			r.count(sx, sy)

			for dx := 0; dx < d; dx++ {
				for dy := 0; dy < d; dy++ {
					for _, big := range s.Bigs {
						r.buf.SetPixel(int(big.X)+x*d+dx, int(big.Y)+y*d+dy, v)
					}
				}
			}
		}
	}
}

func (r *reconstructor[P]) count(x, y int) {
	if r.buf.InBounds(x, y) && r.residual.Get(y*r.buf.Width+x) {
		r.stats.FromResidual++
		return
	}
	r.stats.Derived++
}
