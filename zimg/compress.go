package zimg

import (
	"github.com/mrjoshuak/go-zimg/pixel"
)

// CompressStats summarizes one run of the block search.
type CompressStats struct {
	Cells    int // grid cells examined
	Zipped   int // cells represented by a schema
	Unzipped int // cells stored as residual dots, including pruned cells
	Pruned   int // cells skipped because a schema source lies inside them
	Schemas  int // distinct small regions used as sources
}

// Compress compresses buf with DefaultPolicy.
func Compress[P pixel.Sample[P]](buf *pixel.Buffer[P]) *ZImage[P] {
	z, _, err := CompressWithPolicy(buf, DefaultPolicy())
	if err != nil {
		// DefaultPolicy always validates.
		panic(err)
	}
	return z
}

// CompressWithPolicy compresses buf using the given policy and reports
// statistics about the search.
//
// Only the aligned grid of floor(W/BigWH) x floor(H/BigWH) cells is
// processed; trailing rows and columns are never referenced.
func CompressWithPolicy[P pixel.Sample[P]](buf *pixel.Buffer[P], policy Policy) (*ZImage[P], CompressStats, error) {
	if err := policy.Validate(); err != nil {
		return nil, CompressStats{}, err
	}

	c := &compressor[P]{
		buf:    buf,
		policy: policy,
		width:  uint32(buf.Width),
		height: uint32(buf.Height),
		index:  make(map[Point]int),
	}
	c.scan()

	z := &ZImage[P]{
		Width:   c.width,
		Height:  c.height,
		Schemas: c.schemas,
		Dots:    c.residuals(),
	}
	c.stats.Schemas = len(c.schemas)
	return z, c.stats, nil
}

type compressor[P pixel.Sample[P]] struct {
	buf    *pixel.Buffer[P]
	policy Policy
	width  uint32
	height uint32

	schemas  []Schema
	index    map[Point]int // small origin -> position in schemas
	unzipped []Rect
	stats    CompressStats
}

// scan walks the big grid column by column.
func (c *compressor[P]) scan() {
	big := c.policy.BigWH
	for gx := uint32(0); gx < c.width/big; gx++ {
		for gy := uint32(0); gy < c.height/big; gy++ {
			cell := Rect{X: gx * big, Y: gy * big, W: big, H: big}
			c.stats.Cells++

			if c.pruned(cell) {
				c.stats.Pruned++
				c.unzip(cell)
				continue
			}
			if c.match(cell) {
				c.stats.Zipped++
				continue
			}
			c.unzip(cell)
		}
	}
}

func (c *compressor[P]) unzip(cell Rect) {
	c.stats.Unzipped++
	c.unzipped = append(c.unzipped, cell)
}

// pruned reports whether an existing schema's source region starts inside
// cell and ends strictly before the cell's far edges.
func (c *compressor[P]) pruned(cell Rect) bool {
	cellX1 := uint64(cell.X) + uint64(cell.W)
	cellY1 := uint64(cell.Y) + uint64(cell.H)
	for i := range c.schemas {
		s := &c.schemas[i]
		if s.SmallX >= cell.X && uint64(s.SmallX)+uint64(s.SmallWH) < cellX1 &&
			s.SmallY >= cell.Y && uint64(s.SmallY)+uint64(s.SmallWH) < cellY1 {
			return true
		}
	}
	return false
}

// match tries the candidate small regions against cell and records the
// first one that is alike.
func (c *compressor[P]) match(cell Rect) bool {
	small := c.policy.SmallWH
	scale := c.policy.Scale()

	// Positions past the image edge can never fit, so the scan starts at
	// the last one that might.
	maxX := min(c.policy.Candidates, c.width/small)
	maxY := min(c.policy.Candidates, c.height/small)
	for sx := maxX; sx > 0; sx-- {
		for sy := maxY; sy > 0; sy-- {
			src := Rect{X: (sx - 1) * small, Y: (sy - 1) * small, W: small, H: small}
			if cell.Contains(src.X, src.Y) || !src.Within(c.width, c.height) {
				continue
			}
			if !IsLike(c.buf, src, cell, scale, c.policy.Epsilon) {
				continue
			}
			c.record(Point{X: src.X, Y: src.Y}, Point{X: cell.X, Y: cell.Y})
			return true
		}
	}
	return false
}

func (c *compressor[P]) record(origin, big Point) {
	if i, ok := c.index[origin]; ok {
		c.schemas[i].Bigs = append(c.schemas[i].Bigs, big)
		return
	}
	c.index[origin] = len(c.schemas)
	c.schemas = append(c.schemas, Schema{
		SmallX:  origin.X,
		SmallY:  origin.Y,
		SmallWH: c.policy.SmallWH,
		BigWH:   c.policy.BigWH,
		Bigs:    []Point{big},
	})
}

// residuals emits every pixel of every unzipped cell, x outer and y inner,
// in the order the cells were produced.
func (c *compressor[P]) residuals() []Dot[P] {
	side := int(c.policy.BigWH)
	dots := make([]Dot[P], 0, len(c.unzipped)*side*side)
	for _, r := range c.unzipped {
		for x := r.X; x < r.X+r.W; x++ {
			for y := r.Y; y < r.Y+r.H; y++ {
				dots = append(dots, Dot[P]{X: x, Y: y, Sample: c.buf.Pixel(int(x), int(y))})
			}
		}
	}
	return dots
}

// IsLike reports whether the region big resembles small scaled up by n.
//
// Every small pixel p is compared against the n x n block of big pixels it
// would generate; the regions are alike iff p.Delta(q) <= eps for every
// such q. The test is one-sided: big pixels brighter than small ones
// always pass.
func IsLike[P pixel.Sample[P]](buf *pixel.Buffer[P], small, big Rect, n uint32, eps float32) bool {
	for dx := uint32(0); dx < small.W; dx++ {
		bx := big.X + dx*n
		for dy := uint32(0); dy < small.H; dy++ {
			by := big.Y + dy*n
			p := buf.Pixel(int(small.X+dx), int(small.Y+dy))
			for nx := uint32(0); nx < n; nx++ {
				for ny := uint32(0); ny < n; ny++ {
					if p.Delta(buf.Pixel(int(bx+nx), int(by+ny))) > eps {
						return false
					}
				}
			}
		}
	}
	return true
}
