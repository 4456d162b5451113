// Package zimg implements a lossy image compressor based on a coarse
// block self-similarity search.
//
// The image is divided into a grid of big square cells. For every cell the
// compressor looks for a small square region elsewhere in the image that,
// scaled up, resembles the cell. Matches are recorded as schemas ("region A
// is a scaled copy of region B"); cells without a match are kept verbatim as
// residual dots. Decompress paints the dots into a fresh buffer and then
// materializes the schemas in reverse order of storage.
//
// A compressed image is persisted with Encode / Save and restored with
// Decode / Load. The container layout is fixed, little-endian, and does not
// record the sample kind: the reader must use the same sample type P that
// produced the data.
package zimg

import (
	"errors"
	"fmt"
	"math"

	"github.com/mrjoshuak/go-zimg/pixel"
)

var (
	// ErrOutOfBounds is returned when a coordinate or region lies outside
	// the image.
	ErrOutOfBounds = errors.New("zimg: coordinate out of bounds")

	// ErrMalformedSchema is returned for schemas with a zero small side,
	// a big side that is not a multiple of the small side, or no big regions.
	ErrMalformedSchema = errors.New("zimg: malformed schema")

	// ErrInvalidPolicy is returned for compression policies that cannot
	// produce well-formed schemas.
	ErrInvalidPolicy = errors.New("zimg: invalid compression policy")
)

// Schema records that one small square region generates one or more big
// square regions of the same image at scale BigWH / SmallWH.
type Schema struct {
	SmallX, SmallY uint32
	SmallWH        uint32
	BigWH          uint32
	Bigs           []Point
}

// Small returns the small source region.
func (s *Schema) Small() Rect {
	return Rect{X: s.SmallX, Y: s.SmallY, W: s.SmallWH, H: s.SmallWH}
}

// Big returns the i-th generated region.
func (s *Schema) Big(i int) Rect {
	return square(s.Bigs[i], s.BigWH)
}

// Scale returns the integer scale factor between the big and small sides.
// It is 0 for a schema with a zero small side.
func (s *Schema) Scale() uint32 {
	if s.SmallWH == 0 {
		return 0
	}
	return s.BigWH / s.SmallWH
}

// Dot is a residual pixel stored verbatim.
type Dot[P pixel.Sample[P]] struct {
	X, Y   uint32
	Sample P
}

// ZImage is the compressed form of one image.
//
// Schemas are applied during reconstruction in reverse of their order
// here; Dots are applied before any schema.
type ZImage[P pixel.Sample[P]] struct {
	Width, Height uint32
	Schemas       []Schema
	Dots          []Dot[P]
}

// Kind returns the sample kind of the image.
func (z *ZImage[P]) Kind() pixel.Kind {
	return pixel.KindOf[P]()
}

// Policy holds the tunable parameters of the block search. They are not
// stored in the container; each schema carries its own SmallWH and BigWH.
type Policy struct {
	// SmallWH is the side of a candidate source region.
	SmallWH uint32

	// BigWH is the side of a grid cell. It must be a multiple of SmallWH
	// greater than SmallWH.
	BigWH uint32

	// Epsilon is the one-sided similarity threshold applied to
	// pixel.Sample.Delta.
	Epsilon float32

	// Candidates is the number of candidate positions per axis. Candidate
	// source regions start at multiples of SmallWH below
	// Candidates*SmallWH, which must fit in a uint32.
	Candidates uint32
}

// Default policy values.
const (
	DefaultSmallWH    = 3
	DefaultBigWH      = 6
	DefaultEpsilon    = 0.5
	DefaultCandidates = 3
)

// DefaultPolicy returns the policy used by Compress.
func DefaultPolicy() Policy {
	return Policy{
		SmallWH:    DefaultSmallWH,
		BigWH:      DefaultBigWH,
		Epsilon:    DefaultEpsilon,
		Candidates: DefaultCandidates,
	}
}

// Scale returns BigWH / SmallWH.
func (p Policy) Scale() uint32 {
	if p.SmallWH == 0 {
		return 0
	}
	return p.BigWH / p.SmallWH
}

// Validate checks that the policy can produce well-formed schemas.
func (p Policy) Validate() error {
	switch {
	case p.SmallWH == 0:
		return fmt.Errorf("%w: small side is zero", ErrInvalidPolicy)
	case p.BigWH <= p.SmallWH:
		return fmt.Errorf("%w: big side %d must exceed small side %d", ErrInvalidPolicy, p.BigWH, p.SmallWH)
	case p.BigWH%p.SmallWH != 0:
		return fmt.Errorf("%w: big side %d is not a multiple of small side %d", ErrInvalidPolicy, p.BigWH, p.SmallWH)
	case p.Candidates == 0:
		return fmt.Errorf("%w: no candidate positions", ErrInvalidPolicy)
	case uint64(p.Candidates)*uint64(p.SmallWH) > math.MaxUint32:
		return fmt.Errorf("%w: %d candidates of side %d exceed the coordinate range", ErrInvalidPolicy, p.Candidates, p.SmallWH)
	case math.IsNaN(float64(p.Epsilon)):
		return fmt.Errorf("%w: epsilon is NaN", ErrInvalidPolicy)
	}
	return nil
}
