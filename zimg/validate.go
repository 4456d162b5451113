package zimg

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mrjoshuak/go-zimg/pixel"
)

// Validate checks the structural invariants of z and returns every
// violation found, combined. Each violation wraps ErrOutOfBounds or
// ErrMalformedSchema.
func (z *ZImage[P]) Validate() error {
	var result *multierror.Error

	for i := range z.Schemas {
		s := &z.Schemas[i]
		if s.SmallWH == 0 || s.BigWH%s.SmallWH != 0 {
			result = multierror.Append(result, fmt.Errorf(
				"%w: schema %d: small side %d, big side %d", ErrMalformedSchema, i, s.SmallWH, s.BigWH))
		}
		if len(s.Bigs) == 0 {
			result = multierror.Append(result, fmt.Errorf(
				"%w: schema %d has no big regions", ErrMalformedSchema, i))
		}
		if !s.Small().Within(z.Width, z.Height) {
			result = multierror.Append(result, fmt.Errorf(
				"%w: schema %d small region %v exceeds %dx%d", ErrOutOfBounds, i, s.Small(), z.Width, z.Height))
		}
		for j := range s.Bigs {
			if big := s.Big(j); !big.Within(z.Width, z.Height) {
				result = multierror.Append(result, fmt.Errorf(
					"%w: schema %d big region %d %v exceeds %dx%d", ErrOutOfBounds, i, j, big, z.Width, z.Height))
			}
		}
	}

	bounds := Rect{W: z.Width, H: z.Height}
	for i, d := range z.Dots {
		if !bounds.Contains(d.X, d.Y) {
			result = multierror.Append(result, fmt.Errorf(
				"%w: dot %d at (%d,%d) outside %dx%d", ErrOutOfBounds, i, d.X, d.Y, z.Width, z.Height))
		}
	}

	return result.ErrorOrNil()
}

// Diff describes the first difference between a and b, or returns "" when
// they are equal field by field.
func Diff[P pixel.Sample[P]](a, b *ZImage[P]) string {
	switch {
	case a.Width != b.Width:
		return fmt.Sprintf("width: %d != %d", a.Width, b.Width)
	case a.Height != b.Height:
		return fmt.Sprintf("height: %d != %d", a.Height, b.Height)
	case len(a.Schemas) != len(b.Schemas):
		return fmt.Sprintf("schema count: %d != %d", len(a.Schemas), len(b.Schemas))
	case len(a.Dots) != len(b.Dots):
		return fmt.Sprintf("dot count: %d != %d", len(a.Dots), len(b.Dots))
	}

	for i := range a.Schemas {
		sa, sb := &a.Schemas[i], &b.Schemas[i]
		switch {
		case sa.SmallX != sb.SmallX || sa.SmallY != sb.SmallY:
			return fmt.Sprintf("schema %d small origin: (%d,%d) != (%d,%d)", i, sa.SmallX, sa.SmallY, sb.SmallX, sb.SmallY)
		case sa.SmallWH != sb.SmallWH:
			return fmt.Sprintf("schema %d small side: %d != %d", i, sa.SmallWH, sb.SmallWH)
		case sa.BigWH != sb.BigWH:
			return fmt.Sprintf("schema %d big side: %d != %d", i, sa.BigWH, sb.BigWH)
		case len(sa.Bigs) != len(sb.Bigs):
			return fmt.Sprintf("schema %d big count: %d != %d", i, len(sa.Bigs), len(sb.Bigs))
		}
		for j := range sa.Bigs {
			if sa.Bigs[j] != sb.Bigs[j] {
				return fmt.Sprintf("schema %d big %d: %v != %v", i, j, sa.Bigs[j], sb.Bigs[j])
			}
		}
	}

	for i := range a.Dots {
		da, db := a.Dots[i], b.Dots[i]
		switch {
		case da.X != db.X || da.Y != db.Y:
			return fmt.Sprintf("dot %d position: (%d,%d) != (%d,%d)", i, da.X, da.Y, db.X, db.Y)
		case da.Sample != db.Sample:
			return fmt.Sprintf("dot %d sample: %v != %v", i, da.Sample, db.Sample)
		}
	}
	return ""
}

// Equal reports whether a and b are equal field by field, including the
// order of schemas, big regions and dots.
func Equal[P pixel.Sample[P]](a, b *ZImage[P]) bool {
	return Diff(a, b) == ""
}

// Stats summarizes a compressed image.
type Stats struct {
	Width, Height uint32
	Kind          pixel.Kind
	Schemas       int
	BigRegions    int // total big regions over all schemas
	Dots          int
	EncodedSize   int64
}

// Stats returns summary counts for z.
func (z *ZImage[P]) Stats() Stats {
	st := Stats{
		Width:       z.Width,
		Height:      z.Height,
		Kind:        z.Kind(),
		Schemas:     len(z.Schemas),
		Dots:        len(z.Dots),
		EncodedSize: z.EncodedSize(),
	}
	for i := range z.Schemas {
		st.BigRegions += len(z.Schemas[i].Bigs)
	}
	return st
}
