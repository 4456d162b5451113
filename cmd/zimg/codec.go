package main

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/mrjoshuak/go-zimg/compression"
	"github.com/mrjoshuak/go-zimg/imgconv"
	"github.com/mrjoshuak/go-zimg/pixel"
	"github.com/mrjoshuak/go-zimg/zimg"
)

type input struct {
	img   image.Image
	kind  pixel.Kind
	codec codec
}

type encodeTarget struct {
	container string
	method    compression.Method
	report    string
}

// codec runs the pipelines for one sample kind. The kind is chosen at run
// time; typed instantiates each pipeline for it.
type codec interface {
	roundTrip(img image.Image, policy zimg.Policy, verbose bool) (image.Image, error)
	encode(img image.Image, policy zimg.Policy, verbose bool, to encodeTarget) error
	decode(path string, m compression.Method, maxSize uint64, verbose bool) (image.Image, error)
	inspect(path string, m compression.Method) (inspection, error)
}

type inspection struct {
	zimg.Stats
	FileSize int64
	Method   compression.Method
	Level    string // zlib level category, when known
}

func codecFor(kind pixel.Kind) (codec, error) {
	switch kind {
	case pixel.KindGray:
		return typed[pixel.Gray]{}, nil
	case pixel.KindGrayAlpha:
		return typed[pixel.GrayAlpha]{}, nil
	case pixel.KindRGB:
		return typed[pixel.RGB]{}, nil
	case pixel.KindRGBA:
		return typed[pixel.RGBA]{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", pixel.ErrUnknownKind, int(kind))
	}
}

type typed[P pixel.Sample[P]] struct{}

func (typed[P]) compress(img image.Image, policy zimg.Policy, verbose bool) (*zimg.ZImage[P], error) {
	z, stats, err := zimg.CompressWithPolicy(imgconv.ToBuffer[P](img), policy)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("cells: %d, zipped: %d, unzipped: %d (pruned %d), schemas: %d",
			stats.Cells, stats.Zipped, stats.Unzipped, stats.Pruned, stats.Schemas)
		log.Printf("container: %d dots, %d bytes", len(z.Dots), z.EncodedSize())
	}
	return z, nil
}

func (typed[P]) reconstruct(z *zimg.ZImage[P], verbose bool) image.Image {
	buf, stats := zimg.DecompressWithStats(z)
	if verbose {
		log.Printf("schema sources: %d from residuals, %d derived", stats.FromResidual, stats.Derived)
	}
	return imgconv.ToImage(buf)
}

func (t typed[P]) roundTrip(img image.Image, policy zimg.Policy, verbose bool) (image.Image, error) {
	z, err := t.compress(img, policy, verbose)
	if err != nil {
		return nil, err
	}
	return t.reconstruct(z, verbose), nil
}

func (t typed[P]) encode(img image.Image, policy zimg.Policy, verbose bool, to encodeTarget) error {
	z, err := t.compress(img, policy, verbose)
	if err != nil {
		return err
	}
	if err := z.SavePacked(to.container, to.method); err != nil {
		return err
	}
	if to.report == "" {
		return nil
	}
	return writeReport(to.report, z)
}

func writeReport[P pixel.Sample[P]](path string, z *zimg.ZImage[P]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return z.WriteReport(f)
}

func (t typed[P]) decode(path string, m compression.Method, maxSize uint64, verbose bool) (image.Image, error) {
	z, err := zimg.LoadPacked[P](path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if size := z.DecompressedSize(); size > maxSize {
		return nil, fmt.Errorf("%s: %dx%d image needs %d bytes, over the limit of %d",
			path, z.Width, z.Height, size, maxSize)
	}
	return t.reconstruct(z, verbose), nil
}

func (typed[P]) inspect(path string, m compression.Method) (inspection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inspection{}, err
	}
	var z zimg.ZImage[P]
	if err := z.UnmarshalPacked(data, m); err != nil {
		return inspection{}, fmt.Errorf("%s: %w", path, err)
	}

	in := inspection{Stats: z.Stats(), FileSize: int64(len(data)), Method: m}
	if m == compression.MethodZlib {
		if level, ok := compression.DetectZlibFLevel(data); ok {
			in.Level = level.String()
		}
	}
	return in, nil
}
