// zimg compresses raster images by block self-similarity.
//
// Usage:
//
//	zimg [flags] <input>
//	zimg encode [flags] --container <file> <input>
//	zimg decode --kind <kind> --out <file> <container>
//	zimg inspect --kind <kind> <container>
//
// Without a subcommand the input image is compressed, reconstructed and
// written to --out (out.png by default), which shows the quality the
// compressor achieves on it. Inputs may be PNG, JPEG, GIF, QOI or JPEG 2000;
// outputs are PNG or QOI, chosen by extension.
//
// Containers do not record their sample kind. encode prints the kind it
// used, and decode and inspect must be given the same kind.
//
// Exit codes:
//
//	0: Success
//	1: Any I/O, decode or validation error
package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mrjoshuak/go-zimg/compression"
	"github.com/mrjoshuak/go-zimg/imgconv"
	"github.com/mrjoshuak/go-zimg/pixel"
	"github.com/mrjoshuak/go-zimg/zimg"
)

// defaultMaxSize bounds the sample memory decode allocates for a
// container read from disk.
const defaultMaxSize = 1 << 30

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "zimg",
		Usage:     "Compress images by block self-similarity",
		ArgsUsage: "INPUT",
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "out.png",
				Usage:   "reconstructed image `FILE` (.png or .qoi)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log compression statistics",
			},
		}, policyFlags()...), preprocessFlags()...),
		Action: roundTripAction,
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Compress an image into a container file",
				ArgsUsage: "INPUT",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:     "container",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "container `FILE` to write",
					},
					packFlag(),
					&cli.StringFlag{
						Name:  "report",
						Usage: "write the schema table as CSV to `FILE`",
					},
				}, policyFlags()...), preprocessFlags()...),
				Action: encodeAction,
			},
			{
				Name:      "decode",
				Usage:     "Reconstruct an image from a container file",
				ArgsUsage: "CONTAINER",
				Flags: []cli.Flag{
					kindFlag(),
					packFlag(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "reconstructed image `FILE` (.png or .qoi)",
					},
					&cli.Uint64Flag{
						Name:  "max-size",
						Value: defaultMaxSize,
						Usage: "refuse containers whose reconstruction exceeds `BYTES`",
					},
				},
				Action: decodeAction,
			},
			{
				Name:      "inspect",
				Usage:     "Validate a container file and print its statistics",
				ArgsUsage: "CONTAINER",
				Flags:     []cli.Flag{kindFlag(), packFlag()},
				Action:    inspectAction,
			},
		},
	}
}

func policyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{
			Name:  "small",
			Value: zimg.DefaultSmallWH,
			Usage: "side of a candidate source region",
		},
		&cli.UintFlag{
			Name:  "big",
			Value: zimg.DefaultBigWH,
			Usage: "side of a grid cell, a multiple of --small",
		},
		&cli.Float64Flag{
			Name:  "epsilon",
			Value: zimg.DefaultEpsilon,
			Usage: "similarity threshold",
		},
		&cli.UintFlag{
			Name:  "candidates",
			Value: zimg.DefaultCandidates,
			Usage: "candidate source positions per axis",
		},
	}
}

func preprocessFlags() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{
			Name:  "scale",
			Value: 1,
			Usage: "downscale the input by an integer `FACTOR` first",
		},
		&cli.BoolFlag{
			Name:  "gray",
			Usage: "convert the input to grayscale first",
		},
	}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "kind",
		Aliases:  []string{"k"},
		Required: true,
		Usage:    "sample `KIND` of the container: gray, grayalpha, rgb or rgba",
	}
}

func packFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "pack",
		Value: "none",
		Usage: "outer packing `METHOD` of the container: none, zlib or zstd",
	}
}

func policyFromFlags(c *cli.Context) (zimg.Policy, error) {
	var sides [3]uint32
	for i, name := range []string{"small", "big", "candidates"} {
		v := c.Uint(name)
		if uint64(v) > math.MaxUint32 {
			return zimg.Policy{}, fmt.Errorf("--%s %d is out of range", name, v)
		}
		sides[i] = uint32(v)
	}
	policy := zimg.Policy{
		SmallWH:    sides[0],
		BigWH:      sides[1],
		Epsilon:    float32(c.Float64("epsilon")),
		Candidates: sides[2],
	}
	return policy, policy.Validate()
}

func singleArg(c *cli.Context, what string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected one %s argument, got %d", what, c.NArg())
	}
	return c.Args().First(), nil
}

// loadInput decodes an image file, applies the requested preprocessing
// and picks the codec for its sample kind.
func loadInput(c *cli.Context, path string, verbose bool) (*input, error) {
	img, format, err := imgconv.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	kind, err := imgconv.Classify(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if verbose {
		b := img.Bounds()
		log.Printf("decoded %s: %s, %dx%d, %s samples", path, format, b.Dx(), b.Dy(), kind)
	}

	if c.Bool("gray") {
		img = imgconv.Grayscale(img)
		kind = pixel.KindGray
	}
	if scale := c.Uint("scale"); scale > 1 {
		img = imgconv.Downscale(img, scale)
		if verbose {
			b := img.Bounds()
			log.Printf("downscaled by %d to %dx%d", scale, b.Dx(), b.Dy())
		}
	}

	cd, err := codecFor(kind)
	if err != nil {
		return nil, err
	}
	return &input{img: img, kind: kind, codec: cd}, nil
}

func roundTripAction(c *cli.Context) error {
	path, err := singleArg(c, "input image")
	if err != nil {
		return err
	}
	verbose := c.Bool("verbose")
	policy, err := policyFromFlags(c)
	if err != nil {
		return err
	}

	in, err := loadInput(c, path, verbose)
	if err != nil {
		return err
	}
	out, err := in.codec.roundTrip(in.img, policy, verbose)
	if err != nil {
		return err
	}
	return imgconv.EncodeFile(c.String("out"), out)
}

func encodeAction(c *cli.Context) error {
	path, err := singleArg(c, "input image")
	if err != nil {
		return err
	}
	method, err := compression.ParseMethod(c.String("pack"))
	if err != nil {
		return err
	}
	verbose := c.Bool("verbose")
	policy, err := policyFromFlags(c)
	if err != nil {
		return err
	}

	in, err := loadInput(c, path, verbose)
	if err != nil {
		return err
	}
	err = in.codec.encode(in.img, policy, verbose, encodeTarget{
		container: c.String("container"),
		method:    method,
		report:    c.String("report"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, in.kind)
	return nil
}

func containerArgs(c *cli.Context) (string, codec, compression.Method, error) {
	path, err := singleArg(c, "container")
	if err != nil {
		return "", nil, 0, err
	}
	kind, err := pixel.ParseKind(c.String("kind"))
	if err != nil {
		return "", nil, 0, err
	}
	cd, err := codecFor(kind)
	if err != nil {
		return "", nil, 0, err
	}
	method, err := compression.ParseMethod(c.String("pack"))
	if err != nil {
		return "", nil, 0, err
	}
	return path, cd, method, nil
}

func decodeAction(c *cli.Context) error {
	path, cd, method, err := containerArgs(c)
	if err != nil {
		return err
	}
	img, err := cd.decode(path, method, c.Uint64("max-size"), c.Bool("verbose"))
	if err != nil {
		return err
	}
	return imgconv.EncodeFile(c.String("out"), img)
}

func inspectAction(c *cli.Context) error {
	path, cd, method, err := containerArgs(c)
	if err != nil {
		return err
	}
	st, err := cd.inspect(path, method)
	if err != nil {
		return err
	}
	packing := st.Method.String()
	if st.Level != "" {
		packing += " (" + st.Level + " level)"
	}

	w := c.App.Writer
	fmt.Fprintf(w, "size:         %dx%d\n", st.Width, st.Height)
	fmt.Fprintf(w, "kind:         %s\n", st.Kind)
	fmt.Fprintf(w, "schemas:      %d\n", st.Schemas)
	fmt.Fprintf(w, "big regions:  %d\n", st.BigRegions)
	fmt.Fprintf(w, "dots:         %d\n", st.Dots)
	fmt.Fprintf(w, "encoded size: %d bytes\n", st.EncodedSize)
	fmt.Fprintf(w, "packing:      %s\n", packing)
	fmt.Fprintf(w, "file size:    %d bytes\n", st.FileSize)
	return nil
}
