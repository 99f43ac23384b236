// Package grid provides a random-access RGB pixel grid decoded from an image.
//
// A Grid is read-only for the lifetime of a crop operation. Lookups outside
// the grid bounds fail with ErrOutOfBounds rather than panicking; the edge
// detectors rely on that to treat missing neighbors as absent.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrOutOfBounds is returned by At for coordinates outside the grid.
var ErrOutOfBounds = errors.New("grid: point out of bounds")

// ErrUnsupportedColorModel is returned by FromImage for images whose pixels
// cannot be treated as plain RGB triples (grayscale, paletted, CMYK, ...).
var ErrUnsupportedColorModel = errors.New("grid: unsupported color model")

// Pixel is an 8-bit RGB triple.
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

// Point is a 0-indexed pixel coordinate, x increasing rightward and
// y increasing downward.
type Point struct {
	X int
	Y int
}

// Grid is an immutable rectangular array of pixels.
type Grid struct {
	width  int
	height int
	pixels []Pixel
}

// FromImage decodes an image into a Grid.
//
// Only images whose color model represents plain RGB data are accepted:
// JPEG (YCbCr) and RGB(A) PNG decode fine, while grayscale, paletted and
// CMYK images are rejected with ErrUnsupportedColorModel. This mirrors the
// scanner workflow, which only ever produces RGB scans.
func FromImage(img image.Image) (*Grid, error) {
	switch img.ColorModel() {
	case color.YCbCrModel, color.NYCbCrAModel,
		color.RGBAModel, color.NRGBAModel,
		color.RGBA64Model, color.NRGBA64Model:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedColorModel, img)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]Pixel, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			pixels[y*width+x] = Pixel{R: c.R, G: c.G, B: c.B}
		}
	}

	return &Grid{width: width, height: height, pixels: pixels}, nil
}

// Width returns the grid width in pixels.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the grid height in pixels.
func (g *Grid) Height() int {
	return g.height
}

// At returns the pixel at (x, y), or ErrOutOfBounds when the coordinate is
// outside [0, Width) x [0, Height).
func (g *Grid) At(x, y int) (Pixel, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Pixel{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.width, g.height)
	}
	return g.pixels[y*g.width+x], nil
}

// Crop returns a new grid restricted to the top-left-anchored rectangle of
// the given size.
func (g *Grid) Crop(width, height int) (*Grid, error) {
	if width < 0 || width > g.width || height < 0 || height > g.height {
		return nil, fmt.Errorf("grid: crop %dx%d outside %dx%d", width, height, g.width, g.height)
	}

	pixels := make([]Pixel, width*height)
	for y := 0; y < height; y++ {
		copy(pixels[y*width:(y+1)*width], g.pixels[y*g.width:y*g.width+width])
	}

	return &Grid{width: width, height: height, pixels: pixels}, nil
}

// Image renders the grid as an opaque NRGBA image suitable for encoding.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := g.pixels[y*g.width+x]
			img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}
