package vision

import (
	"math"

	"github.com/talkingscott/scan-cropper/pkg/grid"
)

// Axis selects the image dimension an edge search walks along.
type Axis int

const (
	// AxisX searches for the right edge of the photo.
	AxisX Axis = iota
	// AxisY searches for the bottom edge of the photo.
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Direction selects which side of a point neighbor lookups walk toward.
type Direction int

const (
	// Before walks toward the origin (smaller coordinates).
	Before Direction = iota
	// After walks away from the origin (larger coordinates).
	After
)

// PointDistance returns the Euclidean distance between two points.
func PointDistance(p0, p1 grid.Point) float64 {
	dx := float64(p1.X - p0.X)
	dy := float64(p1.Y - p0.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Brightness returns the root-mean-square of the pixel's channel values,
// a cheap luminance proxy in the range [0, 255].
func Brightness(p grid.Pixel) float64 {
	r := float64(p.R)
	g := float64(p.G)
	b := float64(p.B)
	return math.Sqrt((r*r + g*g + b*b) / 3)
}

// ColorDistance returns the Euclidean distance between two pixels in RGB
// space. Identical colors are 0; black to white is about 441.
func ColorDistance(p0, p1 grid.Pixel) float64 {
	dr := float64(p1.R) - float64(p0.R)
	dg := float64(p1.G) - float64(p0.G)
	db := float64(p1.B) - float64(p0.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// NeighborColorDistance returns the average color distance between the pixel
// at pt and up to n consecutive pixels strictly before or after it along the
// given axis. Neighbors beyond the grid boundary are skipped; when no
// neighbor is available at all (pt sits on the boundary in that direction)
// the result is 0.
func NeighborColorDistance(g *grid.Grid, pt grid.Point, n int, axis Axis, dir Direction) float64 {
	base, err := g.At(pt.X, pt.Y)
	if err != nil {
		return 0
	}

	var sum float64
	points := 0
	for i := 1; i <= n; i++ {
		delta := i
		if dir == Before {
			delta = -i
		}
		x, y := pt.X, pt.Y
		if axis == AxisX {
			x += delta
		} else {
			y += delta
		}
		neighbor, err := g.At(x, y)
		if err != nil {
			// no neighbor on that side
			continue
		}
		sum += ColorDistance(base, neighbor)
		points++
	}

	if points == 0 {
		return 0
	}
	return sum / float64(points)
}
