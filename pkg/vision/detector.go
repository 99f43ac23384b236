// Package vision implements the edge detectors that locate the boundary
// between a scanned photograph and the mostly-white scanner background
// margin to its right and bottom.
//
// Two independent strategies operate over the same pixel grid: a brightness
// scan that classifies whole lines as background, and a color-distance scan
// that walks individual lines looking for the transition out of the
// near-uniform margin color.
package vision

import (
	"errors"

	"go.uber.org/zap"

	"github.com/talkingscott/scan-cropper/pkg/grid"
)

// ErrNoEdge is returned when the color-distance detector finds no edge on
// any probed line.
var ErrNoEdge = errors.New("vision: no edge detected")

// EdgeDetector locates photo edges in a pixel grid.
type EdgeDetector struct {
	config DetectionConfig
	logger *zap.Logger
}

// DetectionConfig holds the hand-tuned detection parameters. The defaults
// were chosen empirically against one scanner's output; they are exposed so
// other scanners (and tests) can adjust them without rebuilding.
type DetectionConfig struct {
	// MinDimension is the smallest crop the color-distance scan will
	// consider; line walks stop once they reach it.
	MinDimension int
	// Margin is the number of pixels skipped at both ends of every scanned
	// line, to avoid corner artifacts.
	Margin int
	// Neighbors is the number of pixels averaged on each side of a point
	// when computing local color distance.
	Neighbors int
	// Threshold is the color distance that signals a margin/photo
	// transition.
	Threshold float64
	// BrightnessThreshold is the average line brightness at or above which
	// a line is considered scanner background.
	BrightnessThreshold float64
	// Overscan is the number of extra lines the brightness scan processes
	// past a detected edge, for diagnostic logging only.
	Overscan int
}

// DefaultDetectionConfig returns the empirically chosen parameters.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		MinDimension:        480,
		Margin:              20,
		Neighbors:           8,
		Threshold:           75,
		BrightnessThreshold: 240,
		Overscan:            16,
	}
}

// New creates an EdgeDetector with the default configuration.
func New() *EdgeDetector {
	return NewWithConfig(DefaultDetectionConfig())
}

// NewWithConfig creates an EdgeDetector with a custom configuration.
func NewWithConfig(config DetectionConfig) *EdgeDetector {
	if config.Neighbors < 2 {
		config.Neighbors = 2
	}
	return &EdgeDetector{config: config, logger: zap.NewNop()}
}

// SetLogger attaches a logger for per-line diagnostics.
func (d *EdgeDetector) SetLogger(logger *zap.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Config returns the detector's configuration.
func (d *EdgeDetector) Config() DetectionConfig {
	return d.config
}

// FindEdgeByBrightness returns the photo edge along one axis using average
// line brightness to identify lines that are scanner background. It walks
// from the far boundary toward 0 and reports the first line whose average
// brightness falls below the threshold.
//
// When no line qualifies, the walk exhausts and 0 is returned. That
// conflates "no edge" with "edge at index 0"; it matches the behavior this
// tool has always had and callers rely on it for fully-white scans.
func (d *EdgeDetector) FindEdgeByBrightness(g *grid.Grid, axis Axis) int {
	far := g.Width() - 1
	if axis == AxisY {
		far = g.Height() - 1
	}

	edge := -1
	for lineIndex := far; lineIndex >= 0; lineIndex-- {
		brightness := d.lineBrightness(g, lineIndex, axis)
		d.logger.Debug("line brightness",
			zap.Stringer("axis", axis),
			zap.Int("line", lineIndex),
			zap.Float64("brightness", brightness))
		if edge < 0 {
			if brightness < d.config.BrightnessThreshold {
				edge = lineIndex
			}
		} else if lineIndex < edge-d.config.Overscan {
			// extra lines past the edge are scanned only for the debug log
			break
		}
	}

	if edge < 0 {
		return 0
	}
	return edge
}

// lineBrightness returns the average brightness of the line at lineIndex
// perpendicular to the given axis, skipping Margin pixels at each end.
// A line with no sampled points averages to 0.
func (d *EdgeDetector) lineBrightness(g *grid.Grid, lineIndex int, axis Axis) float64 {
	length := g.Height()
	if axis == AxisY {
		length = g.Width()
	}

	var sum float64
	points := 0
	for pos := d.config.Margin; pos < length-d.config.Margin; pos++ {
		var px grid.Pixel
		var err error
		if axis == AxisX {
			px, err = g.At(lineIndex, pos)
		} else {
			px, err = g.At(pos, lineIndex)
		}
		if err != nil {
			continue
		}
		sum += Brightness(px)
		points++
	}

	if points == 0 {
		return 0
	}
	return sum / float64(points)
}

// EdgeScan is the result of a color-distance edge search along one axis.
type EdgeScan struct {
	// Max is the largest edge position seen on any probed line, or -1 when
	// no line produced a detection. Scanner artifacts make it less reliable
	// than Mode.
	Max int
	// Mode is the most frequent edge position across all probed lines.
	Mode int
}

// scanPhase is the state of the per-line transition walk.
type scanPhase int

const (
	// seekingStart: still inside the near-uniform margin, waiting for local
	// variation to pick up on the photo side of the walk.
	seekingStart scanPhase = iota
	// seekingConfirmation: the transition has begun; waiting for the
	// overshoot where variation behind the walk exceeds variation ahead.
	seekingConfirmation
)

// FindEdgeByColorDistance probes multiple lines perpendicular to the given
// axis, walking each from the far boundary inward and detecting the
// margin-to-photo transition by changes in local pixel-to-neighbor color
// distance. It returns both the maximum and the modal edge position;
// ErrNoEdge is returned when no probed line detects a transition.
func (d *EdgeDetector) FindEdgeByColorDistance(g *grid.Grid, axis Axis) (EdgeScan, error) {
	lineCount := g.Height()
	if axis == AxisY {
		lineCount = g.Width()
	}
	step := d.config.Neighbors / 2

	max := -1
	counts := make(map[int]int)
	var seen []int

	for lineIndex := d.config.Margin; lineIndex < lineCount-d.config.Margin; lineIndex += step {
		pos, ok := d.findEdgeOfLine(g, lineIndex, axis)
		if !ok {
			continue
		}
		if counts[pos] == 0 {
			seen = append(seen, pos)
		}
		counts[pos]++
		if pos > max {
			max = pos
			d.logger.Debug("edge maximum updated",
				zap.Stringer("axis", axis),
				zap.Int("edge", pos),
				zap.Int("line", lineIndex))
		}
	}

	if len(seen) == 0 {
		return EdgeScan{Max: -1}, ErrNoEdge
	}

	// first-encountered position wins ties
	mode := seen[0]
	for _, pos := range seen[1:] {
		if counts[pos] > counts[mode] {
			mode = pos
		}
	}

	return EdgeScan{Max: max, Mode: mode}, nil
}

// findEdgeOfLine walks one line from the far boundary toward MinDimension,
// comparing the average color distance to the neighbors not yet visited
// (toward the photo) against the neighbors already visited (toward the
// scan boundary). The edge is the position where the comparison overshoots
// back after first crossing the threshold.
func (d *EdgeDetector) findEdgeOfLine(g *grid.Grid, lineIndex int, axis Axis) (int, bool) {
	far := g.Width() - 1
	if axis == AxisY {
		far = g.Height() - 1
	}

	phase := seekingStart
	for pos := far; pos >= d.config.MinDimension; pos-- {
		pt := grid.Point{X: pos, Y: lineIndex}
		if axis == AxisY {
			pt = grid.Point{X: lineIndex, Y: pos}
		}
		inward := NeighborColorDistance(g, pt, d.config.Neighbors, axis, Before)
		outward := NeighborColorDistance(g, pt, d.config.Neighbors, axis, After)

		switch phase {
		case seekingStart:
			if inward-outward >= d.config.Threshold {
				phase = seekingConfirmation
			}
		case seekingConfirmation:
			if outward-inward >= d.config.Threshold {
				return pos, true
			}
		}
	}

	return 0, false
}
