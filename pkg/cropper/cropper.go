// Package cropper turns detected photo edges into crop sizes, snapping
// near-misses onto the canonical scanned print sizes.
package cropper

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/talkingscott/scan-cropper/pkg/grid"
	"github.com/talkingscott/scan-cropper/pkg/vision"
)

// Size is a top-left-anchored crop size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ConformConfig controls snapping of detected crop sizes to preferred ones.
type ConformConfig struct {
	// PreferredSizes are the canonical scanned print sizes, in match order.
	PreferredSizes []Size
	// DistanceThreshold is the maximum Euclidean distance between a
	// candidate and a preferred size for the candidate to snap to it.
	DistanceThreshold float64
}

// DefaultConformConfig returns the canonical 6x4 print sizes at 295 dpi:
// 1770x1180 is 3:2 and 1180x1770 is 2:3.
func DefaultConformConfig() ConformConfig {
	return ConformConfig{
		PreferredSizes: []Size{
			{Width: 1770, Height: 1180},
			{Width: 1180, Height: 1770},
		},
		DistanceThreshold: 16,
	}
}

// Cropper computes crop sizes for scanned photos using an edge detector.
type Cropper struct {
	detector *vision.EdgeDetector
	config   ConformConfig
	logger   *zap.Logger
}

// New creates a Cropper with default detection and conformance settings.
func New() *Cropper {
	return &Cropper{
		detector: vision.New(),
		config:   DefaultConformConfig(),
		logger:   zap.NewNop(),
	}
}

// NewWithConfig creates a Cropper with custom conformance settings.
func NewWithConfig(config ConformConfig) *Cropper {
	return &Cropper{
		detector: vision.New(),
		config:   config,
		logger:   zap.NewNop(),
	}
}

// SetDetector replaces the edge detector, e.g. to tune its parameters.
func (c *Cropper) SetDetector(detector *vision.EdgeDetector) {
	if detector != nil {
		c.detector = detector
	}
}

// SetLogger attaches a logger for conformance and edge diagnostics.
func (c *Cropper) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// MaybeConform snaps a candidate crop size onto the first preferred size
// within the distance threshold, in list order. Candidates near no preferred
// size are returned unchanged.
func (c *Cropper) MaybeConform(candidate Size) Size {
	for _, preferred := range c.config.PreferredSizes {
		dist := vision.PointDistance(
			grid.Point{X: preferred.Width, Y: preferred.Height},
			grid.Point{X: candidate.Width, Y: candidate.Height})
		c.logger.Debug("conform distance",
			zap.Stringer("preferred", preferred),
			zap.Stringer("candidate", candidate),
			zap.Float64("distance", dist))
		if dist < c.config.DistanceThreshold {
			return preferred
		}
	}
	return candidate
}

// CropUsingBrightness detects the photo edges on both axes with the
// brightness scan and returns the conformed crop size.
func (c *Cropper) CropUsingBrightness(g *grid.Grid) Size {
	edgeX := c.detector.FindEdgeByBrightness(g, vision.AxisX)
	edgeY := c.detector.FindEdgeByBrightness(g, vision.AxisY)
	c.logger.Info("brightness edges",
		zap.Int("edge_x", edgeX),
		zap.Int("edge_y", edgeY))

	return c.MaybeConform(Size{Width: edgeX, Height: edgeY})
}

// CropUsingColorDistance detects the photo edges on both axes with the
// color-distance scan. It returns two conformed candidates: one built from
// the per-axis maximum edges and one from the per-axis modal edges. The
// modal crop is usually the better one; scanner artifacts tend to drag the
// maximum outward.
func (c *Cropper) CropUsingColorDistance(g *grid.Grid) (maxCrop, modeCrop Size, err error) {
	scanX, err := c.detector.FindEdgeByColorDistance(g, vision.AxisX)
	if err != nil {
		return Size{}, Size{}, fmt.Errorf("x axis: %w", err)
	}
	scanY, err := c.detector.FindEdgeByColorDistance(g, vision.AxisY)
	if err != nil {
		return Size{}, Size{}, fmt.Errorf("y axis: %w", err)
	}

	c.logger.Info("color-distance edges",
		zap.Int("edge_x", scanX.Max),
		zap.Int("edge_y", scanY.Max),
		zap.Int("mode_x", scanX.Mode),
		zap.Int("mode_y", scanY.Mode))

	maxCrop = c.MaybeConform(Size{Width: scanX.Max, Height: scanY.Max})
	modeCrop = c.MaybeConform(Size{Width: scanX.Mode, Height: scanY.Mode})
	return maxCrop, modeCrop, nil
}
