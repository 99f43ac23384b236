// Package scancropper crops flatbed-scanned photographs. A scanned picture
// is larger than the actual picture, with a mostly-white margin of scanner
// background to the right and bottom; this package detects where the photo
// ends and the margin begins, then writes the cropped image to a
// destination directory.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		scancropper "github.com/talkingscott/scan-cropper"
//	)
//
//	func main() {
//		sc := scancropper.New()
//		if err := sc.ProcessImage("scan001.jpg", "cropped", scancropper.StrategyBrightness); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Two detection strategies are available. The brightness strategy classifies
// whole rows and columns as scanner background when their average brightness
// is high enough; it is the one used by default and works for every photo
// that does not have a featureless white background at an edge. The
// color-distance strategy probes many lines for the transition between the
// near-uniform margin color and the photo, and writes two crops per image:
// one from the maximum detected edge and one from the modal edge (the mode
// is usually the better crop, since scanner artifacts drag the maximum out).
package scancropper

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/talkingscott/scan-cropper/internal/config"
	"github.com/talkingscott/scan-cropper/internal/utils"
	"github.com/talkingscott/scan-cropper/pkg/cropper"
	"github.com/talkingscott/scan-cropper/pkg/grid"
	"github.com/talkingscott/scan-cropper/pkg/processing"
	"github.com/talkingscott/scan-cropper/pkg/vision"
)

// Version of the scan-cropper library
const Version = "1.0.0"

// Strategy selects the edge-detection approach used for cropping.
type Strategy string

const (
	// StrategyBrightness uses average line brightness to identify scanner
	// background lines.
	StrategyBrightness Strategy = "brightness"
	// StrategyColorDistance uses local color-distance transitions along
	// probed lines.
	StrategyColorDistance Strategy = "colordistance"
)

// ParseStrategy converts a CLI string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBrightness, StrategyColorDistance:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (use %q or %q)", s, StrategyBrightness, StrategyColorDistance)
}

// ScanCropper provides a high-level interface for cropping scanned photos.
type ScanCropper struct {
	processor *processing.Processor
	detector  *vision.EdgeDetector
	cropper   *cropper.Cropper
	output    config.OutputConfig
	logger    *zap.Logger
}

// New creates a ScanCropper with default configuration.
func New() *ScanCropper {
	return NewWithConfig(config.Default())
}

// NewWithConfig creates a ScanCropper from an application configuration.
func NewWithConfig(cfg *config.Config) *ScanCropper {
	detector := vision.NewWithConfig(vision.DetectionConfig{
		MinDimension:        cfg.Detection.MinDimension,
		Margin:              cfg.Detection.Margin,
		Neighbors:           cfg.Detection.Neighbors,
		Threshold:           cfg.Detection.Threshold,
		BrightnessThreshold: cfg.Detection.BrightnessThreshold,
		Overscan:            cfg.Detection.Overscan,
	})

	conform := cropper.ConformConfig{
		DistanceThreshold: cfg.Conform.DistanceThreshold,
	}
	for _, size := range cfg.Conform.PreferredSizes {
		conform.PreferredSizes = append(conform.PreferredSizes, cropper.Size{Width: size[0], Height: size[1]})
	}

	c := cropper.NewWithConfig(conform)
	c.SetDetector(detector)

	return &ScanCropper{
		processor: processing.NewProcessor(),
		detector:  detector,
		cropper:   c,
		output:    cfg.Output,
		logger:    zap.NewNop(),
	}
}

// SetLogger attaches a logger to the cropper and its detector.
func (sc *ScanCropper) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	sc.logger = logger
	sc.detector.SetLogger(logger)
	sc.cropper.SetLogger(logger)
}

// ProcessImage crops one scanned image and writes the result to cropDir.
// The color-distance strategy writes a second output whose name carries the
// mode suffix, so both candidate crops are kept for manual comparison.
func (sc *ScanCropper) ProcessImage(imagePath, cropDir string, strategy Strategy) error {
	img, err := sc.processor.LoadImage(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", imagePath, err)
	}

	g, err := grid.FromImage(img)
	if err != nil {
		return fmt.Errorf("%s: %w", imagePath, err)
	}

	sc.logger.Info("processing scan",
		zap.String("path", imagePath),
		zap.Int("width", g.Width()),
		zap.Int("height", g.Height()),
		zap.String("strategy", string(strategy)))

	switch strategy {
	case StrategyBrightness:
		crop := sc.cropper.CropUsingBrightness(g)
		return sc.writeCrop(img, imagePath, cropDir, "", crop)

	case StrategyColorDistance:
		maxCrop, modeCrop, err := sc.cropper.CropUsingColorDistance(g)
		if err != nil {
			return fmt.Errorf("%s: %w", imagePath, err)
		}
		if err := sc.writeCrop(img, imagePath, cropDir, "", maxCrop); err != nil {
			return err
		}
		return sc.writeCrop(img, imagePath, cropDir, sc.output.ModeSuffix, modeCrop)

	default:
		return fmt.Errorf("unknown strategy %q", strategy)
	}
}

// ProcessDirectory crops every image file directly inside scanDir. The batch
// stops at the first failing image so a bad scan never goes unnoticed.
func (sc *ScanCropper) ProcessDirectory(scanDir, cropDir string, strategy Strategy) error {
	files, err := utils.ListImageFiles(scanDir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", scanDir, err)
	}

	sc.logger.Info("processing scan directory",
		zap.String("dir", scanDir),
		zap.Int("images", len(files)))

	for _, file := range files {
		if err := sc.ProcessImage(file, cropDir, strategy); err != nil {
			return err
		}
	}

	return nil
}

func (sc *ScanCropper) writeCrop(img image.Image, imagePath, cropDir, suffix string, crop cropper.Size) error {
	cropped, err := sc.processor.CropTopLeft(img, crop.Width, crop.Height)
	if err != nil {
		return fmt.Errorf("%s: %w", imagePath, err)
	}

	outPath := utils.OutputFilename(imagePath, cropDir, suffix, sc.output.Format)
	sc.logger.Info("writing crop",
		zap.Stringer("size", crop),
		zap.String("path", outPath))

	format := utils.GetFileExtension(outPath)
	if err := sc.processor.SaveImage(cropped, outPath, format, sc.output.Quality, sc.output.Lossless); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	return nil
}
