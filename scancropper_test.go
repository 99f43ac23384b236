package scancropper

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/talkingscott/scan-cropper/pkg/grid"
)

// createScanImage builds a synthetic flatbed scan: pseudo-random dark
// content in the top-left contentW x contentH region and white scanner
// background to the right and below.
func createScanImage(width, height, contentW, contentH int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < contentW && y < contentH {
				j := (x*31+y*17)%21 - 10
				img.SetNRGBA(x, y, color.NRGBA{
					R: uint8(30 + j),
					G: uint8(60 + j),
					B: uint8(90 + j),
					A: 255,
				})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestParseStrategy(t *testing.T) {
	if _, err := ParseStrategy("brightness"); err != nil {
		t.Errorf("ParseStrategy(brightness) failed: %v", err)
	}
	if _, err := ParseStrategy("colordistance"); err != nil {
		t.Errorf("ParseStrategy(colordistance) failed: %v", err)
	}
	if _, err := ParseStrategy("magic"); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestProcessImageBrightness(t *testing.T) {
	scanDir := t.TempDir()
	cropDir := t.TempDir()
	scanPath := filepath.Join(scanDir, "scan001.png")
	writePNG(t, scanPath, createScanImage(2000, 1500, 1770, 1180))

	sc := New()
	if err := sc.ProcessImage(scanPath, cropDir, StrategyBrightness); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	// Detected edges (1769, 1179) conform to the canonical 1770x1180.
	w, h := imageSize(t, filepath.Join(cropDir, "scan001.png"))
	if w != 1770 || h != 1180 {
		t.Errorf("Cropped output is %dx%d, want 1770x1180", w, h)
	}
}

func TestProcessImageColorDistance(t *testing.T) {
	scanDir := t.TempDir()
	cropDir := t.TempDir()
	scanPath := filepath.Join(scanDir, "scan002.png")
	writePNG(t, scanPath, createScanImage(2000, 1500, 1770, 1180))

	sc := New()
	if err := sc.ProcessImage(scanPath, cropDir, StrategyColorDistance); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	// Both the maximum-edge and modal-edge crops are written.
	w, h := imageSize(t, filepath.Join(cropDir, "scan002.png"))
	if w != 1770 || h != 1180 {
		t.Errorf("Maximum-edge output is %dx%d, want 1770x1180", w, h)
	}
	w, h = imageSize(t, filepath.Join(cropDir, "scan002-mode.png"))
	if w != 1770 || h != 1180 {
		t.Errorf("Modal-edge output is %dx%d, want 1770x1180", w, h)
	}
}

func TestProcessImageRejectsGrayscale(t *testing.T) {
	scanDir := t.TempDir()
	scanPath := filepath.Join(scanDir, "gray.png")
	writePNG(t, scanPath, image.NewGray(image.Rect(0, 0, 100, 100)))

	sc := New()
	err := sc.ProcessImage(scanPath, t.TempDir(), StrategyBrightness)
	if !errors.Is(err, grid.ErrUnsupportedColorModel) {
		t.Errorf("Expected ErrUnsupportedColorModel, got %v", err)
	}
}

func TestProcessDirectory(t *testing.T) {
	scanDir := t.TempDir()
	cropDir := t.TempDir()
	writePNG(t, filepath.Join(scanDir, "a.png"), createScanImage(600, 500, 400, 300))
	writePNG(t, filepath.Join(scanDir, "b.png"), createScanImage(600, 500, 350, 250))
	if err := os.WriteFile(filepath.Join(scanDir, "notes.txt"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	sc := New()
	if err := sc.ProcessDirectory(scanDir, cropDir, StrategyBrightness); err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	// No preferred size is near these crops, so the raw edges survive.
	w, h := imageSize(t, filepath.Join(cropDir, "a.png"))
	if w != 399 || h != 299 {
		t.Errorf("Crop of a.png is %dx%d, want 399x299", w, h)
	}
	w, h = imageSize(t, filepath.Join(cropDir, "b.png"))
	if w != 349 || h != 249 {
		t.Errorf("Crop of b.png is %dx%d, want 349x249", w, h)
	}

	if _, err := os.Stat(filepath.Join(cropDir, "notes.txt")); !os.IsNotExist(err) {
		t.Error("Non-image file should not produce output")
	}
}

func TestProcessDirectoryStopsOnBadImage(t *testing.T) {
	scanDir := t.TempDir()
	writePNG(t, filepath.Join(scanDir, "bad.png"), image.NewGray(image.Rect(0, 0, 50, 50)))

	sc := New()
	err := sc.ProcessDirectory(scanDir, t.TempDir(), StrategyBrightness)
	if !errors.Is(err, grid.ErrUnsupportedColorModel) {
		t.Errorf("Expected the batch to stop with ErrUnsupportedColorModel, got %v", err)
	}
}
