package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Detection DetectionConfig `json:"detection"`
	Conform   ConformConfig   `json:"conform"`
	Output    OutputConfig    `json:"output"`
}

// DetectionConfig holds the edge-detection tuning parameters
type DetectionConfig struct {
	MinDimension        int     `json:"min_dimension"`
	Margin              int     `json:"margin"`
	Neighbors           int     `json:"neighbors"`
	Threshold           float64 `json:"threshold"`
	BrightnessThreshold float64 `json:"brightness_threshold"`
	Overscan            int     `json:"overscan"`
}

// ConformConfig holds the preferred crop sizes and the snap tolerance
type ConformConfig struct {
	PreferredSizes    [][2]int `json:"preferred_sizes"`
	DistanceThreshold float64  `json:"distance_threshold"`
}

// OutputConfig holds configuration for writing cropped images
type OutputConfig struct {
	Format     string `json:"format"`
	Quality    int    `json:"quality"`
	Lossless   bool   `json:"lossless"`
	ModeSuffix string `json:"mode_suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinDimension:        480,
			Margin:              20,
			Neighbors:           8,
			Threshold:           75,
			BrightnessThreshold: 240,
			Overscan:            16,
		},
		Conform: ConformConfig{
			// 1770x1180 is 3:2 (6"x4" @ 295 dpi), 1180x1770 is 2:3
			PreferredSizes: [][2]int{
				{1770, 1180},
				{1180, 1770},
			},
			DistanceThreshold: 16,
		},
		Output: OutputConfig{
			Format:     "",
			Quality:    90,
			Lossless:   false,
			ModeSuffix: "-mode",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Detection.MinDimension < 0 {
		return fmt.Errorf("detection.min_dimension must not be negative")
	}

	if c.Detection.Margin < 0 {
		return fmt.Errorf("detection.margin must not be negative")
	}

	if c.Detection.Neighbors < 2 {
		return fmt.Errorf("detection.neighbors must be at least 2")
	}

	if c.Detection.Threshold <= 0 {
		return fmt.Errorf("detection.threshold must be positive")
	}

	if c.Detection.BrightnessThreshold < 0 || c.Detection.BrightnessThreshold > 255 {
		return fmt.Errorf("detection.brightness_threshold must be between 0 and 255")
	}

	if c.Detection.Overscan < 0 {
		return fmt.Errorf("detection.overscan must not be negative")
	}

	for _, size := range c.Conform.PreferredSizes {
		if size[0] <= 0 || size[1] <= 0 {
			return fmt.Errorf("conform.preferred_sizes entries must be positive")
		}
	}

	if c.Conform.DistanceThreshold < 0 {
		return fmt.Errorf("conform.distance_threshold must not be negative")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "scan-cropper", "config.json")
}
