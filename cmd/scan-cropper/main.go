package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	scancropper "github.com/talkingscott/scan-cropper"
	"github.com/talkingscott/scan-cropper/internal/config"
	"github.com/talkingscott/scan-cropper/internal/utils"
)

func main() {
	var imagePath, scanDir, cropDir string
	var strategyName, configPath, logLevel string
	var dumpConfig bool

	flag.StringVar(&imagePath, "image", "", "path to a single scanned image to crop")
	flag.StringVar(&scanDir, "scan-dir", "", "directory with scanned images to crop")
	flag.StringVar(&cropDir, "crop-dir", "", "directory to which to write cropped images (required)")
	flag.StringVar(&strategyName, "strategy", string(scancropper.StrategyBrightness), "edge detection strategy: brightness|colordistance")
	flag.StringVar(&configPath, "config", "", "path to a JSON config file (defaults omit it)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	flag.BoolVar(&dumpConfig, "dump-config", false, "write the default config to the config path and exit")

	flag.Parse()

	logger, err := buildLogger(logLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	defer logger.Sync()

	if dumpConfig {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := config.Default().SaveToFile(path); err != nil {
			logger.Fatal("failed to write config", zap.Error(err))
		}
		logger.Info("wrote default config", zap.String("path", path))
		return
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	strategy, err := scancropper.ParseStrategy(strategyName)
	if err != nil {
		logger.Fatal("invalid strategy", zap.Error(err))
	}

	if (imagePath != "") == (scanDir != "") {
		fmt.Fprintf(os.Stderr, "usage: %s -crop-dir DIR (-image FILE | -scan-dir DIR) [-strategy brightness|colordistance]\n",
			filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	if cropDir == "" {
		logger.Fatal("-crop-dir is required")
	}
	if err := utils.EnsureDir(cropDir); err != nil {
		logger.Fatal("crop directory is unusable", zap.String("dir", cropDir), zap.Error(err))
	}

	sc := scancropper.NewWithConfig(cfg)
	sc.SetLogger(logger)

	if imagePath != "" {
		err = sc.ProcessImage(imagePath, cropDir, strategy)
	} else {
		if !utils.DirExists(scanDir) {
			logger.Fatal("scan directory does not exist", zap.String("dir", scanDir))
		}
		err = sc.ProcessDirectory(scanDir, cropDir, strategy)
	}
	if err != nil {
		logger.Fatal("cropping failed", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomic
	return cfg.Build()
}
