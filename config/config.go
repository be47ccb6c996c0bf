// Package config loads favicon generation settings from YAML.
// A missing file is not an error; defaults reproduce the stock behavior.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MinCanvasSize is the largest exported asset; a smaller canvas would be upscaled.
const MinCanvasSize = 512

type Config struct {
	// Input is the source image path.
	Input string `yaml:"input"`
	// OutputDir must already exist.
	OutputDir string `yaml:"outputDir"`
	// Filter is one of lanczos, lanczos3, catmullrom.
	Filter string `yaml:"filter"`

	Background struct {
		// OpaqueAlpha gates stripping: it runs only when every pixel's alpha exceeds it.
		OpaqueAlpha int `yaml:"opaqueAlpha"`
		// WhiteLevel is the per-channel level above which a pixel is background.
		WhiteLevel int `yaml:"whiteLevel"`
	} `yaml:"background"`

	Layout struct {
		CanvasSize int     `yaml:"canvasSize"`
		FillRatio  float64 `yaml:"fillRatio"`
	} `yaml:"layout"`

	Manifest struct {
		Enabled       bool   `yaml:"enabled"`
		Name          string `yaml:"name"`
		ShortName     string `yaml:"shortName"`
		PaletteMethod string `yaml:"paletteMethod"`
	} `yaml:"manifest"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		Input:     "imgur_image.png",
		OutputDir: "public",
		Filter:    "lanczos",
	}
	cfg.Background.OpaqueAlpha = 250
	cfg.Background.WhiteLevel = 240
	cfg.Layout.CanvasSize = 512
	cfg.Layout.FillRatio = 0.70
	cfg.Manifest.PaletteMethod = "dominantcolor"
	return cfg
}

// LoadConfig reads configPath over the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return errors.New("input must be set")
	case c.OutputDir == "":
		return errors.New("outputDir must be set")
	case c.Background.OpaqueAlpha < 0 || c.Background.OpaqueAlpha > 255:
		return errors.Errorf("background.opaqueAlpha %d out of range 0-255", c.Background.OpaqueAlpha)
	case c.Background.WhiteLevel < 0 || c.Background.WhiteLevel > 255:
		return errors.Errorf("background.whiteLevel %d out of range 0-255", c.Background.WhiteLevel)
	case c.Layout.CanvasSize < MinCanvasSize:
		return errors.Errorf("layout.canvasSize must be at least %d, got %d", MinCanvasSize, c.Layout.CanvasSize)
	case c.Layout.FillRatio <= 0 || c.Layout.FillRatio > 1:
		return errors.Errorf("layout.fillRatio must be in (0, 1], got %g", c.Layout.FillRatio)
	}
	return nil
}

func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return errors.Wrap(os.WriteFile(configPath, data, 0o644), "writing config file")
}

func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
