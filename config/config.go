// Package config loads sketch settings from YAML.
//
// Every field has a default reproducing the built-in scenes, so a config
// file only needs the values it changes. Unknown fields are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/life"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the size of a config file.
const maxConfigSize = 1024 * 1024

// Config errors.
var (
	// ErrInvalid is returned by Validate and wraps every problem found.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrTooLarge is returned for config files over 1 MiB.
	ErrTooLarge = errors.New("config: file too large")
)

// Config is the root of a config file.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Life   LifeConfig   `yaml:"life"`
	Shapes ShapesConfig `yaml:"shapes"`
}

// WindowConfig configures the application window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Background RGB    `yaml:"background"`
	Continuous bool   `yaml:"continuous"`
}

// LifeConfig configures the Game of Life grid.
type LifeConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Density float64 `yaml:"density"`
	Seed    uint64  `yaml:"seed"`
}

// RGB is an opaque 8-bit sRGB color written as [r, g, b].
type RGB [3]uint8

// Color converts c to a sketch color.
func (c RGB) Color() sketch.Color {
	return sketch.RGB8(c[0], c[1], c[2])
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:      "sketch",
			Width:      800,
			Height:     600,
			FPS:        20,
			Background: RGB{10, 12, 28},
			Continuous: true,
		},
		Life: LifeConfig{
			Width:   life.DefaultGridSize,
			Height:  life.DefaultGridSize,
			Density: life.DefaultDensity,
		},
		Shapes: DefaultShapes(),
	}
}

// Load reads the config file at path over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	sketch.Logger().Info("config: loaded", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Empty
// input yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPS < 0 {
		errs = append(errs, fmt.Errorf("window fps %d must not be negative", c.Window.FPS))
	}
	if c.Life.Width <= 0 || c.Life.Height <= 0 {
		errs = append(errs, fmt.Errorf("life grid %dx%d must be positive", c.Life.Width, c.Life.Height))
	}
	if !(c.Life.Density >= 0 && c.Life.Density <= 1) {
		errs = append(errs, fmt.Errorf("life density %v must be within [0, 1]", c.Life.Density))
	}
	for i, s := range c.Shapes.Items {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("shape %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
