package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid scene config")

const (
	defaultWidth          = 400
	defaultAspectRatio    = 16.0 / 9.0
	defaultViewportHeight = 2.0
	defaultFocalLength    = 1.0
)

// SphereConfig describes one sphere in a scene file
type SphereConfig struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// Config is the JSON scene file format. Zero values take the defaults.
type Config struct {
	Name            string         `json:"name,omitempty"`
	Description     string         `json:"description,omitempty"`
	Width           int            `json:"width,omitempty"`
	AspectRatio     float64        `json:"aspectRatio,omitempty"`
	ViewportHeight  float64        `json:"viewportHeight,omitempty"`
	FocalLength     float64        `json:"focalLength,omitempty"`
	Origin          [3]float64     `json:"origin"`
	SamplesPerPixel int            `json:"samplesPerPixel,omitempty"`
	MaxDepth        int            `json:"maxDepth,omitempty"`
	Seed            int64          `json:"seed,omitempty"`
	Spheres         []SphereConfig `json:"spheres"`
}

// LoadConfig reads and validates a JSON scene file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// ParseConfig decodes a JSON scene, fills defaults and validates it.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero-valued fields. Negative values are left for
// Validate to reject.
func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = defaultWidth
	}
	if c.AspectRatio == 0 {
		c.AspectRatio = defaultAspectRatio
	}
	if c.ViewportHeight == 0 {
		c.ViewportHeight = defaultViewportHeight
	}
	if c.FocalLength == 0 {
		c.FocalLength = defaultFocalLength
	}
}

// Validate reports the first problem with the config, wrapping ErrInvalidConfig
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("%w: aspectRatio must be positive, got %g", ErrInvalidConfig, c.AspectRatio)
	}
	if imageHeight(c.Width, c.AspectRatio) < 1 {
		return fmt.Errorf("%w: width %d and aspectRatio %g give an image less than one pixel tall",
			ErrInvalidConfig, c.Width, c.AspectRatio)
	}
	if !(c.ViewportHeight > 0) {
		return fmt.Errorf("%w: viewportHeight must be positive, got %g", ErrInvalidConfig, c.ViewportHeight)
	}
	if !(c.FocalLength > 0) {
		return fmt.Errorf("%w: focalLength must be positive, got %g", ErrInvalidConfig, c.FocalLength)
	}
	if c.SamplesPerPixel < 0 {
		return fmt.Errorf("%w: samplesPerPixel must not be negative, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: maxDepth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if len(c.Spheres) == 0 {
		return fmt.Errorf("%w: scene has no spheres", ErrInvalidConfig)
	}
	for i, sphere := range c.Spheres {
		if !(sphere.Radius > 0) {
			return fmt.Errorf("%w: sphere %d radius must be positive, got %g", ErrInvalidConfig, i, sphere.Radius)
		}
	}
	return nil
}

// NewFromConfig builds a renderable scene from a validated config
func NewFromConfig(cfg *Config) (*Scene, error) {
	return build(cfg)
}
