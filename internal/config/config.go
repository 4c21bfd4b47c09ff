// Package config handles mode7 configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Config holds all viewer settings.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Sprites SpritesConfig `yaml:"sprites"`
	Logging LoggingConfig `yaml:"logging"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	FPS        int    `yaml:"fps"`
	Width      int    `yaml:"width"`  // snapshot width in pixels
	Height     int    `yaml:"height"` // snapshot height in pixels
	Background string `yaml:"background"`
	ShowHUD    bool   `yaml:"show_hud"`
}

// CameraConfig holds the starting view and control mode.
type CameraConfig struct {
	Mode      string     `yaml:"mode"` // freefly or walker
	FovX      float64    `yaml:"fov_x"`
	Position  [3]float64 `yaml:"position"`
	Yaw       float64    `yaml:"yaw"`   // degrees
	Pitch     float64    `yaml:"pitch"` // degrees
	Speed     float64    `yaml:"speed"`
	EyeHeight float64    `yaml:"eye_height"`
}

// AssetsConfig holds texture and scene paths. Empty paths fall back to
// generated textures.
type AssetsConfig struct {
	Floor      string          `yaml:"floor"`
	Attributes string          `yaml:"attributes"`
	Terrain    []TerrainConfig `yaml:"terrain"`
	Sky        []string        `yaml:"sky"` // +X, -X, +Y, -Y, +Z, -Z
	Scene      string          `yaml:"scene"`
}

// TerrainConfig maps an attribute-map color to a terrain.
type TerrainConfig struct {
	Name     string  `yaml:"name"`
	Color    string  `yaml:"color"`
	Friction float64 `yaml:"friction"`
}

// SpritesConfig holds sprite registry settings.
type SpritesConfig struct {
	Capacity       int     `yaml:"capacity"`
	TexelSize      float64 `yaml:"texel_size"`
	AlphaThreshold int     `yaml:"alpha_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			FPS:        30,
			Width:      640,
			Height:     480,
			Background: "135,206,235",
			ShowHUD:    true,
		},
		Camera: CameraConfig{
			Mode:      "freefly",
			FovX:      90,
			Position:  [3]float64{0, 0, 2},
			Yaw:       0,
			Pitch:     -15,
			Speed:     8,
			EyeHeight: 1.6,
		},
		Sprites: SpritesConfig{
			Capacity:       256,
			TexelSize:      1.0 / 32,
			AlphaThreshold: 128,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

var ErrInvalid = errors.New("invalid config")

// Validate checks ranges that would otherwise fail deep inside the renderer.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Display.FPS > 0, "display.fps must be positive, got %d", c.Display.FPS)
	check(c.Display.Width > 0 && c.Display.Height > 0, "display size %dx%d", c.Display.Width, c.Display.Height)
	check(c.Camera.FovX > 0 && c.Camera.FovX < 180, "camera.fov_x must be in (0, 180), got %v", c.Camera.FovX)
	check(len(c.Assets.Sky) == 0 || len(c.Assets.Sky) == 6, "assets.sky needs 0 or 6 faces, got %d", len(c.Assets.Sky))
	check(c.Assets.Attributes == "" || c.Assets.Floor != "", "assets.attributes needs assets.floor")
	check(c.Sprites.Capacity > 0, "sprites.capacity must be positive, got %d", c.Sprites.Capacity)
	check(c.Sprites.TexelSize > 0, "sprites.texel_size must be positive, got %v", c.Sprites.TexelSize)
	check(c.Sprites.AlphaThreshold >= 0 && c.Sprites.AlphaThreshold <= 255,
		"sprites.alpha_threshold must be 0..255, got %d", c.Sprites.AlphaThreshold)
	if _, err := ParseRGB(c.Display.Background); err != nil {
		errs = append(errs, fmt.Errorf("%w: display.background: %v", ErrInvalid, err))
	}
	for i, t := range c.Assets.Terrain {
		if _, err := ParseRGB(t.Color); err != nil {
			errs = append(errs, fmt.Errorf("%w: assets.terrain[%d].color: %v", ErrInvalid, i, err))
		}
	}

	return errors.Join(errs...)
}

// ParseRGB parses "R,G,B" with components 0..255 into an opaque color.
func ParseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("want R,G,B, got %q", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
