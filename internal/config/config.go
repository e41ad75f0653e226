package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultDots         = 100
	DefaultForce        = 5000000.0
	DefaultPointSpeed   = 50.0
	DefaultSpeedLimit   = 7500.0
	DefaultScale        = 100.0
	DefaultDeadZone     = 99.0
	DefaultWidth        = 1080
	DefaultHeight       = 720
	DefaultTargetFPS    = 60
	DefaultTitle        = "Gravity Simulator"
	VariantClassic      = "classic"
	VariantModern       = "modern"
	LayoutUniform       = "uniform"
	LayoutNoise         = "noise"
	BackendRaylib       = "raylib"
	BackendEbiten       = "ebiten"
	BackendTerminal     = "terminal"
	ThemeLight          = "light"
	ThemeDark           = "dark"
	ClampVector         = "vector"
	ClampAxis           = "axis"
	classicDots         = 200
	classicSpeedLimit   = 5000.0
	defaultInitialMode  = "attract"
	defaultClampLimiter = ClampVector
)

type Config struct {
	Variant           string       `yaml:"variant"`
	Dots              int          `yaml:"dots"`
	GravityForce      float64      `yaml:"gravity_force"`
	GravityPointSpeed float64      `yaml:"gravity_point_speed"`
	SpeedLimit        float64      `yaml:"speed_limit"`
	Clamp             string       `yaml:"clamp"`
	Scale             float64      `yaml:"scale"`
	DeadZone          float64      `yaml:"dead_zone"`
	Mode              string       `yaml:"mode"`
	Screen            ScreenConfig `yaml:"screen"`
	TargetFPS         int          `yaml:"target_fps"`
	MaxDt             float64      `yaml:"max_dt"`
	Workers           int          `yaml:"workers"` // 0 uses every CPU
	Seed              int64        `yaml:"seed"`
	Layout            string       `yaml:"layout"`
	Theme             string       `yaml:"theme"`
	Backend           string       `yaml:"backend"`
}

type ScreenConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:           VariantModern,
		Dots:              DefaultDots,
		GravityForce:      DefaultForce,
		GravityPointSpeed: DefaultPointSpeed,
		SpeedLimit:        DefaultSpeedLimit,
		Clamp:             defaultClampLimiter,
		Scale:             DefaultScale,
		DeadZone:          DefaultDeadZone,
		Mode:              defaultInitialMode,
		Screen: ScreenConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		TargetFPS: DefaultTargetFPS,
		Workers:   1,
		Layout:    LayoutUniform,
		Theme:     ThemeLight,
		Backend:   BackendRaylib,
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(DefaultConfig(), path)
}

// LoadOnto overlays the yaml file at path onto base.
func LoadOnto(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// InitialMode returns the gravity mode the simulation starts in.
func (c *Config) InitialMode() dynamo.Mode {
	m, err := dynamo.ParseMode(c.Mode)
	if err != nil {
		return dynamo.ModeAttract
	}
	return m
}

// Center returns the screen center in pixels.
func (c *Config) Center() dynamo.Vec {
	return dynamo.Vec{X: float64(c.Screen.Width / 2), Y: float64(c.Screen.Height / 2)}
}

// Validate reports the first out-of-range value. Zero dots is valid and
// produces an empty simulation.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Variant != VariantClassic && c.Variant != VariantModern:
		return invalid("unknown variant %q", c.Variant)
	case c.Dots < 0:
		return invalid("dots must be non-negative, got %d", c.Dots)
	case !(c.GravityForce > 0) || math.IsInf(c.GravityForce, 0):
		return invalid("gravity_force must be positive and finite, got %g", c.GravityForce)
	case !(c.GravityPointSpeed >= 0) || math.IsInf(c.GravityPointSpeed, 0):
		return invalid("gravity_point_speed must be non-negative and finite, got %g", c.GravityPointSpeed)
	case !(c.SpeedLimit > 0) || math.IsInf(c.SpeedLimit, 0):
		return invalid("speed_limit must be positive and finite, got %g", c.SpeedLimit)
	case c.Clamp != ClampVector && c.Clamp != ClampAxis:
		return invalid("unknown clamp %q", c.Clamp)
	case !(c.Scale > 0) || math.IsInf(c.Scale, 0):
		return invalid("scale must be positive and finite, got %g", c.Scale)
	case !(c.DeadZone > 0) || math.IsInf(c.DeadZone, 0):
		return invalid("dead_zone must be positive and finite, got %g", c.DeadZone)
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return invalid("screen must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	case c.TargetFPS <= 0:
		return invalid("target_fps must be positive, got %d", c.TargetFPS)
	case !(c.MaxDt >= 0) || math.IsInf(c.MaxDt, 0):
		return invalid("max_dt must be non-negative and finite, got %g", c.MaxDt)
	case c.Workers < 0:
		return invalid("workers must be non-negative, got %d", c.Workers)
	case c.Layout != LayoutUniform && c.Layout != LayoutNoise:
		return invalid("unknown layout %q", c.Layout)
	case c.Theme != ThemeLight && c.Theme != ThemeDark:
		return invalid("unknown theme %q", c.Theme)
	case c.Backend != BackendRaylib && c.Backend != BackendEbiten && c.Backend != BackendTerminal:
		return invalid("unknown backend %q", c.Backend)
	}

	if _, err := dynamo.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Variant == VariantClassic && c.InitialMode() == dynamo.ModeDisabled {
		return invalid("classic variant cannot start disabled")
	}
	return nil
}

// ParseDots parses the optional particle-count argument.
func ParseDots(arg string) (int, error) {
	s := strings.TrimSpace(arg)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", dynamo.ErrInvalidDots, arg)
	}
	return n, nil
}
