// Package config loads the YAML settings shared by the manifold drivers.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cbegin/manifold-go/internal/audio"
	"github.com/cbegin/manifold-go/internal/logging"
	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/scene"
)

// Config is the top-level settings file.
type Config struct {
	Audio   AudioConfig       `yaml:"audio"`
	Render  RenderConfig      `yaml:"render"`
	Session SessionConfig     `yaml:"session"`
	Log     LogConfig         `yaml:"log"`
	Palette map[string]string `yaml:"palette,omitempty"`
}

type AudioConfig struct {
	SampleRate   int     `yaml:"sample_rate"`
	Backend      string  `yaml:"backend"` // ebiten, beep, capture
	MasterVolume float64 `yaml:"master_volume"`
	Seed         int64   `yaml:"seed"` // 0 means random
}

type RenderConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	TimeStep         float64 `yaml:"time_step"`
	RotationStep     float64 `yaml:"rotation_step"`
	InitialRotationX float64 `yaml:"initial_rotation_x"`
	Count            int     `yaml:"count"` // 0 uses the variant default
}

// SessionConfig picks what is on screen at start-up.
type SessionConfig struct {
	Condition string `yaml:"condition"`
	Variant   string `yaml:"variant"`
	Autoplay  bool   `yaml:"autoplay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:   44100,
			Backend:      "ebiten",
			MasterVolume: 1,
		},
		Render: RenderConfig{
			Width:            960,
			Height:           720,
			TimeStep:         scene.DefaultTimeStep,
			RotationStep:     scene.DefaultRotationStep,
			InitialRotationX: scene.DefaultRotationX,
		},
		Session: SessionConfig{
			Condition: string(profile.Healthy),
			Variant:   "lissajous",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing or unreadable file still
// returns the defaults alongside the error so callers may carry on.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config file not found, using defaults: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d out of range", c.Audio.SampleRate))
	}
	if err := audio.CheckBackend(c.Audio.Backend); err != nil {
		errs = append(errs, fmt.Errorf("audio.backend: %w", err))
	}
	if c.Audio.MasterVolume < 0 {
		errs = append(errs, fmt.Errorf("audio.master_volume %v is negative", c.Audio.MasterVolume))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.TimeStep <= 0 {
		errs = append(errs, errors.New("render.time_step must be positive"))
	}
	if c.Render.Count < 0 {
		errs = append(errs, fmt.Errorf("render.count %d is negative", c.Render.Count))
	}
	if _, err := profile.ParseName(c.Session.Condition); err != nil {
		errs = append(errs, fmt.Errorf("session.condition: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := scene.NewPalette(c.Palette); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}
	return errors.Join(errs...)
}

// Condition returns the validated start-up condition.
func (c *Config) Condition() profile.Name {
	n, err := profile.ParseName(c.Session.Condition)
	if err != nil {
		return profile.Healthy
	}
	return n
}
