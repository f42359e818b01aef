// Package config loads and saves engine settings as YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/boteyes"
	"github.com/phanxgames/boteyes/palette"
)

// Timer holds the settings of a periodic behaviour. Times are in seconds.
type Timer struct {
	Enabled   bool `yaml:"enabled"`
	Interval  int  `yaml:"interval"`
	Variation int  `yaml:"variation"`
}

// Idle extends Timer with the drift envelope.
type Idle struct {
	Timer          `yaml:",inline"`
	XRangePct      int  `yaml:"x_range_pct"`
	YRangePct      int  `yaml:"y_range_pct"`
	LegacyVertical bool `yaml:"legacy_vertical"`
}

// Flicker is a continuous jitter.
type Flicker struct {
	Enabled   bool `yaml:"enabled"`
	Amplitude int  `yaml:"amplitude"`
}

// Palette picks display colours, either a preset name or explicit
// "#rrggbb" background/foreground pair.
type Palette struct {
	Preset     string `yaml:"preset,omitempty"`
	Background string `yaml:"background,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

// Config mirrors every engine setter plus the host settings.
type Config struct {
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	EyeWidth     int `yaml:"eye_width"`
	EyeHeight    int `yaml:"eye_height"`
	LeftRadius   int `yaml:"left_radius"`
	RightRadius  int `yaml:"right_radius"`
	SpaceBetween int `yaml:"space_between"`

	Mood     string `yaml:"mood"`
	Position string `yaml:"position"`
	Cyclops  bool   `yaml:"cyclops"`
	Curious  bool   `yaml:"curious"`
	Sweat    bool   `yaml:"sweat"`

	Autoblink Timer   `yaml:"autoblink"`
	Idle      Idle    `yaml:"idle"`
	HFlicker  Flicker `yaml:"h_flicker"`
	VFlicker  Flicker `yaml:"v_flicker"`

	Palette Palette `yaml:"palette"`
	FrameMs int     `yaml:"frame_ms"`
	// Seed fixes the random source when non-zero.
	Seed uint64 `yaml:"seed,omitempty"`
}

// Default returns the stock 128x64 configuration.
func Default() Config {
	return Config{
		ScreenWidth:  128,
		ScreenHeight: 64,
		EyeWidth:     boteyes.DefaultEyeWidth,
		EyeHeight:    boteyes.DefaultEyeHeight,
		LeftRadius:   boteyes.DefaultBorderRadius,
		RightRadius:  boteyes.DefaultBorderRadius,
		SpaceBetween: boteyes.DefaultSpaceBetween,
		Mood:         boteyes.MoodDefault.String(),
		Position:     boteyes.PositionCenter.String(),
		Autoblink:    Timer{Enabled: true, Interval: 1, Variation: 4},
		Idle: Idle{
			Timer:     Timer{Enabled: true, Interval: 1, Variation: 3},
			XRangePct: 100,
			YRangePct: 100,
		},
		HFlicker: Flicker{Amplitude: 2},
		VFlicker: Flicker{Amplitude: 10},
		Palette:  Palette{Preset: "white"},
		FrameMs:  boteyes.DefaultFrameMs,
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults and no error; fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting the engine cannot use.
func (c *Config) Validate() error {
	switch {
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("screen size %dx%d must be positive", c.ScreenWidth, c.ScreenHeight)
	case c.EyeWidth <= 0 || c.EyeHeight <= 0:
		return fmt.Errorf("eye size %dx%d must be positive", c.EyeWidth, c.EyeHeight)
	case c.LeftRadius < 0 || c.RightRadius < 0:
		return fmt.Errorf("border radius must not be negative")
	case c.Idle.XRangePct < 0 || c.Idle.XRangePct > 100 || c.Idle.YRangePct < 0 || c.Idle.YRangePct > 100:
		return fmt.Errorf("idle range %d/%d outside 0-100", c.Idle.XRangePct, c.Idle.YRangePct)
	case c.Autoblink.Interval < 0 || c.Autoblink.Variation < 0 || c.Idle.Interval < 0 || c.Idle.Variation < 0:
		return fmt.Errorf("timer settings must not be negative")
	case c.FrameMs <= 0:
		return fmt.Errorf("frame_ms %d must be positive", c.FrameMs)
	}
	if _, ok := boteyes.ParseMood(c.Mood); !ok {
		return fmt.Errorf("unknown mood %q", c.Mood)
	}
	if _, ok := boteyes.ParsePosition(c.Position); !ok {
		return fmt.Errorf("unknown position %q", c.Position)
	}
	if _, err := c.Palette.Build(); err != nil {
		return err
	}
	return nil
}

// Build returns the configured palette. Explicit colours win over the
// preset; an empty section means the white preset.
func (p Palette) Build() (*palette.Palette, error) {
	if p.Background != "" || p.Foreground != "" {
		bg, fg := p.Background, p.Foreground
		if bg == "" {
			bg = "#000000"
		}
		if fg == "" {
			fg = "#FFFFFF"
		}
		return palette.FromHex(bg, fg)
	}
	if p.Preset == "" {
		return palette.Default(), nil
	}
	return palette.Preset(p.Preset)
}

// NewEngine builds an engine with every setting applied. opts are passed
// to boteyes.New after the seed option, so they can override it.
func (c *Config) NewEngine(opts ...boteyes.Option) (*boteyes.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Seed != 0 {
		opts = append([]boteyes.Option{boteyes.WithSeed(c.Seed)}, opts...)
	}
	e := boteyes.New(c.ScreenWidth, c.ScreenHeight, opts...)
	c.Apply(e)
	return e, nil
}

// Apply pushes every setting onto e. c must be valid.
func (c *Config) Apply(e *boteyes.Engine) {
	mood, _ := boteyes.ParseMood(c.Mood)
	pos, _ := boteyes.ParsePosition(c.Position)

	e.SetSize(c.EyeWidth, c.EyeHeight)
	e.SetBorderRadius(c.LeftRadius, c.RightRadius)
	e.SetSpaceBetween(c.SpaceBetween)
	e.SetCyclops(c.Cyclops)
	e.SetCuriosity(c.Curious)
	e.SetSweat(c.Sweat)
	e.SetMood(mood)
	e.SetPosition(pos)
	e.SetAutoblink(c.Autoblink.Enabled, c.Autoblink.Interval, c.Autoblink.Variation)
	e.SetIdle(c.Idle.Enabled, c.Idle.Interval, c.Idle.Variation, c.Idle.XRangePct, c.Idle.YRangePct)
	e.SetIdleLegacyVertical(c.Idle.LegacyVertical)
	e.SetHFlicker(c.HFlicker.Enabled, c.HFlicker.Amplitude)
	e.SetVFlicker(c.VFlicker.Enabled, c.VFlicker.Amplitude)
	e.Open()
}
