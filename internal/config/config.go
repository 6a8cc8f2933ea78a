package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

const (
	DefaultParticles = 8000
	DefaultTickRate  = 60
)

type Config struct {
	Particles int   `yaml:"particles"`
	Seed      int64 `yaml:"seed"`
	TickRate  int   `yaml:"tick_rate"`

	Canvas  CanvasConfig  `yaml:"canvas"`
	Physics PhysicsConfig `yaml:"physics"`
	Gesture GestureConfig `yaml:"gesture"`
	Themes  []ThemeConfig `yaml:"themes"`
}

type CanvasConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	FontSize float64 `yaml:"font_size"`
	Step     int     `yaml:"step"`
	Scale    float32 `yaml:"scale"`
}

type PhysicsConfig struct {
	ReturnSpeed     float32 `yaml:"return_speed"`
	Friction        float32 `yaml:"friction"`
	NoiseAmplitude  float32 `yaml:"noise_amplitude"`
	ColorSpeed      float64 `yaml:"color_speed"`
	SpatialFreq     float64 `yaml:"spatial_freq"`
	GlowRadius      float32 `yaml:"glow_radius"`
	BrightnessBoost float32 `yaml:"brightness_boost"`
	InfluenceRadius float32 `yaml:"influence_radius"`
	ForceMultiplier float32 `yaml:"force_multiplier"`
	SwirlStrength   float32 `yaml:"swirl_strength"`
	FlowStrength    float32 `yaml:"flow_strength"`
	BlastBias       float32 `yaml:"blast_bias"`
}

type GestureConfig struct {
	ScreenWidth       float64 `yaml:"screen_width"`
	ScreenHeight      float64 `yaml:"screen_height"`
	FistThreshold     float64 `yaml:"fist_threshold"`
	OpenThreshold     float64 `yaml:"open_threshold"`
	TipToPipThreshold float64 `yaml:"tip_to_pip_threshold"`
	EnablePointing    bool    `yaml:"enable_pointing"`
	EnableTwoFingers  bool    `yaml:"enable_two_fingers"`
	ThumbCheck        bool    `yaml:"thumb_check"`
}

type ThemeConfig struct {
	Name   string `yaml:"name"`
	Color1 string `yaml:"color1"`
	Color2 string `yaml:"color2"`
	Text   string `yaml:"text"`
}

func DefaultConfig() *Config {
	gc := glyph.DefaultConfig()
	pp := swarm.DefaultParams()
	hc := hand.DefaultConfig()
	return &Config{
		Particles: DefaultParticles,
		Seed:      42,
		TickRate:  DefaultTickRate,
		Canvas: CanvasConfig{
			Width:    gc.Width,
			Height:   gc.Height,
			FontSize: gc.FontSize,
			Step:     gc.Step,
			Scale:    gc.Scale,
		},
		Physics: PhysicsConfig{
			ReturnSpeed:     pp.ReturnSpeed,
			Friction:        pp.Friction,
			NoiseAmplitude:  pp.NoiseAmplitude,
			ColorSpeed:      pp.ColorSpeed,
			SpatialFreq:     pp.SpatialFreq,
			GlowRadius:      pp.GlowRadius,
			BrightnessBoost: pp.BrightnessBoost,
			InfluenceRadius: pp.InfluenceRadius,
			ForceMultiplier: pp.ForceMultiplier,
			SwirlStrength:   pp.SwirlStrength,
			FlowStrength:    pp.FlowStrength,
			BlastBias:       pp.BlastBias,
		},
		Gesture: GestureConfig{
			ScreenWidth:       hc.ScreenWidth,
			ScreenHeight:      hc.ScreenHeight,
			FistThreshold:     hc.FistThreshold,
			OpenThreshold:     hc.OpenThreshold,
			TipToPipThreshold: hc.TipToPipThreshold,
			EnablePointing:    hc.EnablePointing,
			EnableTwoFingers:  hc.EnableTwoFingers,
			ThumbCheck:        hc.ThumbCheck,
		},
		Themes: []ThemeConfig{
			{Name: "ember", Color1: "#ff4e00", Color2: "#ffd166", Text: "IGNITE"},
			{Name: "ocean", Color1: "#0466c8", Color2: "#90e0ef", Text: "DRIFT"},
			{Name: "bloom", Color1: "#38b000", Color2: "#ccff33", Text: "GROW"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if len(c.Themes) == 0 {
		return fmt.Errorf("at least one theme is required")
	}
	for _, t := range c.Themes {
		if _, err := ParseHexColor(t.Color1); err != nil {
			return fmt.Errorf("theme %q: %w", t.Name, err)
		}
		if _, err := ParseHexColor(t.Color2); err != nil {
			return fmt.Errorf("theme %q: %w", t.Name, err)
		}
	}
	return nil
}

// GlyphConfig maps the canvas section onto the sampler config, keeping the
// sampler's own defaults for the fallback ring.
func (c *Config) GlyphConfig() glyph.Config {
	gc := glyph.DefaultConfig()
	gc.Width = c.Canvas.Width
	gc.Height = c.Canvas.Height
	gc.FontSize = c.Canvas.FontSize
	gc.Step = c.Canvas.Step
	gc.Scale = c.Canvas.Scale
	return gc
}

func (c *Config) FieldParams() swarm.Params {
	p := swarm.DefaultParams()
	p.ReturnSpeed = c.Physics.ReturnSpeed
	p.Friction = c.Physics.Friction
	p.NoiseAmplitude = c.Physics.NoiseAmplitude
	p.ColorSpeed = c.Physics.ColorSpeed
	p.SpatialFreq = c.Physics.SpatialFreq
	p.GlowRadius = c.Physics.GlowRadius
	p.BrightnessBoost = c.Physics.BrightnessBoost
	p.InfluenceRadius = c.Physics.InfluenceRadius
	p.ForceMultiplier = c.Physics.ForceMultiplier
	p.SwirlStrength = c.Physics.SwirlStrength
	p.FlowStrength = c.Physics.FlowStrength
	p.BlastBias = c.Physics.BlastBias
	return p
}

// GestureConfig maps the gesture section onto the classifier config. The
// mode range follows the theme table: one mode per theme.
func (c *Config) ClassifierConfig() hand.Config {
	return hand.Config{
		ScreenWidth:       c.Gesture.ScreenWidth,
		ScreenHeight:      c.Gesture.ScreenHeight,
		MaxMode:           len(c.Themes),
		FistThreshold:     c.Gesture.FistThreshold,
		OpenThreshold:     c.Gesture.OpenThreshold,
		TipToPipThreshold: c.Gesture.TipToPipThreshold,
		EnablePointing:    c.Gesture.EnablePointing,
		EnableTwoFingers:  c.Gesture.EnableTwoFingers,
		ThumbCheck:        c.Gesture.ThumbCheck,
	}
}

// SwarmThemes resolves the theme table into renderable themes. Mode m maps
// to Themes[m-1].
func (c *Config) SwarmThemes() ([]swarm.Theme, error) {
	themes := make([]swarm.Theme, len(c.Themes))
	for i, t := range c.Themes {
		c1, err := ParseHexColor(t.Color1)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", t.Name, err)
		}
		c2, err := ParseHexColor(t.Color2)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", t.Name, err)
		}
		themes[i] = swarm.Theme{Name: t.Name, Color1: c1, Color2: c2, Text: t.Text}
	}
	return themes, nil
}

// ParseHexColor converts "#rrggbb" into normalized rgb.
func ParseHexColor(s string) ([3]float32, error) {
	var rgb [3]float32
	if len(s) != 7 || s[0] != '#' {
		return rgb, fmt.Errorf("invalid color %q, want #rrggbb", s)
	}
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+i*2])
		lo, ok2 := hexDigit(s[2+i*2])
		if !ok1 || !ok2 {
			return rgb, fmt.Errorf("invalid color %q, want #rrggbb", s)
		}
		rgb[i] = float32(hi*16+lo) / 255
	}
	return rgb, nil
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
