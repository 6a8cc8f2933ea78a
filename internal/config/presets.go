package config

import "sort"

// Presets are named physics variants layered over the default config.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Physics.NoiseAmplitude = 0.02
		c.Physics.ReturnSpeed = 0.08
		c.Physics.Friction = 0.9
		c.Physics.ForceMultiplier = 35
	},
	"storm": func(c *Config) {
		c.Physics.NoiseAmplitude = 0.12
		c.Physics.ReturnSpeed = 0.16
		c.Physics.Friction = 0.95
		c.Physics.ForceMultiplier = 110
		c.Physics.SwirlStrength = 0.6
	},
	"dense": func(c *Config) {
		c.Particles = 16000
		c.Canvas.Step = 3
	},
	"sparse": func(c *Config) {
		c.Particles = 2000
		c.Canvas.Step = 6
	},
}

// GetPreset returns the default config with the named preset applied, or
// nil when the preset does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
