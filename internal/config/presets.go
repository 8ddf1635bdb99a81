package config

import "sort"

func preset(mutate func(*Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"ramp": DefaultConfig(),
	"cosine": preset(func(c *Config) {
		c.Periodic = true
		c.DurationFraction = 1
	}),
	"smoothed-ramp": preset(func(c *Config) {
		c.Smoothed = true
	}),
	"smoothed-cosine": preset(func(c *Config) {
		c.Points = 128
		c.DurationFraction = 1
		c.CFL = 1.5
		c.MDT = 2
		c.Periodic = true
		c.Smoothed = true
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
