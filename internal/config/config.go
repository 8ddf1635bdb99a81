package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/advsim/internal/integrators"
	"github.com/san-kum/advsim/internal/sim"
	"github.com/san-kum/advsim/internal/smoothing"
)

const (
	DefaultPoints           = 64
	DefaultLengthTurns      = 1.0
	DefaultDurationFraction = 0.1
	DefaultCFL              = 1.0
	DefaultOmega            = 1.0
	DefaultL4               = 1.0 / 32
	DefaultMDT              = 10.0
)

// Config is the yaml form of sim.Config. Length may be given directly or
// as LengthTurns multiples of 2*pi; Duration directly or as
// DurationFraction of the domain length. Direct values win whenever they
// are present, including non-positive ones, which sim.Config.Validate then
// rejects.
type Config struct {
	Points           int       `yaml:"points"`
	Length           *float64  `yaml:"length,omitempty"`
	LengthTurns      float64   `yaml:"length_turns,omitempty"`
	Duration         *float64  `yaml:"duration,omitempty"`
	DurationFraction float64   `yaml:"duration_fraction,omitempty"`
	CFL              float64   `yaml:"cfl"`
	Omega            float64   `yaml:"omega"`
	Periodic         bool      `yaml:"periodic"`
	Smoothed         bool      `yaml:"smoothed"`
	L4               float64   `yaml:"l4"`
	MDT              float64   `yaml:"mdt"`
	Alpha            []float64 `yaml:"alpha,flow"`
	Inflow           float64   `yaml:"inflow"`
	Boundary         string    `yaml:"boundary"`
	ValidateState    bool      `yaml:"validate_state"`
}

func DefaultConfig() *Config {
	return &Config{
		Points:           DefaultPoints,
		LengthTurns:      DefaultLengthTurns,
		DurationFraction: DefaultDurationFraction,
		CFL:              DefaultCFL,
		Omega:            DefaultOmega,
		L4:               DefaultL4,
		MDT:              DefaultMDT,
		Alpha:            append([]float64(nil), integrators.DefaultAlpha...),
		Inflow:           integrators.DefaultInflow,
		Boundary:         smoothing.OutflowOnly.String(),
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys absent from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Alpha = append([]float64(nil), c.Alpha...)
	out.Length = copyValue(c.Length)
	out.Duration = copyValue(c.Duration)
	return &out
}

// SetLength fixes the domain length, overriding LengthTurns.
func (c *Config) SetLength(l float64) { c.Length = &l }

// SetDuration fixes the simulated time, overriding DurationFraction.
func (c *Config) SetDuration(t float64) { c.Duration = &t }

func (c *Config) ResolvedLength() float64 {
	if c.Length != nil {
		return *c.Length
	}
	return c.LengthTurns * 2 * math.Pi
}

func (c *Config) ResolvedDuration() float64 {
	if c.Duration != nil {
		return *c.Duration
	}
	return c.DurationFraction * c.ResolvedLength()
}

// SimConfig resolves c into the simulator's parameters. Range checks are
// left to sim.Config.Validate.
func (c *Config) SimConfig() (sim.Config, error) {
	policy, err := smoothing.ParseBoundaryPolicy(c.Boundary)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Points:        c.Points,
		Length:        c.ResolvedLength(),
		Duration:      c.ResolvedDuration(),
		CFL:           c.CFL,
		Omega:         c.Omega,
		Periodic:      c.Periodic,
		Smoothed:      c.Smoothed,
		L4:            c.L4,
		MDT:           c.MDT,
		Alpha:         append([]float64(nil), c.Alpha...),
		Inflow:        c.Inflow,
		Boundary:      policy,
		ValidateState: c.ValidateState,
	}, nil
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
