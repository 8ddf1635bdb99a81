package sim

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/integrators"
)

// progressEvery is the debug logging interval in timesteps.
const progressEvery = 100

// StepperFactory builds the time integrator for a validated config.
type StepperFactory func(cfg Config, g grid.Grid) (integrators.Stepper, error)

func defaultStepper(cfg Config, g grid.Grid) (integrators.Stepper, error) {
	return cfg.NewStepper(g)
}

type Simulator struct {
	logger     *zap.Logger
	newStepper StepperFactory
	metrics    []Metric
	observers  []Observer
}

type Option func(*Simulator)

// WithStepper replaces the low-storage scheme built from the config.
func WithStepper(f StepperFactory) Option {
	return func(s *Simulator) {
		if f != nil {
			s.newStepper = f
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		logger:     zap.NewNop(),
		newStepper: defaultStepper,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// RunSimulation runs cfg with no metrics or observers attached.
func RunSimulation(ctx context.Context, cfg Config) (*Result, error) {
	return New().Run(ctx, cfg)
}

// Run integrates cfg for floor(duration/dt) timesteps. On cancellation or
// a detected divergence it returns the partial result with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	stepper, err := s.newStepper(cfg, g)
	if err != nil {
		return nil, err
	}

	dt := stepper.Dt()
	steps := cfg.Steps()
	result := &Result{
		Domain:    g.Coordinates(),
		History:   make([]grid.Field, 0, steps+1),
		Residuals: make([]float64, 0, steps),
		Times:     make([]float64, 0, steps+1),
		Dt:        dt,
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	log := s.logger.With(zap.Stringer("grid", g), zap.Float64("dt", dt), zap.Bool("smoothed", cfg.Smoothed))
	log.Debug("run starting", zap.Int("steps", steps))

	u := InitialCondition(g, cfg.Omega)
	result.History = append(result.History, u.Clone())
	result.Times = append(result.Times, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			log.Warn("run canceled", zap.Int("step", i))
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		res := stepper.Step(u)
		t := float64(i+1) * dt

		result.Residuals = append(result.Residuals, res)
		result.History = append(result.History, u.Clone())
		result.Times = append(result.Times, t)
		result.Steps++

		for _, m := range s.metrics {
			m.Observe(i, u, res)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, t, u, res)
		}

		if (i+1)%progressEvery == 0 {
			log.Debug("progress", zap.Int("step", i+1), zap.Float64("residual", res))
		}

		if cfg.ValidateState && !u.IsFinite() {
			err := &StepError{Step: i, Time: t, Wrapped: grid.ErrDiverged}
			log.Error("run diverged", zap.Error(err))
			s.collect(result)
			return result, err
		}
	}

	s.collect(result)
	final := 0.0
	if n := len(result.Residuals); n > 0 {
		final = result.Residuals[n-1]
	}
	log.Info("run complete", zap.Int("steps", result.Steps), zap.Float64("final_residual", final))
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
