// Package sweep runs independent simulations concurrently, one per
// parameter variant.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/advsim/internal/metrics"
	"github.com/san-kum/advsim/internal/sim"
)

// Variant derives one run from the base configuration.
type Variant struct {
	Name  string
	Apply func(*sim.Config)
}

// Summary condenses one run. Err holds a per-run failure such as a
// rejected configuration or a detected divergence.
type Summary struct {
	Name          string
	Config        sim.Config
	Steps         int
	FinalResidual float64
	MaxAbs        float64
	Metrics       map[string]float64
	Err           error
}

type options struct {
	logger *zap.Logger
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run executes every variant against a copy of base with at most limit
// runs in flight (GOMAXPROCS when limit < 1). Summaries keep the order of
// variants. A failing run does not stop the others; only cancellation of
// ctx is returned as an error.
func Run(ctx context.Context, base sim.Config, variants []Variant, limit int, opts ...Option) ([]Summary, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	summaries := make([]Summary, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range variants {
		i, v := i, v
		cfg := base
		cfg.Alpha = append([]float64(nil), base.Alpha...)
		if v.Apply != nil {
			v.Apply(&cfg)
		}

		g.Go(func() error {
			summaries[i] = runOne(gctx, v.Name, cfg, o.logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summaries, err
	}
	return summaries, ctx.Err()
}

func runOne(ctx context.Context, name string, cfg sim.Config, logger *zap.Logger) Summary {
	sum := Summary{Name: name, Config: cfg}

	g, err := cfg.Grid()
	if err != nil {
		sum.Err = err
		return sum
	}

	s := sim.New(sim.WithLogger(logger.With(zap.String("variant", name))))
	for _, m := range metrics.Defaults(g) {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, cfg)
	sum.Err = err
	if result == nil {
		return sum
	}

	sum.Steps = result.Steps
	sum.Metrics = result.Metrics
	sum.MaxAbs = result.Final().MaxAbs()
	if n := len(result.Residuals); n > 0 {
		sum.FinalResidual = result.Residuals[n-1]
	}
	return sum
}

// ParseMDTs builds smoothed variants from a comma separated list of mdt
// values, e.g. "2,5,10".
func ParseMDTs(list string) ([]Variant, error) {
	values, err := parseList(list)
	if err != nil {
		return nil, fmt.Errorf("parse mdt list: %w", err)
	}
	variants := make([]Variant, len(values))
	for i, mdt := range values {
		variants[i] = Variant{
			Name: "mdt=" + strconv.FormatFloat(mdt, 'g', -1, 64),
			Apply: func(c *sim.Config) {
				c.Smoothed = true
				c.MDT = mdt
			},
		}
	}
	return variants, nil
}

// ParseCFLs builds variants from a comma separated list of CFL numbers.
func ParseCFLs(list string) ([]Variant, error) {
	values, err := parseList(list)
	if err != nil {
		return nil, fmt.Errorf("parse cfl list: %w", err)
	}
	variants := make([]Variant, len(values))
	for i, cfl := range values {
		variants[i] = Variant{
			Name:  "cfl=" + strconv.FormatFloat(cfl, 'g', -1, 64),
			Apply: func(c *sim.Config) { c.CFL = cfl },
		}
	}
	return variants, nil
}

func parseList(list string) ([]float64, error) {
	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty list %q", list)
	}
	return values, nil
}
