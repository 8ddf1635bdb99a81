package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/sim"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseMDTs(t *testing.T) {
	variants, err := ParseMDTs("2, 5,10")
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, "mdt=5", variants[1].Name)

	cfg := sim.DefaultConfig()
	variants[2].Apply(&cfg)
	assert.True(t, cfg.Smoothed)
	assert.Equal(t, 10.0, cfg.MDT)
}

func TestParseCFLs(t *testing.T) {
	variants, err := ParseCFLs("0.5,1.5")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "cfl=0.5", variants[0].Name)

	cfg := sim.DefaultConfig()
	variants[1].Apply(&cfg)
	assert.Equal(t, 1.5, cfg.CFL)
	assert.False(t, cfg.Smoothed)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseMDTs("2,x")
	assert.Error(t, err)

	_, err = ParseCFLs(" , ")
	assert.Error(t, err)
}

func TestRunKeepsVariantOrder(t *testing.T) {
	variants, err := ParseMDTs("1,2,4,10")
	require.NoError(t, err)

	base := sim.DefaultConfig()
	summaries, err := Run(context.Background(), base, variants, 2, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	for i, s := range summaries {
		assert.Equal(t, variants[i].Name, s.Name)
		assert.NoError(t, s.Err)
		assert.Equal(t, 6, s.Steps)
		assert.True(t, s.Config.Smoothed)
		assert.Contains(t, s.Metrics, "convergence")
	}
	assert.Equal(t, 10.0, summaries[3].Config.MDT)
	assert.False(t, base.Smoothed)
}

func TestRunMatchesSequentialRun(t *testing.T) {
	variants, err := ParseCFLs("0.5,1")
	require.NoError(t, err)

	base := sim.DefaultConfig()
	base.Periodic = true
	summaries, err := Run(context.Background(), base, variants, 0)
	require.NoError(t, err)

	for i, v := range variants {
		cfg := base
		v.Apply(&cfg)
		result, err := sim.RunSimulation(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, result.Residuals[len(result.Residuals)-1], summaries[i].FinalResidual)
		assert.Equal(t, result.Final().MaxAbs(), summaries[i].MaxAbs)
	}
}

func TestRunRecordsPerRunErrors(t *testing.T) {
	variants := []Variant{
		{Name: "ok"},
		{Name: "bad", Apply: func(c *sim.Config) { c.Points = 2 }},
	}

	summaries, err := Run(context.Background(), sim.DefaultConfig(), variants, 1)
	require.NoError(t, err)
	assert.NoError(t, summaries[0].Err)
	assert.ErrorIs(t, summaries[1].Err, grid.ErrTooFewPoints)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants, err := ParseMDTs("2,4")
	require.NoError(t, err)

	summaries, err := Run(ctx, sim.DefaultConfig(), variants, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, summaries, 2)
}
