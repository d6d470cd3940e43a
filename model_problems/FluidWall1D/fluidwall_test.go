package FluidWall1D

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/runlog"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.N, cfg.K = 2, 4
	return cfg
}

func TestUniformTemperatureIsSteady(t *testing.T) {
	cfg := smallConfig()
	cfg.FluidTemperature, cfg.WallTemperature = 1, 1
	cfg.LeftTemperature, cfg.RightTemperature = 1, 1
	c, err := NewFluidWall(0.4, 0.1, cfg)
	require.NoError(t, err)
	c.Out = io.Discard
	fluidE, wallE := c.EnergyContent()
	require.NoError(t, c.Run(context.Background()))
	assert.InDelta(t, 0.1, c.Time, 1.e-12)
	assert.InDelta(t, 1., c.WallT.Max(), 1.e-10)
	assert.InDelta(t, 1., c.WallT.Min(), 1.e-10)
	assert.InDelta(t, 0., c.CV.Momentum[0].MaxAbs(), 1.e-10)
	fluidE2, wallE2 := c.EnergyContent()
	assert.InDelta(t, fluidE, fluidE2, 1.e-10)
	assert.InDelta(t, wallE, wallE2, 1.e-10)
}

func TestHotGasHeatsWall(t *testing.T) {
	ctx := context.Background()
	l, err := runlog.Open(":memory:")
	require.NoError(t, err)
	defer l.Close()
	c, err := NewFluidWall(0.4, 0.2, smallConfig())
	require.NoError(t, err)
	c.Out, c.Log = io.Discard, l
	fluidE, wallE := c.EnergyContent()
	require.NoError(t, c.Run(ctx))
	fluidE2, wallE2 := c.EnergyContent()
	assert.Less(t, fluidE2, fluidE)
	assert.Greater(t, wallE2, wallE)

	assert.Equal(t, c.Steps, l.Step())
	vals, err := l.Values(ctx, "max_wall_t")
	require.NoError(t, err)
	require.Len(t, vals, c.Steps)
	assert.Greater(t, vals[len(vals)-1], 1.)
}

func TestStableDT(t *testing.T) {
	c, err := NewFluidWall(0.4, 1, smallConfig())
	require.NoError(t, err)
	dt, err := c.StableDT()
	require.NoError(t, err)
	assert.Greater(t, dt, 0.)
	c.Coupling.WallTimeScale = 100
	dtScaled, err := c.StableDT()
	require.NoError(t, err)
	assert.Less(t, dtScaled, dt)
}

func TestConfigErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.K = 0
	_, err := NewFluidWall(0.4, 1, cfg)
	assert.Error(t, err)
}
