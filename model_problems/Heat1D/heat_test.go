package Heat1D

import (
	"bytes"
	"context"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/runlog"
)

func sineMode(x float64) float64 { return math.Sin(math.Pi * x) }

func TestHeatDecay(t *testing.T) {
	c := NewHeat(0.1, 0.01, 1, 0, 1, 3, 4, diffusion.BoundaryMap{
		"left":  diffusion.NewDirichletBoundary(0),
		"right": diffusion.NewDirichletBoundary(0),
	}, sineMode)
	c.Out = io.Discard
	require.NoError(t, c.Run(context.Background()))
	assert.InDelta(t, 0.01, c.Time, 1.e-12)
	decay := math.Exp(-math.Pi * math.Pi * c.Time)
	assert.Less(t, c.L2Error(func(x float64) float64 { return decay * sineMode(x) }), 1.e-3)
	assert.Less(t, c.U.Max(), 1.)
}

func TestHeatInsulated(t *testing.T) {
	// Zero flux at both ends conserves the integral
	c := NewHeat(0.1, 0.02, 0.5, 0, 1, 3, 6, diffusion.BoundaryMap{
		"left":  diffusion.NewNeumannBoundary(0),
		"right": diffusion.NewNeumannBoundary(0),
	}, func(x float64) float64 { return 1 + math.Cos(math.Pi*x) })
	c.Out = io.Discard
	before := c.El.Integrate(c.U)
	require.NoError(t, c.Run(context.Background()))
	assert.InDelta(t, before, c.El.Integrate(c.U), 1.e-10)
}

func TestHeatRunLog(t *testing.T) {
	ctx := context.Background()
	l, err := runlog.Open(":memory:")
	require.NoError(t, err)
	defer l.Close()
	var out bytes.Buffer
	c := NewHeat(0.1, 0.005, 1, 0, 1, 2, 4, diffusion.BoundaryMap{
		"left":  diffusion.NewDirichletBoundary(0),
		"right": diffusion.NewDirichletBoundary(0),
	}, sineMode)
	c.Out, c.Log = &out, l
	require.NoError(t, c.Run(ctx))
	assert.Contains(t, out.String(), "Heat equation")
	assert.Equal(t, c.Steps, l.Step())
	sums, err := l.ValueSums(ctx)
	require.NoError(t, err)
	assert.Greater(t, sums["max_u"], 0.)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	c = NewHeat(0.1, 0.005, 1, 0, 1, 2, 4, diffusion.BoundaryMap{
		"left":  diffusion.NewDirichletBoundary(0),
		"right": diffusion.NewDirichletBoundary(0),
	}, sineMode)
	c.Out = io.Discard
	assert.ErrorIs(t, c.Run(cancelled), context.Canceled)
}

func TestConvergence(t *testing.T) {
	var out bytes.Buffer
	cs, err := SineDecay(context.Background(), 0.1, 0.01, 1, 2, []int{4, 8}, &out)
	require.NoError(t, err)
	require.Len(t, cs.L2, 2)
	rates := cs.Rates()
	require.Len(t, rates, 1)
	// Refinement must reduce the error at well above first order
	assert.Greater(t, rates[0], 1.5)
	assert.Contains(t, out.String(), "Heat1D sine decay")
}
