package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/InputParameters"
	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/runlog"
)

func parse(t *testing.T, input string) *InputParameters.InputParameters1D {
	ip := &InputParameters.InputParameters1D{}
	require.NoError(t, ip.Parse([]byte(input)))
	return ip
}

func TestHeatRunFromInput(t *testing.T) {
	ip := parse(t, `
Title: Rod
CFL: 0.1
FinalTime: 0.002
PolynomialOrder: 2
Elements: 4
Kappa: 2
InitType: Constant
InitValue: 3
BCs:
  left:
    Type: Dirichlet
    Value: 3
  right:
    Type: Neumann
    Value: 0
`)
	hr, err := heatRunFromInput(ip)
	require.NoError(t, err)
	assert.Equal(t, 4, hr.K)
	assert.Equal(t, 2, hr.N)
	assert.Equal(t, 2., hr.Kappa)
	assert.Equal(t, 1., hr.XMax)
	assert.IsType(t, &diffusion.NeumannBoundary{}, hr.Boundaries["right"])

	hr.RunLog = filepath.Join(t.TempDir(), "heat.sqlite")
	var out bytes.Buffer
	c, err := RunHeat(context.Background(), hr, &out)
	require.NoError(t, err)
	// A constant matching its boundary value stays put
	assert.InDelta(t, 3., c.U.Max(), 1.e-10)
	assert.InDelta(t, 3., c.U.Min(), 1.e-10)

	l, err := runlog.Open(hr.RunLog)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, c.Steps, l.Step())

	hr.InitType = "Square"
	_, err = RunHeat(context.Background(), hr, &out)
	assert.Error(t, err)

	ip.BCs["left"] = InputParameters.BCEntry{Type: "AdiabaticNoSlip"}
	_, err = heatRunFromInput(ip)
	assert.ErrorIs(t, err, diffusion.ErrUnrecognizedBoundary)
}

func TestCoupledRunFromInput(t *testing.T) {
	ip := parse(t, `
CFL: 0.3
FinalTime: 0.05
PolynomialOrder: 2
Elements: 3
Fluid:
  Temperature: 1.5
Wall:
  Conductivity: 0.8
  TimeScale: 4
BCs:
  left:
    Type: IsothermalNoSlip
    Value: 1.5
  right:
    Type: Neumann
`)
	cr, err := coupledRunFromInput(ip)
	require.NoError(t, err)
	assert.Equal(t, 3, cr.Config.K)
	assert.Equal(t, 1.5, cr.Config.LeftTemperature)
	assert.Equal(t, 0., cr.Config.RightTemperature)
	assert.Equal(t, 0.8, cr.Config.WallConductivity)
	assert.Equal(t, 4., cr.Config.WallTimeScale)
	assert.Equal(t, 1.4, cr.Config.Gamma)

	var out bytes.Buffer
	c, err := RunCoupled(context.Background(), cr, &out)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, c.Time, 1.e-12)
	assert.Contains(t, out.String(), "wall energy")

	ip.BCs["right"] = InputParameters.BCEntry{Type: "Neumann", Value: 2}
	_, err = coupledRunFromInput(ip)
	assert.Error(t, err)
	ip.BCs["right"] = InputParameters.BCEntry{Type: "Dirichlet", Value: 1}
	ip.BCs["left"] = InputParameters.BCEntry{Type: "Dirichlet", Value: 1}
	_, err = coupledRunFromInput(ip)
	assert.Error(t, err)
}
