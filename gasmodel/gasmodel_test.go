package gasmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/DG1D"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/eos"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/transport"
	"github.com/notargets/gocfd-heat/utils"
)

func TestMakeFluidState(t *testing.T) {
	var (
		gm = GasModel{
			EOS:       eos.NewIdealSingleGas(1.4, 1),
			Transport: transport.SimpleTransport{Mu: 0.1, Kappa: 0.3},
		}
		mass = utils.NewMatrixConstant(2, 3, 2)
		mom  = utils.NewMatrixConstant(2, 3, 4)
		// T = 1.5, v = 2
		energy = utils.NewMatrixConstant(2, 3, 2*1.5/0.4+0.5*2*4)
	)
	fs, err := MakeFluidState(fluid.NewConservedVars(mass, energy, discretization.Fields{mom}), gm)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.Dim())
	assert.True(t, fs.IsViscous())
	assert.InDelta(t, 1.5, fs.Temperature().Max(), 1.e-12)
	assert.InDelta(t, 3., fs.Pressure().Max(), 1.e-12)
	assert.InDelta(t, math.Sqrt(1.4*3/2), fs.SpeedOfSound().Max(), 1.e-12)
	assert.InDelta(t, 2+math.Sqrt(1.4*3/2), fs.WaveSpeed().Min(), 1.e-12)
	assert.InDelta(t, 0.3, fs.ThermalConductivity().Max(), 1.e-14)

	other := fs.WithThermalConductivity(utils.NewMatrixConstant(2, 3, 7))
	assert.Equal(t, 7., other.ThermalConductivity().Max())
	assert.Equal(t, 0.3, fs.ThermalConductivity().Max())

	inviscid, err := MakeFluidState(fs.CV, GasModel{EOS: gm.EOS})
	require.NoError(t, err)
	assert.False(t, inviscid.IsViscous())
	assert.Panics(t, func() { inviscid.ThermalConductivity() })

	_, err = MakeFluidState(fs.CV, GasModel{})
	assert.ErrorIs(t, err, transport.ErrTransportModel)
}

func TestMakeOperatorFluidStates(t *testing.T) {
	var (
		N, K     = 3, 4
		VX, EToV = DG1D.SimpleMesh1D(0, 1, K)
		dc       = discretization.NewSingleVolumeCollection(DG1D.NewElements1D(N, VX, EToV))
		vol      = discretization.VolumeDD(discretization.VolumeAll)
		gm       = GasModel{EOS: eos.NewIdealSingleGas()}
		X        = dc.Nodes(vol)
		mass     = X.Copy().Apply(func(x float64) float64 { return 1 + x })
		cv       = fluid.NewConservedVars(mass, dc.Constant(vol, 2.5e5), discretization.Fields{dc.Zeros(vol)})
	)
	fs, err := MakeFluidState(cv, gm)
	require.NoError(t, err)
	ops, err := MakeOperatorFluidStates(dc, fs, gm, []discretization.BoundaryTag{"left", "right"},
		discretization.DiscrTagQuad, vol)
	require.NoError(t, err)

	nr, nc := dc.Shape(vol.WithDiscrTag(discretization.DiscrTagQuad))
	nrQ, ncQ := ops.VolumeQuad.CV.Dims()
	assert.Equal(t, []int{nr, nc}, []int{nrQ, ncQ})

	require.Len(t, ops.InteriorPairs, 1)
	sp := ops.InteriorPairs[0]
	// Continuous density means matching states across interior faces
	assert.Equal(t, 2*(K-1), sp.Int.CV.Mass.Len())
	assert.InDeltaSlice(t, sp.Int.CV.Mass.DataP, sp.Ext.CV.Mass.DataP, 1.e-12)

	require.Len(t, ops.Boundary, 2)
	assert.InDelta(t, 1., ops.Boundary["left"].MassDensity().Max(), 1.e-12)
	assert.InDelta(t, 2., ops.Boundary["right"].MassDensity().Max(), 1.e-12)
}
