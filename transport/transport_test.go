package transport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/eos"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/utils"
)

func testState(gas eos.GasEOS) (cv fluid.ConservedVars, dv eos.GasDependentVars) {
	rho := utils.NewMatrix(3, 1, []float64{1, 1.5, 2})
	T := utils.NewMatrix(3, 1, []float64{300, 400, 500})
	cv = fluid.NewConservedVars(rho, gas.TotalEnergy(rho, T, utils.NewMatrix(3, 1)),
		discretization.Fields{utils.NewMatrix(3, 1)})
	return cv, gas.DependentVars(cv)
}

func TestSimpleTransport(t *testing.T) {
	gas := eos.NewIdealSingleGas()
	cv, _ := testState(gas)
	st := SimpleTransport{MuBulk: 0.3, Mu: 0.6, Kappa: 2, DAlpha: []float64{1e-3, 2e-3}}
	// Simple properties need neither dv nor an EOS
	tv, err := TransportVars(st, cv, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.6, tv.Viscosity.Max())
	assert.Equal(t, 0.3, tv.BulkViscosity.Min())
	assert.InDelta(t, 0.3-0.4, tv.VolumeViscosity.Max(), 1.e-15)
	assert.Equal(t, 2., tv.ThermalConductivity.At(2, 0))
	require.Len(t, tv.SpeciesDiffusivity, 2)
	assert.Equal(t, 2e-3, tv.SpeciesDiffusivity[1].At(0, 0))
	nr, nc := tv.ThermalConductivity.Dims()
	assert.Equal(t, [2]int{3, 1}, [2]int{nr, nc})
}

func TestPowerLawTransport(t *testing.T) {
	gas := eos.NewIdealSingleGas()
	cv, dv := testState(gas)
	pl := NewPowerLawTransport()

	_, err := pl.Viscosity(cv, nil)
	assert.ErrorIs(t, err, ErrTransportModel)
	_, err = pl.ThermalConductivity(cv, &dv, nil)
	assert.ErrorIs(t, err, ErrTransportModel)
	_, err = TransportVars(pl, cv, nil, gas)
	assert.ErrorIs(t, err, ErrTransportModel)

	tv, err := TransportVars(pl, cv, &dv, gas)
	require.NoError(t, err)
	for i, T := range []float64{300, 400, 500} {
		mu := 4.093e-7 * math.Pow(T, .666)
		assert.InEpsilon(t, mu, tv.Viscosity.DataP[i], 1.e-10)
		assert.InEpsilon(t, 0.6*mu, tv.BulkViscosity.DataP[i], 1.e-10)
		assert.InEpsilon(t, (0.6-2./3.)*mu, tv.VolumeViscosity.DataP[i], 1.e-10)
		assert.InEpsilon(t, 2.5*mu*287.1/0.4, tv.ThermalConductivity.DataP[i], 1.e-10)
	}
	assert.Len(t, tv.SpeciesDiffusivity, 0)

	pl.Lewis = []float64{1, 2}
	D, err := pl.SpeciesDiffusivity(cv, &dv, gas)
	require.NoError(t, err)
	require.Len(t, D, 2)
	cp := 1.4 * 287.1 / 0.4
	for i, rho := range cv.Mass.DataP {
		assert.InEpsilon(t, tv.ThermalConductivity.DataP[i]/(rho*cp), D[0].DataP[i], 1.e-10)
		assert.InEpsilon(t, D[0].DataP[i]/2, D[1].DataP[i], 1.e-10)
	}
	_, err = pl.SpeciesDiffusivity(cv, &dv, nil)
	assert.ErrorIs(t, err, ErrTransportModel)
}
