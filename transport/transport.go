package transport

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/eos"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/utils"
)

// ErrTransportModel signals that a model was evaluated without the dependent
// variables or equation of state it needs
var ErrTransportModel = errors.New("transport model inputs insufficient")

// GasTransportVars holds the transport properties of a state
type GasTransportVars struct {
	BulkViscosity       utils.Matrix
	Viscosity           utils.Matrix
	VolumeViscosity     utils.Matrix
	ThermalConductivity utils.Matrix
	SpeciesDiffusivity  discretization.Fields
}

// TransportModel computes transport properties from a gas state. Models that
// depend on temperature need dv, and some need the equation of state; a nil
// dv or gasEOS where one is needed yields ErrTransportModel.
type TransportModel interface {
	BulkViscosity(cv fluid.ConservedVars, dv *eos.GasDependentVars) (utils.Matrix, error)
	Viscosity(cv fluid.ConservedVars, dv *eos.GasDependentVars) (utils.Matrix, error)
	VolumeViscosity(cv fluid.ConservedVars, dv *eos.GasDependentVars) (utils.Matrix, error)
	ThermalConductivity(cv fluid.ConservedVars, dv *eos.GasDependentVars, gasEOS eos.GasEOS) (utils.Matrix, error)
	SpeciesDiffusivity(cv fluid.ConservedVars, dv *eos.GasDependentVars, gasEOS eos.GasEOS) (discretization.Fields, error)
}

func TransportVars(tm TransportModel, cv fluid.ConservedVars, dv *eos.GasDependentVars,
	gasEOS eos.GasEOS) (tv GasTransportVars, err error) {
	if tv.BulkViscosity, err = tm.BulkViscosity(cv, dv); err != nil {
		return
	}
	if tv.Viscosity, err = tm.Viscosity(cv, dv); err != nil {
		return
	}
	if tv.VolumeViscosity, err = tm.VolumeViscosity(cv, dv); err != nil {
		return
	}
	if tv.ThermalConductivity, err = tm.ThermalConductivity(cv, dv, gasEOS); err != nil {
		return
	}
	tv.SpeciesDiffusivity, err = tm.SpeciesDiffusivity(cv, dv, gasEOS)
	return
}

func constantLike(cv fluid.ConservedVars, val float64) utils.Matrix {
	nr, nc := cv.Dims()
	return utils.NewMatrixConstant(nr, nc, val)
}

// SimpleTransport has uniform, constant properties
type SimpleTransport struct {
	MuBulk, Mu, Kappa float64
	DAlpha            []float64
}

func (st SimpleTransport) BulkViscosity(cv fluid.ConservedVars, _ *eos.GasDependentVars) (utils.Matrix, error) {
	return constantLike(cv, st.MuBulk), nil
}

func (st SimpleTransport) Viscosity(cv fluid.ConservedVars, _ *eos.GasDependentVars) (utils.Matrix, error) {
	return constantLike(cv, st.Mu), nil
}

// VolumeViscosity is the second coefficient lambda = mu_B - 2 mu / 3
func (st SimpleTransport) VolumeViscosity(cv fluid.ConservedVars, _ *eos.GasDependentVars) (utils.Matrix, error) {
	return constantLike(cv, st.MuBulk-2*st.Mu/3), nil
}

func (st SimpleTransport) ThermalConductivity(cv fluid.ConservedVars, _ *eos.GasDependentVars,
	_ eos.GasEOS) (utils.Matrix, error) {
	return constantLike(cv, st.Kappa), nil
}

func (st SimpleTransport) SpeciesDiffusivity(cv fluid.ConservedVars, _ *eos.GasDependentVars,
	_ eos.GasEOS) (D discretization.Fields, err error) {
	for _, d := range st.DAlpha {
		D = append(D, constantLike(cv, d))
	}
	return
}

// PowerLawTransport has temperature dependent properties,
//
//	mu = f beta T^n,  mu_B = alpha mu,  kappa = sigma mu c_v
//
// Species diffusivities are given directly or from Lewis numbers as
// kappa / (rho Le c_p).
type PowerLawTransport struct {
	ScalingFactor, Alpha, Beta, Sigma, N float64
	DAlpha                               []float64
	Lewis                                []float64
}

// NewPowerLawTransport returns the air-like default coefficients
func NewPowerLawTransport() *PowerLawTransport {
	return &PowerLawTransport{ScalingFactor: 1, Alpha: 0.6, Beta: 4.093e-7, Sigma: 2.5, N: .666}
}

func (pl *PowerLawTransport) Viscosity(_ fluid.ConservedVars, dv *eos.GasDependentVars) (mu utils.Matrix, err error) {
	if dv == nil {
		return mu, fmt.Errorf("power law viscosity needs temperature: %w", ErrTransportModel)
	}
	mu = dv.Temperature.Copy().Apply(func(T float64) float64 {
		return pl.ScalingFactor * pl.Beta * math.Pow(T, pl.N)
	})
	return
}

func (pl *PowerLawTransport) BulkViscosity(cv fluid.ConservedVars, dv *eos.GasDependentVars) (mu utils.Matrix, err error) {
	if mu, err = pl.Viscosity(cv, dv); err != nil {
		return
	}
	return mu.Scale(pl.Alpha), nil
}

// VolumeViscosity is lambda = (alpha - 2/3) mu
func (pl *PowerLawTransport) VolumeViscosity(cv fluid.ConservedVars, dv *eos.GasDependentVars) (mu utils.Matrix, err error) {
	if mu, err = pl.Viscosity(cv, dv); err != nil {
		return
	}
	return mu.Scale(pl.Alpha - 2./3.), nil
}

func (pl *PowerLawTransport) ThermalConductivity(cv fluid.ConservedVars, dv *eos.GasDependentVars,
	gasEOS eos.GasEOS) (kappa utils.Matrix, err error) {
	if gasEOS == nil {
		return kappa, fmt.Errorf("power law conductivity needs an equation of state: %w", ErrTransportModel)
	}
	if kappa, err = pl.Viscosity(cv, dv); err != nil {
		return
	}
	return kappa.ElMul(gasEOS.HeatCapacityCv(cv, dv.Temperature)).Scale(pl.Sigma), nil
}

func (pl *PowerLawTransport) SpeciesDiffusivity(cv fluid.ConservedVars, dv *eos.GasDependentVars,
	gasEOS eos.GasEOS) (D discretization.Fields, err error) {
	if len(pl.Lewis) == 0 {
		for _, d := range pl.DAlpha {
			D = append(D, constantLike(cv, d))
		}
		return
	}
	var kappa utils.Matrix
	if kappa, err = pl.ThermalConductivity(cv, dv, gasEOS); err != nil {
		return
	}
	rhoCp := gasEOS.HeatCapacityCp(cv, dv.Temperature).ElMul(cv.Mass)
	for _, le := range pl.Lewis {
		D = append(D, kappa.Copy().ElDiv(rhoCp).Scale(1/le))
	}
	return
}
