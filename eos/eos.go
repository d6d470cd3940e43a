package eos

import (
	"fmt"
	"math"

	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/utils"
)

// GasDependentVars are the state quantities derived from the conserved
// variables by an equation of state
type GasDependentVars struct {
	Temperature  utils.Matrix
	Pressure     utils.Matrix
	SpeedOfSound utils.Matrix
}

// GasEOS relates the conserved state of a gas to its thermodynamic state
type GasEOS interface {
	Pressure(cv fluid.ConservedVars, temperature utils.Matrix) utils.Matrix
	Temperature(cv fluid.ConservedVars) utils.Matrix
	SoundSpeed(cv fluid.ConservedVars, temperature utils.Matrix) utils.Matrix
	InternalEnergy(cv fluid.ConservedVars) utils.Matrix
	KineticEnergy(cv fluid.ConservedVars) utils.Matrix
	// GetInternalEnergy is the specific internal energy at temperature
	GetInternalEnergy(temperature utils.Matrix) utils.Matrix
	// TotalEnergy is the energy density of mass at temperature plus kinetic
	TotalEnergy(mass, temperature, kineticEnergy utils.Matrix) utils.Matrix
	HeatCapacityCv(cv fluid.ConservedVars, temperature utils.Matrix) utils.Matrix
	HeatCapacityCp(cv fluid.ConservedVars, temperature utils.Matrix) utils.Matrix
	GasConst() float64
	Gamma() float64
	DependentVars(cv fluid.ConservedVars) GasDependentVars
}

// IdealSingleGas is a calorically perfect gas,
//
//	p = (gamma-1) (E - rho |v|^2 / 2),  T = p / (rho R)
type IdealSingleGas struct {
	gamma, gasConst float64
}

// NewIdealSingleGas defaults to air, gamma = 1.4 and R = 287.1
func NewIdealSingleGas(gammaO ...float64) *IdealSingleGas {
	var (
		gamma, gasConst = 1.4, 287.1
	)
	switch len(gammaO) {
	case 2:
		gasConst = gammaO[1]
		fallthrough
	case 1:
		gamma = gammaO[0]
	}
	if gamma <= 1 || gasConst <= 0 {
		panic(fmt.Errorf("invalid ideal gas parameters gamma = %v, R = %v", gamma, gasConst))
	}
	return &IdealSingleGas{gamma: gamma, gasConst: gasConst}
}

func (g *IdealSingleGas) Gamma() float64    { return g.gamma }
func (g *IdealSingleGas) GasConst() float64 { return g.gasConst }

func (g *IdealSingleGas) KineticEnergy(cv fluid.ConservedVars) utils.Matrix {
	return cv.Momentum.Norm2().ElDiv(cv.Mass).Scale(0.5)
}

func (g *IdealSingleGas) InternalEnergy(cv fluid.ConservedVars) utils.Matrix {
	return cv.Energy.Copy().Subtract(g.KineticEnergy(cv))
}

func (g *IdealSingleGas) Pressure(cv fluid.ConservedVars, _ utils.Matrix) utils.Matrix {
	return g.InternalEnergy(cv).Scale(g.gamma - 1)
}

func (g *IdealSingleGas) Temperature(cv fluid.ConservedVars) utils.Matrix {
	return g.InternalEnergy(cv).ElDiv(cv.Mass).Scale((g.gamma - 1) / g.gasConst)
}

func (g *IdealSingleGas) SoundSpeed(cv fluid.ConservedVars, temperature utils.Matrix) utils.Matrix {
	return g.Pressure(cv, temperature).ElDiv(cv.Mass).Apply(func(val float64) float64 {
		return math.Sqrt(g.gamma * val)
	})
}

func (g *IdealSingleGas) GetInternalEnergy(temperature utils.Matrix) utils.Matrix {
	return temperature.Copy().Scale(g.gasConst / (g.gamma - 1))
}

func (g *IdealSingleGas) TotalEnergy(mass, temperature, kineticEnergy utils.Matrix) utils.Matrix {
	return g.GetInternalEnergy(temperature).ElMul(mass).Add(kineticEnergy)
}

func (g *IdealSingleGas) HeatCapacityCv(cv fluid.ConservedVars, _ utils.Matrix) utils.Matrix {
	nr, nc := cv.Dims()
	return utils.NewMatrixConstant(nr, nc, g.gasConst/(g.gamma-1))
}

func (g *IdealSingleGas) HeatCapacityCp(cv fluid.ConservedVars, _ utils.Matrix) utils.Matrix {
	nr, nc := cv.Dims()
	return utils.NewMatrixConstant(nr, nc, g.gamma*g.gasConst/(g.gamma-1))
}

func (g *IdealSingleGas) DependentVars(cv fluid.ConservedVars) GasDependentVars {
	T := g.Temperature(cv)
	return GasDependentVars{
		Temperature:  T,
		Pressure:     g.Pressure(cv, T),
		SpeedOfSound: g.SoundSpeed(cv, T),
	}
}
