package multiphysics

import (
	"fmt"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// WallModel holds the material properties of a solid wall, as base volume
// fields of the wall volume
type WallModel struct {
	Density             utils.Matrix
	HeatCapacity        utils.Matrix
	ThermalConductivity utils.Matrix
}

// NewWallModel builds a wall of uniform properties on ddVol
func NewWallModel(dcoll *discretization.Collection, ddVol discretization.DOFDesc,
	density, heatCapacity, thermalConductivity float64) WallModel {
	return WallModel{
		Density:             dcoll.Constant(ddVol, density),
		HeatCapacity:        dcoll.Constant(ddVol, heatCapacity),
		ThermalConductivity: dcoll.Constant(ddVol, thermalConductivity),
	}
}

// ThermalDiffusivity is kappa / (rho c_p)
func (wm WallModel) ThermalDiffusivity() utils.Matrix {
	return wm.ThermalConductivity.Copy().ElDiv(wm.Density).ElDiv(wm.HeatCapacity)
}

func (wm WallModel) check(dcoll *discretization.Collection, ddVol discretization.DOFDesc) error {
	nr, nc := dcoll.Shape(ddVol)
	for _, f := range []struct {
		name string
		m    utils.Matrix
	}{{"density", wm.Density}, {"heat capacity", wm.HeatCapacity}, {"thermal conductivity", wm.ThermalConductivity}} {
		if f.m.IsEmpty() {
			return fmt.Errorf("wall %s missing: %w", f.name, diffusion.ErrMissingArgument)
		}
		if nrF, ncF := f.m.Dims(); nrF != nr || ncF != nc {
			return fmt.Errorf("wall %s [%d,%d] on %v: %w", f.name, nrF, ncF, ddVol, diffusion.ErrShapeMismatch)
		}
	}
	return nil
}

// HeatOperator is the wall temperature equation
//
//	dT/dt = div(kappa grad(T)) / (rho c_p)
func HeatOperator(dcoll *discretization.Collection, wm WallModel, boundaries diffusion.BoundaryMap,
	temperature utils.Matrix, opts ...diffusion.Option) (rhs utils.Matrix, err error) {
	var (
		diffT utils.Matrix
	)
	if diffT, _, err = diffusion.DiffusionOperator(dcoll, wm.ThermalConductivity, boundaries, temperature,
		opts...); err != nil {
		return
	}
	return diffT.ElDiv(wm.Density).ElDiv(wm.HeatCapacity), nil
}
