package multiphysics

import (
	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/gasmodel"
	"github.com/notargets/gocfd-heat/navierstokes"
	"github.com/notargets/gocfd-heat/utils"
)

// InterfaceFluidBoundary couples the fluid to a wall. The exterior state
// keeps the interior mass, reverses the momentum, takes its energy from the
// wall temperature and carries the wall conductivity. ExtT, ExtGradT and
// ExtKappa are fields on the base boundary trace.
type InterfaceFluidBoundary struct {
	*navierstokes.PrescribedFluidBoundary
	ExtT     utils.Matrix
	ExtGradT discretization.Fields
	ExtKappa utils.Matrix
}

func NewInterfaceFluidBoundary(extT utils.Matrix, extGradT discretization.Fields,
	extKappa utils.Matrix) (b *InterfaceFluidBoundary) {
	b = &InterfaceFluidBoundary{ExtT: extT, ExtGradT: extGradT, ExtKappa: extKappa}
	b.PrescribedFluidBoundary = &navierstokes.PrescribedFluidBoundary{
		BoundaryState:               b.externalState,
		BoundaryTemperature:         b.externalTemperature,
		BoundaryGradientTemperature: b.externalGradTemperature,
	}
	return
}

func (b *InterfaceFluidBoundary) externalState(bc navierstokes.BoundaryContext) (fs gasmodel.FluidState, err error) {
	if fs, err = navierstokes.NoSlipState(bc, b.ExtT); err != nil {
		return
	}
	return fs.WithThermalConductivity(b.ExtKappa), nil
}

func (b *InterfaceFluidBoundary) externalTemperature(_ navierstokes.BoundaryContext) (utils.Matrix, error) {
	return b.ExtT, nil
}

func (b *InterfaceFluidBoundary) externalGradTemperature(_ navierstokes.BoundaryContext) (discretization.Fields, error) {
	return b.ExtGradT, nil
}

// NewInterfaceWallBoundary couples the wall to the fluid through the fluid
// side temperature, temperature gradient and conductivity
func NewInterfaceWallBoundary(uExt utils.Matrix, gradUExt discretization.Fields,
	kappaExt utils.Matrix) *diffusion.InterfaceBoundary {
	return diffusion.NewInterfaceBoundary(uExt, gradUExt, kappaExt)
}
