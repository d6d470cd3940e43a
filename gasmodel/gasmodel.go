package gasmodel

import (
	"fmt"
	"math"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/eos"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/transport"
	"github.com/notargets/gocfd-heat/utils"
)

// GasModel bundles the equation of state with an optional transport model
type GasModel struct {
	EOS       eos.GasEOS
	Transport transport.TransportModel
}

// FluidState is a conserved state with its dependent and, for viscous gas
// models, transport variables
type FluidState struct {
	CV fluid.ConservedVars
	DV eos.GasDependentVars
	TV *transport.GasTransportVars
}

// MakeFluidState evaluates the dependent and transport variables of cv
func MakeFluidState(cv fluid.ConservedVars, gm GasModel) (fs FluidState, err error) {
	if gm.EOS == nil {
		return fs, fmt.Errorf("gas model without an equation of state: %w", transport.ErrTransportModel)
	}
	fs = FluidState{CV: cv, DV: gm.EOS.DependentVars(cv)}
	if gm.Transport != nil {
		var tv transport.GasTransportVars
		if tv, err = transport.TransportVars(gm.Transport, cv, &fs.DV, gm.EOS); err != nil {
			return
		}
		fs.TV = &tv
	}
	return
}

func (fs FluidState) Dim() int                        { return fs.CV.Dim() }
func (fs FluidState) MassDensity() utils.Matrix       { return fs.CV.Mass }
func (fs FluidState) Temperature() utils.Matrix       { return fs.DV.Temperature }
func (fs FluidState) Pressure() utils.Matrix          { return fs.DV.Pressure }
func (fs FluidState) SpeedOfSound() utils.Matrix      { return fs.DV.SpeedOfSound }
func (fs FluidState) Velocity() discretization.Fields { return fs.CV.Velocity() }
func (fs FluidState) IsViscous() bool                 { return fs.TV != nil }

// ThermalConductivity panics for an inviscid state
func (fs FluidState) ThermalConductivity() utils.Matrix { return fs.tv().ThermalConductivity }
func (fs FluidState) Viscosity() utils.Matrix           { return fs.tv().Viscosity }
func (fs FluidState) VolumeViscosity() utils.Matrix     { return fs.tv().VolumeViscosity }

func (fs FluidState) tv() *transport.GasTransportVars {
	if fs.TV == nil {
		panic(fmt.Errorf("transport variables requested from an inviscid fluid state"))
	}
	return fs.TV
}

// WithThermalConductivity returns a copy of the state whose conductivity is
// replaced by kappa
func (fs FluidState) WithThermalConductivity(kappa utils.Matrix) FluidState {
	tv := *fs.tv()
	tv.ThermalConductivity = kappa
	fs.TV = &tv
	return fs
}

// WaveSpeed is |v| + c
func (fs FluidState) WaveSpeed() utils.Matrix {
	return fs.CV.Velocity().Norm2().Apply(math.Sqrt).Add(fs.DV.SpeedOfSound)
}

// ProjectFluidState projects the conserved variables of fs from src to dst
// and evaluates the state there
func ProjectFluidState(dcoll *discretization.Collection, src, dst discretization.DOFDesc,
	fs FluidState, gm GasModel) (FluidState, error) {
	return MakeFluidState(fs.CV.Project(dcoll, src, dst), gm)
}

// StateTracePair pairs the fluid states on either side of a trace
type StateTracePair struct {
	DD       discretization.DOFDesc
	Int, Ext FluidState
}

// OperatorStates are the states an operator evaluation needs beyond the
// volume state itself, computed once and shared between the gradient and
// flux stages
type OperatorStates struct {
	VolumeQuad    FluidState
	InteriorPairs []StateTracePair
	Boundary      map[discretization.BoundaryTag]FluidState
}

// MakeOperatorFluidStates evaluates the state on the quadrature volume of
// ddVol, on both sides of its interior faces and on the interior side of each
// boundary in btags
func MakeOperatorFluidStates(dcoll *discretization.Collection, volState FluidState, gm GasModel,
	btags []discretization.BoundaryTag, quadTag discretization.DiscrTag,
	ddVol discretization.DOFDesc) (ops OperatorStates, err error) {
	var (
		ddVolQuad = ddVol.WithDiscrTag(quadTag)
		cvInt     discretization.Fields
		cvExt     discretization.Fields
		ddInt     discretization.DOFDesc
	)
	if ops.VolumeQuad, err = ProjectFluidState(dcoll, ddVol, ddVolQuad, volState, gm); err != nil {
		return
	}
	for i, comp := range volState.CV.ToFields() {
		tps := dcoll.InteriorTracePairs(ddVol, comp, discretization.CommTag(fmt.Sprintf("fluid_cv_%d", i)))
		if len(tps) == 0 {
			break
		}
		ddInt = tps[0].DD
		cvInt = append(cvInt, tps[0].Int)
		cvExt = append(cvExt, tps[0].Ext)
	}
	if len(cvInt) != 0 {
		var sp StateTracePair
		sp.DD = ddInt
		if sp.Int, err = MakeFluidState(fluid.FromFields(cvInt), gm); err != nil {
			return
		}
		if sp.Ext, err = MakeFluidState(fluid.FromFields(cvExt), gm); err != nil {
			return
		}
		ops.InteriorPairs = []StateTracePair{sp}
	}
	ops.Boundary = make(map[discretization.BoundaryTag]FluidState, len(btags))
	for _, btag := range btags {
		if ops.Boundary[btag], err = ProjectFluidState(dcoll, ddVol, ddVol.Trace(btag), volState, gm); err != nil {
			return
		}
	}
	return
}
