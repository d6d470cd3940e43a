package navierstokes

import (
	"fmt"
	"reflect"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/gasmodel"
	"github.com/notargets/gocfd-heat/utils"
)

// BoundaryContext carries what a boundary needs to build its exterior data:
// the interior state on the base boundary trace DD and, for the viscous
// stage, the interior gradients there
type BoundaryContext struct {
	Dcoll       *discretization.Collection
	DD          discretization.DOFDesc
	GasModel    gasmodel.GasModel
	StateMinus  gasmodel.FluidState
	GradCVMinus fluid.GradCV
	GradTMinus  discretization.Fields
}

// FluidBoundary is a Navier-Stokes boundary condition. Each method returns
// its flux contribution on all faces of the quadrature discretization. The
// set of implementations is closed, every variant is built on
// PrescribedFluidBoundary.
type FluidBoundary interface {
	InviscidDivergenceFlux(bc BoundaryContext, quadTag discretization.DiscrTag) (discretization.Fields, error)
	ViscousDivergenceFlux(bc BoundaryContext, quadTag discretization.DiscrTag) (discretization.Fields, error)
	CVGradientFlux(bc BoundaryContext, quadTag discretization.DiscrTag) (fluid.GradCV, error)
	TemperatureGradientFlux(bc BoundaryContext, quadTag discretization.DiscrTag) (discretization.Fields, error)
	prescribed() *PrescribedFluidBoundary
}

type FluidBoundaryMap map[discretization.BoundaryTag]FluidBoundary

// PrescribedFluidBoundary builds every flux from user supplied exterior
// data. A nil BoundaryState extrapolates the interior state, a nil
// BoundaryTemperature takes the exterior state's temperature and nil
// gradient functions reuse the interior gradients.
type PrescribedFluidBoundary struct {
	BoundaryState               func(bc BoundaryContext) (gasmodel.FluidState, error)
	BoundaryTemperature         func(bc BoundaryContext) (utils.Matrix, error)
	BoundaryGradientTemperature func(bc BoundaryContext) (discretization.Fields, error)
	BoundaryGradientCV          func(bc BoundaryContext) (fluid.GradCV, error)
}

func (b *PrescribedFluidBoundary) prescribed() *PrescribedFluidBoundary { return b }

func (b *PrescribedFluidBoundary) statePlus(bc BoundaryContext) (gasmodel.FluidState, error) {
	if b.BoundaryState == nil {
		return bc.StateMinus, nil
	}
	return b.BoundaryState(bc)
}

func (b *PrescribedFluidBoundary) InviscidDivergenceFlux(bc BoundaryContext,
	quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	var (
		plus gasmodel.FluidState
	)
	if plus, err = b.statePlus(bc); err != nil {
		return
	}
	sp := gasmodel.StateTracePair{DD: bc.DD, Int: bc.StateMinus, Ext: plus}
	return InviscidFluxRusanov(bc.Dcoll, sp, quadTag), nil
}

func (b *PrescribedFluidBoundary) ViscousDivergenceFlux(bc BoundaryContext,
	quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	var (
		plus       gasmodel.FluidState
		gradCVPlus = bc.GradCVMinus
		gradTPlus  = bc.GradTMinus
	)
	if plus, err = b.statePlus(bc); err != nil {
		return
	}
	if b.BoundaryGradientCV != nil {
		if gradCVPlus, err = b.BoundaryGradientCV(bc); err != nil {
			return
		}
	}
	if b.BoundaryGradientTemperature != nil {
		if gradTPlus, err = b.BoundaryGradientTemperature(bc); err != nil {
			return
		}
	}
	sp := gasmodel.StateTracePair{DD: bc.DD, Int: bc.StateMinus, Ext: plus}
	gradTPair := discretization.NewVectorTracePair(bc.DD, bc.GradTMinus, gradTPlus)
	return ViscousFluxCentral(bc.Dcoll, sp, bc.GradCVMinus, gradCVPlus, gradTPair, quadTag), nil
}

func (b *PrescribedFluidBoundary) CVGradientFlux(bc BoundaryContext,
	quadTag discretization.DiscrTag) (flux fluid.GradCV, err error) {
	var (
		plus gasmodel.FluidState
	)
	if plus, err = b.statePlus(bc); err != nil {
		return
	}
	qInt, qExt := bc.StateMinus.CV.ToFields(), plus.CV.ToFields()
	flux = make(fluid.GradCV, len(qInt))
	for c := range qInt {
		flux[c] = diffusion.GradFlux(bc.Dcoll, discretization.NewTracePair(bc.DD, qInt[c], qExt[c]), quadTag)
	}
	return
}

func (b *PrescribedFluidBoundary) TemperatureGradientFlux(bc BoundaryContext,
	quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	var (
		tPlus utils.Matrix
	)
	if b.BoundaryTemperature != nil {
		if tPlus, err = b.BoundaryTemperature(bc); err != nil {
			return
		}
	} else {
		var plus gasmodel.FluidState
		if plus, err = b.statePlus(bc); err != nil {
			return
		}
		tPlus = plus.Temperature()
	}
	tPair := discretization.NewTracePair(bc.DD, bc.StateMinus.Temperature(), tPlus)
	return diffusion.GradFlux(bc.Dcoll, tPair, quadTag), nil
}

// NoSlipState keeps the interior mass, reverses the momentum and sets the
// energy for temperature T, so the face average velocity vanishes
func NoSlipState(bc BoundaryContext, T utils.Matrix) (gasmodel.FluidState, error) {
	var (
		cvMinus = bc.StateMinus.CV
		gasEOS  = bc.GasModel.EOS
	)
	energy := gasEOS.TotalEnergy(cvMinus.Mass, T, gasEOS.KineticEnergy(cvMinus))
	cvPlus := fluid.NewConservedVars(cvMinus.Mass.Copy(), energy, cvMinus.Momentum.Copy().Scale(-1))
	return gasmodel.MakeFluidState(cvPlus, bc.GasModel)
}

// IsothermalNoSlipBoundary is a no-slip wall held at WallTemperature
type IsothermalNoSlipBoundary struct {
	*PrescribedFluidBoundary
	WallTemperature float64
}

func NewIsothermalNoSlipBoundary(wallTemperature float64) (b *IsothermalNoSlipBoundary) {
	b = &IsothermalNoSlipBoundary{WallTemperature: wallTemperature}
	b.PrescribedFluidBoundary = &PrescribedFluidBoundary{
		BoundaryState: func(bc BoundaryContext) (gasmodel.FluidState, error) {
			return NoSlipState(bc, b.wallTemperature(bc))
		},
		BoundaryTemperature: func(bc BoundaryContext) (utils.Matrix, error) {
			return b.wallTemperature(bc), nil
		},
	}
	return
}

func (b *IsothermalNoSlipBoundary) wallTemperature(bc BoundaryContext) utils.Matrix {
	return bc.Dcoll.Constant(bc.DD, b.WallTemperature)
}

// AdiabaticNoSlipBoundary is an insulated no-slip wall. The exterior
// temperature gradient mirrors the normal component so the face average
// heat flux vanishes.
type AdiabaticNoSlipBoundary struct {
	*PrescribedFluidBoundary
}

func NewAdiabaticNoSlipBoundary() (b *AdiabaticNoSlipBoundary) {
	b = &AdiabaticNoSlipBoundary{}
	b.PrescribedFluidBoundary = &PrescribedFluidBoundary{
		BoundaryState: func(bc BoundaryContext) (gasmodel.FluidState, error) {
			return NoSlipState(bc, bc.StateMinus.Temperature())
		},
		BoundaryTemperature: func(bc BoundaryContext) (utils.Matrix, error) {
			return bc.StateMinus.Temperature().Copy(), nil
		},
		BoundaryGradientTemperature: func(bc BoundaryContext) (discretization.Fields, error) {
			n := bc.Dcoll.Normal(bc.DD)
			gn := bc.GradTMinus.Dot(n).Scale(2)
			return bc.GradTMinus.Copy().Subtract(discretization.Times(gn, n)), nil
		},
	}
	return
}

// FarfieldBoundary prescribes a fixed exterior state, given on the base
// boundary trace
type FarfieldBoundary struct {
	*PrescribedFluidBoundary
	CV fluid.ConservedVars
}

func NewFarfieldBoundary(cv fluid.ConservedVars) (b *FarfieldBoundary) {
	b = &FarfieldBoundary{CV: cv}
	b.PrescribedFluidBoundary = &PrescribedFluidBoundary{
		BoundaryState: func(bc BoundaryContext) (fs gasmodel.FluidState, err error) {
			if nr, nc := bc.Dcoll.Shape(bc.DD); !sameShape(b.CV.Mass, nr, nc) {
				return fs, fmt.Errorf("farfield state on %v: %w", bc.DD, diffusion.ErrShapeMismatch)
			}
			return gasmodel.MakeFluidState(b.CV, bc.GasModel)
		},
	}
	return
}

func sameShape(m utils.Matrix, nr, nc int) bool {
	nrM, ncM := m.Dims()
	return nr == nrM && nc == ncM
}

func recognized(b FluidBoundary) bool {
	if b == nil {
		return false
	}
	if v := reflect.ValueOf(b); v.Kind() == reflect.Ptr && v.IsNil() {
		return false
	}
	return b.prescribed() != nil
}

// validateBoundaries runs before any flux work
func validateBoundaries(dcoll *discretization.Collection, ddVol discretization.DOFDesc,
	boundaries FluidBoundaryMap) error {
	for _, btag := range sortedTags(boundaries) {
		if b := boundaries[btag]; !recognized(b) {
			return fmt.Errorf("fluid boundary %q (%T): %w", btag, b, diffusion.ErrUnrecognizedBoundary)
		}
		if !dcoll.HasBoundary(ddVol.Volume, btag) {
			return fmt.Errorf("fluid boundary %q on volume %q: %w", btag, ddVol.Volume, diffusion.ErrUnknownBoundaryTag)
		}
	}
	return nil
}
