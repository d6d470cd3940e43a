package navierstokes

import (
	"fmt"
	"sort"

	"github.com/notargets/gocfd-heat/diffusion"
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/gasmodel"
)

// Communication tags for the interior exchanges of the fluid operators
const (
	GradCVTag discretization.CommTag = "ns_grad_cv"
	GradTTag  discretization.CommTag = "ns_grad_t"
)

type Option func(*options)

type options struct {
	quadTag discretization.DiscrTag
	volume  discretization.DOFDesc
	ops     *gasmodel.OperatorStates
	gradCV  fluid.GradCV
	gradT   discretization.Fields
}

func newOptions(opts []Option) (o options) {
	o = options{
		quadTag: discretization.DiscrTagBase,
		volume:  discretization.VolumeDD(discretization.VolumeAll),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return
}

func WithQuadratureTag(quadTag discretization.DiscrTag) Option {
	return func(o *options) { o.quadTag = quadTag }
}

func WithVolume(dd discretization.DOFDesc) Option {
	return func(o *options) { o.volume = dd }
}

// WithOperatorStates reuses states from gasmodel.MakeOperatorFluidStates,
// which must cover every boundary passed to the operator
func WithOperatorStates(ops *gasmodel.OperatorStates) Option {
	return func(o *options) { o.ops = ops }
}

// WithGradCV supplies a precomputed gradient of the conserved variables
func WithGradCV(gradCV fluid.GradCV) Option {
	return func(o *options) { o.gradCV = gradCV }
}

// WithGradT supplies a precomputed temperature gradient
func WithGradT(gradT discretization.Fields) Option {
	return func(o *options) { o.gradT = gradT }
}

type prepared struct {
	ddVol, ddVolQuad, ddAllFacesQuad discretization.DOFDesc
	ops                              gasmodel.OperatorStates
}

func prepare(dcoll *discretization.Collection, gm gasmodel.GasModel, boundaries FluidBoundaryMap,
	state gasmodel.FluidState, o options) (p prepared, err error) {
	if !o.volume.IsVolume() {
		err = fmt.Errorf("operator volume %v is a trace: %w", o.volume, diffusion.ErrUnexpectedArgument)
		return
	}
	p.ddVol = o.volume.WithDiscrTag(discretization.DiscrTagBase)
	p.ddVolQuad = p.ddVol.WithDiscrTag(o.quadTag)
	p.ddAllFacesQuad = p.ddVolQuad.Trace(discretization.FaceRestrAll)
	if err = validateBoundaries(dcoll, p.ddVol, boundaries); err != nil {
		return
	}
	nr, nc := dcoll.Shape(p.ddVol)
	if !sameShape(state.CV.Mass, nr, nc) {
		err = fmt.Errorf("fluid state on %v: %w", p.ddVol, diffusion.ErrShapeMismatch)
		return
	}
	if o.ops != nil {
		p.ops = *o.ops
		for _, btag := range sortedTags(boundaries) {
			if _, ok := p.ops.Boundary[btag]; !ok {
				err = fmt.Errorf("operator states lack boundary %q: %w", btag, diffusion.ErrMissingArgument)
				return
			}
		}
		return
	}
	p.ops, err = gasmodel.MakeOperatorFluidStates(dcoll, state, gm, sortedTags(boundaries), o.quadTag, p.ddVol)
	return
}

func (p prepared) context(dcoll *discretization.Collection, gm gasmodel.GasModel,
	btag discretization.BoundaryTag) BoundaryContext {
	return BoundaryContext{
		Dcoll:      dcoll,
		DD:         p.ddVol.Trace(btag),
		GasModel:   gm,
		StateMinus: p.ops.Boundary[btag],
	}
}

// weakGrad is M^-1 [ (-u, grad(phi)) - <flux, phi> ]
func (p prepared) weakGrad(dcoll *discretization.Collection, u discretization.Fields,
	fluxSum []discretization.Fields) (grad []discretization.Fields) {
	grad = make([]discretization.Fields, len(u))
	for c := range u {
		grad[c] = dcoll.InverseMassFields(p.ddVol,
			dcoll.WeakLocalGrad(p.ddVol, u[c].Copy().Scale(-1)).
				Subtract(dcoll.FaceMassFields(p.ddAllFacesQuad, fluxSum[c])))
	}
	return
}

// GradCVOperator computes the gradient of every conserved component with
// central fluxes
func GradCVOperator(dcoll *discretization.Collection, gm gasmodel.GasModel, boundaries FluidBoundaryMap,
	state gasmodel.FluidState, opts ...Option) (gradCV fluid.GradCV, err error) {
	var (
		o = newOptions(opts)
		p prepared
	)
	if p, err = prepare(dcoll, gm, boundaries, state, o); err != nil {
		return
	}
	q := state.CV.ToFields()
	fluxSum := make([]discretization.Fields, len(q))
	for c := range fluxSum {
		fluxSum[c] = dcoll.ZerosFields(p.ddAllFacesQuad, dcoll.Dim)
	}
	for _, sp := range p.ops.InteriorPairs {
		qInt, qExt := sp.Int.CV.ToFields(), sp.Ext.CV.ToFields()
		for c := range q {
			fluxSum[c].Add(diffusion.GradFlux(dcoll, discretization.NewTracePair(sp.DD, qInt[c], qExt[c]), o.quadTag))
		}
	}
	for _, btag := range sortedTags(boundaries) {
		var flux fluid.GradCV
		if flux, err = boundaries[btag].CVGradientFlux(p.context(dcoll, gm, btag), o.quadTag); err != nil {
			return nil, fmt.Errorf("state gradient flux on boundary %q: %w", btag, err)
		}
		for c := range q {
			fluxSum[c].Add(flux[c])
		}
	}
	return p.weakGrad(dcoll, q, fluxSum), nil
}

// GradTOperator computes the temperature gradient with central fluxes
func GradTOperator(dcoll *discretization.Collection, gm gasmodel.GasModel, boundaries FluidBoundaryMap,
	state gasmodel.FluidState, opts ...Option) (gradT discretization.Fields, err error) {
	var (
		o = newOptions(opts)
		p prepared
	)
	if p, err = prepare(dcoll, gm, boundaries, state, o); err != nil {
		return
	}
	fluxSum := dcoll.ZerosFields(p.ddAllFacesQuad, dcoll.Dim)
	for _, sp := range p.ops.InteriorPairs {
		tPair := discretization.NewTracePair(sp.DD, sp.Int.Temperature(), sp.Ext.Temperature())
		fluxSum.Add(diffusion.GradFlux(dcoll, tPair, o.quadTag))
	}
	for _, btag := range sortedTags(boundaries) {
		var flux discretization.Fields
		if flux, err = boundaries[btag].TemperatureGradientFlux(p.context(dcoll, gm, btag), o.quadTag); err != nil {
			return nil, fmt.Errorf("temperature gradient flux on boundary %q: %w", btag, err)
		}
		fluxSum.Add(flux)
	}
	return p.weakGrad(dcoll, discretization.Fields{state.Temperature()},
		[]discretization.Fields{fluxSum})[0], nil
}

// NSOperator computes the right hand side of the compressible Navier-Stokes
// equations,
//
//	dq/dt = M^-1 [ (F_I - F_V, grad(phi)) - <(F_I - F_V)* . n, phi> ]
//
// with Rusanov inviscid and central viscous fluxes. A gas model without a
// transport model gives the Euler equations.
func NSOperator(dcoll *discretization.Collection, gm gasmodel.GasModel, state gasmodel.FluidState,
	boundaries FluidBoundaryMap, opts ...Option) (rhs fluid.ConservedVars, err error) {
	var (
		o       = newOptions(opts)
		p       prepared
		viscous = state.IsViscous()
		gradCV  = o.gradCV
		gradT   = o.gradT
	)
	if p, err = prepare(dcoll, gm, boundaries, state, o); err != nil {
		return
	}
	gradOpts := append(append([]Option(nil), opts...), WithOperatorStates(&p.ops))
	if viscous && gradCV == nil {
		if gradCV, err = GradCVOperator(dcoll, gm, boundaries, state, gradOpts...); err != nil {
			return
		}
	}
	if viscous && gradT == nil {
		if gradT, err = GradTOperator(dcoll, gm, boundaries, state, gradOpts...); err != nil {
			return
		}
	}
	if viscous {
		if err = checkGradients(dcoll, p.ddVol, state, gradCV, gradT); err != nil {
			return
		}
	}
	nComp := state.CV.NumComponents()

	volFlux := InviscidFlux(p.ops.VolumeQuad)
	if viscous {
		vf := ViscousFlux(p.ops.VolumeQuad,
			gradCV.Project(dcoll, p.ddVol, p.ddVolQuad), dcoll.ProjectFields(p.ddVol, p.ddVolQuad, gradT))
		for c := range volFlux {
			volFlux[c].Subtract(vf[c])
		}
	}

	fluxSum := dcoll.ZerosFields(p.ddAllFacesQuad, nComp)
	for _, sp := range p.ops.InteriorPairs {
		fluxSum.Add(InviscidFluxRusanov(dcoll, sp, o.quadTag))
		if viscous {
			gradCVInt, gradCVExt := interiorGradCVPairs(dcoll, p.ddVol, gradCV)
			gradTPair := dcoll.InteriorVectorTracePairs(p.ddVol, gradT, GradTTag)[0]
			fluxSum.Subtract(ViscousFluxCentral(dcoll, sp, gradCVInt, gradCVExt, gradTPair, o.quadTag))
		}
	}
	for _, btag := range sortedTags(boundaries) {
		var (
			bc   = p.context(dcoll, gm, btag)
			flux discretization.Fields
		)
		if flux, err = boundaries[btag].InviscidDivergenceFlux(bc, o.quadTag); err != nil {
			return rhs, fmt.Errorf("inviscid flux on boundary %q: %w", btag, err)
		}
		fluxSum.Add(flux)
		if viscous {
			bc.GradCVMinus = gradCV.Project(dcoll, p.ddVol, bc.DD)
			bc.GradTMinus = dcoll.ProjectFields(p.ddVol, bc.DD, gradT)
			if flux, err = boundaries[btag].ViscousDivergenceFlux(bc, o.quadTag); err != nil {
				return rhs, fmt.Errorf("viscous flux on boundary %q: %w", btag, err)
			}
			fluxSum.Subtract(flux)
		}
	}

	R := make(discretization.Fields, nComp)
	for c := range R {
		R[c] = dcoll.InverseMass(p.ddVol,
			dcoll.WeakLocalDiv(p.ddVolQuad, volFlux[c]).Subtract(dcoll.FaceMass(p.ddAllFacesQuad, fluxSum[c])))
	}
	return fluid.FromFields(R), nil
}

func interiorGradCVPairs(dcoll *discretization.Collection, ddVol discretization.DOFDesc,
	gradCV fluid.GradCV) (gInt, gExt fluid.GradCV) {
	gInt, gExt = make(fluid.GradCV, len(gradCV)), make(fluid.GradCV, len(gradCV))
	for c := range gradCV {
		vtp := dcoll.InteriorVectorTracePairs(ddVol, gradCV[c], GradCVTag)[0]
		gInt[c], gExt[c] = vtp.Int, vtp.Ext
	}
	return
}

func checkGradients(dcoll *discretization.Collection, ddVol discretization.DOFDesc, state gasmodel.FluidState,
	gradCV fluid.GradCV, gradT discretization.Fields) error {
	nr, nc := dcoll.Shape(ddVol)
	if len(gradCV) != state.CV.NumComponents() || len(gradT) != dcoll.Dim {
		return fmt.Errorf("gradients with %d state and %d temperature components: %w",
			len(gradCV), len(gradT), diffusion.ErrShapeMismatch)
	}
	for _, F := range append([]discretization.Fields{gradT}, gradCV...) {
		if len(F) != dcoll.Dim {
			return fmt.Errorf("gradient with %d components: %w", len(F), diffusion.ErrShapeMismatch)
		}
		for _, f := range F {
			if !sameShape(f, nr, nc) {
				return fmt.Errorf("gradient field on %v: %w", ddVol, diffusion.ErrShapeMismatch)
			}
		}
	}
	return nil
}

func sortedTags(boundaries FluidBoundaryMap) (tags []discretization.BoundaryTag) {
	for btag := range boundaries {
		tags = append(tags, btag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}
