package diffusion

import (
	"fmt"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// ConstantField returns a field of value on dd
func ConstantField(dcoll *discretization.Collection, dd discretization.DOFDesc, value float64) utils.Matrix {
	return dcoll.Constant(dd, value)
}

// GradOperator computes the DG gradient of the base volume field u,
//
//	M^-1 [ (-u, grad(phi)) - <-avg(u) n, phi> ]
//
// with central interior fluxes and the boundary fluxes of boundaries
func GradOperator(dcoll *discretization.Collection, boundaries BoundaryMap, u utils.Matrix,
	opts ...Option) (grad discretization.Fields, err error) {
	var (
		o       = newOptions(opts)
		ddVol   discretization.DOFDesc
		sig     uint64
		hasSig  bool
		fluxSum discretization.Fields
	)
	if ddVol, err = o.volumeDD(); err != nil {
		return
	}
	if err = validateBoundaries(dcoll, ddVol, boundaries); err != nil {
		return
	}
	if err = checkShape(dcoll, ddVol, u); err != nil {
		return
	}
	if o.cache != nil {
		sig, hasSig = gradSignature(dcoll, ddVol, o.quadTag, boundaries, u), true
		if cached, ok := o.cache.lookup(sig); ok {
			return cached, nil
		}
	}
	ddAllFacesQuad := ddVol.WithDiscrTag(o.quadTag).Trace(discretization.FaceRestrAll)

	fluxSum = dcoll.ZerosFields(ddAllFacesQuad, dcoll.Dim)
	for _, uTpair := range dcoll.InteriorTracePairs(ddVol, u, StateTag) {
		fluxSum.Add(GradFlux(dcoll, uTpair, o.quadTag))
	}
	for _, btag := range sortedTags(boundaries) {
		var flux discretization.Fields
		if flux, err = boundaries[btag].GradFlux(dcoll, ddVol.Trace(btag), u, o.quadTag); err != nil {
			return nil, fmt.Errorf("gradient flux on boundary %q: %w", btag, err)
		}
		fluxSum.Add(flux)
	}
	grad = dcoll.InverseMassFields(ddVol,
		dcoll.WeakLocalGrad(ddVol, u.Copy().Scale(-1)).Subtract(dcoll.FaceMassFields(ddAllFacesQuad, fluxSum)))
	if hasSig {
		o.cache.store(sig, grad)
	}
	return
}

// GradOperatorN applies GradOperator to each component of u with its own
// boundary map
func GradOperatorN(dcoll *discretization.Collection, boundaries []BoundaryMap, u discretization.Fields,
	opts ...Option) (grads []discretization.Fields, err error) {
	if len(boundaries) != len(u) {
		return nil, fmt.Errorf("%d boundary maps for %d components: %w", len(boundaries), len(u), ErrBoundaryCount)
	}
	grads = make([]discretization.Fields, len(u))
	for i := range u {
		if grads[i], err = GradOperator(dcoll, boundaries[i], u[i], opts...); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return
}

// DiffusionOperator computes div(kappa grad(u)) for the base volume fields
// kappa and u,
//
//	M^-1 [ (-kappa grad(u), grad(phi)) - <avg(-kappa grad(u) . n), phi> ]
//
// with the volume term integrated on the quadrature discretization. The
// gradient is computed with GradOperator unless supplied with WithGradU, and
// is returned along with the result.
func DiffusionOperator(dcoll *discretization.Collection, kappa utils.Matrix, boundaries BoundaryMap,
	u utils.Matrix, opts ...Option) (diffU utils.Matrix, gradU discretization.Fields, err error) {
	var (
		o     = newOptions(opts)
		ddVol discretization.DOFDesc
	)
	if ddVol, err = o.volumeDD(); err != nil {
		return
	}
	if err = validateBoundaries(dcoll, ddVol, boundaries); err != nil {
		return
	}
	if err = checkShape(dcoll, ddVol, kappa); err != nil {
		return
	}
	if gradU = o.gradU; gradU == nil {
		if gradU, err = GradOperator(dcoll, boundaries, u, opts...); err != nil {
			return
		}
	} else {
		if err = checkShape(dcoll, ddVol, u); err != nil {
			return
		}
		if len(gradU) != dcoll.Dim {
			err = fmt.Errorf("supplied gradient has %d components: %w", len(gradU), ErrShapeMismatch)
			return
		}
		for _, g := range gradU {
			if err = checkShape(dcoll, ddVol, g); err != nil {
				return
			}
		}
	}
	var (
		ddVolQuad      = ddVol.WithDiscrTag(o.quadTag)
		ddAllFacesQuad = ddVolQuad.Trace(discretization.FaceRestrAll)
		kappaQuad      = dcoll.Project(ddVol, ddVolQuad, kappa)
		gradUQuad      = dcoll.ProjectFields(ddVol, ddVolQuad, gradU)
		fluxSum        = dcoll.Zeros(ddAllFacesQuad)
	)
	volFlux := discretization.Times(kappaQuad.Scale(-1), gradUQuad)

	kappaTpairs := dcoll.InteriorTracePairs(ddVol, kappa, KappaTag)
	gradUTpairs := dcoll.InteriorVectorTracePairs(ddVol, gradU, GradTag)
	for i := range kappaTpairs {
		fluxSum.Add(DiffusionFlux(dcoll, kappaTpairs[i], gradUTpairs[i], o.quadTag))
	}
	for _, btag := range sortedTags(boundaries) {
		var flux utils.Matrix
		if flux, err = boundaries[btag].DiffusionFlux(dcoll, ddVol.Trace(btag), kappa, gradU, o.quadTag); err != nil {
			return utils.Matrix{}, nil, fmt.Errorf("diffusion flux on boundary %q: %w", btag, err)
		}
		fluxSum.Add(flux)
	}
	diffU = dcoll.InverseMass(ddVol,
		dcoll.WeakLocalDiv(ddVolQuad, volFlux).Subtract(dcoll.FaceMass(ddAllFacesQuad, fluxSum)))
	return
}

// DiffusionOperatorN applies DiffusionOperator to each component of u with
// its own boundary map and a shared kappa
func DiffusionOperatorN(dcoll *discretization.Collection, kappa utils.Matrix, boundaries []BoundaryMap,
	u discretization.Fields, opts ...Option) (diffU discretization.Fields, gradU []discretization.Fields, err error) {
	var (
		o = newOptions(opts)
	)
	if len(boundaries) != len(u) {
		return nil, nil, fmt.Errorf("%d boundary maps for %d components: %w", len(boundaries), len(u), ErrBoundaryCount)
	}
	if o.gradUs != nil && len(o.gradUs) != len(u) {
		return nil, nil, fmt.Errorf("%d gradients for %d components: %w", len(o.gradUs), len(u), ErrShapeMismatch)
	}
	diffU = make(discretization.Fields, len(u))
	gradU = make([]discretization.Fields, len(u))
	for i := range u {
		compOpts := append(append([]Option(nil), opts...), WithGradUs(nil))
		if o.gradUs != nil {
			compOpts = append(compOpts, WithGradU(o.gradUs[i]))
		}
		if diffU[i], gradU[i], err = DiffusionOperator(dcoll, kappa, boundaries[i], u[i], compOpts...); err != nil {
			return nil, nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return
}
