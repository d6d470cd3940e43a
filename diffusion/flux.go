package diffusion

import (
	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// GradFlux computes the central flux -avg(u) n for the gradient operator on
// the trace of uTpair, returned on all faces of the quadrature discretization
func GradFlux(dcoll *discretization.Collection, uTpair discretization.TracePair,
	quadTag discretization.DiscrTag) discretization.Fields {
	var (
		ddTrace        = uTpair.DD
		ddTraceQuad    = ddTrace.WithDiscrTag(quadTag)
		ddAllFacesQuad = ddTraceQuad.WithBoundaryTag(discretization.FaceRestrAll)
		normalQuad     = dcoll.Normal(ddTraceQuad)
		uAvgQuad       = dcoll.Project(ddTrace, ddTraceQuad, uTpair.Avg())
	)
	flux := discretization.Times(uAvgQuad.Scale(-1), normalQuad)
	return dcoll.ProjectFields(ddTraceQuad, ddAllFacesQuad, flux)
}

// DiffusionFlux computes the central flux for the divergence of -kappa grad(u).
// Each side's normal flux -kappa (grad(u) . n) is formed separately and the
// two are averaged.
func DiffusionFlux(dcoll *discretization.Collection, kappaTpair discretization.TracePair,
	gradUTpair discretization.VectorTracePair, quadTag discretization.DiscrTag) utils.Matrix {
	var (
		ddTrace        = gradUTpair.DD
		ddTraceQuad    = ddTrace.WithDiscrTag(quadTag)
		ddAllFacesQuad = ddTraceQuad.WithBoundaryTag(discretization.FaceRestrAll)
		normalQuad     = dcoll.Normal(ddTraceQuad)
	)
	normalFlux := func(kappa utils.Matrix, gradU discretization.Fields) utils.Matrix {
		kappaQuad := dcoll.Project(ddTrace, ddTraceQuad, kappa)
		gradUQuad := dcoll.ProjectFields(ddTrace, ddTraceQuad, gradU)
		return gradUQuad.Dot(normalQuad).ElMul(kappaQuad).Scale(-1)
	}
	fluxTpair := discretization.NewTracePair(ddTraceQuad,
		normalFlux(kappaTpair.Int, gradUTpair.Int),
		normalFlux(kappaTpair.Ext, gradUTpair.Ext))
	return dcoll.Project(ddTraceQuad, ddAllFacesQuad, fluxTpair.Avg())
}
