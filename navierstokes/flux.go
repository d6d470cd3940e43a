package navierstokes

import (
	"math"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/fluid"
	"github.com/notargets/gocfd-heat/gasmodel"
)

// InviscidFlux returns the Euler flux of each packed conserved component,
// one field per dimension,
//
//	[rho v, (E+p) v, rho v v + p I]
func InviscidFlux(fs gasmodel.FluidState) (F []discretization.Fields) {
	var (
		cv  = fs.CV
		dim = cv.Dim()
		vel = cv.Velocity()
		p   = fs.Pressure()
	)
	F = make([]discretization.Fields, cv.NumComponents())
	F[0] = cv.Momentum.Copy()
	F[1] = discretization.Times(cv.Energy.Copy().Add(p), vel)
	for i := 0; i < dim; i++ {
		F[2+i] = discretization.Times(cv.Momentum[i], vel)
		F[2+i][i].Add(p)
	}
	return
}

// ViscousStress returns tau[i][j] = mu (dv_i/dx_j + dv_j/dx_i) + lambda div(v) delta_ij
func ViscousStress(fs gasmodel.FluidState, gradCV fluid.GradCV) (tau []discretization.Fields) {
	var (
		dim    = fs.Dim()
		gradV  = fluid.VelocityGradient(fs.CV, gradCV)
		mu     = fs.Viscosity()
		lambda = fs.VolumeViscosity()
		divV   = gradV[0][0].Copy()
	)
	for i := 1; i < dim; i++ {
		divV.Add(gradV[i][i])
	}
	tau = make([]discretization.Fields, dim)
	for i := 0; i < dim; i++ {
		tau[i] = make(discretization.Fields, dim)
		for j := 0; j < dim; j++ {
			tau[i][j] = gradV[i][j].Copy().Add(gradV[j][i]).ElMul(mu)
			if i == j {
				tau[i][j].Add(divV.Copy().ElMul(lambda))
			}
		}
	}
	return
}

// ViscousFlux returns the viscous flux of each packed component,
//
//	[0, tau . v + kappa grad(T), tau]
//
// which enters the equations with the opposite sign of InviscidFlux
func ViscousFlux(fs gasmodel.FluidState, gradCV fluid.GradCV, gradT discretization.Fields) (F []discretization.Fields) {
	var (
		dim    = fs.Dim()
		nr, nc = fs.CV.Dims()
		vel    = fs.Velocity()
		tau    = ViscousStress(fs, gradCV)
		kappa  = fs.ThermalConductivity()
	)
	F = make([]discretization.Fields, fs.CV.NumComponents())
	F[0] = discretization.NewFields(dim, nr, nc)
	F[1] = discretization.Times(kappa, gradT)
	for j := 0; j < dim; j++ {
		for i := 0; i < dim; i++ {
			F[1][j].Add(tau[j][i].Copy().ElMul(vel[i]))
		}
	}
	for i := 0; i < dim; i++ {
		F[2+i] = tau[i]
	}
	return
}

// NormalFlux contracts each component of F with the normal n
func NormalFlux(F []discretization.Fields, n discretization.Fields) (Fn discretization.Fields) {
	Fn = make(discretization.Fields, len(F))
	for c := range F {
		Fn[c] = F[c].Dot(n)
	}
	return
}

// InviscidFluxRusanov is the local Lax-Friedrichs flux across the trace of
// sp, returned on all faces of the quadrature discretization,
//
//	F* . n = avg(F . n) + lambda/2 (q- - q+),  lambda = max(|v|+c)
func InviscidFluxRusanov(dcoll *discretization.Collection, sp gasmodel.StateTracePair,
	quadTag discretization.DiscrTag) discretization.Fields {
	var (
		n       = dcoll.Normal(sp.DD)
		fnInt   = NormalFlux(InviscidFlux(sp.Int), n)
		fnExt   = NormalFlux(InviscidFlux(sp.Ext), n)
		lam     = sp.Int.WaveSpeed().Apply2(sp.Ext.WaveSpeed(), math.Max)
		qInt    = sp.Int.CV.ToFields()
		qExt    = sp.Ext.CV.ToFields()
		flux    = fnInt.Add(fnExt).Scale(0.5)
		halfLam = lam.Scale(0.5)
	)
	for c := range flux {
		flux[c].Add(qInt[c].Copy().Subtract(qExt[c]).ElMul(halfLam))
	}
	return toAllFacesQuad(dcoll, sp.DD, quadTag, flux)
}

// ViscousFluxCentral is the average of the viscous normal flux of either side
// of the trace of sp
func ViscousFluxCentral(dcoll *discretization.Collection, sp gasmodel.StateTracePair,
	gradCVInt, gradCVExt fluid.GradCV, gradTPair discretization.VectorTracePair,
	quadTag discretization.DiscrTag) discretization.Fields {
	var (
		n     = dcoll.Normal(sp.DD)
		fnInt = NormalFlux(ViscousFlux(sp.Int, gradCVInt, gradTPair.Int), n)
		fnExt = NormalFlux(ViscousFlux(sp.Ext, gradCVExt, gradTPair.Ext), n)
	)
	return toAllFacesQuad(dcoll, sp.DD, quadTag, fnInt.Add(fnExt).Scale(0.5))
}

func toAllFacesQuad(dcoll *discretization.Collection, ddTrace discretization.DOFDesc,
	quadTag discretization.DiscrTag, F discretization.Fields) discretization.Fields {
	var (
		ddTraceQuad    = ddTrace.WithDiscrTag(quadTag)
		ddAllFacesQuad = ddTraceQuad.WithBoundaryTag(discretization.FaceRestrAll)
	)
	return dcoll.ProjectFields(ddTraceQuad, ddAllFacesQuad, dcoll.ProjectFields(ddTrace, ddTraceQuad, F))
}
