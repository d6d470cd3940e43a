package fluid

import (
	"fmt"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// ConservedVars holds the conserved state of a single species gas: mass
// density, total energy density and momentum density, one field per
// dimension. All members share a shape.
type ConservedVars struct {
	Mass     utils.Matrix
	Energy   utils.Matrix
	Momentum discretization.Fields
}

func NewConservedVars(mass, energy utils.Matrix, momentum discretization.Fields) ConservedVars {
	cv := ConservedVars{Mass: mass, Energy: energy, Momentum: momentum}
	nr, nc := mass.Dims()
	for _, f := range append(discretization.Fields{energy}, momentum...) {
		if nrF, ncF := f.Dims(); nrF != nr || ncF != nc {
			panic(fmt.Errorf("conserved vars with mismatched shapes [%d,%d] and [%d,%d]", nr, nc, nrF, ncF))
		}
	}
	return cv
}

func (cv ConservedVars) Dim() int { return len(cv.Momentum) }

// NumComponents is the length of the packed state, 2+Dim
func (cv ConservedVars) NumComponents() int { return 2 + cv.Dim() }

func (cv ConservedVars) Dims() (nr, nc int) { return cv.Mass.Dims() }

// Velocity returns momentum / mass
func (cv ConservedVars) Velocity() (V discretization.Fields) {
	V = make(discretization.Fields, cv.Dim())
	for i, m := range cv.Momentum {
		V[i] = m.Copy().ElDiv(cv.Mass)
	}
	return
}

// ToFields packs the state as (mass, energy, momentum...), sharing storage
func (cv ConservedVars) ToFields() (F discretization.Fields) {
	F = make(discretization.Fields, 0, cv.NumComponents())
	F = append(F, cv.Mass, cv.Energy)
	return append(F, cv.Momentum...)
}

// FromFields unpacks a state packed by ToFields, sharing storage
func FromFields(F discretization.Fields) ConservedVars {
	if len(F) < 3 {
		panic(fmt.Errorf("packed conserved state with %d components", len(F)))
	}
	return NewConservedVars(F[0], F[1], F[2:])
}

func (cv ConservedVars) Copy() ConservedVars {
	return FromFields(cv.ToFields().Copy())
}

// Map returns a new state with f applied to each component
func (cv ConservedVars) Map(f func(utils.Matrix) utils.Matrix) ConservedVars {
	F := cv.ToFields()
	R := make(discretization.Fields, len(F))
	for i := range F {
		R[i] = f(F[i])
	}
	return FromFields(R)
}

// Changes receiver
func (cv ConservedVars) Add(other ConservedVars) ConservedVars {
	cv.ToFields().Add(other.ToFields())
	return cv
}

// Changes receiver
func (cv ConservedVars) Scale(a float64) ConservedVars {
	cv.ToFields().Scale(a)
	return cv
}

// Project moves every component from src to dst
func (cv ConservedVars) Project(dcoll *discretization.Collection, src, dst discretization.DOFDesc) ConservedVars {
	return FromFields(dcoll.ProjectFields(src, dst, cv.ToFields()))
}

func (cv ConservedVars) MaxAbs() float64 { return cv.ToFields().MaxAbs() }

// GradCV is the gradient of each packed component of a ConservedVars, in the
// order of ToFields, each with one field per dimension
type GradCV []discretization.Fields

func (g GradCV) Mass() discretization.Fields { return g[0] }

func (g GradCV) Energy() discretization.Fields { return g[1] }

func (g GradCV) Momentum() []discretization.Fields { return g[2:] }

func (g GradCV) Copy() (R GradCV) {
	R = make(GradCV, len(g))
	for i := range g {
		R[i] = g[i].Copy()
	}
	return
}

// Project moves every component from src to dst
func (g GradCV) Project(dcoll *discretization.Collection, src, dst discretization.DOFDesc) (R GradCV) {
	R = make(GradCV, len(g))
	for i := range g {
		R[i] = dcoll.ProjectFields(src, dst, g[i])
	}
	return
}

// VelocityGradient returns d(v_i)/d(x_j) as [i][j] from the state and the
// gradient of the conserved variables,
//
//	grad(v) = (grad(rho v) - v grad(rho)) / rho
func VelocityGradient(cv ConservedVars, gradCV GradCV) (gradV []discretization.Fields) {
	var (
		vel = cv.Velocity()
	)
	gradV = make([]discretization.Fields, cv.Dim())
	for i := range gradV {
		gradV[i] = gradCV.Momentum()[i].Copy().
			Subtract(discretization.Times(vel[i], gradCV.Mass())).
			ElMul(cv.Mass.Copy().Apply(func(rho float64) float64 { return 1 / rho }))
	}
	return
}
