package discretization

import (
	"fmt"

	"github.com/notargets/gocfd-heat/utils"
)

// Fields is an ordered set of fields sharing one DOFDesc, used for vector
// valued quantities (one entry per spatial dimension) and for packed state
// vectors. Like utils.Matrix, the arithmetic methods change the receiver.
type Fields []utils.Matrix

func NewFields(n, nr, nc int) (F Fields) {
	F = make(Fields, n)
	for i := range F {
		F[i] = utils.NewMatrix(nr, nc)
	}
	return
}

func (F Fields) Copy() (R Fields) {
	R = make(Fields, len(F))
	for i, f := range F {
		R[i] = f.Copy()
	}
	return
}

func (F Fields) checkLen(G Fields, op string) {
	if len(F) != len(G) {
		panic(fmt.Errorf("%s of fields with %d and %d components", op, len(F), len(G)))
	}
}

func (F Fields) Add(G Fields) Fields {
	F.checkLen(G, "Add")
	for i := range F {
		F[i].Add(G[i])
	}
	return F
}

func (F Fields) Subtract(G Fields) Fields {
	F.checkLen(G, "Subtract")
	for i := range F {
		F[i].Subtract(G[i])
	}
	return F
}

func (F Fields) Scale(a float64) Fields {
	for i := range F {
		F[i].Scale(a)
	}
	return F
}

// ElMul multiplies every component by the scalar field m
func (F Fields) ElMul(m utils.Matrix) Fields {
	for i := range F {
		F[i].ElMul(m)
	}
	return F
}

// Dot returns sum_i F[i]*G[i] as a new field
func (F Fields) Dot(G Fields) (R utils.Matrix) {
	F.checkLen(G, "Dot")
	R = F[0].Copy().ElMul(G[0])
	for i := 1; i < len(F); i++ {
		R.Add(F[i].Copy().ElMul(G[i]))
	}
	return
}

// Times returns the outer product of the scalar field m with the components
func Times(m utils.Matrix, G Fields) (R Fields) {
	R = make(Fields, len(G))
	for i, g := range G {
		R[i] = m.Copy().ElMul(g)
	}
	return
}

// Norm2 returns the pointwise squared magnitude
func (F Fields) Norm2() utils.Matrix {
	return F.Dot(F)
}

func (F Fields) MaxAbs() (max float64) {
	for _, f := range F {
		if v := f.MaxAbs(); v > max {
			max = v
		}
	}
	return
}
