package DG1D

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocfd-heat/utils"
)

func TestElements1D(t *testing.T) {
	{
		K := 4
		N := 3
		VX, EToV := SimpleMesh1D(0, 2, K)

		var el *Elements1D
		el = NewElements1D(N, VX, EToV)
		assert.True(t, near(el.X.At(0, 1), 0.5))
		assert.True(t, near(el.X.At(3, 1), 1.0))
		assert.True(t, near(el.X.At(3, 2), 1.5))
		assert.True(t, near(el.X.At(2, 3), 1.8618033988))
		assert.True(t, near(el.X.At(1, 1), 0.6381966011))
		assert.True(t, near(el.X.SumCols().AtVec(0), 1))
		assert.True(t, near(el.X.SumRows().AtVec(0), 3))
		assert.True(t, near(el.X.SumRows().AtVec(3), 5))

		fmt.Printf("LIFT = \n%v\n", mat.Formatted(el.LIFT, mat.Squeeze()))
		assert.True(t, near(el.LIFT.SumRows().AtVec(0), 6))
		assert.True(t, near(el.LIFT.SumRows().AtVec(3), 6))
		assert.True(t, near(el.LIFT.At(2, 0), 0.8944271909))
		assert.True(t, near(el.LIFT.At(2, 1), -0.8944271909))
		assert.True(t, near(el.LIFT.At(1, 0), -0.8944271909))
		assert.True(t, near(el.LIFT.At(1, 1), 0.8944271909))

		// Element width 0.5, so J = 0.25 everywhere
		assert.InDelta(t, 0.25, el.J.Min(), 1.e-12)
		assert.InDelta(t, 0.25, el.J.Max(), 1.e-12)
		assert.InDelta(t, 4., el.FScale.Max(), 1.e-12)
	}
	{ // Connectivity and maps
		K := 3
		VX, EToV := SimpleMesh1D(-1, 1, K)
		el := NewElements1D(2, VX, EToV)
		assert.Equal(t, []float64{0, 1, 0, 2, 1, 2}, el.EToE.DataP)
		assert.Equal(t, []float64{0, 0, 1, 0, 1, 1}, el.EToF.DataP)
		assert.Equal(t, utils.Index{0, 2, 3, 5, 6, 8}, el.VmapM)
		assert.Equal(t, utils.Index{0, 3, 2, 6, 5, 8}, el.VmapP)
		assert.Equal(t, utils.Index{0, 5}, el.MapB)
		assert.Equal(t, utils.Index{0, 8}, el.VmapB)
		assert.Equal(t, utils.Index{0, 2}, el.FMask)
	}
}

func TestWeakOperators(t *testing.T) {
	VX, EToV := SimpleMesh1D(0, 1, 2)
	el := NewElements1D(3, VX, EToV)
	// WeakDr applied to a constant gives the end point values of each basis function
	ones := utils.NewMatrixConstant(el.Np, 1, 1)
	w := el.WeakDr.Mul(ones)
	assert.InDelta(t, -1., w.At(0, 0), 1.e-12)
	assert.InDelta(t, 1., w.At(el.Np-1, 0), 1.e-12)
	for i := 1; i < el.Np-1; i++ {
		assert.InDelta(t, 0., w.At(i, 0), 1.e-12)
	}
	// The Gauss rule reproduces the nodal mass matrix
	Mq := el.MassRefQuad()
	for i := 0; i < el.Np; i++ {
		for j := 0; j < el.Np; j++ {
			assert.InDelta(t, el.MassRef.At(i, j), Mq.At(i, j), 1.e-12)
		}
	}
	// Overintegrated stiffness matches the nodal one for polynomial data
	wq := el.WeakDrq.Mul(el.Vq.Mul(el.X))
	wn := el.WeakDr.Mul(el.X)
	for i := range wq.DataP {
		assert.InDelta(t, wn.DataP[i], wq.DataP[i], 1.e-12)
	}
	// Integral of x over [0,1]
	assert.InDelta(t, 0.5, el.Integrate(el.X), 1.e-12)
	assert.InDelta(t, 1./3., el.Integrate(el.X.Copy().POW(2)), 1.e-12)
	assert.True(t, el.MinSpacing() > 0)
	assert.True(t, el.MinSpacing() < 0.5/3)
}

func TestElements1DSingularOrder(t *testing.T) {
	VX, EToV := SimpleMesh1D(0, 1, 2)
	assert.Panics(t, func() { NewElements1D(0, VX, EToV) })
	el := NewElements1D(1, VX, EToV, 4)
	assert.Equal(t, 4, el.Nq)
	assert.Equal(t, 4, el.Rq.Len())
	assert.True(t, math.Abs(el.Wq.Sum()-2) < 1.e-12)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a) {
		l = true
	}
	return
}
