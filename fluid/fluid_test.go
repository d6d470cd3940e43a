package fluid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

func TestConservedVars(t *testing.T) {
	mass := utils.NewMatrix(2, 2, []float64{1, 2, 4, 8})
	energy := utils.NewMatrixConstant(2, 2, 10)
	mom := discretization.Fields{utils.NewMatrix(2, 2, []float64{2, 2, 2, 2})}
	cv := NewConservedVars(mass, energy, mom)
	assert.Equal(t, 1, cv.Dim())
	assert.Equal(t, 3, cv.NumComponents())
	assert.Equal(t, []float64{2, 1, 0.5, 0.25}, cv.Velocity()[0].DataP)

	cp := cv.Copy()
	cp.Scale(2)
	assert.Equal(t, 1., cv.Mass.At(0, 0))
	assert.Equal(t, 2., cp.Mass.At(0, 0))
	cp.Add(cv)
	assert.Equal(t, 30., cp.Energy.At(1, 1))

	packed := cv.ToFields()
	assert.Len(t, packed, 3)
	rt := FromFields(packed)
	assert.Equal(t, cv.Momentum[0].DataP, rt.Momentum[0].DataP)

	neg := cv.Map(func(m utils.Matrix) utils.Matrix { return m.Copy().Scale(-1) })
	assert.Equal(t, -8., neg.Mass.At(1, 1))
	assert.Equal(t, 10., cv.MaxAbs())

	assert.Panics(t, func() { NewConservedVars(mass, utils.NewMatrix(1, 2), mom) })
	assert.Panics(t, func() { FromFields(discretization.Fields{mass, energy}) })
}

func TestVelocityGradient(t *testing.T) {
	// rho = 2, rho v = 2x -> v = x, grad(v) = 1
	x := utils.NewMatrix(3, 1, []float64{0, 0.5, 1})
	cv := NewConservedVars(utils.NewMatrixConstant(3, 1, 2), utils.NewMatrixConstant(3, 1, 5),
		discretization.Fields{x.Copy().Scale(2)})
	grad := GradCV{
		{utils.NewMatrix(3, 1)},
		{utils.NewMatrix(3, 1)},
		{utils.NewMatrixConstant(3, 1, 2)},
	}
	gv := VelocityGradient(cv, grad)
	assert.Equal(t, []float64{1, 1, 1}, gv[0][0].DataP)
	// rho = 1+x, rho v = 1+x -> v = 1, grad(v) = 0
	rho := x.Copy().AddScalar(1)
	cv = NewConservedVars(rho, rho.Copy(), discretization.Fields{rho.Copy()})
	grad = GradCV{
		{utils.NewMatrixConstant(3, 1, 1)},
		{utils.NewMatrix(3, 1)},
		{utils.NewMatrixConstant(3, 1, 1)},
	}
	gv = VelocityGradient(cv, grad)
	assert.InDelta(t, 0., gv[0][0].MaxAbs(), 1.e-15)
	assert.Len(t, grad.Momentum(), 1)
}
