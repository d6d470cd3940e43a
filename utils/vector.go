package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(n int, dataO ...[]float64) Vector {
	var (
		dataV []float64
	)
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0])))
		}
		dataV = dataO[0]
	} else {
		dataV = make([]float64, n)
	}
	return Vector{
		V:     mat.NewVecDense(n, dataV),
		DataP: dataV,
	}
}

func NewVectorConstant(n int, val float64) Vector {
	return NewVector(n, ConstArray(n, val))
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.DataP[i] }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return len(v.DataP) }

func (v Vector) Copy() Vector {
	data := make([]float64, v.Len())
	copy(data, v.DataP)
	return NewVector(len(data), data)
}

// ToMatrix returns a column matrix sharing no storage with the receiver
func (v Vector) ToMatrix() Matrix {
	data := make([]float64, v.Len())
	copy(data, v.DataP)
	return NewMatrix(len(data), 1, data)
}

func (v Vector) ToIndex() (I Index) {
	I = make(Index, v.Len())
	for i, val := range v.DataP {
		I[i] = int(val)
	}
	return
}

func (v Vector) Subset(I Index) Vector {
	data := make([]float64, len(I))
	for i, ind := range I {
		data[i] = v.DataP[ind]
	}
	return NewVector(len(data), data)
}

func (v Vector) Concat(w Vector) Vector {
	data := make([]float64, 0, v.Len()+w.Len())
	data = append(data, v.DataP...)
	data = append(data, w.DataP...)
	return NewVector(len(data), data)
}

// Outer returns the Len(v) x Len(w) matrix v w^T
func (v Vector) Outer(w Vector) (R Matrix) {
	var (
		nr, nc = v.Len(), w.Len()
	)
	R = NewMatrix(nr, nc)
	for i, vi := range v.DataP {
		for j, wj := range w.DataP {
			R.DataP[i*nc+j] = vi * wj
		}
	}
	return
}

// Chainable methods, all change the receiver
func (v Vector) Set(val float64) Vector {
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Add(w Vector) Vector {
	for i, val := range w.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(w Vector) Vector {
	for i, val := range w.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) Mul(w Vector) Vector {
	for i, val := range w.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

// Find returns the positions within v where (v op target) holds
func (v Vector) Find(op EvalOp, target float64, abs bool) (I Index) {
	for i, val := range v.DataP {
		if abs {
			val = math.Abs(val)
		}
		if op.Compare(val, target) {
			I = append(I, i)
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.DataP {
		sum += val
	}
	return
}
