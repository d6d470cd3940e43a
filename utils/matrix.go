package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a chainable wrapper around a row-major gonum Dense.
// Methods marked "Changes receiver" operate in place and return the receiver,
// all others allocate a new result.
type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func NewMatrixConstant(nr, nc int, val float64) (R Matrix) {
	return NewMatrix(nr, nc, ConstArray(nr*nc, val))
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.DataP }
func (m Matrix) IsEmpty() bool             { return m.M == nil }
func (m Matrix) Len() int {
	nr, nc := m.Dims()
	return nr * nc
}

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.DataP[j*nr+i] = m.DataP[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, ncM = m.Dims()
		nrA, ncA = A.Dims()
	)
	if ncM != nrA {
		panic(fmt.Errorf("dimension mismatch in Mul: [%d,%d] x [%d,%d]", nrM, ncM, nrA, ncA))
	}
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

// Subset gathers the values at column-major index I (ind = i + nr*j) into a
// new matrix of dimension newDims, filled in column-major order.
func (m Matrix) Subset(I Index, newDims ...int) (R Matrix) { // Does not change receiver
	var (
		nr, nc       = m.Dims()
		nrNew, ncNew = len(I), 1
	)
	if len(newDims) == 2 {
		nrNew, ncNew = newDims[0], newDims[1]
	}
	if nrNew*ncNew != len(I) {
		panic(fmt.Errorf("subset dimensions [%d,%d] do not match index length %d", nrNew, ncNew, len(I)))
	}
	R = NewMatrix(nrNew, ncNew)
	for i, ind := range I {
		R.DataP[RowMajorToColMajor(nrNew, ncNew, i)] = m.DataP[RowMajorToColMajor(nr, nc, ind)]
	}
	return
}

func (m Matrix) SubsetVector(I Index) (V Vector) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = make([]float64, len(I))
	)
	for i, ind := range I {
		data[i] = m.DataP[RowMajorToColMajor(nr, nc, ind)]
	}
	V = NewVector(len(I), data)
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	i, j = lim(i, nr), lim(j, nc)
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	var (
		_, nc = m.Dims()
	)
	j = lim(j, nc)
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	var (
		nr, _ = m.Dims()
	)
	i = lim(i, nr)
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "Add")
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "Subtract")
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(A Matrix, f func(float64, float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "Apply2")
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i])
	}
	return m
}

func (m Matrix) Apply3(A, B Matrix, f func(float64, float64, float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "Apply3")
	m.checkSameShape(B, "Apply3")
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i], B.DataP[i])
	}
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "ElMul")
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameShape(A, "ElDiv")
	for i, val := range A.DataP {
		m.DataP[i] /= val
	}
	return m
}

// AssignVector writes the values of A, in sequence, into the column-major
// locations I of the receiver.
func (m Matrix) AssignVector(I Index, A Vector) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
		dataA  = A.DataP
	)
	m.checkWritable()
	if len(I) != len(dataA) {
		panic(fmt.Errorf("AssignVector: index length %d, vector length %d", len(I), len(dataA)))
	}
	for i, ind := range I {
		m.DataP[RowMajorToColMajor(nr, nc, ind)] = dataA[i]
	}
	return m
}

func (m Matrix) AssignScalar(I Index, val float64) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	for _, ind := range I {
		m.DataP[RowMajorToColMajor(nr, nc, ind)] = val
	}
	return m
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert non square matrix [%d,%d]", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

func (m Matrix) Col(j int) Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nr)
	)
	j = lim(j, nc)
	for i := range vData {
		vData[i] = m.DataP[i*nc+j]
	}
	return NewVector(nr, vData)
}

func (m Matrix) Row(i int) Vector {
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nc)
	)
	i = lim(i, nr)
	copy(vData, m.DataP[i*nc:(i+1)*nc])
	return NewVector(nc, vData)
}

func (m Matrix) SumCols() Vector {
	// Sum of each column
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			vData[j] += m.DataP[i*nc+j]
		}
	}
	return NewVector(nc, vData)
}

func (m Matrix) SumRows() Vector {
	// Sum of each row
	var (
		nr, nc = m.Dims()
		vData  = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			vData[i] += m.DataP[i*nc+j]
		}
	}
	return NewVector(nr, vData)
}

func (m Matrix) Min() (min float64) {
	min = m.DataP[0]
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = m.DataP[0]
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}

// MaxAbs is the infinity norm of the matrix entries.
func (m Matrix) MaxAbs() (max float64) {
	for _, val := range m.DataP {
		if math.Abs(val) > max {
			max = math.Abs(val)
		}
	}
	return
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = ""
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	formatString := "%s = \n%8.5f\n"
	o = fmt.Sprintf(formatString, name, mat.Formatted(m.M, mat.Squeeze()))
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) checkSameShape(A Matrix, op string) {
	nr, nc := m.Dims()
	nrA, ncA := A.Dims()
	if nr != nrA || nc != ncA {
		panic(fmt.Errorf("dimension mismatch in %s: [%d,%d] vs [%d,%d]", op, nr, nc, nrA, ncA))
	}
}

func RowMajorToColMajor(nr, nc, ind int) (cind int) {
	// ind = i + nr * j
	j := ind / nr
	i := ind - nr*j
	cind = j + nc*i
	return
}

func lim(i, imax int) int {
	if i < 0 {
		return imax + i // Support indexing from end, -1 is imax
	}
	return i
}
