package DG1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocfd-heat/utils"
)

func TestJacobiGQ(t *testing.T) {
	const (
		alpha, beta = 0.3, 0.7
		N           = 5
		tol         = 1.e-10
	)
	X, W := JacobiGQ(alpha, beta, N)
	assert.Equal(t, N+1, X.Len())
	assert.Equal(t, N+1, W.Len())
	// Nodes are the roots of P_{N+1}
	for i, xi := range X.DataP {
		p := JacobiP(utils.NewVector(1, []float64{xi}), alpha, beta, N+1)[0]
		assert.InDeltaf(t, 0, p, tol, "node %d at %v is not a root", i, xi)
		assert.True(t, xi > -1 && xi < 1)
		assert.True(t, W.AtVec(i) > 0)
	}
	// Exact for moments up to degree 2N+1
	for k := 0; k <= 2*N+1; k++ {
		var s float64
		for i, xi := range X.DataP {
			s += W.AtVec(i) * math.Pow(xi, float64(k))
		}
		assert.InDeltaf(t, jacobiMoment(k, alpha, beta), s, tol, "moment %d", k)
	}
	// Unequal parameters, including the single point rule
	for _, ab := range [][2]float64{{1, 0}, {0, 2}, {2.5, 0.5}} {
		for _, n := range []int{0, 1, 3} {
			X, W = JacobiGQ(ab[0], ab[1], n)
			for k := 0; k <= 2*n+1; k++ {
				var s float64
				for i, xi := range X.DataP {
					s += W.AtVec(i) * math.Pow(xi, float64(k))
				}
				assert.InDeltaf(t, jacobiMoment(k, ab[0], ab[1]), s, tol,
					"alpha %v beta %v N %d moment %d", ab[0], ab[1], n, k)
			}
		}
	}
	// Legendre case is symmetric about zero
	X, W = JacobiGQ(0, 0, 4)
	for i := 0; i < X.Len()/2; i++ {
		j := X.Len() - 1 - i
		assert.InDelta(t, -X.AtVec(i), X.AtVec(j), tol)
		assert.InDelta(t, W.AtVec(i), W.AtVec(j), tol)
	}
	assert.InDelta(t, 2., W.Sum(), tol)
}

func TestJacobiPOrthonormal(t *testing.T) {
	const (
		Nmax = 6
	)
	X, W := JacobiGQ(0, 0, Nmax+3)
	P := make([][]float64, Nmax+1)
	for n := range P {
		P[n] = JacobiP(X, 0, 0, n)
	}
	for m := 0; m <= Nmax; m++ {
		for n := 0; n <= Nmax; n++ {
			var sum float64
			for i := range X.DataP {
				sum += W.AtVec(i) * P[m][i] * P[n][i]
			}
			if m == n {
				assert.InDeltaf(t, 1., sum, 1.e-10, "norm of P_%d", m)
			} else {
				assert.InDeltaf(t, 0., sum, 1.e-10, "P_%d . P_%d", m, n)
			}
		}
	}
}

func TestJacobiGL(t *testing.T) {
	X := JacobiGL(0, 0, 1)
	assert.Equal(t, []float64{-1, 1}, X.DataP)
	X = JacobiGL(0, 0, 4)
	assert.Equal(t, 5, X.Len())
	assert.InDelta(t, -1., X.AtVec(0), 1.e-14)
	assert.InDelta(t, 1., X.AtVec(4), 1.e-14)
	assert.InDelta(t, 0., X.AtVec(2), 1.e-14)
	// Interior LGL nodes for N=4 are +-sqrt(3/7)
	assert.InDelta(t, -math.Sqrt(3./7.), X.AtVec(1), 1.e-12)
	assert.InDelta(t, math.Sqrt(3./7.), X.AtVec(3), 1.e-12)
}

// jacobiMoment is the integral of x^k (1-x)^alpha (1+x)^beta over [-1,1]
func jacobiMoment(k int, alpha, beta float64) (result float64) {
	betaFn := func(a, b float64) float64 {
		return math.Gamma(a) * math.Gamma(b) / math.Gamma(a+b)
	}
	choose := func(n, k int) float64 {
		r := 1.
		for i := 0; i < k; i++ {
			r = r * float64(n-i) / float64(i+1)
		}
		return r
	}
	// substitute x = 2u-1 and expand (2u-1)^k
	for j := 0; j <= k; j++ {
		coeff := choose(k, j) * math.Pow(2, float64(j)) * math.Pow(-1, float64(k-j))
		result += coeff * betaFn(float64(j)+beta+1, alpha+1)
	}
	result *= math.Pow(2, alpha+beta+1)
	return
}
