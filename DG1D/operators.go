package DG1D

import (
	"fmt"

	"github.com/notargets/gocfd-heat/utils"
)

// WeakOperators1D builds the reference element matrices used by the weak
// form operators. MassRefInv = V*V^T and WeakDr = (M*Dr)^T, so that for a
// field u the weak derivative (u, dphi_i/dx) over each element is WeakDr*u.
func (el *Elements1D) WeakOperators1D() {
	var (
		err error
	)
	el.Emat = FaceExtraction(el.Np, el.NFaces, el.Nfp)
	el.MassRefInv = el.V.Mul(el.V.Transpose())
	if el.MassRef, err = el.MassRefInv.Inverse(); err != nil {
		panic(fmt.Errorf("error inverting reference mass matrix: %w", err))
	}
	el.WeakDr = el.MassRef.Mul(el.Dr).Transpose()
	el.MassRefInv.SetReadOnly("MassRefInv")
	el.WeakDr.SetReadOnly("WeakDr")
	el.Emat.SetReadOnly("Emat")
}

// Quadrature1D builds the Gauss quadrature used for overintegrated volume
// terms: Vq interpolates nodal values to the Nq Gauss points, Drq
// differentiates at the Gauss points and WeakDrq = Drq^T*diag(Wq).
func (el *Elements1D) Quadrature1D() {
	var (
		N = el.Np - 1
	)
	el.Rq, el.Wq = JacobiGQ(0, 0, el.Nq-1)
	el.Vq = Vandermonde1D(N, el.Rq).Mul(el.Vinv)
	el.Drq = GradVandermonde1D(el.Rq, N).Mul(el.Vinv)
	el.WeakDrq = el.Drq.Transpose()
	for i := 0; i < el.Np; i++ {
		for q := 0; q < el.Nq; q++ {
			el.WeakDrq.Set(i, q, el.WeakDrq.At(i, q)*el.Wq.AtVec(q))
		}
	}
	el.Vq.SetReadOnly("Vq")
	el.WeakDrq.SetReadOnly("WeakDrq")
}

// MassRefQuad is the reference mass matrix integrated with the Gauss rule,
// Vq^T*diag(Wq)*Vq
func (el *Elements1D) MassRefQuad() (M utils.Matrix) {
	VqW := el.Vq.Transpose()
	for i := 0; i < el.Np; i++ {
		for q := 0; q < el.Nq; q++ {
			VqW.Set(i, q, VqW.At(i, q)*el.Wq.AtVec(q))
		}
	}
	M = VqW.Mul(el.Vq)
	return
}

// Integrate returns the integral of a nodal field over the whole mesh
func (el *Elements1D) Integrate(U utils.Matrix) (sum float64) {
	Uq := el.Vq.Mul(U)
	for k := 0; k < el.K; k++ {
		for q := 0; q < el.Nq; q++ {
			sum += el.Wq.AtVec(q) * Uq.At(q, k) * el.J.At(0, k)
		}
	}
	return
}

// MinSpacing is the smallest distance between adjacent nodes in the mesh
func (el *Elements1D) MinSpacing() (dx float64) {
	dx = el.X.At(1, 0) - el.X.At(0, 0)
	for k := 0; k < el.K; k++ {
		for i := 1; i < el.Np; i++ {
			if d := el.X.At(i, k) - el.X.At(i-1, k); d < dx {
				dx = d
			}
		}
	}
	return
}
