package discretization

import (
	"fmt"
	"math"

	"github.com/notargets/gocfd-heat/utils"
)

// Shape returns the matrix dimensions of a field on dd: Np x K (base volume),
// Nq x K (quadrature volume), (Nfp*NFaces) x K (all faces) or Nb x 1 for a
// partial trace
func (dc *Collection) Shape(dd DOFDesc) (nr, nc int) {
	el := dc.vol(dd).El
	switch {
	case dd.IsVolume() && dd.Discr == DiscrTagQuad:
		return el.Nq, el.K
	case dd.IsVolume():
		return el.Np, el.K
	case dd.IsAllFaces():
		return el.Nfp * el.NFaces, el.K
	}
	return len(dc.traceIndex(dd)), 1
}

func (dc *Collection) Zeros(dd DOFDesc) utils.Matrix {
	return utils.NewMatrix(dc.Shape(dd))
}

func (dc *Collection) Constant(dd DOFDesc, val float64) utils.Matrix {
	nr, nc := dc.Shape(dd)
	return utils.NewMatrixConstant(nr, nc, val)
}

func (dc *Collection) ZerosFields(dd DOFDesc, n int) Fields {
	nr, nc := dc.Shape(dd)
	return NewFields(n, nr, nc)
}

// Nodes returns the coordinates of the points of dd
func (dc *Collection) Nodes(dd DOFDesc) utils.Matrix {
	el := dc.vol(dd).El
	if dd.IsVolume() && dd.Discr == DiscrTagQuad {
		return el.Vq.Mul(el.X)
	}
	return dc.Project(dd.Untrace().WithDiscrTag(DiscrTagBase), dd, el.X)
}

// Normal returns the outward unit normal on a trace, one field per dimension
func (dc *Collection) Normal(dd DOFDesc) Fields {
	el := dc.vol(dd).El
	switch {
	case dd.IsVolume():
		panic(fmt.Errorf("normal requested on volume %v", dd))
	case dd.IsAllFaces():
		return Fields{el.NX.Copy()}
	}
	return Fields{el.NX.SubsetVector(dc.traceIndex(dd)).ToMatrix()}
}

// Project moves a field from src to dst. Supported moves are base volume to
// quadrature volume, volume to any trace, between discretizations of the same
// trace, and from a partial trace onto all faces (zero elsewhere).
func (dc *Collection) Project(src, dst DOFDesc, f utils.Matrix) utils.Matrix {
	if src.Volume != dst.Volume {
		panic(fmt.Errorf("projection across volumes %v -> %v", src, dst))
	}
	var (
		el = dc.vol(src).El
	)
	dc.checkShape(src, f)
	switch {
	case src == dst:
		return f.Copy()
	case src.IsVolume() && dst.IsVolume():
		if src.Discr == DiscrTagBase && dst.Discr == DiscrTagQuad {
			return el.Vq.Mul(f)
		}
	case src.IsVolume() && src.Discr == DiscrTagBase:
		// 1D faces are single points, the trace is the same on every discretization
		if dst.IsAllFaces() {
			return f.Subset(el.VmapM, el.Nfp*el.NFaces, el.K)
		}
		return f.SubsetVector(el.VmapM.Subset(dc.traceIndex(dst))).ToMatrix()
	case src.IsTrace() && src.Boundary == dst.Boundary:
		return f.Copy()
	case src.IsTrace() && dst.IsAllFaces():
		R := dc.Zeros(dst)
		return R.AssignVector(dc.traceIndex(src), utils.NewVector(f.Len(), f.DataP))
	}
	panic(fmt.Errorf("unsupported projection %v -> %v", src, dst))
}

func (dc *Collection) ProjectFields(src, dst DOFDesc, F Fields) (R Fields) {
	R = make(Fields, len(F))
	for i, f := range F {
		R[i] = dc.Project(src, dst, f)
	}
	return
}

func (dc *Collection) checkShape(dd DOFDesc, f utils.Matrix) {
	nr, nc := dc.Shape(dd)
	nrF, ncF := f.Dims()
	if nr != nrF || nc != ncF {
		panic(fmt.Errorf("field of shape [%d,%d] does not live on %v of shape [%d,%d]", nrF, ncF, dd, nr, nc))
	}
}

// WeakLocalGrad returns (u, d(phi_i)/dx) over each element, evaluated with
// the nodal rule on the base discretization or the Gauss rule on quad
func (dc *Collection) WeakLocalGrad(dd DOFDesc, u utils.Matrix) Fields {
	if !dd.IsVolume() {
		panic(fmt.Errorf("weak gradient on trace %v", dd))
	}
	dc.checkShape(dd, u)
	el := dc.vol(dd).El
	if dd.Discr == DiscrTagQuad {
		return Fields{el.WeakDrq.Mul(u)}
	}
	return Fields{el.WeakDr.Mul(u)}
}

// WeakLocalDiv returns sum_d (F_d, d(phi_i)/dx_d) over each element
func (dc *Collection) WeakLocalDiv(dd DOFDesc, F Fields) utils.Matrix {
	if len(F) != dc.Dim {
		panic(fmt.Errorf("divergence of %d components in %d dimensions", len(F), dc.Dim))
	}
	return dc.WeakLocalGrad(dd, F[0])[0]
}

// InverseMass applies the inverse of the element mass matrix
func (dc *Collection) InverseMass(dd DOFDesc, f utils.Matrix) utils.Matrix {
	if !dd.IsVolume() || dd.Discr != DiscrTagBase {
		panic(fmt.Errorf("inverse mass on %v", dd))
	}
	el := dc.vol(dd).El
	return el.MassRefInv.Mul(f).ElDiv(el.J)
}

func (dc *Collection) InverseMassFields(dd DOFDesc, F Fields) (R Fields) {
	R = make(Fields, len(F))
	for i, f := range F {
		R[i] = dc.InverseMass(dd, f)
	}
	return
}

// FaceMass returns the face integral of f against each basis function, f
// given on all faces of either discretization
func (dc *Collection) FaceMass(dd DOFDesc, f utils.Matrix) utils.Matrix {
	if !dd.IsAllFaces() {
		panic(fmt.Errorf("face mass on %v", dd))
	}
	dc.checkShape(dd, f)
	return dc.vol(dd).El.Emat.Mul(f)
}

func (dc *Collection) FaceMassFields(dd DOFDesc, F Fields) (R Fields) {
	R = make(Fields, len(F))
	for i, f := range F {
		R[i] = dc.FaceMass(dd, f)
	}
	return
}

// Integral of a base volume field over its volume
func (dc *Collection) Integral(dd DOFDesc, u utils.Matrix) float64 {
	dc.checkShape(dd, u)
	return dc.vol(dd).El.Integrate(u)
}

func (dc *Collection) NormL2(dd DOFDesc, u utils.Matrix) float64 {
	return math.Sqrt(dc.Integral(dd, u.Copy().POW(2)))
}

// InteriorTracePairs pairs the values on either side of every interior face
// of a base volume field. A single element mesh has no interior faces.
func (dc *Collection) InteriorTracePairs(ddVol DOFDesc, u utils.Matrix, tag CommTag) (tps []TracePair) {
	v := dc.vol(ddVol)
	if len(v.interior) == 0 {
		return
	}
	dc.checkShape(ddVol, u)
	dd := ddVol.Untrace().WithDiscrTag(DiscrTagBase).Trace(FaceRestrInterior)
	tp := NewTracePair(dd,
		u.SubsetVector(v.El.VmapM.Subset(v.interior)).ToMatrix(),
		u.SubsetVector(v.El.VmapP.Subset(v.interior)).ToMatrix())
	tp.Tag = tag
	return []TracePair{tp}
}

func (dc *Collection) InteriorVectorTracePairs(ddVol DOFDesc, F Fields, tag CommTag) (tps []VectorTracePair) {
	var (
		ints, exts Fields
		dd         DOFDesc
	)
	for _, f := range F {
		tp := dc.InteriorTracePairs(ddVol, f, tag)
		if len(tp) == 0 {
			return
		}
		dd = tp[0].DD
		ints = append(ints, tp[0].Int)
		exts = append(exts, tp[0].Ext)
	}
	if len(ints) == 0 {
		return
	}
	vtp := NewVectorTracePair(dd, ints, exts)
	vtp.Tag = tag
	return []VectorTracePair{vtp}
}
