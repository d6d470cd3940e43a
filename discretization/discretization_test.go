package discretization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocfd-heat/DG1D"
	"github.com/notargets/gocfd-heat/utils"
)

func newTestCollection(t *testing.T, N, K int) (dc *Collection, el *DG1D.Elements1D) {
	VX, EToV := DG1D.SimpleMesh1D(0, 1, K)
	el = DG1D.NewElements1D(N, VX, EToV)
	dc = NewSingleVolumeCollection(el)
	return
}

func TestDOFDesc(t *testing.T) {
	dd := VolumeDD("fluid")
	assert.True(t, dd.IsVolume())
	assert.False(t, dd.IsTrace())
	tr := dd.Trace("left").WithDiscrTag(DiscrTagQuad)
	assert.True(t, tr.IsTrace())
	assert.Equal(t, DOFDesc{Volume: "fluid", Boundary: "left", Discr: DiscrTagQuad}, tr)
	assert.Equal(t, dd.WithDiscrTag(DiscrTagQuad), tr.Untrace())
	assert.Equal(t, "wall", tr.WithVolume("wall").Volume)
	assert.True(t, tr.WithBoundaryTag(FaceRestrAll).IsAllFaces())
	assert.Equal(t, "fluid/left[quad]", tr.String())
	assert.Panics(t, func() { dd.Trace("") })
}

func TestCollectionShapesAndProjection(t *testing.T) {
	dc, el := newTestCollection(t, 3, 4)
	vol := VolumeDD(VolumeAll)
	volQuad := vol.WithDiscrTag(DiscrTagQuad)
	left, right := vol.Trace("left"), vol.Trace("right")
	allFaces := vol.Trace(FaceRestrAll)
	interior := vol.Trace(FaceRestrInterior)

	nr, nc := dc.Shape(vol)
	assert.Equal(t, [2]int{el.Np, el.K}, [2]int{nr, nc})
	nr, nc = dc.Shape(volQuad)
	assert.Equal(t, [2]int{el.Nq, el.K}, [2]int{nr, nc})
	nr, nc = dc.Shape(allFaces)
	assert.Equal(t, [2]int{2, el.K}, [2]int{nr, nc})
	nr, nc = dc.Shape(interior)
	assert.Equal(t, [2]int{2 * (el.K - 1), 1}, [2]int{nr, nc})
	nr, _ = dc.Shape(vol.Trace(BTagAll))
	assert.Equal(t, 2, nr)

	x := dc.Nodes(vol)
	assert.InDelta(t, 0., dc.Project(vol, left, x).At(0, 0), 1.e-14)
	assert.InDelta(t, 1., dc.Project(vol, right, x).At(0, 0), 1.e-14)
	assert.InDelta(t, 1., dc.Project(vol, right.WithDiscrTag(DiscrTagQuad), x).At(0, 0), 1.e-14)
	// Quadrature nodes of a linear field are the field itself
	xq := dc.Project(vol, volQuad, x)
	xqNodes := dc.Nodes(volQuad)
	for i := range xq.DataP {
		assert.InDelta(t, xqNodes.DataP[i], xq.DataP[i], 1.e-13)
	}
	// Trace to all faces scatters into zeros
	fr := dc.Project(right, allFaces, utils.NewMatrix(1, 1, []float64{7}))
	assert.Equal(t, 7., fr.At(1, el.K-1))
	assert.Equal(t, 7., fr.Max())
	assert.Equal(t, 0., fr.Min())
	// Unsupported and malformed projections panic
	assert.Panics(t, func() { dc.Project(volQuad, vol, xq) })
	assert.Panics(t, func() { dc.Project(vol, left, utils.NewMatrix(2, 2)) })
	assert.Panics(t, func() { dc.Project(vol, vol.Trace("nowhere"), x) })

	n := dc.Normal(left)
	assert.Equal(t, -1., n[0].At(0, 0))
	n = dc.Normal(right)
	assert.Equal(t, 1., n[0].At(0, 0))
	n = dc.Normal(interior)
	assert.InDelta(t, 0., n[0].SumCols().AtVec(0), 1.e-14)
}

func TestInteriorTracePairs(t *testing.T) {
	dc, el := newTestCollection(t, 2, 5)
	vol := VolumeDD(VolumeAll)
	// A continuous field has no jumps
	x := dc.Nodes(vol)
	tps := dc.InteriorTracePairs(vol, x, "u")
	require.Len(t, tps, 1)
	assert.Equal(t, CommTag("u"), tps[0].Tag)
	assert.Equal(t, FaceRestrInterior, tps[0].DD.Boundary)
	assert.InDelta(t, 0., tps[0].Diff().MaxAbs(), 1.e-14)
	// A field constant per element jumps by one at every interface
	u := utils.NewMatrix(el.Np, el.K)
	for k := 0; k < el.K; k++ {
		for i := 0; i < el.Np; i++ {
			u.Set(i, k, float64(k))
		}
	}
	tps = dc.InteriorTracePairs(vol, u, "u")
	assert.InDelta(t, 1., tps[0].Diff().MaxAbs(), 1.e-14)
	// Jump times normal is positive on both sides of each face
	assert.InDelta(t, 1., tps[0].Diff().ElMul(dc.Normal(tps[0].DD)[0]).Min(), 1.e-14)
	vtps := dc.InteriorVectorTracePairs(vol, Fields{u, x}, "v")
	require.Len(t, vtps, 1)
	assert.Len(t, vtps[0].Int, 2)
	assert.Equal(t, tps[0].Avg().DataP, vtps[0].Component(0).Avg().DataP)

	// No interior faces on a single element
	dc1, _ := newTestCollection(t, 2, 1)
	assert.Empty(t, dc1.InteriorTracePairs(vol, dc1.Nodes(vol), "u"))
	assert.Empty(t, dc1.InteriorVectorTracePairs(vol, Fields{dc1.Nodes(vol)}, "u"))
}

func TestWeakOperatorsConsistentWithLift(t *testing.T) {
	dc, el := newTestCollection(t, 4, 3)
	vol := VolumeDD(VolumeAll)
	allFaces := vol.Trace(FaceRestrAll)
	f := utils.NewMatrix(2, el.K, []float64{1, 2, 3, 4, 5, 6})
	lifted := dc.InverseMass(vol, dc.FaceMass(allFaces, f))
	expected := el.LIFT.Mul(f).ElDiv(el.J)
	for i := range expected.DataP {
		assert.InDelta(t, expected.DataP[i], lifted.DataP[i], 1.e-12)
	}
	// Strong derivative recovered from the weak form: M^-1 (S^T u - E (u n)) = -du/dx
	x := dc.Nodes(vol)
	u := x.Copy().POW(2)
	uf := dc.Project(vol, allFaces, u).ElMul(el.NX)
	dudx := dc.InverseMass(vol, dc.WeakLocalGrad(vol, u)[0].Subtract(dc.FaceMass(allFaces, uf))).Scale(-1)
	for i := range dudx.DataP {
		assert.InDelta(t, 2*x.DataP[i], dudx.DataP[i], 1.e-10)
	}
	// The same on the quadrature points
	volQuad := vol.WithDiscrTag(DiscrTagQuad)
	uq := dc.Project(vol, volQuad, u)
	dudxq := dc.InverseMass(vol, dc.WeakLocalDiv(volQuad, Fields{uq}).Subtract(dc.FaceMass(allFaces, uf))).Scale(-1)
	for i := range dudxq.DataP {
		assert.InDelta(t, 2*x.DataP[i], dudxq.DataP[i], 1.e-10)
	}
	assert.InDelta(t, 1./3., dc.Integral(vol, u), 1.e-12)
	assert.InDelta(t, 1./3., dc.NormL2(vol, x)*dc.NormL2(vol, x), 1.e-12)
}

func TestInterVolumeTracePairs(t *testing.T) {
	VXa, EToVa := DG1D.SimpleMesh1D(0, 1, 3)
	VXb, EToVb := DG1D.SimpleMesh1D(1, 1.5, 2)
	elA := DG1D.NewElements1D(2, VXa, EToVa)
	elB := DG1D.NewElements1D(3, VXb, EToVb)
	dc := NewCollection()
	require.NoError(t, dc.AddVolume("fluid", elA, map[BoundaryTag]float64{"inlet": 0, "interface": 1}))
	require.NoError(t, dc.AddVolume("wall", elB, map[BoundaryTag]float64{"interface": 1, "outer": 1.5}))
	assert.Error(t, dc.AddVolume("wall", elB, nil))
	assert.Error(t, dc.AddVolume("bad", elB, map[BoundaryTag]float64{FaceRestrAll: 1}))
	assert.Error(t, dc.AddVolume("bad", elB, map[BoundaryTag]float64{"a": 1}))
	assert.Error(t, dc.Connect("fluid", "inlet", "wall", "interface"))
	assert.ErrorIs(t, dc.Connect("fluid", "nope", "wall", "interface"), ErrUnknownBoundary)
	assert.ErrorIs(t, dc.Connect("air", "interface", "wall", "interface"), ErrUnknownVolume)

	_, err := dc.InterVolumeTracePairs([]InterVolumeData{{VolumeA: "fluid", VolumeB: "wall",
		DataA: Fields{utils.NewMatrix(3, 3)}, DataB: Fields{utils.NewMatrix(4, 2)}}}, "T")
	assert.ErrorIs(t, err, ErrNoConnection)

	require.NoError(t, dc.Connect("fluid", "interface", "wall", "interface"))
	assert.True(t, dc.IsConnected("wall", "interface"))
	assert.Error(t, dc.Connect("fluid", "interface", "wall", "interface"))
	// The connected faces leave the union of open boundaries
	nr, _ := dc.Shape(VolumeDD("fluid").Trace(BTagAll))
	assert.Equal(t, 1, nr)

	ddF, ddW := VolumeDD("fluid"), VolumeDD("wall")
	data := []InterVolumeData{{
		VolumeA: "wall", VolumeB: "fluid",
		DataA: Fields{dc.Constant(ddW, 5), dc.Nodes(ddW)},
		DataB: Fields{dc.Constant(ddF, 2), dc.Nodes(ddF).Scale(2)},
	}}
	pairs, err := dc.InterVolumeTracePairs(data, "T")
	require.NoError(t, err)
	require.Len(t, pairs[ExchangeKey{From: "wall", To: "fluid"}], 1)
	require.Len(t, pairs[ExchangeKey{From: "fluid", To: "wall"}], 1)
	onFluid := pairs[ExchangeKey{From: "wall", To: "fluid"}][0]
	assert.Equal(t, ddF.Trace("interface"), onFluid.DD)
	assert.Equal(t, 2., onFluid.Int[0].At(0, 0))
	assert.Equal(t, 5., onFluid.Ext[0].At(0, 0))
	assert.InDelta(t, 2., onFluid.Int[1].At(0, 0), 1.e-14)
	assert.InDelta(t, 1., onFluid.Ext[1].At(0, 0), 1.e-14)
	onWall := pairs[ExchangeKey{From: "fluid", To: "wall"}][0]
	assert.Equal(t, 5., onWall.Int[0].At(0, 0))
	assert.Equal(t, 2., onWall.Ext[0].At(0, 0))
	assert.Equal(t, 0, dc.mail.Pending())

	_, err = dc.InterVolumeTracePairs([]InterVolumeData{{VolumeA: "wall", VolumeB: "fluid",
		DataA: Fields{dc.Constant(ddW, 5)}, DataB: nil}}, "T")
	assert.Error(t, err)
}
