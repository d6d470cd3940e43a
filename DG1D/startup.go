package DG1D

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gocfd-heat/utils"
)

type Elements1D struct {
	K, Np, Nfp, NFaces        int
	R, VX                     utils.Vector
	FMask                     utils.Index
	EToV, EToE, EToF          utils.Matrix
	X, Dr, Rx, J, FScale, NX  utils.Matrix
	LIFT, V, Vinv             utils.Matrix
	VmapM, VmapP, VmapB, MapB utils.Index
	Emat, MassRef, MassRefInv utils.Matrix
	WeakDr                    utils.Matrix // transpose of the stiffness matrix M*Dr
	Nq                        int          // quadrature points per element
	Rq, Wq                    utils.Vector
	Vq, Drq, WeakDrq          utils.Matrix
}

// SimpleMesh1D splits [xmin, xmax] into K equal elements
func SimpleMesh1D(xmin, xmax float64, K int) (VX utils.Vector, EToV utils.Matrix) {
	var (
		Nv = K + 1
	)
	VX = utils.NewVector(Nv)
	for i := 0; i < Nv; i++ {
		VX.DataP[i] = (xmax-xmin)*float64(i)/float64(Nv-1) + xmin
	}
	EToV = utils.NewMatrix(K, 2)
	for k := 0; k < K; k++ {
		EToV.Set(k, 0, float64(k))
		EToV.Set(k, 1, float64(k+1))
	}
	return
}

// NewElements1D builds the order N nodal element set on the mesh.
// The optional quadOrder sets the number of Gauss points used for
// overintegration, the default is N+2.
func NewElements1D(N int, VX utils.Vector, EToV utils.Matrix, quadOrder ...int) (el *Elements1D) {
	var (
		K, _ = EToV.Dims()
	)
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be at least 1, have %d", N))
	}
	el = &Elements1D{
		K:      K,
		Np:     N + 1,
		Nfp:    1,
		NFaces: 2,
		VX:     VX,
		EToV:   EToV,
		Nq:     N + 2,
	}
	if len(quadOrder) != 0 && quadOrder[0] > 0 {
		el.Nq = quadOrder[0]
	}
	el.Startup1D()
	return
}

func (el *Elements1D) Startup1D() {
	var (
		err error
		N   = el.Np - 1
	)
	el.R = JacobiGL(0, 0, N)
	el.V = Vandermonde1D(N, el.R)
	if el.Vinv, err = el.V.Inverse(); err != nil {
		panic(fmt.Errorf("error inverting V: %w", err))
	}
	Vr := GradVandermonde1D(el.R, N)
	el.Dr = Vr.Mul(el.Vinv)
	el.LIFT = Lift1D(el.V, el.Np, el.NFaces, el.Nfp)
	el.NX = Normals1D(el.NFaces, el.Nfp, el.K)

	// x = ones(Np)*VX(va) + 0.5*(r+1.)*sT(vc)
	el.X = utils.NewMatrix(el.Np, el.K)
	for k := 0; k < el.K; k++ {
		va, vb := int(el.EToV.At(k, 0)), int(el.EToV.At(k, 1))
		xa, xb := el.VX.AtVec(va), el.VX.AtVec(vb)
		for i, r := range el.R.DataP {
			el.X.Set(i, k, xa+0.5*(r+1.)*(xb-xa))
		}
	}
	el.J, el.Rx = GeometricFactors1D(el.Dr, el.X)

	fmask1 := el.R.Copy().AddScalar(1).Find(utils.Less, utils.NODETOL, true)
	fmask2 := el.R.Copy().AddScalar(-1).Find(utils.Less, utils.NODETOL, true)
	el.FMask = append(fmask1, fmask2...)
	el.FScale = utils.NewMatrix(el.NFaces*el.Nfp, el.K)
	for f, i := range el.FMask {
		for k := 0; k < el.K; k++ {
			el.FScale.Set(f, k, 1./el.J.At(i, k))
		}
	}
	el.Connect1D()
	el.BuildMaps1D()
	el.WeakOperators1D()
	el.Quadrature1D()
	return
}

func (el *Elements1D) Connect1D() {
	var (
		NFaces     = el.NFaces
		K          = el.K
		Nv         = el.VX.Len()
		TotalFaces = NFaces * K
		vn         = []int{0, 1} // local face to vertex connections
	)
	SpFToV_Tmp := sparse.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			SpFToV_Tmp.Set(sk, int(el.EToV.At(k, vn[face])), 1)
			sk++
		}
	}
	SpFToV := SpFToV_Tmp.ToCSR()
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToF.Mul(SpFToV, SpFToV.T())

	// Default: every face connects to itself
	el.EToE = utils.NewMatrix(K, NFaces)
	el.EToF = utils.NewMatrix(K, NFaces)
	for k := 0; k < K; k++ {
		for f := 0; f < NFaces; f++ {
			el.EToE.Set(k, f, float64(k))
			el.EToF.Set(k, f, float64(f))
		}
	}
	// Off diagonal entries equal to one mark two faces sharing a vertex
	SpFToF.DoNonZero(func(face1, face2 int, v float64) {
		if face1 == face2 || v != 1 {
			return
		}
		element1, f1 := face1/NFaces, face1%NFaces
		element2, f2 := face2/NFaces, face2%NFaces
		el.EToE.Set(element1, f1, float64(element2))
		el.EToF.Set(element1, f1, float64(f2))
	})
	return
}

// BuildMaps1D numbers face points in column major order over the
// (Nfp*NFaces) x K face array, VmapM/VmapP hold the volume node behind each
// face point and its neighbor
func (el *Elements1D) BuildMaps1D() {
	var (
		NF = el.Nfp * el.NFaces
	)
	el.VmapM = utils.NewIndex(NF * el.K)
	for k := 0; k < el.K; k++ {
		for f := 0; f < NF; f++ {
			el.VmapM[f+NF*k] = el.FMask[f] + el.Np*k
		}
	}
	el.VmapP = utils.NewIndex(NF * el.K)
	for k1 := 0; k1 < el.K; k1++ {
		for f1 := 0; f1 < el.NFaces; f1++ {
			k2 := int(el.EToE.At(k1, f1))
			f2 := int(el.EToF.At(k1, f1))
			vidM := el.VmapM[f1+NF*k1]
			vidP := el.VmapM[f2+NF*k2]
			v1 := int(el.EToV.At(k1, 0))
			v2 := int(el.EToV.At(k1, 1))
			refd := math.Abs(el.VX.AtVec(v1) - el.VX.AtVec(v2))
			x1 := el.X.SubsetVector(utils.Index{vidM}).AtVec(0)
			x2 := el.X.SubsetVector(utils.Index{vidP}).AtVec(0)
			if math.Abs(x1-x2) > utils.NODETOL*refd {
				panic(fmt.Errorf("face point mismatch at element %d face %d: %v vs %v", k1, f1, x1, x2))
			}
			el.VmapP[f1+NF*k1] = vidP
		}
	}

	// Create list of boundary nodes
	el.MapB = el.VmapP.Compare(utils.Equal, el.VmapM)
	el.VmapB = el.VmapM.Subset(el.MapB)
	return
}
