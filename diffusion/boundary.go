package diffusion

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/notargets/gocfd-heat/discretization"
	"github.com/notargets/gocfd-heat/utils"
)

// Boundary is a diffusion boundary condition. Implementations receive base
// volume fields and the boundary descriptor, and return their flux
// contribution on all faces of the quadrature discretization. The set of
// implementations is closed.
type Boundary interface {
	GradFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
		u utils.Matrix, quadTag discretization.DiscrTag) (discretization.Fields, error)
	DiffusionFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
		kappa utils.Matrix, gradU discretization.Fields, quadTag discretization.DiscrTag) (utils.Matrix, error)
	// writeSignature hashes the boundary data GradFlux depends on
	writeSignature(h *xxhash.Digest)
}

// BoundaryMap assigns a boundary condition to each boundary tag of a volume
type BoundaryMap map[discretization.BoundaryTag]Boundary

// Boundary data is either a constant or a field on the base boundary trace
type boundaryValue struct {
	Value      float64
	ValueField utils.Matrix
}

func (bv boundaryValue) on(dcoll *discretization.Collection, dd discretization.DOFDesc) (f utils.Matrix, err error) {
	if bv.ValueField.IsEmpty() {
		return dcoll.Constant(dd, bv.Value), nil
	}
	if err = checkShape(dcoll, dd, bv.ValueField); err != nil {
		return
	}
	return bv.ValueField, nil
}

func (bv boundaryValue) writeSignature(h *xxhash.Digest) {
	if bv.ValueField.IsEmpty() {
		writeFloats(h, []float64{bv.Value})
		return
	}
	writeFloats(h, bv.ValueField.DataP)
}

// DirichletBoundary prescribes u = f on the boundary. The gradient flux uses
// the exterior value 2f - u, the diffusion flux treats the interior kappa and
// grad(u) as continuous across the boundary.
type DirichletBoundary struct {
	boundaryValue
}

func NewDirichletBoundary(f float64) *DirichletBoundary {
	return &DirichletBoundary{boundaryValue{Value: f}}
}

// NewDirichletBoundaryField takes f as an Nb x 1 field on the base boundary trace
func NewDirichletBoundaryField(f utils.Matrix) *DirichletBoundary {
	return &DirichletBoundary{boundaryValue{ValueField: f}}
}

func (b *DirichletBoundary) GradFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	u utils.Matrix, quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	var (
		f utils.Matrix
	)
	if f, err = b.on(dcoll, ddBdry); err != nil {
		return
	}
	uInt := dcoll.Project(volumeOf(ddBdry), ddBdry, u)
	uExt := f.Copy().Scale(2).Subtract(uInt)
	flux = GradFlux(dcoll, discretization.NewTracePair(ddBdry, uInt, uExt), quadTag)
	return
}

func (b *DirichletBoundary) DiffusionFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	kappa utils.Matrix, gradU discretization.Fields, quadTag discretization.DiscrTag) (flux utils.Matrix, err error) {
	var (
		ddVol      = volumeOf(ddBdry)
		kappaTpair = mirrorPair(dcoll.Project(ddVol, ddBdry, kappa), ddBdry)
		gradUInt   = dcoll.ProjectFields(ddVol, ddBdry, gradU)
	)
	gradUTpair := discretization.NewVectorTracePair(ddBdry, gradUInt, gradUInt.Copy())
	flux = DiffusionFlux(dcoll, kappaTpair, gradUTpair, quadTag)
	return
}

func (b *DirichletBoundary) writeSignature(h *xxhash.Digest) {
	_, _ = h.WriteString("dirichlet")
	b.boundaryValue.writeSignature(h)
}

// NeumannBoundary prescribes grad(u) . n = g on the boundary
type NeumannBoundary struct {
	boundaryValue
}

func NewNeumannBoundary(g float64) *NeumannBoundary {
	return &NeumannBoundary{boundaryValue{Value: g}}
}

// NewNeumannBoundaryField takes g as an Nb x 1 field on the base boundary trace
func NewNeumannBoundaryField(g utils.Matrix) *NeumannBoundary {
	return &NeumannBoundary{boundaryValue{ValueField: g}}
}

func (b *NeumannBoundary) GradFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	u utils.Matrix, quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	flux = GradFlux(dcoll, mirrorPair(dcoll.Project(volumeOf(ddBdry), ddBdry, u), ddBdry), quadTag)
	return
}

func (b *NeumannBoundary) DiffusionFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	kappa utils.Matrix, gradU discretization.Fields, quadTag discretization.DiscrTag) (flux utils.Matrix, err error) {
	var (
		g              utils.Matrix
		ddBdryQuad     = ddBdry.WithDiscrTag(quadTag)
		ddAllFacesQuad = ddBdryQuad.WithBoundaryTag(discretization.FaceRestrAll)
	)
	if g, err = b.on(dcoll, ddBdry); err != nil {
		return
	}
	kappaQuad := dcoll.Project(volumeOf(ddBdry), ddBdryQuad, kappa)
	gQuad := dcoll.Project(ddBdry, ddBdryQuad, g)
	flux = dcoll.Project(ddBdryQuad, ddAllFacesQuad, kappaQuad.ElMul(gQuad).Scale(-1))
	return
}

func (b *NeumannBoundary) writeSignature(h *xxhash.Digest) {
	_, _ = h.WriteString("neumann")
	b.boundaryValue.writeSignature(h)
}

// InterfaceBoundary couples a volume to another across an interface using
// exterior values of u, grad(u) and kappa received from the other side. All
// three are fields on the base boundary trace.
type InterfaceBoundary struct {
	UExt     utils.Matrix
	GradUExt discretization.Fields
	KappaExt utils.Matrix
}

func NewInterfaceBoundary(uExt utils.Matrix, gradUExt discretization.Fields, kappaExt utils.Matrix) *InterfaceBoundary {
	return &InterfaceBoundary{UExt: uExt, GradUExt: gradUExt, KappaExt: kappaExt}
}

func (b *InterfaceBoundary) check(dcoll *discretization.Collection, ddBdry discretization.DOFDesc) (err error) {
	if err = checkShape(dcoll, ddBdry, b.UExt); err != nil {
		return
	}
	if err = checkShape(dcoll, ddBdry, b.KappaExt); err != nil {
		return
	}
	if len(b.GradUExt) != dcoll.Dim {
		return fmt.Errorf("exterior gradient on %v has %d components: %w", ddBdry, len(b.GradUExt), ErrShapeMismatch)
	}
	for _, g := range b.GradUExt {
		if err = checkShape(dcoll, ddBdry, g); err != nil {
			return
		}
	}
	return
}

func (b *InterfaceBoundary) GradFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	u utils.Matrix, quadTag discretization.DiscrTag) (flux discretization.Fields, err error) {
	if err = b.check(dcoll, ddBdry); err != nil {
		return
	}
	uTpair := discretization.NewTracePair(ddBdry, dcoll.Project(volumeOf(ddBdry), ddBdry, u), b.UExt)
	flux = GradFlux(dcoll, uTpair, quadTag)
	return
}

func (b *InterfaceBoundary) DiffusionFlux(dcoll *discretization.Collection, ddBdry discretization.DOFDesc,
	kappa utils.Matrix, gradU discretization.Fields, quadTag discretization.DiscrTag) (flux utils.Matrix, err error) {
	if err = b.check(dcoll, ddBdry); err != nil {
		return
	}
	ddVol := volumeOf(ddBdry)
	kappaTpair := discretization.NewTracePair(ddBdry, dcoll.Project(ddVol, ddBdry, kappa), b.KappaExt)
	gradUTpair := discretization.NewVectorTracePair(ddBdry, dcoll.ProjectFields(ddVol, ddBdry, gradU), b.GradUExt)
	flux = DiffusionFlux(dcoll, kappaTpair, gradUTpair, quadTag)
	return
}

func (b *InterfaceBoundary) writeSignature(h *xxhash.Digest) {
	_, _ = h.WriteString("interface")
	writeFloats(h, b.UExt.DataP)
}

func volumeOf(dd discretization.DOFDesc) discretization.DOFDesc {
	return dd.Untrace().WithDiscrTag(discretization.DiscrTagBase)
}

func mirrorPair(interior utils.Matrix, dd discretization.DOFDesc) discretization.TracePair {
	return discretization.NewTracePair(dd, interior, interior.Copy())
}

func checkShape(dcoll *discretization.Collection, dd discretization.DOFDesc, f utils.Matrix) error {
	if f.IsEmpty() {
		return fmt.Errorf("missing field on %v: %w", dd, ErrShapeMismatch)
	}
	nr, nc := dcoll.Shape(dd)
	nrF, ncF := f.Dims()
	if nr != nrF || nc != ncF {
		return fmt.Errorf("field [%d,%d] on %v of shape [%d,%d]: %w", nrF, ncF, dd, nr, nc, ErrShapeMismatch)
	}
	return nil
}

// validateBoundaries runs before any flux work
func validateBoundaries(dcoll *discretization.Collection, ddVol discretization.DOFDesc, boundaries BoundaryMap) error {
	for _, btag := range sortedTags(boundaries) {
		var ok bool
		switch b := boundaries[btag].(type) {
		case *DirichletBoundary:
			ok = b != nil
		case *NeumannBoundary:
			ok = b != nil
		case *InterfaceBoundary:
			ok = b != nil
		}
		if !ok {
			return fmt.Errorf("boundary %q (%T): %w", btag, boundaries[btag], ErrUnrecognizedBoundary)
		}
		if !dcoll.HasBoundary(ddVol.Volume, btag) {
			return fmt.Errorf("boundary %q on volume %q: %w", btag, ddVol.Volume, ErrUnknownBoundaryTag)
		}
	}
	return nil
}
