package discretization

import (
	"fmt"
)

// DiscrTag selects the point set a field lives on
type DiscrTag uint8

const (
	DiscrTagBase DiscrTag = iota // nodal points
	DiscrTagQuad                 // overintegration quadrature points
)

func (d DiscrTag) String() string {
	switch d {
	case DiscrTagBase:
		return "base"
	case DiscrTagQuad:
		return "quad"
	}
	return fmt.Sprintf("discr(%d)", uint8(d))
}

// BoundaryTag names a trace domain: a tagged mesh boundary or one of the
// face restrictions below. The empty tag means the volume itself.
type BoundaryTag string

const (
	FaceRestrAll      BoundaryTag = "all_faces"
	FaceRestrInterior BoundaryTag = "int_faces"
	// BTagAll is the union of a volume's boundary faces that are not
	// connected to another volume
	BTagAll BoundaryTag = "all_boundaries"
)

// CommTag distinguishes concurrent exchanges of different quantities
type CommTag string

// VolumeAll is the volume name used when a collection holds a single volume
const VolumeAll = "vol"

// DOFDesc identifies which volume, which trace and which discretization a
// field is defined on
type DOFDesc struct {
	Volume   string
	Boundary BoundaryTag
	Discr    DiscrTag
}

func VolumeDD(volume string) DOFDesc {
	return DOFDesc{Volume: volume}
}

func (dd DOFDesc) WithDiscrTag(discr DiscrTag) DOFDesc {
	dd.Discr = discr
	return dd
}

func (dd DOFDesc) WithBoundaryTag(btag BoundaryTag) DOFDesc {
	dd.Boundary = btag
	return dd
}

func (dd DOFDesc) WithVolume(volume string) DOFDesc {
	dd.Volume = volume
	return dd
}

// Trace moves a volume descriptor onto one of its traces
func (dd DOFDesc) Trace(btag BoundaryTag) DOFDesc {
	if btag == "" {
		panic(fmt.Errorf("empty trace tag for %v", dd))
	}
	return dd.WithBoundaryTag(btag)
}

func (dd DOFDesc) Untrace() DOFDesc {
	dd.Boundary = ""
	return dd
}

func (dd DOFDesc) IsVolume() bool { return dd.Boundary == "" }
func (dd DOFDesc) IsTrace() bool  { return dd.Boundary != "" }
func (dd DOFDesc) IsAllFaces() bool {
	return dd.Boundary == FaceRestrAll
}

func (dd DOFDesc) String() string {
	if dd.IsVolume() {
		return fmt.Sprintf("%s[%v]", dd.Volume, dd.Discr)
	}
	return fmt.Sprintf("%s/%s[%v]", dd.Volume, dd.Boundary, dd.Discr)
}
