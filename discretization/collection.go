package discretization

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/notargets/gocfd-heat/DG1D"
	"github.com/notargets/gocfd-heat/utils"
)

var (
	ErrUnknownVolume   = errors.New("unknown volume")
	ErrUnknownBoundary = errors.New("unknown boundary tag")
	ErrNoConnection    = errors.New("volumes are not connected")
)

// Volume is one meshed region of a Collection. Boundary tags map to
// positions in the column major (Nfp*NFaces) x K face array.
type Volume struct {
	Name       string
	El         *DG1D.Elements1D
	boundaries map[BoundaryTag]utils.Index
	interior   utils.Index
	connected  map[BoundaryTag]bool
}

type connection struct {
	volA, volB   string
	tagA, tagB   BoundaryTag
	permA, permB utils.Index // permA[j] is the B point facing A point j
}

// Collection is the discretization of one or more volumes, with the operators
// that act on fields defined over them
type Collection struct {
	Dim         int
	id          uint64
	volumes     map[string]*Volume
	names       []string
	connections []*connection
	mail        *utils.MailBox[Fields]
}

var collectionCount atomic.Uint64

func NewCollection() *Collection {
	return &Collection{
		Dim:     1,
		id:      collectionCount.Add(1),
		volumes: make(map[string]*Volume),
		mail:    utils.NewMailBox[Fields](4),
	}
}

// NewSingleVolumeCollection wraps a mesh as the volume VolumeAll with
// boundary tags "left" and "right"
func NewSingleVolumeCollection(el *DG1D.Elements1D) (dc *Collection) {
	dc = NewCollection()
	if err := dc.AddVolume(VolumeAll, el, nil); err != nil {
		panic(err)
	}
	return
}

// DefaultBoundaryTags tags the two ends of a 1D mesh "left" and "right"
func DefaultBoundaryTags(el *DG1D.Elements1D) map[BoundaryTag]float64 {
	return map[BoundaryTag]float64{
		"left":  el.X.Min(),
		"right": el.X.Max(),
	}
}

// AddVolume registers a mesh under name. Each boundary face point is tagged
// with the tag whose coordinate it matches, a nil map tags the mesh ends
// "left" and "right".
func (dc *Collection) AddVolume(name string, el *DG1D.Elements1D, tags map[BoundaryTag]float64) (err error) {
	if _, present := dc.volumes[name]; present {
		return fmt.Errorf("volume %q already present", name)
	}
	if tags == nil {
		tags = DefaultBoundaryTags(el)
	}
	var (
		v = &Volume{
			Name:       name,
			El:         el,
			boundaries: make(map[BoundaryTag]utils.Index),
			connected:  make(map[BoundaryTag]bool),
		}
		scale = el.X.Max() - el.X.Min()
		all   = utils.NewRange(0, el.Nfp*el.NFaces*el.K-1)
	)
	for tag := range tags {
		switch tag {
		case "", FaceRestrAll, FaceRestrInterior, BTagAll:
			return fmt.Errorf("volume %q: reserved boundary tag %q", name, tag)
		}
	}
	for _, pos := range el.MapB {
		x := el.X.SubsetVector(utils.Index{el.VmapM[pos]}).AtVec(0)
		var found bool
		for _, tag := range sortedTags(tags) {
			if math.Abs(x-tags[tag]) <= 1.e-10*scale {
				v.boundaries[tag] = append(v.boundaries[tag], pos)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("volume %q: boundary point at x = %v has no tag", name, x)
		}
	}
	for tag := range tags {
		if len(v.boundaries[tag]) == 0 {
			return fmt.Errorf("volume %q: boundary tag %q matches no boundary point", name, tag)
		}
	}
	v.interior = all.Exclude(el.MapB)
	dc.volumes[name] = v
	dc.names = append(dc.names, name)
	return
}

// Connect joins the boundary tagA of volA to the boundary tagB of volB,
// matching face points by coordinate
func (dc *Collection) Connect(volA string, tagA BoundaryTag, volB string, tagB BoundaryTag) (err error) {
	var (
		vA, vB *Volume
	)
	if vA, err = dc.Volume(volA); err != nil {
		return
	}
	if vB, err = dc.Volume(volB); err != nil {
		return
	}
	if volA == volB {
		return fmt.Errorf("cannot connect volume %q to itself", volA)
	}
	for _, vt := range []struct {
		v   *Volume
		tag BoundaryTag
	}{{vA, tagA}, {vB, tagB}} {
		if _, ok := vt.v.boundaries[vt.tag]; !ok {
			return fmt.Errorf("volume %q tag %q: %w", vt.v.Name, vt.tag, ErrUnknownBoundary)
		}
		if vt.v.connected[vt.tag] {
			return fmt.Errorf("volume %q tag %q is already connected", vt.v.Name, vt.tag)
		}
	}
	xA := dc.Nodes(VolumeDD(volA).Trace(tagA))
	xB := dc.Nodes(VolumeDD(volB).Trace(tagB))
	if xA.Len() != xB.Len() {
		return fmt.Errorf("connect %s/%s to %s/%s: %d and %d face points",
			volA, tagA, volB, tagB, xA.Len(), xB.Len())
	}
	scale := math.Max(vA.El.X.Max()-vA.El.X.Min(), vB.El.X.Max()-vB.El.X.Min())
	match := func(from, to utils.Matrix) (perm utils.Index, err error) {
		perm = utils.NewIndex(from.Len())
		for i, x := range from.DataP {
			perm[i] = -1
			for j, y := range to.DataP {
				if math.Abs(x-y) <= 1.e-10*scale {
					perm[i] = j
					break
				}
			}
			if perm[i] < 0 {
				err = fmt.Errorf("connect %s/%s to %s/%s: no face point matches x = %v",
					volA, tagA, volB, tagB, x)
				return
			}
		}
		return
	}
	conn := &connection{volA: volA, volB: volB, tagA: tagA, tagB: tagB}
	if conn.permA, err = match(xA, xB); err != nil {
		return
	}
	if conn.permB, err = match(xB, xA); err != nil {
		return
	}
	vA.connected[tagA] = true
	vB.connected[tagB] = true
	dc.connections = append(dc.connections, conn)
	return
}

// ID is unique to each Collection within a process
func (dc *Collection) ID() uint64 { return dc.id }

func (dc *Collection) Volume(name string) (v *Volume, err error) {
	var ok bool
	if v, ok = dc.volumes[name]; !ok {
		err = fmt.Errorf("volume %q: %w", name, ErrUnknownVolume)
	}
	return
}

func (dc *Collection) Volumes() []string {
	return append([]string(nil), dc.names...)
}

// Elements returns the mesh underlying the volume of dd
func (dc *Collection) Elements(dd DOFDesc) *DG1D.Elements1D {
	return dc.vol(dd).El
}

func (dc *Collection) vol(dd DOFDesc) *Volume {
	v, err := dc.Volume(dd.Volume)
	if err != nil {
		panic(err)
	}
	return v
}

// HasBoundary reports whether tag names a boundary of the volume. Face
// restrictions are not boundaries.
func (dc *Collection) HasBoundary(volume string, tag BoundaryTag) bool {
	v, ok := dc.volumes[volume]
	if !ok {
		return false
	}
	if tag == BTagAll {
		return len(v.unconnected()) != 0
	}
	_, ok = v.boundaries[tag]
	return ok
}

// BoundaryTags lists the volume's boundary tags in sorted order
func (dc *Collection) BoundaryTags(volume string) (tags []BoundaryTag) {
	v, ok := dc.volumes[volume]
	if !ok {
		return
	}
	for tag := range v.boundaries {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}

// IsConnected reports whether the boundary is attached to another volume
func (dc *Collection) IsConnected(volume string, tag BoundaryTag) bool {
	v, ok := dc.volumes[volume]
	return ok && v.connected[tag]
}

func (v *Volume) unconnected() (I utils.Index) {
	for _, tag := range sortedIndexTags(v.boundaries) {
		if !v.connected[tag] {
			I = append(I, v.boundaries[tag]...)
		}
	}
	return
}

// traceIndex returns the face array positions of a trace other than all faces
func (dc *Collection) traceIndex(dd DOFDesc) utils.Index {
	v := dc.vol(dd)
	switch dd.Boundary {
	case FaceRestrInterior:
		return v.interior
	case BTagAll:
		return v.unconnected()
	case "", FaceRestrAll:
		panic(fmt.Errorf("%v is not a partial trace", dd))
	}
	I, ok := v.boundaries[dd.Boundary]
	if !ok {
		panic(fmt.Errorf("%v: %w", dd, ErrUnknownBoundary))
	}
	return I
}

func sortedTags(m map[BoundaryTag]float64) (tags []BoundaryTag) {
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}

func sortedIndexTags(m map[BoundaryTag]utils.Index) (tags []BoundaryTag) {
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return
}
