package discretization

import (
	"fmt"

	"github.com/notargets/gocfd-heat/utils"
)

// TracePair holds a scalar field on a trace as seen from the local (Int) and
// neighboring (Ext) side, point for point
type TracePair struct {
	DD       DOFDesc
	Tag      CommTag
	Int, Ext utils.Matrix
}

func NewTracePair(dd DOFDesc, interior, exterior utils.Matrix) TracePair {
	nrI, ncI := interior.Dims()
	nrE, ncE := exterior.Dims()
	if nrI != nrE || ncI != ncE {
		panic(fmt.Errorf("trace pair on %v: interior [%d,%d] exterior [%d,%d]", dd, nrI, ncI, nrE, ncE))
	}
	return TracePair{DD: dd, Int: interior, Ext: exterior}
}

func (tp TracePair) Avg() utils.Matrix {
	return tp.Int.Copy().Add(tp.Ext).Scale(0.5)
}

// Diff is the jump Ext - Int
func (tp TracePair) Diff() utils.Matrix {
	return tp.Ext.Copy().Subtract(tp.Int)
}

type VectorTracePair struct {
	DD       DOFDesc
	Tag      CommTag
	Int, Ext Fields
}

func NewVectorTracePair(dd DOFDesc, interior, exterior Fields) VectorTracePair {
	if len(interior) != len(exterior) {
		panic(fmt.Errorf("vector trace pair on %v: %d interior and %d exterior components",
			dd, len(interior), len(exterior)))
	}
	for i := range interior {
		_ = NewTracePair(dd, interior[i], exterior[i])
	}
	return VectorTracePair{DD: dd, Int: interior, Ext: exterior}
}

func (tp VectorTracePair) Avg() Fields {
	return tp.Int.Copy().Add(tp.Ext).Scale(0.5)
}

func (tp VectorTracePair) Diff() Fields {
	return tp.Ext.Copy().Subtract(tp.Int)
}

// Component extracts the scalar pair for one component
func (tp VectorTracePair) Component(i int) TracePair {
	return TracePair{DD: tp.DD, Tag: tp.Tag, Int: tp.Int[i], Ext: tp.Ext[i]}
}
