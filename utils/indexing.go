package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

// Compare returns the positions i where (I[i] op Values[i]) holds
func (I Index) Compare(op EvalOp, Values Index) (J Index) {
	if len(I) != len(Values) {
		panic(fmt.Errorf("index compare on unequal lengths: %d, %d", len(I), len(Values)))
	}
	for i, val := range I {
		if op.Compare(float64(val), float64(Values[i])) {
			J = append(J, i)
		}
	}
	return
}

// Exclude returns the members of I that are not present in J, order preserved
func (I Index) Exclude(J Index) (r Index) {
	var (
		skip = make(map[int]bool, len(J))
	)
	for _, val := range J {
		skip[val] = true
	}
	for _, val := range I {
		if !skip[val] {
			r = append(r, val)
		}
	}
	return
}
