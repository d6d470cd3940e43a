package utils

import "math"

const (
	NODETOL = 1.e-12
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

func (op EvalOp) Compare(val, target float64) bool {
	switch op {
	case Equal:
		return val == target
	case Less:
		return val < target
	case Greater:
		return val > target
	case LessOrEqual:
		return val <= target
	case GreaterOrEqual:
		return val >= target
	}
	return false
}

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// POW is x^p, by repeated squaring for small |p|
func POW(x float64, p int) (y float64) {
	if p > 8 || p < -8 {
		return math.Pow(x, float64(p))
	}
	n := p
	if n < 0 {
		n = -n
	}
	y = 1
	for sq := x; n > 0; n >>= 1 {
		if n&1 == 1 {
			y *= sq
		}
		sq *= sq
	}
	if p < 0 {
		y = 1. / y
	}
	return
}
