package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Zero clears v in place
func Zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}

// NearlyEqual compares with a mixed absolute/relative tolerance
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
