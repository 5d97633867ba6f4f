package utils

import (
	"fmt"
)

// Index is a list of integer indices. The assembly code uses it for local to
// global dof maps, where by convention entries <= 0 are not part of the system
// and entry k > 0 addresses row k-1.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

// Active counts entries that address the reduced system
func (I Index) Active() (n int) {
	for _, val := range I {
		if val > 0 {
			n++
		}
	}
	return
}

// SortInPlace is an insertion sort, it is meant for the short local index
// lists of an element and does not allocate
func (I Index) SortInPlace() Index {
	for i := 1; i < len(I); i++ {
		v := I[i]
		j := i - 1
		for ; j >= 0 && I[j] > v; j-- {
			I[j+1] = I[j]
		}
		I[j+1] = v
	}
	return I
}

// CheckBounds verifies all entries lie in [lo,hi]
func (I Index) CheckBounds(lo, hi int) (err error) {
	for i, val := range I {
		if val < lo || val > hi {
			err = fmt.Errorf("index out of bounds: I[%d] = %d, bounds = [%d,%d]", i, val, lo, hi)
			return
		}
	}
	return
}
