package mapping

import (
	"iter"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/quadrature"
)

// Chi maps a point in place: x arrives holding reference coordinates and
// leaves holding the spatial point, J receives dx/dxi.
type Chi func(x []float64, J *mat.Dense)

// MappedRule is a quadrature rule whose points are mapped into physical space
// and whose weights carry the Jacobian determinant. Point(i) performs the
// mapping and factors the Jacobian; Weight(i) reuses that factorization, and
// evaluates Point(i) itself when the cached point is a different one.
//
// The rule owns its scratch; X and the shape values behind an iso mapping are
// valid until the next call to Point.
type MappedRule struct {
	Base quadrature.Rule
	X    []float64
	J    *mat.Dense
	Piv  []int

	chi       Chi
	iso       *IsoMap
	transform bool
	xi        []float64
	cur       int
	det       float64
	ok        bool
}

// NewMappedRule composes base with a user mapping
func NewMappedRule(base quadrature.Rule, chi Chi) *MappedRule {
	d := base.Dim()
	return &MappedRule{
		Base: base,
		X:    make([]float64, d),
		J:    mat.NewDense(d, d, nil),
		Piv:  make([]int, d),
		chi:  chi,
		cur:  -1,
	}
}

// NewIsoRule composes base with an isoparametric map. With transform set the
// shape gradients held by iso are converted to spatial gradients at each point.
func NewIsoRule(base quadrature.Rule, iso *IsoMap, transform bool) *MappedRule {
	return &MappedRule{
		Base:      base,
		X:         iso.X,
		J:         iso.J,
		Piv:       iso.Piv,
		iso:       iso,
		transform: transform,
		xi:        make([]float64, base.Dim()),
		cur:       -1,
	}
}

func (r *MappedRule) Len() int { return r.Base.Len() }

// Reset drops the cached point, needed after the element geometry changes
func (r *MappedRule) Reset() { r.cur = -1 }

// Point maps base point i and returns the spatial point
func (r *MappedRule) Point(i int) []float64 {
	if r.iso != nil {
		r.Base.Point(i, r.xi)
		r.ok = r.iso.Eval(r.xi)
		if r.ok && r.transform {
			r.iso.TransformGradients()
		}
	} else {
		r.Base.Point(i, r.X)
		r.chi(r.X, r.J)
		r.ok = Factor(r.J, r.Piv)
	}
	r.det = 0
	if r.ok {
		r.det = Determinant(r.J, r.Piv)
	}
	r.cur = i
	return r.X
}

// Weight is the base weight scaled by the Jacobian determinant at point i
func (r *MappedRule) Weight(i int) float64 {
	if r.cur != i {
		r.Point(i)
	}
	return r.Base.Weight(i) * r.det
}

// Det is the Jacobian determinant at the current point, zero when singular
func (r *MappedRule) Det() float64 { return r.det }

// OK reports whether the Jacobian at the current point could be factored
func (r *MappedRule) OK() bool { return r.ok }

// All iterates the mapped (point, weight) pairs from the start
func (r *MappedRule) All() iter.Seq2[[]float64, float64] {
	return func(yield func([]float64, float64) bool) {
		r.Reset()
		for i := 0; i < r.Len(); i++ {
			x := r.Point(i)
			if !yield(x, r.Weight(i)) {
				return
			}
		}
	}
}
