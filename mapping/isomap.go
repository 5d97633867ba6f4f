package mapping

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/shapes"
)

// IsoMap is the isoparametric map of one element at a time. All fields are
// scratch reused for every point of every element:
//
//	Xe  - d x m nodal coordinates of the current element, filled by the caller
//	X   - spatial image of the last evaluated reference point
//	J   - Jacobian dx/dxi, held in LU factored form after Eval
//	Piv - row interchanges of the factorization
type IsoMap struct {
	Shape *shapes.Shape
	Xe    *mat.Dense
	X     []float64
	J     *mat.Dense
	Piv   []int
	ok    bool
}

func NewIsoMap(f *shapes.Family) *IsoMap {
	var (
		d = f.Dim()
	)
	return &IsoMap{
		Shape: shapes.New(f),
		Xe:    mat.NewDense(d, f.NShapes(), nil),
		X:     make([]float64, d),
		J:     mat.NewDense(d, d, nil),
		Piv:   make([]int, d),
	}
}

// SetNodes copies element nodal coordinates (d x m) into Xe
func (m *IsoMap) SetNodes(Xe mat.Matrix) {
	var (
		nr, nc = Xe.Dims()
		d, ms  = m.Xe.Dims()
	)
	if nr != d || nc != ms {
		panic(fmt.Errorf("nodal coordinates are %dx%d, want %dx%d", nr, nc, d, ms))
	}
	m.Xe.Copy(Xe)
}

// Eval evaluates the shapes at xi, the spatial point x = Xe N and the
// Jacobian J = Xe DN^T, then factors J. It returns false if J is singular.
func (m *IsoMap) Eval(xi []float64) (ok bool) {
	var (
		s       = m.Shape
		d, nsh  = m.Xe.Dims()
		xe      = m.Xe.RawMatrix()
		dn      = s.DN.RawMatrix()
		jac     = m.J.RawMatrix()
		row, dr []float64
	)
	s.Eval(xi)
	for a := 0; a < d; a++ {
		row = xe.Data[a*xe.Stride : a*xe.Stride+nsh]
		var x float64
		for i, val := range row {
			x += val * s.N[i]
		}
		m.X[a] = x
		for b := 0; b < d; b++ {
			dr = dn.Data[b*dn.Stride : b*dn.Stride+nsh]
			var sum float64
			for i, val := range row {
				sum += val * dr[i]
			}
			jac.Data[a*jac.Stride+b] = sum
		}
	}
	m.ok = Factor(m.J, m.Piv)
	return m.ok
}

// OK reports whether the last Eval produced a usable factorization
func (m *IsoMap) OK() bool { return m.ok }

// Det is the Jacobian determinant at the last evaluated point
func (m *IsoMap) Det() float64 {
	return Determinant(m.J, m.Piv)
}

// TransformGradients replaces the reference gradients in Shape.DN by spatial
// gradients. It must follow a successful Eval and is not idempotent.
func (m *IsoMap) TransformGradients() {
	SolveGradientsT(m.J, m.Piv, m.Shape.DN)
}
