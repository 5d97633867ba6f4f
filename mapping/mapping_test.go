package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/quadrature"
	"github.com/notargets/fekernel/shapes"
)

func TestLU(t *testing.T) {
	A := mat.NewDense(3, 3, []float64{
		0, 2, 1, // zero leading entry forces a row interchange
		4, 1, -1,
		2, 3, 5,
	})
	var (
		J   = mat.DenseCopyOf(A)
		piv = make([]int, 3)
	)
	require.True(t, Factor(J, piv))
	assert.InDelta(t, mat.Det(A), Determinant(J, piv), 1.e-12)
	{ // Transposed solve matches the explicit inverse transpose
		var (
			G    = mat.NewDense(3, 2, []float64{1, 0, -2, 3, 0.5, 1})
			Ainv mat.Dense
			want mat.Dense
		)
		require.NoError(t, Ainv.Inverse(A))
		want.Mul(Ainv.T(), G)
		SolveGradientsT(J, piv, G)
		assert.True(t, mat.EqualApprox(&want, G, 1.e-12))
	}
	{ // Singular
		S := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
		assert.False(t, Factor(S, make([]int, 2)))
	}
	{ // Negative orientation shows in the sign
		R := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
		p := make([]int, 2)
		require.True(t, Factor(R, p))
		assert.Equal(t, -1., Determinant(R, p))
	}
}

// affine is (x,y) -> (3+2x, 1+x+y)
func affine(x []float64, J *mat.Dense) {
	x0, x1 := x[0], x[1]
	x[0] = 3 + 2*x0
	x[1] = 1 + x0 + x1
	J.Set(0, 0, 2)
	J.Set(0, 1, 0)
	J.Set(1, 0, 1)
	J.Set(1, 1, 1)
}

type midpoint struct{}

func (midpoint) Len() int                  { return 1 }
func (midpoint) Dim() int                  { return 2 }
func (midpoint) Point(_ int, xi []float64) { xi[0], xi[1] = 0.5, 0.5 }
func (midpoint) Weight(int) float64        { return 1 }

func TestMappedRuleChi(t *testing.T) {
	r := NewMappedRule(midpoint{}, affine)
	x := r.Point(0)
	assert.Equal(t, []float64{4, 2}, x)
	assert.InDelta(t, 2., r.Weight(0), 1.e-15)
	assert.InDelta(t, 2., r.Det(), 1.e-15)
	// Re-evaluating the same point is safe
	x = r.Point(0)
	assert.Equal(t, []float64{4, 2}, x)
	assert.InDelta(t, 2., r.Weight(0), 1.e-15)
	// Area of the image of the unit square is the determinant
	var area float64
	for _, w := range NewMappedRule(quadrature.NewGauss2D(2), affine).All() {
		area += w
	}
	assert.InDelta(t, 4*2., area, 1.e-14) // [-1,1]^2 has area 4
}

func unitSquareImage(f *shapes.Family) (Xe *mat.Dense) {
	// Nodes of the reference element mapped through the affine transform,
	// with reference coordinates first taken to the unit square
	var (
		ref  = f.RefNodes()
		_, m = ref.Dims()
		x    = make([]float64, 2)
		J    = mat.NewDense(2, 2, nil)
	)
	Xe = mat.NewDense(2, m, nil)
	for i := 0; i < m; i++ {
		x[0], x[1] = ref.At(0, i), ref.At(1, i)
		if f != shapes.T1_2D {
			x[0], x[1] = 0.5*(x[0]+1), 0.5*(x[1]+1)
		}
		affine(x, J)
		Xe.Set(0, i, x[0])
		Xe.Set(1, i, x[1])
	}
	return
}

func TestIsoMapAffine(t *testing.T) {
	{ // Triangle: the reference element is already unit based
		iso := NewIsoMap(shapes.T1_2D)
		iso.SetNodes(unitSquareImage(shapes.T1_2D))
		require.True(t, iso.Eval([]float64{0.5, 0.5}))
		assert.InDeltaSlice(t, []float64{4, 2}, iso.X, 1.e-14)
		assert.InDelta(t, 2., iso.Det(), 1.e-14)
	}
	// Quads live on [-1,1]^2, a factor 1/2 per direction from the unit square
	for _, f := range []*shapes.Family{shapes.P1_2D, shapes.P2_2D, shapes.S2_2D} {
		iso := NewIsoMap(f)
		iso.SetNodes(unitSquareImage(f))
		require.True(t, iso.Eval([]float64{0, 0}))
		assert.InDeltaSlice(t, []float64{4, 2}, iso.X, 1.e-14, f.Name)
		assert.InDelta(t, 2*0.25, iso.Det(), 1.e-14, f.Name)
		require.True(t, iso.Eval([]float64{0.3, -0.7}))
		assert.InDelta(t, 2*0.25, iso.Det(), 1.e-14, f.Name)
	}
}

func TestTransformGradients(t *testing.T) {
	// The gradient of the interpolant of a linear field is the field gradient
	var (
		f    = shapes.P2_2D
		iso  = NewIsoMap(f)
		Xe   = unitSquareImage(f)
		m    = f.NShapes()
		u    = make([]float64, m)
		grad = []float64{1.5, -0.25}
	)
	// Perturb the bubble so the map is no longer affine
	Xe.Set(0, 8, Xe.At(0, 8)+0.05)
	Xe.Set(1, 8, Xe.At(1, 8)-0.03)
	iso.SetNodes(Xe)
	for i := 0; i < m; i++ {
		u[i] = 7 + grad[0]*Xe.At(0, i) + grad[1]*Xe.At(1, i)
	}
	for _, xi := range [][]float64{{0, 0}, {0.5, -0.5}, {-0.9, 0.8}} {
		require.True(t, iso.Eval(xi))
		iso.TransformGradients()
		DN := iso.Shape.DN
		for a := 0; a < 2; a++ {
			var g float64
			for i := 0; i < m; i++ {
				g += DN.At(a, i) * u[i]
			}
			assert.InDelta(t, grad[a], g, 1.e-12)
		}
	}
}

func TestIsoRule1D(t *testing.T) {
	var (
		f   = shapes.P3_1D
		iso = NewIsoMap(f)
	)
	// Element [2, 5] with interior nodes off their equispaced positions
	iso.SetNodes(mat.NewDense(1, 4, []float64{2, 3.1, 3.9, 5}))
	r := NewIsoRule(quadrature.NewGauss1D(4), iso, true)
	var length, moment float64
	for x, w := range r.All() {
		length += w
		moment += w * x[0]
		assert.Greater(t, r.Det(), 0.)
	}
	assert.InDelta(t, 3., length, 1.e-13)
	// x(xi) J(xi) is of degree 5, integrated exactly by 4 points
	assert.InDelta(t, (25.-4.)/2, moment, 1.e-12)
	// Weight before Point evaluates the point itself
	r.Reset()
	w := r.Weight(2)
	assert.Greater(t, w, 0.)
	r.Point(2)
	assert.Equal(t, w, r.Weight(2))
}

func TestInvertedElement(t *testing.T) {
	iso := NewIsoMap(shapes.P1_2D)
	// Clockwise node ordering
	iso.SetNodes(mat.NewDense(2, 4, []float64{
		0, 0, 1, 1,
		0, 1, 1, 0,
	}))
	r := NewIsoRule(quadrature.NewGauss2D(2), iso, false)
	for i := 0; i < r.Len(); i++ {
		r.Point(i)
		assert.Less(t, r.Det(), 0.)
	}
	// Collapsed element
	iso.SetNodes(mat.NewDense(2, 4, []float64{
		0, 1, 2, 3,
		0, 0, 0, 0,
	}))
	r.Reset()
	r.Point(0)
	assert.False(t, r.OK())
	assert.Equal(t, 0., r.Weight(0))
}
