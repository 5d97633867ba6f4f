package quadrature

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/notargets/fekernel/utils"
)

func TestGaussTable(t *testing.T) {
	for n := 1; n <= MaxGaussPoints; n++ {
		var (
			x, w     = make([]float64, n), make([]float64, n)
			idx      = make([]int, n)
			sumW     float64
			gx, gw   float64
			previous = -2.
		)
		quad.Legendre{}.FixedLocations(x, w, -1, 1)
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
		for i := 0; i < n; i++ {
			gx, gw = GaussPoint(n, i)
			assert.InDelta(t, x[idx[i]], gx, 1.e-12, "n = %d, i = %d", n, i)
			assert.InDelta(t, w[idx[i]], gw, 1.e-12, "n = %d, i = %d", n, i)
			assert.Greater(t, gx, previous)
			previous = gx
			sumW += gw
			// Symmetric about zero
			sx, sw := GaussPoint(n, n-1-i)
			assert.InDelta(t, -gx, sx, 1.e-16)
			assert.Equal(t, gw, sw)
		}
		assert.InDelta(t, 2., sumW, 1.e-14)
	}
	assert.Panics(t, func() { GaussPoint(0, 0) })
	assert.Panics(t, func() { GaussPoint(11, 0) })
	assert.Panics(t, func() { NewGauss1D(12) })
	assert.Panics(t, func() { NewGauss2D(-1) })
}

// exact integral of x^p over [-1,1]
func monomial1D(p int) float64 {
	if p%2 == 1 {
		return 0
	}
	return 2. / float64(p+1)
}

func TestGauss1DExactness(t *testing.T) {
	for n := 1; n <= MaxGaussPoints; n++ {
		r := NewGauss1D(n)
		assert.Equal(t, 1, r.Dim())
		for p := 0; p <= 2*n-1; p++ {
			got := Integrate(r, func(xi []float64) float64 { return math.Pow(xi[0], float64(p)) })
			assert.InDelta(t, monomial1D(p), got, 1.e-13, "n = %d, p = %d", n, p)
		}
	}
	{ // A degree 5 polynomial is integrated exactly by 3 or more points
		f := func(xi []float64) float64 {
			x := xi[0]
			return 3*math.Pow(x, 5) - 2*math.Pow(x, 4) + x*x + 7
		}
		exact := -2*2./5 + 2./3 + 14
		for n := 3; n <= MaxGaussPoints; n++ {
			assert.InDelta(t, exact, Integrate(NewGauss1D(n), f), 1.e-13)
		}
		assert.Greater(t, abs(exact-Integrate(NewGauss1D(2), f)), 1.e-3)
	}
}

func abs(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}

func TestGauss2DExactness(t *testing.T) {
	for n := 1; n <= 5; n++ {
		r := NewGauss2D(n)
		require.Equal(t, n*n, r.Len())
		for p := 0; p <= 2*n-1; p++ {
			for q := 0; q <= 2*n-1; q++ {
				got := Integrate(r, func(xi []float64) float64 {
					return math.Pow(xi[0], float64(p)) * math.Pow(xi[1], float64(q))
				})
				assert.InDelta(t, monomial1D(p)*monomial1D(q), got, 1.e-13, "n=%d p=%d q=%d", n, p, q)
			}
		}
	}
	{ // Index decomposition i = ix + npts*iy
		var (
			r  = NewGauss2D(3)
			xi = make([]float64, 2)
		)
		r.Point(5, xi) // ix = 2, iy = 1
		x2, w2 := GaussPoint(3, 2)
		x1, w1 := GaussPoint(3, 1)
		assert.Equal(t, []float64{x2, x1}, xi)
		assert.Equal(t, w2*w1, r.Weight(5))
	}
}

func TestHughes3(t *testing.T) {
	r := Hughes3{}
	cases := []struct {
		p, q  int
		exact float64
	}{
		{0, 0, 0.5},
		{1, 0, 1. / 6},
		{0, 1, 1. / 6},
		{1, 1, 1. / 24},
		{2, 0, 1. / 12},
		{0, 2, 1. / 12},
	}
	for _, c := range cases {
		got := Integrate(r, func(xi []float64) float64 {
			return math.Pow(xi[0], float64(c.p)) * math.Pow(xi[1], float64(c.q))
		})
		assert.InDelta(t, c.exact, got, 1.e-15, "p=%d q=%d", c.p, c.q)
	}
}

func TestRestartable(t *testing.T) {
	r := NewGauss2D(2)
	var first, second []float64
	for xi, w := range All(r) {
		first = append(first, xi[0], xi[1], w)
	}
	for xi, w := range All(r) {
		second = append(second, xi[0], xi[1], w)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 12)
	// Early termination
	var count int
	for range All(r) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestForElement(t *testing.T) {
	r, err := ForElement(utils.Line3, 3)
	require.NoError(t, err)
	assert.Equal(t, NewGauss1D(3), r)
	r, err = ForElement(utils.Quad9, 3)
	require.NoError(t, err)
	assert.Equal(t, NewGauss2D(3), r)
	r, err = ForElement(utils.Triangle, 0)
	require.NoError(t, err)
	assert.Equal(t, Hughes3{}, r)
	_, err = ForElement(utils.Quad, 0)
	assert.Error(t, err)
	_, err = ForElement(utils.Unknown, 2)
	assert.Error(t, err)
}
