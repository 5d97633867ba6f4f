package quadrature

import (
	"fmt"
	"iter"

	"github.com/notargets/fekernel/utils"
)

// Rule is a finite, restartable sequence of points and weights on a reference
// domain. Point writes point i into xi, which must have length Dim().
type Rule interface {
	Len() int
	Dim() int
	Point(i int, xi []float64)
	Weight(i int) float64
}

// All iterates the rule from the start. The yielded point slice is reused
// between iterations.
func All(r Rule) iter.Seq2[[]float64, float64] {
	return func(yield func([]float64, float64) bool) {
		xi := make([]float64, r.Dim())
		for i := 0; i < r.Len(); i++ {
			r.Point(i, xi)
			if !yield(xi, r.Weight(i)) {
				return
			}
		}
	}
}

// Integrate sums f over the rule
func Integrate(r Rule, f func(xi []float64) float64) (sum float64) {
	for xi, w := range All(r) {
		sum += w * f(xi)
	}
	return
}

// Gauss1D is the NPts Gauss-Legendre rule on [-1,1] with length 1 points
type Gauss1D struct {
	NPts int
}

func NewGauss1D(npts int) Gauss1D {
	checkGauss(npts)
	return Gauss1D{NPts: npts}
}

func (g Gauss1D) Len() int { return g.NPts }
func (g Gauss1D) Dim() int { return 1 }
func (g Gauss1D) Point(i int, xi []float64) {
	xi[0], _ = GaussPoint(g.NPts, i)
}
func (g Gauss1D) Weight(i int) (w float64) {
	_, w = GaussPoint(g.NPts, i)
	return
}

// Gauss2D is the tensor product of two NPts Gauss-Legendre rules on [-1,1]^2.
// Point i corresponds to (ix, iy) with i = ix + NPts*iy.
type Gauss2D struct {
	NPts int
}

func NewGauss2D(npts int) Gauss2D {
	checkGauss(npts)
	return Gauss2D{NPts: npts}
}

func (g Gauss2D) Len() int { return g.NPts * g.NPts }
func (g Gauss2D) Dim() int { return 2 }
func (g Gauss2D) split(i int) (ix, iy int) {
	return i % g.NPts, i / g.NPts
}
func (g Gauss2D) Point(i int, xi []float64) {
	ix, iy := g.split(i)
	xi[0], _ = GaussPoint(g.NPts, ix)
	xi[1], _ = GaussPoint(g.NPts, iy)
}
func (g Gauss2D) Weight(i int) float64 {
	ix, iy := g.split(i)
	_, wx := GaussPoint(g.NPts, ix)
	_, wy := GaussPoint(g.NPts, iy)
	return wx * wy
}

// Hughes3 is the three point edge midpoint rule on the unit triangle, exact
// for polynomials of total degree 2.
type Hughes3 struct{}

var hughesPoints = [3][2]float64{
	{0.5, 0},
	{0.5, 0.5},
	{0, 0.5},
}

func (Hughes3) Len() int { return 3 }
func (Hughes3) Dim() int { return 2 }
func (Hughes3) Point(i int, xi []float64) {
	xi[0], xi[1] = hughesPoints[i][0], hughesPoints[i][1]
}
func (Hughes3) Weight(int) float64 { return 1. / 6 }

// ForElement picks a rule suited to an element geometry. npts is the number
// of Gauss points per direction and is ignored for triangles.
func ForElement(et utils.ElementType, npts int) (r Rule, err error) {
	switch et {
	case utils.Line, utils.Line3, utils.Line4:
		if npts < 1 || npts > MaxGaussPoints {
			err = fmt.Errorf("no Gauss-Legendre rule with %d points", npts)
			return
		}
		r = NewGauss1D(npts)
	case utils.Quad, utils.Quad8, utils.Quad9:
		if npts < 1 || npts > MaxGaussPoints {
			err = fmt.Errorf("no Gauss-Legendre rule with %d points", npts)
			return
		}
		r = NewGauss2D(npts)
	case utils.Triangle:
		r = Hughes3{}
	default:
		err = fmt.Errorf("no quadrature rule for element type %s", et)
	}
	return
}
