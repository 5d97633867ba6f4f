package shapes

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Shape holds the scratch a Family evaluates into.
//
//	N  - length m, N[i] is shape function i at the last evaluated point
//	DN - d x m, column i is the gradient of N[i]; DN.At(j, i) = dN_i/dxi_j
//
// After a mapping transforms the gradients DN holds spatial derivatives
// instead, until the next Eval.
type Shape struct {
	Family *Family
	N      []float64
	DN     *mat.Dense
}

func New(f *Family) *Shape {
	return &Shape{
		Family: f,
		N:      make([]float64, f.m),
		DN:     mat.NewDense(f.dim, f.m, nil),
	}
}

// Eval overwrites N and DN with the values at reference point xi
func (s *Shape) Eval(xi []float64) {
	s.Family.Eval(s.N, s.DN.RawMatrix().Data, xi)
}

// Eval writes the shape values into N (length m) and the reference
// derivatives into dN, a row major d x m array. It does not allocate.
func (f *Family) Eval(N, dN, xi []float64) {
	if len(xi) != f.dim {
		panic(fmt.Errorf("%s: reference point has dimension %d, want %d", f.Name, len(xi), f.dim))
	}
	switch f.kind {
	case lagrange1D:
		lagrange(f.nodes1D, xi[0], N, dN)
	case tensor2D:
		f.evalTensor(N, dN, xi)
	case serendipity2D:
		evalSerendipity(N, dN, xi)
	case triangle2D:
		evalTriangle(N, dN, xi)
	}
}

// lagrange evaluates the Lagrange basis over nodes t and its derivative at x
func lagrange(t []float64, x float64, N, dN []float64) {
	for i := range t {
		v, d := 1., 0.
		for k := range t {
			if k == i {
				continue
			}
			a := 1. / (t[i] - t[k])
			d = d*(x-t[k])*a + v*a
			v *= (x - t[k]) * a
		}
		N[i], dN[i] = v, d
	}
}

func (f *Family) evalTensor(N, dN, xi []float64) {
	var (
		n                = len(f.nodes1D)
		m                = f.m
		nx, dnx, ny, dny [4]float64
	)
	lagrange(f.nodes1D, xi[0], nx[:n], dnx[:n])
	lagrange(f.nodes1D, xi[1], ny[:n], dny[:n])
	for i, ij := range f.tensor {
		ix, iy := ij[0], ij[1]
		N[i] = nx[ix] * ny[iy]
		dN[i] = dnx[ix] * ny[iy]
		dN[m+i] = nx[ix] * dny[iy]
	}
}

var serendipityNodes = [16]float64{
	-1, -1,
	1, -1,
	1, 1,
	-1, 1,
	0, -1,
	1, 0,
	0, 1,
	-1, 0,
}

func evalSerendipity(N, dN, xi []float64) {
	var (
		x, y = xi[0], xi[1]
		m    = 8
	)
	for i := 0; i < m; i++ {
		a, b := serendipityNodes[2*i], serendipityNodes[2*i+1]
		switch {
		case a != 0 && b != 0: // corner
			N[i] = 0.25 * (1 + a*x) * (1 + b*y) * (a*x + b*y - 1)
			dN[i] = 0.25 * a * (1 + b*y) * (2*a*x + b*y)
			dN[m+i] = 0.25 * b * (1 + a*x) * (a*x + 2*b*y)
		case a == 0: // bottom and top midpoints
			N[i] = 0.5 * (1 - x*x) * (1 + b*y)
			dN[i] = -x * (1 + b*y)
			dN[m+i] = 0.5 * b * (1 - x*x)
		default: // left and right midpoints
			N[i] = 0.5 * (1 + a*x) * (1 - y*y)
			dN[i] = 0.5 * a * (1 - y*y)
			dN[m+i] = -y * (1 + a*x)
		}
	}
}

func evalTriangle(N, dN, xi []float64) {
	N[0] = 1 - xi[0] - xi[1]
	N[1] = xi[0]
	N[2] = xi[1]
	dN[0], dN[1], dN[2] = -1, 1, 0
	dN[3], dN[4], dN[5] = -1, 0, 1
}
