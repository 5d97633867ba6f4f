// Package solver solves the reduced linear system K du = R.
package solver

import (
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/utils"
)

var ErrSingular = errors.New("solver: singular system")

type Solver interface {
	Solve(K mat.Matrix, R []float64) (du []float64, err error)
}

// ByName returns a solver for configuration files, "lu" or "cg"
func ByName(name string) (s Solver, err error) {
	switch name {
	case "lu", "LU", "":
		s = LU{}
	case "cg", "CG":
		s = CG{}
	default:
		err = fmt.Errorf("unknown solver %q", name)
	}
	return
}

// LU is a direct dense solve, any matrix type is copied into dense storage
type LU struct{}

func (LU) Solve(K mat.Matrix, R []float64) (du []float64, err error) {
	var (
		lu mat.LU
		x  mat.VecDense
		c  mat.Condition
	)
	lu.Factorize(K)
	if err = lu.SolveVecTo(&x, false, mat.NewVecDense(len(R), R)); err != nil {
		if errors.As(err, &c) {
			err = fmt.Errorf("%w: condition number %g", ErrSingular, float64(c))
		}
		return
	}
	du = x.RawVector().Data
	if utils.IsNan(du) {
		err = ErrSingular
	}
	return
}

// CG is the conjugate gradient method for symmetric positive definite
// systems. Zero Tol and MaxIter select the linsolve defaults.
type CG struct {
	Tol     float64
	MaxIter int
}

func (s CG) Solve(K mat.Matrix, R []float64) (du []float64, err error) {
	var (
		b        = mat.NewVecDense(len(R), append([]float64{}, R...))
		settings = &linsolve.Settings{
			Tolerance:     s.Tol,
			MaxIterations: s.MaxIter,
		}
		result *linsolve.Result
	)
	if result, err = linsolve.Iterative(operator{K}, b, &linsolve.CG{}, settings); err != nil {
		err = fmt.Errorf("solver: conjugate gradient: %w", err)
		return
	}
	du = result.X.RawVector().Data
	if utils.IsNan(du) {
		err = fmt.Errorf("%w: conjugate gradient diverged", ErrSingular)
	}
	return
}

// operator adapts a matrix to linsolve.MulVecToer, compressed column storage
// is multiplied without densifying
type operator struct {
	mat.Matrix
}

func (o operator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	S, ok := o.Matrix.(*sparse.CSC)
	if !ok || (!dst.IsEmpty() && dst.RawVector().Inc != 1) {
		if trans {
			dst.MulVec(o.T(), x)
		} else {
			dst.MulVec(o.Matrix, x)
		}
		return
	}
	var (
		r, c = S.Dims()
		xs   []float64
	)
	if trans {
		r, c = c, r
	}
	if dst.IsEmpty() {
		dst.ReuseAsVec(r)
	}
	out := dst.RawVector()
	if xv, ok := x.(mat.RawVectorer); ok && xv.RawVector().Inc == 1 {
		xs = xv.RawVector().Data[:c]
	} else {
		xs = make([]float64, c)
		for i := range xs {
			xs[i] = x.AtVec(i)
		}
	}
	dst.Zero()
	S.MulVecTo(out.Data[:r], trans, xs)
}
