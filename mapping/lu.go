// Package mapping maps reference points to physical space. It computes the
// isoparametric Jacobian, factors it once per point, and reuses the factors
// for both the determinant and the transform of shape gradients.
package mapping

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Factor replaces the square matrix J by its LU factors (partial pivoting),
// writing the row interchanges into piv. It returns false when J is exactly
// singular, in which case the factors must not be used to solve.
func Factor(J *mat.Dense, piv []int) (ok bool) {
	return lapack64.Getrf(J.RawMatrix(), piv)
}

// Determinant of the matrix whose LU factors are held in J: the product of the
// pivots of U, with one sign change per row interchange.
func Determinant(J *mat.Dense, piv []int) (det float64) {
	var (
		raw = J.RawMatrix()
	)
	det = 1
	for i := 0; i < raw.Rows; i++ {
		det *= raw.Data[i*raw.Stride+i]
		if piv[i] != i {
			det = -det
		}
	}
	return
}

// SolveGradientsT overwrites G (d x m, one gradient per column) with J^-T G
// using the factors from Factor. Applied to reference gradients this yields
// spatial gradients.
func SolveGradientsT(J *mat.Dense, piv []int, G *mat.Dense) {
	lapack64.Getrs(blas.Trans, J.RawMatrix(), G.RawMatrix(), piv)
}
