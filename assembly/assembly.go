// Package assembly scatters element matrices and vectors into the reduced
// global system.
//
// Local entries are addressed through an id list: id k > 0 is row (or column)
// k-1 of the reduced system, ids <= 0 mark dofs that are not part of it
// (Dirichlet or otherwise inactive) and their entries are skipped.
package assembly

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/utils"
)

var ErrPatternMismatch = errors.New("assembly: contribution outside the sparsity pattern")

// Matrix is a global matrix being assembled
type Matrix interface {
	Dims() (r, c int)
	// Clear zeroes the accumulated values
	Clear()
	// Add accumulates Ke(i,j) into (ids[i]-1, ids[j]-1)
	Add(Ke *mat.Dense, ids utils.Index) error
	// System returns the assembled matrix
	System() mat.Matrix
}

// AddVector accumulates Re[i] into R[ids[i]-1]
func AddVector(R, Re []float64, ids utils.Index) {
	for i, id := range ids {
		if id > 0 {
			R[id-1] += Re[i]
		}
	}
}

// Dense accumulates directly into a dense matrix
type Dense struct {
	M *mat.Dense
}

func NewDense(n int) *Dense {
	return &Dense{M: mat.NewDense(n, n, nil)}
}

func (d *Dense) Dims() (r, c int)   { return d.M.Dims() }
func (d *Dense) Clear()             { d.M.Zero() }
func (d *Dense) System() mat.Matrix { return d.M }

func (d *Dense) Add(Ke *mat.Dense, ids utils.Index) error {
	var (
		raw = d.M.RawMatrix()
		ke  = Ke.RawMatrix()
	)
	for j, cj := range ids {
		if cj <= 0 {
			continue
		}
		for i, ri := range ids {
			if ri <= 0 {
				continue
			}
			raw.Data[(ri-1)*raw.Stride+cj-1] += ke.Data[i*ke.Stride+j]
		}
	}
	return nil
}
