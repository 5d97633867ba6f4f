package assembly

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/utils"
)

// CSC accumulates into a compressed sparse column matrix whose pattern is
// fixed when the target is created. Each local column is scattered into a
// dense scratch the size of a global column, then merged into the stored
// slots of that column; only the touched scratch entries are cleared.
//
// Contributions without a stored slot are reported as ErrPatternMismatch;
// everything else in the same call is still accumulated.
type CSC struct {
	M       *sparse.CSC
	raw     *blas.SparseMatrix
	scratch []float64
	rows    utils.Index
}

// NewCSC uses the pattern of P (rows sorted within each column) and zeroes
// its values
func NewCSC(P *sparse.CSC) (c *CSC) {
	nr, _ := P.Dims()
	c = &CSC{
		M:       P,
		raw:     P.RawMatrix(),
		scratch: make([]float64, nr),
	}
	c.Clear()
	return
}

// NewCSCPattern builds the target from the triples of a prior COO pass
func NewCSCPattern(coo *COO) *CSC {
	return NewCSC(coo.ToCSC())
}

func (c *CSC) Dims() (r, cc int)  { return c.M.Dims() }
func (c *CSC) System() mat.Matrix { return c.M }

// NNZ is the number of stored slots
func (c *CSC) NNZ() int { return len(c.raw.Data) }

func (c *CSC) Clear() {
	utils.Zero(c.raw.Data)
}

func (c *CSC) Add(Ke *mat.Dense, ids utils.Index) (err error) {
	var (
		ke      = Ke.RawMatrix()
		raw     = c.raw
		missing int
	)
	for jj, cj := range ids {
		if cj <= 0 {
			continue
		}
		col := cj - 1
		c.rows = c.rows[:0]
		for ii, ri := range ids {
			if ri <= 0 {
				continue
			}
			c.scratch[ri-1] += ke.Data[ii*ke.Stride+jj]
			c.rows = append(c.rows, ri-1)
		}
		c.rows.SortInPlace()
		k, end := raw.Indptr[col], raw.Indptr[col+1]
		for _, r := range c.rows {
			v := c.scratch[r]
			if v == 0 {
				// zero, or a repeated row already merged
				continue
			}
			c.scratch[r] = 0
			for k < end && raw.Ind[k] < r {
				k++
			}
			if k < end && raw.Ind[k] == r {
				raw.Data[k] += v
			} else {
				missing++
			}
		}
	}
	if missing != 0 {
		err = fmt.Errorf("%w: %d entries dropped", ErrPatternMismatch, missing)
	}
	return
}
