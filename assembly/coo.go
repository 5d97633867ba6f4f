package assembly

import (
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/utils"
)

// COO collects (row, col, value) triples in parallel arrays. Duplicates are
// kept as separate triples and summed only when converted to compressed form.
type COO struct {
	nr, nc int
	Rows   utils.Index // 0 based
	Cols   utils.Index // 0 based
	Vals   []float64
}

func NewCOO(nr, nc, capacity int) *COO {
	return &COO{
		nr:   nr,
		nc:   nc,
		Rows: make(utils.Index, 0, capacity),
		Cols: make(utils.Index, 0, capacity),
		Vals: make([]float64, 0, capacity),
	}
}

func (c *COO) Dims() (r, cc int) { return c.nr, c.nc }

// Len is the number of stored triples
func (c *COO) Len() int { return len(c.Vals) }

// Cap is the current storage capacity in triples
func (c *COO) Cap() int { return cap(c.Vals) }

// Clear drops the stored triples and keeps the storage
func (c *COO) Clear() {
	c.Rows, c.Cols, c.Vals = c.Rows[:0], c.Cols[:0], c.Vals[:0]
}

func (c *COO) System() mat.Matrix { return c.ToCSC() }

// reserve makes room for n more triples: capacity doubles, or grows to fit
// the batch exactly when that is larger
func (c *COO) reserve(n int) {
	need := len(c.Vals) + n
	if need <= cap(c.Vals) {
		return
	}
	newCap := max(2*cap(c.Vals), need)
	rows := make(utils.Index, len(c.Rows), newCap)
	cols := make(utils.Index, len(c.Cols), newCap)
	vals := make([]float64, len(c.Vals), newCap)
	copy(rows, c.Rows)
	copy(cols, c.Cols)
	copy(vals, c.Vals)
	c.Rows, c.Cols, c.Vals = rows, cols, vals
}

// Push appends one triple with 0 based row and column
func (c *COO) Push(i, j int, val float64) {
	c.reserve(1)
	c.Rows = append(c.Rows, i)
	c.Cols = append(c.Cols, j)
	c.Vals = append(c.Vals, val)
}

func (c *COO) Add(Ke *mat.Dense, ids utils.Index) error {
	var (
		ke = Ke.RawMatrix()
		na = ids.Active()
	)
	c.reserve(na * na)
	for j, cj := range ids {
		if cj <= 0 {
			continue
		}
		for i, ri := range ids {
			if ri <= 0 {
				continue
			}
			c.Rows = append(c.Rows, ri-1)
			c.Cols = append(c.Cols, cj-1)
			c.Vals = append(c.Vals, ke.Data[i*ke.Stride+j])
		}
	}
	return nil
}

type byRow struct {
	rows utils.Index
	vals []float64
}

func (b byRow) Len() int           { return len(b.rows) }
func (b byRow) Less(i, j int) bool { return b.rows[i] < b.rows[j] }
func (b byRow) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.vals[i], b.vals[j] = b.vals[j], b.vals[i]
}

// ToCSC compresses the triples by column, sorting rows within each column and
// summing duplicates. The triples are left untouched.
func (c *COO) ToCSC() *sparse.CSC {
	var (
		n      = len(c.Vals)
		colPtr = make([]int, c.nc+1)
		rows   = make([]int, n)
		vals   = make([]float64, n)
		indptr = make([]int, c.nc+1)
		w      int
	)
	for _, j := range c.Cols {
		colPtr[j+1]++
	}
	for j := 0; j < c.nc; j++ {
		colPtr[j+1] += colPtr[j]
	}
	next := append([]int{}, colPtr[:c.nc]...)
	for k, j := range c.Cols {
		p := next[j]
		rows[p], vals[p] = c.Rows[k], c.Vals[k]
		next[j]++
	}
	for j := 0; j < c.nc; j++ {
		lo, hi := colPtr[j], colPtr[j+1]
		sort.Sort(byRow{rows[lo:hi], vals[lo:hi]})
		indptr[j] = w
		for k := lo; k < hi; k++ {
			if w > indptr[j] && rows[w-1] == rows[k] {
				vals[w-1] += vals[k]
				continue
			}
			rows[w], vals[w] = rows[k], vals[k]
			w++
		}
	}
	indptr[c.nc] = w
	return sparse.NewCSC(c.nr, c.nc, indptr, rows[:w], vals[:w])
}

// ToDense sums the triples into a dense matrix
func (c *COO) ToDense() (M *mat.Dense) {
	M = mat.NewDense(c.nr, c.nc, nil)
	raw := M.RawMatrix()
	for k, val := range c.Vals {
		raw.Data[c.Rows[k]*raw.Stride+c.Cols[k]] += val
	}
	return
}
