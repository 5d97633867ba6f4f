// Package problem drives a finite element problem: nodal fields, Dirichlet
// elimination through the id array, assembly of the reduced system and the
// solution update.
package problem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/assembly"
	"github.com/notargets/fekernel/element"
	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/quadrature"
	"github.com/notargets/fekernel/solver"
	"github.com/notargets/fekernel/utils"
)

var (
	ErrIDsAssigned   = errors.New("problem: ids already assigned")
	ErrIDsUnassigned = errors.New("problem: ids not assigned")
	ErrNoTarget      = errors.New("problem: no matrix target")
)

// BoundaryFunc is called once per node with its coordinates. Marking id[k]
// negative makes dof k a Dirichlet dof whose value is u[k].
type BoundaryFunc func(x []float64, id utils.Index, u []float64)

// LoadFunc is called once per node to set the nodal load f
type LoadFunc func(x []float64, f []float64)

// Problem
//
//	U, F    - ndof x nnodes nodal solution and load
//	ID      - ndof x nnodes stored column major, dof k of node j is
//	          ID[j*ndof+k]: negative is Dirichlet, after AssignIDs positive
//	          entries are 1 based rows of the reduced system
//	NActive - size of the reduced system
type Problem struct {
	Mesh    *mesh.Mesh
	Kernel  element.Kernel
	U, F    *mat.Dense
	ID      utils.Index
	NActive int

	ndof     int
	assigned bool
	logger   *slog.Logger

	x, vals []float64
	ids     utils.Index
	Re      []float64
	Ke      *mat.Dense
}

type Option func(p *Problem)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Problem) {
		p.logger = logger
	}
}

func New(m *mesh.Mesh, k element.Kernel, opts ...Option) (p *Problem) {
	var (
		ndof = k.NDof()
		nn   = m.NNodes()
		nloc = ndof * m.Shapes.NShapes()
	)
	p = &Problem{
		Mesh:   m,
		Kernel: k,
		U:      mat.NewDense(ndof, nn, nil),
		F:      mat.NewDense(ndof, nn, nil),
		ID:     utils.NewIndex(ndof * nn),
		ndof:   ndof,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		x:      make([]float64, m.Dim()),
		vals:   make([]float64, ndof),
		ids:    utils.NewIndex(nloc),
		Re:     make([]float64, nloc),
		Ke:     mat.NewDense(nloc, nloc, nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return
}

// NewPoisson sets up a Poisson problem on m integrated with npts Gauss
// points per direction (the triangle rule is fixed)
func NewPoisson(m *mesh.Mesh, npts int, opts ...Option) (p *Problem, err error) {
	var (
		rule quadrature.Rule
	)
	if rule, err = quadrature.ForElement(m.Shapes.Type, npts); err != nil {
		return
	}
	p = New(m, element.NewPoisson(m.Shapes, rule), opts...)
	return
}

func (p *Problem) NDof() int { return p.ndof }

func (p *Problem) getColumn(A *mat.Dense, j int) []float64 {
	for k := range p.vals {
		p.vals[k] = A.At(k, j)
	}
	return p.vals
}

func (p *Problem) setColumn(A *mat.Dense, j int) {
	for k, val := range p.vals {
		A.Set(k, j, val)
	}
}

func (p *Problem) SetBoundary(fn BoundaryFunc) {
	for j := 0; j < p.Mesh.NNodes(); j++ {
		p.Mesh.Node(j, p.x)
		fn(p.x, p.ID[j*p.ndof:(j+1)*p.ndof], p.getColumn(p.U, j))
		p.setColumn(p.U, j)
	}
}

func (p *Problem) SetLoad(fn LoadFunc) {
	for j := 0; j < p.Mesh.NNodes(); j++ {
		p.Mesh.Node(j, p.x)
		fn(p.x, p.getColumn(p.F, j))
		p.setColumn(p.F, j)
	}
}

// AssignIDs numbers every non Dirichlet dof, node by node, from 1
func (p *Problem) AssignIDs() (n int, err error) {
	if p.assigned {
		err = ErrIDsAssigned
		return
	}
	for i, id := range p.ID {
		if id >= 0 {
			n++
			p.ID[i] = n
		}
	}
	p.NActive, p.assigned = n, true
	p.logger.Debug("assigned ids", "active", n, "dirichlet", len(p.ID)-n)
	return
}

// elementIDs gathers the node major reduced ids of element e
func (p *Problem) elementIDs(e int) utils.Index {
	for i, j := range p.Mesh.Element(e) {
		copy(p.ids[i*p.ndof:(i+1)*p.ndof], p.ID[j*p.ndof:(j+1)*p.ndof])
	}
	return p.ids
}

// Assemble computes the reduced residual R and tangent K. Either may be nil.
// Both are cleared first.
func (p *Problem) Assemble(R []float64, K assembly.Matrix) (err error) {
	if !p.assigned {
		return ErrIDsUnassigned
	}
	var (
		start = time.Now()
		Re    []float64
		Ke    *mat.Dense
	)
	if R != nil {
		if len(R) != p.NActive {
			panic(fmt.Errorf("residual has length %d, want %d", len(R), p.NActive))
		}
		utils.Zero(R)
		Re = p.Re
	}
	if K != nil {
		K.Clear()
		Ke = p.Ke
	}
	for e := 0; e < p.Mesh.NElements(); e++ {
		ids := p.elementIDs(e)
		if Re != nil {
			utils.Zero(Re)
		}
		if Ke != nil {
			Ke.Zero()
		}
		if err = p.Kernel.Compute(p.Mesh, p.U, p.F, e, Re, Ke); err != nil {
			return fmt.Errorf("problem: %w", err)
		}
		if Re != nil {
			assembly.AddVector(R, Re, ids)
		}
		if Ke != nil {
			if err = K.Add(Ke, ids); err != nil {
				return fmt.Errorf("problem: element %d: %w", e, err)
			}
		}
	}
	p.logger.Debug("assembled", "elements", p.Mesh.NElements(), "active", p.NActive,
		"elapsed", time.Since(start))
	return
}

// UpdateU applies the correction U -= du to every active dof
func (p *Problem) UpdateU(du []float64) {
	if len(du) != p.NActive {
		panic(fmt.Errorf("correction has length %d, want %d", len(du), p.NActive))
	}
	for i, id := range p.ID {
		if id > 0 {
			j, k := i/p.ndof, i%p.ndof
			p.U.Set(k, j, p.U.At(k, j)-du[id-1])
		}
	}
}

// Solve performs one Newton step: assemble R and K, solve K du = R and
// update U. For a linear problem this is the solution. It returns the norm of
// the residual before the update. K must not be nil.
func (p *Problem) Solve(s solver.Solver, K assembly.Matrix) (rnorm float64, err error) {
	var (
		R  = make([]float64, p.NActive)
		du []float64
	)
	if K == nil {
		return 0, ErrNoTarget
	}
	if err = p.Assemble(R, K); err != nil {
		return
	}
	rnorm = floats.Norm(R, 2)
	if p.NActive == 0 {
		return
	}
	if du, err = s.Solve(K.System(), R); err != nil {
		return
	}
	p.UpdateU(du)
	p.logger.Debug("solved", "residual", rnorm, "correction", floats.Norm(du, 2))
	return
}

// Residual assembles R only and returns its norm
func (p *Problem) Residual() (rnorm float64, err error) {
	R := make([]float64, p.NActive)
	if err = p.Assemble(R, nil); err != nil {
		return
	}
	rnorm = floats.Norm(R, 2)
	return
}

// Pattern runs a symbolic assembly into a COO target, one unit entry per
// coupled pair, suitable for building a fixed pattern CSC target
func (p *Problem) Pattern() (coo *assembly.COO, err error) {
	if !p.assigned {
		return nil, ErrIDsUnassigned
	}
	var (
		nloc, _ = p.Ke.Dims()
		ones    = mat.NewDense(nloc, nloc, utils.ConstArray(nloc*nloc, 1))
	)
	coo = assembly.NewCOO(p.NActive, p.NActive, p.Mesh.NElements()*nloc*nloc)
	for e := 0; e < p.Mesh.NElements(); e++ {
		if err = coo.Add(ones, p.elementIDs(e)); err != nil {
			return
		}
	}
	return
}

func (p *Problem) Print() (out string) {
	var (
		buf = bytes.Buffer{}
		nn  = p.Mesh.NNodes()
		ID  = mat.NewDense(p.ndof, nn, nil)
	)
	for i, id := range p.ID {
		ID.Set(i%p.ndof, i/p.ndof, float64(id))
	}
	buf.WriteString(p.Mesh.Print())
	for _, field := range []struct {
		name string
		A    *mat.Dense
	}{{"ID", ID}, {"U", p.U}, {"F", p.F}} {
		fmt.Fprintf(&buf, "%s = \n%v\n", field.name,
			mat.Formatted(field.A, mat.Squeeze(), mat.Prefix("    ")))
	}
	out = buf.String()
	return
}
