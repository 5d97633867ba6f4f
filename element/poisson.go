// Package element computes element residuals and tangents.
package element

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/mapping"
	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/quadrature"
	"github.com/notargets/fekernel/shapes"
)

var ErrInvertedElement = errors.New("element: inverted or degenerate element")

// Kernel computes the local residual Re and tangent Ke of element e of msh
// from the nodal fields U and F (ndof x nnodes). Local dofs are node major.
// Both outputs are accumulated into; a nil output is skipped.
type Kernel interface {
	NDof() int
	Compute(msh *mesh.Mesh, U, F *mat.Dense, e int, Re []float64, Ke *mat.Dense) error
}

// Poisson is the kernel for -div(grad u) = f with one dof per node:
//
//	Re += w (DN^T grad u - N f)
//	Ke += w DN^T DN
//
// where DN holds spatial gradients at each mapped quadrature point. A
// Poisson value owns its scratch and serves one element at a time.
type Poisson struct {
	iso    *mapping.IsoMap
	rule   *mapping.MappedRule
	ue, fe []float64
	grad   []float64
}

func NewPoisson(f *shapes.Family, base quadrature.Rule) *Poisson {
	if base.Dim() != f.Dim() {
		panic(fmt.Errorf("%d dimensional rule for %d dimensional family %s", base.Dim(), f.Dim(), f.Name))
	}
	iso := mapping.NewIsoMap(f)
	return &Poisson{
		iso:  iso,
		rule: mapping.NewIsoRule(base, iso, true),
		ue:   make([]float64, f.NShapes()),
		fe:   make([]float64, f.NShapes()),
		grad: make([]float64, f.Dim()),
	}
}

func (p *Poisson) NDof() int { return 1 }

func (p *Poisson) Compute(msh *mesh.Mesh, U, F *mat.Dense, e int, Re []float64, Ke *mat.Dense) (err error) {
	var (
		s    = p.iso.Shape
		nsh  = len(p.ue)
		d    = len(p.grad)
		r    = p.rule
		ke   blas64.General
		dn   blas64.General
		elt  = msh.Element(e)
		w, f float64
	)
	msh.ElementCoords(e, p.iso.Xe)
	for i, j := range elt {
		p.ue[i] = U.At(0, j)
		p.fe[i] = F.At(0, j)
	}
	if Ke != nil {
		ke = Ke.RawMatrix()
	}
	r.Reset()
	for q := 0; q < r.Len(); q++ {
		r.Point(q)
		if !r.OK() || r.Det() <= 0 {
			err = fmt.Errorf("%w: element %d, det(J) = %g", ErrInvertedElement, e, r.Det())
			return
		}
		w = r.Weight(q)
		dn = s.DN.RawMatrix()
		f = 0
		for i := 0; i < nsh; i++ {
			f += s.N[i] * p.fe[i]
		}
		for a := 0; a < d; a++ {
			var g float64
			row := dn.Data[a*dn.Stride : a*dn.Stride+nsh]
			for i, val := range row {
				g += val * p.ue[i]
			}
			p.grad[a] = g
		}
		if Re != nil {
			for i := 0; i < nsh; i++ {
				var flux float64
				for a := 0; a < d; a++ {
					flux += dn.Data[a*dn.Stride+i] * p.grad[a]
				}
				Re[i] += w * (flux - s.N[i]*f)
			}
		}
		if Ke != nil {
			for i := 0; i < nsh; i++ {
				for j := 0; j < nsh; j++ {
					var sum float64
					for a := 0; a < d; a++ {
						sum += dn.Data[a*dn.Stride+i] * dn.Data[a*dn.Stride+j]
					}
					ke.Data[i*ke.Stride+j] += w * sum
				}
			}
		}
	}
	return
}
