package problem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fekernel/element"
	"github.com/notargets/fekernel/mapping"
	"github.com/notargets/fekernel/quadrature"
)

// ErrorL2 is the L2 norm over the mesh of u_h - exact for dof 0, integrated
// with rule on every element
func (p *Problem) ErrorL2(rule quadrature.Rule, exact func(x []float64) float64) (e float64, err error) {
	var (
		msh = p.Mesh
		iso = mapping.NewIsoMap(msh.Shapes)
		r   = mapping.NewIsoRule(rule, iso, false)
		ue  = make([]float64, msh.Shapes.NShapes())
	)
	for el := 0; el < msh.NElements(); el++ {
		msh.ElementCoords(el, iso.Xe)
		for i, j := range msh.Element(el) {
			ue[i] = p.U.At(0, j)
		}
		for x, w := range r.All() {
			if !r.OK() || r.Det() <= 0 {
				return 0, fmt.Errorf("%w: element %d, det(J) = %g", element.ErrInvertedElement, el, r.Det())
			}
			diff := floats.Dot(iso.Shape.N, ue) - exact(x)
			e += w * diff * diff
		}
	}
	e = math.Sqrt(e)
	return
}
