package problem

import (
	"github.com/notargets/fekernel/utils"
)

// BlockDirichlet fixes dof 0 on faces of a block domain. bounds is
// [x0, x1] or [x0, x1, y0, y1], indexed by utils.Side. A node on two fixed
// faces takes the value of the first in Left, Right, Bottom, Top order.
func BlockDirichlet(bounds []float64, values map[utils.Side]float64) BoundaryFunc {
	return func(x []float64, id utils.Index, u []float64) {
		for side := utils.Left; side <= utils.Top; side++ {
			val, ok := values[side]
			if !ok || !onSide(x, bounds, side) {
				continue
			}
			id[0], u[0] = -1, val
			return
		}
	}
}

func onSide(x, bounds []float64, side utils.Side) bool {
	var (
		axis = int(side) / 2
	)
	if axis >= len(x) || int(side) >= len(bounds) {
		return false
	}
	return utils.NearlyEqual(x[axis], bounds[side], utils.NODETOL)
}

// ConstantLoad sets f to val everywhere
func ConstantLoad(val float64) LoadFunc {
	return func(x []float64, f []float64) {
		f[0] = val
	}
}

// FixNodes makes dof 0 of each listed node a Dirichlet dof with value val.
// It is meant for node sets read from mesh files and must precede AssignIDs.
func (p *Problem) FixNodes(nodes utils.Index, val float64) {
	for _, j := range nodes {
		p.ID[j*p.ndof] = -1
		p.U.Set(0, j, val)
	}
}
