package mesh

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fekernel/utils"
)

// Vertices lists the element corner nodes, each once and ascending
func (m *Mesh) Vertices() (v utils.Index) {
	var (
		corners = m.Shapes.Type.GetCornerNodes()
		seen    = make([]bool, m.NNodes())
	)
	for e := 0; e < m.NElements(); e++ {
		for _, j := range m.Element(e).Subset(corners) {
			seen[j] = true
		}
	}
	for j, ok := range seen {
		if ok {
			v = append(v, j)
		}
	}
	return
}

// Bounds returns the bounding box of the nodes as [min0, max0, min1, max1...]
func (m *Mesh) Bounds() (b []float64) {
	d := m.Dim()
	b = make([]float64, 2*d)
	for a := 0; a < d; a++ {
		row := m.X.RawRowView(a)
		b[2*a], b[2*a+1] = floats.Min(row), floats.Max(row)
	}
	return
}

// OnBoundary reports whether x lies on a face of the bounding box b
func OnBoundary(x, b []float64) bool {
	for a, val := range x {
		for _, target := range b[2*a : 2*a+2] {
			if utils.NearlyEqual(val, target, utils.NODETOL) {
				return true
			}
		}
	}
	return false
}

// Perturb moves every vertex strictly inside the bounding box by a uniform
// random offset in [-amp, amp] per coordinate and returns how many moved.
// Higher order nodes stay put, so amp must be small against the element size
// for the elements to remain valid.
func (m *Mesh) Perturb(rnd *rand.Rand, amp float64) (n int) {
	var (
		b = m.Bounds()
		x = make([]float64, m.Dim())
	)
	for _, j := range m.Vertices() {
		m.Node(j, x)
		if OnBoundary(x, b) {
			continue
		}
		for a := range x {
			x[a] += amp * (2*rnd.Float64() - 1)
		}
		m.SetNode(j, x)
		n++
	}
	return
}
