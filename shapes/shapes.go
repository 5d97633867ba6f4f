// Package shapes evaluates nodal (Lagrange) shape functions and their
// reference derivatives for the element families used by the kernel.
//
// A Family is immutable and shared by every element of a mesh. The values it
// produces are written into a Shape, which is caller owned scratch: the N and
// DN held by a Shape are only valid until its next Eval.
package shapes

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/utils"
)

type kind uint8

const (
	lagrange1D kind = iota
	tensor2D
	serendipity2D
	triangle2D
)

type Family struct {
	Name   string
	Type   utils.ElementType
	Degree int
	dim    int
	m      int
	kind   kind
	// Abscissae of the 1D Lagrange factors, used by 1D and tensor families
	nodes1D []float64
	// Tensor families: node -> (ix, iy) into nodes1D
	tensor [][2]int
	// Reference node coordinates, node i occupies refNodes[i*dim:(i+1)*dim]
	refNodes []float64
}

var (
	P1_1D = newLagrange1D("P1_1D", utils.Line, 1)
	P2_1D = newLagrange1D("P2_1D", utils.Line3, 2)
	P3_1D = newLagrange1D("P3_1D", utils.Line4, 3)
	P1_2D = newTensor2D("P1_2D", utils.Quad, 1, [][2]int{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	})
	P2_2D = newTensor2D("P2_2D", utils.Quad9, 2, [][2]int{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, // corners
		{1, 0}, {2, 1}, {1, 2}, {0, 1}, // bottom, right, top, left midpoints
		{1, 1}, // bubble
	})
	S2_2D = newFamily("S2_2D", utils.Quad8, 2, 2, serendipity2D, serendipityNodes[:])
	T1_2D = newFamily("T1_2D", utils.Triangle, 1, 2, triangle2D, []float64{
		0, 0,
		1, 0,
		0, 1,
	})
)

var families = map[string]*Family{}

func init() {
	for _, f := range []*Family{P1_1D, P2_1D, P3_1D, P1_2D, P2_2D, S2_2D, T1_2D} {
		families[strings.ToUpper(f.Name)] = f
	}
}

// ByName looks up a family, e.g. "P2_1D" or "s2_2d"
func ByName(name string) (f *Family, err error) {
	var ok bool
	if f, ok = families[strings.ToUpper(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown shape family %q, have %v", name, Names())
	}
	return
}

// Names lists the registered families in sorted order
func Names() (names []string) {
	for _, f := range families {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return
}

func newFamily(name string, et utils.ElementType, degree, dim int, k kind, ref []float64) *Family {
	if et.GetDimension() != dim || et.GetNumNodes() != len(ref)/dim {
		panic(fmt.Sprintf("%s: %d nodes in %dD do not match element type %s", name, len(ref)/dim, dim, et))
	}
	return &Family{
		Name:     name,
		Type:     et,
		Degree:   degree,
		dim:      dim,
		m:        len(ref) / dim,
		kind:     k,
		refNodes: ref,
	}
}

func newLagrange1D(name string, et utils.ElementType, degree int) (f *Family) {
	f = newFamily(name, et, degree, 1, lagrange1D, equispaced(degree))
	f.nodes1D = f.refNodes
	return
}

func newTensor2D(name string, et utils.ElementType, degree int, tensor [][2]int) (f *Family) {
	var (
		t   = equispaced(degree)
		ref = make([]float64, 0, 2*len(tensor))
	)
	for _, ij := range tensor {
		ref = append(ref, t[ij[0]], t[ij[1]])
	}
	f = newFamily(name, et, degree, 2, tensor2D, ref)
	f.nodes1D = t
	f.tensor = tensor
	return
}

func equispaced(degree int) (t []float64) {
	t = make([]float64, degree+1)
	for i := range t {
		t[i] = -1 + 2*float64(i)/float64(degree)
	}
	return
}

func (f *Family) String() string { return f.Name }

// Dim is the reference dimension d
func (f *Family) Dim() int { return f.dim }

// NShapes is the number of nodes (and shape functions) m
func (f *Family) NShapes() int { return f.m }

// RefNode copies the reference coordinates of node i into xi
func (f *Family) RefNode(i int, xi []float64) {
	copy(xi, f.refNodes[i*f.dim:(i+1)*f.dim])
}

// RefNodes returns the reference nodes as a d x m matrix, one node per column
func (f *Family) RefNodes() (R *mat.Dense) {
	R = mat.NewDense(f.dim, f.m, nil)
	for i := 0; i < f.m; i++ {
		for j := 0; j < f.dim; j++ {
			R.Set(j, i, f.refNodes[i*f.dim+j])
		}
	}
	return
}
