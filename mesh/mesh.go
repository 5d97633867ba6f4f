// Package mesh stores node coordinates and element connectivity for a single
// element family, and generates structured block meshes.
package mesh

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

var ErrConnectivity = errors.New("mesh: invalid connectivity")

// Mesh
//
//	X      - d x nnodes node coordinates, one node per column
//	Elt    - m x nelements connectivity stored column major, so element e is
//	         Elt[e*m:(e+1)*m]; entries are 0 based columns of X
//	Shapes - the family shared by every element
//
// Element orientation is not checked here; an inverted element is reported
// when it is integrated.
type Mesh struct {
	X      *mat.Dense
	Elt    utils.Index
	Shapes *shapes.Family
}

func New(X *mat.Dense, elt utils.Index, f *shapes.Family) (m *Mesh, err error) {
	m = &Mesh{X: X, Elt: elt, Shapes: f}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

func (m *Mesh) Validate() (err error) {
	var (
		d, nn = m.X.Dims()
		nsh   = m.Shapes.NShapes()
	)
	if d != m.Shapes.Dim() {
		return fmt.Errorf("%w: coordinates have dimension %d, %s elements need %d",
			ErrConnectivity, d, m.Shapes.Name, m.Shapes.Dim())
	}
	if len(m.Elt)%nsh != 0 {
		return fmt.Errorf("%w: %d connectivity entries is not a multiple of %d nodes per element",
			ErrConnectivity, len(m.Elt), nsh)
	}
	if err = m.Elt.CheckBounds(0, nn-1); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return
}

func (m *Mesh) Dim() int { return m.Shapes.Dim() }

func (m *Mesh) NNodes() (n int) {
	_, n = m.X.Dims()
	return
}

func (m *Mesh) NElements() int { return len(m.Elt) / m.Shapes.NShapes() }

// Element returns the node list of element e, a view into Elt
func (m *Mesh) Element(e int) utils.Index {
	nsh := m.Shapes.NShapes()
	return m.Elt[e*nsh : (e+1)*nsh]
}

// Node copies the coordinates of node j into x
func (m *Mesh) Node(j int, x []float64) {
	mat.Col(x, j, m.X)
}

// SetNode moves node j to x
func (m *Mesh) SetNode(j int, x []float64) {
	m.X.SetCol(j, x)
}

// ElementCoords gathers the nodal coordinates of element e into Xe (d x m)
func (m *Mesh) ElementCoords(e int, Xe *mat.Dense) {
	var (
		d = m.Dim()
	)
	for i, node := range m.Element(e) {
		for a := 0; a < d; a++ {
			Xe.Set(a, i, m.X.At(a, node))
		}
	}
}

func (m *Mesh) Print() (out string) {
	buf := bytes.Buffer{}
	buf.WriteString(fmt.Sprintf("Mesh: %s, %d nodes, %d elements\n", m.Shapes.Name, m.NNodes(), m.NElements()))
	buf.WriteString(fmt.Sprintf("X = \n%v\n", mat.Formatted(m.X.T(), mat.Squeeze())))
	nsh := m.Shapes.NShapes()
	for e := 0; e < m.NElements(); e++ {
		buf.WriteString(fmt.Sprintf("[%d] %v\n", e, m.Elt[e*nsh:(e+1)*nsh]))
	}
	return buf.String()
}
