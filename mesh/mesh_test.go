package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/mapping"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

func TestBlock1D(t *testing.T) {
	for _, f := range []*shapes.Family{shapes.P1_1D, shapes.P2_1D, shapes.P3_1D} {
		m, err := Block1D(f, 0, 1, 5)
		require.NoError(t, err)
		p := f.NShapes() - 1
		assert.Equal(t, 5*p+1, m.NNodes())
		assert.Equal(t, 5, m.NElements())
		assert.Equal(t, 1, m.Dim())
		// Neighbors share their end node
		for e := 0; e < 4; e++ {
			assert.Equal(t, m.Element(e)[p], m.Element(e + 1)[0])
		}
		assert.Equal(t, 0., m.X.At(0, 0))
		assert.Equal(t, 1., m.X.At(0, m.NNodes()-1))
	}
	_, err := Block1D(shapes.P1_2D, 0, 1, 2)
	assert.Error(t, err)
	_, err = Block1D(shapes.P1_1D, 1, 0, 2)
	assert.Error(t, err)
}

func TestBlock2D(t *testing.T) {
	cases := []struct {
		f         *shapes.Family
		nn, nelem int
	}{
		{shapes.P1_2D, 4 * 3, 3 * 2},
		{shapes.P2_2D, 7 * 5, 3 * 2},
		{shapes.S2_2D, 7*5 - 3*2, 3 * 2},
		{shapes.T1_2D, 4 * 3, 2 * 3 * 2},
	}
	for _, c := range cases {
		m, err := Block2D(c.f, 3, 2, 0, 3, -1, 1)
		require.NoError(t, err, c.f.Name)
		assert.Equal(t, c.nn, m.NNodes(), c.f.Name)
		assert.Equal(t, c.nelem, m.NElements(), c.f.Name)
		// Every element is positively oriented and the areas sum to the block
		var (
			iso  = mapping.NewIsoMap(c.f)
			Xe   = mat.NewDense(2, c.f.NShapes(), nil)
			xi   = []float64{0.25, 0.25}
			area float64
		)
		for e := 0; e < m.NElements(); e++ {
			m.ElementCoords(e, Xe)
			iso.SetNodes(Xe)
			require.True(t, iso.Eval(xi))
			assert.Greater(t, iso.Det(), 0., "%s element %d", c.f.Name, e)
			if c.f == shapes.T1_2D {
				area += 0.5 * iso.Det()
			} else {
				area += 4 * iso.Det()
			}
		}
		assert.InDelta(t, 6., area, 1.e-12, c.f.Name)
		// Every node is referenced
		seen := make([]bool, m.NNodes())
		for _, j := range m.Elt {
			seen[j] = true
		}
		assert.NotContains(t, seen, false, c.f.Name)
	}
	{ // Lagrange property of the mesh: element nodes sit at the mapped reference nodes
		f := shapes.P2_2D
		m, err := Block2D(f, 2, 2, 0, 1, 0, 1)
		require.NoError(t, err)
		var (
			iso = mapping.NewIsoMap(f)
			Xe  = mat.NewDense(2, f.NShapes(), nil)
			xi  = make([]float64, 2)
			x   = make([]float64, 2)
		)
		m.ElementCoords(3, Xe)
		iso.SetNodes(Xe)
		for i, node := range m.Element(3) {
			f.RefNode(i, xi)
			iso.Eval(xi)
			m.Node(node, x)
			assert.InDeltaSlice(t, x, iso.X, 1.e-14)
		}
	}
	_, err := Block2D(shapes.P1_1D, 1, 1, 0, 1, 0, 1)
	assert.Error(t, err)
	_, err = Block2D(shapes.P1_2D, 0, 1, 0, 1, 0, 1)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	X := mat.NewDense(1, 3, []float64{0, 0.5, 1})
	_, err := New(X, utils.Index{0, 1, 1, 2}, shapes.P1_1D)
	require.NoError(t, err)
	_, err = New(X, utils.Index{0, 1, 1, 3}, shapes.P1_1D)
	assert.True(t, errors.Is(err, ErrConnectivity))
	_, err = New(X, utils.Index{0, 1, 2}, shapes.P1_1D)
	assert.True(t, errors.Is(err, ErrConnectivity))
	_, err = New(X, utils.Index{0, 1, 2}, shapes.T1_2D)
	assert.True(t, errors.Is(err, ErrConnectivity))
}

func TestNodeAccess(t *testing.T) {
	m, err := Block2D(shapes.P1_2D, 2, 2, 0, 1, 0, 1)
	require.NoError(t, err)
	x := make([]float64, 2)
	m.Node(4, x)
	assert.Equal(t, []float64{0.5, 0.5}, x)
	m.SetNode(4, []float64{0.6, 0.45})
	m.Node(4, x)
	assert.Equal(t, []float64{0.6, 0.45}, x)
	out := m.Print()
	assert.Contains(t, out, "P1_2D, 9 nodes, 4 elements")
}
