package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fekernel/mesh"
	"github.com/notargets/fekernel/quadrature"
	"github.com/notargets/fekernel/shapes"
	"github.com/notargets/fekernel/utils"
)

func singleElement(t *testing.T, f *shapes.Family, coords []float64) (m *mesh.Mesh, p *Poisson) {
	var (
		nsh = f.NShapes()
		err error
	)
	elt := utils.NewIndex(nsh)
	for i := range elt {
		elt[i] = i
	}
	m, err = mesh.New(mat.NewDense(f.Dim(), nsh, coords), elt, f)
	require.NoError(t, err)
	rule, err := quadrature.ForElement(f.Type, 2)
	require.NoError(t, err)
	p = NewPoisson(f, rule)
	return
}

func TestStiffness(t *testing.T) {
	{ // 1D linear element of length h
		m, p := singleElement(t, shapes.P1_1D, []float64{1, 1.5})
		var (
			U  = mat.NewDense(1, 2, nil)
			Ke = mat.NewDense(2, 2, nil)
		)
		require.NoError(t, p.Compute(m, U, U, 0, nil, Ke))
		assert.True(t, mat.EqualApprox(Ke, mat.NewDense(2, 2, []float64{2, -2, -2, 2}), 1.e-14))
	}
	{ // Bilinear unit square
		m, p := singleElement(t, shapes.P1_2D, []float64{
			0, 1, 1, 0,
			0, 0, 1, 1,
		})
		var (
			U  = mat.NewDense(1, 4, nil)
			Ke = mat.NewDense(4, 4, nil)
		)
		require.NoError(t, p.Compute(m, U, U, 0, nil, Ke))
		Kref := mat.NewDense(4, 4, []float64{
			4, -1, -2, -1,
			-1, 4, -1, -2,
			-2, -1, 4, -1,
			-1, -2, -1, 4,
		})
		Kref.Scale(1./6, Kref)
		assert.True(t, mat.EqualApprox(Ke, Kref, 1.e-14))
	}
	{ // Linear unit triangle
		m, p := singleElement(t, shapes.T1_2D, []float64{
			0, 1, 0,
			0, 0, 1,
		})
		var (
			U  = mat.NewDense(1, 3, nil)
			Ke = mat.NewDense(3, 3, nil)
		)
		require.NoError(t, p.Compute(m, U, U, 0, nil, Ke))
		Kref := mat.NewDense(3, 3, []float64{
			1, -0.5, -0.5,
			-0.5, 0.5, 0,
			-0.5, 0, 0.5,
		})
		assert.True(t, mat.EqualApprox(Ke, Kref, 1.e-14))
	}
}

func TestResidual(t *testing.T) {
	m, p := singleElement(t, shapes.P1_2D, []float64{
		0, 2, 2.5, 0,
		0, 0, 1, 1.5,
	})
	var (
		U  = mat.NewDense(1, 4, nil)
		F  = mat.NewDense(1, 4, nil)
		Re = make([]float64, 4)
		Ke = mat.NewDense(4, 4, nil)
	)
	for j := 0; j < 4; j++ {
		U.Set(0, j, 1+m.X.At(0, j)-2*m.X.At(1, j))
	}
	{ // Without load the residual is Ke U
		require.NoError(t, p.Compute(m, U, F, 0, Re, Ke))
		KU := mat.NewVecDense(4, nil)
		KU.MulVec(Ke, U.RowView(0))
		assert.InDeltaSlice(t, KU.RawVector().Data, Re, 1.e-13)
		// Rows of the Laplacian sum to zero
		for i := 0; i < 4; i++ {
			assert.InDelta(t, 0., mat.Sum(Ke.RowView(i)), 1.e-13)
		}
	}
	{ // Outputs accumulate; nil outputs are skipped
		Re2 := append([]float64{}, Re...)
		require.NoError(t, p.Compute(m, U, F, 0, Re2, nil))
		for i := range Re {
			assert.InDelta(t, 2*Re[i], Re2[i], 1.e-13)
		}
	}
	{ // A unit load on a zero field integrates the shape functions
		var (
			Z  = mat.NewDense(1, 4, nil)
			F1 = mat.NewDense(1, 4, utils.ConstArray(4, 1))
			R  = make([]float64, 4)
		)
		require.NoError(t, p.Compute(m, Z, F1, 0, R, nil))
		var total float64
		for _, val := range R {
			total += val
		}
		// Quadrilateral area by the shoelace formula
		assert.InDelta(t, -(2*1+2.5*1.5)/2, total, 1.e-13)
	}
}

func TestInvertedElement(t *testing.T) {
	{ // Clockwise node order
		m, p := singleElement(t, shapes.T1_2D, []float64{
			0, 0, 1,
			0, 1, 0,
		})
		U := mat.NewDense(1, 3, nil)
		err := p.Compute(m, U, U, 0, nil, mat.NewDense(3, 3, nil))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvertedElement))
		assert.Contains(t, err.Error(), "element 0")
	}
	{ // Collapsed element
		m, p := singleElement(t, shapes.P1_1D, []float64{1, 1})
		U := mat.NewDense(1, 2, nil)
		err := p.Compute(m, U, U, 0, make([]float64, 2), nil)
		assert.True(t, errors.Is(err, ErrInvertedElement))
	}
}
