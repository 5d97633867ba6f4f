package shapes

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

var allFamilies = []*Family{P1_1D, P2_1D, P3_1D, P1_2D, P2_2D, S2_2D, T1_2D}

// interior returns a random point strictly inside the reference domain
func interior(f *Family, rnd *rand.Rand) (xi []float64) {
	xi = make([]float64, f.Dim())
	if f.kind == triangle2D {
		for {
			xi[0], xi[1] = 0.05+0.9*rnd.Float64(), 0.05+0.9*rnd.Float64()
			if xi[0]+xi[1] < 0.95 {
				return
			}
		}
	}
	for j := range xi {
		xi[j] = -0.95 + 1.9*rnd.Float64()
	}
	return
}

func TestFamilyTable(t *testing.T) {
	{
		expected := map[*Family][2]int{
			P1_1D: {1, 2}, P2_1D: {1, 3}, P3_1D: {1, 4},
			P1_2D: {2, 4}, P2_2D: {2, 9}, S2_2D: {2, 8}, T1_2D: {2, 3},
		}
		for f, dm := range expected {
			assert.Equal(t, dm[0], f.Dim(), f.Name)
			assert.Equal(t, dm[1], f.NShapes(), f.Name)
			assert.Equal(t, f.NShapes(), f.Type.GetNumNodes(), f.Name)
			assert.Equal(t, f.Dim(), f.Type.GetDimension(), f.Name)
			nr, nc := f.RefNodes().Dims()
			assert.Equal(t, dm[0], nr)
			assert.Equal(t, dm[1], nc)
		}
	}
	{ // Lookup by name
		f, err := ByName("s2_2d")
		require.NoError(t, err)
		assert.Equal(t, S2_2D, f)
		_, err = ByName("P4_1D")
		assert.Error(t, err)
		assert.Len(t, Names(), 7)
	}
	{ // Reference nodes
		assert.InDeltaSlice(t, []float64{-1, -1. / 3, 1. / 3, 1}, P3_1D.RefNodes().RawMatrix().Data, 1.e-15)
		R := P2_2D.RefNodes()
		assert.Equal(t, []float64{-1, -1}, []float64{R.At(0, 0), R.At(1, 0)})
		assert.Equal(t, []float64{1, 0}, []float64{R.At(0, 5), R.At(1, 5)})
		assert.Equal(t, []float64{0, 0}, []float64{R.At(0, 8), R.At(1, 8)})
		// S2 is P2 without the bubble
		assert.Equal(t, P2_2D.refNodes[:16], S2_2D.refNodes)
	}
}

func TestPartitionOfUnity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, f := range allFamilies {
		s := New(f)
		for n := 0; n < 20; n++ {
			s.Eval(interior(f, rnd))
			assert.InDelta(t, 1., floats.Sum(s.N), 1.e-13, f.Name)
			// Gradients of a partition of unity sum to zero
			for j := 0; j < f.Dim(); j++ {
				assert.InDelta(t, 0., floats.Sum(s.DN.RawRowView(j)), 1.e-12, f.Name)
			}
		}
	}
}

func TestLagrangeProperty(t *testing.T) {
	for _, f := range allFamilies {
		var (
			s  = New(f)
			xi = make([]float64, f.Dim())
		)
		for j := 0; j < f.NShapes(); j++ {
			f.RefNode(j, xi)
			s.Eval(xi)
			for i, val := range s.N {
				if i == j {
					assert.InDelta(t, 1., val, 1.e-14, "%s node %d", f.Name, j)
				} else {
					assert.InDelta(t, 0., val, 1.e-14, "%s node %d shape %d", f.Name, j, i)
				}
			}
		}
	}
}

func TestDerivativeConsistency(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(2))
		h   = 1.e-6
	)
	for _, f := range allFamilies {
		var (
			s      = New(f)
			sp, sm = New(f), New(f)
		)
		for n := 0; n < 10; n++ {
			xi := interior(f, rnd)
			s.Eval(xi)
			for j := 0; j < f.Dim(); j++ {
				xp := append([]float64{}, xi...)
				xm := append([]float64{}, xi...)
				xp[j] += h
				xm[j] -= h
				sp.Eval(xp)
				sm.Eval(xm)
				for i := 0; i < f.NShapes(); i++ {
					fd := (sp.N[i] - sm.N[i]) / (2 * h)
					assert.InDelta(t, fd, s.DN.At(j, i), 1.e-8, "%s dN_%d/dxi_%d", f.Name, i, j)
				}
			}
		}
	}
}

func TestSerendipityIsNotRestrictedP2(t *testing.T) {
	var (
		s2 = New(S2_2D)
		p2 = New(P2_2D)
		xi = []float64{0.3, -0.2}
	)
	s2.Eval(xi)
	p2.Eval(xi)
	// Corner functions differ because S2 has no bubble to absorb
	diff := 0.
	for i := 0; i < 4; i++ {
		diff += math.Abs(s2.N[i] - p2.N[i])
	}
	assert.Greater(t, diff, 1.e-3)
	// Both reproduce linear fields exactly
	var xs, xp float64
	for i := 0; i < 8; i++ {
		xs += S2_2D.refNodes[2*i] * s2.N[i]
	}
	for i := 0; i < 9; i++ {
		xp += P2_2D.refNodes[2*i] * p2.N[i]
	}
	assert.InDelta(t, xi[0], xs, 1.e-14)
	assert.InDelta(t, xi[0], xp, 1.e-14)
}

func TestEvalDimensionMismatch(t *testing.T) {
	s := New(P1_2D)
	assert.Panics(t, func() { s.Eval([]float64{0}) })
}
