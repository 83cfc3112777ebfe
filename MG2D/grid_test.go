package MG2D

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(128, 64, [2]float64{0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, g.Depth)
	assert.Equal(t, 0.5, g.Delta)
	assert.Equal(t, 128*128, g.Cells())
	assert.Equal(t, 1, g.LevelN(0))
	assert.Equal(t, 64., g.LevelDelta(0))

	_, err = NewGrid(100, 64, [2]float64{}, 0)
	assert.Error(t, err)
	_, err = NewGrid(0, 64, [2]float64{}, 0)
	assert.Error(t, err)
	_, err = NewGrid(8, 0, [2]float64{}, 0)
	assert.Error(t, err)

	g, err = NewGrid(1, 2, [2]float64{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Depth)
}

func TestCellAddressing(t *testing.T) {
	g, err := NewGrid(8, 4, [2]float64{-2, 1}, 3)
	require.NoError(t, err)
	c := g.Cell(3, 5)
	i, j := g.IJ(c)
	assert.Equal(t, 3, i)
	assert.Equal(t, 5, j)
	x, y := g.Center(c)
	assert.InDelta(t, -2+3.5*0.5, x, 1e-14)
	assert.InDelta(t, 1+5.5*0.5, y, 1e-14)

	var last = -1
	g.ForEach(func(c Cell) {
		assert.Equal(t, last+1, int(c))
		last = int(c)
	})
	assert.Equal(t, g.Cells()-1, last)

	visits := make([]int32, g.Cells())
	g.ForEachParallel(func(c Cell) {
		atomic.AddInt32(&visits[c], 1)
	})
	for c := range visits {
		assert.Equal(t, int32(1), visits[c])
	}
}

func TestRestrictProlongate(t *testing.T) {
	g, err := NewGrid(16, 1, [2]float64{}, 0)
	require.NoError(t, err)
	{ // Restriction preserves the mean on every level
		s := NewScalar(g, "s")
		g.ForEach(func(c Cell) {
			x, y := g.Center(c)
			s.Set(c, x*x+3*y)
		})
		s.Restrict()
		mean := s.Stats().Mean
		for l := 0; l < g.Depth; l++ {
			lev := s.Level(l)
			var sum float64
			for _, v := range lev {
				sum += v
			}
			assert.InDelta(t, mean, sum/float64(len(lev)), 1e-12, "level %d", l)
		}
	}
	{ // A constant is prolongated exactly
		coarse := make([]float64, 8*8)
		fine := make([]float64, 16*16)
		for i := range coarse {
			coarse[i] = 2.5
		}
		g.Prolongate(coarse, fine, g.Depth)
		for i := range fine {
			assert.InDelta(t, 2.5, fine[i], 1e-14)
		}
	}
	{ // Interior linear functions are prolongated exactly
		nc, nf := 8, 16
		coarse := make([]float64, nc*nc)
		fine := make([]float64, nf*nf)
		for J := 0; J < nc; J++ {
			for I := 0; I < nc; I++ {
				coarse[I+J*nc] = float64(I) + 2*float64(J)
			}
		}
		g.Prolongate(coarse, fine, g.Depth)
		for j := 1; j < nf-1; j++ {
			for i := 1; i < nf-1; i++ {
				// Fine cell centers in coarse index coordinates
				xc := (float64(i)+0.5)/2 - 0.5
				yc := (float64(j)+0.5)/2 - 0.5
				assert.InDelta(t, xc+2*yc, fine[i+j*nf], 1e-12)
			}
		}
	}
}

func TestScalar(t *testing.T) {
	g, err := NewGrid(4, 2, [2]float64{}, 0)
	require.NoError(t, err)
	s := NewScalar(g, "C").Fill(1.5)
	assert.Equal(t, 1.5, s.At(g.Cell(2, 2)))
	assert.InDelta(t, 1.5*4, s.Sum(), 1e-14)
	st := s.Stats()
	assert.Equal(t, FieldStats{Min: 1.5, Max: 1.5, Mean: 1.5, StdDev: 0}, st)

	s.Set(g.Cell(0, 0), 3.5)
	cp := s.Copy("C2")
	assert.Equal(t, 3.5, cp.At(0))
	s.Set(0, 0)
	assert.Equal(t, 3.5, cp.At(0))
	s.CopyFrom(cp)
	assert.Equal(t, 3.5, s.At(0))
	st = s.Stats()
	assert.Equal(t, 1.5, st.Min)
	assert.Equal(t, 3.5, st.Max)
	assert.InDelta(t, 1.625, st.Mean, 1e-14)
	assert.True(t, st.StdDev > 0)
}

func TestFaceVectorRestrict(t *testing.T) {
	g, err := NewGrid(8, 1, [2]float64{}, 0)
	require.NoError(t, err)
	fv := NewConstFaceVector(g, 1, 8)
	for l := 0; l <= g.Depth; l++ {
		for _, v := range fv.X[l] {
			assert.Equal(t, 1., v)
		}
		for _, v := range fv.Y[l] {
			assert.Equal(t, 8., v)
		}
	}
	fv = NewFaceVector(g, "alpha")
	n := g.N
	for j := 0; j < n; j++ {
		for i := 0; i <= n; i++ {
			fv.X[g.Depth][i+j*(n+1)] = float64(j)
		}
	}
	fv.Restrict()
	nc := n / 2
	for J := 0; J < nc; J++ {
		assert.Equal(t, float64(2*J)+0.5, fv.X[g.Depth-1][1+J*(nc+1)])
	}
}
