package MG2D

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Scalar holds one value per cell on every level of the grid. The leaf
// level is the field, coarser levels are filled by Restrict or used as
// scratch by the solvers.
type Scalar struct {
	Name   string
	g      *Grid
	levels [][]float64
}

func NewScalar(g *Grid, name string) (s *Scalar) {
	s = &Scalar{
		Name:   name,
		g:      g,
		levels: make([][]float64, g.Depth+1),
	}
	for l := 0; l <= g.Depth; l++ {
		n := g.LevelN(l)
		s.levels[l] = make([]float64, n*n)
	}
	return
}

func (s *Scalar) Grid() *Grid { return s.g }

func (s *Scalar) At(c Cell) float64 { return s.levels[s.g.Depth][c] }

func (s *Scalar) Set(c Cell, val float64) { s.levels[s.g.Depth][c] = val }

// Data is the leaf level storage, row major.
func (s *Scalar) Data() []float64 { return s.levels[s.g.Depth] }

func (s *Scalar) Level(l int) []float64 { return s.levels[l] }

// Fill sets every level to val.
func (s *Scalar) Fill(val float64) *Scalar {
	for _, lev := range s.levels {
		for i := range lev {
			lev[i] = val
		}
	}
	return s
}

// CopyFrom copies the leaf values of src, which must live on the same grid.
func (s *Scalar) CopyFrom(src *Scalar) {
	copy(s.Data(), src.Data())
}

func (s *Scalar) Copy(name string) (R *Scalar) {
	R = NewScalar(s.g, name)
	for l := range s.levels {
		copy(R.levels[l], s.levels[l])
	}
	return
}

// Restrict fills every coarse level from the leaf by averaging children.
func (s *Scalar) Restrict() {
	for l := s.g.Depth; l > 0; l-- {
		s.g.Restrict(s.levels[l], s.levels[l-1], l)
	}
}

// Sum is the leaf integral of the field over the box.
func (s *Scalar) Sum() float64 {
	return floats.Sum(s.Data()) * s.g.Delta * s.g.Delta
}

type FieldStats struct {
	Min, Max, Mean, StdDev float64
}

func (s *Scalar) Stats() (st FieldStats) {
	data := s.Data()
	st.Min, st.Max = floats.Min(data), floats.Max(data)
	st.Mean, st.StdDev = stat.PopMeanStdDev(data, nil)
	if math.IsNaN(st.StdDev) {
		st.StdDev = 0
	}
	return
}

/*
	FaceVector holds a coefficient on every cell face of every level.

	X faces of level l are indexed i + j*(n+1), face i lying between cells
	i-1 and i of row j. Y faces are indexed i + j*n, face j lying between
	rows j-1 and j. Faces on the box boundary are stored but never used,
	the boundary flux is zero.
*/
type FaceVector struct {
	Name string
	g    *Grid
	X, Y [][]float64
}

func NewFaceVector(g *Grid, name string) (fv *FaceVector) {
	fv = &FaceVector{
		Name: name,
		g:    g,
		X:    make([][]float64, g.Depth+1),
		Y:    make([][]float64, g.Depth+1),
	}
	for l := 0; l <= g.Depth; l++ {
		n := g.LevelN(l)
		fv.X[l] = make([]float64, (n+1)*n)
		fv.Y[l] = make([]float64, n*(n+1))
	}
	return
}

// NewConstFaceVector is a diagonal tensor coefficient, dx on every x face
// and dy on every y face, on all levels.
func NewConstFaceVector(g *Grid, dx, dy float64) (fv *FaceVector) {
	fv = NewFaceVector(g, "D")
	for l := 0; l <= g.Depth; l++ {
		for i := range fv.X[l] {
			fv.X[l][i] = dx
		}
		for i := range fv.Y[l] {
			fv.Y[l][i] = dy
		}
	}
	return
}

func (fv *FaceVector) Grid() *Grid { return fv.g }

// Restrict fills coarse levels from the leaf. A coarse face takes the mean
// of the two fine faces it covers.
func (fv *FaceVector) Restrict() {
	for l := fv.g.Depth; l > 0; l-- {
		var (
			nf          = fv.g.LevelN(l)
			nc          = nf / 2
			fx, fy      = fv.X[l], fv.Y[l]
			cx, cy      = fv.X[l-1], fv.Y[l-1]
			strideFineX = nf + 1
		)
		for J := 0; J < nc; J++ {
			for I := 0; I <= nc; I++ {
				cx[I+J*(nc+1)] = 0.5 * (fx[2*I+2*J*strideFineX] + fx[2*I+(2*J+1)*strideFineX])
			}
		}
		for J := 0; J <= nc; J++ {
			for I := 0; I < nc; I++ {
				cy[I+J*nc] = 0.5 * (fy[2*I+2*J*nf] + fy[2*I+1+2*J*nf])
			}
		}
	}
}
