package MG2D

import (
	"fmt"

	"github.com/notargets/gord/utils"
)

/*
	A square Cartesian multigrid. The leaf level holds N x N cells covering
	an L x L box whose lower left corner is at Origin. Every coarser level
	halves the number of cells per side, down to a single cell at level 0:

				level l has 2^l x 2^l cells of size L / 2^l

	Cells are stored row major, the x index i runs fastest:

				index = i + j * 2^l

	All box boundaries are homogeneous Neumann (zero normal flux).
*/
type Grid struct {
	N          int // Cells per side on the leaf level
	Depth      int // Leaf level number, N = 2^Depth
	L          float64
	Origin     [2]float64
	Delta      float64 // Leaf cell size
	ProcLimit  int     // Maximum number of go routines used for loops, 0 = NumCPU
	partitions []*utils.PartitionMap
}

// Cell is a handle to a leaf cell, valid for the Grid that produced it.
type Cell int

func NewGrid(N int, L float64, Origin [2]float64, ProcLimit int) (g *Grid, err error) {
	var (
		depth int
		ok    bool
	)
	if depth, ok = utils.Log2(N); !ok {
		err = fmt.Errorf("grid size must be a power of two, have N = %d", N)
		return
	}
	if !(L > 0) {
		err = fmt.Errorf("domain size must be positive, have L = %g", L)
		return
	}
	g = &Grid{
		N:          N,
		Depth:      depth,
		L:          L,
		Origin:     Origin,
		Delta:      L / float64(N),
		ProcLimit:  ProcLimit,
		partitions: make([]*utils.PartitionMap, depth+1),
	}
	for l := 0; l <= depth; l++ {
		n := g.LevelN(l)
		g.partitions[l] = utils.NewPartitionMap(utils.ParallelDegree(ProcLimit, n), n)
	}
	return
}

// LevelN is the number of cells per side on level l.
func (g *Grid) LevelN(l int) int { return 1 << uint(l) }

func (g *Grid) LevelDelta(l int) float64 { return g.L / float64(g.LevelN(l)) }

// Cells is the number of leaf cells.
func (g *Grid) Cells() int { return g.N * g.N }

func (g *Grid) Cell(i, j int) Cell { return Cell(i + j*g.N) }

func (g *Grid) IJ(c Cell) (i, j int) {
	j = int(c) / g.N
	i = int(c) - j*g.N
	return
}

// Center returns the coordinates of the center of leaf cell c.
func (g *Grid) Center(c Cell) (x, y float64) {
	i, j := g.IJ(c)
	x = g.Origin[0] + (float64(i)+0.5)*g.Delta
	y = g.Origin[1] + (float64(j)+0.5)*g.Delta
	return
}

// ForEach visits every leaf cell in storage order on the calling go routine.
func (g *Grid) ForEach(f func(c Cell)) {
	for c := 0; c < g.Cells(); c++ {
		f(Cell(c))
	}
}

// ForEachParallel visits every leaf cell, splitting the rows of the grid
// between go routines. f must only write to storage owned by cell c.
func (g *Grid) ForEachParallel(f func(c Cell)) {
	N := g.N
	g.partitions[g.Depth].Run(func(np, jMin, jMax int) {
		for c := jMin * N; c < jMax*N; c++ {
			f(Cell(c))
		}
	})
}

// ForEachRow splits the rows of level l between go routines and calls f
// with each partition number and its row range.
func (g *Grid) ForEachRow(l int, f func(np, jMin, jMax int)) {
	g.partitions[l].Run(f)
}

// ParallelDegree is the number of row partitions used on level l.
func (g *Grid) ParallelDegree(l int) int { return g.partitions[l].ParallelDegree }

// Restrict averages the four children of every coarse cell, filling
// level l-1 of coarse from level l of fine.
func (g *Grid) Restrict(fine, coarse []float64, l int) {
	var (
		nf = g.LevelN(l)
		nc = nf / 2
	)
	g.ForEachRow(l-1, func(_, jMin, jMax int) {
		for J := jMin; J < jMax; J++ {
			r0, r1 := 2*J*nf, (2*J+1)*nf
			for I := 0; I < nc; I++ {
				i := 2 * I
				coarse[I+J*nc] = 0.25 * (fine[r0+i] + fine[r0+i+1] + fine[r1+i] + fine[r1+i+1])
			}
		}
	})
}

// Prolongate interpolates level l-1 values onto level l with bilinear
// weights (9, 3, 3, 1)/16. Coarse neighbors outside the box are reflected,
// which keeps the zero normal gradient at the boundary.
func (g *Grid) Prolongate(coarse, fine []float64, l int) {
	var (
		nf = g.LevelN(l)
		nc = nf / 2
	)
	clamp := func(I int) int {
		if I < 0 {
			return 0
		}
		if I >= nc {
			return nc - 1
		}
		return I
	}
	g.ForEachRow(l, func(_, jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			J := j / 2
			Jn := clamp(J + 2*(j%2) - 1)
			for i := 0; i < nf; i++ {
				I := i / 2
				In := clamp(I + 2*(i%2) - 1)
				fine[i+j*nf] = (9*coarse[I+J*nc] + 3*coarse[In+J*nc] +
					3*coarse[I+Jn*nc] + coarse[In+Jn*nc]) / 16
			}
		}
	})
}
