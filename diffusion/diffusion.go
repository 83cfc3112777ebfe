package diffusion

import (
	"fmt"
	"math"

	"github.com/notargets/gord/MG2D"
)

/*
	Implicit (backward Euler) diffusion with linear source terms:

				(f' - f)/dt = div(D grad f') + r + beta f'

	is rearranged into the Helmholtz problem solved by every Solver:

				div(alpha grad a) + lambda a = b

	with a = f', alpha = D, lambda = beta - 1/dt and b = -(f/dt + r).
*/
type Solver interface {
	// Diffuse advances f in place over dt. D nil is a unit coefficient,
	// r and beta nil are zero.
	Diffuse(f *MG2D.Scalar, dt float64, D *MG2D.FaceVector, r, beta *MG2D.Scalar) Stats
	Name() string
}

// Stats describes one implicit solve.
type Stats struct {
	I        int     // Number of iterations
	ResB     float64 // Maximum residual before iterations
	ResA     float64 // Maximum residual after iterations
	Sum      float64 // Sum of the right hand side
	NRelax   int     // Number of relaxations, multigrid only
	MinLevel int     // Coarsest level used, multigrid only
}

type Config struct {
	Tolerance float64
	MinIter   int
	MaxIter   int
	NRelax    int
	ProcLimit int
}

const (
	DefaultTolerance = 1.e-3
	DefaultMinIter   = 1
	DefaultMaxIter   = 100
	DefaultNRelax    = 4
)

func (cfg Config) withDefaults() Config {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MinIter <= 0 {
		cfg.MinIter = DefaultMinIter
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = DefaultMaxIter
	}
	if cfg.NRelax <= 0 {
		cfg.NRelax = DefaultNRelax
	}
	return cfg
}

const (
	KindMultigrid = "multigrid"
	KindCG        = "cg"
)

func New(kind string, g *MG2D.Grid, cfg Config) (s Solver, err error) {
	switch kind {
	case KindMultigrid, "":
		s = NewMultigrid(g, cfg)
	case KindCG:
		s = NewConjugateGradient(g, cfg)
	default:
		err = fmt.Errorf("unknown diffusion solver %q, use one of %q, %q", kind, KindMultigrid, KindCG)
	}
	return
}

// helmholtz holds the coefficients of one solve on every level.
type helmholtz struct {
	g      *MG2D.Grid
	alpha  *MG2D.FaceVector
	unit   *MG2D.FaceVector
	lambda *MG2D.Scalar
	b      *MG2D.Scalar
}

func newHelmholtz(g *MG2D.Grid) *helmholtz {
	return &helmholtz{
		g:      g,
		lambda: MG2D.NewScalar(g, "lambda"),
		b:      MG2D.NewScalar(g, "b"),
	}
}

// set fills lambda and b on the leaf and restricts lambda and alpha to
// every level.
func (h *helmholtz) set(f *MG2D.Scalar, dt float64, D *MG2D.FaceVector, r, beta *MG2D.Scalar) {
	var (
		lambda = h.lambda.Data()
		b      = h.b.Data()
		fd     = f.Data()
		idt    = 1. / dt
	)
	h.g.ForEachParallel(func(c MG2D.Cell) {
		lambda[c] = -idt
		if beta != nil {
			lambda[c] += beta.At(c)
		}
		b[c] = -fd[c] * idt
		if r != nil {
			b[c] -= r.At(c)
		}
	})
	h.lambda.Restrict()
	if D == nil {
		if h.unit == nil {
			h.unit = MG2D.NewConstFaceVector(h.g, 1, 1)
		}
		h.alpha = h.unit
	} else {
		h.alpha = D
		D.Restrict()
	}
}

// residual computes res = b - L(a) on level l and returns its max norm.
// Faces on the box boundary carry no flux.
func (h *helmholtz) residual(a, b, res []float64, l int) (maxRes float64) {
	var (
		n        = h.g.LevelN(l)
		idx2     = 1. / math.Pow(h.g.LevelDelta(l), 2)
		lambda   = h.lambda.Level(l)
		ax, ay   = h.alpha.X[l], h.alpha.Y[l]
		partials = make([]float64, h.g.ParallelDegree(l))
	)
	h.g.ForEachRow(l, func(np, jMin, jMax int) {
		var pMax float64
		for j := jMin; j < jMax; j++ {
			for i := 0; i < n; i++ {
				k := i + j*n
				div := 0.
				if i > 0 {
					div += ax[i+j*(n+1)] * (a[k-1] - a[k])
				}
				if i < n-1 {
					div += ax[i+1+j*(n+1)] * (a[k+1] - a[k])
				}
				if j > 0 {
					div += ay[k] * (a[k-n] - a[k])
				}
				if j < n-1 {
					div += ay[k+n] * (a[k+n] - a[k])
				}
				res[k] = b[k] - lambda[k]*a[k] - div*idx2
				if r := math.Abs(res[k]); r > pMax {
					pMax = r
				}
			}
		}
		partials[np] = pMax
	})
	for _, p := range partials {
		maxRes = math.Max(maxRes, p)
	}
	return
}

// Residual returns the maximum norm of the residual of the backward Euler
// problem for a candidate solution fNew, given the state f before the step.
func Residual(fNew, f *MG2D.Scalar, dt float64, D *MG2D.FaceVector, r, beta *MG2D.Scalar) float64 {
	var (
		g   = f.Grid()
		h   = newHelmholtz(g)
		res = make([]float64, g.Cells())
	)
	h.set(f, dt, D, r, beta)
	return h.residual(fNew.Data(), h.b.Data(), res, g.Depth)
}
