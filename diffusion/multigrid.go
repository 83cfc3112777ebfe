package diffusion

import (
	"github.com/notargets/gord/MG2D"
	log "github.com/sirupsen/logrus"
)

// Multigrid is a correction scheme multigrid solver. Each cycle restricts
// the residual to every level, then sweeps from the coarsest level to the
// leaf, relaxing the correction with red black Gauss-Seidel.
type Multigrid struct {
	Config
	g        *MG2D.Grid
	h        *helmholtz
	res, da  *MG2D.Scalar
	MinLevel int
}

func NewMultigrid(g *MG2D.Grid, cfg Config) (mg *Multigrid) {
	mg = &Multigrid{
		Config: cfg.withDefaults(),
		g:      g,
		h:      newHelmholtz(g),
		res:    MG2D.NewScalar(g, "res"),
		da:     MG2D.NewScalar(g, "da"),
	}
	return
}

func (mg *Multigrid) Name() string { return KindMultigrid }

func (mg *Multigrid) Diffuse(f *MG2D.Scalar, dt float64, D *MG2D.FaceVector, r, beta *MG2D.Scalar) (s Stats) {
	var (
		a    = f.Data()
		b    = mg.h.b.Data()
		res  = mg.res.Data()
		leaf = mg.g.Depth
		resb float64
	)
	mg.h.set(f, dt, D, r, beta)
	for _, val := range b {
		s.Sum += val
	}
	s.NRelax = mg.NRelax
	s.MinLevel = mg.MinLevel
	s.ResB = mg.h.residual(a, b, res, leaf)
	s.ResA, resb = s.ResB, s.ResB
	for s.I = 0; s.I < mg.MaxIter && (s.I < mg.MinIter || s.ResA > mg.Tolerance); s.I++ {
		mg.cycle(a, s.NRelax)
		s.ResA = mg.h.residual(a, b, res, leaf)
		if s.ResA > mg.Tolerance {
			if resb/s.ResA < 1.2 && s.NRelax < 100 {
				s.NRelax++
			} else if resb/s.ResA > 10 && s.NRelax > 2 {
				s.NRelax--
			}
		}
		if s.ResA == resb {
			s.I++
			break
		}
		resb = s.ResA
	}
	if s.ResA > mg.Tolerance {
		log.WithFields(log.Fields{
			"field":      f.Name,
			"iterations": s.I,
			"resb":       s.ResB,
			"resa":       s.ResA,
			"nrelax":     s.NRelax,
		}).Warn("multigrid solver did not converge")
	}
	return
}

// cycle performs one correction cycle on a, using the leaf residual held in
// mg.res.
func (mg *Multigrid) cycle(a []float64, nrelax int) {
	var (
		g        = mg.g
		minLevel = mg.MinLevel
	)
	if minLevel > g.Depth {
		minLevel = g.Depth
	}
	mg.res.Restrict()
	for l := minLevel; l <= g.Depth; l++ {
		da := mg.da.Level(l)
		if l == minLevel {
			for i := range da {
				da[i] = 0
			}
		} else {
			g.Prolongate(mg.da.Level(l-1), da, l)
		}
		for i := 0; i < nrelax; i++ {
			mg.relax(da, mg.res.Level(l), l)
		}
	}
	da := mg.da.Data()
	g.ForEachParallel(func(c MG2D.Cell) {
		a[c] += da[c]
	})
}

// relax performs one red black Gauss-Seidel sweep of L(a) = b on level l.
// Cells of one colour only read cells of the other, so each colour is
// updated in parallel.
func (mg *Multigrid) relax(a, b []float64, l int) {
	var (
		g      = mg.g
		n      = g.LevelN(l)
		dx2    = g.LevelDelta(l) * g.LevelDelta(l)
		lambda = mg.h.lambda.Level(l)
		ax, ay = mg.h.alpha.X[l], mg.h.alpha.Y[l]
	)
	for colour := 0; colour < 2; colour++ {
		g.ForEachRow(l, func(_, jMin, jMax int) {
			for j := jMin; j < jMax; j++ {
				for i := (j + colour) % 2; i < n; i += 2 {
					k := i + j*n
					num, den := -dx2*b[k], -dx2*lambda[k]
					if i > 0 {
						al := ax[i+j*(n+1)]
						num += al * a[k-1]
						den += al
					}
					if i < n-1 {
						al := ax[i+1+j*(n+1)]
						num += al * a[k+1]
						den += al
					}
					if j > 0 {
						al := ay[k]
						num += al * a[k-n]
						den += al
					}
					if j < n-1 {
						al := ay[k+n]
						num += al * a[k+n]
						den += al
					}
					if den != 0 {
						a[k] = num / den
					}
				}
			}
		})
	}
}
