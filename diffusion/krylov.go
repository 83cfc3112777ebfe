package diffusion

import (
	"math"

	"github.com/notargets/gord/MG2D"
	"github.com/notargets/gord/utils"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ConjugateGradient solves the leaf level problem with Jacobi preconditioned
// conjugate gradients on the assembled operator
//
//	A = -L = F - lambda
//
// where F is the symmetric face flux part. F is cached for the unit
// coefficient and for the last FaceVector passed to Diffuse, so the
// coefficients of a FaceVector must not change while it is in use.
type ConjugateGradient struct {
	Config
	MaxIterCG int
	g         *MG2D.Grid
	h         *helmholtz
	pm        *utils.PartitionMap
	ops       map[*MG2D.FaceVector]*faceOperator
}

// faceOperator is the face flux part of the operator, off diagonal entries
// in CSR form and the diagonal held separately.
type faceOperator struct {
	offDiag utils.CSR
	diag    []float64
}

func NewConjugateGradient(g *MG2D.Grid, cfg Config) (cg *ConjugateGradient) {
	cfg = cfg.withDefaults()
	maxIter := 4 * g.N
	if cfg.MaxIter > maxIter {
		maxIter = cfg.MaxIter
	}
	cg = &ConjugateGradient{
		Config:    cfg,
		MaxIterCG: maxIter,
		g:         g,
		h:         newHelmholtz(g),
		pm:        utils.NewPartitionMap(utils.ParallelDegree(cfg.ProcLimit, g.Cells()), g.Cells()),
		ops:       make(map[*MG2D.FaceVector]*faceOperator),
	}
	return
}

func (cg *ConjugateGradient) Name() string { return KindCG }

func (cg *ConjugateGradient) operator(alpha *MG2D.FaceVector) (op *faceOperator) {
	var ok bool
	if op, ok = cg.ops[alpha]; ok {
		return
	}
	var (
		g      = cg.g
		n      = g.N
		l      = g.Depth
		idx2   = 1. / (g.Delta * g.Delta)
		ax, ay = alpha.X[l], alpha.Y[l]
		dok    = utils.NewDOK(g.Cells(), g.Cells(), "F")
	)
	op = &faceOperator{diag: make([]float64, g.Cells())}
	couple := func(k1, k2 int, al float64) {
		w := al * idx2
		dok.Add(k1, k2, -w)
		dok.Add(k2, k1, -w)
		op.diag[k1] += w
		op.diag[k2] += w
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			k := i + j*n
			if i < n-1 {
				couple(k, k+1, ax[i+1+j*(n+1)])
			}
			if j < n-1 {
				couple(k, k+n, ay[k+n])
			}
		}
	}
	dok.SetReadOnly()
	op.offDiag = dok.ToCSR()
	for fv := range cg.ops {
		if fv != cg.h.unit {
			delete(cg.ops, fv)
		}
	}
	cg.ops[alpha] = op
	return
}

func (cg *ConjugateGradient) Diffuse(f *MG2D.Scalar, dt float64, D *MG2D.FaceVector, r, beta *MG2D.Scalar) (s Stats) {
	cg.h.set(f, dt, D, r, beta)
	var (
		N      = cg.g.Cells()
		op     = cg.operator(cg.h.alpha)
		lambda = cg.h.lambda.Data()
		b      = cg.h.b.Data()
		diag   = mat.NewVecDense(N, nil)
		x      = mat.NewVecDense(N, f.Data())
		res    = mat.NewVecDense(N, nil)
		z      = mat.NewVecDense(N, nil)
		p      = mat.NewVecDense(N, nil)
		Ap     = mat.NewVecDense(N, nil)
	)
	for i := 0; i < N; i++ {
		diag.SetVec(i, op.diag[i]-lambda[i])
		s.Sum += b[i]
	}
	apply := func(dst, src *mat.VecDense) {
		d, v := dst.RawVector().Data, src.RawVector().Data
		op.offDiag.MulVec(d, v, cg.pm)
		for i := range d {
			d[i] += diag.AtVec(i) * v[i]
		}
	}
	maxNorm := func(v *mat.VecDense) float64 {
		return floats.Norm(v.RawVector().Data, math.Inf(1))
	}
	// The right hand side is -b, res = -b - A x
	apply(res, x)
	for i := 0; i < N; i++ {
		res.SetVec(i, -b[i]-res.AtVec(i))
	}
	s.ResB = maxNorm(res)
	s.ResA = s.ResB
	z.DivElemVec(res, diag)
	p.CopyVec(z)
	rz := mat.Dot(res, z)
	for s.I = 0; s.I < cg.MaxIterCG && (s.I < cg.MinIter || s.ResA > cg.Tolerance); s.I++ {
		apply(Ap, p)
		pAp := mat.Dot(p, Ap)
		if !(pAp > 0) {
			log.WithFields(log.Fields{
				"field":     f.Name,
				"iteration": s.I,
				"pAp":       pAp,
			}).Debug("conjugate gradient breakdown")
			break
		}
		step := rz / pAp
		x.AddScaledVec(x, step, p)
		res.AddScaledVec(res, -step, Ap)
		s.ResA = maxNorm(res)
		z.DivElemVec(res, diag)
		rzNew := mat.Dot(res, z)
		p.AddScaledVec(z, rzNew/rz, p)
		rz = rzNew
	}
	if s.ResA > cg.Tolerance {
		log.WithFields(log.Fields{
			"field":      f.Name,
			"iterations": s.I,
			"resb":       s.ResB,
			"resa":       s.ResA,
		}).Warn("conjugate gradient solver did not converge")
	}
	return
}
