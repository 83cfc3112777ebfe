package Brusselator

import (
	"github.com/notargets/gord/MG2D"
)

/*
	The reaction of each field is split into a source and a coefficient of
	the field itself, so the diffusion solver can treat it implicitly:

			Rate1 = r1 + beta1 C1,  r1 = k ka,     beta1 = k (C1 C2 - kb - 1)
			Rate2 = r2 + beta2 C2,  r2 = k kb C1,  beta2 = -k C1^2
*/

func Field1Terms(c1, c2 float64, p Parameters) (r, beta float64) {
	r = p.K * p.Ka
	beta = p.K * (c1*c2 - p.Kb - 1.)
	return
}

func Field2Terms(c1 float64, p Parameters) (r, beta float64) {
	r = p.K * p.Kb * c1
	beta = -p.K * c1 * c1
	return
}

func Rate1(c1, c2 float64, p Parameters) float64 {
	return p.K * (p.Ka - (p.Kb+1.)*c1 + c1*c1*c2)
}

func Rate2(c1, c2 float64, p Parameters) float64 {
	return p.K * (p.Kb*c1 - c1*c1*c2)
}

// SetField1Terms writes the field 1 source and coefficient from the current
// C1 and C2.
func SetField1Terms(f *Fields, p Parameters) {
	f.Grid.ForEachParallel(func(c MG2D.Cell) {
		r, beta := Field1Terms(f.C1.At(c), f.C2.At(c), p)
		f.R.Set(c, r)
		f.Beta.Set(c, beta)
	})
}

// SetField2Terms writes the field 2 source and coefficient. It must follow
// the update of C1 within a step.
func SetField2Terms(f *Fields, p Parameters) {
	f.Grid.ForEachParallel(func(c MG2D.Cell) {
		r, beta := Field2Terms(f.C1.At(c), p)
		f.R.Set(c, r)
		f.Beta.Set(c, beta)
	})
}
