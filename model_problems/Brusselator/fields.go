package Brusselator

import (
	"math/rand"

	"github.com/notargets/gord/MG2D"
)

// Fields owns the two concentrations of one run and the scratch fields
// holding the linearized reaction of the field being advanced.
type Fields struct {
	Grid    *MG2D.Grid
	C1, C2  *MG2D.Scalar
	R, Beta *MG2D.Scalar
}

func NewFields(g *MG2D.Grid) *Fields {
	return &Fields{
		Grid: g,
		C1:   MG2D.NewScalar(g, "C1"),
		C2:   MG2D.NewScalar(g, "C2"),
		R:    MG2D.NewScalar(g, "r"),
		Beta: MG2D.NewScalar(g, "beta"),
	}
}

// Initialize sets the homogeneous state and perturbs C2 by amplitude times
// a uniform deviate in (-1, 1], drawn per cell in storage order.
func (f *Fields) Initialize(p Parameters, amplitude float64, rng *rand.Rand) {
	c1, c2 := p.SteadyState()
	f.C1.Fill(c1)
	f.Grid.ForEach(func(c MG2D.Cell) {
		f.C2.Set(c, c2+amplitude*(1.-2.*rng.Float64()))
	})
}
