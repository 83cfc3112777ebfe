package Brusselator

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gord/utils"
)

var ErrParameterBounds = errors.New("brusselator parameters out of bounds")

/*
	The Brusselator in non dimensional form:

			dC1/dt = lap(C1)   + k (ka - (kb + 1) C1 + C1^2 C2)
			dC2/dt = D lap(C2) + k (kb C1 - C1^2 C2)

	The homogeneous state (ka, kb/ka) loses stability to a Turing pattern at

			kb_c = (1 + ka nu)^2,  nu = sqrt(1/D)

	and mu measures the distance above onset, kb = kb_c (1 + mu).
*/
type Parameters struct {
	K, Ka, D, Mu float64
	Kb           float64 // Derived from Ka, D and Mu
}

func NewParameters(k, ka, D, mu float64) (p Parameters, err error) {
	if !(D > 0) || !(ka > 0) {
		err = fmt.Errorf("%w: need D > 0 and ka > 0, have D = %g, ka = %g", ErrParameterBounds, D, ka)
		return
	}
	p = Parameters{K: k, Ka: ka, D: D, Mu: mu}
	p.Kb = p.KbCritical() * (1. + mu)
	return
}

func (p Parameters) Nu() float64 { return math.Sqrt(1. / p.D) }

func (p Parameters) KbCritical() float64 {
	return utils.POW(1.+p.Ka*p.Nu(), 2)
}

// SteadyState is the homogeneous fixed point of the reaction.
func (p Parameters) SteadyState() (c1, c2 float64) {
	return p.Ka, p.Kb / p.Ka
}

func (p Parameters) String() string {
	return fmt.Sprintf("k = %g, ka = %g, D = %g, mu = %g, kb = %g", p.K, p.Ka, p.D, p.Mu, p.Kb)
}
