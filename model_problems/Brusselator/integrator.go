package Brusselator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gord/MG2D"
	"github.com/notargets/gord/diffusion"
	"github.com/notargets/gord/utils"
)

var ErrUnstable = errors.New("concentration is not finite")

// SimulationError locates a failure of the time loop.
type SimulationError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d, t = %g: %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }

type Clock struct {
	T, Dt float64
	I     int
	TNext float64 // Next time the clock must land on exactly
}

// DtNext shortens dt so that an integer number of steps reaches TNext, and
// moves TNext to the end of the coming step. A step shorter than dt by less
// than a relative TEPS is accepted as is.
func (c *Clock) DtNext(dt float64) float64 {
	if c.TNext > c.T && !math.IsInf(c.TNext, 1) {
		n := int((c.TNext - c.T) / dt)
		if n == 0 {
			dt = c.TNext - c.T
		} else {
			dt1 := (c.TNext - c.T) / float64(n)
			if dt1 > dt*(1.+utils.TEPS) {
				dt = (c.TNext - c.T) / float64(n+1)
			} else if dt1 < dt {
				dt = dt1
			}
			c.TNext = c.T + dt
		}
	} else {
		c.TNext = c.T + dt
	}
	c.Dt = dt
	return dt
}

// Schedule decides when an event fires. Timed schedules also constrain
// the time step so the clock lands on Time.
type Schedule struct {
	Trigger func(c Clock) bool
	Time    float64
	Timed   bool
}

func AtStep(i int) Schedule {
	return Schedule{Trigger: func(c Clock) bool { return c.I == i }}
}

// EverySteps fires at step start and every n steps after it.
func EverySteps(start, n int) Schedule {
	return Schedule{Trigger: func(c Clock) bool {
		return c.I >= start && (c.I-start)%n == 0
	}}
}

func AtTime(t float64) Schedule {
	return Schedule{
		Trigger: func(c Clock) bool { return sameTime(c.T, t) },
		Time:    t,
		Timed:   true,
	}
}

func sameTime(t1, t2 float64) bool {
	return utils.Near(t1, t2, utils.TEPS)
}

type Event struct {
	Name string
	Schedule
	Action func(it *Integrator) error
}

type Integrator struct {
	Grid        *MG2D.Grid
	Fields      *Fields
	Params      Parameters
	Solver      diffusion.Solver
	D           *MG2D.FaceVector // Diffusion coefficient of C2
	MaxDt, TEnd float64
	Events      []Event
	Clock       Clock
	MGD1, MGD2  diffusion.Stats
}

func NewIntegrator(f *Fields, p Parameters, solver diffusion.Solver, maxDt, tEnd float64) (it *Integrator) {
	it = &Integrator{
		Grid:   f.Grid,
		Fields: f,
		Params: p,
		Solver: solver,
		D:      MG2D.NewConstFaceVector(f.Grid, p.D, p.D),
		MaxDt:  maxDt,
		TEnd:   tEnd,
	}
	return
}

// AddEvent appends to the dispatch table, events fire in the order added.
func (it *Integrator) AddEvent(ev ...Event) {
	it.Events = append(it.Events, ev...)
}

// target is the earliest of TEnd and the timed events still ahead.
func (it *Integrator) target() (t float64) {
	t = it.TEnd
	for _, ev := range it.Events {
		if ev.Timed && ev.Time > it.Clock.T && !sameTime(it.Clock.T, ev.Time) && ev.Time < t {
			t = ev.Time
		}
	}
	return
}

// Step advances both fields by one negotiated time step. Field 2 sees the
// already updated C1.
func (it *Integrator) Step() (err error) {
	var (
		f      = it.Fields
		target = it.target()
	)
	it.Clock.TNext = target
	dt := it.Clock.DtNext(it.MaxDt)

	SetField1Terms(f, it.Params)
	it.MGD1 = it.Solver.Diffuse(f.C1, dt, nil, f.R, f.Beta)
	SetField2Terms(f, it.Params)
	it.MGD2 = it.Solver.Diffuse(f.C2, dt, it.D, f.R, f.Beta)

	it.Clock.I++
	if sameTime(it.Clock.TNext, target) {
		it.Clock.T = target
	} else {
		it.Clock.T = it.Clock.TNext
	}
	if utils.IsNan(f.C1.Data()) || utils.IsNan(f.C2.Data()) {
		err = &SimulationError{Step: it.Clock.I, Time: it.Clock.T, Err: ErrUnstable}
	}
	return
}

// Finished is true once the clock has reached TEnd.
func (it *Integrator) Finished() bool {
	return it.Clock.T >= it.TEnd || sameTime(it.Clock.T, it.TEnd)
}

// Run fires the events due at the current clock, then steps, until TEnd.
// Events due at TEnd fire before Run returns.
func (it *Integrator) Run(ctx context.Context) (err error) {
	for {
		if err = ctx.Err(); err != nil {
			return
		}
		for _, ev := range it.Events {
			if !ev.Trigger(it.Clock) {
				continue
			}
			if err = ev.Action(it); err != nil {
				err = &SimulationError{Step: it.Clock.I, Time: it.Clock.T,
					Err: fmt.Errorf("event %s: %w", ev.Name, err)}
				return
			}
		}
		if it.Finished() {
			return
		}
		if err = it.Step(); err != nil {
			return
		}
	}
}
