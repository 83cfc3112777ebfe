package Brusselator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/notargets/gord/InputParameters"
	"github.com/notargets/gord/MG2D"
	"github.com/notargets/gord/diffusion"
	"github.com/notargets/gord/output"
	"github.com/notargets/gord/utils"
	log "github.com/sirupsen/logrus"
)

const MovieFile = "f.avi"

// Brusselator runs the mu sweep described by the input parameters. All
// cases share one grid, one diffusion solver and one movie.
type Brusselator struct {
	ip        *InputParameters.InputParametersRD
	Grid      *MG2D.Grid
	Solver    diffusion.Solver
	OutputDir string
	Progress  io.Writer // Receives one line per movie frame
	movie     *output.Movie
}

type Result struct {
	Mu, Kb   float64
	Steps    int
	Time     float64
	Snapshot string
	Frames   int
	C1Stats  MG2D.FieldStats
	Elapsed  time.Duration
}

type Option func(b *Brusselator)

func WithOutputDir(dir string) Option {
	return func(b *Brusselator) { b.OutputDir = dir }
}

func WithProgress(w io.Writer) Option {
	return func(b *Brusselator) { b.Progress = w }
}

func WithSolver(s diffusion.Solver) Option {
	return func(b *Brusselator) { b.Solver = s }
}

func NewBrusselator(ip *InputParameters.InputParametersRD, opts ...Option) (b *Brusselator, err error) {
	if err = ip.Validate(); err != nil {
		err = fmt.Errorf("invalid input parameters: %w", err)
		return
	}
	var g *MG2D.Grid
	if g, err = MG2D.NewGrid(ip.Cells, ip.L, [2]float64{0, 0}, ip.ProcLimit); err != nil {
		return
	}
	b = &Brusselator{
		ip:        ip,
		Grid:      g,
		OutputDir: ".",
		Progress:  os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Solver == nil {
		if b.Solver, err = diffusion.New(ip.Solver, g, diffusion.Config{
			Tolerance: ip.Tolerance,
			MaxIter:   ip.MaxIterations,
			NRelax:    ip.NRelax,
			ProcLimit: ip.ProcLimit,
		}); err != nil {
			b = nil
			return
		}
	}
	return
}

// Sweep runs every mu of the input sequentially and closes the movie.
func (b *Brusselator) Sweep(ctx context.Context) (results []Result, err error) {
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for _, mu := range b.ip.Mu {
		var res Result
		if res, err = b.RunCase(ctx, mu); err != nil {
			err = fmt.Errorf("mu = %g: %w", mu, err)
			return
		}
		results = append(results, res)
	}
	return
}

// Close finishes the movie, if one was started.
func (b *Brusselator) Close() (err error) {
	if b.movie != nil {
		if err = b.movie.Close(); err == nil {
			log.WithFields(log.Fields{
				"file":   b.movie.Path,
				"frames": b.movie.Frames,
			}).Info("movie written")
		}
		b.movie = nil
	}
	return
}

// RunCase integrates one value of mu from the perturbed homogeneous state
// until FinalTime. The perturbation is drawn from a generator seeded with
// Seed, so every case of a sweep starts from the same noise.
func (b *Brusselator) RunCase(ctx context.Context, mu float64) (res Result, err error) {
	var (
		ip = b.ip
		p  Parameters
	)
	if p, err = NewParameters(ip.K, ip.Ka, ip.D, mu); err != nil {
		return
	}
	var (
		rng    = rand.New(rand.NewSource(ip.Seed))
		fields = NewFields(b.Grid)
		it     = NewIntegrator(fields, p, b.Solver, ip.MaxDt, ip.FinalTime)
		imgOpt = output.Options{
			Size:   ip.ImageSize,
			Spread: *ip.Spread,
			Linear: !ip.Nearest,
		}
		start = time.Now()
	)
	res.Mu, res.Kb = mu, p.Kb
	log.WithFields(log.Fields{
		"mu":     mu,
		"kb":     p.Kb,
		"solver": b.Solver.Name(),
	}).Info("starting case")

	it.AddEvent(
		Event{
			Name:     "init",
			Schedule: AtStep(0),
			Action: func(it *Integrator) error {
				fields.Initialize(p, *ip.NoiseAmplitude, rng)
				return nil
			},
		},
		Event{
			Name:     "movie",
			Schedule: EverySteps(1, ip.FrameInterval),
			Action: func(it *Integrator) (err error) {
				if *ip.Movie {
					if err = b.addFrame(fields.C1, imgOpt); err != nil {
						return
					}
					res.Frames++
				}
				_, err = fmt.Fprintf(b.Progress, "%d %g %g %d %d\n",
					it.Clock.I, it.Clock.T, it.Clock.Dt, it.MGD1.I, it.MGD2.I)
				return
			},
		},
		Event{
			Name:     "final",
			Schedule: AtTime(ip.FinalTime),
			Action: func(it *Integrator) (err error) {
				res.Snapshot = filepath.Join(b.OutputDir, output.SnapshotName(mu, "png"))
				imgOpt.Title = fmt.Sprintf("C1, mu = %g, t = %g", mu, it.Clock.T)
				if err = output.WritePNG(res.Snapshot, fields.C1, imgOpt); err != nil {
					return
				}
				if ip.DumpBinary {
					err = b.dump(mu, fields)
				}
				return
			},
		},
	)
	if err = it.Run(ctx); err != nil {
		return
	}
	res.Steps, res.Time = it.Clock.I, it.Clock.T
	res.C1Stats = fields.C1.Stats()
	res.Elapsed = time.Since(start)
	log.WithFields(log.Fields{
		"mu":       mu,
		"steps":    res.Steps,
		"t":        res.Time,
		"snapshot": res.Snapshot,
		"elapsed":  res.Elapsed.Round(time.Millisecond),
	}).Info("case finished")
	log.Debug(utils.GetMemUsage())
	return
}

func (b *Brusselator) addFrame(f *MG2D.Scalar, opt output.Options) (err error) {
	if b.movie == nil {
		path := filepath.Join(b.OutputDir, MovieFile)
		if b.movie, err = output.NewMovie(path, opt.Size, b.ip.MovieFPS); err != nil {
			return
		}
	}
	return b.movie.AddFrame(output.Render(f, opt))
}

// dump writes C1 and C2 as raw binary next to the snapshot.
func (b *Brusselator) dump(mu float64, f *Fields) (err error) {
	for _, s := range []*MG2D.Scalar{f.C1, f.C2} {
		var (
			file *os.File
			path = filepath.Join(b.OutputDir, fmt.Sprintf("%s-%s", s.Name, output.SnapshotName(mu, "bin")))
		)
		if file, err = os.Create(path); err != nil {
			return
		}
		if err = output.WriteBinary(file, s); err != nil {
			file.Close()
			return
		}
		if err = file.Close(); err != nil {
			return
		}
	}
	return
}
