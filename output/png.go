package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/gord/MG2D"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 96

// field presents a Size x Size resampling of a Scalar as a plotter.GridXYZ.
type field struct {
	s    sampler
	n    int
	h    float64
	x0   [2]float64
	data []float64
}

func newField(f *MG2D.Scalar, opt Options) (fd *field) {
	g := f.Grid()
	fd = &field{
		s:    newSampler(f, opt.Linear),
		n:    opt.Size,
		h:    g.L / float64(opt.Size),
		x0:   g.Origin,
		data: make([]float64, opt.Size*opt.Size),
	}
	for r := 0; r < fd.n; r++ {
		for c := 0; c < fd.n; c++ {
			fd.data[c+r*fd.n] = fd.s.At(fd.X(c), fd.Y(r))
		}
	}
	return
}

func (fd *field) Dims() (c, r int)   { return fd.n, fd.n }
func (fd *field) Z(c, r int) float64 { return fd.data[c+r*fd.n] }
func (fd *field) X(c int) float64    { return fd.x0[0] + (float64(c)+0.5)*fd.h }
func (fd *field) Y(r int) float64    { return fd.x0[1] + (float64(r)+0.5)*fd.h }

// WritePNG draws f as a heat map with the same colour range as Render.
func WritePNG(path string, f *MG2D.Scalar, opt Options) (err error) {
	if err = checkOptions(opt); err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	var (
		lo, hi = ColourRange(f, opt.Spread)
		hm     = plotter.NewHeatMap(newField(f, opt), newColourMap(lo, hi).Palette(255))
		p      = plot.New()
		side   = vg.Length(float64(opt.Size)/dpi) * vg.Inch
	)
	hm.Min, hm.Max = lo, hi
	hm.Underflow, hm.Overflow = hm.Palette.Colors()[0], hm.Palette.Colors()[254]
	p.Title.Text = opt.Title
	p.HideAxes()
	p.Add(hm)

	c := vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	var file *os.File
	if file, err = os.Create(path); err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer file.Close()
	bw := bufio.NewWriter(file)
	if _, err = (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return file.Close()
}
