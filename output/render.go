package output

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/notargets/gord/MG2D"
	"github.com/notargets/gord/utils"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

type Options struct {
	Size   int     // Pixels per side
	Spread float64 // Colour range is mean +/- Spread standard deviations, <= 0 uses min and max
	Linear bool    // Bilinear sampling of cell values, otherwise nearest cell
	Title  string  // Used by WritePNG
}

// SnapshotName is the file name of the final image of the case mu.
func SnapshotName(mu float64, ext string) string {
	return "mu-" + strconv.FormatFloat(mu, 'g', -1, 64) + "." + ext
}

// ColourRange is the value range mapped onto the palette.
func ColourRange(f *MG2D.Scalar, spread float64) (lo, hi float64) {
	st := f.Stats()
	if spread > 0 {
		lo, hi = st.Mean-spread*st.StdDev, st.Mean+spread*st.StdDev
	} else {
		lo, hi = st.Min, st.Max
	}
	if !(hi > lo) {
		lo, hi = lo-1, hi+1
	}
	return
}

// sampler evaluates a leaf field at any point of the box. Points outside
// the box take the value of the nearest boundary cell.
type sampler struct {
	g      *MG2D.Grid
	data   []float64
	linear bool
}

func newSampler(f *MG2D.Scalar, linear bool) sampler {
	return sampler{g: f.Grid(), data: f.Data(), linear: linear}
}

func (s sampler) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > s.g.N-1 {
		return s.g.N - 1
	}
	return i
}

func (s sampler) At(x, y float64) float64 {
	var (
		g  = s.g
		fx = (x-g.Origin[0])/g.Delta - 0.5 // Cell center coordinates
		fy = (y-g.Origin[1])/g.Delta - 0.5
	)
	if !s.linear {
		i := s.clampIndex(int(math.Floor(fx + 0.5)))
		j := s.clampIndex(int(math.Floor(fy + 0.5)))
		return s.data[i+j*g.N]
	}
	var (
		i0, j0 = int(math.Floor(fx)), int(math.Floor(fy))
		tx, ty = fx - float64(i0), fy - float64(j0)
		i1, j1 = s.clampIndex(i0 + 1), s.clampIndex(j0 + 1)
	)
	i0, j0 = s.clampIndex(i0), s.clampIndex(j0)
	var (
		f00, f10 = s.data[i0+j0*g.N], s.data[i1+j0*g.N]
		f01, f11 = s.data[i0+j1*g.N], s.data[i1+j1*g.N]
	)
	return (1-ty)*((1-tx)*f00+tx*f10) + ty*((1-tx)*f01+tx*f11)
}

func newColourMap(lo, hi float64) (cm palette.ColorMap) {
	cm = moreland.SmoothBlueRed()
	cm.SetMax(hi)
	cm.SetMin(lo)
	return
}

// Render rasterizes f on a Size x Size image covering the whole box, y up.
func Render(f *MG2D.Scalar, opt Options) (img *image.RGBA) {
	var (
		n      = opt.Size
		g      = f.Grid()
		s      = newSampler(f, opt.Linear)
		lo, hi = ColourRange(f, opt.Spread)
		cm     = newColourMap(lo, hi)
		h      = g.L / float64(n)
		pm     = utils.NewPartitionMap(utils.ParallelDegree(g.ProcLimit, n), n)
	)
	img = image.NewRGBA(image.Rect(0, 0, n, n))
	pm.Run(func(_, pyMin, pyMax int) {
		for py := pyMin; py < pyMax; py++ {
			y := g.Origin[1] + g.L - (float64(py)+0.5)*h
			for px := 0; px < n; px++ {
				x := g.Origin[0] + (float64(px)+0.5)*h
				v := math.Max(lo, math.Min(hi, s.At(x, y)))
				c, err := cm.At(v)
				if err != nil {
					c = color.Black
				}
				img.Set(px, py, c)
			}
		}
	})
	return
}

func checkOptions(opt Options) error {
	if opt.Size < 1 {
		return fmt.Errorf("image size must be at least one pixel, have %d", opt.Size)
	}
	return nil
}
