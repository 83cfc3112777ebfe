package output

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/gord/MG2D"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampField(t *testing.T) (g *MG2D.Grid, f *MG2D.Scalar) {
	var err error
	g, err = MG2D.NewGrid(16, 8, [2]float64{}, 0)
	require.NoError(t, err)
	f = MG2D.NewScalar(g, "C1")
	g.ForEach(func(c MG2D.Cell) {
		x, _ := g.Center(c)
		f.Set(c, x)
	})
	return
}

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "mu-0.04.png", SnapshotName(0.04, "png"))
	assert.Equal(t, "mu-0.1.png", SnapshotName(0.1, "png"))
	assert.Equal(t, "mu-0.98.bin", SnapshotName(0.98, "bin"))
	assert.Equal(t, "mu-1.png", SnapshotName(1, "png"))
}

func TestSampler(t *testing.T) {
	g, f := rampField(t)
	lin := newSampler(f, true)
	// A linear ramp is reproduced between the first and last cell centers
	for _, x := range []float64{0.25, 1, 3.3, 7.75} {
		assert.InDelta(t, x, lin.At(x, 4), 1e-12)
	}
	// and held constant beyond them
	assert.InDelta(t, 0.25, lin.At(0.01, 4), 1e-12)
	assert.InDelta(t, 7.75, lin.At(7.99, 4), 1e-12)
	near := newSampler(f, false)
	assert.Equal(t, 3.25, near.At(3.3, 1))
	assert.Equal(t, f.At(g.Cell(15, 15)), near.At(8, 8))
}

func TestColourRange(t *testing.T) {
	_, f := rampField(t)
	st := f.Stats()
	lo, hi := ColourRange(f, 2)
	assert.InDelta(t, st.Mean-2*st.StdDev, lo, 1e-12)
	assert.InDelta(t, st.Mean+2*st.StdDev, hi, 1e-12)
	lo, hi = ColourRange(f, 0)
	assert.Equal(t, st.Min, lo)
	assert.Equal(t, st.Max, hi)
	f.Fill(3)
	lo, hi = ColourRange(f, 2)
	assert.True(t, hi > lo)
}

func TestRender(t *testing.T) {
	_, f := rampField(t)
	img := Render(f, Options{Size: 20, Spread: 0, Linear: true})
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
	// Blue on the left, red on the right
	r0, _, b0, _ := img.At(0, 10).RGBA()
	r1, _, b1, _ := img.At(19, 10).RGBA()
	assert.True(t, b0 > r0)
	assert.True(t, r1 > b1)
	// Constant along y
	assert.Equal(t, img.At(7, 0), img.At(7, 19))
}

func TestWritePNG(t *testing.T) {
	_, f := rampField(t)
	path := filepath.Join(t.TempDir(), "out", SnapshotName(0.04, "png"))
	require.NoError(t, WritePNG(path, f, Options{Size: 200, Spread: 2, Linear: true, Title: "C1"}))
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.InDelta(t, 200, img.Bounds().Dx(), 1)
	assert.Error(t, WritePNG(path, f, Options{Size: 0}))
}

func TestMovie(t *testing.T) {
	_, f := rampField(t)
	path := filepath.Join(t.TempDir(), "f.avi")
	m, err := NewMovie(path, 32, 25)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.AddFrame(Render(f, Options{Size: 32, Spread: 2, Linear: true})))
	}
	assert.Error(t, m.AddFrame(Render(f, Options{Size: 16})))
	assert.Equal(t, 3, m.Frames)
	require.NoError(t, m.Close())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	_, err = NewMovie(path, 0, 25)
	assert.Error(t, err)
}

func TestBinary(t *testing.T) {
	g, f := rampField(t)
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, f))
	assert.Equal(t, 8+8*g.Cells(), buf.Len())
	in := MG2D.NewScalar(g, "in")
	require.NoError(t, ReadBinary(bytes.NewReader(buf.Bytes()), in))
	assert.Equal(t, f.Data(), in.Data())

	small, err := MG2D.NewGrid(4, 8, [2]float64{}, 0)
	require.NoError(t, err)
	assert.Error(t, ReadBinary(bytes.NewReader(buf.Bytes()), MG2D.NewScalar(small, "s")))
}
