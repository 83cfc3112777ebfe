package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/icza/mjpeg"
)

// Movie is a Motion JPEG AVI of square frames.
type Movie struct {
	Path   string
	Size   int
	Frames int
	aw     mjpeg.AviWriter
	buf    bytes.Buffer
}

func NewMovie(path string, size, fps int) (m *Movie, err error) {
	if size < 1 || fps < 1 {
		err = fmt.Errorf("movie needs positive size and frame rate, have %d, %d", size, fps)
		return
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	var aw mjpeg.AviWriter
	if aw, err = mjpeg.New(path, int32(size), int32(size), int32(fps)); err != nil {
		return
	}
	m = &Movie{Path: path, Size: size, aw: aw}
	return
}

func (m *Movie) AddFrame(img image.Image) (err error) {
	if b := img.Bounds(); b.Dx() != m.Size || b.Dy() != m.Size {
		return fmt.Errorf("frame is %dx%d, movie is %dx%d", b.Dx(), b.Dy(), m.Size, m.Size)
	}
	m.buf.Reset()
	if err = jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	if err = m.aw.AddFrame(m.buf.Bytes()); err != nil {
		return
	}
	m.Frames++
	return
}

func (m *Movie) Close() error {
	return m.aw.Close()
}
