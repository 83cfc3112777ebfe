package output

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/notargets/gord/MG2D"
)

// WriteBinary writes the leaf values of f as a little endian int64 length
// followed by the float64 values in row major order.
func WriteBinary(w io.Writer, f *MG2D.Scalar) (err error) {
	data := f.Data()
	if err = binary.Write(w, binary.LittleEndian, int64(len(data))); err != nil {
		return
	}
	return binary.Write(w, binary.LittleEndian, data)
}

// ReadBinary reads one field written by WriteBinary into f.
func ReadBinary(r io.Reader, f *MG2D.Scalar) (err error) {
	var n int64
	if err = binary.Read(r, binary.LittleEndian, &n); err != nil {
		return
	}
	data := f.Data()
	if n != int64(len(data)) {
		return fmt.Errorf("field length %d does not match grid with %d cells", n, len(data))
	}
	return binary.Read(r, binary.LittleEndian, data)
}
