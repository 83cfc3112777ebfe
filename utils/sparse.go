package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
)

// DOK is a dictionary of keys sparse matrix used for assembly. Once
// assembled it is converted to CSR for products.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int, name string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

// Add accumulates val into entry (i, j).
func (m DOK) Add(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

func (m *DOK) SetReadOnly() { m.readOnly = true }

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

// NNZ is the number of stored entries.
func (m CSR) NNZ() int { return len(m.RawMatrix().Data) }

// MulVec overwrites dst with m * x, using pm to split the rows between go
// routines when pm is not nil.
func (m CSR) MulVec(dst, x []float64, pm *PartitionMap) {
	var (
		raw = m.RawMatrix()
		nr  = raw.I
	)
	if len(dst) != nr || len(x) != raw.J {
		panic(fmt.Errorf("dimension mismatch in %s: [%d x %d] * [%d] -> [%d]",
			m.name, nr, raw.J, len(x), len(dst)))
	}
	rows := func(_, iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			var sum float64
			for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
				sum += raw.Data[k] * x[raw.Ind[k]]
			}
			dst[i] = sum
		}
	}
	if pm == nil {
		rows(0, 0, nr)
		return
	}
	pm.Run(rows)
}
