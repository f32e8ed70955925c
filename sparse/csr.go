package sparse

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix. Entries within each row are sorted
// by column and unique.
type CSR struct {
	Rows, Cols int
	RowPtr     []int
	ColInd     []int
	Val        []float64
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.Val) }

// At returns A[i,j], zero if the entry is not stored.
func (m *CSR) At(i, j int) float64 {
	for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
		if m.ColInd[k] == j {
			return m.Val[k]
		}
		if m.ColInd[k] > j {
			break
		}
	}
	return 0
}

// MulVec computes y = A·x. len(x) must be Cols, len(y) Rows.
func (m *CSR) MulVec(y, x []float64) {
	for i := 0; i < m.Rows; i++ {
		s := 0.0
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			s += m.Val[k] * x[m.ColInd[k]]
		}
		y[i] = s
	}
}

// MulVecAdd computes y += alpha·A·x.
func (m *CSR) MulVecAdd(y []float64, alpha float64, x []float64) {
	for i := 0; i < m.Rows; i++ {
		s := 0.0
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			s += m.Val[k] * x[m.ColInd[k]]
		}
		y[i] += alpha * s
	}
}

// Diagonal returns a copy of the main diagonal.
func (m *CSR) Diagonal() []float64 {
	n := m.Rows
	if m.Cols < n {
		n = m.Cols
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if m.ColInd[k] == i {
				d[i] = m.Val[k]
				break
			}
		}
	}
	return d
}

// Scale multiplies all stored entries by alpha in place.
func (m *CSR) Scale(alpha float64) {
	for k := range m.Val {
		m.Val[k] *= alpha
	}
}

// Copy returns a deep copy.
func (m *CSR) Copy() *CSR {
	return &CSR{
		Rows:   m.Rows,
		Cols:   m.Cols,
		RowPtr: append([]int(nil), m.RowPtr...),
		ColInd: append([]int(nil), m.ColInd...),
		Val:    append([]float64(nil), m.Val...),
	}
}

// ToSymDense expands a square symmetric matrix into gonum's symmetric dense
// form. Only the upper triangle is consulted, which holds for assembled
// stiffness matrices.
func (m *CSR) ToSymDense() *mat.SymDense {
	s := mat.NewSymDense(m.Rows, nil)
	for i := 0; i < m.Rows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if j := m.ColInd[k]; j >= i {
				s.SetSym(i, j, m.Val[k])
			}
		}
	}
	return s
}

// ToDense expands the matrix into a gonum dense matrix.
func (m *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for i := 0; i < m.Rows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			d.Set(i, m.ColInd[k], m.Val[k])
		}
	}
	return d
}

// MaxAbsAsymmetry returns max |A[i,j]-A[j,i]| over stored entries of a
// square matrix, a diagnostic for assembled matrices that are symmetric by
// construction. Every stored entry is checked against its transpose, so a
// value with no stored counterpart reports its full magnitude.
func (m *CSR) MaxAbsAsymmetry() float64 {
	worst := 0.0
	for i := 0; i < m.Rows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			j := m.ColInd[k]
			if d := math.Abs(m.Val[k] - m.At(j, i)); d > worst {
				worst = d
			}
		}
	}
	return worst
}
