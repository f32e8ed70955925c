// Package sparse provides the coordinate-format accumulation and
// compressed-row storage used for the global stiffness matrices.
//
// Assembly proceeds in two phases: element contributions are scattered
// additively into a Triplet (duplicate entries allowed), then the Triplet is
// compressed into a CSR matrix where duplicates are summed. This mirrors the
// usual finite-element triplet workflow and keeps the scatter phase free of
// random-access searches.
package sparse

import "fmt"

// Triplet accumulates matrix entries in coordinate format. Duplicate (i,j)
// pairs are permitted and are summed during compression.
type Triplet struct {
	Rows, Cols int

	I []int
	J []int
	V []float64
}

// NewTriplet returns an empty triplet for a rows×cols matrix with storage
// preallocated for nnz entries.
func NewTriplet(rows, cols, nnz int) *Triplet {
	return &Triplet{
		Rows: rows,
		Cols: cols,
		I:    make([]int, 0, nnz),
		J:    make([]int, 0, nnz),
		V:    make([]float64, 0, nnz),
	}
}

// Put appends the entry A[i,j] += v.
func (t *Triplet) Put(i, j int, v float64) {
	t.I = append(t.I, i)
	t.J = append(t.J, j)
	t.V = append(t.V, v)
}

// Len returns the number of stored (possibly duplicate) entries.
func (t *Triplet) Len() int { return len(t.V) }

// Merge appends all entries of other into t. Both triplets must share the
// same shape. Used to combine per-worker partial accumulations after
// parallel assembly.
func (t *Triplet) Merge(other *Triplet) error {
	if other.Rows != t.Rows || other.Cols != t.Cols {
		return fmt.Errorf("sparse: cannot merge %dx%d triplet into %dx%d", other.Rows, other.Cols, t.Rows, t.Cols)
	}
	t.I = append(t.I, other.I...)
	t.J = append(t.J, other.J...)
	t.V = append(t.V, other.V...)
	return nil
}

// ToCSR compresses the triplet into CSR form, summing duplicates.
func (t *Triplet) ToCSR() *CSR {
	n := t.Rows
	nnz := len(t.V)

	// count entries per row, then prefix-sum into provisional row pointers
	rowCount := make([]int, n+1)
	for _, i := range t.I {
		rowCount[i+1]++
	}
	for i := 0; i < n; i++ {
		rowCount[i+1] += rowCount[i]
	}

	colInd := make([]int, nnz)
	val := make([]float64, nnz)
	next := make([]int, n)
	copy(next, rowCount[:n])
	for k := 0; k < nnz; k++ {
		p := next[t.I[k]]
		colInd[p] = t.J[k]
		val[p] = t.V[k]
		next[t.I[k]]++
	}

	// sort each row by column and collapse duplicates in place
	rowPtr := make([]int, n+1)
	w := 0
	for i := 0; i < n; i++ {
		lo, hi := rowCount[i], rowCount[i+1]
		sortRow(colInd[lo:hi], val[lo:hi])
		rowPtr[i] = w
		for k := lo; k < hi; k++ {
			if w > rowPtr[i] && colInd[w-1] == colInd[k] {
				val[w-1] += val[k]
				continue
			}
			colInd[w] = colInd[k]
			val[w] = val[k]
			w++
		}
	}
	rowPtr[n] = w

	return &CSR{
		Rows:   t.Rows,
		Cols:   t.Cols,
		RowPtr: rowPtr,
		ColInd: colInd[:w],
		Val:    val[:w],
	}
}

// sortRow sorts a row segment by column index, carrying values along.
// Rows hold a few dozen entries at most, so insertion sort is adequate.
func sortRow(cols []int, vals []float64) {
	for i := 1; i < len(cols); i++ {
		c, v := cols[i], vals[i]
		j := i - 1
		for j >= 0 && cols[j] > c {
			cols[j+1], vals[j+1] = cols[j], vals[j]
			j--
		}
		cols[j+1], vals[j+1] = c, v
	}
}
