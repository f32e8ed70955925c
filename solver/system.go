package solver

import (
	"github.com/structkit/framekernel/sparse"
)

// System is the global stiffness matrix partitioned into free (f) and
// constrained (c) blocks, with the index maps between global DOFs and block
// positions.
type System struct {
	Free  []int // global DOF index of each free unknown
	Fixed []int // global DOF index of each constrained unknown

	Kff *sparse.CSR
	Kfc *sparse.CSR
	Kcf *sparse.CSR
	Kcc *sparse.CSR
}

// NewSystem splits K according to the constrained-DOF flags.
func NewSystem(k *sparse.CSR, constrained []bool) *System {
	n := k.Rows
	pos := make([]int, n) // position of each global DOF within its block
	sys := &System{}
	for i := 0; i < n; i++ {
		if constrained[i] {
			pos[i] = len(sys.Fixed)
			sys.Fixed = append(sys.Fixed, i)
		} else {
			pos[i] = len(sys.Free)
			sys.Free = append(sys.Free, i)
		}
	}

	nf, nc := len(sys.Free), len(sys.Fixed)
	tff := sparse.NewTriplet(nf, nf, k.NNZ())
	tfc := sparse.NewTriplet(nf, nc, 0)
	tcf := sparse.NewTriplet(nc, nf, 0)
	tcc := sparse.NewTriplet(nc, nc, 0)

	for i := 0; i < n; i++ {
		for p := k.RowPtr[i]; p < k.RowPtr[i+1]; p++ {
			j, v := k.ColInd[p], k.Val[p]
			switch {
			case !constrained[i] && !constrained[j]:
				tff.Put(pos[i], pos[j], v)
			case !constrained[i] && constrained[j]:
				tfc.Put(pos[i], pos[j], v)
			case constrained[i] && !constrained[j]:
				tcf.Put(pos[i], pos[j], v)
			default:
				tcc.Put(pos[i], pos[j], v)
			}
		}
	}

	sys.Kff = tff.ToCSR()
	sys.Kfc = tfc.ToCSR()
	sys.Kcf = tcf.ToCSR()
	sys.Kcc = tcc.ToCSR()
	return sys
}

// Gather extracts the block-ordered entries of a full-length vector.
func Gather(full []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, g := range idx {
		out[i] = full[g]
	}
	return out
}

// ScatterInto writes block-ordered entries back into a full-length vector.
func ScatterInto(full []float64, idx []int, vals []float64) {
	for i, g := range idx {
		full[g] = vals[i]
	}
}

