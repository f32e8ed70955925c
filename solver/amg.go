package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/sparse"
)

// AMG is an aggregation-based algebraic multigrid V-cycle used as the
// conjugate-gradient preconditioner on large systems. Coarsening is
// unsmoothed aggregation over the strength-of-connection graph, smoothing is
// symmetric Gauss-Seidel, and the coarsest level is solved exactly by dense
// Cholesky. With symmetric smoothing and an exact coarse solve the V-cycle
// is a symmetric positive operator, as PCG requires.
type AMG struct {
	levels []*amgLevel
	coarse coarseSolver
	nc     int // coarsest dimension
	sweeps int
}

// coarseSolver solves the coarsest-level system exactly. mat.Cholesky
// satisfies it.
type coarseSolver interface {
	SolveVecTo(dst *mat.VecDense, b mat.Vector) error
}

type amgLevel struct {
	a    *sparse.CSR
	diag []float64
	agg  []int // fine index -> aggregate (coarse index)
	ncrs int   // number of aggregates
}

const amgMaxLevels = 20

// NewAMG builds the multigrid hierarchy for a symmetric positive-definite
// matrix. An error means no usable hierarchy exists (typically a singular
// coarse matrix); callers then fall back to the direct solver path.
func NewAMG(a *sparse.CSR, cfg Config) (*AMG, error) {
	m := &AMG{sweeps: cfg.AMGSweeps}
	if m.sweeps < 1 {
		m.sweeps = 1
	}

	cur := a
	for len(m.levels) < amgMaxLevels && cur.Rows > cfg.AMGCoarseSize {
		agg, ncrs := aggregate(cur, cfg.AMGTheta)
		if ncrs >= cur.Rows {
			break // coarsening stalled
		}
		m.levels = append(m.levels, &amgLevel{
			a:    cur,
			diag: cur.Diagonal(),
			agg:  agg,
			ncrs: ncrs,
		})
		cur = galerkin(cur, agg, ncrs)
	}

	var chol mat.Cholesky
	if !chol.Factorize(cur.ToSymDense()) {
		return nil, fmt.Errorf("amg: coarsest level (%d unknowns) is not positive definite", cur.Rows)
	}
	m.coarse = &chol
	m.nc = cur.Rows

	// a hierarchy that never coarsened still works: Apply degenerates to the
	// exact coarse solve
	return m, nil
}

// Apply runs one V-cycle: z = M⁻¹·r.
func (m *AMG) Apply(z, r []float64) {
	out := m.cycle(0, r)
	copy(z, out)
}

func (m *AMG) cycle(level int, r []float64) []float64 {
	if level == len(m.levels) {
		x := make([]float64, m.nc)
		xv := mat.NewVecDense(m.nc, x)
		if err := m.coarse.SolveVecTo(xv, mat.NewVecDense(len(r), r)); err != nil {
			// a zero correction would silently weaken the cycle; acting as
			// the identity on this level keeps the preconditioner usable
			copy(x, r)
		}
		return x
	}

	lv := m.levels[level]
	n := lv.a.Rows
	x := make([]float64, n)

	for s := 0; s < m.sweeps; s++ {
		symGaussSeidel(lv.a, lv.diag, x, r)
	}

	// restrict residual: rc = Pᵀ·(r - A·x), piecewise-constant P
	res := make([]float64, n)
	lv.a.MulVec(res, x)
	for i := range res {
		res[i] = r[i] - res[i]
	}
	rc := make([]float64, lv.ncrs)
	for i, ag := range lv.agg {
		rc[ag] += res[i]
	}

	ec := m.cycle(level+1, rc)

	// prolong and correct
	for i, ag := range lv.agg {
		x[i] += ec[ag]
	}

	for s := 0; s < m.sweeps; s++ {
		symGaussSeidel(lv.a, lv.diag, x, r)
	}
	return x
}

// symGaussSeidel performs one forward plus one backward Gauss-Seidel sweep
// on A·x = r in place.
func symGaussSeidel(a *sparse.CSR, diag, x, r []float64) {
	n := a.Rows
	for i := 0; i < n; i++ {
		gsRow(a, diag, x, r, i)
	}
	for i := n - 1; i >= 0; i-- {
		gsRow(a, diag, x, r, i)
	}
}

func gsRow(a *sparse.CSR, diag, x, r []float64, i int) {
	d := diag[i]
	if d == 0 {
		return
	}
	s := r[i]
	for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
		if j := a.ColInd[k]; j != i {
			s -= a.Val[k] * x[j]
		}
	}
	x[i] = s / d
}

// aggregate greedily groups unknowns along strong connections:
// |a(i,j)| >= theta·sqrt(a(i,i)·a(j,j)). A first pass seeds aggregates from
// nodes whose strong neighborhood is untouched; a second pass attaches
// leftovers to a neighboring aggregate or makes them singletons.
func aggregate(a *sparse.CSR, theta float64) (agg []int, ncrs int) {
	n := a.Rows
	diag := a.Diagonal()
	agg = make([]int, n)
	for i := range agg {
		agg[i] = -1
	}

	strong := func(i, j int, v float64) bool {
		dd := diag[i] * diag[j]
		if dd <= 0 {
			return false
		}
		return math.Abs(v) >= theta*math.Sqrt(dd)
	}

	for i := 0; i < n; i++ {
		if agg[i] >= 0 {
			continue
		}
		clean := true
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			if j != i && strong(i, j, a.Val[k]) && agg[j] >= 0 {
				clean = false
				break
			}
		}
		if !clean {
			continue
		}
		agg[i] = ncrs
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			if j != i && strong(i, j, a.Val[k]) {
				agg[j] = ncrs
			}
		}
		ncrs++
	}

	for i := 0; i < n; i++ {
		if agg[i] >= 0 {
			continue
		}
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			if j != i && strong(i, j, a.Val[k]) && agg[j] >= 0 {
				agg[i] = agg[j]
				break
			}
		}
		if agg[i] < 0 {
			agg[i] = ncrs
			ncrs++
		}
	}
	return agg, ncrs
}

// galerkin forms the coarse operator Ac = Pᵀ·A·P for the piecewise-constant
// prolongation defined by the aggregation.
func galerkin(a *sparse.CSR, agg []int, ncrs int) *sparse.CSR {
	t := sparse.NewTriplet(ncrs, ncrs, a.NNZ())
	for i := 0; i < a.Rows; i++ {
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			t.Put(agg[i], agg[a.ColInd[k]], a.Val[k])
		}
	}
	return t.ToCSR()
}
