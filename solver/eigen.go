package solver

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/sparse"
)

// Mode is one buckling mode over the free-DOF partition: the critical load
// factor and its shape, normalized so the largest-magnitude component
// equals +1.
type Mode struct {
	Factor float64
	Vector []float64
}

// eigenSeed fixes the starting subspace so repeated solves of the same
// system are bit-identical.
const eigenSeed = 7

// reduced-operator eigenvalues below this fraction of the spectrum's largest
// magnitude are numerical noise and are treated as zero.
const muFloor = 1e-12

// Buckling solves the generalized eigenproblem K_e·x = −λ·K_g·x on the free
// partition for the m smallest positive critical load factors and their mode
// shapes, ascending.
//
// The iteration works on B := −K_g with repeated K_e-solves (shift-invert
// about the origin): a subspace X is advanced through K_e⁻¹·B, reduced by
// Rayleigh-Ritz projection, and the reduced symmetric problem is solved
// densely via Cholesky + EigenSym. B-orthogonalization of the Ritz basis
// deflates converged directions, so the m results are distinct. Failure to
// converge, or any non-finite value, is an EigenError; the spectrum of a
// symmetric pair is real by construction, so no complex arithmetic appears.
func Buckling(kff, kgff *sparse.CSR, m int, cfg Config) ([]Mode, error) {
	nf := kff.Rows
	if m < 1 {
		return nil, &EigenError{Requested: m, Reason: "at least one mode must be requested"}
	}
	if m > nf {
		return nil, &EigenError{Requested: m, Got: nf, Reason: "more modes requested than free DOFs"}
	}

	b := kgff.Copy()
	b.Scale(-1)

	ks, err := newKffSolver(kff, cfg)
	if err != nil {
		return nil, err
	}

	// oversized subspace accelerates convergence of the wanted modes
	q := 2 * m
	if q < m+8 {
		q = m + 8
	}
	if q > nf {
		q = nf
	}

	rnd := rand.New(rand.NewSource(eigenSeed))
	x := mat.NewDense(nf, q, nil)
	for i := 0; i < nf; i++ {
		for j := 0; j < q; j++ {
			x.Set(i, j, rnd.NormFloat64())
		}
	}

	prev := make([]float64, m)
	for i := range prev {
		prev[i] = math.Inf(1)
	}

	var lam []float64
	var modesAt []int // reduced-problem column per mode, ascending factor
	xb := mat.NewDense(nf, q, nil)
	converged := false

	for it := 0; it < cfg.EigenMaxIter && !converged; it++ {
		// advance the subspace: K_e·x̄_j = B·x_j
		ycol := make([]float64, nf)
		xcol := make([]float64, nf)
		for j := 0; j < q; j++ {
			mat.Col(xcol, j, x)
			b.MulVec(ycol, xcol)
			sol, err := ks.Solve(ycol)
			if err != nil {
				return nil, err
			}
			xb.SetCol(j, sol)
		}

		// Rayleigh-Ritz: Kr = x̄ᵀ·K·x̄, Br = x̄ᵀ·B·x̄
		kr, br := project(kff, b, xb)

		var chol mat.Cholesky
		if !chol.Factorize(kr) {
			return nil, &EigenError{Requested: m, Reason: "projected stiffness lost positive definiteness (degenerate subspace)"}
		}

		// reduce Kr·w = λ·Br·w to standard form C = L⁻¹·Br·L⁻ᵀ; the largest
		// eigenvalues μ of C are the smallest load factors λ = 1/μ
		var l mat.TriDense
		chol.LTo(&l)
		var lm, ct mat.Dense
		if err := lm.Solve(&l, br); err != nil {
			return nil, &EigenError{Requested: m, Reason: "reduced-problem triangular solve failed"}
		}
		if err := ct.Solve(&l, lm.T()); err != nil {
			return nil, &EigenError{Requested: m, Reason: "reduced-problem triangular solve failed"}
		}
		c := symmetrize(&ct)

		var es mat.EigenSym
		if !es.Factorize(c, true) {
			return nil, &EigenError{Requested: m, Reason: "reduced eigendecomposition failed"}
		}
		mu := es.Values(nil)
		var v mat.Dense
		es.VectorsTo(&v)

		// back-transform eigenvectors: w = L⁻ᵀ·v
		var w mat.Dense
		if err := w.Solve(l.T(), &v); err != nil {
			return nil, &EigenError{Requested: m, Reason: "reduced-problem triangular solve failed"}
		}

		// new B-orthogonal Ritz basis; column j pairs with mu[j] (ascending)
		x.Mul(xb, &w)
		normalizeColumns(x)

		// candidate factors: largest positive mu first
		muScale := 0.0
		for _, v := range mu {
			if a := math.Abs(v); a > muScale {
				muScale = a
			}
		}
		lam = lam[:0]
		modesAt = modesAt[:0]
		for j := q - 1; j >= 0 && len(lam) < m; j-- {
			if mu[j] > muFloor*muScale {
				lam = append(lam, 1.0/mu[j])
				modesAt = append(modesAt, j)
			}
		}

		if len(lam) == m {
			worst := 0.0
			for i := range lam {
				rel := math.Abs(lam[i]-prev[i]) / math.Max(math.Abs(lam[i]), 1)
				if rel > worst {
					worst = rel
				}
			}
			if worst <= cfg.EigenTol {
				converged = true
			}
			copy(prev, lam)
		}
	}

	if !converged {
		return nil, &EigenError{Requested: m, Got: len(lam), Reason: "iteration budget exhausted before all requested modes converged"}
	}

	modes := make([]Mode, m)
	col := make([]float64, nf)
	for i := 0; i < m; i++ {
		if !isFinite(lam[i]) || lam[i] <= 0 {
			return nil, &EigenError{Requested: m, Got: i, Reason: "non-finite or non-positive load factor"}
		}
		mat.Col(col, modesAt[i], x)
		vec := append([]float64(nil), col...)
		if !allFinite(vec) {
			return nil, &EigenError{Requested: m, Got: i, Reason: "non-finite mode shape component"}
		}
		normalizeMode(vec)
		modes[i] = Mode{Factor: lam[i], Vector: vec}
	}
	return modes, nil
}

// project forms the reduced operators Kr = Xᵀ·K·X and Br = Xᵀ·B·X.
func project(k, b *sparse.CSR, x *mat.Dense) (kr, br *mat.SymDense) {
	nf, q := x.Dims()
	kx := mat.NewDense(nf, q, nil)
	bx := mat.NewDense(nf, q, nil)
	xcol := make([]float64, nf)
	out := make([]float64, nf)
	for j := 0; j < q; j++ {
		mat.Col(xcol, j, x)
		k.MulVec(out, xcol)
		kx.SetCol(j, out)
		b.MulVec(out, xcol)
		bx.SetCol(j, out)
	}
	var krd, brd mat.Dense
	krd.Mul(x.T(), kx)
	brd.Mul(x.T(), bx)
	return symmetrize(&krd), symmetrize(&brd)
}

// symmetrize averages a nearly symmetric dense matrix into SymDense form.
func symmetrize(a *mat.Dense) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}

func normalizeColumns(x *mat.Dense) {
	n, q := x.Dims()
	col := make([]float64, n)
	for j := 0; j < q; j++ {
		mat.Col(col, j, x)
		nrm := 0.0
		for _, v := range col {
			nrm += v * v
		}
		nrm = math.Sqrt(nrm)
		if nrm == 0 {
			continue
		}
		for i := range col {
			col[i] /= nrm
		}
		x.SetCol(j, col)
	}
}

// normalizeMode scales the shape so its largest-magnitude component is +1,
// giving a deterministic sign.
func normalizeMode(v []float64) {
	big, at := 0.0, -1
	for i, x := range v {
		if a := math.Abs(x); a > big {
			big, at = a, i
		}
	}
	if at < 0 {
		return
	}
	scale := v[at]
	for i := range v {
		v[i] /= scale
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
