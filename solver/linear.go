package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/sparse"
)

// kffSolver solves the reduced system K_ff·x = b repeatedly for a fixed
// factorization/hierarchy. Both the static solve and the buckling
// eigensolver drive it.
type kffSolver interface {
	Solve(b []float64) ([]float64, error)
}

// directSolver holds the dense Cholesky factorization of the reduced block.
type directSolver struct {
	chol *mat.Cholesky
	n    int
}

func newDirectSolver(kff *sparse.CSR) (*directSolver, error) {
	var chol mat.Cholesky
	if !chol.Factorize(kff.ToSymDense()) {
		return nil, &ConstraintError{Reason: "Cholesky factorization of the reduced stiffness matrix failed"}
	}
	return &directSolver{chol: &chol, n: kff.Rows}, nil
}

func (d *directSolver) Solve(b []float64) ([]float64, error) {
	x := make([]float64, d.n)
	xv := mat.NewVecDense(d.n, x)
	if err := d.chol.SolveVecTo(xv, mat.NewVecDense(len(b), b)); err != nil {
		return nil, &ConstraintError{Reason: fmt.Sprintf("triangular solve failed: %v", err)}
	}
	return x, nil
}

// iterativeSolver runs AMG-preconditioned conjugate gradients with a single
// automatic fallback to the direct solver on divergence.
type iterativeSolver struct {
	kff    *sparse.CSR
	prec   preconditioner
	cfg    Config
	direct *directSolver // lazily built on first fallback
}

func newIterativeSolver(kff *sparse.CSR, cfg Config) *iterativeSolver {
	s := &iterativeSolver{kff: kff, cfg: cfg}
	if amg, err := NewAMG(kff, cfg); err == nil {
		s.prec = amg
	} else {
		// no usable hierarchy; plain CG still converges for well-posed
		// systems, and the direct fallback covers the rest
		s.prec = identityPrec{}
	}
	return s
}

func (s *iterativeSolver) Solve(b []float64) ([]float64, error) {
	x, err := PCG(s.kff, b, s.prec, s.cfg.CGTol, s.cfg.CGMaxIter)
	if err == nil {
		return x, nil
	}
	var div *DivergenceError
	if !errors.As(err, &div) {
		return nil, err
	}
	// one-shot fallback to the direct path
	if s.direct == nil {
		d, derr := newDirectSolver(s.kff)
		if derr != nil {
			return nil, fmt.Errorf("%w (after iterative solver stalled: %v)", derr, div)
		}
		s.direct = d
	}
	return s.direct.Solve(b)
}

// newKffSolver picks the solving strategy for the reduced block per the
// configured DOF threshold.
func newKffSolver(kff *sparse.CSR, cfg Config) (kffSolver, error) {
	if kff.Rows <= cfg.DirectThreshold {
		return newDirectSolver(kff)
	}
	return newIterativeSolver(kff, cfg), nil
}

// LinearResult is the outcome of a static solve in full DOF space.
type LinearResult struct {
	// U holds all DOF displacements: solved values at free DOFs, prescribed
	// values at constrained DOFs.
	U []float64

	// Reactions holds support reactions at constrained DOFs, zero elsewhere.
	Reactions []float64
}

// SolveLinear solves the constrained static system
//
//	K_ff·d_f = F_f − K_fc·d_c
//
// for the free displacements given prescribed constrained displacements, and
// recovers reactions K_cf·d_f + K_cc·d_c − F_c. F and prescribed are
// full-length DOF vectors.
func SolveLinear(sys *System, f, prescribed []float64, cfg Config) (*LinearResult, error) {
	nf, nc := len(sys.Free), len(sys.Fixed)
	if nf == 0 {
		return nil, &ConstraintError{Reason: "no free DOFs to solve for"}
	}

	dc := Gather(prescribed, sys.Fixed)
	rhs := Gather(f, sys.Free)
	if nc > 0 {
		sys.Kfc.MulVecAdd(rhs, -1, dc)
	}

	ks, err := newKffSolver(sys.Kff, cfg)
	if err != nil {
		return nil, err
	}
	df, err := ks.Solve(rhs)
	if err != nil {
		return nil, err
	}
	if !allFinite(df) {
		return nil, &ConstraintError{Reason: "non-finite displacement in solution"}
	}

	res := &LinearResult{
		U:         make([]float64, len(f)),
		Reactions: make([]float64, len(f)),
	}
	ScatterInto(res.U, sys.Free, df)
	ScatterInto(res.U, sys.Fixed, dc)

	if nc > 0 {
		rc := make([]float64, nc)
		sys.Kcf.MulVec(rc, df)
		sys.Kcc.MulVecAdd(rc, 1, dc)
		fc := Gather(f, sys.Fixed)
		for i := range rc {
			rc[i] -= fc[i]
		}
		if !allFinite(rc) {
			return nil, &ConstraintError{Reason: "non-finite reaction in solution"}
		}
		ScatterInto(res.Reactions, sys.Fixed, rc)
	}
	return res, nil
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
