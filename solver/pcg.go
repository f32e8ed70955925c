package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/structkit/framekernel/sparse"
)

// preconditioner applies z = M⁻¹·r for a symmetric positive-definite M.
type preconditioner interface {
	Apply(z, r []float64)
}

// identityPrec is the unpreconditioned fallback.
type identityPrec struct{}

func (identityPrec) Apply(z, r []float64) { copy(z, r) }

// PCG solves A·x = b for a symmetric positive-definite A by preconditioned
// conjugate gradients. It returns a DivergenceError when the iteration
// budget runs out and a ConstraintError when A reveals itself as not
// positive-definite (a rigid-body mode reaching the free partition).
func PCG(a *sparse.CSR, b []float64, m preconditioner, tol float64, maxIter int) ([]float64, error) {
	n := a.Rows
	x := make([]float64, n)
	r := append([]float64(nil), b...)
	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	normB := floats.Norm(b, 2)
	if normB == 0 {
		return x, nil
	}

	m.Apply(z, r)
	copy(p, z)
	rz := floats.Dot(r, z)

	rel := 1.0
	for it := 1; it <= maxIter; it++ {
		a.MulVec(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 || math.IsNaN(pap) {
			return nil, &ConstraintError{Reason: "search direction with non-positive curvature in conjugate gradients"}
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rel = floats.Norm(r, 2) / normB
		if math.IsNaN(rel) || math.IsInf(rel, 0) {
			return nil, &ConstraintError{Reason: "non-finite residual in conjugate gradients"}
		}
		if rel <= tol {
			return x, nil
		}

		m.Apply(z, r)
		rzNext := floats.Dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	return nil, &DivergenceError{Iterations: maxIter, Residual: rel}
}
