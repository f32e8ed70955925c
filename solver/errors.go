// Package solver contains the numerical kernels of the engine: the
// partitioned linear static solve (direct sparse-to-dense Cholesky or
// AMG-preconditioned conjugate gradients with one-shot fallback), reaction
// and internal-force recovery, and the generalized buckling eigensolver.
package solver

import "fmt"

// ConstraintError reports a singular or non-positive-definite reduced
// stiffness system, typically caused by insufficient supports leaving a
// rigid-body mode free.
type ConstraintError struct {
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("solver: constrained system is not solvable: %s (check supports for rigid-body modes)", e.Reason)
}

// DivergenceError reports that the iterative linear solver exhausted its
// iteration budget. It triggers one automatic fallback to the direct solver
// before any error surfaces to the caller.
type DivergenceError struct {
	Iterations int
	Residual   float64 // relative residual at the last iteration
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("solver: conjugate gradients did not converge in %d iterations (relative residual %.3e)", e.Iterations, e.Residual)
}

// EigenError reports that the buckling eigensolver could not deliver the
// requested number of valid modes.
type EigenError struct {
	Requested int
	Got       int
	Reason    string
}

func (e *EigenError) Error() string {
	return fmt.Sprintf("solver: buckling eigensolve failed: %s (requested %d modes, usable %d)", e.Reason, e.Requested, e.Got)
}
