package solver

// Config tunes the numerical kernels. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// Workers bounds the assembly worker count; <= 0 selects GOMAXPROCS.
	Workers int

	// DirectThreshold is the free-DOF count at or below which the direct
	// factorization is used outright. Above it the iterative path is tried
	// first with one fallback to direct.
	DirectThreshold int

	// Conjugate-gradient controls.
	CGTol     float64 // relative residual target
	CGMaxIter int

	// Algebraic-multigrid preconditioner controls.
	AMGCoarseSize int     // stop coarsening at or below this many unknowns
	AMGTheta      float64 // strength-of-connection threshold
	AMGSweeps     int     // Gauss-Seidel pre/post sweeps per level

	// Buckling eigensolver controls.
	EigenTol     float64 // relative eigenvalue change per iteration
	EigenMaxIter int
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		DirectThreshold: 3000,
		CGTol:           1e-10,
		CGMaxIter:       2000,
		AMGCoarseSize:   200,
		AMGTheta:        0.08,
		AMGSweeps:       2,
		EigenTol:        1e-9,
		EigenMaxIter:    300,
	}
}
