// Package analysis orchestrates complete analysis runs: it freezes the model
// into a snapshot, drives assembly and the solvers, and stores validated
// outputs in a results repository keyed by model version.
package analysis

import (
	"fmt"
	"sync"

	"github.com/structkit/framekernel/assembly"
	"github.com/structkit/framekernel/model"
	"github.com/structkit/framekernel/results"
	"github.com/structkit/framekernel/solver"
)

// Analysis binds one model to one results repository. Runs against the same
// Analysis are serialized; independent Analysis/Model pairs share nothing.
type Analysis struct {
	mu    sync.Mutex
	model *model.Model
	cfg   solver.Config
	repo  *results.Repository
}

// New creates an analysis front end over a model with the given solver
// configuration.
func New(m *model.Model, cfg solver.Config) *Analysis {
	return &Analysis{model: m, cfg: cfg, repo: results.NewRepository()}
}

// Results exposes the repository for read-only consumers.
func (a *Analysis) Results() *results.Repository {
	return a.repo
}

// Analyze runs the static analysis of one load case: elastic assembly, load
// aggregation, the constrained linear solve, and internal-force recovery. The
// result is stored under the current model version and returned; a result
// already stored for the unchanged model is returned as is.
func (a *Analysis) Analyze(caseName string) (*results.CaseResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.model.Snapshot()
	if cached, ok := a.repo.Static(s.Version, caseName); ok {
		return cached, nil
	}
	res, _, err := a.runStatic(s, caseName)
	return res, err
}

// AnalyzeBuckling runs a linear buckling analysis against a reference load
// case: the static solve of the reference case fixes the axial-force state,
// the geometric stiffness is assembled from it, and the generalized
// eigenproblem yields the m smallest positive load factors with their mode
// shapes expanded to full DOF space.
func (a *Analysis) AnalyzeBuckling(refCase string, m int) (*results.BucklingResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.model.Snapshot()
	if cached, ok := a.repo.Buckling(s.Version, refCase); ok && len(cached.Modes) >= m {
		if len(cached.Modes) == m {
			return cached, nil
		}
		// stored run covered more modes; answer with the requested prefix
		return &results.BucklingResult{Case: cached.Case, Modes: cached.Modes[:m:m]}, nil
	}

	static, sys, err := a.runStatic(s, refCase)
	if err != nil {
		return nil, fmt.Errorf("reference case %q: %w", refCase, err)
	}

	kg, err := assembly.Geometric(s, solver.AxialState(static.Forces), a.cfg.Workers)
	if err != nil {
		return nil, err
	}
	kgSys := solver.NewSystem(kg, s.Constrained)

	modes, err := solver.Buckling(sys.Kff, kgSys.Kff, m, a.cfg)
	if err != nil {
		return nil, err
	}

	br := &results.BucklingResult{Case: refCase, Modes: make([]results.BucklingMode, len(modes))}
	for i, md := range modes {
		shape := make([]float64, s.NDOF)
		solver.ScatterInto(shape, sys.Free, md.Vector)
		br.Modes[i] = results.BucklingMode{Factor: md.Factor, Shape: shape}
	}
	a.repo.PutBuckling(s.Version, br)
	return br, nil
}

// runStatic executes the static pipeline on a frozen snapshot and stores the
// result. The partitioned system is returned for reuse by the buckling path.
func (a *Analysis) runStatic(s *model.Snapshot, caseName string) (*results.CaseResult, *solver.System, error) {
	k, err := assembly.Elastic(s, a.cfg.Workers)
	if err != nil {
		return nil, nil, err
	}
	loads, err := assembly.AggregateLoads(s, caseName)
	if err != nil {
		return nil, nil, err
	}

	sys := solver.NewSystem(k, s.Constrained)
	lin, err := solver.SolveLinear(sys, loads.F, s.Prescribed, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	forces, err := solver.RecoverForces(s, lin.U, loads)
	if err != nil {
		return nil, nil, err
	}

	res := &results.CaseResult{
		Case:          caseName,
		Displacements: lin.U,
		Reactions:     lin.Reactions,
		Forces:        forces,
	}
	a.repo.PutStatic(s.Version, res)
	return res, sys, nil
}
