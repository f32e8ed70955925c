// Package results stores the immutable outputs of static and buckling
// analyses keyed by load case. Stored results are tied to the model version
// they were computed from; any model mutation invalidates them.
package results

import (
	"sync"

	"github.com/structkit/framekernel/solver"
)

// CaseResult holds the outputs of one static analysis: full-length DOF
// vectors for displacements and reactions, plus per-element internal forces
// ordered like the snapshot's element list.
type CaseResult struct {
	Case          string
	Displacements []float64
	Reactions     []float64
	Forces        []solver.ElementForces
}

// BucklingMode is one critical point: the load factor scaling the reference
// case, and the mode shape over the full DOF space with zeros at constrained
// DOFs.
type BucklingMode struct {
	Factor float64
	Shape  []float64
}

// BucklingResult holds the ascending-ordered buckling modes computed against
// one reference load case.
type BucklingResult struct {
	Case  string
	Modes []BucklingMode
}

// Repository keeps analysis outputs for a single model. Every write and read
// carries the model version it refers to; a write with a newer version drops
// everything stored under older ones, and a read with a mismatched version
// finds nothing. Results handed out are never patched in place.
type Repository struct {
	mu       sync.RWMutex
	version  uint64
	static   map[string]*CaseResult
	buckling map[string]*BucklingResult
}

func NewRepository() *Repository {
	return &Repository{
		static:   make(map[string]*CaseResult),
		buckling: make(map[string]*BucklingResult),
	}
}

// PutStatic stores a static result computed at the given model version.
func (r *Repository) PutStatic(version uint64, res *CaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncVersion(version)
	r.static[res.Case] = res
}

// PutBuckling stores a buckling result computed at the given model version.
func (r *Repository) PutBuckling(version uint64, res *BucklingResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncVersion(version)
	r.buckling[res.Case] = res
}

// Static returns the stored static result for a case if one exists at the
// given model version.
func (r *Repository) Static(version uint64, caseName string) (*CaseResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version != r.version {
		return nil, false
	}
	res, ok := r.static[caseName]
	return res, ok
}

// Buckling returns the stored buckling result for a reference case if one
// exists at the given model version.
func (r *Repository) Buckling(version uint64, caseName string) (*BucklingResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version != r.version {
		return nil, false
	}
	res, ok := r.buckling[caseName]
	return res, ok
}

// Cases lists the load cases with a stored static result at the given model
// version.
func (r *Repository) Cases(version uint64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version != r.version {
		return nil
	}
	out := make([]string, 0, len(r.static))
	for name := range r.static {
		out = append(out, name)
	}
	return out
}

// Invalidate drops all stored results.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop()
}

// syncVersion is called with the write lock held.
func (r *Repository) syncVersion(version uint64) {
	if version != r.version {
		r.drop()
		r.version = version
	}
}

func (r *Repository) drop() {
	r.static = make(map[string]*CaseResult)
	r.buckling = make(map[string]*BucklingResult)
}
