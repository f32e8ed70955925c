package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structkit/framekernel/assembly"
	"github.com/structkit/framekernel/model"
)

const (
	testE = 200e9
	testG = 80e9
	testA = 5e-3
	testI = 2e-5
	testJ = 4e-5
)

// bendingSection has zero shear factors, so deflections follow the
// Euler-Bernoulli closed forms exactly.
func bendingSection() model.Section {
	return model.Custom{A: testA, IyVal: testI, IzVal: testI, JVal: testJ}
}

// beamAlongX builds n equal elements over length l on the global x-axis.
func beamAlongX(t *testing.T, l float64, n int) (*model.Model, []model.NodeID) {
	t.Helper()
	m := model.New()
	mat := m.AddMaterial(model.Material{E: testE, G: testG})
	sec := m.AddSection(bendingSection())
	nodes := make([]model.NodeID, n+1)
	for i := 0; i <= n; i++ {
		nodes[i] = m.AddNode(l*float64(i)/float64(n), 0, 0)
	}
	for i := 0; i < n; i++ {
		_, err := m.AddElement(nodes[i], nodes[i+1], sec, mat)
		require.NoError(t, err)
	}
	return m, nodes
}

func solveCase(t *testing.T, m *model.Model, caseName string, cfg Config) (*model.Snapshot, *LinearResult, []ElementForces) {
	t.Helper()
	s := m.Snapshot()
	k, err := assembly.Elastic(s, cfg.Workers)
	require.NoError(t, err)
	loads, err := assembly.AggregateLoads(s, caseName)
	require.NoError(t, err)

	sys := NewSystem(k, s.Constrained)
	res, err := SolveLinear(sys, loads.F, s.Prescribed, cfg)
	require.NoError(t, err)
	forces, err := RecoverForces(s, res.U, loads)
	require.NoError(t, err)
	return s, res, forces
}

func TestCantileverAxial(t *testing.T) {
	const l, p = 3.0, 40e3
	m, nodes := beamAlongX(t, l, 4)
	require.NoError(t, m.AddSupport(nodes[0], model.Fixed))
	_, err := m.AddLoad("pull", nodes[4], [3]float64{p, 0, 0}, [3]float64{})
	require.NoError(t, err)

	s, res, forces := solveCase(t, m, "pull", DefaultConfig())

	wantTip := p * l / (testE * testA)
	assert.InEpsilon(t, wantTip, res.U[s.DOF(nodes[4], model.UX)], 1e-9)

	// reaction balances the applied load
	assert.InEpsilon(t, -p, res.Reactions[s.DOF(nodes[0], model.UX)], 1e-9)

	// every element carries the full tension
	for i := range forces {
		assert.InEpsilon(t, p, forces[i].Axial(), 1e-9)
	}
}

func TestSimplySupportedMidspan(t *testing.T) {
	const l, p = 4.0, 25e3
	m, nodes := beamAlongX(t, l, 8)
	require.NoError(t, m.AddSupport(nodes[0], model.Pinned))
	require.NoError(t, m.AddConstraint(nodes[0], model.RX, 0)) // anchor torsion
	require.NoError(t, m.AddConstraint(nodes[8], model.UY, 0))
	require.NoError(t, m.AddConstraint(nodes[8], model.UZ, 0))
	_, err := m.AddLoad("mid", nodes[4], [3]float64{0, 0, -p}, [3]float64{})
	require.NoError(t, err)

	s, res, _ := solveCase(t, m, "mid", DefaultConfig())

	want := -p * l * l * l / (48 * testE * testI)
	assert.InEpsilon(t, want, res.U[s.DOF(nodes[4], model.UZ)], 1e-9)

	// symmetric supports carry half the load each
	assert.InEpsilon(t, p/2, res.Reactions[s.DOF(nodes[0], model.UZ)], 1e-9)
	assert.InEpsilon(t, p/2, res.Reactions[s.DOF(nodes[8], model.UZ)], 1e-9)
}

func TestUniformLoadDeflection(t *testing.T) {
	// simply supported, uniform line load: midspan 5qL^4/384EI
	const l, q = 4.0, 12e3
	m, nodes := beamAlongX(t, l, 8)
	require.NoError(t, m.AddSupport(nodes[0], model.Pinned))
	require.NoError(t, m.AddConstraint(nodes[0], model.RX, 0))
	require.NoError(t, m.AddConstraint(nodes[8], model.UY, 0))
	require.NoError(t, m.AddConstraint(nodes[8], model.UZ, 0))
	for e := 0; e < 8; e++ {
		_, err := m.AddDistributedLoad("uniform", model.ElementID(e), [3]float64{0, 0, -q})
		require.NoError(t, err)
	}

	s, res, _ := solveCase(t, m, "uniform", DefaultConfig())

	want := -5 * q * l * l * l * l / (384 * testE * testI)
	assert.InEpsilon(t, want, res.U[s.DOF(nodes[4], model.UZ)], 1e-9)

	// equilibrium: reactions balance the total load
	sum := 0.0
	for _, nd := range s.Nodes {
		sum += res.Reactions[s.DOF(nd.ID, model.UZ)]
	}
	assert.InDelta(t, q*l, sum, 1e-6*q*l)
}

func TestUnsupportedModelFails(t *testing.T) {
	m, nodes := beamAlongX(t, 2.0, 2)
	_, err := m.AddLoad("lc", nodes[2], [3]float64{0, 0, -1e3}, [3]float64{})
	require.NoError(t, err)

	s := m.Snapshot()
	k, err := assembly.Elastic(s, 1)
	require.NoError(t, err)
	loads, err := assembly.AggregateLoads(s, "lc")
	require.NoError(t, err)

	sys := NewSystem(k, s.Constrained)
	_, err = SolveLinear(sys, loads.F, s.Prescribed, DefaultConfig())
	require.Error(t, err)
	var ce *ConstraintError
	assert.True(t, errors.As(err, &ce))
}

func TestFullyConstrainedFails(t *testing.T) {
	m, nodes := beamAlongX(t, 1.0, 1)
	require.NoError(t, m.AddSupport(nodes[0], model.Fixed))
	require.NoError(t, m.AddSupport(nodes[1], model.Fixed))

	s := m.Snapshot()
	k, err := assembly.Elastic(s, 1)
	require.NoError(t, err)
	sys := NewSystem(k, s.Constrained)
	_, err = SolveLinear(sys, make([]float64, s.NDOF), s.Prescribed, DefaultConfig())
	var ce *ConstraintError
	assert.True(t, errors.As(err, &ce))
}

func TestPrescribedSettlement(t *testing.T) {
	// axial bar fixed at both ends, one end pushed inward by delta
	const l, delta = 2.0, 1e-3
	m, nodes := beamAlongX(t, l, 4)
	require.NoError(t, m.AddSupport(nodes[0], model.Fixed))
	require.NoError(t, m.AddSupport(nodes[4], model.Fixed))
	require.NoError(t, m.AddConstraint(nodes[4], model.UX, -delta))
	// register the case; it carries no external load
	_, err := m.AddLoad("empty", nodes[2], [3]float64{}, [3]float64{})
	require.NoError(t, err)

	s, res, forces := solveCase(t, m, "empty", DefaultConfig())

	assert.InEpsilon(t, -delta, res.U[s.DOF(nodes[4], model.UX)], 1e-12)

	// bar is compressed by EA*delta/L
	wantN := -testE * testA * delta / l
	for i := range forces {
		assert.InEpsilon(t, wantN, forces[i].Axial(), 1e-9)
	}
	assert.InEpsilon(t, -wantN, res.Reactions[s.DOF(nodes[0], model.UX)], 1e-9)
}

func TestIterativeFallsBackToDirect(t *testing.T) {
	// a starved CG budget must not fail the solve: the one automatic
	// fallback to the direct factorization rescues it
	const l, p = 3.0, 40e3
	m, nodes := beamAlongX(t, l, 4)
	require.NoError(t, m.AddSupport(nodes[0], model.Fixed))
	_, err := m.AddLoad("pull", nodes[4], [3]float64{p, 0, 0}, [3]float64{})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.DirectThreshold = 0 // force the iterative path
	cfg.CGMaxIter = 1       // guarantee a DivergenceError inside it

	s, res, _ := solveCase(t, m, "pull", cfg)

	wantTip := p * l / (testE * testA)
	assert.InEpsilon(t, wantTip, res.U[s.DOF(nodes[4], model.UX)], 1e-9)
}

func TestIterativeMatchesDirect(t *testing.T) {
	const l, p = 10.0, 15e3
	m, nodes := beamAlongX(t, l, 40)
	require.NoError(t, m.AddSupport(nodes[0], model.Fixed))
	_, err := m.AddLoad("tip", nodes[40], [3]float64{0, 0, -p}, [3]float64{})
	require.NoError(t, err)

	direct := DefaultConfig()
	s, resD, _ := solveCase(t, m, "tip", direct)

	iter := DefaultConfig()
	iter.DirectThreshold = 0 // force the CG path
	_, resI, _ := solveCase(t, m, "tip", iter)

	tip := s.DOF(nodes[40], model.UZ)
	assert.InEpsilon(t, resD.U[tip], resI.U[tip], 1e-6)
}
