package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structkit/framekernel/examples"
	"github.com/structkit/framekernel/model"
	"github.com/structkit/framekernel/solver"
)

func portalFrame(t *testing.T) *model.Model {
	t.Helper()
	m, err := examples.PortalFrame(6.0, 4.0, 50e3, 10e3)
	require.NoError(t, err)
	return m
}

func TestAnalyzePortalFrame(t *testing.T) {
	m := portalFrame(t)
	an := New(m, solver.DefaultConfig())

	res, err := an.Analyze("service")
	require.NoError(t, err)

	s := m.Snapshot()
	// midspan sags under the vertical loads
	mid := s.DOF(4, model.UZ)
	assert.Negative(t, res.Displacements[mid])

	// vertical reactions balance the point load plus the line loads
	total := 50e3 + 10e3*6.0
	sum := 0.0
	for _, nd := range s.Nodes {
		sum += res.Reactions[s.DOF(nd.ID, model.UZ)]
	}
	assert.InEpsilon(t, total, sum, 1e-8)

	// both columns end up in compression
	for i := 0; i < 2; i++ {
		assert.Negative(t, res.Forces[i].Axial())
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	m := portalFrame(t)

	a := New(m, solver.DefaultConfig())
	b := New(m, solver.DefaultConfig())
	resA, err := a.Analyze("service")
	require.NoError(t, err)
	resB, err := b.Analyze("service")
	require.NoError(t, err)

	assert.Equal(t, resA.Displacements, resB.Displacements)
	assert.Equal(t, resA.Reactions, resB.Reactions)
}

func TestAnalyzeCachesUntilMutation(t *testing.T) {
	m := portalFrame(t)
	an := New(m, solver.DefaultConfig())

	res1, err := an.Analyze("service")
	require.NoError(t, err)

	// unchanged model: same stored result object
	res2, err := an.Analyze("service")
	require.NoError(t, err)
	assert.Same(t, res1, res2)

	// mutation invalidates; the new run reflects the doubled load
	_, err = m.AddLoad("service", 4, [3]float64{0, 0, -50e3}, [3]float64{})
	require.NoError(t, err)
	res3, err := an.Analyze("service")
	require.NoError(t, err)
	assert.NotSame(t, res1, res3)

	s := m.Snapshot()
	mid := s.DOF(4, model.UZ)
	assert.Less(t, res3.Displacements[mid], res1.Displacements[mid])
}

func TestAnalyzeRemovedLoadLeavesNoTrace(t *testing.T) {
	m := portalFrame(t)
	an := New(m, solver.DefaultConfig())

	res1, err := an.Analyze("service")
	require.NoError(t, err)

	id, err := m.AddLoad("service", 3, [3]float64{30e3, 0, 0}, [3]float64{})
	require.NoError(t, err)
	require.NoError(t, m.RemoveLoad("service", id))

	res2, err := an.Analyze("service")
	require.NoError(t, err)
	assert.Equal(t, res1.Displacements, res2.Displacements)
}

func TestAnalyzeUnknownCase(t *testing.T) {
	m := portalFrame(t)
	an := New(m, solver.DefaultConfig())

	_, err := an.Analyze("wind")
	require.Error(t, err)
	var def *model.DefinitionError
	assert.True(t, errors.As(err, &def))
}

func TestAnalyzeUnsupportedModel(t *testing.T) {
	m := model.New()
	mat := m.AddMaterial(examples.Steel)
	sec := m.AddSection(model.Rectangular{B: 0.1, H: 0.2})
	a := m.AddNode(0, 0, 0)
	b := m.AddNode(1, 0, 0)
	_, err := m.AddElement(a, b, sec, mat)
	require.NoError(t, err)
	_, err = m.AddLoad("lc", b, [3]float64{0, 0, -1e3}, [3]float64{})
	require.NoError(t, err)

	an := New(m, solver.DefaultConfig())
	_, err = an.Analyze("lc")
	require.Error(t, err)
	var ce *solver.ConstraintError
	assert.True(t, errors.As(err, &ce))
}

func TestAnalyzeBucklingEulerColumn(t *testing.T) {
	const l, p = 5.0, 100e3
	m, err := examples.EulerColumn(l, 10, p)
	require.NoError(t, err)

	an := New(m, solver.DefaultConfig())
	res, err := an.AnalyzeBuckling("axial", 2)
	require.NoError(t, err)
	require.Len(t, res.Modes, 2)

	iMom := math.Pi * math.Pow(0.08, 4) / 64
	euler := math.Pi * math.Pi * examples.Steel.E * iMom / (l * l)
	assert.InEpsilon(t, euler, res.Modes[0].Factor*p, 0.03)

	// shapes live in full DOF space with zeros at constrained DOFs
	s := m.Snapshot()
	require.Len(t, res.Modes[0].Shape, s.NDOF)
	for g := 0; g < s.NDOF; g++ {
		if s.Constrained[g] {
			assert.Zero(t, res.Modes[0].Shape[g])
		}
	}

	// half-sine: largest lateral sway near midheight
	maxAt, maxAbs := -1, 0.0
	for _, nd := range s.Nodes {
		for _, d := range []int{model.UX, model.UY} {
			if a := math.Abs(res.Modes[0].Shape[s.DOF(nd.ID, d)]); a > maxAbs {
				maxAbs = a
				maxAt = int(nd.ID)
			}
		}
	}
	assert.InDelta(t, 5, maxAt, 1)
}

func TestAnalyzeBucklingModeCountIsStable(t *testing.T) {
	// the answer length follows the request, not the cache history
	m, err := examples.EulerColumn(5.0, 8, 100e3)
	require.NoError(t, err)
	an := New(m, solver.DefaultConfig())

	wide, err := an.AnalyzeBuckling("axial", 3)
	require.NoError(t, err)
	require.Len(t, wide.Modes, 3)

	narrow, err := an.AnalyzeBuckling("axial", 1)
	require.NoError(t, err)
	require.Len(t, narrow.Modes, 1)
	assert.Equal(t, wide.Modes[0].Factor, narrow.Modes[0].Factor)
}

func TestAnalyzeBucklingMutationInvalidates(t *testing.T) {
	m, err := examples.EulerColumn(5.0, 8, 100e3)
	require.NoError(t, err)

	an := New(m, solver.DefaultConfig())
	res1, err := an.AnalyzeBuckling("axial", 1)
	require.NoError(t, err)

	// repeated call on the unchanged model reuses the stored result
	res2, err := an.AnalyzeBuckling("axial", 1)
	require.NoError(t, err)
	assert.Same(t, res1, res2)

	// doubling the reference load halves the factor
	tip := model.NodeID(8)
	_, err = m.AddLoad("axial", tip, [3]float64{0, 0, -100e3}, [3]float64{})
	require.NoError(t, err)
	res3, err := an.AnalyzeBuckling("axial", 1)
	require.NoError(t, err)
	assert.InEpsilon(t, res1.Modes[0].Factor/2, res3.Modes[0].Factor, 1e-6)
}
