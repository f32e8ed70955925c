package assembly

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
)

var testMat = model.Material{E: 210e9, G: 81e9}

func testSection() model.Section {
	return model.Custom{A: 1e-2, IyVal: 8e-5, IzVal: 4e-5, JVal: 1e-5}
}

// beamModel builds a straight chain of elements between the given points.
func beamModel(t *testing.T, pts [][3]float64) (*model.Model, *model.Snapshot) {
	t.Helper()
	m := model.New()
	mat := m.AddMaterial(testMat)
	sec := m.AddSection(testSection())
	var prev model.NodeID
	for i, p := range pts {
		n := m.AddNode(p[0], p[1], p[2])
		if i > 0 {
			_, err := m.AddElement(prev, n, sec, mat)
			require.NoError(t, err)
		}
		prev = n
	}
	return m, m.Snapshot()
}

func TestElasticSymmetry(t *testing.T) {
	// skew two-element chain, no constraints applied during assembly
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {1.5, 0.3, 0.2}, {3.1, 0.9, 1.1}})

	k, err := Elastic(s, 2)
	require.NoError(t, err)
	require.Equal(t, s.NDOF, k.Rows)

	maxAbs := 0.0
	for _, v := range k.Val {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	assert.Less(t, k.MaxAbsAsymmetry(), 1e-9*maxAbs)
}

func TestElasticNullSpaceIsRigidModes(t *testing.T) {
	// a single free-free beam has exactly 6 zero-energy modes
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {2, 0, 0}})

	k, err := Elastic(s, 1)
	require.NoError(t, err)

	var es mat.EigenSym
	require.True(t, es.Factorize(k.ToSymDense(), false))
	ev := es.Values(nil)

	maxEv := ev[len(ev)-1]
	zero := 0
	for _, v := range ev {
		if math.Abs(v) < 1e-9*maxEv {
			zero++
		}
	}
	assert.Equal(t, 6, zero)
}

func TestZeroLengthElementRejected(t *testing.T) {
	_, s := beamModel(t, [][3]float64{{1, 1, 1}, {1, 1, 1}})

	_, err := Elastic(s, 1)
	require.Error(t, err)
	var def *model.DefinitionError
	assert.True(t, errors.As(err, &def))
}

func TestTriadDefault(t *testing.T) {
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {4, 0, 0}})
	ex, ey, ez, err := Triad(&s.Elements[0])
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 0}, ex[:], 1e-14)
	assert.InDeltaSlice(t, []float64{0, 1, 0}, ey[:], 1e-14)
	assert.InDeltaSlice(t, []float64{0, 0, 1}, ez[:], 1e-14)
}

func TestTriadVerticalFallback(t *testing.T) {
	// beam axis parallel to the default reference: fallback must kick in
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {0, 0, 3}})
	ex, ey, ez, err := Triad(&s.Elements[0])
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 0, 1}, ex[:], 1e-14)
	for _, pair := range [][2][3]float64{{ex, ey}, {ey, ez}, {ex, ez}} {
		dot := pair[0][0]*pair[1][0] + pair[0][1]*pair[1][1] + pair[0][2]*pair[1][2]
		assert.InDelta(t, 0, dot, 1e-14)
	}
	assert.InDelta(t, 1, norm(ey), 1e-14)
	assert.InDelta(t, 1, norm(ez), 1e-14)
}

func TestAggregateLoadsPoint(t *testing.T) {
	m, _ := beamModel(t, [][3]float64{{0, 0, 0}, {2, 0, 0}})
	_, err := m.AddLoad("lc", 1, [3]float64{10, 20, 30}, [3]float64{1, 2, 3})
	require.NoError(t, err)
	s := m.Snapshot()

	loads, err := AggregateLoads(s, "lc")
	require.NoError(t, err)
	assert.InDelta(t, 10, loads.F[s.DOF(1, model.UX)], 1e-14)
	assert.InDelta(t, 20, loads.F[s.DOF(1, model.UY)], 1e-14)
	assert.InDelta(t, 30, loads.F[s.DOF(1, model.UZ)], 1e-14)
	assert.InDelta(t, 3, loads.F[s.DOF(1, model.RZ)], 1e-14)
}

func TestAggregateLoadsDistributedResultant(t *testing.T) {
	const q = 7e3
	m, _ := beamModel(t, [][3]float64{{0, 0, 0}, {2, 0, 0}, {5, 0, 0}})
	for _, e := range []model.ElementID{0, 1} {
		_, err := m.AddDistributedLoad("lc", e, [3]float64{0, 0, -q})
		require.NoError(t, err)
	}
	s := m.Snapshot()

	loads, err := AggregateLoads(s, "lc")
	require.NoError(t, err)

	// total vertical load equals -q times the total length
	sumZ := 0.0
	for _, nd := range s.Nodes {
		sumZ += loads.F[s.DOF(nd.ID, model.UZ)]
	}
	assert.InDelta(t, -q*5.0, sumZ, 1e-6)

	// fixed-end vectors recorded per loaded element
	assert.Len(t, loads.FixedEnd, 2)
	fe := loads.FixedEnd[0]
	require.NotNil(t, fe)
	assert.InDelta(t, -q*2.0/2.0, fe[2], 1e-9)
	assert.InDelta(t, q*2.0*2.0/12.0, fe[4], 1e-9)
}

func TestAggregateLoadsUnknownCase(t *testing.T) {
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {1, 0, 0}})
	_, err := AggregateLoads(s, "nope")
	require.Error(t, err)
	var def *model.DefinitionError
	assert.True(t, errors.As(err, &def))
}

func TestGeometricRequiresAxialState(t *testing.T) {
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {1, 0, 0}})
	_, err := Geometric(s, []float64{1, 2, 3}, 1)
	require.Error(t, err)
}

func TestGeometricSignConvention(t *testing.T) {
	// compression must soften: xᵀ·Kg·x < 0 for a bending-shaped vector
	_, s := beamModel(t, [][3]float64{{0, 0, 0}, {1, 0, 0}})
	kg, err := Geometric(s, []float64{-1e4}, 1)
	require.NoError(t, err)

	x := make([]float64, s.NDOF)
	x[s.DOF(1, model.UZ)] = 1 // lateral sway at the free end
	y := make([]float64, s.NDOF)
	kg.MulVec(y, x)
	dot := 0.0
	for i := range x {
		dot += x[i] * y[i]
	}
	assert.Negative(t, dot)
}

func TestPartitionLayoutCoversAll(t *testing.T) {
	layout := NewPartitionLayout(10, 3)
	seen := make(map[int]bool)
	for _, p := range layout.Partitions {
		for _, e := range p.Elements {
			assert.False(t, seen[e])
			seen[e] = true
		}
	}
	assert.Len(t, seen, 10)

	// more workers than elements must not create empty-slot panics
	layout = NewPartitionLayout(2, 8)
	total := 0
	for _, p := range layout.Partitions {
		total += len(p.Elements)
	}
	assert.Equal(t, 2, total)
}
