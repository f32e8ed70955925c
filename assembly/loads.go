package assembly

import (
	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
)

// CaseLoads is the aggregated global load state of one load case: the global
// load vector plus the local fixed-end force vectors of elements carrying
// distributed loads. The fixed-end vectors are needed again during
// internal-force recovery.
type CaseLoads struct {
	Case string
	F    []float64

	// FixedEnd maps element id to the local 12-vector of equivalent nodal
	// loads already added to F (in global form).
	FixedEnd map[model.ElementID][]float64
}

// AggregateLoads builds the global load vector for the named case. Point
// forces and moments are added directly at the node's DOF entries;
// distributed loads are converted to fixed-end equivalent nodal loads,
// rotated to global axes and added at the element's DOFs. Unknown nodes,
// elements or cases are definition errors.
func AggregateLoads(s *model.Snapshot, caseName string) (*CaseLoads, error) {
	lc, ok := s.Case(caseName)
	if !ok {
		return nil, model.Definitionf("load", -1, "load case %q does not exist", caseName)
	}

	out := &CaseLoads{
		Case:     caseName,
		F:        make([]float64, s.NDOF),
		FixedEnd: make(map[model.ElementID][]float64),
	}

	for _, p := range lc.Points {
		if s.DOF(p.Node, model.UX) < 0 {
			return nil, model.Definitionf("load", int(p.ID), "node %d does not exist", p.Node)
		}
		for i := 0; i < 3; i++ {
			out.F[s.DOF(p.Node, model.UX+i)] += p.Force[i]
			out.F[s.DOF(p.Node, model.RX+i)] += p.Moment[i]
		}
	}

	for _, d := range lc.Distributed {
		fe, ok := s.Element(d.Element)
		if !ok {
			return nil, model.Definitionf("load", int(d.ID), "element %d does not exist", d.Element)
		}
		fxl, err := fixedEnd(fe, d.Q)
		if err != nil {
			return nil, err
		}

		acc := out.FixedEnd[fe.ID]
		if acc == nil {
			acc = make([]float64, 12)
			out.FixedEnd[fe.ID] = acc
		}
		for i := range acc {
			acc[i] += fxl[i]
		}

		ex, ey, ez, err := Triad(fe)
		if err != nil {
			return nil, err
		}
		gamma := Transformation(ex, ey, ez)

		// global equivalent loads: Γᵀ·fxl
		var fg mat.VecDense
		fg.MulVec(gamma.T(), mat.NewVecDense(12, fxl))

		dofs := ElementDOFs(s, fe)
		for i := 0; i < 12; i++ {
			out.F[dofs[i]] += fg.AtVec(i)
		}
	}

	return out, nil
}

// fixedEnd returns the local equivalent nodal load 12-vector of a uniform
// line load q = (qx, qy, qz) per unit length in element axes: half the
// resultant at each end plus the qL²/12 fixed-end moments in both bending
// planes.
func fixedEnd(fe *model.FrameElement, q [3]float64) ([]float64, error) {
	l := fe.Length()
	if l == 0 {
		return nil, model.Definitionf("element", int(fe.ID), "zero-length element between nodes %d and %d", fe.A, fe.B)
	}
	ll := l * l
	f := make([]float64, 12)

	f[0] = q[0] * l / 2.0
	f[6] = q[0] * l / 2.0

	f[1] = q[1] * l / 2.0
	f[5] = q[1] * ll / 12.0
	f[7] = q[1] * l / 2.0
	f[11] = -q[1] * ll / 12.0

	f[2] = q[2] * l / 2.0
	f[4] = -q[2] * ll / 12.0
	f[8] = q[2] * l / 2.0
	f[10] = q[2] * ll / 12.0

	return f, nil
}
