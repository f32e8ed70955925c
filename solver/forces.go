package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/assembly"
	"github.com/structkit/framekernel/model"
)

// ElementForces holds the twelve local end forces of one element recovered
// from a static solution: [Fx Fy Fz Mx My Mz] at node A then node B, in the
// element's local axes.
type ElementForces struct {
	Element model.ElementID
	Local   [12]float64
}

// Axial returns the element's axial force, tension-positive.
func (f *ElementForces) Axial() float64 { return f.Local[6] }

// ShearY and ShearZ return the transverse shear forces at node A.
func (f *ElementForces) ShearY() float64 { return f.Local[1] }
func (f *ElementForces) ShearZ() float64 { return f.Local[2] }

// Torsion returns the twisting moment, positive per the local x-axis at
// node B.
func (f *ElementForces) Torsion() float64 { return f.Local[9] }

// MomentY and MomentZ return the bending moments at node A about the local
// y and z axes.
func (f *ElementForces) MomentY() float64 { return f.Local[4] }
func (f *ElementForces) MomentZ() float64 { return f.Local[5] }

// RecoverForces computes per-element internal forces by rotating each
// element's global nodal displacements to local axes, applying the local
// elastic stiffness, and removing the fixed-end contributions of distributed
// loads. The result is ordered like Snapshot.Elements.
func RecoverForces(s *model.Snapshot, u []float64, loads *assembly.CaseLoads) ([]ElementForces, error) {
	out := make([]ElementForces, len(s.Elements))
	for i := range s.Elements {
		fe := &s.Elements[i]
		kl, err := assembly.LocalElastic(fe)
		if err != nil {
			return nil, err
		}
		ex, ey, ez, err := assembly.Triad(fe)
		if err != nil {
			return nil, err
		}
		gamma := assembly.Transformation(ex, ey, ez)

		ue := make([]float64, 12)
		for d, g := range assembly.ElementDOFs(s, fe) {
			ue[d] = u[g]
		}

		var ul, fl mat.VecDense
		ul.MulVec(gamma, mat.NewVecDense(12, ue))
		fl.MulVec(kl, &ul)

		ef := ElementForces{Element: fe.ID}
		for d := 0; d < 12; d++ {
			ef.Local[d] = fl.AtVec(d)
		}
		if fixed := loads.FixedEnd[fe.ID]; fixed != nil {
			for d := 0; d < 12; d++ {
				ef.Local[d] -= fixed[d]
			}
		}
		if !allFinite(ef.Local[:]) {
			return nil, &ConstraintError{Reason: fmt.Sprintf("non-finite internal force in element %d", fe.ID)}
		}
		out[i] = ef
	}
	return out, nil
}

// AxialState extracts the tension-positive axial force of each element,
// ordered like Snapshot.Elements, as the reference state for geometric
// stiffness assembly.
func AxialState(forces []ElementForces) []float64 {
	n := make([]float64, len(forces))
	for i := range forces {
		n[i] = forces[i].Axial()
	}
	return n
}
