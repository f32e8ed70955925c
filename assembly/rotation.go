// Package assembly builds the global elastic and geometric stiffness
// matrices and the global load vectors from a model snapshot. Per-element
// 12x12 matrices are computed independently (optionally in parallel over an
// element partition layout), rotated to global axes and scattered additively
// into a shared triplet.
package assembly

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
)

// parallelTol decides when the beam axis and the orientation reference are
// considered parallel and the fallback reference must be substituted.
const parallelTol = 1e-8

var defaultRef = [3]float64{0, 0, 1}
var fallbackRef = [3]float64{1, 0, 0}

// Triad computes the element's local unit axes in global coordinates: ex
// along the beam from node A to node B, ez as close as possible to the
// orientation reference vector, ey completing the right-handed triad.
//
// A zero-length element is a definition error. If the reference vector is
// parallel to the beam axis, a fallback axis is substituted so the triad
// never degenerates.
func Triad(fe *model.FrameElement) (ex, ey, ez [3]float64, err error) {
	L := fe.Length()
	if L == 0 {
		err = model.Definitionf("element", int(fe.ID), "zero-length element between nodes %d and %d", fe.A, fe.B)
		return
	}
	for i := 0; i < 3; i++ {
		ex[i] = (fe.XB[i] - fe.XA[i]) / L
	}

	ref := fe.Ref
	if ref == [3]float64{} {
		ref = defaultRef
	}
	normalize(&ref)

	ey = cross(ref, ex)
	if norm(ey) < parallelTol {
		ref = defaultRef
		ey = cross(ref, ex)
	}
	if norm(ey) < parallelTol {
		ref = fallbackRef
		ey = cross(ref, ex)
	}
	normalize(&ey)
	ez = cross(ex, ey)
	return
}

// Transformation returns the 12x12 global-to-local transformation: four 3x3
// direction-cosine blocks along the diagonal, one per translational or
// rotational DOF triple of the two nodes.
func Transformation(ex, ey, ez [3]float64) *mat.Dense {
	g := mat.NewDense(12, 12, nil)
	for k := 0; k < 4; k++ {
		for j := 0; j < 3; j++ {
			g.Set(3*k+0, 3*k+j, ex[j])
			g.Set(3*k+1, 3*k+j, ey[j])
			g.Set(3*k+2, 3*k+j, ez[j])
		}
	}
	return g
}

// toGlobal computes Γᵀ·Kl·Γ.
func toGlobal(kl, gamma *mat.Dense) *mat.Dense {
	var tmp, kg mat.Dense
	tmp.Mul(kl, gamma)
	kg.Mul(gamma.T(), &tmp)
	return &kg
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func normalize(v *[3]float64) {
	n := norm(*v)
	if n == 0 {
		return
	}
	v[0] /= n
	v[1] /= n
	v[2] /= n
}
