package assembly

import (
	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
)

// LocalGeometric computes the 12x12 consistent local geometric stiffness
// matrix of a beam element carrying the axial force n.
//
// Sign convention: n is tension-positive, matching the axial force recovered
// by the linear solver (positive local end force at node B). A tensile n
// stiffens bending, a compressive n softens it, so for a compressive
// reference state the assembled matrix is negative along the bending DOFs
// and the buckling eigenproblem Ke·x = -lambda·Kg·x yields positive load
// factors.
//
// The rx rows carry the polar-inertia coupling (Ip/A) of twist with axial
// force; the pure axial rows have no geometric contribution.
func LocalGeometric(fe *model.FrameElement, n float64) (*mat.Dense, error) {
	l := fe.Length()
	if l == 0 {
		return nil, model.Definitionf("element", int(fe.ID), "zero-length element between nodes %d and %d", fe.A, fe.B)
	}
	sec := fe.Sec
	ipa := (sec.Iy() + sec.Iz()) / sec.Area()
	c := n / l
	ll := l * l

	k := mat.NewDense(12, 12, nil)

	// uy with rz (x-y plane)
	k.Set(1, 1, c*6.0/5.0)
	k.Set(1, 5, c*l/10.0)
	k.Set(1, 7, -c*6.0/5.0)
	k.Set(1, 11, c*l/10.0)

	k.Set(5, 1, c*l/10.0)
	k.Set(5, 5, c*2.0*ll/15.0)
	k.Set(5, 7, -c*l/10.0)
	k.Set(5, 11, -c*ll/30.0)

	k.Set(7, 1, -c*6.0/5.0)
	k.Set(7, 5, -c*l/10.0)
	k.Set(7, 7, c*6.0/5.0)
	k.Set(7, 11, -c*l/10.0)

	k.Set(11, 1, c*l/10.0)
	k.Set(11, 5, -c*ll/30.0)
	k.Set(11, 7, -c*l/10.0)
	k.Set(11, 11, c*2.0*ll/15.0)

	// uz with ry (x-z plane); rotation signs mirrored as in the elastic matrix
	k.Set(2, 2, c*6.0/5.0)
	k.Set(2, 4, -c*l/10.0)
	k.Set(2, 8, -c*6.0/5.0)
	k.Set(2, 10, -c*l/10.0)

	k.Set(4, 2, -c*l/10.0)
	k.Set(4, 4, c*2.0*ll/15.0)
	k.Set(4, 8, c*l/10.0)
	k.Set(4, 10, -c*ll/30.0)

	k.Set(8, 2, -c*6.0/5.0)
	k.Set(8, 4, c*l/10.0)
	k.Set(8, 8, c*6.0/5.0)
	k.Set(8, 10, c*l/10.0)

	k.Set(10, 2, -c*l/10.0)
	k.Set(10, 4, -c*ll/30.0)
	k.Set(10, 8, c*l/10.0)
	k.Set(10, 10, c*2.0*ll/15.0)

	// twist about the beam axis
	k.Set(3, 3, c*ipa)
	k.Set(3, 9, -c*ipa)
	k.Set(9, 3, -c*ipa)
	k.Set(9, 9, c*ipa)

	return k, nil
}
