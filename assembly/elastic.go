package assembly

import (
	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
)

// LocalElastic computes the 12x12 local elastic stiffness matrix of a beam
// element. DOF order is [ux uy uz rx ry rz] for node A then node B, in local
// axes. Bending in the x-y plane uses Iz, bending in the x-z plane uses Iy,
// both with the Timoshenko shear-deformation factor of the corresponding
// plane (phi = 0 recovers Euler-Bernoulli bending).
func LocalElastic(fe *model.FrameElement) (*mat.Dense, error) {
	l := fe.Length()
	if l == 0 {
		return nil, model.Definitionf("element", int(fe.ID), "zero-length element between nodes %d and %d", fe.A, fe.B)
	}
	E, G := fe.Mat.E, fe.Mat.G
	sec := fe.Sec
	A := sec.Area()
	ll := l * l
	lll := ll * l

	EA := E * A
	EIz := E * sec.Iz()
	EIy := E * sec.Iy()
	GJ := G * sec.J()

	// shear-deformation factors per bending plane
	var phiY, phiZ float64
	if ky := sec.ShearFactorY(); ky > 0 && G > 0 {
		phiY = 12.0 * EIz / (G * ky * A * ll)
	}
	if kz := sec.ShearFactorZ(); kz > 0 && G > 0 {
		phiZ = 12.0 * EIy / (G * kz * A * ll)
	}

	k := mat.NewDense(12, 12, nil)

	// axial
	k.Set(0, 0, EA/l)
	k.Set(0, 6, -EA/l)
	k.Set(6, 0, -EA/l)
	k.Set(6, 6, EA/l)

	// torsion
	k.Set(3, 3, GJ/l)
	k.Set(3, 9, -GJ/l)
	k.Set(9, 3, -GJ/l)
	k.Set(9, 9, GJ/l)

	// bending in x-y plane: uy (1, 7) coupled with rz (5, 11)
	{
		c := EIz / (1.0 + phiY)
		k.Set(1, 1, 12.0*c/lll)
		k.Set(1, 5, 6.0*c/ll)
		k.Set(1, 7, -12.0*c/lll)
		k.Set(1, 11, 6.0*c/ll)

		k.Set(5, 1, 6.0*c/ll)
		k.Set(5, 5, (4.0+phiY)*c/l)
		k.Set(5, 7, -6.0*c/ll)
		k.Set(5, 11, (2.0-phiY)*c/l)

		k.Set(7, 1, -12.0*c/lll)
		k.Set(7, 5, -6.0*c/ll)
		k.Set(7, 7, 12.0*c/lll)
		k.Set(7, 11, -6.0*c/ll)

		k.Set(11, 1, 6.0*c/ll)
		k.Set(11, 5, (2.0-phiY)*c/l)
		k.Set(11, 7, -6.0*c/ll)
		k.Set(11, 11, (4.0+phiY)*c/l)
	}

	// bending in x-z plane: uz (2, 8) coupled with ry (4, 10); rotation signs
	// mirror the x-y plane
	{
		c := EIy / (1.0 + phiZ)
		k.Set(2, 2, 12.0*c/lll)
		k.Set(2, 4, -6.0*c/ll)
		k.Set(2, 8, -12.0*c/lll)
		k.Set(2, 10, -6.0*c/ll)

		k.Set(4, 2, -6.0*c/ll)
		k.Set(4, 4, (4.0+phiZ)*c/l)
		k.Set(4, 8, 6.0*c/ll)
		k.Set(4, 10, (2.0-phiZ)*c/l)

		k.Set(8, 2, -12.0*c/lll)
		k.Set(8, 4, 6.0*c/ll)
		k.Set(8, 8, 12.0*c/lll)
		k.Set(8, 10, 6.0*c/ll)

		k.Set(10, 2, -6.0*c/ll)
		k.Set(10, 4, (2.0-phiZ)*c/l)
		k.Set(10, 8, 6.0*c/ll)
		k.Set(10, 10, (4.0+phiZ)*c/l)
	}

	return k, nil
}
