package model

import "math"

// Section describes the cross-section of a beam element. The set of shapes is
// closed: IBeam, Rectangular, Circular and Custom are the only
// implementations, all answering the same fixed property queries.
//
// Local axis convention: the element x-axis runs from node A to node B, z is
// the "strong"/up direction resolved from the orientation reference vector,
// and y completes the right-handed triad. Iy is the second moment about the
// local y-axis (bending in the x-z plane), Iz about the local z-axis (bending
// in the x-y plane).
type Section interface {
	Area() float64
	Iy() float64
	Iz() float64
	J() float64

	// ShearFactorY and ShearFactorZ are the Timoshenko shear-area factors
	// kappa for transverse shear along the local y and z axes. A zero factor
	// disables shear deformation for that plane (Euler-Bernoulli bending).
	ShearFactorY() float64
	ShearFactorZ() float64

	sealedSection()
}

// Rectangular is a solid rectangle, width B along local y and height H along
// local z.
type Rectangular struct {
	B, H float64
}

func (s Rectangular) Area() float64         { return s.B * s.H }
func (s Rectangular) Iy() float64           { return s.B * s.H * s.H * s.H / 12.0 }
func (s Rectangular) Iz() float64           { return s.H * s.B * s.B * s.B / 12.0 }
func (s Rectangular) ShearFactorY() float64 { return 5.0 / 6.0 }
func (s Rectangular) ShearFactorZ() float64 { return 5.0 / 6.0 }
func (s Rectangular) sealedSection()        {}

// J uses the standard closed-form approximation for a solid rectangle.
func (s Rectangular) J() float64 {
	a, b := s.B, s.H
	if b > a {
		a, b = b, a
	}
	return a * b * b * b * (1.0/3.0 - 0.21*(b/a)*(1.0-b*b*b*b/(12.0*a*a*a*a)))
}

// Circular is a solid circle of diameter D.
type Circular struct {
	D float64
}

func (s Circular) Area() float64         { return math.Pi * s.D * s.D / 4.0 }
func (s Circular) Iy() float64           { return math.Pi * math.Pow(s.D, 4) / 64.0 }
func (s Circular) Iz() float64           { return s.Iy() }
func (s Circular) J() float64            { return math.Pi * math.Pow(s.D, 4) / 32.0 }
func (s Circular) ShearFactorY() float64 { return 0.9 }
func (s Circular) ShearFactorZ() float64 { return 0.9 }
func (s Circular) sealedSection()        {}

// IBeam is a doubly-symmetric I section: depth D along local z, flange width
// B along local y, flange thickness Tf, web thickness Tw.
type IBeam struct {
	D, B, Tf, Tw float64
}

func (s IBeam) Area() float64 {
	return 2.0*s.B*s.Tf + (s.D-2.0*s.Tf)*s.Tw
}

func (s IBeam) Iy() float64 {
	hw := s.D - 2.0*s.Tf
	return s.B*math.Pow(s.D, 3)/12.0 - (s.B-s.Tw)*math.Pow(hw, 3)/12.0
}

func (s IBeam) Iz() float64 {
	hw := s.D - 2.0*s.Tf
	return 2.0*s.Tf*math.Pow(s.B, 3)/12.0 + hw*math.Pow(s.Tw, 3)/12.0
}

func (s IBeam) J() float64 {
	hw := s.D - 2.0*s.Tf
	return (2.0*s.B*math.Pow(s.Tf, 3) + hw*math.Pow(s.Tw, 3)) / 3.0
}

// Strong-axis shear is carried by the web, weak-axis shear by the flanges.
func (s IBeam) ShearFactorZ() float64 { return (s.D - 2.0*s.Tf) * s.Tw / s.Area() }
func (s IBeam) ShearFactorY() float64 { return 2.0 * s.B * s.Tf * 5.0 / 6.0 / s.Area() }
func (s IBeam) sealedSection()        {}

// Custom carries externally supplied section properties, for shapes outside
// the built-in catalogue.
type Custom struct {
	A      float64
	IyVal  float64
	IzVal  float64
	JVal   float64
	KappaY float64
	KappaZ float64
}

func (s Custom) Area() float64         { return s.A }
func (s Custom) Iy() float64           { return s.IyVal }
func (s Custom) Iz() float64           { return s.IzVal }
func (s Custom) J() float64            { return s.JVal }
func (s Custom) ShearFactorY() float64 { return s.KappaY }
func (s Custom) ShearFactorZ() float64 { return s.KappaZ }
func (s Custom) sealedSection()        {}
