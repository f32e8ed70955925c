package model

// Material holds the linear-elastic material constants of an element.
type Material struct {
	Name    string
	E       float64 // Young's modulus
	G       float64 // shear modulus
	Density float64
}
