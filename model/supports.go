package model

// SupportType is a symbolic support. It expands to explicit per-DOF
// constraints when applied.
type SupportType int

const (
	// Fixed constrains all six DOFs.
	Fixed SupportType = iota
	// Pinned constrains the three translations and leaves rotations free.
	Pinned
	// Roller constrains the single vertical (global Z) translation.
	Roller
)

func (t SupportType) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Pinned:
		return "pinned"
	case Roller:
		return "roller"
	}
	return "unknown"
}

// dofs returns the DOF components constrained by the support type.
func (t SupportType) dofs() []int {
	switch t {
	case Fixed:
		return []int{UX, UY, UZ, RX, RY, RZ}
	case Pinned:
		return []int{UX, UY, UZ}
	case Roller:
		return []int{UZ}
	}
	return nil
}

// NodeConstraint records, per DOF component, whether the component is
// constrained and its prescribed value (zero unless set explicitly).
type NodeConstraint struct {
	Flags  [DOFPerNode]bool
	Values [DOFPerNode]float64
}
