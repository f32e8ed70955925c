package model

// LoadID identifies a load within its load case.
type LoadID int

// PointLoad is a concentrated force and moment applied at a node, expressed
// in global axes.
type PointLoad struct {
	ID     LoadID
	Node   NodeID
	Force  [3]float64 // Fx, Fy, Fz
	Moment [3]float64 // Mx, My, Mz
}

// DistributedLoad is a uniform line load on an element, expressed per unit
// length in the element's local axes (qx axial, qy and qz transverse). It is
// converted to fixed-end equivalent nodal loads during aggregation.
type DistributedLoad struct {
	ID      LoadID
	Element ElementID
	Q       [3]float64
}

// LoadCase groups the loads applied together in one analysis run.
type LoadCase struct {
	Name        string
	Points      []PointLoad
	Distributed []DistributedLoad

	nextLoad LoadID
}
