package model

import "math"

// FrameElement is an element resolved against its nodes, material and
// section, as frozen into a snapshot.
type FrameElement struct {
	ID     ElementID
	A, B   NodeID
	XA, XB [3]float64
	Mat    Material
	Sec    Section
	Ref    [3]float64
}

// Length returns the element length.
func (fe *FrameElement) Length() float64 {
	dx := fe.XB[0] - fe.XA[0]
	dy := fe.XB[1] - fe.XA[1]
	dz := fe.XB[2] - fe.XA[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Snapshot is an immutable copy of the model topology, supports and loads at
// a given version. All assembly and solving operates on snapshots, so
// repeated analyses of an unchanged model are deterministic and concurrent
// analyses of independent snapshots share no mutable state.
//
// The global DOF numbering maps live node k (in ascending id order) to DOF
// indices 6k..6k+5, a bijection onto {0..NDOF-1}.
type Snapshot struct {
	Version  uint64
	Nodes    []Node
	Elements []FrameElement
	NDOF     int

	// Constrained and Prescribed are indexed by global DOF.
	Constrained []bool
	Prescribed  []float64

	nodeBase map[NodeID]int
	elemIdx  map[ElementID]int
	cases    map[string]*LoadCase
}

// Snapshot freezes the current model state.
func (m *Model) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Snapshot{
		Version:  m.version,
		nodeBase: make(map[NodeID]int),
		elemIdx:  make(map[ElementID]int),
		cases:    make(map[string]*LoadCase, len(m.cases)),
	}

	for i, nd := range m.nodes {
		if !m.nodeLive[i] {
			continue
		}
		s.nodeBase[nd.ID] = len(s.Nodes) * DOFPerNode
		s.Nodes = append(s.Nodes, nd)
	}
	s.NDOF = len(s.Nodes) * DOFPerNode

	for i, el := range m.elems {
		if !m.elemLive[i] {
			continue
		}
		a, b := m.nodes[el.A], m.nodes[el.B]
		s.elemIdx[el.ID] = len(s.Elements)
		s.Elements = append(s.Elements, FrameElement{
			ID:  el.ID,
			A:   el.A,
			B:   el.B,
			XA:  [3]float64{a.X, a.Y, a.Z},
			XB:  [3]float64{b.X, b.Y, b.Z},
			Mat: m.mats[el.Material],
			Sec: m.secs[el.Section],
			Ref: el.Ref,
		})
	}

	s.Constrained = make([]bool, s.NDOF)
	s.Prescribed = make([]float64, s.NDOF)
	for n, c := range m.constraints {
		base, ok := s.nodeBase[n]
		if !ok {
			continue
		}
		for d := 0; d < DOFPerNode; d++ {
			if c.Flags[d] {
				s.Constrained[base+d] = true
				s.Prescribed[base+d] = c.Values[d]
			}
		}
	}

	for name, lc := range m.cases {
		cp := &LoadCase{
			Name:        lc.Name,
			Points:      append([]PointLoad(nil), lc.Points...),
			Distributed: append([]DistributedLoad(nil), lc.Distributed...),
		}
		s.cases[name] = cp
	}
	return s
}

// DOF returns the global DOF index of a node component, or -1 if the node is
// not part of the snapshot.
func (s *Snapshot) DOF(n NodeID, comp int) int {
	base, ok := s.nodeBase[n]
	if !ok || comp < 0 || comp >= DOFPerNode {
		return -1
	}
	return base + comp
}

// Element returns the frozen element with the given id.
func (s *Snapshot) Element(e ElementID) (*FrameElement, bool) {
	i, ok := s.elemIdx[e]
	if !ok {
		return nil, false
	}
	return &s.Elements[i], true
}

// Case returns the frozen load case with the given name.
func (s *Snapshot) Case(name string) (*LoadCase, bool) {
	lc, ok := s.cases[name]
	return lc, ok
}

// Partition splits the global DOF indices into the free and constrained
// sets, both in ascending order.
func (s *Snapshot) Partition() (free, fixed []int) {
	for i := 0; i < s.NDOF; i++ {
		if s.Constrained[i] {
			fixed = append(fixed, i)
		} else {
			free = append(free, i)
		}
	}
	return free, fixed
}
