// Package model holds the discretized structural model: nodes, beam
// elements, materials, sections, supports and load cases, stored in
// index-addressed arenas and referenced by integer ids. The model derives a
// global DOF numbering and produces immutable snapshots for analysis; every
// mutation bumps the model version so previously computed results can be
// recognized as stale.
package model

import (
	"math"
	"sync"
)

// DOFPerNode is the number of degrees of freedom per node: three
// translations followed by three rotations.
const DOFPerNode = 6

// DOF component indices within a node.
const (
	UX = iota
	UY
	UZ
	RX
	RY
	RZ
)

// Entity id types. Ids are arena indices and stay valid across removals of
// other entities.
type (
	NodeID     int
	ElementID  int
	MaterialID int
	SectionID  int
)

// Node is a point in space carrying six DOFs.
type Node struct {
	ID      NodeID
	X, Y, Z float64
}

// Element is a two-node 3D beam. Ref is the orientation reference ("up")
// vector resolving the local z-axis; a zero Ref selects the default global Z.
type Element struct {
	ID       ElementID
	A, B     NodeID
	Section  SectionID
	Material MaterialID
	Ref      [3]float64
}

// Model is the mutable registry of all structural entities. All mutation
// goes through the Add/Remove methods; each successful mutation increments
// Version. A Model must not be mutated while an analysis holds a snapshot in
// flight; analysis drivers serialize access externally.
type Model struct {
	mu      sync.Mutex
	version uint64

	nodes    []Node
	nodeLive []bool

	elems    []Element
	elemLive []bool

	mats []Material
	secs []Section

	constraints map[NodeID]*NodeConstraint
	cases       map[string]*LoadCase
}

// New returns an empty model.
func New() *Model {
	return &Model{
		constraints: make(map[NodeID]*NodeConstraint),
		cases:       make(map[string]*LoadCase),
	}
}

// Version returns the mutation counter. It increases monotonically with
// every successful mutation.
func (m *Model) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// AddNode registers a node at the given coordinates and returns its id.
func (m *Model) AddNode(x, y, z float64) NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := NodeID(len(m.nodes))
	m.nodes = append(m.nodes, Node{ID: id, X: x, Y: y, Z: z})
	m.nodeLive = append(m.nodeLive, true)
	m.version++
	return id
}

// AddMaterial registers a material and returns its id.
func (m *Model) AddMaterial(mt Material) MaterialID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := MaterialID(len(m.mats))
	m.mats = append(m.mats, mt)
	m.version++
	return id
}

// AddSection registers a section and returns its id.
func (m *Model) AddSection(s Section) SectionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := SectionID(len(m.secs))
	m.secs = append(m.secs, s)
	m.version++
	return id
}

// AddElement registers a beam element between two distinct existing nodes
// with the default orientation reference.
func (m *Model) AddElement(a, b NodeID, sec SectionID, mat MaterialID) (ElementID, error) {
	return m.AddElementOriented(a, b, sec, mat, [3]float64{})
}

// AddElementOriented registers a beam element with an explicit orientation
// reference vector.
func (m *Model) AddElementOriented(a, b NodeID, sec SectionID, mat MaterialID, ref [3]float64) (ElementID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.nodeExists(a) {
		return 0, defErrf("element", -1, "node %d does not exist", a)
	}
	if !m.nodeExists(b) {
		return 0, defErrf("element", -1, "node %d does not exist", b)
	}
	if a == b {
		return 0, defErrf("element", -1, "end nodes must be distinct (both are %d)", a)
	}
	if int(sec) < 0 || int(sec) >= len(m.secs) {
		return 0, defErrf("element", -1, "section %d does not exist", sec)
	}
	if int(mat) < 0 || int(mat) >= len(m.mats) {
		return 0, defErrf("element", -1, "material %d does not exist", mat)
	}
	id := ElementID(len(m.elems))
	m.elems = append(m.elems, Element{ID: id, A: a, B: b, Section: sec, Material: mat, Ref: ref})
	m.elemLive = append(m.elemLive, true)
	m.version++
	return id, nil
}

// AddSupport applies a symbolic support to a node.
func (m *Model) AddSupport(n NodeID, typ SupportType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dofs := typ.dofs()
	if dofs == nil {
		return defErrf("support", int(n), "unknown support type %d", typ)
	}
	if !m.nodeExists(n) {
		return defErrf("support", int(n), "node does not exist")
	}
	c := m.constraint(n)
	for _, d := range dofs {
		c.Flags[d] = true
		c.Values[d] = 0
	}
	m.version++
	return nil
}

// AddConstraint constrains a single DOF component of a node to a prescribed
// value (zero for a rigid support, nonzero for settlement-type conditions).
func (m *Model) AddConstraint(n NodeID, comp int, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.nodeExists(n) {
		return defErrf("support", int(n), "node does not exist")
	}
	if comp < 0 || comp >= DOFPerNode {
		return defErrf("support", int(n), "DOF component %d out of range", comp)
	}
	c := m.constraint(n)
	c.Flags[comp] = true
	c.Values[comp] = value
	m.version++
	return nil
}

// AddLoad applies a concentrated force/moment at a node under the named load
// case and returns the load's id within that case.
func (m *Model) AddLoad(caseName string, n NodeID, force, moment [3]float64) (LoadID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.nodeExists(n) {
		return 0, defErrf("load", int(n), "node does not exist")
	}
	lc := m.loadCase(caseName)
	id := lc.nextLoad
	lc.nextLoad++
	lc.Points = append(lc.Points, PointLoad{ID: id, Node: n, Force: force, Moment: moment})
	m.version++
	return id, nil
}

// AddDistributedLoad applies a uniform line load (local axes, per unit
// length) on an element under the named load case.
func (m *Model) AddDistributedLoad(caseName string, e ElementID, q [3]float64) (LoadID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.elementExists(e) {
		return 0, defErrf("load", int(e), "element does not exist")
	}
	lc := m.loadCase(caseName)
	id := lc.nextLoad
	lc.nextLoad++
	lc.Distributed = append(lc.Distributed, DistributedLoad{ID: id, Element: e, Q: q})
	m.version++
	return id, nil
}

// RemoveElement removes an element. Loads referencing it are removed as well.
func (m *Model) RemoveElement(e ElementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.elementExists(e) {
		return defErrf("element", int(e), "does not exist")
	}
	m.elemLive[e] = false
	for _, lc := range m.cases {
		kept := lc.Distributed[:0]
		for _, d := range lc.Distributed {
			if d.Element != e {
				kept = append(kept, d)
			}
		}
		lc.Distributed = kept
	}
	m.version++
	return nil
}

// RemoveNode removes a node that no live element references. Its supports
// and nodal loads are removed with it.
func (m *Model) RemoveNode(n NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.nodeExists(n) {
		return defErrf("node", int(n), "does not exist")
	}
	for i, e := range m.elems {
		if m.elemLive[i] && (e.A == n || e.B == n) {
			return defErrf("node", int(n), "still referenced by element %d", e.ID)
		}
	}
	m.nodeLive[n] = false
	delete(m.constraints, n)
	for _, lc := range m.cases {
		kept := lc.Points[:0]
		for _, p := range lc.Points {
			if p.Node != n {
				kept = append(kept, p)
			}
		}
		lc.Points = kept
	}
	m.version++
	return nil
}

// RemoveLoad removes one load from a case.
func (m *Model) RemoveLoad(caseName string, id LoadID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lc, ok := m.cases[caseName]
	if !ok {
		return defErrf("load", int(id), "load case %q does not exist", caseName)
	}
	for i, p := range lc.Points {
		if p.ID == id {
			lc.Points = append(lc.Points[:i], lc.Points[i+1:]...)
			m.version++
			return nil
		}
	}
	for i, d := range lc.Distributed {
		if d.ID == id {
			lc.Distributed = append(lc.Distributed[:i], lc.Distributed[i+1:]...)
			m.version++
			return nil
		}
	}
	return defErrf("load", int(id), "not found in case %q", caseName)
}

// Node returns a node by id.
func (m *Model) Node(n NodeID) (Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.nodeExists(n) {
		return Node{}, false
	}
	return m.nodes[n], true
}

// Length returns the length of an element.
func (m *Model) Length(e ElementID) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.elementExists(e) {
		return 0, defErrf("element", int(e), "does not exist")
	}
	el := m.elems[e]
	a, b := m.nodes[el.A], m.nodes[el.B]
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz), nil
}

// NumNodes returns the number of live nodes.
func (m *Model) NumNodes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, live := range m.nodeLive {
		if live {
			n++
		}
	}
	return n
}

// NumElements returns the number of live elements.
func (m *Model) NumElements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, live := range m.elemLive {
		if live {
			n++
		}
	}
	return n
}

// unguarded helpers; callers hold m.mu.

func (m *Model) nodeExists(n NodeID) bool {
	return int(n) >= 0 && int(n) < len(m.nodes) && m.nodeLive[n]
}

func (m *Model) elementExists(e ElementID) bool {
	return int(e) >= 0 && int(e) < len(m.elems) && m.elemLive[e]
}

func (m *Model) constraint(n NodeID) *NodeConstraint {
	c, ok := m.constraints[n]
	if !ok {
		c = &NodeConstraint{}
		m.constraints[n] = c
	}
	return c
}

func (m *Model) loadCase(name string) *LoadCase {
	lc, ok := m.cases[name]
	if !ok {
		lc = &LoadCase{Name: name}
		m.cases[name] = lc
	}
	return lc
}
