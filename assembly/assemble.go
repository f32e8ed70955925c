package assembly

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/structkit/framekernel/model"
	"github.com/structkit/framekernel/sparse"
)

// nnzPerElement is the dense footprint of one element's global contribution.
const nnzPerElement = 144

// ElementDOFs returns the 12 global DOF indices of an element: six for node
// A followed by six for node B.
func ElementDOFs(s *model.Snapshot, fe *model.FrameElement) [12]int {
	var dofs [12]int
	for d := 0; d < model.DOFPerNode; d++ {
		dofs[d] = s.DOF(fe.A, d)
		dofs[6+d] = s.DOF(fe.B, d)
	}
	return dofs
}

// Elastic assembles the global elastic stiffness matrix of the snapshot.
// workers <= 0 selects GOMAXPROCS.
func Elastic(s *model.Snapshot, workers int) (*sparse.CSR, error) {
	return assemble(s, workers, func(_ int, fe *model.FrameElement) (*mat.Dense, error) {
		return LocalElastic(fe)
	})
}

// Geometric assembles the global geometric stiffness matrix from the
// per-element reference axial forces (tension-positive), indexed like
// Snapshot.Elements. It must be recomputed whenever the reference load case
// or the topology changes.
func Geometric(s *model.Snapshot, axial []float64, workers int) (*sparse.CSR, error) {
	if len(axial) != len(s.Elements) {
		return nil, model.Definitionf("element", -1, "axial force state has %d entries for %d elements", len(axial), len(s.Elements))
	}
	return assemble(s, workers, func(i int, fe *model.FrameElement) (*mat.Dense, error) {
		return LocalGeometric(fe, axial[i])
	})
}

// assemble runs the per-element local computation over the partition layout
// and merges the per-worker triplets into one CSR matrix.
func assemble(s *model.Snapshot, workers int, local func(int, *model.FrameElement) (*mat.Dense, error)) (*sparse.CSR, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	layout := NewPartitionLayout(len(s.Elements), workers)

	parts := make([]*sparse.Triplet, len(layout.Partitions))
	errs := make([]error, len(layout.Partitions))

	var wg sync.WaitGroup
	for pi := range layout.Partitions {
		wg.Add(1)
		go func(pi int) {
			defer wg.Done()
			part := layout.Partitions[pi]
			trip := sparse.NewTriplet(s.NDOF, s.NDOF, len(part.Elements)*nnzPerElement)
			for _, ei := range part.Elements {
				fe := &s.Elements[ei]
				kl, err := local(ei, fe)
				if err != nil {
					errs[pi] = err
					return
				}
				ex, ey, ez, err := Triad(fe)
				if err != nil {
					errs[pi] = err
					return
				}
				kg := toGlobal(kl, Transformation(ex, ey, ez))
				scatter(trip, ElementDOFs(s, fe), kg)
			}
			parts[pi] = trip
		}(pi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	trip := sparse.NewTriplet(s.NDOF, s.NDOF, len(s.Elements)*nnzPerElement)
	for _, p := range parts {
		if p != nil {
			trip.Merge(p)
		}
	}
	return trip.ToCSR(), nil
}

// scatter adds the element's global 12x12 matrix into the triplet at its DOF
// indices.
func scatter(trip *sparse.Triplet, dofs [12]int, kg *mat.Dense) {
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			if v := kg.At(i, j); v != 0 {
				trip.Put(dofs[i], dofs[j], v)
			}
		}
	}
}
