package assembly

// Partition is a contiguous group of element indices assembled together by
// one worker. Each worker scatters into its own triplet; the partial
// triplets are merged before compression, so no synchronization on shared
// matrix entries is needed.
type Partition struct {
	ID       int
	Elements []int // indices into Snapshot.Elements
}

// PartitionLayout is the decomposition of the element range over assembly
// workers.
type PartitionLayout struct {
	Partitions    []Partition
	TotalElements int
}

// NewPartitionLayout splits numElements into at most workers near-equal
// contiguous partitions. Empty partitions are not created, so the layout may
// hold fewer partitions than requested workers.
func NewPartitionLayout(numElements, workers int) *PartitionLayout {
	if workers < 1 {
		workers = 1
	}
	if workers > numElements {
		workers = numElements
	}
	layout := &PartitionLayout{TotalElements: numElements}
	if numElements == 0 {
		return layout
	}
	base := numElements / workers
	rem := numElements % workers
	start := 0
	for p := 0; p < workers; p++ {
		count := base
		if p < rem {
			count++
		}
		elems := make([]int, count)
		for i := range elems {
			elems[i] = start + i
		}
		layout.Partitions = append(layout.Partitions, Partition{ID: p, Elements: elems})
		start += count
	}
	return layout
}
