package dumpsort

import "container/heap"

// indexMaxHeap is a container/heap max-heap of input-list indices, the same
// heap-of-indices shape used elsewhere in this codebase's ecosystem for
// scheduling work by priority (a wrapper slice implementing heap.Interface
// with Push/Pop operating on the slice's tail). Popping the largest index
// first, and filling the output from the back, keeps objects that were
// late in the input tending to stay late, and resolves ties among
// ready-to-emit objects toward the canonical pre-sort order.
type indexMaxHeap []int

func (h indexMaxHeap) Len() int            { return len(h) }
func (h indexMaxHeap) Less(i, j int) bool  { return h[i] > h[j] }
func (h indexMaxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *indexMaxHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *indexMaxHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// topoSortResult is the outcome of one topoSort attempt.
type topoSortResult struct {
	ordering []*DumpableObject // full legal order, on success
	remnant  []*DumpableObject // objects still blocked, on failure
	ok       bool
}

// topoSort is a variant of Kahn's algorithm seeded in reverse input order
// through a max-heap, matching Knuth's topological-sort sketch while
// minimizing rearrangement of the canonical pre-sort order. Returns ok=true
// and a full ordering on success; on failure, remnant holds the objects
// whose before-constraints never reached zero (participants in unresolved
// cycles, and the objects those participants depend on).
func topoSort(objs []*DumpableObject, cat Catalog) (topoSortResult, error) {
	n := len(objs)
	if n == 0 {
		return topoSortResult{ok: true}, nil
	}

	maxID := cat.MaxDumpID()

	before := make([]int, maxID+1)
	idMap := make([]int, maxID+1)
	present := make([]bool, maxID+1)

	for i, obj := range objs {
		j := obj.DumpId
		if j <= 0 || int(j) > int(maxID) {
			return topoSortResult{}, &InvariantError{Op: "topoSort", Err: errInvalidDumpID(j)}
		}
		idMap[j] = i
		present[j] = true
	}
	for _, obj := range objs {
		for _, dep := range obj.Dependencies {
			if dep <= 0 {
				continue // ignored, per the "none"/negative convention
			}
			if int(dep) > int(maxID) {
				return topoSortResult{}, &InvariantError{Op: "topoSort", Err: errInvalidDependency(dep)}
			}
			if !present[dep] {
				continue // undumped: edge target isn't in this object set
			}
			before[dep]++
		}
	}

	// Seed the heap with every index already satisfying before[id] == 0, in
	// descending index order.
	h := make(indexMaxHeap, 0, n)
	for i := n - 1; i >= 0; i-- {
		if before[objs[i].DumpId] == 0 {
			h = append(h, i)
		}
	}
	heap.Init(&h)

	ordering := make([]*DumpableObject, n)
	remaining := n

	for h.Len() > 0 {
		j := heap.Pop(&h).(int)
		obj := objs[j]
		remaining--
		ordering[remaining] = obj

		for _, dep := range obj.Dependencies {
			if dep <= 0 || !present[dep] {
				continue
			}
			before[dep]--
			if before[dep] == 0 {
				heap.Push(&h, idMap[dep])
			}
		}
	}

	if remaining != 0 {
		var remnant []*DumpableObject
		for id := DumpId(1); int(id) <= int(maxID); id++ {
			if before[id] != 0 {
				remnant = append(remnant, objs[idMap[id]])
			}
		}
		return topoSortResult{remnant: remnant, ok: false}, nil
	}

	return topoSortResult{ordering: ordering, ok: true}, nil
}
