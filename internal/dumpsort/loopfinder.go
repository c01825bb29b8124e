package dumpsort

// findLoop recursively searches for a circular dependency loop back to
// startPoint, not passing through any already-processed object. On success
// it returns the loop's length, with workspace[0:length) holding its
// members in traversal order; on failure it returns 0.
//
// processed marks objects already handled by a previous call into
// findDependencyLoops, preventing the finder from rediscovering loops that
// overlap ones already repaired. searchFailed[id] == startPoint records
// that a previous sub-search already proved no path id -> startPoint
// exists, letting later calls skip re-walking it — the common case when
// multiple paths converge on one object. workspace is the current DFS
// path; an object already on it is rejected to avoid infinite recursion
// when startPoint links into a cycle it isn't itself a member of.
//
// Depth is bounded by the number of objects in play; pg_dump relies on
// ordinary call-stack recursion here and so does this port, since that
// bound is never large enough in practice to risk overflow.
func findLoop(
	obj *DumpableObject,
	startPoint DumpId,
	processed []bool,
	searchFailed []DumpId,
	workspace []*DumpableObject,
	depth int,
	cat Catalog,
) int {
	if processed[obj.DumpId] {
		return 0
	}
	if searchFailed[obj.DumpId] == startPoint {
		return 0
	}
	for i := 0; i < depth; i++ {
		if workspace[i] == obj {
			return 0
		}
	}

	workspace[depth] = obj
	depth++

	for _, dep := range obj.Dependencies {
		if dep == startPoint {
			return depth
		}
	}

	for _, dep := range obj.Dependencies {
		next, ok := cat.FindByDumpID(dep)
		if !ok {
			continue // ignore dependencies on undumped objects
		}
		if n := findLoop(next, startPoint, processed, searchFailed, workspace, depth, cat); n > 0 {
			return n
		}
	}

	searchFailed[obj.DumpId] = startPoint
	return 0
}

// findDependencyLoops walks topoSort's failure remnant, handing every loop
// it finds to the repairer until the remnant is exhausted. It is a fatal
// invariant violation to complete a full pass identifying no loop at all,
// since topoSort just reported a failure — a cycle must exist somewhere in
// the remnant.
func findDependencyLoops(ctx Context, remnant []*DumpableObject, totalObjs int) error {
	maxID := ctx.Catalog.MaxDumpID()
	processed := make([]bool, maxID+1)
	searchFailed := make([]DumpId, maxID+1)
	workspace := make([]*DumpableObject, totalObjs)

	fixedAny := false

	for _, obj := range remnant {
		length := findLoop(obj, obj.DumpId, processed, searchFailed, workspace, 0, ctx.Catalog)
		if length > 0 {
			loop := append([]*DumpableObject(nil), workspace[:length]...)
			repairDependencyLoop(ctx, loop)
			fixedAny = true
			for _, member := range loop {
				processed[member.DumpId] = true
			}
		} else {
			processed[obj.DumpId] = true
		}
	}

	if !fixedAny {
		return &InvariantError{Op: "findDependencyLoops", Err: errNoLoopFound}
	}
	return nil
}
