package dumpsort

import (
	"log/slog"
	"sort"

	"github.com/pgschema/pgschema/internal/logger"
)

// Context threads the per-call state the original implementation held in
// two process-scope globals (preDataBoundId, postDataBoundId) plus its
// logging sink, so that a Sort call is a pure function of its arguments
// rather than depending on package-level mutable state.
type Context struct {
	Catalog      Catalog
	PreBoundary  DumpId
	PostBoundary DumpId
	Logger       *slog.Logger
}

func (c Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Get()
}

// SortByTypeName sorts objs into the canonical type/name order: priority
// band, namespace, name, kind, then kind-specific natural-key tiebreakers.
// It is the pre-sort step and is also useful standalone as a deterministic
// ordering that ignores dependency edges entirely.
//
// cat is consulted only for the FUNC/AGG/OPERATOR/OPCLASS/OPFAMILY
// tiebreakers; pass nil if objs contains none of those kinds.
func SortByTypeName(objs []*DumpableObject, cat Catalog) {
	if len(objs) <= 1 {
		return
	}
	sort.SliceStable(objs, func(i, j int) bool {
		return compare(objs[i], objs[j], cat) < 0
	})
}

// Sort performs the canonical sort followed by the loop-repair-driven
// topological sort, and writes the final legal emission order back into
// objs. ctx.PreBoundary and ctx.PostBoundary are the DumpIds of the two
// boundary objects; ctx.PostBoundary is used during loop repair to push
// newly-separated objects into the post-data section.
//
// Sort returns a non-nil *InvariantError only for conditions that indicate
// a malformed input universe (bad DumpId, bad dependency id, or a finder
// pass that found no loop when one was expected) — every other condition
// (catalog corruption during tiebreaking, circular foreign keys, an
// unrecognized cycle shape) is handled internally, logged, and does not
// prevent Sort from returning a legal ordering.
func Sort(ctx Context, objs []*DumpableObject) error {
	if len(objs) == 0 {
		return nil
	}

	SortByTypeName(objs, ctx.Catalog)

	for {
		result, err := topoSort(objs, ctx.Catalog)
		if err != nil {
			return err
		}
		if result.ok {
			copy(objs, result.ordering)
			return nil
		}
		if err := findDependencyLoops(ctx, result.remnant, len(objs)); err != nil {
			return err
		}
	}
}
