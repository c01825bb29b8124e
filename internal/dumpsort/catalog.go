package dumpsort

// Catalog is the read-only lookup interface the sorter's host must provide.
// Implementations must be stable (no mutation) for the duration of a Sort
// call; the sorter never queries a live database itself.
type Catalog interface {
	// FindByDumpID resolves a dependency edge to the object it targets.
	// Edges to ids with no resolution are "undumped" and silently ignored
	// everywhere they're encountered, matching the upstream tool's own
	// behavior.
	FindByDumpID(id DumpId) (*DumpableObject, bool)

	// FindTypeByOid resolves a pg_type OID to its natural key, used only for
	// FUNC/AGG/OPERATOR tiebreaking. A missing OID is catalog corruption:
	// callers must treat it as "equal" rather than erroring.
	FindTypeByOid(oid Oid) (TypeRef, bool)

	// FindAccessMethodByOid resolves a pg_am OID to its name, used only for
	// OPCLASS/OPFAMILY tiebreaking. Same missing-OID contract as above.
	FindAccessMethodByOid(oid Oid) (AccessMethodRef, bool)

	// MaxDumpID returns the largest DumpId assigned to any object in the
	// universe this call is sorting. Used to size dense DumpId-indexed
	// workspaces.
	MaxDumpID() DumpId
}

// TypeRef is the natural key of a pg_type row: its namespace name and its
// own name. The sorter never needs more of a type than this.
type TypeRef struct {
	NamespaceName string
	Name          string
}

// AccessMethodRef is the natural key of a pg_am row.
type AccessMethodRef struct {
	Name string
}
