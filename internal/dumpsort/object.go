package dumpsort

// DumpId identifies an object for the lifetime of a single sort call. Valid
// ids are dense positive integers 1..MaxDumpId; 0 means "none".
type DumpId int

// Oid is a catalog object identifier, opaque to the sorter except as a
// last-resort tiebreaker and in diagnostics.
type Oid uint32

// CatalogID is the catalog identity of an object: the OID of the system
// catalog it lives in, plus its own OID within that catalog.
type CatalogID struct {
	TableOid Oid
	Oid      Oid
}

// DumpComponents is a bitset selecting which facets of an object to emit.
type DumpComponents uint32

const DumpNone DumpComponents = 0

const (
	DumpDefinition DumpComponents = 1 << iota
	DumpData
	DumpACL
	DumpComment
	DumpSecLabel
	DumpPolicy
)

// Namespace is the minimal view of a schema the comparator needs: its name,
// for lexicographic ordering.
type Namespace struct {
	Name string
}

// Table is the minimal view of a table/view/matview the comparator and
// repairer need for natural-key tiebreaking and cycle recognition.
type Table struct {
	Name         string
	RelKind      byte // 'r', 'v', 'm', ...
	DummyView    bool
	PostponedDef bool
	AttNames     []string
}

const (
	RelKindView    = 'v'
	RelKindMatview = 'm'
)

// Type is the minimal view of a pg_type row the comparator and repairer
// need: its natural key (namespace, name) and, for domains and base types,
// its cross-references.
type Type struct {
	Namespace *Namespace
	Name      string
	ShellType *DumpableObject // non-nil only for DO_TYPE objects with a shell
}

// DumpableObject is the polymorphic base every sortable object shares: a
// common header plus a kind-specific payload. Modeled as a single struct
// with kind-specific fields (a tagged union) rather than an interface
// hierarchy, since the comparator, repairer, and describer all need to
// switch on Kind directly and no open extension point is required.
type DumpableObject struct {
	DumpId       DumpId
	CatId        CatalogID
	Kind         Kind
	Name         string
	Namespace    *Namespace
	Dependencies []DumpId
	Dump         DumpComponents

	// FUNC / AGG
	NArgs         int
	ArgTypes      []Oid
	PostponedDef  bool

	// OPERATOR
	OprKind  byte // 'l', 'r', 'b'
	OprLeft  Oid
	OprRight Oid

	// OPCLASS / OPFAMILY
	Method Oid

	// COLLATION
	Encoding int32

	// ATTRDEF
	AdTable *DumpableObject // owning TABLE
	AdNum   int16
	Separate bool

	// POLICY / RULE / TRIGGER
	OwningTable *DumpableObject

	// RULE specifics, for the view/rule cycle patterns
	EvType    byte // '1' for ON SELECT
	IsInstead bool

	// CONSTRAINT
	ConType    byte // 'c' (check), 'n' (not null), 'f' (foreign key), ...
	CondDomain *DumpableObject // owning TYPE, for domain constraints
	ConTable   *DumpableObject // owning TABLE, for table constraints

	// PUBLICATION_REL / PUBLICATION_TABLE_IN_SCHEMA
	Publication *DumpableObject

	// TYPE
	ShellType *DumpableObject

	// TABLE
	RelKind   byte
	DummyView bool
	AttNames  []string

	// INDEX
	ParentIdx Oid

	// REL_STATS
	Section Section

	// CAST
	CastSource Oid
	CastTarget Oid

	// TRANSFORM
	TrfType Oid
	TrfLang Oid
}

// Section names the pre-data/data/post-data band a REL_STATS entry belongs
// to; repair may flip this for a matview's statistics object.
type Section int

const (
	SectionPreData Section = iota
	SectionData
	SectionPostData
)

const (
	ConTypeCheck      = 'c'
	ConTypeNotNull    = 'n'
	ConTypeForeignKey = 'f'
)

// AddDependency records that obj must be emitted after the object with id.
// Duplicate edges are permitted; order is preserved but not semantically
// significant.
func (obj *DumpableObject) AddDependency(id DumpId) {
	obj.Dependencies = append(obj.Dependencies, id)
}

// RemoveDependency removes every edge from obj to id, if present.
func (obj *DumpableObject) RemoveDependency(id DumpId) {
	out := obj.Dependencies[:0]
	for _, d := range obj.Dependencies {
		if d != id {
			out = append(out, d)
		}
	}
	obj.Dependencies = out
}
