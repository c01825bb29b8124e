package dumpsort

import "strings"

// compare is the canonical type/name comparator: a strict total order over
// object handles, layered so that the first layer producing a non-zero
// result wins. It is used both as the pre-sort that SortByTypeName performs
// and as the tie-break criterion the topological sort is built to perturb
// as little as possible.
//
// The comparator must be stable under repeated calls on unchanged input: no
// randomness, no mutable state beyond the read-only Catalog.
func compare(a, b *DumpableObject, cat Catalog) int {
	if c := kindPriority[a.Kind] - kindPriority[b.Kind]; c != 0 {
		return c
	}

	// Namespace: an object with no namespace sorts after one with a
	// namespace. This only arises at priority boundaries where kinds mix.
	switch {
	case a.Namespace != nil && b.Namespace != nil:
		if c := strings.Compare(a.Namespace.Name, b.Namespace.Name); c != 0 {
			return c
		}
	case a.Namespace != nil:
		return -1
	case b.Namespace != nil:
		return 1
	}

	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}

	// Kind tag: disambiguates kinds sharing a priority band (OPCLASS vs
	// OPFAMILY, TYPE vs SHELL_TYPE) without a unique-name constraint.
	if c := int(a.Kind) - int(b.Kind); c != 0 {
		return c
	}

	if c := kindTiebreak(a, b, cat); c != 0 {
		return c
	}

	// Last resort: catalog corruption. Sort by OID so output is at least
	// deterministic. This is not an error, and nothing is logged for it.
	return int(a.CatId.Oid) - int(b.CatId.Oid)
}

func kindTiebreak(a, b *DumpableObject, cat Catalog) int {
	switch a.Kind {
	case KindFunc, KindAgg:
		if c := a.NArgs - b.NArgs; c != 0 {
			return c
		}
		for i := 0; i < a.NArgs && i < len(a.ArgTypes) && i < len(b.ArgTypes); i++ {
			if c := typeNameCompare(a.ArgTypes[i], b.ArgTypes[i], cat); c != 0 {
				return c
			}
		}
		return 0

	case KindOperator:
		// oprkind is 'l' (prefix), 'b' (infix), or 'r' (postfix); sort
		// prefix before infix before postfix.
		if c := oprkindRank(a.OprKind) - oprkindRank(b.OprKind); c != 0 {
			return c
		}
		if c := typeNameCompare(a.OprLeft, b.OprLeft, cat); c != 0 {
			return c
		}
		return typeNameCompare(a.OprRight, b.OprRight, cat)

	case KindOpClass, KindOpFamily:
		return accessMethodNameCompare(a.Method, b.Method, cat)

	case KindCollation:
		return int(a.Encoding) - int(b.Encoding)

	case KindAttrDef:
		return int(a.AdNum) - int(b.AdNum)

	case KindPolicy, KindRule, KindTrigger:
		// The owning table's namespace was already considered in the
		// namespace layer above.
		return strings.Compare(tableName(a.OwningTable), tableName(b.OwningTable))

	case KindConstraint:
		// Domain constraints sort before table constraints, for consistency
		// with sorting CREATE DOMAIN before CREATE TABLE.
		switch {
		case a.CondDomain != nil && b.CondDomain != nil:
			return strings.Compare(a.CondDomain.Name, b.CondDomain.Name)
		case a.CondDomain != nil:
			return kindPriority[KindType] - kindPriority[KindTable]
		case b.CondDomain != nil:
			return kindPriority[KindTable] - kindPriority[KindType]
		default:
			return strings.Compare(tableName(a.ConTable), tableName(b.ConTable))
		}

	case KindPublicationRel, KindPublicationTableInSchema:
		return strings.Compare(publicationName(a.Publication), publicationName(b.Publication))

	default:
		return 0
	}
}

func oprkindRank(k byte) int {
	switch k {
	case 'l':
		return 0
	case 'b':
		return 1
	case 'r':
		return 2
	default:
		return 3
	}
}

func tableName(t *DumpableObject) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func publicationName(p *DumpableObject) string {
	if p == nil {
		return ""
	}
	return p.Name
}

// typeNameCompare compares two pg_type OIDs by (namespace name, type name).
// A missing lookup is treated as catalog corruption: report "equal" so the
// caller falls through to its next tiebreak layer.
func typeNameCompare(t1, t2 Oid, cat Catalog) int {
	if t1 == t2 {
		return 0
	}
	r1, ok1 := cat.FindTypeByOid(t1)
	r2, ok2 := cat.FindTypeByOid(t2)
	if !ok1 || !ok2 {
		return 0
	}
	if c := strings.Compare(r1.NamespaceName, r2.NamespaceName); c != 0 {
		return c
	}
	return strings.Compare(r1.Name, r2.Name)
}

// accessMethodNameCompare compares two pg_am OIDs by name, with the same
// catalog-corruption contract as typeNameCompare.
func accessMethodNameCompare(am1, am2 Oid, cat Catalog) int {
	if am1 == am2 {
		return 0
	}
	r1, ok1 := cat.FindAccessMethodByOid(am1)
	r2, ok2 := cat.FindAccessMethodByOid(am2)
	if !ok1 || !ok2 {
		return 0
	}
	return strings.Compare(r1.Name, r2.Name)
}
