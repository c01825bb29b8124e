package dumpsort

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// circularFKFormat is both the message key and the untranslated fallback
// format registered with the message catalog below; golang.org/x/text
// keys translations by the literal format string passed to Sprintf, so the
// two must match exactly.
const circularFKFormat = "there are circular foreign-key constraints on these %d table(s):"

var pluralMessages *message.Printer

func init() {
	message.Set(language.English, circularFKFormat,
		plural.Selectf(1, "%d",
			plural.One, "there are circular foreign-key constraints on this table:",
			plural.Other, "there are circular foreign-key constraints among these tables:",
		),
	)
	pluralMessages = message.NewPrinter(language.English)
}

// repairDependencyLoop fixes one dependency loop reported by the finder, or
// logs and breaks it arbitrarily if no known shape matches. Matching is
// ordered: the first pattern that fits the loop's shape wins. Every path
// strictly reduces edge count or removes at least one cycle, so repeatedly
// alternating topoSort/repair terminates.
func repairDependencyLoop(ctx Context, loop []*DumpableObject) {
	n := len(loop)
	logger := ctx.logger()

	// Datatype and one of its I/O or canonicalize functions.
	if n == 2 && loop[0].Kind == KindType && loop[1].Kind == KindFunc {
		repairTypeFuncLoop(loop[0], loop[1])
		return
	}
	if n == 2 && loop[1].Kind == KindType && loop[0].Kind == KindFunc {
		repairTypeFuncLoop(loop[1], loop[0])
		return
	}

	// View (including matview) and its ON SELECT rule.
	if n == 2 && isViewRulePair(loop[0], loop[1]) {
		repairViewRuleLoop(loop[1])
		return
	}
	if n == 2 && isViewRulePair(loop[1], loop[0]) {
		repairViewRuleLoop(loop[0])
		return
	}

	// Indirect loop involving a (non-matview) view and its ON SELECT rule.
	if n > 2 {
		for i := range loop {
			if loop[i].Kind != KindTable || loop[i].RelKind != RelKindView {
				continue
			}
			for j := range loop {
				if isOwnedOnSelectRule(loop[j], loop[i]) {
					repairViewRuleMultiLoop(ctx, loop[i], loop[j])
					return
				}
			}
		}
	}

	// Indirect loop involving a matview and the pre/post-data boundary.
	if n > 2 {
		for i := range loop {
			switch {
			case loop[i].Kind == KindTable && loop[i].RelKind == RelKindMatview:
				for j := range loop {
					if loop[j].Kind == KindPreDataBoundary {
						next := loop[(j+1)%n]
						repairMatViewBoundaryMultiLoop(loop[j], next)
						return
					}
				}
			case loop[i].Kind == KindRelStats && loop[i].RelKind == RelKindMatview:
				for j := range loop {
					if loop[j].Kind == KindPostDataBoundary {
						next := loop[(j+1)%n]
						repairMatViewBoundaryMultiLoop(loop[j], next)
						return
					}
				}
			}
		}
	}

	// Indirect loop involving a function and the pre-data boundary.
	if n > 2 {
		for i := range loop {
			if loop[i].Kind != KindFunc {
				continue
			}
			for j := range loop {
				if loop[j].Kind == KindPreDataBoundary {
					next := loop[(j+1)%n]
					repairFunctionBoundaryMultiLoop(loop[j], next)
					return
				}
			}
		}
	}

	// Table and its CHECK constraint.
	if n == 2 && isTableCheckConstraintPair(loop[0], loop[1]) {
		repairTableConstraintLoop(loop[1])
		return
	}
	if n == 2 && isTableCheckConstraintPair(loop[1], loop[0]) {
		repairTableConstraintLoop(loop[0])
		return
	}

	// Indirect loop involving a table and its CHECK constraint.
	if n > 2 {
		for i := range loop {
			if loop[i].Kind != KindTable {
				continue
			}
			for j := range loop {
				if loop[j].Kind == KindConstraint && loop[j].ConType == ConTypeCheck && loop[j].ConTable == loop[i] {
					repairTableConstraintMultiLoop(ctx, loop[i], loop[j])
					return
				}
			}
		}
	}

	// Table and an attribute default.
	if n == 2 && loop[0].Kind == KindTable && loop[1].Kind == KindAttrDef && loop[1].AdTable == loop[0] {
		repairTableAttrDefLoop(loop[1])
		return
	}
	if n == 2 && loop[1].Kind == KindTable && loop[0].Kind == KindAttrDef && loop[0].AdTable == loop[1] {
		repairTableAttrDefLoop(loop[0])
		return
	}

	// Index on a partitioned table and the matching index on a partition.
	if n == 2 && loop[0].Kind == KindIndex && loop[1].Kind == KindIndex {
		switch {
		case loop[0].ParentIdx == loop[1].CatId.Oid:
			repairIndexLoop(loop[0], loop[1])
			return
		case loop[1].ParentIdx == loop[0].CatId.Oid:
			repairIndexLoop(loop[1], loop[0])
			return
		}
	}

	// Indirect loop involving a table and an attribute default.
	if n > 2 {
		for i := range loop {
			if loop[i].Kind != KindTable {
				continue
			}
			for j := range loop {
				if loop[j].Kind == KindAttrDef && loop[j].AdTable == loop[i] {
					repairTableAttrDefMultiLoop(loop[i], loop[j])
					return
				}
			}
		}
	}

	// Domain and a CHECK or NOT NULL constraint.
	if n == 2 && isDomainConstraintPair(loop[0], loop[1]) {
		repairDomainConstraintLoop(loop[1])
		return
	}
	if n == 2 && isDomainConstraintPair(loop[1], loop[0]) {
		repairDomainConstraintLoop(loop[0])
		return
	}

	// Indirect loop involving a domain and a CHECK or NOT NULL constraint.
	if n > 2 {
		for i := range loop {
			if loop[i].Kind != KindType {
				continue
			}
			for j := range loop {
				c := loop[j]
				if c.Kind == KindConstraint && (c.ConType == ConTypeCheck || c.ConType == ConTypeNotNull) && c.CondDomain == loop[i] {
					repairDomainConstraintMultiLoop(ctx, loop[i], c)
					return
				}
			}
		}
	}

	// A table depending on itself: arises from column-on-column or
	// column-on-table dependencies captured without sub-object granularity.
	if n == 1 && loop[0].Kind == KindTable {
		loop[0].RemoveDependency(loop[0].DumpId)
		return
	}

	// If every member is TABLE_DATA, the cause is a circular set of foreign
	// key constraints (or a single self-referential table).
	allTableData := true
	for _, m := range loop {
		if m.Kind != KindTableData {
			allTableData = false
			break
		}
	}
	if allTableData {
		logger.Warn(pluralMessages.Sprintf(circularFKFormat, n))
		for _, m := range loop {
			logger.Warn(m.Name)
		}
		logger.Warn("You might not be able to restore the dump without using --disable-triggers or temporarily dropping the constraints.")
		logger.Warn("Consider using a full dump instead of a --data-only dump to avoid this problem.")
		breakArbitrarily(loop)
		return
	}

	// No principled repair found: log every member and break arbitrarily.
	logger.Warn("could not resolve dependency loop among these items:")
	for _, m := range loop {
		logger.Warn(describe(m))
	}
	breakArbitrarily(loop)
}

func breakArbitrarily(loop []*DumpableObject) {
	if len(loop) > 1 {
		loop[0].RemoveDependency(loop[1].DumpId)
	} else {
		loop[0].RemoveDependency(loop[0].DumpId)
	}
}

func isViewRulePair(view, rule *DumpableObject) bool {
	return view.Kind == KindTable &&
		rule.Kind == KindRule &&
		(view.RelKind == RelKindView || view.RelKind == RelKindMatview) &&
		rule.EvType == '1' &&
		rule.IsInstead &&
		rule.OwningTable == view
}

// isOwnedOnSelectRule additionally requires the rule kind to be ON SELECT
// and owned by the given view, used by the indirect (non-matview) pattern
// which only ever looks for rule ownership, not a literal 2-cycle.
func isOwnedOnSelectRule(rule, view *DumpableObject) bool {
	return rule.Kind == KindRule && rule.EvType == '1' && rule.IsInstead && rule.OwningTable == view
}

func isTableCheckConstraintPair(table, constraint *DumpableObject) bool {
	return table.Kind == KindTable &&
		constraint.Kind == KindConstraint &&
		constraint.ConType == ConTypeCheck &&
		constraint.ConTable == table
}

func isDomainConstraintPair(domain, constraint *DumpableObject) bool {
	return domain.Kind == KindType &&
		constraint.Kind == KindConstraint &&
		(constraint.ConType == ConTypeCheck || constraint.ConType == ConTypeNotNull) &&
		constraint.CondDomain == domain
}

// repairTypeFuncLoop removes funcobj's dependency on typeobj and, if the
// type has a shell, retargets the function onto the shell instead — the
// same trick the catalog extraction layer uses to let CREATE TYPE's I/O
// functions forward-reference a type that doesn't exist in full yet.
func repairTypeFuncLoop(typeobj, funcobj *DumpableObject) {
	funcobj.RemoveDependency(typeobj.DumpId)
	if typeobj.ShellType != nil {
		funcobj.AddDependency(typeobj.ShellType.DumpId)
		if funcobj.Dump != DumpNone {
			typeobj.ShellType.Dump = funcobj.Dump | DumpDefinition
		}
	}
}

// repairViewRuleLoop handles the simple 2-cycle: drop the rule's implicit
// dependency on the view, leaving the explicit view-depends-on-rule edge
// the only one standing. Flags on both objects are already correct.
func repairViewRuleLoop(rule *DumpableObject) {
	rule.RemoveDependency(rule.OwningTable.DumpId)
}

// repairViewRuleMultiLoop handles the case where other objects sit in the
// cycle too: the ON SELECT rule must become its own, separately-dumped,
// post-data object. findLoop finds shorter cycles first, so the simple
// 2-cycle repair has likely already fired and removed the rule's
// dependency on the view; put it back so the rule still can't be emitted
// before the view it installs a query for. Does not apply to matviews.
func repairViewRuleMultiLoop(ctx Context, view, rule *DumpableObject) {
	view.RemoveDependency(rule.DumpId)
	view.DummyView = true
	rule.Separate = true
	rule.AddDependency(view.DumpId)
	rule.AddDependency(ctx.PostBoundary)
}

// repairMatViewBoundaryMultiLoop can't split a matview's definition from
// its data the way a view's rule can be split out, so instead it drops the
// constraint that the matview (or its statistics) be dumped in pre-data.
// May be called repeatedly while a loop is deconstructed one edge at a
// time; each call only ever postpones the one "next" object in the loop.
func repairMatViewBoundaryMultiLoop(boundary, next *DumpableObject) {
	boundary.RemoveDependency(next.DumpId)
	switch {
	case next.Kind == KindTable && next.RelKind == RelKindMatview:
		next.PostponedDef = true
	case next.Kind == KindRelStats && next.RelKind == RelKindMatview:
		next.Section = SectionPostData
	}
}

// repairFunctionBoundaryMultiLoop is the function analogue: drop the
// pre-data constraint on the function following the boundary in the loop.
func repairFunctionBoundaryMultiLoop(boundary, next *DumpableObject) {
	boundary.RemoveDependency(next.DumpId)
	if next.Kind == KindFunc {
		next.PostponedDef = true
	}
}

func repairTableConstraintLoop(constraint *DumpableObject) {
	constraint.RemoveDependency(constraint.ConTable.DumpId)
}

func repairTableConstraintMultiLoop(ctx Context, table, constraint *DumpableObject) {
	table.RemoveDependency(constraint.DumpId)
	constraint.Separate = true
	constraint.AddDependency(table.DumpId)
	constraint.AddDependency(ctx.PostBoundary)
}

func repairTableAttrDefLoop(attrdef *DumpableObject) {
	attrdef.RemoveDependency(attrdef.AdTable.DumpId)
}

func repairTableAttrDefMultiLoop(table, attrdef *DumpableObject) {
	table.RemoveDependency(attrdef.DumpId)
	attrdef.Separate = true
	attrdef.AddDependency(table.DumpId)
}

func repairDomainConstraintLoop(constraint *DumpableObject) {
	constraint.RemoveDependency(constraint.CondDomain.DumpId)
}

func repairDomainConstraintMultiLoop(ctx Context, domain, constraint *DumpableObject) {
	domain.RemoveDependency(constraint.DumpId)
	constraint.Separate = true
	constraint.AddDependency(domain.DumpId)
	constraint.AddDependency(ctx.PostBoundary)
}

func repairIndexLoop(partedIndex, partIndex *DumpableObject) {
	partedIndex.RemoveDependency(partIndex.DumpId)
}
