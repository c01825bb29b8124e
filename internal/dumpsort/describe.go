package dumpsort

import "fmt"

// Describe renders a single-line human description of obj, the same line
// internal repair diagnostics use. Exported so a host driving Sort can
// render the same diagnostic for its own logging or CLI output.
func Describe(obj *DumpableObject) string {
	return describe(obj)
}

// describe renders a single-line human description of obj, used in
// diagnostics for unrecognized dependency loops. The switch is exhaustive
// over Kind; the default case only fires on a programmer error (a Kind
// added without a describe case).
func describe(obj *DumpableObject) string {
	switch obj.Kind {
	case KindNamespace:
		return fmt.Sprintf("SCHEMA %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindExtension:
		return fmt.Sprintf("EXTENSION %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindType:
		return fmt.Sprintf("TYPE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindShellType:
		return fmt.Sprintf("SHELL TYPE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindFunc:
		return fmt.Sprintf("FUNCTION %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindAgg:
		return fmt.Sprintf("AGGREGATE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindOperator:
		return fmt.Sprintf("OPERATOR %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindAccessMethod:
		return fmt.Sprintf("ACCESS METHOD %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindOpClass:
		return fmt.Sprintf("OPERATOR CLASS %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindOpFamily:
		return fmt.Sprintf("OPERATOR FAMILY %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindCollation:
		return fmt.Sprintf("COLLATION %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindConversion:
		return fmt.Sprintf("CONVERSION %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTable:
		return fmt.Sprintf("TABLE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTableAttach:
		return fmt.Sprintf("TABLE ATTACH %s  (ID %d)", obj.Name, obj.DumpId)
	case KindAttrDef:
		colName := ""
		if obj.AdTable != nil && int(obj.AdNum) >= 1 && int(obj.AdNum) <= len(obj.AdTable.AttNames) {
			colName = obj.AdTable.AttNames[obj.AdNum-1]
		}
		tableName := ""
		if obj.AdTable != nil {
			tableName = obj.AdTable.Name
		}
		return fmt.Sprintf("ATTRDEF %s.%s  (ID %d OID %d)", tableName, colName, obj.DumpId, obj.CatId.Oid)
	case KindIndex:
		return fmt.Sprintf("INDEX %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindIndexAttach:
		return fmt.Sprintf("INDEX ATTACH %s  (ID %d)", obj.Name, obj.DumpId)
	case KindStatsExt:
		return fmt.Sprintf("STATISTICS %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindRefreshMatview:
		return fmt.Sprintf("REFRESH MATERIALIZED VIEW %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindRule:
		return fmt.Sprintf("RULE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTrigger:
		return fmt.Sprintf("TRIGGER %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindEventTrigger:
		return fmt.Sprintf("EVENT TRIGGER %s (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindConstraint:
		return fmt.Sprintf("CONSTRAINT %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindFKConstraint:
		return fmt.Sprintf("FK CONSTRAINT %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindProcLang:
		return fmt.Sprintf("PROCEDURAL LANGUAGE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindCast:
		return fmt.Sprintf("CAST %d to %d  (ID %d OID %d)", obj.CastSource, obj.CastTarget, obj.DumpId, obj.CatId.Oid)
	case KindTransform:
		return fmt.Sprintf("TRANSFORM %d lang %d  (ID %d OID %d)", obj.TrfType, obj.TrfLang, obj.DumpId, obj.CatId.Oid)
	case KindTableData:
		return fmt.Sprintf("TABLE DATA %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindSequenceSet:
		return fmt.Sprintf("SEQUENCE SET %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindDummyType:
		return fmt.Sprintf("DUMMY TYPE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTSParser:
		return fmt.Sprintf("TEXT SEARCH PARSER %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTSDict:
		return fmt.Sprintf("TEXT SEARCH DICTIONARY %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTSTemplate:
		return fmt.Sprintf("TEXT SEARCH TEMPLATE %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindTSConfig:
		return fmt.Sprintf("TEXT SEARCH CONFIGURATION %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindFDW:
		return fmt.Sprintf("FOREIGN DATA WRAPPER %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindForeignServer:
		return fmt.Sprintf("FOREIGN SERVER %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindDefaultACL:
		return fmt.Sprintf("DEFAULT ACL %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	case KindLargeObject:
		return fmt.Sprintf("LARGE OBJECT  (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindLargeObjectData:
		return fmt.Sprintf("LARGE OBJECT DATA  (ID %d)", obj.DumpId)
	case KindPolicy:
		return fmt.Sprintf("POLICY (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindPublication:
		return fmt.Sprintf("PUBLICATION (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindPublicationRel:
		return fmt.Sprintf("PUBLICATION TABLE (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindPublicationTableInSchema:
		return fmt.Sprintf("PUBLICATION TABLES IN SCHEMA (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindSubscription:
		return fmt.Sprintf("SUBSCRIPTION (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindSubscriptionRel:
		return fmt.Sprintf("SUBSCRIPTION TABLE (ID %d OID %d)", obj.DumpId, obj.CatId.Oid)
	case KindPreDataBoundary:
		return fmt.Sprintf("PRE-DATA BOUNDARY  (ID %d)", obj.DumpId)
	case KindPostDataBoundary:
		return fmt.Sprintf("POST-DATA BOUNDARY  (ID %d)", obj.DumpId)
	case KindRelStats:
		return fmt.Sprintf("RELATION STATISTICS FOR %s  (ID %d OID %d)", obj.Name, obj.DumpId, obj.CatId.Oid)
	default:
		return fmt.Sprintf("object type %d  (ID %d OID %d)", int(obj.Kind), obj.DumpId, obj.CatId.Oid)
	}
}
