// Package dumpsort orders a set of database schema objects into a linear,
// dependency-safe emission sequence. It reproduces the ordering rules of a
// dump tool's "sort objects into a safe order" pass: a canonical type/name
// sort, a stable topological sort layered on top of it, and a pattern-based
// repairer for the small, finite catalogue of dependency cycles that a
// relational catalog is known to produce.
//
// The package owns no I/O, no catalog access, and no concurrency; it is a
// pure function of the object set and the dependency edges it is given.
package dumpsort

// Kind tags the closed set of object types the sorter knows how to order.
// The set mirrors the dump tool's own object taxonomy; it is closed because
// the comparator, repairer, and describer each switch exhaustively over it.
type Kind int

const (
	KindNamespace Kind = iota
	KindExtension
	KindType
	KindShellType
	KindFunc
	KindAgg
	KindOperator
	KindAccessMethod
	KindOpClass
	KindOpFamily
	KindCollation
	KindConversion
	KindTable
	KindTableAttach
	KindAttrDef
	KindIndex
	KindIndexAttach
	KindStatsExt
	KindRule
	KindTrigger
	KindEventTrigger
	KindConstraint
	KindFKConstraint
	KindProcLang
	KindCast
	KindTableData
	KindSequenceSet
	KindDummyType
	KindTSParser
	KindTSDict
	KindTSTemplate
	KindTSConfig
	KindFDW
	KindForeignServer
	KindDefaultACL
	KindTransform
	KindLargeObject
	KindLargeObjectData
	KindPreDataBoundary
	KindPostDataBoundary
	KindPolicy
	KindPublication
	KindPublicationRel
	KindPublicationTableInSchema
	KindSubscription
	KindSubscriptionRel
	KindRelStats
	KindRefreshMatview

	kindCount
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	KindNamespace:                "NAMESPACE",
	KindExtension:                "EXTENSION",
	KindType:                     "TYPE",
	KindShellType:                "SHELL_TYPE",
	KindFunc:                     "FUNC",
	KindAgg:                      "AGG",
	KindOperator:                 "OPERATOR",
	KindAccessMethod:             "ACCESS_METHOD",
	KindOpClass:                  "OPCLASS",
	KindOpFamily:                 "OPFAMILY",
	KindCollation:                "COLLATION",
	KindConversion:               "CONVERSION",
	KindTable:                    "TABLE",
	KindTableAttach:              "TABLE_ATTACH",
	KindAttrDef:                  "ATTRDEF",
	KindIndex:                    "INDEX",
	KindIndexAttach:              "INDEX_ATTACH",
	KindStatsExt:                 "STATSEXT",
	KindRule:                     "RULE",
	KindTrigger:                  "TRIGGER",
	KindEventTrigger:             "EVENT_TRIGGER",
	KindConstraint:               "CONSTRAINT",
	KindFKConstraint:             "FK_CONSTRAINT",
	KindProcLang:                 "PROCLANG",
	KindCast:                     "CAST",
	KindTableData:                "TABLE_DATA",
	KindSequenceSet:              "SEQUENCE_SET",
	KindDummyType:                "DUMMY_TYPE",
	KindTSParser:                 "TSPARSER",
	KindTSDict:                   "TSDICT",
	KindTSTemplate:               "TSTEMPLATE",
	KindTSConfig:                 "TSCONFIG",
	KindFDW:                      "FDW",
	KindForeignServer:            "FOREIGN_SERVER",
	KindDefaultACL:               "DEFAULT_ACL",
	KindTransform:                "TRANSFORM",
	KindLargeObject:              "LARGE_OBJECT",
	KindLargeObjectData:          "LARGE_OBJECT_DATA",
	KindPreDataBoundary:          "PRE_DATA_BOUNDARY",
	KindPostDataBoundary:         "POST_DATA_BOUNDARY",
	KindPolicy:                   "POLICY",
	KindPublication:              "PUBLICATION",
	KindPublicationRel:           "PUBLICATION_REL",
	KindPublicationTableInSchema: "PUBLICATION_TABLE_IN_SCHEMA",
	KindSubscription:             "SUBSCRIPTION",
	KindSubscriptionRel:          "SUBSCRIPTION_REL",
	KindRelStats:                 "REL_STATS",
	KindRefreshMatview:           "REFRESH_MATVIEW",
}

// Priority levels in emission order. Triggers sort very late so they cannot
// interfere with data load; event triggers next-to-last so they cannot
// interfere with any DDL replay; matview refreshes last of all, so they run
// against the database's final state (notably after ACLs are restored).
//
// Casts sort earlier than FUNC even though they logically depend on
// functions: the topological sort that follows will hoist each function a
// cast needs above the cast, and views depending on those functions follow
// along. Placing casts early minimizes needless hoisting elsewhere.
const (
	prioNamespace = iota + 1
	prioProcLang
	prioCollation
	prioTransform
	prioExtension
	prioType // also SHELL_TYPE
	prioCast
	prioFunc
	prioAgg
	prioAccessMethod
	prioOperator
	prioOpFamily // also OPCLASS
	prioConversion
	prioTSParser
	prioTSTemplate
	prioTSDict
	prioTSConfig
	prioFDW
	prioForeignServer
	prioTable
	prioTableAttach
	prioDummyType
	prioAttrDef
	prioPreDataBoundary
	prioTableData
	prioSequenceSet
	prioLargeObject
	prioLargeObjectData
	prioRelStats
	prioPostDataBoundary
	prioConstraint
	prioIndex
	prioIndexAttach
	prioStatsExt
	prioRule
	prioTrigger
	prioFKConstraint
	prioPolicy
	prioPublication
	prioPublicationRel
	prioPublicationTableInSchema
	prioSubscription
	prioSubscriptionRel
	prioDefaultACL
	prioEventTrigger
	prioRefreshMatview
)

var kindPriority [kindCount]int

func init() {
	set := func(k Kind, p int) { kindPriority[k] = p }

	set(KindNamespace, prioNamespace)
	set(KindExtension, prioExtension)
	set(KindType, prioType)
	set(KindShellType, prioType)
	set(KindFunc, prioFunc)
	set(KindAgg, prioAgg)
	set(KindOperator, prioOperator)
	set(KindAccessMethod, prioAccessMethod)
	set(KindOpClass, prioOpFamily)
	set(KindOpFamily, prioOpFamily)
	set(KindCollation, prioCollation)
	set(KindConversion, prioConversion)
	set(KindTable, prioTable)
	set(KindTableAttach, prioTableAttach)
	set(KindAttrDef, prioAttrDef)
	set(KindIndex, prioIndex)
	set(KindIndexAttach, prioIndexAttach)
	set(KindStatsExt, prioStatsExt)
	set(KindRule, prioRule)
	set(KindTrigger, prioTrigger)
	set(KindConstraint, prioConstraint)
	set(KindFKConstraint, prioFKConstraint)
	set(KindProcLang, prioProcLang)
	set(KindCast, prioCast)
	set(KindTableData, prioTableData)
	set(KindSequenceSet, prioSequenceSet)
	set(KindDummyType, prioDummyType)
	set(KindTSParser, prioTSParser)
	set(KindTSDict, prioTSDict)
	set(KindTSTemplate, prioTSTemplate)
	set(KindTSConfig, prioTSConfig)
	set(KindFDW, prioFDW)
	set(KindForeignServer, prioForeignServer)
	set(KindDefaultACL, prioDefaultACL)
	set(KindTransform, prioTransform)
	set(KindLargeObject, prioLargeObject)
	set(KindLargeObjectData, prioLargeObjectData)
	set(KindPreDataBoundary, prioPreDataBoundary)
	set(KindPostDataBoundary, prioPostDataBoundary)
	set(KindEventTrigger, prioEventTrigger)
	set(KindRefreshMatview, prioRefreshMatview)
	set(KindPolicy, prioPolicy)
	set(KindPublication, prioPublication)
	set(KindPublicationRel, prioPublicationRel)
	set(KindPublicationTableInSchema, prioPublicationTableInSchema)
	set(KindRelStats, prioRelStats)
	set(KindSubscription, prioSubscription)
	set(KindSubscriptionRel, prioSubscriptionRel)

	for k := Kind(0); k < kindCount; k++ {
		if kindPriority[k] == 0 {
			panic("dumpsort: kind priority table is missing an entry for " + k.String())
		}
	}
}
