package sortcmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pgschema/pgschema/internal/dumpsort"
)

// document is the on-disk shape of a sort request: a flat object list plus
// the two boundary ids and any catalog side-tables needed to resolve the
// FUNC/AGG/OPERATOR/OPCLASS natural-key tiebreakers.
type document struct {
	PreBoundaryID  dumpsort.DumpId `json:"preBoundaryId"`
	PostBoundaryID dumpsort.DumpId `json:"postBoundaryId"`
	Types          []typeEntry     `json:"types"`
	AccessMethods  []amEntry       `json:"accessMethods"`
	Objects        []objectInput   `json:"objects"`
}

type typeEntry struct {
	Oid       dumpsort.Oid `json:"oid"`
	Namespace string       `json:"namespace"`
	Name      string       `json:"name"`
}

type amEntry struct {
	Oid  dumpsort.Oid `json:"oid"`
	Name string       `json:"name"`
}

// objectInput is the wire representation of one DumpableObject. Pointer-
// valued fields on the real struct (AdTable, OwningTable, ConTable,
// CondDomain, Publication, ShellType) are expressed here as DumpId
// references and resolved against the rest of the document in a second
// pass, since JSON has no notion of a back-reference into a sibling array
// element.
type objectInput struct {
	DumpID       dumpsort.DumpId   `json:"dumpId"`
	CatalogOid   dumpsort.Oid      `json:"oid"`
	Kind         string            `json:"kind"`
	Name         string            `json:"name"`
	Namespace    string            `json:"namespace"`
	Dependencies []dumpsort.DumpId `json:"dependencies"`

	NArgs        int            `json:"nargs"`
	ArgTypes     []dumpsort.Oid `json:"argTypes"`
	PostponedDef bool           `json:"postponedDef"`

	OprKind  string       `json:"oprKind"`
	OprLeft  dumpsort.Oid `json:"oprLeft"`
	OprRight dumpsort.Oid `json:"oprRight"`

	Method dumpsort.Oid `json:"method"`

	Encoding int32 `json:"encoding"`

	AdTableID dumpsort.DumpId `json:"adTableId"`
	AdNum     int16           `json:"adNum"`
	Separate  bool            `json:"separate"`

	OwningTableID dumpsort.DumpId `json:"owningTableId"`

	EvType    string `json:"evType"`
	IsInstead bool   `json:"isInstead"`

	ConType      string          `json:"conType"`
	CondDomainID dumpsort.DumpId `json:"condDomainId"`
	ConTableID   dumpsort.DumpId `json:"conTableId"`

	PublicationID dumpsort.DumpId `json:"publicationId"`

	ShellTypeID dumpsort.DumpId `json:"shellTypeId"`

	RelKind   string   `json:"relKind"`
	DummyView bool     `json:"dummyView"`
	AttNames  []string `json:"attNames"`

	ParentIdx dumpsort.Oid `json:"parentIdx"`

	Section string `json:"section"`

	CastSource dumpsort.Oid `json:"castSource"`
	CastTarget dumpsort.Oid `json:"castTarget"`

	TrfType dumpsort.Oid `json:"trfType"`
	TrfLang dumpsort.Oid `json:"trfLang"`
}

var kindByName = map[string]dumpsort.Kind{
	"NAMESPACE":                    dumpsort.KindNamespace,
	"EXTENSION":                    dumpsort.KindExtension,
	"TYPE":                         dumpsort.KindType,
	"SHELL_TYPE":                   dumpsort.KindShellType,
	"FUNC":                         dumpsort.KindFunc,
	"AGG":                          dumpsort.KindAgg,
	"OPERATOR":                     dumpsort.KindOperator,
	"ACCESS_METHOD":                dumpsort.KindAccessMethod,
	"OPCLASS":                      dumpsort.KindOpClass,
	"OPFAMILY":                     dumpsort.KindOpFamily,
	"COLLATION":                    dumpsort.KindCollation,
	"CONVERSION":                   dumpsort.KindConversion,
	"TABLE":                        dumpsort.KindTable,
	"TABLE_ATTACH":                 dumpsort.KindTableAttach,
	"ATTRDEF":                      dumpsort.KindAttrDef,
	"INDEX":                        dumpsort.KindIndex,
	"INDEX_ATTACH":                 dumpsort.KindIndexAttach,
	"STATSEXT":                     dumpsort.KindStatsExt,
	"RULE":                         dumpsort.KindRule,
	"TRIGGER":                      dumpsort.KindTrigger,
	"EVENT_TRIGGER":                dumpsort.KindEventTrigger,
	"CONSTRAINT":                   dumpsort.KindConstraint,
	"FK_CONSTRAINT":                dumpsort.KindFKConstraint,
	"PROCLANG":                     dumpsort.KindProcLang,
	"CAST":                         dumpsort.KindCast,
	"TABLE_DATA":                   dumpsort.KindTableData,
	"SEQUENCE_SET":                 dumpsort.KindSequenceSet,
	"DUMMY_TYPE":                   dumpsort.KindDummyType,
	"TSPARSER":                     dumpsort.KindTSParser,
	"TSDICT":                       dumpsort.KindTSDict,
	"TSTEMPLATE":                   dumpsort.KindTSTemplate,
	"TSCONFIG":                     dumpsort.KindTSConfig,
	"FDW":                          dumpsort.KindFDW,
	"FOREIGN_SERVER":               dumpsort.KindForeignServer,
	"DEFAULT_ACL":                  dumpsort.KindDefaultACL,
	"TRANSFORM":                    dumpsort.KindTransform,
	"LARGE_OBJECT":                 dumpsort.KindLargeObject,
	"LARGE_OBJECT_DATA":            dumpsort.KindLargeObjectData,
	"PRE_DATA_BOUNDARY":            dumpsort.KindPreDataBoundary,
	"POST_DATA_BOUNDARY":           dumpsort.KindPostDataBoundary,
	"POLICY":                       dumpsort.KindPolicy,
	"PUBLICATION":                  dumpsort.KindPublication,
	"PUBLICATION_REL":              dumpsort.KindPublicationRel,
	"PUBLICATION_TABLE_IN_SCHEMA":  dumpsort.KindPublicationTableInSchema,
	"SUBSCRIPTION":                 dumpsort.KindSubscription,
	"SUBSCRIPTION_REL":             dumpsort.KindSubscriptionRel,
	"REL_STATS":                    dumpsort.KindRelStats,
	"REFRESH_MATVIEW":              dumpsort.KindRefreshMatview,
}

var sectionByName = map[string]dumpsort.Section{
	"PRE_DATA":  dumpsort.SectionPreData,
	"DATA":      dumpsort.SectionData,
	"POST_DATA": dumpsort.SectionPostData,
}

func byteOf(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

// decode parses r into the object graph dumpsort.Sort operates on, plus
// the resolved catalog and boundary ids needed to call it.
func decode(r io.Reader) ([]*dumpsort.DumpableObject, *catalog, dumpsort.DumpId, dumpsort.DumpId, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, 0, 0, fmt.Errorf("decode input: %w", err)
	}

	namespaces := make(map[string]*dumpsort.Namespace)
	namespaceOf := func(name string) *dumpsort.Namespace {
		if name == "" {
			return nil
		}
		if ns, ok := namespaces[name]; ok {
			return ns
		}
		ns := &dumpsort.Namespace{Name: name}
		namespaces[name] = ns
		return ns
	}

	byID := make(map[dumpsort.DumpId]*dumpsort.DumpableObject, len(doc.Objects))
	objs := make([]*dumpsort.DumpableObject, 0, len(doc.Objects))
	var maxID dumpsort.DumpId

	for _, in := range doc.Objects {
		kind, ok := kindByName[in.Kind]
		if !ok {
			return nil, nil, 0, 0, fmt.Errorf("object %d: unknown kind %q", in.DumpID, in.Kind)
		}
		obj := &dumpsort.DumpableObject{
			DumpId:       in.DumpID,
			CatId:        dumpsort.CatalogID{Oid: in.CatalogOid},
			Kind:         kind,
			Name:         in.Name,
			Namespace:    namespaceOf(in.Namespace),
			Dependencies: append([]dumpsort.DumpId(nil), in.Dependencies...),
			Dump:         dumpsort.DumpDefinition,

			NArgs:        in.NArgs,
			ArgTypes:     in.ArgTypes,
			PostponedDef: in.PostponedDef,

			OprKind:  byteOf(in.OprKind),
			OprLeft:  in.OprLeft,
			OprRight: in.OprRight,

			Method: in.Method,

			Encoding: in.Encoding,

			AdNum:    in.AdNum,
			Separate: in.Separate,

			EvType:    byteOf(in.EvType),
			IsInstead: in.IsInstead,

			ConType: byteOf(in.ConType),

			RelKind:   byteOf(in.RelKind),
			DummyView: in.DummyView,
			AttNames:  in.AttNames,

			ParentIdx: in.ParentIdx,

			Section: sectionByName[in.Section],

			CastSource: in.CastSource,
			CastTarget: in.CastTarget,

			TrfType: in.TrfType,
			TrfLang: in.TrfLang,
		}
		if obj.DumpId > maxID {
			maxID = obj.DumpId
		}
		byID[obj.DumpId] = obj
		objs = append(objs, obj)
	}

	resolve := func(id dumpsort.DumpId) *dumpsort.DumpableObject {
		if id == 0 {
			return nil
		}
		return byID[id]
	}
	for i, in := range doc.Objects {
		obj := objs[i]
		obj.AdTable = resolve(in.AdTableID)
		obj.OwningTable = resolve(in.OwningTableID)
		obj.CondDomain = resolve(in.CondDomainID)
		obj.ConTable = resolve(in.ConTableID)
		obj.Publication = resolve(in.PublicationID)
		obj.ShellType = resolve(in.ShellTypeID)
	}

	types := make(map[dumpsort.Oid]dumpsort.TypeRef, len(doc.Types))
	for _, t := range doc.Types {
		types[t.Oid] = dumpsort.TypeRef{NamespaceName: t.Namespace, Name: t.Name}
	}
	ams := make(map[dumpsort.Oid]dumpsort.AccessMethodRef, len(doc.AccessMethods))
	for _, a := range doc.AccessMethods {
		ams[a.Oid] = dumpsort.AccessMethodRef{Name: a.Name}
	}

	cat := &catalog{byID: byID, types: types, accessMethods: ams, maxID: maxID}
	return objs, cat, doc.PreBoundaryID, doc.PostBoundaryID, nil
}
