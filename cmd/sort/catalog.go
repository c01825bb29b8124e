package sortcmd

import "github.com/pgschema/pgschema/internal/dumpsort"

// catalog is the dumpsort.Catalog this command builds from one decoded
// input document: a closed, static lookup table over exactly the objects
// and side-tables that document declared, matching the "read-only after
// construction" contract dumpsort.Sort requires of its Catalog argument.
type catalog struct {
	byID          map[dumpsort.DumpId]*dumpsort.DumpableObject
	types         map[dumpsort.Oid]dumpsort.TypeRef
	accessMethods map[dumpsort.Oid]dumpsort.AccessMethodRef
	maxID         dumpsort.DumpId
}

func (c *catalog) FindByDumpID(id dumpsort.DumpId) (*dumpsort.DumpableObject, bool) {
	obj, ok := c.byID[id]
	return obj, ok
}

func (c *catalog) FindTypeByOid(oid dumpsort.Oid) (dumpsort.TypeRef, bool) {
	ref, ok := c.types[oid]
	return ref, ok
}

func (c *catalog) FindAccessMethodByOid(oid dumpsort.Oid) (dumpsort.AccessMethodRef, bool) {
	ref, ok := c.accessMethods[oid]
	return ref, ok
}

func (c *catalog) MaxDumpID() dumpsort.DumpId {
	return c.maxID
}
