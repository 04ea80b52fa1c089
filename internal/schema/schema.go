// Package schema defines the canonical field schemas for the entity types
// that bulk CSV imports can target. Schemas are fixed at build time and
// never mutated at runtime.
package schema

import "strings"

// TableType identifies a canonical business entity type.
type TableType string

const (
	TableProducts TableType = "products"
	TableClients  TableType = "clients"
	TableSlabs    TableType = "slabs"
)

// ValueKind describes how a raw CSV cell is interpreted for a field.
type ValueKind int

const (
	KindString ValueKind = iota
	KindDecimal
	KindInteger
	KindEnum
	KindFreeform
)

// FieldSpec declares one canonical field: its name, the header spellings
// that map to it, whether a value is mandatory, and how values are typed.
type FieldSpec struct {
	Name       string   // Canonical field name: "bundleId"
	Aliases    []string // Accepted header spellings (matched normalized)
	Required   bool     // File must supply a matching header and non-empty values
	Kind       ValueKind
	EnumValues []string // Valid values for KindEnum
}

// Schema is the full field-spec table for one table type.
type Schema struct {
	Type   TableType
	Fields []FieldSpec
}

// RequiredFields returns the specs that are marked required, in order.
func (s Schema) RequiredFields() []FieldSpec {
	var req []FieldSpec
	for _, f := range s.Fields {
		if f.Required {
			req = append(req, f)
		}
	}
	return req
}

// Field returns the spec with the given canonical name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// All returns every known schema in detection priority order.
// When two schemas score equally during detection, the earlier one wins.
func All() []Schema {
	return []Schema{Products, Clients, Slabs}
}

// Get returns the schema for a table type.
func Get(t TableType) (Schema, bool) {
	for _, s := range All() {
		if s.Type == t {
			return s, true
		}
	}
	return Schema{}, false
}

// ParseTableType validates a table type string from an external caller.
func ParseTableType(s string) (TableType, bool) {
	switch TableType(strings.ToLower(strings.TrimSpace(s))) {
	case TableProducts:
		return TableProducts, true
	case TableClients:
		return TableClients, true
	case TableSlabs:
		return TableSlabs, true
	}
	return "", false
}

// NormalizeHeader canonicalizes a header or alias for matching:
// lowercased, trimmed, quotes stripped, underscores and dashes treated
// as spaces, runs of spaces collapsed.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.Trim(h, `"'`)
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}

// MatchesAlias reports whether a header matches the field's canonical
// name or one of its aliases.
func (f FieldSpec) MatchesAlias(header string) bool {
	norm := NormalizeHeader(header)
	if NormalizeHeader(f.Name) == norm {
		return true
	}
	for _, a := range f.Aliases {
		if NormalizeHeader(a) == norm {
			return true
		}
	}
	return false
}

// kindNames maps value kinds to their wire names.
var kindNames = map[ValueKind]string{
	KindString:   "string",
	KindDecimal:  "decimal",
	KindInteger:  "integer",
	KindEnum:     "enum",
	KindFreeform: "freeform",
}

// String returns the wire name for a value kind.
func (k ValueKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "string"
}
