package schema

// SlabStatuses are the valid values for a slab's status field.
var SlabStatuses = []string{"available", "on_hold", "sold", "damaged"}

// Slabs is the canonical schema for individual slab inventory imports.
var Slabs = Schema{
	Type: TableSlabs,
	Fields: []FieldSpec{
		{Name: "bundleId", Aliases: []string{"bundle id", "bundle", "bundle number", "lot id"}, Required: true, Kind: KindString},
		{Name: "slabNumber", Aliases: []string{"slab number", "slab no", "slab", "sequence"}, Required: true, Kind: KindInteger},
		{Name: "status", Aliases: []string{"status", "slab status", "state"}, Kind: KindEnum, EnumValues: SlabStatuses},
		{Name: "length", Aliases: []string{"length", "slab length", "length in"}, Kind: KindDecimal},
		{Name: "width", Aliases: []string{"width", "slab width", "width in"}, Kind: KindDecimal},
		{Name: "location", Aliases: []string{"location", "warehouse", "yard location", "bay"}, Kind: KindString},
		{Name: "notes", Aliases: []string{"notes", "comments", "remarks"}, Kind: KindFreeform},
	},
}
