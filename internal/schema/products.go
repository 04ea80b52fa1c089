package schema

// Products is the canonical schema for stone product catalog imports.
var Products = Schema{
	Type: TableProducts,
	Fields: []FieldSpec{
		{Name: "name", Aliases: []string{"name", "product name", "product", "material name"}, Required: true, Kind: KindString},
		{Name: "supplier", Aliases: []string{"supplier", "supplier name", "vendor", "quarry"}, Required: true, Kind: KindString},
		{Name: "category", Aliases: []string{"category", "material", "stone type"}, Required: true, Kind: KindString},
		{Name: "grade", Aliases: []string{"grade", "quality", "tier"}, Required: true, Kind: KindString},
		{Name: "thickness", Aliases: []string{"thickness", "thickness cm", "slab thickness"}, Required: true, Kind: KindString},
		{Name: "finish", Aliases: []string{"finish", "surface finish", "surface"}, Required: true, Kind: KindString},
		{Name: "price", Aliases: []string{"price", "unit price", "price per sqft", "list price"}, Required: true, Kind: KindDecimal},
		{Name: "bundleId", Aliases: []string{"bundle id", "bundle", "bundle number", "lot id"}, Kind: KindString},
		{Name: "description", Aliases: []string{"description", "details"}, Kind: KindFreeform},
		{Name: "unit", Aliases: []string{"unit", "uom", "unit of measure"}, Kind: KindString},
		{Name: "stockQuantity", Aliases: []string{"stock quantity", "stock", "quantity", "qty", "on hand"}, Kind: KindInteger},
		{Name: "slabLength", Aliases: []string{"slab length", "length"}, Kind: KindDecimal},
		{Name: "slabWidth", Aliases: []string{"slab width", "width"}, Kind: KindDecimal},
		{Name: "location", Aliases: []string{"location", "warehouse", "yard location"}, Kind: KindString},
	},
}
