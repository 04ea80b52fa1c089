package schema

// Clients is the canonical schema for client contact imports.
var Clients = Schema{
	Type: TableClients,
	Fields: []FieldSpec{
		{Name: "name", Aliases: []string{"name", "client name", "customer name", "contact name", "full name"}, Required: true, Kind: KindString},
		{Name: "email", Aliases: []string{"email", "email address", "e mail"}, Required: true, Kind: KindString},
		{Name: "phone", Aliases: []string{"phone", "phone number", "telephone", "mobile"}, Kind: KindString},
		{Name: "company", Aliases: []string{"company", "company name", "business", "organization"}, Kind: KindString},
		{Name: "address", Aliases: []string{"address", "street address", "address line 1"}, Kind: KindString},
		{Name: "city", Aliases: []string{"city", "town"}, Kind: KindString},
		{Name: "state", Aliases: []string{"state", "province", "region"}, Kind: KindString},
		{Name: "zipCode", Aliases: []string{"zip code", "zip", "postal code", "postcode"}, Kind: KindString},
		{Name: "notes", Aliases: []string{"notes", "comments", "remarks"}, Kind: KindFreeform},
	},
}
