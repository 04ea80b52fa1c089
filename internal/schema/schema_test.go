package schema

import (
	"testing"
)

// ============================================================================
// NormalizeHeader Tests
// ============================================================================

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Name", "name"},
		{"  Product Name  ", "product name"},
		{"bundle_id", "bundle id"},
		{"bundle-id", "bundle id"},
		{"Bundle__ID", "bundle id"},
		{`"Email"`, "email"},
		{"'Phone'", "phone"},
		{"Slab   Number", "slab number"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHeader(tt.input); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ============================================================================
// MatchesAlias Tests
// ============================================================================

func TestMatchesAlias(t *testing.T) {
	email := FieldSpec{Name: "email", Aliases: []string{"email", "email address", "e mail"}}

	tests := []struct {
		header string
		want   bool
	}{
		{"Email", true},
		{"EMAIL ADDRESS", true},
		{"e-mail", true},
		{"e_mail", true},
		{"mail", false},
		{"emails", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := email.MatchesAlias(tt.header); got != tt.want {
				t.Errorf("MatchesAlias(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestMatchesAlias_CanonicalName(t *testing.T) {
	// Camel-case canonical names match their own normalized spelling, so
	// a template file headed "bundleId" maps back to the field.
	bundle := FieldSpec{Name: "bundleId", Aliases: []string{"bundle id", "bundle"}}

	if !bundle.MatchesAlias("bundleId") {
		t.Error("canonical name should match itself")
	}
	if !bundle.MatchesAlias("Bundle") {
		t.Error("alias should match case-insensitively")
	}
}

// ============================================================================
// Schema Tests
// ============================================================================

func TestAll_PriorityOrder(t *testing.T) {
	want := []TableType{TableProducts, TableClients, TableSlabs}

	all := All()
	if len(all) != len(want) {
		t.Fatalf("len(All()) = %d, want %d", len(all), len(want))
	}
	for i, tt := range want {
		if all[i].Type != tt {
			t.Errorf("All()[%d].Type = %q, want %q", i, all[i].Type, tt)
		}
	}
}

func TestGet(t *testing.T) {
	for _, tt := range []TableType{TableProducts, TableClients, TableSlabs} {
		s, ok := Get(tt)
		if !ok || s.Type != tt {
			t.Errorf("Get(%q) = (%v, %v), want schema for %q", tt, s.Type, ok, tt)
		}
	}

	if _, ok := Get(TableType("invoices")); ok {
		t.Error("Get() should fail for unknown type")
	}
}

func TestParseTableType(t *testing.T) {
	tests := []struct {
		input  string
		want   TableType
		wantOK bool
	}{
		{"products", TableProducts, true},
		{"Clients", TableClients, true},
		{" SLABS ", TableSlabs, true},
		{"invoices", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTableType(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTableType(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		schema Schema
		want   []string
	}{
		{Products, []string{"name", "supplier", "category", "grade", "thickness", "finish", "price"}},
		{Clients, []string{"name", "email"}},
		{Slabs, []string{"bundleId", "slabNumber"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.schema.Type), func(t *testing.T) {
			req := tt.schema.RequiredFields()
			if len(req) != len(tt.want) {
				t.Fatalf("RequiredFields() returned %d fields, want %d", len(req), len(tt.want))
			}
			for i, name := range tt.want {
				if req[i].Name != name {
					t.Errorf("RequiredFields()[%d].Name = %q, want %q", i, req[i].Name, name)
				}
			}
		})
	}
}

func TestField(t *testing.T) {
	f, ok := Slabs.Field("status")
	if !ok {
		t.Fatal("Field(status) not found on slabs")
	}
	if f.Kind != KindEnum {
		t.Errorf("status Kind = %v, want KindEnum", f.Kind)
	}
	if len(f.EnumValues) != len(SlabStatuses) {
		t.Errorf("status EnumValues = %v, want %v", f.EnumValues, SlabStatuses)
	}

	if _, ok := Slabs.Field("price"); ok {
		t.Error("Field(price) should not exist on slabs")
	}
}

func TestValueKindString(t *testing.T) {
	tests := []struct {
		kind ValueKind
		want string
	}{
		{KindString, "string"},
		{KindDecimal, "decimal"},
		{KindInteger, "integer"},
		{KindEnum, "enum"},
		{KindFreeform, "freeform"},
		{ValueKind(99), "string"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ValueKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
