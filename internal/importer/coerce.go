package importer

// coerce.go converts raw CSV cells into typed record values. The same
// per-cell rules back both the row validator (which collects every error
// for preview display) and the batch importer (which needs a typed record
// or a single failure reason per row), so a row that validates in preview
// always coerces in commit.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stoneyard/backoffice/internal/schema"
)

// numericPattern accepts integers, decimals, and scientific notation
// after currency symbols and thousands separators are removed.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ProductRecord is a fully coerced product catalog row.
type ProductRecord struct {
	Name          pgtype.Text
	Supplier      pgtype.Text
	Category      pgtype.Text
	Grade         pgtype.Text
	Thickness     pgtype.Text
	Finish        pgtype.Text
	Price         pgtype.Numeric
	BundleID      pgtype.Text
	Description   pgtype.Text
	Unit          pgtype.Text
	StockQuantity pgtype.Int4
	SlabLength    pgtype.Numeric
	SlabWidth     pgtype.Numeric
	Location      pgtype.Text
}

func (ProductRecord) TableType() schema.TableType { return schema.TableProducts }

// ClientRecord is a fully coerced client contact row.
type ClientRecord struct {
	Name    pgtype.Text
	Email   pgtype.Text
	Phone   pgtype.Text
	Company pgtype.Text
	Address pgtype.Text
	City    pgtype.Text
	State   pgtype.Text
	ZipCode pgtype.Text
	Notes   pgtype.Text
}

func (ClientRecord) TableType() schema.TableType { return schema.TableClients }

// SlabRecord is a fully coerced slab inventory row.
type SlabRecord struct {
	BundleID   pgtype.Text
	SlabNumber pgtype.Int4
	Status     pgtype.Text
	Length     pgtype.Numeric
	Width      pgtype.Numeric
	Location   pgtype.Text
	Notes      pgtype.Text
}

func (SlabRecord) TableType() schema.TableType { return schema.TableSlabs }

// CoerceRow converts one parsed row into a typed record using the field
// mapping. The first coercion failure fails the whole row; a row that
// passes ValidateRows never fails here.
func CoerceRow(row Row, m FieldMapping) (Record, error) {
	s, ok := schema.Get(m.Type)
	if !ok {
		return nil, fmt.Errorf("unknown table type %q", m.Type)
	}

	vals := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		header, mapped := m.Mapping[f.Name]
		raw := ""
		if mapped {
			raw = cleanCell(row[header])
		}

		v, err := coerceCell(raw, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		vals[f.Name] = v
	}

	switch m.Type {
	case schema.TableProducts:
		return buildProduct(vals), nil
	case schema.TableClients:
		return buildClient(vals), nil
	case schema.TableSlabs:
		return buildSlab(vals), nil
	}
	return nil, fmt.Errorf("unknown table type %q", m.Type)
}

// coerceCell converts one raw cell per its field spec. Empty optional
// values become invalid (NULL) pgtype values.
func coerceCell(raw string, f schema.FieldSpec) (any, error) {
	if raw == "" {
		if f.Required {
			return nil, fmt.Errorf("required field is empty")
		}
		switch f.Kind {
		case schema.KindDecimal:
			return pgtype.Numeric{}, nil
		case schema.KindInteger:
			return pgtype.Int4{}, nil
		default:
			return pgtype.Text{}, nil
		}
	}

	switch f.Kind {
	case schema.KindDecimal:
		n, ok := toNumeric(raw)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return n, nil

	case schema.KindInteger:
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return pgtype.Int4{Int32: int32(i), Valid: true}, nil

	case schema.KindEnum:
		canon, ok := matchEnum(raw, f.EnumValues)
		if !ok {
			return nil, fmt.Errorf("value %q must be one of: %s", raw, strings.Join(f.EnumValues, ", "))
		}
		return pgtype.Text{String: canon, Valid: true}, nil

	default:
		return pgtype.Text{String: raw, Valid: true}, nil
	}
}

// toNumeric parses a decimal cell, tolerating currency symbols, thousands
// separators, and accounting-style negatives ("(89.50)").
func toNumeric(s string) (pgtype.Numeric, bool) {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericPattern.MatchString(s) {
		return pgtype.Numeric{}, false
	}
	s = strings.TrimPrefix(s, "+")

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{}, false
	}
	return n, true
}

// matchEnum finds the canonical spelling for a value, case-insensitively
// and treating spaces, dashes, and underscores as equivalent.
func matchEnum(raw string, allowed []string) (string, bool) {
	norm := schema.NormalizeHeader(raw)
	for _, v := range allowed {
		if schema.NormalizeHeader(v) == norm {
			return v, true
		}
	}
	return "", false
}

func buildProduct(v map[string]any) ProductRecord {
	return ProductRecord{
		Name:          v["name"].(pgtype.Text),
		Supplier:      v["supplier"].(pgtype.Text),
		Category:      v["category"].(pgtype.Text),
		Grade:         v["grade"].(pgtype.Text),
		Thickness:     v["thickness"].(pgtype.Text),
		Finish:        v["finish"].(pgtype.Text),
		Price:         v["price"].(pgtype.Numeric),
		BundleID:      v["bundleId"].(pgtype.Text),
		Description:   v["description"].(pgtype.Text),
		Unit:          v["unit"].(pgtype.Text),
		StockQuantity: v["stockQuantity"].(pgtype.Int4),
		SlabLength:    v["slabLength"].(pgtype.Numeric),
		SlabWidth:     v["slabWidth"].(pgtype.Numeric),
		Location:      v["location"].(pgtype.Text),
	}
}

func buildClient(v map[string]any) ClientRecord {
	return ClientRecord{
		Name:    v["name"].(pgtype.Text),
		Email:   v["email"].(pgtype.Text),
		Phone:   v["phone"].(pgtype.Text),
		Company: v["company"].(pgtype.Text),
		Address: v["address"].(pgtype.Text),
		City:    v["city"].(pgtype.Text),
		State:   v["state"].(pgtype.Text),
		ZipCode: v["zipCode"].(pgtype.Text),
		Notes:   v["notes"].(pgtype.Text),
	}
}

func buildSlab(v map[string]any) SlabRecord {
	return SlabRecord{
		BundleID:   v["bundleId"].(pgtype.Text),
		SlabNumber: v["slabNumber"].(pgtype.Int4),
		Status:     v["status"].(pgtype.Text),
		Length:     v["length"].(pgtype.Numeric),
		Width:      v["width"].(pgtype.Numeric),
		Location:   v["location"].(pgtype.Text),
		Notes:      v["notes"].(pgtype.Text),
	}
}
