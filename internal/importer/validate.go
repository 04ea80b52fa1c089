package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stoneyard/backoffice/internal/schema"
)

// firstDataRow is the human-visible number of the first data row: the
// header occupies row 1.
const firstDataRow = 2

// ValidateRows checks every row of a parsed file against the field
// mapping and collects every applicable error, so a user can fix a
// spreadsheet in one pass. Rows are never mutated and validation never
// short-circuits within a row. The returned summary caps Errors at
// MaxPreviewErrors while ErrorCount reflects the true total.
func ValidateRows(pf *ParsedFile, m FieldMapping) ValidationSummary {
	s, ok := schema.Get(m.Type)
	if !ok {
		return ValidationSummary{}
	}

	var summary ValidationSummary
	record := func(e ValidationError) {
		summary.ErrorCount++
		if len(summary.Errors) < MaxPreviewErrors {
			summary.Errors = append(summary.Errors, e)
		}
	}

	for i, row := range pf.Rows {
		rowNum := i + firstDataRow

		// A completely blank line amid data is a row-level defect.
		if isEmptyRow(row) {
			record(ValidationError{Row: rowNum, Message: "empty row"})
			continue
		}

		for _, f := range s.Fields {
			header, mapped := m.Mapping[f.Name]
			if !mapped {
				continue
			}
			for _, e := range checkCell(cleanCell(row[header]), f) {
				record(ValidationError{Row: rowNum, Field: f.Name, Message: e})
			}
		}
	}

	return summary
}

// checkCell applies a field's required and type rules to one cleaned cell
// and returns every violation. Mirrors the coercion rules in coerce.go.
func checkCell(raw string, f schema.FieldSpec) []string {
	if raw == "" {
		if f.Required {
			return []string{"required field is empty"}
		}
		return nil
	}

	switch f.Kind {
	case schema.KindDecimal:
		if _, ok := toNumeric(raw); !ok {
			return []string{fmt.Sprintf("invalid number %q", raw)}
		}
	case schema.KindInteger:
		if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			return []string{fmt.Sprintf("invalid integer %q", raw)}
		}
	case schema.KindEnum:
		if _, ok := matchEnum(raw, f.EnumValues); !ok {
			return []string{fmt.Sprintf("value %q must be one of: %s", raw, strings.Join(f.EnumValues, ", "))}
		}
	}
	return nil
}
