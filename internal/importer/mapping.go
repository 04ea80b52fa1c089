package importer

import (
	"fmt"

	"github.com/stoneyard/backoffice/internal/schema"
)

// BuildFieldMapping pairs each canonical field of the given table type
// with the first header (in file order) whose normalized text matches one
// of the field's aliases. Required fields with no match are listed in
// MissingFields.
func BuildFieldMapping(t schema.TableType, headers []string) (FieldMapping, error) {
	s, ok := schema.Get(t)
	if !ok {
		return FieldMapping{}, fmt.Errorf("unknown table type %q", t)
	}

	m := FieldMapping{
		Type:    t,
		Mapping: make(map[string]string, len(s.Fields)),
	}

	for _, f := range s.Fields {
		h := headerFor(f, headers)
		if h != "" {
			m.Mapping[f.Name] = h
			continue
		}
		if f.Required {
			m.MissingFields = append(m.MissingFields, f.Name)
		}
	}

	return m, nil
}
