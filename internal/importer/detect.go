package importer

import "github.com/stoneyard/backoffice/internal/schema"

// DetectTableType inspects a header list and picks the canonical schema
// the file most likely encodes. The score for each schema is the fraction
// of its required fields with at least one alias present in the headers.
// The schema with the strictly highest score wins; schema.All() order
// (products, clients, slabs) breaks ties so detection is deterministic.
// A top score of zero fails with ErrUnknownTableType.
func DetectTableType(headers []string) (DetectionResult, error) {
	var best DetectionResult
	found := false

	for _, s := range schema.All() {
		score := matchScore(s, headers)
		if !found || score > best.Confidence {
			best = DetectionResult{Type: s.Type, Confidence: score}
			found = true
		}
	}

	if !found || best.Confidence == 0 {
		return DetectionResult{}, ErrUnknownTableType
	}
	return best, nil
}

// matchScore returns the fraction of the schema's required fields that
// have a matching header. Schemas with no required fields score zero so
// they can never be guessed from unrelated headers.
func matchScore(s schema.Schema, headers []string) float64 {
	required := s.RequiredFields()
	if len(required) == 0 {
		return 0
	}

	matched := 0
	for _, f := range required {
		if headerFor(f, headers) != "" {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// headerFor returns the first header (in file order) matching one of the
// field's aliases, or "" when none match.
func headerFor(f schema.FieldSpec, headers []string) string {
	for _, h := range headers {
		if f.MatchesAlias(h) {
			return h
		}
	}
	return ""
}
