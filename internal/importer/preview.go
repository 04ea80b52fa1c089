package importer

import "github.com/stoneyard/backoffice/internal/schema"

// PreviewResult is the read-only analysis of an uploaded file, returned
// before any write occurs. On parse or detection failure Success is false
// and Error carries a one-sentence user-facing message; all other fields
// are zero.
type PreviewResult struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	TableType         schema.TableType   `json:"tableType,omitempty"`
	Confidence        float64            `json:"confidence,omitempty"`
	Headers           []string           `json:"headers,omitempty"`
	TotalRows         int                `json:"totalRows"`
	PreviewRows       []Row              `json:"previewRows,omitempty"`
	FieldMapping      *MappingReport     `json:"fieldMapping,omitempty"`
	ValidationSummary *ValidationReport  `json:"validationSummary,omitempty"`
	SuggestedMappings map[string]string  `json:"suggestedMappings,omitempty"`
	Filename          string             `json:"filename"`
	FileSize          int64              `json:"fileSize"`
}

// MappingReport is the wire form of a FieldMapping.
type MappingReport struct {
	IsValid       bool              `json:"isValid"`
	MissingFields []string          `json:"missingFields"`
	Mapping       map[string]string `json:"mapping"`
}

// ValidationReport is the wire form of a ValidationSummary.
type ValidationReport struct {
	IsValid    bool              `json:"isValid"`
	ErrorCount int               `json:"errorCount"`
	Errors     []ValidationError `json:"errors"`
}

// Preview runs the read-only pipeline (parse, detect, map, validate) over
// raw file content and packages the results with a bounded row sample and
// file metadata. Parse and detection failures are reported in the result
// rather than returned, since the caller renders a user-facing message
// either way. Preview is a pure function of its inputs: identical bytes
// always produce an identical result.
func Preview(data []byte, filename string) PreviewResult {
	result := PreviewResult{
		Filename: filename,
		FileSize: int64(len(data)),
	}

	pf, err := ParseFile(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	detection, err := DetectTableType(pf.Headers)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	mapping, err := BuildFieldMapping(detection.Type, pf.Headers)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	validation := ValidateRows(pf, mapping)

	sample := len(pf.Rows)
	if sample > PreviewSampleRows {
		sample = PreviewSampleRows
	}

	result.Success = true
	result.TableType = detection.Type
	result.Confidence = detection.Confidence
	result.Headers = pf.Headers
	result.TotalRows = len(pf.Rows)
	result.PreviewRows = pf.Rows[:sample]
	result.FieldMapping = &MappingReport{
		IsValid:       mapping.IsValid(),
		MissingFields: missingOrEmpty(mapping.MissingFields),
		Mapping:       mapping.Mapping,
	}
	result.ValidationSummary = &ValidationReport{
		IsValid:    validation.IsValid(),
		ErrorCount: validation.ErrorCount,
		Errors:     errorsOrEmpty(validation.Errors),
	}
	result.SuggestedMappings = mapping.Mapping

	return result
}

// missingOrEmpty keeps the JSON field an array rather than null.
func missingOrEmpty(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}

func errorsOrEmpty(errs []ValidationError) []ValidationError {
	if errs == nil {
		return []ValidationError{}
	}
	return errs
}
