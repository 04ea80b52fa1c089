// Package importer implements the bulk CSV import pipeline: parsing,
// table-type detection, header mapping, row validation, preview assembly,
// and batched commits to a storage collaborator.
// The package has no transport dependencies and is driven per request;
// nothing here is shared between concurrent imports.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/stoneyard/backoffice/internal/schema"
)

// ErrUnknownTableType is returned when a file's headers match no known schema.
var ErrUnknownTableType = errors.New("file headers match no known table type")

// ParseError indicates the file content could not be interpreted as
// delimited text at all (empty file, no header row, malformed quoting).
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse CSV: %s", e.Reason)
}

// Row is one data row keyed by the file's verbatim header strings.
type Row map[string]string

// ParsedFile is the parsed form of one uploaded file. Headers preserve
// the original spelling and order; Rows preserve file order.
type ParsedFile struct {
	Headers []string
	Rows    []Row
}

// DetectionResult is the schema chosen for a file plus the fraction of
// that schema's required fields found in the headers.
type DetectionResult struct {
	Type       schema.TableType `json:"tableType"`
	Confidence float64          `json:"confidence"`
}

// FieldMapping pairs canonical field names with the source headers that
// supply them. Only matched fields appear in Mapping.
type FieldMapping struct {
	Type          schema.TableType  `json:"tableType"`
	Mapping       map[string]string `json:"mapping"`
	MissingFields []string          `json:"missingFields"`
}

// IsValid reports whether every required field found a header.
// Derived so it can never disagree with MissingFields.
func (m FieldMapping) IsValid() bool {
	return len(m.MissingFields) == 0
}

// ValidationError describes one defect in one row. Field is empty for
// row-level errors (e.g. a blank line amid data). Row is 1-based and
// counts the header as row 1, matching what a user sees in a spreadsheet.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ValidationSummary aggregates all validation errors for a file.
// Errors is capped for display; ErrorCount always reflects the true total.
type ValidationSummary struct {
	ErrorCount int               `json:"errorCount"`
	Errors     []ValidationError `json:"errors"`
}

// IsValid reports whether the file validated cleanly.
func (s ValidationSummary) IsValid() bool {
	return s.ErrorCount == 0
}

// RowFailure records one row that could not be imported, with the raw
// row data for diagnostics.
type RowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
	Data  Row    `json:"data"`
}

// ImportResult is the final outcome of a commit. Imported + Failed always
// equals the number of data rows in the file. Errors is capped at
// MaxReportedFailures; TotalErrors carries the true count.
type ImportResult struct {
	Type        schema.TableType `json:"tableType"`
	Imported    int              `json:"imported"`
	Failed      int              `json:"failed"`
	Errors      []RowFailure     `json:"errors"`
	TotalErrors int              `json:"totalErrors"`
}

// Settings controls commit behavior.
type Settings struct {
	// SkipErrors records and skips failed rows instead of aborting.
	SkipErrors bool
	// BatchSize is rows per storage call, clamped to [MinBatchSize, MaxBatchSize].
	BatchSize int
}

// Batch size bounds and display caps.
const (
	MinBatchSize        = 10
	MaxBatchSize        = 1000
	DefaultBatchSize    = 100
	PreviewSampleRows   = 10
	MaxPreviewErrors    = 50
	MaxReportedFailures = 50
)

// Normalize clamps settings into their allowed ranges.
func (s Settings) Normalize() Settings {
	if s.BatchSize == 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.BatchSize < MinBatchSize {
		s.BatchSize = MinBatchSize
	}
	if s.BatchSize > MaxBatchSize {
		s.BatchSize = MaxBatchSize
	}
	return s
}

// Record is a fully coerced, typed row ready for storage. Implemented by
// ProductRecord, ClientRecord, and SlabRecord.
type Record interface {
	TableType() schema.TableType
}

// Store is the storage collaborator. Uniqueness constraints are enforced
// by the store; a constraint violation surfaces as an ordinary error on
// the offending call.
type Store interface {
	Insert(ctx context.Context, table schema.TableType, rec Record) error
	BulkInsert(ctx context.Context, table schema.TableType, recs []Record) error
}
