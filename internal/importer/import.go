package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stoneyard/backoffice/internal/schema"
)

// Importer commits parsed files to the storage collaborator in bounded
// batches. It holds no state between invocations; each Import call is an
// independent, strictly sequential computation.
type Importer struct {
	store Store
}

// NewImporter creates an Importer backed by the given store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// coercedRow pairs a typed record with its source row for diagnostics.
type coercedRow struct {
	rowNum int
	rec    Record
	data   Row
}

// Import runs the commit path: parse, map, coerce every row, then commit
// coerced records in consecutive batches of settings.BatchSize, in file
// order, one batch at a time. Rows that fail coercion never reach the
// store. Storage failures follow the skip-or-abort policy: with
// SkipErrors a failed batch is retried row by row and processing
// continues; without it the first storage error aborts all remaining
// batches (already-committed batches stay committed). Every data row
// appears exactly once in the result as imported or failed.
func (im *Importer) Import(ctx context.Context, data []byte, filename string, settings Settings) (*ImportResult, error) {
	settings = settings.Normalize()

	pf, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	detection, err := DetectTableType(pf.Headers)
	if err != nil {
		return nil, err
	}

	mapping, err := BuildFieldMapping(detection.Type, pf.Headers)
	if err != nil {
		return nil, err
	}
	if !mapping.IsValid() {
		return nil, fmt.Errorf("cannot import: missing required columns: %v", mapping.MissingFields)
	}

	importID := uuid.New().String()
	logger := slog.Default().With(
		"import_id", importID,
		"table", detection.Type,
		"file", filename,
	)
	logger.Info("import started",
		"rows", len(pf.Rows),
		"batch_size", settings.BatchSize,
		"skip_errors", settings.SkipErrors,
	)

	acc := newResultAccumulator(detection.Type)

	// Step 1: coerce every row. Failures are final; survivors keep their
	// original row numbers for error reporting.
	var coerced []coercedRow
	for i, row := range pf.Rows {
		rowNum := i + firstDataRow
		rec, err := CoerceRow(row, mapping)
		if err != nil {
			acc.failed(RowFailure{Row: rowNum, Error: err.Error(), Data: row})
			continue
		}
		coerced = append(coerced, coercedRow{rowNum: rowNum, rec: rec, data: row})
	}

	// Step 2: commit batches sequentially, in file order.
	aborted := false
	var abortErr error

	for start := 0; start < len(coerced); start += settings.BatchSize {
		end := start + settings.BatchSize
		if end > len(coerced) {
			end = len(coerced)
		}
		batch := coerced[start:end]

		if aborted {
			for _, cr := range batch {
				acc.failed(RowFailure{
					Row:   cr.rowNum,
					Error: fmt.Sprintf("import aborted: %v", abortErr),
					Data:  cr.data,
				})
			}
			continue
		}

		recs := make([]Record, len(batch))
		for i, cr := range batch {
			recs[i] = cr.rec
		}

		err := im.store.BulkInsert(ctx, detection.Type, recs)
		if err == nil {
			acc.imported(len(batch))
			continue
		}

		if !settings.SkipErrors {
			// Abort: this batch and everything after it fails; prior
			// batches are already committed and stay committed.
			aborted = true
			abortErr = err
			logger.Warn("import aborted on storage error", "error", err)
			for _, cr := range batch {
				acc.failed(RowFailure{
					Row:   cr.rowNum,
					Error: fmt.Sprintf("storage error: %v", err),
					Data:  cr.data,
				})
			}
			continue
		}

		// Skip-errors mode: retry the failed batch row by row so only
		// the offending rows are lost.
		logger.Debug("batch failed, retrying row by row",
			"batch_start_row", batch[0].rowNum,
			"error", err,
		)
		for _, cr := range batch {
			if rowErr := im.store.Insert(ctx, detection.Type, cr.rec); rowErr != nil {
				acc.failed(RowFailure{
					Row:   cr.rowNum,
					Error: fmt.Sprintf("storage error: %v", rowErr),
					Data:  cr.data,
				})
				continue
			}
			acc.imported(1)
		}
	}

	result := acc.finish()
	logger.Info("import finished",
		"imported", result.Imported,
		"failed", result.Failed,
	)
	return result, nil
}

// TemplateCSV returns a sample CSV for a table type: the canonical
// headers plus one example row, for download by callers building files.
func TemplateCSV(t schema.TableType) ([]byte, error) {
	s, ok := schema.Get(t)
	if !ok {
		return nil, fmt.Errorf("unknown table type %q", t)
	}

	var headers, sample []string
	for _, f := range s.Fields {
		headers = append(headers, f.Name)
		sample = append(sample, sampleValue(f))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.Write(sample); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sampleValue(f schema.FieldSpec) string {
	switch f.Kind {
	case schema.KindDecimal:
		return "10.50"
	case schema.KindInteger:
		return "1"
	case schema.KindEnum:
		if len(f.EnumValues) > 0 {
			return f.EnumValues[0]
		}
		return ""
	default:
		return "example"
	}
}
