package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stoneyard/backoffice/internal/schema"
)

// ============================================================================
// Import Tests
// ============================================================================

// fakeStore records inserts and fails on demand.
type fakeStore struct {
	inserted   []Record
	batchCalls []int // size of each BulkInsert call

	failBatch func(call int, recs []Record) error // nil means succeed
	failRow   func(rec Record) error
}

func (f *fakeStore) Insert(ctx context.Context, table schema.TableType, rec Record) error {
	if f.failRow != nil {
		if err := f.failRow(rec); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeStore) BulkInsert(ctx context.Context, table schema.TableType, recs []Record) error {
	call := len(f.batchCalls)
	f.batchCalls = append(f.batchCalls, len(recs))
	if f.failBatch != nil {
		if err := f.failBatch(call, recs); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, recs...)
	return nil
}

func clientsCSV(rows int) []byte {
	var b strings.Builder
	b.WriteString("Name,Email\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "Client %d,c%d@example.com\n", i, i)
	}
	return []byte(b.String())
}

func TestImport_AllRowsCommitted(t *testing.T) {
	store := &fakeStore{}
	imp := NewImporter(store)

	result, err := imp.Import(context.Background(), clientsCSV(25), "clients.csv", Settings{BatchSize: 10})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Type != schema.TableClients {
		t.Errorf("Type = %q, want clients", result.Type)
	}
	if result.Imported != 25 || result.Failed != 0 {
		t.Errorf("Imported/Failed = %d/%d, want 25/0", result.Imported, result.Failed)
	}
	if len(store.inserted) != 25 {
		t.Errorf("store received %d records, want 25", len(store.inserted))
	}

	// 25 rows at batch size 10: batches of 10, 10, 5, in order.
	want := []int{10, 10, 5}
	if len(store.batchCalls) != len(want) {
		t.Fatalf("batch calls = %v, want %v", store.batchCalls, want)
	}
	for i, n := range want {
		if store.batchCalls[i] != n {
			t.Errorf("batch %d size = %d, want %d", i, store.batchCalls[i], n)
		}
	}
}

func TestImport_BatchSizeDoesNotChangeOutcome(t *testing.T) {
	data := clientsCSV(37)

	var results []*ImportResult
	for _, size := range []int{MinBatchSize, 25, MaxBatchSize} {
		store := &fakeStore{}
		result, err := NewImporter(store).Import(context.Background(), data, "clients.csv", Settings{BatchSize: size})
		if err != nil {
			t.Fatalf("Import(batch=%d) error = %v", size, err)
		}
		if len(store.inserted) != 37 {
			t.Errorf("batch=%d: store received %d records, want 37", size, len(store.inserted))
		}
		results = append(results, result)
	}

	for _, r := range results[1:] {
		if r.Imported != results[0].Imported || r.Failed != results[0].Failed {
			t.Errorf("results differ across batch sizes: %+v vs %+v", r, results[0])
		}
	}
}

func TestImport_BatchSizeClamped(t *testing.T) {
	store := &fakeStore{}
	_, err := NewImporter(store).Import(context.Background(), clientsCSV(30), "clients.csv", Settings{BatchSize: 2})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	// Requested size 2 clamps up to MinBatchSize.
	if store.batchCalls[0] != MinBatchSize {
		t.Errorf("first batch size = %d, want clamped %d", store.batchCalls[0], MinBatchSize)
	}
}

func TestImport_CoercionFailuresNeverReachStore(t *testing.T) {
	data := []byte("Name,Email\nAlma,a@example.com\nNoEmail,\nBo,b@example.com\n")
	store := &fakeStore{}

	result, err := NewImporter(store).Import(context.Background(), data, "clients.csv", Settings{SkipErrors: true})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Imported != 2 || result.Failed != 1 {
		t.Fatalf("Imported/Failed = %d/%d, want 2/1", result.Imported, result.Failed)
	}
	if len(store.inserted) != 2 {
		t.Errorf("store received %d records, want 2", len(store.inserted))
	}
	if result.Errors[0].Row != 3 {
		t.Errorf("failure row = %d, want 3", result.Errors[0].Row)
	}
	if result.Errors[0].Data["Name"] != "NoEmail" {
		t.Errorf("failure data = %v, want original row", result.Errors[0].Data)
	}
}

func TestImport_AbortOnStorageError(t *testing.T) {
	// 30 rows, batch size 10. The second batch fails; the first stays
	// committed, the second and third are reported failed.
	store := &fakeStore{
		failBatch: func(call int, recs []Record) error {
			if call == 1 {
				return errors.New("disk full")
			}
			return nil
		},
	}

	result, err := NewImporter(store).Import(context.Background(), clientsCSV(30), "clients.csv", Settings{BatchSize: 10})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Imported != 10 {
		t.Errorf("Imported = %d, want 10", result.Imported)
	}
	if result.Failed != 20 {
		t.Errorf("Failed = %d, want 20", result.Failed)
	}
	if got := result.Imported + result.Failed; got != 30 {
		t.Errorf("Imported+Failed = %d, want 30", got)
	}

	// Only two BulkInsert calls: the third batch is never attempted.
	if len(store.batchCalls) != 2 {
		t.Errorf("batch calls = %v, want 2 calls", store.batchCalls)
	}

	var storageErrs, abortedErrs int
	for _, f := range result.Errors {
		switch {
		case strings.Contains(f.Error, "storage error"):
			storageErrs++
		case strings.Contains(f.Error, "import aborted"):
			abortedErrs++
		}
	}
	if storageErrs != 10 || abortedErrs != 10 {
		t.Errorf("storage/aborted failures = %d/%d, want 10/10", storageErrs, abortedErrs)
	}
}

func TestImport_SkipErrorsRetriesRowByRow(t *testing.T) {
	// The batch fails, then the row-by-row retry loses exactly the
	// offending row and keeps the rest.
	var poison Record
	store := &fakeStore{}
	store.failBatch = func(call int, recs []Record) error {
		poison = recs[3]
		return errors.New("constraint violation")
	}
	store.failRow = func(rec Record) error {
		if rec == poison {
			return errors.New("constraint violation")
		}
		return nil
	}

	result, err := NewImporter(store).Import(context.Background(), clientsCSV(10), "clients.csv", Settings{SkipErrors: true, BatchSize: 10})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Imported != 9 || result.Failed != 1 {
		t.Fatalf("Imported/Failed = %d/%d, want 9/1", result.Imported, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	// Row 2 is the first data row, so index 3 within the batch is row 5.
	if result.Errors[0].Row != 5 {
		t.Errorf("failed row = %d, want 5", result.Errors[0].Row)
	}
}

func TestImport_EveryRowAccountedFor(t *testing.T) {
	// Mixed coercion failures and storage failures: imported + failed
	// always equals the number of data rows.
	var b strings.Builder
	b.WriteString("Name,Email\n")
	for i := 0; i < 40; i++ {
		if i%7 == 3 {
			b.WriteString("Missing,\n")
		} else {
			fmt.Fprintf(&b, "Client %d,c%d@example.com\n", i, i)
		}
	}

	store := &fakeStore{
		failBatch: func(call int, recs []Record) error {
			if call%2 == 1 {
				return errors.New("timeout")
			}
			return nil
		},
		failRow: func(rec Record) error { return nil },
	}

	result, err := NewImporter(store).Import(context.Background(), []byte(b.String()), "clients.csv", Settings{SkipErrors: true, BatchSize: 10})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if got := result.Imported + result.Failed; got != 40 {
		t.Errorf("Imported+Failed = %d, want 40", got)
	}
	if result.TotalErrors != result.Failed {
		t.Errorf("TotalErrors = %d, want %d", result.TotalErrors, result.Failed)
	}
}

func TestImport_MissingRequiredColumns(t *testing.T) {
	data := []byte("Name,Phone\nAlma,555-0101\n")

	_, err := NewImporter(&fakeStore{}).Import(context.Background(), data, "clients.csv", Settings{})
	if err == nil {
		t.Fatal("Import() expected error for missing required columns")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("error = %v, want missing-columns message", err)
	}
}

func TestImport_UnknownTableType(t *testing.T) {
	data := []byte("Foo,Bar\n1,2\n")

	_, err := NewImporter(&fakeStore{}).Import(context.Background(), data, "mystery.csv", Settings{})
	if !errors.Is(err, ErrUnknownTableType) {
		t.Fatalf("Import() error = %v, want ErrUnknownTableType", err)
	}
}

func TestImport_ParseFailure(t *testing.T) {
	_, err := NewImporter(&fakeStore{}).Import(context.Background(), nil, "empty.csv", Settings{})

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Import() error = %v, want *ParseError", err)
	}
}

// ============================================================================
// TemplateCSV Tests
// ============================================================================

func TestTemplateCSV_RoundTrips(t *testing.T) {
	for _, s := range schema.All() {
		t.Run(string(s.Type), func(t *testing.T) {
			data, err := TemplateCSV(s.Type)
			if err != nil {
				t.Fatalf("TemplateCSV() error = %v", err)
			}

			// A downloaded template must preview back to its own type
			// with a valid mapping and a clean sample row.
			result := Preview(data, "template.csv")
			if !result.Success {
				t.Fatalf("Preview() failed: %s", result.Error)
			}
			if result.TableType != s.Type {
				t.Errorf("detected type = %q, want %q", result.TableType, s.Type)
			}
			if !result.FieldMapping.IsValid {
				t.Errorf("mapping invalid, missing %v", result.FieldMapping.MissingFields)
			}
			if !result.ValidationSummary.IsValid {
				t.Errorf("sample row invalid: %v", result.ValidationSummary.Errors)
			}
		})
	}
}

func TestTemplateCSV_UnknownType(t *testing.T) {
	if _, err := TemplateCSV(schema.TableType("invoices")); err == nil {
		t.Fatal("TemplateCSV() expected error for unknown table type")
	}
}
