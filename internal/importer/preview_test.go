package importer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stoneyard/backoffice/internal/schema"
)

// ============================================================================
// Preview Tests
// ============================================================================

func TestPreview_ValidFile(t *testing.T) {
	data := []byte("Name,Email,Phone\nAlma,a@example.com,555-0101\nBo,b@example.com,555-0102\n")

	result := Preview(data, "clients.csv")

	if !result.Success {
		t.Fatalf("Success = false, Error = %q", result.Error)
	}
	if result.TableType != schema.TableClients {
		t.Errorf("TableType = %q, want clients", result.TableType)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if result.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", result.TotalRows)
	}
	if len(result.PreviewRows) != 2 {
		t.Errorf("len(PreviewRows) = %d, want 2", len(result.PreviewRows))
	}
	if result.Filename != "clients.csv" {
		t.Errorf("Filename = %q, want clients.csv", result.Filename)
	}
	if result.FileSize != int64(len(data)) {
		t.Errorf("FileSize = %d, want %d", result.FileSize, len(data))
	}
	if result.FieldMapping == nil || !result.FieldMapping.IsValid {
		t.Errorf("FieldMapping = %+v, want valid", result.FieldMapping)
	}
	if result.ValidationSummary == nil || !result.ValidationSummary.IsValid {
		t.Errorf("ValidationSummary = %+v, want valid", result.ValidationSummary)
	}
}

func TestPreview_SampleCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("Name,Email\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "Client %d,c%d@example.com\n", i, i)
	}

	result := Preview([]byte(b.String()), "big.csv")

	if result.TotalRows != 100 {
		t.Errorf("TotalRows = %d, want 100", result.TotalRows)
	}
	if len(result.PreviewRows) != PreviewSampleRows {
		t.Errorf("len(PreviewRows) = %d, want %d", len(result.PreviewRows), PreviewSampleRows)
	}
	// The sample is the first rows in file order.
	if result.PreviewRows[0]["Name"] != "Client 0" {
		t.Errorf("PreviewRows[0] = %v, want first file row", result.PreviewRows[0])
	}
}

func TestPreview_HeaderOnlyFile(t *testing.T) {
	result := Preview([]byte("Name,Email\n"), "empty.csv")

	if !result.Success {
		t.Fatalf("Success = false, Error = %q", result.Error)
	}
	if result.TotalRows != 0 {
		t.Errorf("TotalRows = %d, want 0", result.TotalRows)
	}
	if len(result.PreviewRows) != 0 {
		t.Errorf("PreviewRows = %v, want empty", result.PreviewRows)
	}
}

func TestPreview_ReportsValidationErrors(t *testing.T) {
	data := []byte("Name,Email\nAlma,a@example.com\nNoEmail,\n")

	result := Preview(data, "clients.csv")

	if !result.Success {
		t.Fatalf("Success = false; validation defects should not fail the preview")
	}
	if result.ValidationSummary.IsValid {
		t.Fatal("ValidationSummary.IsValid = true, want false")
	}
	if result.ValidationSummary.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", result.ValidationSummary.ErrorCount)
	}
	if result.ValidationSummary.Errors[0].Row != 3 {
		t.Errorf("error row = %d, want 3", result.ValidationSummary.Errors[0].Row)
	}
}

func TestPreview_ReportsMissingColumns(t *testing.T) {
	data := []byte("Name,Phone\nAlma,555-0101\n")

	result := Preview(data, "clients.csv")

	if !result.Success {
		t.Fatalf("Success = false; a missing column is reported, not fatal")
	}
	if result.FieldMapping.IsValid {
		t.Fatal("FieldMapping.IsValid = true, want false")
	}
	if !reflect.DeepEqual(result.FieldMapping.MissingFields, []string{"email"}) {
		t.Errorf("MissingFields = %v, want [email]", result.FieldMapping.MissingFields)
	}
}

func TestPreview_UnknownHeaders(t *testing.T) {
	result := Preview([]byte("Foo,Bar\n1,2\n"), "mystery.csv")

	if result.Success {
		t.Fatal("Success = true, want false for unknown headers")
	}
	if result.Error == "" {
		t.Error("Error should carry a message")
	}
	if result.TableType != "" {
		t.Errorf("TableType = %q, want empty on failure", result.TableType)
	}
}

func TestPreview_EmptyFile(t *testing.T) {
	result := Preview(nil, "empty.csv")

	if result.Success {
		t.Fatal("Success = true, want false for empty file")
	}
	if !strings.Contains(result.Error, "parse CSV") {
		t.Errorf("Error = %q, want a parse message", result.Error)
	}
}

func TestPreview_Idempotent(t *testing.T) {
	data := []byte("Bundle ID,Slab Number,Status\nB-1,1,available\nB-1,2,sold\n")

	first := Preview(data, "slabs.csv")
	for i := 0; i < 5; i++ {
		got := Preview(data, "slabs.csv")
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: preview differs for identical input", i)
		}
	}
}
