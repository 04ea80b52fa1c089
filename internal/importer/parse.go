package importer

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// ParseFile turns raw file bytes into a ParsedFile. The first non-empty
// record is the header row; everything after it is data. Header strings
// are preserved verbatim. A row with fewer cells than the header is
// padded with empty strings; extra cells are dropped. Neither condition
// aborts the parse.
func ParseFile(data []byte) (*ParsedFile, error) {
	data = sanitizeUTF8(stripBOM(data))

	records, err := readRecords(data)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{Reason: "empty file"}
	}

	// Skip leading blank records before the header.
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &ParseError{Reason: "no header row found"}
	}

	headers := make([]string, len(records[headerIdx]))
	for i, h := range records[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	dataRecords := records[headerIdx+1:]
	pf := &ParsedFile{
		Headers: headers,
		Rows:    make([]Row, 0, len(dataRecords)),
	}

	for _, rec := range dataRecords {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		pf.Rows = append(pf.Rows, row)
	}

	return pf, nil
}

// readRecords parses comma-delimited text. Variable field counts are
// allowed so a single ragged row never fails the whole file.
func readRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// stripBOM removes a leading UTF-8 byte order mark, common in Windows
// spreadsheet exports.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so downstream string handling is safe.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// isEmptyRow reports whether every cell of a parsed row is blank.
func isEmptyRow(row Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, Excel formula prefixes (="value"), and stray quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}
