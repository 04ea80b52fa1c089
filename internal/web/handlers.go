package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stoneyard/backoffice/internal/importer"
	"github.com/stoneyard/backoffice/internal/schema"
)

// commitResponse wraps an ImportResult with a human-readable summary line.
type commitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*importer.ImportResult
}

// schemaInfo describes one recognized table type for clients building
// mapping UIs.
type schemaInfo struct {
	TableType schema.TableType `json:"tableType"`
	Fields    []fieldInfo      `json:"fields"`
}

type fieldInfo struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	Required   bool     `json:"required"`
	Kind       string   `json:"kind"`
	EnumValues []string `json:"enumValues,omitempty"`
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// readUploadedFile extracts the uploaded CSV from a multipart form,
// enforcing the configured size limit. On failure it writes the error
// response and returns ok=false.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return nil, "", false
	}

	return data, header.Filename, true
}

// handlePreview analyzes a CSV file and returns what would happen on
// commit. Nothing is written; the response carries its own success flag
// so analysis failures still return 200.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUploadedFile(w, r)
	if !ok {
		return
	}

	writeJSON(w, importer.Preview(data, filename))
}

// handleCommit imports a CSV file into storage. Form fields:
//
//	file       multipart CSV content (required)
//	skipErrors "true" to skip failed rows instead of aborting (default false)
//	batchSize  rows per storage call (default from config, clamped)
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUploadedFile(w, r)
	if !ok {
		return
	}

	settings := importer.Settings{
		BatchSize: s.cfg.Import.DefaultBatchSize,
	}

	if v := r.FormValue("skipErrors"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid skipErrors value")
			return
		}
		settings.SkipErrors = skip
	}

	if v := r.FormValue("batchSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid batchSize value")
			return
		}
		settings.BatchSize = size
	}

	result, err := s.importer.Import(r.Context(), data, filename, settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, commitResponse{
		Success:      result.Failed == 0,
		Message:      commitMessage(result),
		ImportResult: result,
	})
}

// commitMessage builds the one-line summary for a commit response.
func commitMessage(result *importer.ImportResult) string {
	if result.Failed == 0 {
		return fmt.Sprintf("imported %d rows into %s", result.Imported, result.Type)
	}
	return fmt.Sprintf("imported %d rows into %s, %d failed", result.Imported, result.Type, result.Failed)
}

// handleDownloadTemplate returns a blank CSV template for a table type,
// with canonical headers and one example row.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := schema.ParseTableType(chi.URLParam(r, "tableType"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown table type")
		return
	}

	data, err := importer.TemplateCSV(t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build template")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, t))
	w.Write(data)
}

// handleListSchemas returns the recognized table types and their fields.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas := schema.All()
	out := make([]schemaInfo, 0, len(schemas))
	for _, sc := range schemas {
		info := schemaInfo{TableType: sc.Type}
		for _, f := range sc.Fields {
			info.Fields = append(info.Fields, fieldInfo{
				Name:       f.Name,
				Aliases:    f.Aliases,
				Required:   f.Required,
				Kind:       f.Kind.String(),
				EnumValues: f.EnumValues,
			})
		}
		out = append(out, info)
	}

	writeJSON(w, out)
}
