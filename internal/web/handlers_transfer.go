package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/logging"
)

// handleImport imports the "file" part of a multipart form, xlsx or csv.
// Bad rows are reported in the result and do not fail the request.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// The whole body may carry a little form overhead beyond the file.
	if err := parseMultipart(w, r, s.cfg.Import.MaxFileSize+maxJSONBody); err != nil {
		respondError(w, r, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	result, err := s.service.ImportMaterials(r.Context(), header.Filename, file)
	if err != nil && result == nil {
		respondError(w, r, err)
		return
	}
	if err != nil {
		// Stopped part way: the unsaved rows are listed in result.Failed.
		logging.FromContext(r.Context()).Warn("import stopped", "error", err, "created", result.Created)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExport downloads every material as xlsx (default) or csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := queryFormat(w, r)
	if !ok {
		return
	}

	// Rendered into a buffer so a failure can still become an error response.
	var buf bytes.Buffer
	if err := s.service.ExportMaterials(r.Context(), &buf, format); err != nil {
		respondError(w, r, err)
		return
	}
	sendFile(w, r, format, "materials."+string(format), buf.Bytes())
}

// handleTemplate downloads the import template.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	format, ok := queryFormat(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.service.WriteTemplate(&buf, format); err != nil {
		respondError(w, r, err)
		return
	}
	sendFile(w, r, format, "material-template."+string(format), buf.Bytes())
}

func queryFormat(w http.ResponseWriter, r *http.Request) (core.Format, bool) {
	raw := r.URL.Query().Get("format")
	format, err := core.ParseFormat(raw)
	if err != nil {
		respondError(w, r, &core.ValidationError{Field: "format", Value: raw, Reason: "use xlsx or csv"})
		return "", false
	}
	return format, true
}

func sendFile(w http.ResponseWriter, r *http.Request, format core.Format, name string, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", contentDisposition("attachment", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	writeBody(w, r, data)
}
