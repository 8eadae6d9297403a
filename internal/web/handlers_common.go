package web

// handlers_common.go contains shared utilities used across handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxFormMemory is how much of a multipart body is held in memory before
// parts spill to temporary files.
const maxFormMemory = 32 << 20

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// parseIntParam parses an integer query parameter with a default value.
// Values below floor fall back to the default.
func parseIntParam(r *http.Request, name string, defaultVal, floor int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < floor {
		return defaultVal
	}
	return i
}

// pathID parses a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: name, Value: raw, Reason: "must be a positive integer"}
	}
	return id, nil
}

// decodeJSON decodes a size-limited JSON body into v, rejecting unknown
// fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart parses a multipart body of at most limit bytes.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, limit)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// readPictures reads every "pictures" part of a parsed multipart form. The
// optional "descriptions" values pair with the files by position. Parts sent
// without a specific type are sniffed.
func readPictures(form *multipart.Form) ([]core.PictureUpload, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File["pictures"]
	descriptions := form.Value["descriptions"]

	uploads := make([]core.PictureUpload, 0, len(files))
	for i, fh := range files {
		data, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		up := core.PictureUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
		if i < len(descriptions) {
			up.Description = strings.TrimSpace(descriptions[i])
		}
		if up.ContentType == "" || up.ContentType == "application/octet-stream" {
			up.ContentType = http.DetectContentType(data)
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// pictureFormLimit is the largest multipart body a picture upload may send.
func (s *Server) pictureFormLimit() int64 {
	return s.cfg.Picture.MaxSize*int64(s.cfg.Picture.MaxPerRequest) + maxJSONBody
}

// contentDisposition builds a Content-Disposition value with filename
// quoted and escaped.
func contentDisposition(disposition, filename string) string {
	return mime.FormatMediaType(disposition, map[string]string{"filename": filename})
}
