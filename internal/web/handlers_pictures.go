package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/logging"
)

// handleAddPictures attaches the "pictures" files of a multipart form to a
// material. The first picture of a material without pictures becomes primary.
func (s *Server) handleAddPictures(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !isMultipart(r) {
		respondError(w, r, fmt.Errorf("%w: expected multipart/form-data", errBadBody))
		return
	}
	if err := parseMultipart(w, r, s.pictureFormLimit()); err != nil {
		respondError(w, r, err)
		return
	}
	uploads, err := readPictures(r.MultipartForm)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(uploads) == 0 {
		respondError(w, r, errNoFile)
		return
	}

	pics, err := s.service.AddPictures(r.Context(), id, uploads)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pics)
}

// handleRemovePicture deletes one picture. Removing the primary picture
// promotes the earliest remaining one.
func (s *Server) handleRemovePicture(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	pictureID, err := pathID(r, "pictureId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.service.RemovePicture(r.Context(), materialID, pictureID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetPrimary makes one picture the material's primary picture and
// returns the updated picture list.
func (s *Server) handleSetPrimary(w http.ResponseWriter, r *http.Request) {
	materialID, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	pictureID, err := pathID(r, "pictureId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	pics, err := s.service.SetPrimaryPicture(r.Context(), materialID, pictureID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pics)
}

// handleGetPicture sends the stored bytes of one picture.
func (s *Server) handleGetPicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pictureId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := s.service.Picture(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	w.Header().Set("Content-Disposition", contentDisposition("inline", p.FileName))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	writeBody(w, r, p.Data)
}

// handleThumbnail sends a JPEG thumbnail. ?width overrides the configured
// default width.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "pictureId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	width := 0
	if raw := r.URL.Query().Get("width"); raw != "" {
		if width, err = strconv.Atoi(raw); err != nil {
			respondError(w, r, &core.ValidationError{Field: "width", Value: raw, Reason: "must be an integer"})
			return
		}
	}

	data, err := s.service.PictureThumbnail(r.Context(), id, width)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	writeBody(w, r, data)
}

func writeBody(w http.ResponseWriter, r *http.Request, data []byte) {
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Debug("write response body", "error", err)
	}
}
