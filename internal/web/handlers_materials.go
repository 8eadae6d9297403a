package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/materials/internal/core"
)

// handleCreateMaterial creates a material from a JSON body, or from a
// multipart form with a "material" JSON field and optional "pictures" files.
func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var (
		dto     core.MaterialDTO
		uploads []core.PictureUpload
	)

	if isMultipart(r) {
		if err := parseMultipart(w, r, s.pictureFormLimit()); err != nil {
			respondError(w, r, err)
			return
		}
		raw := r.FormValue("material")
		if raw == "" {
			respondError(w, r, fmt.Errorf("%w: missing material field", errBadBody))
			return
		}
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			respondError(w, r, fmt.Errorf("%w: material: %v", errBadBody, err))
			return
		}
		var err error
		if uploads, err = readPictures(r.MultipartForm); err != nil {
			respondError(w, r, err)
			return
		}
	} else if err := decodeJSON(w, r, &dto); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.service.CreateMaterial(r.Context(), dto, uploads)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/materials/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// handleGetMaterial returns one material with its picture metadata.
func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	dto, err := s.service.GetMaterial(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// handleUpdateMaterial applies a partial update.
func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.MaterialPatchDTO
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	dto, err := s.service.UpdateMaterial(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// handleDeleteMaterial removes a material and its pictures.
func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.service.DeleteMaterial(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchMaterials lists materials matching the query filters, newest
// first. Pages are 0-based.
func (s *Server) handleSearchMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := s.service.SearchMaterials(r.Context(), core.SearchParams{
		Category:  q.Get("category"),
		Type:      q.Get("type"),
		Condition: q.Get("condition"),
		Query:     q.Get("query"),
		Page:      parseIntParam(r, "page", 0, 0),
		Size:      parseIntParam(r, "size", core.DefaultPageSize, 1),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStats returns catalog statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleListKinds describes every material kind and its fields.
func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListKinds())
}
