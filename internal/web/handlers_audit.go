package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleRecentActivity returns the latest activity entries, newest first.
// With ?format=csv the same page is sent as a CSV download.
func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultAuditLimit, 1)
	offset := parseIntParam(r, "offset", 0, 0)

	entries, err := s.service.RecentActivity(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		writeActivityCSV(w, r, entries)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleMaterialActivity returns the history of one material, including
// one that has since been deleted.
func (s *Server) handleMaterialActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materialId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	entries, err := s.service.MaterialActivity(r.Context(), id, parseIntParam(r, "limit", core.DefaultAuditLimit, 1))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleUserActivity returns the entries recorded for one user name.
func (s *Server) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.UserActivity(r.Context(), chi.URLParam(r, "name"), parseIntParam(r, "limit", core.DefaultAuditLimit, 1))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeActivityCSV streams entries as a CSV attachment.
func writeActivityCSV(w http.ResponseWriter, r *http.Request, entries []core.AuditEntry) {
	filename := fmt.Sprintf("activity_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", contentDisposition("attachment", filename))

	cw := csv.NewWriter(w)
	cw.Write([]string{
		"ID", "Timestamp", "Action", "Severity", "Material ID", "Material",
		"User Name", "IP Address", "Batch ID", "Details",
	})
	for _, e := range entries {
		materialID := ""
		if e.MaterialID > 0 {
			materialID = strconv.FormatInt(e.MaterialID, 10)
		}
		cw.Write([]string{
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			string(e.Action),
			string(e.Severity),
			materialID,
			e.MaterialName,
			e.UserName,
			e.IPAddress,
			e.BatchID,
			e.Details,
		})
	}
	cw.Flush()

	// Headers are already sent, so a write error can only be logged.
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Warn("activity csv write failed", "error", err)
	}
}
