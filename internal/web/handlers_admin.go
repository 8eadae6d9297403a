package web

import (
	"net/http"

	"github.com/JonMunkholm/materials/internal/logging"
)

// handleReset deletes every material and picture. The activity trail is
// kept and records the reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetCatalog(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Warn("catalog reset", "user", userName(r))
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports liveness and the import limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.ImportLimiterStatus(),
	})
}
