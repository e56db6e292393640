package api

import "net/http"

// handleRaces handles GET /races. Season markers appear in the log
// alongside real races.
func (s *Server) handleRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.deps.Races(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, races)
}
