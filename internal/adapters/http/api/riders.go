package api

import (
	"errors"
	"net/http"

	service "github.com/SamMorton123/velo-research/internal/app"
	"github.com/go-chi/chi/v5"
)

// handleRider handles GET /riders/{name}.
func (s *Server) handleRider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	profile, err := s.deps.RiderProfile(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRider) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleRiderHistory handles GET /riders/{name}/history.
func (s *Server) handleRiderHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	history, err := s.deps.RiderHistory(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRider) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
