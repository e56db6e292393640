package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// handleRankings handles GET /rankings?year=YYYY&min_rating=N&limit=N.
// Year defaults to the current year, min_rating to zero, limit to the
// configured maximum.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year := time.Now().Year()
	if raw := q.Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: year %q", ErrBadRequest, raw))
			return
		}
		year = n
	}

	var minRating float64
	if raw := q.Get("min_rating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: min_rating %q", ErrBadRequest, raw))
			return
		}
		minRating = f
	}

	limit := s.maxLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, raw))
			return
		}
		if n > s.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit above %d", ErrBadRequest, s.maxLimit))
			return
		}
		limit = n
	}

	entries, err := s.deps.Rankings(r.Context(), year, minRating, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
