// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/types"
	"github.com/SamMorton123/velo-research/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Rankings lists riders by rating descending as of a year.
	Rankings(ctx context.Context, asOfYear int, minRating float64, limit int) ([]types.Entry, error)

	// RiderProfile returns the current state of one rider.
	RiderProfile(ctx context.Context, name string) (types.RiderProfile, error)

	// RiderHistory returns one rider's rating timeline.
	RiderHistory(ctx context.Context, name string) ([]model.RatingPoint, error)

	// Races returns the chronological processed-race log.
	Races(ctx context.Context) ([]model.Race, error)

	// Stats exposes service counters for monitoring.
	Stats() map[string]any
}

// Server wires HTTP routes for the rankings API.
type Server struct {
	deps     Dependencies
	maxLimit int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRankingLimit caps the limit query parameter on rankings requests.
func WithMaxRankingLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// NewServer creates an API server over the given dependencies.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/rankings", s.handleRankings)
	r.Get("/races", s.handleRaces)
	r.Route("/riders/{name}", func(r chi.Router) {
		r.Get("/", s.handleRider)
		r.Get("/history", s.handleRiderHistory)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
