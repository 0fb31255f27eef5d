// Package console is a minimal read-only diagnostics HTTP surface
// (SPEC_FULL §12's "admin/diagnostics" supplemented feature; spec.md's
// Non-goals explicitly exclude a web UI and a query API, so this package
// stops at status/counts, never serves pages or search results).
//
// Grounded on the teacher's console package's Route/Routes shape
// (controllers.go) and its JSON-response convention (rest.go), stripped
// of the Cassandra-backed dashboard templates and rendering engine, which
// have no place in this module's scope.
package console

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/iParadigms/indexer"
)

const requestTimeout = 5 * time.Second

// Route pairs a path with its handler, mirroring the teacher's
// console.Route.
type Route struct {
	Path       string
	Controller http.HandlerFunc
}

// Stats is what /stats reports: a snapshot of the index's size.
type Stats struct {
	TotalWebsites int64 `json:"total_websites"`
}

// Server exposes read-only status and count endpoints over the Store
// (spec.md §6), for operators to check the pipeline is making progress.
type Server struct {
	Store  indexer.Store
	Logger zerolog.Logger
}

// NewServer builds a Server and its mux.Router.
func NewServer(store indexer.Store, logger zerolog.Logger) *Server {
	return &Server{Store: store, Logger: logger.With().Str("component", "console").Logger()}
}

// Routes mirrors the teacher's Routes() function shape.
func (s *Server) Routes() []Route {
	return []Route{
		{Path: "/healthz", Controller: s.HealthController},
		{Path: "/stats", Controller: s.StatsController},
	}
}

// Router builds a *mux.Router with all Routes registered, the same
// assembly step main.go performs in the teacher's cmd.go console
// subcommand.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	for _, route := range s.Routes() {
		r.HandleFunc(route.Path, route.Controller)
	}
	return r
}

// HealthController answers liveness only: it never touches the Store, so
// it stays meaningful even while the database is unreachable.
func (s *Server) HealthController(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatsController reports index size. Errors talking to the Store are a
// 503, matching the teacher's rest.go convention of a non-200 status
// carrying a JSON error body.
func (s *Server) StatsController(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	total, err := s.Store.CountWebsites(ctx)
	if err != nil {
		s.Logger.Error().Err(err).Msg("stats: counting websites failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Stats{TotalWebsites: total})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
