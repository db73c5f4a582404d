// Package server exposes the HTTP trigger endpoints invoked by an
// external scheduler.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sslv_watcher/models"
)

// Job is a triggerable unit of work; both the crawler and the cleanup
// sweep satisfy it.
type Job func(ctx context.Context) models.CrawlSummary

type Server struct {
	crawl   Job
	cleanup Job
}

func New(crawl, cleanup Job) *Server {
	return &Server{crawl: crawl, cleanup: cleanup}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/cron/crawler", s.handleJob(s.crawl)).Methods(http.MethodGet)
	r.HandleFunc("/api/cron/cleanup", s.handleJob(s.cleanup)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) ListenAndServe(port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		// Crawl invocations can legitimately run for tens of seconds.
		WriteTimeout: 5 * time.Minute,
	}
	log.Printf("HTTP server listening on :%s", port)
	return srv.ListenAndServe()
}

// handleJob runs the job synchronously and reports its summary. A
// failed invocation answers 500 but still carries the summary body.
func (s *Server) handleJob(job Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := job(r.Context())

		status := http.StatusOK
		if !summary.Success {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, summary)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
