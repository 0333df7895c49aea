// Package http provides the upload front end: a small HTTP server that
// accepts a saved search-results page, runs extraction, optionally delivers
// the records, and returns a JSON summary.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/tlegrand/mapscan"
	"github.com/tlegrand/mapscan/deliver"
)

// DefaultMaxUploadBytes caps uploaded documents at 16 MiB.
const DefaultMaxUploadBytes = 16 << 20

// Server serves the upload front end.
type Server struct {
	Addr string

	Extractor mapscan.ListingExtractor

	// Runs, if set, stages every extraction as a persisted run.
	Runs mapscan.RunService

	// Deliverer, if set, enables the deliver=true form flag.
	Deliverer *deliver.Deliverer

	Logger *slog.Logger

	// MaxUploadBytes caps the request body. Zero means the default.
	MaxUploadBytes int64

	srv *http.Server
}

// uploadResponse is the JSON summary returned for one uploaded document.
type uploadResponse struct {
	Source      string              `json:"source"`
	Attempted   int                 `json:"attempted"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	Failures    []string            `json:"failures,omitempty"`
	Diagnostics []string            `json:"diagnostics,omitempty"`
	RunID       string              `json:"runId,omitempty"`
	Records     []*mapscan.Business `json:"records"`
	Delivery    *deliveryResponse   `json:"delivery,omitempty"`
}

type deliveryResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))
	r.Get("/healthz", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".html" && ext != ".htm" {
		s.writeError(w, http.StatusBadRequest, "unsupported file type, use .html or .htm")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(content) == 0 {
		s.writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	ov := mapscan.Overrides{
		City:     strings.TrimSpace(r.FormValue("city")),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	report := s.Extractor.ExtractAll(string(content), ov)

	resp := &uploadResponse{
		Source:      header.Filename,
		Attempted:   report.Attempted,
		Succeeded:   report.Succeeded,
		Failed:      report.Failed,
		Failures:    report.Failures,
		Diagnostics: report.Diagnostics,
		Records:     report.Records,
	}
	if resp.Records == nil {
		resp.Records = []*mapscan.Business{}
	}

	if s.Runs != nil && report.Attempted > 0 {
		run := mapscan.NewRun(header.Filename, report)
		if err := s.Runs.CreateRun(r.Context(), run); err != nil {
			s.logError("failed to stage run", err)
		} else {
			resp.RunID = run.ID
		}
	}

	if r.FormValue("deliver") == "true" {
		if s.Deliverer == nil {
			s.writeError(w, http.StatusUnprocessableEntity, "delivery is not configured")
			return
		}
		result, err := s.Deliverer.DeliverAll(r.Context(), report.Records, nil)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "delivery interrupted")
			return
		}
		resp.Delivery = &deliveryResponse{
			Created:    result.Created,
			Duplicates: result.Duplicates,
			Failed:     result.Failed,
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logError("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) logError(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Error(msg, "error", err)
	}
}
