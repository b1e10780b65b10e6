// =============================================================================
// MI Billing Merger - HTTP API Module
// =============================================================================
//
// This module exposes the merge pipeline over HTTP for interactive callers:
//
//   POST /api/process               - multipart upload: fields "mi" (the MI
//                                     spreadsheet) and "billing" (the ZIP of
//                                     billing files). Responds with the merge
//                                     result JSON plus a job id.
//   GET  /api/result/{id}/download  - streams the merged workbook as an xlsx
//                                     attachment.
//   GET  /healthz                   - liveness probe.
//
// Merge requests are serialized behind a mutex: a user double-clicking
// "process" gets the second request queued, not doubled work racing the
// first. Finished results are kept in an in-memory registry keyed by job id
// until the process exits; nothing is persisted.
//
// =============================================================================

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"mimerge/internal/config"
	"mimerge/internal/emitter"
	"mimerge/internal/extractor"
	"mimerge/internal/logging"
	"mimerge/internal/merger"
	"mimerge/internal/types"
)

// =============================================================================
// SERVER STRUCTURE
// =============================================================================

// Server wires the pipeline components behind an http.Handler.
type Server struct {
	cfg    *config.Config
	logger logging.Logger

	extractor *extractor.Extractor
	merger    *merger.Merger
	emitter   *emitter.Emitter

	// processMu is the per-request serialization point for merge work.
	processMu sync.Mutex

	// mu guards the jobs registry.
	mu   sync.RWMutex
	jobs map[string]*job
}

// job is one finished merge kept for download.
type job struct {
	ID     string
	Result types.MergeResult
}

// processResponse is the JSON body of POST /api/process: the merge result
// contract plus the handle for fetching the workbook.
type processResponse struct {
	types.MergeResult
	ID          string `json:"id,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// New creates a Server from the application configuration.
func New(cfg *config.Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor.New(cfg, logger),
		merger:    merger.New(cfg),
		emitter:   emitter.New(cfg),
		jobs:      make(map[string]*job),
	}
}

// Handler returns the route table for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("GET /api/result/{id}/download", s.handleDownload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the server on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Handler())
}

// =============================================================================
// HANDLERS
// =============================================================================

// handleProcess runs the full extract + merge pipeline for one upload.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	miName, miBytes, err := formFileBytes(r, "mi")
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, fmt.Errorf("reading MI upload: %w", err))
		return
	}
	_, billingBytes, err := formFileBytes(r, "billing")
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, fmt.Errorf("reading billing upload: %w", err))
		return
	}

	// One merge at a time; a rapid double submit waits instead of racing.
	s.processMu.Lock()
	defer s.processMu.Unlock()

	dict, err := s.extractor.Extract(billingBytes)
	if err != nil {
		s.logger.Error("extraction failed: %v", err)
		s.writeFailure(w, http.StatusUnprocessableEntity, err)
		return
	}

	result := s.merger.Merge(miName, miBytes, dict)
	if !result.Success {
		s.logger.Error("merge failed: %s", result.Error)
		writeJSON(w, http.StatusUnprocessableEntity, processResponse{MergeResult: result})
		return
	}

	j := &job{ID: uuid.New().String(), Result: result}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()

	s.logger.Info("merge complete: %d matched, %d unmatched (job %s)",
		result.MatchedCount, result.UnmatchedCount, j.ID)

	writeJSON(w, http.StatusOK, processResponse{
		MergeResult: result,
		ID:          j.ID,
		DownloadURL: fmt.Sprintf("/api/result/%s/download", j.ID),
	})
}

// handleDownload streams a finished merge as an xlsx attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.RLock()
	j, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "unknown result id", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", s.cfg.OutputFileName+".xlsx"))

	if err := s.emitter.Write(j.Result.Headers, j.Result.Rows, w); err != nil {
		// Headers are already gone; all we can do is log.
		s.logger.Error("streaming result %s: %v", id, err)
	}
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formFileBytes reads one multipart file field fully into memory.
func formFileBytes(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// writeFailure responds with the structured failure contract.
func (s *Server) writeFailure(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, processResponse{MergeResult: types.Failure(err)})
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
