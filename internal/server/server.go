// Package server exposes the pipeline over HTTP for back-office integration.
// One POST endpoint processes a notice synchronously; health and Prometheus
// metrics endpoints support operation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lgmartins/triagem/internal/model"
)

// Processor processes one notice text
type Processor interface {
	Process(ctx context.Context, text string) (*model.PipelineResult, error)
}

// Server serves the triage API
type Server struct {
	processor Processor
	metrics   *Metrics
	router    chi.Router
	addr      string
}

// New builds a server around the processor
func New(cfg model.ServerConfig, processor Processor) *Server {
	s := &Server{
		processor: processor,
		metrics:   NewMetrics(),
		addr:      cfg.Addr,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Post("/v1/notices", s.handleProcess)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving the API until ctx is canceled, then shuts
// down draining in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type processRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req processRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("empty text"))
		return
	}

	result, err := s.processor.Process(r.Context(), req.Text)
	if err != nil {
		s.metrics.Errors.Inc()
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.Observe(result, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.metrics.Errors.Inc()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
