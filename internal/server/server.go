package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/numcalc/internal/jobs"
	"github.com/agbru/numcalc/internal/logging"
	"github.com/agbru/numcalc/internal/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// StatusSource is the part of the calculator the server reports on.
type StatusSource interface {
	Current() jobs.Snapshot
	Input() string
	Results() map[string]string
}

// Server exposes /metrics, /jobs and /healthz.
type Server struct {
	source   StatusSource
	metrics  *metrics.JobMetrics
	logger   logging.Logger
	security SecurityConfig
	started  time.Time

	httpServer *http.Server
}

// New builds a server listening on addr. Nothing is bound until Start.
func New(addr string, source StatusSource, m *metrics.JobMetrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		source:   source,
		metrics:  m,
		logger:   logger,
		security: DefaultSecurityConfig(),
		started:  time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	mux.HandleFunc("/jobs", s.wrap(s.handleJobs))
	mux.HandleFunc("/healthz", s.wrap(s.handleHealth))
	return mux
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Start binds the listener and serves in the background. It returns the
// bound address, which differs from the configured one for ":0".
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", err
	}
	s.logger.Info("status server listening", logging.String("addr", ln.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server stopped", err)
		}
	}()
	return ln.Addr().String(), nil
}

// Shutdown stops the server, waiting for in-flight requests up to a fixed
// grace period or until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.code)
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("method not allowed", logging.String("method", r.Method), logging.String("path", r.URL.Path))
	w.Header().Set("Allow", http.MethodGet)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.metrics.Handler().ServeHTTP(w, r)
}

// jobsResponse is the body of GET /jobs.
type jobsResponse struct {
	Input   string            `json:"input"`
	State   jobs.Snapshot     `json:"state"`
	Results map[string]string `json:"results"`
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.writeJSON(w, jobsResponse{
		Input:   s.source.Input(),
		State:   s.source.Current(),
		Results: s.source.Results(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.writeJSON(w, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", err)
	}
}
