// Package web serves the HTTP sidecar surface: a service summary, a local
// health probe, a live workspace lookup and the Prometheus endpoint. It is
// entirely separate from the protocol transport.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/metrics"
)

// Options configures the web server.
type Options struct {
	Addr           string
	ServiceName    string
	ServiceVersion string
	TokenPresent   bool
	Client         workspace.Client
	Metrics        *metrics.Metrics
	Logger         logging.Logger
}

// Server is the HTTP status surface.
type Server struct {
	opts   Options
	logger logging.Logger
	mux    *http.ServeMux
	http   *http.Server
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(io.Discard, logging.NewTextFormatter())
	}

	s := &Server{opts: opts, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/slack/info", s.handleWorkspaceInfo)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	s.mux = mux
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the route table for in-process testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve blocks until ctx is cancelled or the listener fails, then shuts
// down gracefully with a 5 second drain window.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", logging.String("addr", s.opts.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": s.opts.ServiceName,
		"version": s.opts.ServiceVersion,
		"endpoints": map[string]string{
			"health":    "/health",
			"workspace": "/slack/info",
			"metrics":   "/metrics",
		},
	})
}

// handleHealth reports local readiness only. It never calls the Slack API,
// so a workspace outage does not flap the probe. A missing token is still
// healthy: the process is up, it just cannot talk to Slack yet.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"token_configured": s.opts.TokenPresent,
	})
}

func (s *Server) handleWorkspaceInfo(w http.ResponseWriter, r *http.Request) {
	ws, err := s.opts.Client.WorkspaceInfo(r.Context())
	if err != nil {
		s.logger.Error("workspace info failed", logging.ErrorField(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
