// Package observability serves Prometheus metrics and process probes on a
// dedicated listener, away from the interview API.
package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ai-interview-orchestrator/internal/observability/logging"
)

// Server exposes /metrics, /healthz and /readyz. Scrapes and probes never
// contend with interview traffic.
type Server struct {
	srv  *http.Server
	addr string
}

// NewServer builds the metrics listener for the given address.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves in the background. A listen failure is logged rather than
// returned; the interview API keeps running without its metrics listener.
func (s *Server) Start() {
	go func() {
		logging.WithComponent("metrics").Info().Str("addr", s.addr).Msg("Metrics listener started")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.WithComponent("metrics").Error().Err(err).Msg("Metrics listener failed")
		}
	}()
}

// Shutdown drains the metrics listener.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.WithComponent("metrics").Info().Msg("Metrics listener stopping")
	return s.srv.Shutdown(ctx)
}
