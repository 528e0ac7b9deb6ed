// Package http exposes the service's HTTP surface: health probes, the
// session lifecycle REST endpoints, and the interview websocket route.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ai-interview-orchestrator/internal/app"
	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/observability/logging"
	"ai-interview-orchestrator/internal/service/interview"
)

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application, svc *interview.Service, wsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	h := &sessionHandlers{svc: svc}

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.create)
		r.Post("/sessions/{sessionID}/end", h.end)
		r.Get("/sessions/{sessionID}/report", h.report)
		r.Get("/ws/interview/{sessionID}", wsHandler.ServeHTTP)
	})

	return r
}

type sessionHandlers struct {
	svc *interview.Service
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *sessionHandlers) create(w http.ResponseWriter, r *http.Request) {
	var cfg models.SessionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed session config"})
		return
	}
	if cfg.CandidateName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "candidateName is required"})
		return
	}

	id, err := h.svc.CreateSession(r.Context(), cfg)
	if err != nil {
		logging.WithComponent("http").Error().Err(err).Msg("Session creation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not create session"})
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

func (h *sessionHandlers) end(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	report, err := h.svc.EndEarly(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown session"})
			return
		}
		logging.WithSession(sessionID).Error().Err(err).Msg("Early termination failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not end session"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *sessionHandlers) report(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	report, err := h.svc.Report(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrSessionNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown session"})
		case errors.Is(err, interview.ErrReportNotReady):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "report not ready"})
		default:
			logging.WithSession(sessionID).Error().Err(err).Msg("Report lookup failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load report"})
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
