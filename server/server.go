// Package server exposes a session orchestrator over HTTP.
//
//	POST /session/reset    {"trustees": 3, "threshold": 2}
//	POST /session/step     {"selector": "all"}
//	POST /session/ballots  {"count": 5}
//	GET  /session
//
// Every route answers with the session's [session.Info] as JSON.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/f3rmion/trusteeboard/session"
)

// Handler serves one orchestrator.
type Handler struct {
	orch *session.Orchestrator
	log  zerolog.Logger
}

// NewHandler returns a handler for orch that logs requests to log.
func NewHandler(orch *session.Orchestrator, log zerolog.Logger) *Handler {
	return &Handler{orch: orch, log: log}
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/session", h.info)
	r.Post("/session/reset", h.reset)
	r.Post("/session/step", h.step)
	r.Post("/session/ballots", h.ballots)
}

// ResetRequest is the body of POST /session/reset.
type ResetRequest struct {
	Trustees  int `json:"trustees"`
	Threshold int `json:"threshold"`
}

// StepRequest is the body of POST /session/step. An empty selector steps
// every trustee.
type StepRequest struct {
	Selector string `json:"selector"`
}

// BallotsRequest is the body of POST /session/ballots.
type BallotsRequest struct {
	Count int `json:"count"`
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	writeInfo(w, h.orch.Info())
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[ResetRequest](w, r)
	if !ok {
		return
	}
	info, err := h.orch.Reset(req.Trustees, req.Threshold)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to reset session: %v", err), statusFor(err))
		return
	}
	writeInfo(w, info)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[StepRequest](w, r)
	if !ok {
		return
	}
	info, err := h.orch.Step(req.Selector)
	var stepErr *session.StepError
	if err != nil && !errors.As(err, &stepErr) {
		http.Error(w, fmt.Sprintf("Failed to step: %v", err), statusFor(err))
		return
	}
	// Trustee failures are listed in the Info; the others' messages were posted.
	writeInfo(w, info)
}

func (h *Handler) ballots(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[BallotsRequest](w, r)
	if !ok {
		return
	}
	info, err := h.orch.Ballots(req.Count)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to cast ballots: %v", err), statusFor(err))
		return
	}
	writeInfo(w, info)
}

// decode reads a JSON body into T. An empty body yields the zero T.
func decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	defer r.Body.Close()
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func writeInfo(w http.ResponseWriter, info *session.Info) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(info)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidParameters), errors.Is(err, session.ErrInvalidSelector):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}
