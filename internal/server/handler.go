// Package server exposes the assistant over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeeves-ai/jeeves/internal/assistant"
	"github.com/jeeves-ai/jeeves/internal/history"
	"github.com/jeeves-ai/jeeves/internal/resilience"
)

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer   string `json:"answer"`
	Locale   string `json:"locale"`
	Degraded bool   `json:"degraded"`
	Cached   bool   `json:"cached"`
	Source   string `json:"source"`
}

type RatesResponse struct {
	Rates map[string]string `json:"rates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	assistant *assistant.Assistant
	store     *history.Store
}

// NewHandler builds the API handler. store may be nil when history
// recording is disabled.
func NewHandler(a *assistant.Assistant, store *history.Store) *Handler {
	return &Handler{assistant: a, store: store}
}

// Router wires the API routes. gatherer may be nil to skip /metrics.
func (h *Handler) Router(gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/v1/ask", h.handleAsk).Methods(http.MethodPost)
	router.HandleFunc("/v1/rates", h.handleRates).Methods(http.MethodGet)
	router.HandleFunc("/v1/rates/{country}", h.handleRate).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return router
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var request AskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if request.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	started := time.Now()
	reply, err := h.assistant.Answer(r.Context(), request.Question)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, resilience.ErrQuotaExceeded) {
			status = http.StatusTooManyRequests
		}
		slog.Default().Error("failed to answer question", "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	h.record(r, request.Question, reply, time.Since(started))
	writeJSON(w, http.StatusOK, AskResponse{
		Answer:   reply.Text,
		Locale:   reply.Locale,
		Degraded: reply.Degraded,
		Cached:   reply.Cached,
		Source:   string(reply.Source),
	})
}

func (h *Handler) record(r *http.Request, question string, reply assistant.Reply, elapsed time.Duration) {
	if h.store == nil {
		return
	}
	if err := h.store.Record(r.Context(), history.Entry{
		Question:   question,
		Locale:     reply.Locale,
		Answer:     reply.Text,
		Source:     string(reply.Source),
		Degraded:   reply.Degraded,
		Cached:     reply.Cached,
		DurationMs: elapsed.Milliseconds(),
	}); err != nil {
		slog.Default().Warn("failed to record ask history", "error", err)
	}
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	rates := make(map[string]string, len(assistant.Countries()))
	for _, country := range assistant.Countries() {
		sentence, _ := assistant.LookupRate(country)
		rates[country] = sentence
	}
	writeJSON(w, http.StatusOK, RatesResponse{Rates: rates})
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	country := mux.Vars(r)["country"]
	sentence, found := assistant.LookupRate(country)
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: sentence})
		return
	}
	writeJSON(w, http.StatusOK, RatesResponse{Rates: map[string]string{country: sentence}})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// CORSMiddleware mirrors the allowed origin the web front-end runs on.
func CORSMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
