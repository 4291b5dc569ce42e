package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/middleware"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

// Routes returns the HTTP API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("POST /api/chat", h.chatEndpoint(ModeChat))
	mux.HandleFunc("POST /api/chat/rag", h.chatEndpoint(ModeRAG))
	mux.HandleFunc("POST /api/chat/{domain}", h.handleDomainChat)
	if h.chainEnabled {
		mux.HandleFunc("POST /api/chat/auto", h.chatEndpoint(ModeAuto))
	}
	mux.HandleFunc("POST /api/reviews", h.handleCreateReview)
	mux.HandleFunc("GET /ws/chat", h.handleWebSocket)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
	return middleware.HTTPRecover(middleware.HTTPLogging(mux))
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the ERP Chatbot AI API"})
}

func (h *Handler) chatEndpoint(m Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveChat(w, r, m)
	}
}

func (h *Handler) handleDomainChat(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDomain(r.PathValue("domain"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	h.serveChat(w, r, Mode(d))
}

func (h *Handler) serveChat(w http.ResponseWriter, r *http.Request, m Mode) {
	var req domain.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.answer(r.Context(), m, req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	if h.reviews == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("reviews are not configured"))
		return
	}
	var review domain.Review
	if err := decodeJSON(w, r, &review); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.reviews.Create(r.Context(), review)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"review_id": id, "status": "created"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownDomain), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
