package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/store"
	"github.com/muurk/boxes/internal/version"
)

// Handler returns the HTTP routes for docs and hub.
func Handler(docs *Documents, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)

	h := &handlers{docs: docs, hub: hub}
	r.Get("/health", h.health)
	r.Route("/api/docs", func(r chi.Router) {
		r.Get("/", h.list)
		r.Route("/{handle}", func(r chi.Router) {
			r.Use(validHandle)
			r.Get("/", h.get)
			r.Put("/", h.put)
			r.Get("/watch", h.watch)
		})
	})
	return r
}

// RequestLogger logs every request through the logging package. Watch
// connections are logged when the upgrade completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logging.LogHTTPRequest(r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to the websocket upgrader.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func jsonError(w http.ResponseWriter, msg string, code int, fields map[string]any) {
	body := map[string]any{"error": msg}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}

func validHandle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := store.CheckHandle(chi.URLParam(r, "handle")); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type handlers struct {
	docs *Documents
	hub  *Hub
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   version.Version,
		"documents": len(h.docs.Handles()),
	})
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"handles": h.docs.Handles()})
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.docs.Get(chi.URLParam(r, "handle"))
	if !ok {
		jsonError(w, "no such document", http.StatusNotFound, nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, stored)
}

func (h *handlers) put(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, store.MaxDocumentSize))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge, nil)
		return
	}

	_, err = h.docs.Update(r.Context(), handle, string(body), h.hub.Broadcast)
	if err != nil {
		var pe *notation.ParseError
		if errors.As(err, &pe) {
			logging.LogLoadError(handle, err)
			jsonError(w, pe.Message(), http.StatusUnprocessableEntity, map[string]any{
				"kind": pe.Kind.String(),
				"pos":  pe.Pos,
			})
			return
		}
		if IsRejected(err) {
			jsonError(w, err.Error(), http.StatusBadRequest, nil)
			return
		}
		logging.Error("Failed to store document", zap.String("handle", handle), zap.Error(err))
		jsonError(w, "failed to store document", http.StatusInternalServerError, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) watch(w http.ResponseWriter, r *http.Request) {
	h.hub.Serve(w, r, chi.URLParam(r, "handle"), h.docs)
}
