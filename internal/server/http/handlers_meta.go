package http

import (
	"net/http"
	"time"
)

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "OK",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"uptime": time.Since(h.started).Seconds(),
	})
}

func (h *Handler) apiStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "API is Working!"})
}
