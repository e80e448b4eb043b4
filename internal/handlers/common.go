// Package handlers is the thin HTTP shim over the processing pipeline
// and the bibliographic clients.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Anwitht21/book-extraction/internal/books"
	"github.com/Anwitht21/book-extraction/internal/pipeline"
	"github.com/Anwitht21/book-extraction/internal/preview"
	"github.com/Anwitht21/book-extraction/internal/storage"
)

const (
	// maxUploadBytes caps cover image uploads.
	maxUploadBytes = 10 * 1024 * 1024
	// maxRetries bounds how often a client may resubmit after a
	// not-a-cover rejection.
	maxRetries = 3
)

type Handler struct {
	store      *storage.ResultStore
	pipeline   *pipeline.Pipeline
	editions   *books.GoogleBooksClient
	extractor  *preview.Extractor
	uploadsDir string
}

func New(p *pipeline.Pipeline, editions *books.GoogleBooksClient, extractor *preview.Extractor) *Handler {
	return &Handler{
		store:      storage.New(),
		pipeline:   p,
		editions:   editions,
		extractor:  extractor,
		uploadsDir: "uploads",
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message}); err != nil {
		slog.Error("Unable to encode JSON error response", "err", err)
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
