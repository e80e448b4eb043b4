package handlers

import (
	"net/http"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/models"
)

// HandleResults serves GET /api/results, listing every processed book
// held in memory.
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	results := h.store.GetAll()
	list := make([]*models.ProcessedResult, 0, len(results))
	for _, result := range results {
		list = append(list, result)
	}
	h.writeJSON(w, list)
}

// HandleResultDetail serves GET /api/results/{id}.
func (h *Handler) HandleResultDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/results/")
	result, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Result not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, result)
	case "DELETE":
		h.store.Delete(id)
		h.writeJSON(w, map[string]any{"success": true})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
