package handlers

import (
	"net/http"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/classify"
	"github.com/Anwitht21/book-extraction/internal/isbn"
	"github.com/Anwitht21/book-extraction/internal/models"
)

// knownBooks is a small seed catalog answered without a provider call.
var knownBooks = map[string]models.BookRecord{
	"9781234567897": {
		Title:           "The Great Novel",
		Author:          "Jane Doe",
		ISBN:            "9781234567897",
		Publisher:       "Example Press",
		PublicationYear: 2022,
		Description:     "A fascinating story about technology and humanity.",
	},
	"9789876543210": {
		Title:           "Programming Concepts",
		Author:          "John Smith",
		ISBN:            "9789876543210",
		Publisher:       "Tech Books Inc.",
		PublicationYear: 2021,
		Description:     "A comprehensive guide to modern programming paradigms.",
	},
}

// HandleBook serves GET /api/book/{isbn}: the seed catalog first, then
// an ISBN-scoped provider lookup.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/book/")
	if raw == "" {
		h.writeError(w, "ISBN is required", http.StatusBadRequest)
		return
	}
	normalized := isbn.Normalize(raw)

	if record, ok := knownBooks[normalized]; ok {
		h.writeJSON(w, map[string]any{
			"success":  true,
			"message":  "Book data retrieved successfully",
			"bookData": record,
		})
		return
	}

	if !isbn.Valid(normalized) {
		h.writeError(w, "Invalid ISBN: "+raw, http.StatusBadRequest)
		return
	}

	edition, err := h.editions.FindPreviewEdition(r.Context(), models.BookQuery{ISBN: normalized})
	if err != nil || edition == nil {
		h.writeError(w, "No book found with ISBN: "+normalized, http.StatusNotFound)
		return
	}
	h.writeJSON(w, map[string]any{
		"success":  true,
		"message":  "Book data retrieved successfully",
		"bookData": edition.Record(),
	})
}

// HandleBookPreview serves GET /api/book/preview?title=&author=.
// It returns preview text only, using the category heuristic for the
// fiction decision since no cover image is involved.
func (h *Handler) HandleBookPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		h.writeError(w, "Book title is required", http.StatusBadRequest)
		return
	}
	author := r.URL.Query().Get("author")

	edition, err := h.editions.FindPreviewEdition(r.Context(), models.BookQuery{Title: title, Author: author})
	if err != nil || edition == nil {
		h.writeError(w, "Book preview not found", http.StatusNotFound)
		return
	}

	isFiction := classify.IsFiction(classify.Signals{
		Categories:   edition.VolumeInfo.Categories,
		MainCategory: edition.VolumeInfo.MainCategory,
		Description:  edition.VolumeInfo.Description,
		Title:        edition.VolumeInfo.Title,
	})

	result, err := h.extractor.FromVolume(r.Context(), edition, isFiction)
	if err != nil {
		h.writeError(w, "Book preview not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, map[string]any{
		"success":     true,
		"previewText": result.Text,
		"preview":     result,
	})
}
