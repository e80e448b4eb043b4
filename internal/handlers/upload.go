package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Anwitht21/book-extraction/internal/models"
	"github.com/Anwitht21/book-extraction/internal/pipeline"
	"github.com/google/uuid"
)

type uploadResponse struct {
	*pipeline.Outcome
	ResultID string `json:"resultId,omitempty"`
}

// HandleUpload accepts a multipart cover image, runs the pipeline on
// it, and returns either the processed book or retry instructions.
// The uploaded file only exists for the duration of the request.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("coverImage")
	if err != nil {
		file, header, err = r.FormFile("image")
		if err != nil {
			h.writeError(w, "No image file uploaded", http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	if contentType := header.Header.Get("Content-Type"); contentType != "" && !strings.HasPrefix(contentType, "image/") {
		h.writeError(w, "Only image files are allowed", http.StatusBadRequest)
		return
	}

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) > maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	currentRetry, _ := strconv.Atoi(r.FormValue("currentRetry"))

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	imagePath := filepath.Join(h.uploadsDir, uuid.NewString()+filepath.Ext(header.Filename))
	if err := os.WriteFile(imagePath, fileData, 0o644); err != nil {
		h.writeError(w, "Failed to store upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(imagePath)

	outcome, err := h.pipeline.ProcessCover(r.Context(), imagePath, models.RetryState{
		CurrentAttempt: currentRetry,
		MaxRetries:     maxRetries,
	})
	if err != nil {
		h.writeError(w, "Failed to process image: "+err.Error(), http.StatusBadRequest)
		return
	}

	response := uploadResponse{Outcome: outcome}
	if outcome.Success && outcome.Book != nil {
		resultID := uuid.NewString()
		h.store.Set(resultID, &models.ProcessedResult{
			ID:        resultID,
			Book:      outcome.Book,
			CreatedAt: time.Now(),
		})
		response.ResultID = resultID
	}
	h.writeJSON(w, response)
}
