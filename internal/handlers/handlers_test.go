package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/Anwitht21/book-extraction/internal/books"
	"github.com/Anwitht21/book-extraction/internal/models"
	"github.com/Anwitht21/book-extraction/internal/pipeline"
	"github.com/Anwitht21/book-extraction/internal/preview"
	"github.com/Anwitht21/book-extraction/internal/scraper"
)

type stubVision struct {
	isCover bool
}

func (s stubVision) IsBookCover(_ context.Context, _ string) bool { return s.isCover }

func (s stubVision) ExtractTitleAndAuthor(_ context.Context, _ string) (string, string) {
	return "Dune", "Frank Herbert"
}

func (s stubVision) ClassifyBook(_ context.Context, _, _, _ string) models.Classification {
	return models.Classification{IsFiction: true, Confidence: 0.85}
}

func (s stubVision) GenerateSyntheticText(_ context.Context, _, _ string, _ bool) string {
	return "synthetic passage"
}

type stubOCR struct{}

func (stubOCR) ExtractText(_ context.Context, _ string) (string, error) { return "", nil }

type stubLibrary struct{}

func (stubLibrary) Identify(_ context.Context, _, _ string) (*models.BookRecord, error) {
	return nil, nil
}

func (stubLibrary) FetchExcerpt(_ context.Context, _ string) string { return "" }

type stubEditions struct{}

func (stubEditions) FindPreviewEdition(_ context.Context, _ models.BookQuery) (*books.Volume, error) {
	return nil, nil
}

type stubPreview struct{}

func (stubPreview) FromVolume(_ context.Context, _ *books.Volume, _ bool) (*models.PreviewResult, error) {
	return nil, preview.ErrNoPreview
}

func newTestHandler(t *testing.T, isCover bool) *Handler {
	t.Helper()
	p := pipeline.New(stubVision{isCover: isCover}, stubOCR{}, stubLibrary{}, stubEditions{}, stubPreview{})
	h := New(p, books.NewGoogleBooksClient(), preview.NewExtractor(nil, scraper.NewGoogleBooksScraper()))
	h.uploadsDir = t.TempDir()
	return h
}

func multipartImage(t *testing.T, field, retry string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename="cover.jpg"`, field)},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("jpeg bytes")); err != nil {
		t.Fatal(err)
	}
	if retry != "" {
		if err := writer.WriteField("currentRetry", retry); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func TestHandleUploadSuccess(t *testing.T) {
	h := newTestHandler(t, true)
	body, contentType := multipartImage(t, "coverImage", "")

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var response struct {
		Success  bool                  `json:"success"`
		Book     *models.ProcessedBook `json:"bookData"`
		ResultID string                `json:"resultId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if !response.Success || response.Book == nil {
		t.Fatalf("response = %s", rec.Body.String())
	}
	if response.Book.ExtractedText != "synthetic passage" {
		t.Errorf("ExtractedText = %q", response.Book.ExtractedText)
	}
	if response.ResultID == "" {
		t.Error("expected a result id for a stored result")
	}

	if _, ok := h.store.Get(response.ResultID); !ok {
		t.Error("stored result not retrievable")
	}
}

func TestHandleUploadNeedsRetry(t *testing.T) {
	h := newTestHandler(t, false)
	body, contentType := multipartImage(t, "coverImage", "1")

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	var response struct {
		Success        bool `json:"success"`
		NeedsRetry     bool `json:"needsRetry"`
		RetriesLeft    int  `json:"retriesLeft"`
		CurrentAttempt int  `json:"currentAttempt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Success || !response.NeedsRetry {
		t.Fatalf("response = %s", rec.Body.String())
	}
	if response.RetriesLeft != 2 || response.CurrentAttempt != 2 {
		t.Errorf("RetriesLeft = %d, CurrentAttempt = %d, want 2 and 2", response.RetriesLeft, response.CurrentAttempt)
	}
}

func TestHandleUploadCleansUpTempFiles(t *testing.T) {
	for _, isCover := range []bool{true, false} {
		h := newTestHandler(t, isCover)
		body, contentType := multipartImage(t, "image", "0")

		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		h.HandleUpload(httptest.NewRecorder(), req)

		entries, err := os.ReadDir(h.uploadsDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("isCover=%v: %d files left in uploads dir", isCover, len(entries))
		}
	}
}

func TestHandleUploadNoFile(t *testing.T) {
	h := newTestHandler(t, true)
	req := httptest.NewRequest("POST", "/api/upload", bytes.NewBufferString("not multipart"))
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBookSeedCatalog(t *testing.T) {
	h := newTestHandler(t, true)
	req := httptest.NewRequest("GET", "/api/book/9781234567897", nil)
	rec := httptest.NewRecorder()
	h.HandleBook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var response struct {
		Success bool              `json:"success"`
		Book    models.BookRecord `json:"bookData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Book.Title != "The Great Novel" {
		t.Errorf("bookData = %+v", response.Book)
	}
}

func TestHandleBookInvalidISBN(t *testing.T) {
	h := newTestHandler(t, true)
	req := httptest.NewRequest("GET", "/api/book/not-an-isbn", nil)
	rec := httptest.NewRecorder()
	h.HandleBook(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBookProviderLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{
			"id": "vol9",
			"volumeInfo": {
				"title": "Fahrenheit 451",
				"authors": ["Ray Bradbury"],
				"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9781451673319"}]
			},
			"accessInfo": {"viewability": "PARTIAL", "embeddable": true}
		}]}`)
	}))
	defer server.Close()

	h := newTestHandler(t, true)
	h.editions.BaseURL = server.URL
	h.editions.HTTPClient = server.Client()

	req := httptest.NewRequest("GET", "/api/book/9781451673319", nil)
	rec := httptest.NewRecorder()
	h.HandleBook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var response struct {
		Book models.BookRecord `json:"bookData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Book.Title != "Fahrenheit 451" || !response.Book.Embeddable {
		t.Errorf("bookData = %+v", response.Book)
	}
}

func TestHandleResultDetailNotFound(t *testing.T) {
	h := newTestHandler(t, true)
	req := httptest.NewRequest("GET", "/api/results/nope", nil)
	rec := httptest.NewRecorder()
	h.HandleResultDetail(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func multipartImageOfSize(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="coverImage"; filename="cover.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0xFF}, size)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func TestHandleUploadSizeLimit(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantStatus int
	}{
		{name: "exactly at the limit", size: maxUploadBytes, wantStatus: http.StatusOK},
		{name: "one byte over", size: maxUploadBytes + 1, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, true)
			body, contentType := multipartImageOfSize(t, tc.size)

			req := httptest.NewRequest("POST", "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.HandleUpload(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body = %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}
