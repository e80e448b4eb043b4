package covers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func fakeJPEG(size int) []byte {
	return bytes.Repeat([]byte{0xFF}, size)
}

func TestDownloadFromOpenLibrary(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write(fakeJPEG(2000))
	}))
	defer server.Close()

	f := NewFetcher()
	f.BaseURL = server.URL
	f.HTTPClient = server.Client()

	outputPath := filepath.Join(t.TempDir(), "cover.jpg")
	if err := f.Download(context.Background(), "9780743273565", "", outputPath); err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	if requestedPath != "/b/isbn/9780743273565-L.jpg" {
		t.Errorf("Unexpected request path: %s", requestedPath)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read downloaded cover: %v", err)
	}
	if len(data) != 2000 {
		t.Errorf("Expected 2000 bytes, got %d", len(data))
	}
}

func TestDownloadFallsBackToThumbnail(t *testing.T) {
	// Placeholder sized response forces the fallback.
	olServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakeJPEG(100))
	}))
	defer olServer.Close()

	thumbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakeJPEG(5000))
	}))
	defer thumbServer.Close()

	f := NewFetcher()
	f.BaseURL = olServer.URL

	outputPath := filepath.Join(t.TempDir(), "cover.jpg")
	if err := f.Download(context.Background(), "9780743273565", thumbServer.URL+"/thumb.jpg", outputPath); err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read downloaded cover: %v", err)
	}
	if len(data) != 5000 {
		t.Errorf("Expected thumbnail bytes, got %d", len(data))
	}
}

func TestDownloadNoSources(t *testing.T) {
	f := NewFetcher()
	outputPath := filepath.Join(t.TempDir(), "cover.jpg")

	if err := f.Download(context.Background(), "", "", outputPath); err == nil {
		t.Error("Expected error when no sources are available")
	}
}

func TestDownloadAllSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher()
	f.BaseURL = server.URL
	f.HTTPClient = server.Client()

	outputPath := filepath.Join(t.TempDir(), "cover.jpg")
	if err := f.Download(context.Background(), "9780743273565", "", outputPath); err == nil {
		t.Error("Expected error when cover lookup fails")
	}
}
