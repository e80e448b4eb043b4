// Package covers downloads book cover images.
package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Open Library returns a tiny placeholder JPEG instead of a 404 for
// unknown ISBNs.
const minImageBytes = 1000

// Fetcher retrieves cover images from Open Library with a fallback to a
// caller supplied thumbnail URL.
type Fetcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFetcher creates a new cover fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		BaseURL: "https://covers.openlibrary.org",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Download fetches the cover for an ISBN and writes it to outputPath.
// When the Open Library Covers API has no usable image it falls back to
// thumbnailURL, which may be empty.
func (f *Fetcher) Download(ctx context.Context, isbn, thumbnailURL, outputPath string) error {
	var lastErr error

	if isbn != "" {
		url := fmt.Sprintf("%s/b/isbn/%s-L.jpg", f.BaseURL, isbn)
		if err := f.downloadImage(ctx, url, outputPath); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if thumbnailURL != "" {
		if err := f.downloadImage(ctx, thumbnailURL, outputPath); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no cover sources available")
	}
	return fmt.Errorf("failed to download cover: %w", lastErr)
}

func (f *Fetcher) downloadImage(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) < minImageBytes {
		return fmt.Errorf("image too small (likely placeholder)")
	}

	if err := os.WriteFile(outputPath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}
