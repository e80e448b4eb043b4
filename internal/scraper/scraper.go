// Package scraper pulls preview page text out of the Google Books web
// reader when the API will not hand it over directly.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoPreview means the reader page exists but exposes no preview
// text for the requested volume.
var ErrNoPreview = errors.New("no preview available")

// PageScraper extracts the text of one preview page of a volume.
type PageScraper interface {
	ScrapePage(ctx context.Context, volumeID string, page int) (string, error)
}

// textSelectors are tried in order; the first one holding a
// substantial amount of text wins.
var textSelectors = []string{
	".gb-volume-text",
	"#viewport-frame",
	".textLayer",
	".text-layer",
	".page-inner-content",
	".page-content",
	"#page-content",
}

const (
	// selectorMinLength is the minimum text length for a selector hit.
	selectorMinLength = 50
	// bodyMinLength is the minimum text length for the whole-page
	// fallback, which picks up chrome text and so needs a higher bar.
	bodyMinLength = 100
)

// GoogleBooksScraper fetches reader pages from books.google.com.
type GoogleBooksScraper struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// NewGoogleBooksScraper builds a scraper against the public reader.
func NewGoogleBooksScraper() *GoogleBooksScraper {
	return &GoogleBooksScraper{
		BaseURL:    "https://books.google.com",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

// ScrapePage loads the reader at the given page of a volume and
// returns its text. Returns ErrNoPreview when the reader reports no
// preview or no selector yields enough text.
func (s *GoogleBooksScraper) ScrapePage(ctx context.Context, volumeID string, page int) (string, error) {
	u := fmt.Sprintf("%s/books?id=%s&pg=PA%d", s.BaseURL, volumeID, page)
	slog.Debug("Scraping preview page", "url", u)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse reader page: %w", err)
	}

	notice := strings.TrimSpace(doc.Find(".gb-readerpreview-text").Text())
	if strings.Contains(notice, "No preview available") {
		return "", ErrNoPreview
	}

	for _, selector := range textSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) > selectorMinLength {
			slog.Debug("Extracted preview text", "selector", selector, "length", len(text))
			return text, nil
		}
	}

	body := strings.TrimSpace(doc.Find("body").Text())
	if len(body) > bodyMinLength {
		return body, nil
	}
	return "", ErrNoPreview
}
