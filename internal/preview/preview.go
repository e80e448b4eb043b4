// Package preview turns a chosen Google Books edition into preview
// text or embedded viewer markup for the client.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/books"
	"github.com/Anwitht21/book-extraction/internal/models"
	"github.com/Anwitht21/book-extraction/internal/scraper"
)

// PlaceholderText fills the text field when the real content lives in
// the embedded viewer markup.
const PlaceholderText = "Preview available in embedded viewer"

// ErrNoPreview means no edition surface yielded any preview content.
var ErrNoPreview = errors.New("no preview content available")

// StartPageFinder locates the page where a volume's body text begins.
type StartPageFinder interface {
	FindContentStartPage(ctx context.Context, volumeID string) (page int, ok bool)
}

// Extractor derives a PreviewResult from an edition, preferring the
// embedded viewer, then the description, then scraped reader text,
// then the search snippet.
type Extractor struct {
	Pages   StartPageFinder
	Scraper scraper.PageScraper
}

// NewExtractor wires an extractor over the given metadata and scraping
// backends.
func NewExtractor(pages StartPageFinder, s scraper.PageScraper) *Extractor {
	return &Extractor{Pages: pages, Scraper: s}
}

// TargetPage picks which preview page to show. Fiction skips one page
// past the content start so the reader lands in prose rather than on a
// chapter heading. Without start page metadata the defaults assume
// front matter ends around page four.
func TargetPage(isFiction bool, startPage int, ok bool) int {
	if ok {
		if isFiction {
			return startPage + 1
		}
		return startPage
	}
	if isFiction {
		return 5
	}
	return 4
}

// FromVolume extracts preview content for v. Returns ErrNoPreview when
// the edition exposes nothing usable.
func (e *Extractor) FromVolume(ctx context.Context, v *books.Volume, isFiction bool) (*models.PreviewResult, error) {
	if v == nil {
		return nil, ErrNoPreview
	}

	startPage, hasStart := e.Pages.FindContentStartPage(ctx, v.ID)
	target := TargetPage(isFiction, startPage, hasStart)
	slog.Info("Preview target page chosen",
		"volume", v.ID, "page", target, "start_page", startPage, "fiction", isFiction)

	result := &models.PreviewResult{TargetPage: target}
	if hasStart {
		result.StartPage = startPage
	}

	if v.HasPreview() && v.AccessInfo.Embeddable {
		result.Text = PlaceholderText
		result.ViewerMarkup = ViewerMarkup(v, target, isFiction, startPage)
		return result, nil
	}

	if description := v.VolumeInfo.Description; description != "" {
		result.Text = formatPreviewText(v, description, isFiction, true, startPage, target)
		return result, nil
	}

	if e.Scraper != nil {
		text, err := e.Scraper.ScrapePage(ctx, v.ID, target)
		if err == nil {
			result.Text = formatPreviewText(v, text, isFiction, false, startPage, target)
			return result, nil
		}
		if !errors.Is(err, scraper.ErrNoPreview) {
			slog.Warn("Preview scrape failed", "volume", v.ID, "error", err)
		}
	}
	if v.SearchInfo != nil && v.SearchInfo.TextSnippet != "" {
		result.Text = formatPreviewText(v, v.SearchInfo.TextSnippet, isFiction, true, startPage, target)
		return result, nil
	}
	return nil, ErrNoPreview
}

// formatPreviewText prefixes preview content with a short header
// describing the book and, for fallback content, a note that the text
// is not a real page.
func formatPreviewText(v *books.Volume, text string, isFiction, isFallback bool, startPage, target int) string {
	var b strings.Builder

	b.WriteString(v.VolumeInfo.Title)
	if len(v.VolumeInfo.Authors) > 0 {
		fmt.Fprintf(&b, " by %s", strings.Join(v.VolumeInfo.Authors, ", "))
	}
	fmt.Fprintf(&b, "\nType: %s\n", fictionLabel(isFiction))

	if isbn := v.PreferredISBN(); isbn != "" {
		fmt.Fprintf(&b, "ISBN: %s\n", isbn)
	}
	if startPage > 0 {
		fmt.Fprintf(&b, "Content starts on page %d\n", startPage)
	}

	if isFallback {
		b.WriteString("[Note: This is the book description or snippet, not the actual preview text]\n\n")
	} else {
		fmt.Fprintf(&b, "Page %d Preview\n\n", target)
	}
	b.WriteString(text)
	return b.String()
}

func fictionLabel(isFiction bool) string {
	if isFiction {
		return "Fiction"
	}
	return "Non-fiction"
}

// ViewerMarkup renders a standalone HTML page that embeds the Google
// Books viewer for the volume and advances it to the target page.
func ViewerMarkup(v *books.Volume, target int, isFiction bool, startPage int) string {
	title := html.EscapeString(v.VolumeInfo.Title)
	var author string
	if len(v.VolumeInfo.Authors) > 0 {
		author = "by " + html.EscapeString(strings.Join(v.VolumeInfo.Authors, ", "))
	}

	var isbnLine string
	if isbn := v.PreferredISBN(); isbn != "" {
		isbnLine = fmt.Sprintf(`<div class="isbn-info">ISBN: %s</div>`, html.EscapeString(isbn))
	}
	var startLine string
	if startPage > 0 {
		startLine = fmt.Sprintf(`<div class="start-page-info">Content starts on page %d</div>`, startPage)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>%[1]s Preview</title>
  <style>
    body, html { margin: 0; padding: 0; height: 100%%; font-family: Arial, sans-serif; overflow: hidden; }
    .container { display: flex; flex-direction: column; height: 100vh; }
    .header { padding: 10px; background-color: #f5f5f5; border-bottom: 1px solid #ddd; }
    .book-title { font-size: 18px; font-weight: bold; margin-bottom: 5px; }
    .book-info { font-size: 14px; color: #555; }
    .isbn-info { font-size: 12px; color: #777; margin-top: 3px; }
    .start-page-info { font-size: 12px; color: #4a6; margin-top: 3px; font-style: italic; }
    .viewer-container { flex: 1; width: 100%%; height: calc(100%% - 60px); }
    #viewerCanvas { width: 100%%; height: 100%%; }
    .error-message { color: red; padding: 20px; text-align: center; }
  </style>
  <script type="text/javascript" src="https://www.google.com/books/jsapi.js"></script>
  <script type="text/javascript">
    var viewer = null;
    var bookId = %[5]q;
    var targetPage = %[6]d;

    google.books.load();

    function alertNotFound() {
      document.getElementById('viewerCanvas').innerHTML =
        '<div class="error-message">This book preview is not available.</div>';
    }

    function bookLoadSuccess() {
      setTimeout(function() {
        var pagesToAdvance = targetPage - 1;
        for (var i = 0; i < pagesToAdvance; i++) {
          setTimeout(function() { viewer.nextPage(); }, i * 500);
        }
      }, 1500);
    }

    function initialize() {
      viewer = new google.books.DefaultViewer(document.getElementById('viewerCanvas'));
      viewer.load(bookId, alertNotFound, bookLoadSuccess);
    }

    google.books.setOnLoadCallback(initialize);
  </script>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="book-title">%[1]s</div>
      <div class="book-info">%[2]s &bull; %[7]s &bull; Page %[6]d</div>
      %[3]s
      %[4]s
    </div>
    <div class="viewer-container">
      <div id="viewerCanvas"></div>
    </div>
  </div>
</body>
</html>`, title, author, isbnLine, startLine, v.ID, target, fictionLabel(isFiction))
}
