// Package books talks to the bibliographic APIs: Google Books for
// editions, previews, and enrichment, and Open Library for
// identification and excerpts.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Anwitht21/book-extraction/internal/models"
)

// IndustryIdentifier is one ISBN (or other identifier) on a volume.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks holds cover image URLs for a volume.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// VolumeInfo is the bibliographic portion of a Google Books volume.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	MainCategory        string               `json:"mainCategory,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	// TableOfContents entries are either plain strings or objects with
	// title and pageNumber fields, depending on API vintage.
	TableOfContents []json.RawMessage `json:"tableOfContents,omitempty"`
}

// AccessInfo describes how much of a volume Google will show.
type AccessInfo struct {
	Viewability   string `json:"viewability,omitempty"`
	Embeddable    bool   `json:"embeddable,omitempty"`
	WebReaderLink string `json:"webReaderLink,omitempty"`
}

// SearchInfo carries the snippet Google matched for a search.
type SearchInfo struct {
	TextSnippet string `json:"textSnippet,omitempty"`
}

// Volume is one edition returned by the Google Books API.
type Volume struct {
	ID         string      `json:"id"`
	VolumeInfo VolumeInfo  `json:"volumeInfo"`
	AccessInfo AccessInfo  `json:"accessInfo"`
	SearchInfo *SearchInfo `json:"searchInfo,omitempty"`
}

// ISBN13 returns the volume's ISBN-13, or "" if absent.
func (v *Volume) ISBN13() string { return v.identifier("ISBN_13") }

// ISBN10 returns the volume's ISBN-10, or "" if absent.
func (v *Volume) ISBN10() string { return v.identifier("ISBN_10") }

func (v *Volume) identifier(kind string) string {
	for _, id := range v.VolumeInfo.IndustryIdentifiers {
		if id.Type == kind {
			return id.Identifier
		}
	}
	return ""
}

// PreferredISBN returns the ISBN-13 when present, else the ISBN-10.
func (v *Volume) PreferredISBN() string {
	if isbn := v.ISBN13(); isbn != "" {
		return isbn
	}
	return v.ISBN10()
}

// HasPreview reports whether Google exposes preview pages for this
// edition.
func (v *Volume) HasPreview() bool {
	return v.AccessInfo.Viewability == "PARTIAL" || v.AccessInfo.Viewability == "ALL_PAGES"
}

// Record converts the volume into a normalized BookRecord.
func (v *Volume) Record() models.BookRecord {
	info := v.VolumeInfo
	record := models.BookRecord{
		Title:       info.Title,
		Author:      strings.Join(info.Authors, ", "),
		ISBN:        v.PreferredISBN(),
		Publisher:   info.Publisher,
		Description: info.Description,
		SourceID:    v.ID,
		Viewability: v.viewability(),
		Embeddable:  v.AccessInfo.Embeddable,
	}
	if len(info.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(info.PublishedDate[:4]); err == nil {
			record.PublicationYear = year
		}
	}
	if info.ImageLinks != nil {
		record.CoverImageURL = info.ImageLinks.Thumbnail
	}
	return record
}

func (v *Volume) viewability() models.Viewability {
	switch v.AccessInfo.Viewability {
	case "PARTIAL":
		return models.ViewabilityPartial
	case "ALL_PAGES":
		return models.ViewabilityFull
	}
	if v.SearchInfo != nil && v.SearchInfo.TextSnippet != "" {
		return models.ViewabilitySnippet
	}
	return models.ViewabilityNone
}

// GoogleBooksClient queries the Google Books volumes API.
type GoogleBooksClient struct {
	BaseURL    string
	HTTPClient *http.Client

	apiKey string
}

// NewGoogleBooksClient builds a client using the GOOGLE_BOOKS_API_KEY
// environment variable. The key is optional; unauthenticated requests
// are rate limited but work.
func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		BaseURL:    "https://www.googleapis.com/books/v1",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     os.Getenv("GOOGLE_BOOKS_API_KEY"),
	}
}

// Search runs a volumes query built from q. ISBN queries ignore the
// title and author fields.
func (c *GoogleBooksClient) Search(ctx context.Context, q models.BookQuery) ([]Volume, error) {
	var query string
	if q.ISBN != "" {
		query = "isbn:" + q.ISBN
	} else {
		query = "intitle:" + q.Title
		if q.Author != "" {
			// Joined with a space so url.Values encodes the separator
			// as a plus rather than a literal %2B.
			query += " inauthor:" + q.Author
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "10")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var response struct {
		Items []Volume `json:"items"`
	}
	if err := c.getJSON(ctx, c.BaseURL+"/volumes?"+params.Encode(), &response); err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}
	return response.Items, nil
}

// GetVolume fetches the full record for one volume, including the
// table of contents when Google has one.
func (c *GoogleBooksClient) GetVolume(ctx context.Context, id string) (*Volume, error) {
	u := c.BaseURL + "/volumes/" + url.PathEscape(id)
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	var v Volume
	if err := c.getJSON(ctx, u, &v); err != nil {
		return nil, fmt.Errorf("google books volume %s: %w", id, err)
	}
	return &v, nil
}

func (c *GoogleBooksClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// BestEdition picks the edition most likely to yield preview text.
// Preference order: previewable and embeddable, then previewable, then
// any edition with a text snippet, then the first result.
func BestEdition(items []Volume) *Volume {
	if len(items) == 0 {
		return nil
	}
	for i, item := range items {
		slog.Debug("Edition candidate",
			"index", i+1,
			"title", item.VolumeInfo.Title,
			"viewability", item.AccessInfo.Viewability,
			"embeddable", item.AccessInfo.Embeddable,
			"isbn", item.PreferredISBN())
	}

	for i := range items {
		if items[i].HasPreview() && items[i].AccessInfo.Embeddable {
			return &items[i]
		}
	}
	for i := range items {
		if items[i].HasPreview() {
			return &items[i]
		}
	}
	for i := range items {
		if items[i].SearchInfo != nil && items[i].SearchInfo.TextSnippet != "" {
			return &items[i]
		}
	}
	return &items[0]
}

// FindPreviewEdition searches for q and returns the best edition, or
// nil when the search comes back empty.
func (c *GoogleBooksClient) FindPreviewEdition(ctx context.Context, q models.BookQuery) (*Volume, error) {
	items, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	best := BestEdition(items)
	if best != nil {
		slog.Info("Selected edition",
			"title", best.VolumeInfo.Title,
			"viewability", best.AccessInfo.Viewability,
			"embeddable", best.AccessInfo.Embeddable)
	}
	return best, nil
}

var (
	chapterStartRe = regexp.MustCompile(`(?i)chapter\s*1|chapter\s*one|introduction|prologue|part\s*one|part\s*1|begin`)
	tocPageRe      = regexp.MustCompile(`(?i)page\s*(\d+)|p\.\s*(\d+)`)
	numericRe      = regexp.MustCompile(`^\d+$`)
	chapterRefRe   = regexp.MustCompile(`(?i)chapter\s*1|chapter\s*one|introduction|prologue`)
)

// tocEntry is a normalized table of contents line.
type tocEntry struct {
	title      string
	pageNumber string
}

func parseTOCEntry(raw json.RawMessage) (tocEntry, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		entry := tocEntry{title: s}
		if m := tocPageRe.FindStringSubmatch(s); m != nil {
			if m[1] != "" {
				entry.pageNumber = m[1]
			} else {
				entry.pageNumber = m[2]
			}
		}
		return entry, true
	}
	var obj struct {
		Title      string          `json:"title"`
		PageNumber json.RawMessage `json:"pageNumber"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Title == "" {
		return tocEntry{}, false
	}
	entry := tocEntry{title: obj.Title}
	var pageStr string
	if err := json.Unmarshal(obj.PageNumber, &pageStr); err == nil {
		entry.pageNumber = pageStr
	} else {
		var pageNum int
		if err := json.Unmarshal(obj.PageNumber, &pageNum); err == nil {
			entry.pageNumber = strconv.Itoa(pageNum)
		}
	}
	return entry, true
}

// FindContentStartPage inspects a volume's table of contents to find
// the page where the body of the book begins. It prefers an entry that
// looks like a chapter start, then any entry with numeric pagination.
// When there is no usable table of contents but the description
// mentions a chapter, page 4 is assumed. ok is false when nothing in
// the metadata gave a page.
func (c *GoogleBooksClient) FindContentStartPage(ctx context.Context, volumeID string) (page int, ok bool) {
	v, err := c.GetVolume(ctx, volumeID)
	if err != nil {
		slog.Warn("Failed to fetch volume for start page analysis", "id", volumeID, "error", err)
		return 0, false
	}

	var entries []tocEntry
	for _, raw := range v.VolumeInfo.TableOfContents {
		if entry, parsed := parseTOCEntry(raw); parsed {
			entries = append(entries, entry)
		}
	}

	for _, entry := range entries {
		if chapterStartRe.MatchString(entry.title) && numericRe.MatchString(entry.pageNumber) {
			page, _ := strconv.Atoi(entry.pageNumber)
			slog.Info("Found chapter start in table of contents", "entry", entry.title, "page", page)
			return page, true
		}
	}
	for _, entry := range entries {
		if numericRe.MatchString(entry.pageNumber) {
			page, _ := strconv.Atoi(entry.pageNumber)
			slog.Info("Found first numeric page in table of contents", "entry", entry.title, "page", page)
			return page, true
		}
	}

	if chapterRefRe.MatchString(v.VolumeInfo.Description) {
		slog.Info("Found chapter reference in description, assuming default start page")
		return 4, true
	}
	return 0, false
}
