package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Anwitht21/book-extraction/internal/models"
)

const (
	// ExcerptUnavailable is returned when a work has neither a first
	// sentence nor a description.
	ExcerptUnavailable = "No preview text available"
	// ExcerptError is returned when the excerpt lookup itself failed.
	ExcerptError = "Error retrieving book excerpt"
)

// OpenLibraryClient queries the Open Library search and works APIs.
type OpenLibraryClient struct {
	BaseURL       string
	CoversBaseURL string
	HTTPClient    *http.Client
}

// NewOpenLibraryClient builds a client for the public Open Library API.
func NewOpenLibraryClient() *OpenLibraryClient {
	return &OpenLibraryClient{
		BaseURL:       "https://openlibrary.org",
		CoversBaseURL: "https://covers.openlibrary.org",
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// flexString decodes Open Library fields that are either a bare string
// or an object with a value key.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = flexString(obj.Value)
	return nil
}

// searchDoc is one result from the Open Library search API.
type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	Publisher        []string `json:"publisher"`
	FirstPublishYear int      `json:"first_publish_year"`
	PublishDate      []string `json:"publish_date"`
	CoverID          int64    `json:"cover_i"`
}

// Identify looks a book up by title and optional author and returns
// the most relevant match as a BookRecord. The record's SourceID is
// the Open Library work key, usable with FetchExcerpt. A nil record
// with nil error means no match.
func (c *OpenLibraryClient) Identify(ctx context.Context, title, author string) (*models.BookRecord, error) {
	params := url.Values{}
	params.Set("title", title)
	if author != "" {
		params.Set("author", author)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open library search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library search: received non-200 status code: %d", resp.StatusCode)
	}

	var response struct {
		Docs []searchDoc `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("open library search: failed to decode response body: %w", err)
	}
	if len(response.Docs) == 0 {
		return nil, nil
	}

	doc := response.Docs[0]
	record := models.BookRecord{
		Title:    doc.Title,
		SourceID: doc.Key,
	}
	if len(doc.AuthorName) > 0 {
		record.Author = doc.AuthorName[0]
	}
	if len(doc.ISBN) > 0 {
		record.ISBN = doc.ISBN[0]
	}
	if len(doc.Publisher) > 0 {
		record.Publisher = doc.Publisher[0]
	}
	record.PublicationYear = doc.FirstPublishYear
	if record.PublicationYear == 0 && len(doc.PublishDate) > 0 {
		date := doc.PublishDate[0]
		if len(date) >= 4 {
			if year, err := strconv.Atoi(date[len(date)-4:]); err == nil {
				record.PublicationYear = year
			}
		}
	}
	if doc.CoverID != 0 {
		record.CoverImageURL = fmt.Sprintf("%s/b/id/%d-L.jpg", c.CoversBaseURL, doc.CoverID)
	}
	return &record, nil
}

// FetchExcerpt retrieves opening text for a work: the first sentence
// when Open Library has one, otherwise the description truncated to
// 500 characters. The sentinels ExcerptUnavailable and ExcerptError
// stand in for missing data and lookup failure; the method never
// returns an error.
func (c *OpenLibraryClient) FetchExcerpt(ctx context.Context, workKey string) string {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+workKey+".json", nil)
	if err != nil {
		return ExcerptError
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ExcerptError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ExcerptError
	}

	var work struct {
		FirstSentence flexString `json:"first_sentence"`
		Description   flexString `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return ExcerptError
	}

	if work.FirstSentence != "" {
		return string(work.FirstSentence)
	}
	if work.Description != "" {
		description := string(work.Description)
		if len(description) > 500 {
			return description[:500] + "..."
		}
		return description
	}
	return ExcerptUnavailable
}
