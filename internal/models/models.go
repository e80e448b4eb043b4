package models

import "time"

// Viewability is the provider-reported degree to which a book's interior
// may be viewed.
type Viewability string

const (
	ViewabilityNone    Viewability = "NONE"
	ViewabilitySnippet Viewability = "SNIPPET"
	ViewabilityPartial Viewability = "PARTIAL"
	ViewabilityFull    Viewability = "FULL"
)

// BookQuery is the input to a bibliographic lookup. Built per request,
// never stored.
type BookQuery struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}

// BookRecord is a normalized candidate book from a bibliographic
// provider. Immutable once constructed.
type BookRecord struct {
	Title           string      `json:"title"`
	Author          string      `json:"author"`
	ISBN            string      `json:"isbn,omitempty"`
	Publisher       string      `json:"publisher,omitempty"`
	PublicationYear int         `json:"publication_year,omitempty"`
	Description     string      `json:"description,omitempty"`
	CoverImageURL   string      `json:"cover_image_url,omitempty"`
	SourceID        string      `json:"source_id,omitempty"` // opaque provider identifier
	Viewability     Viewability `json:"viewability,omitempty"`
	Embeddable      bool        `json:"embeddable,omitempty"`
}

// Classification is the fiction/non-fiction decision for a book.
type Classification struct {
	IsFiction  bool    `json:"is_fiction"`
	Confidence float64 `json:"confidence"`
}

// PreviewResult holds the outcome of preview extraction. At most one of
// Text and ViewerMarkup is the primary payload.
type PreviewResult struct {
	Text         string `json:"text,omitempty"`
	ViewerMarkup string `json:"viewer_markup,omitempty"`
	TargetPage   int    `json:"target_page"`
	StartPage    int    `json:"start_page,omitempty"`
}

// RetryState tracks how many cover submissions have failed validation
// across one user interaction. Round-tripped through the client; the
// pipeline never persists it.
type RetryState struct {
	CurrentAttempt int `json:"current_attempt"`
	MaxRetries     int `json:"max_retries"`
}

// RetriesLeft reports how many attempts remain.
func (r RetryState) RetriesLeft() int {
	left := r.MaxRetries - r.CurrentAttempt
	if left < 0 {
		return 0
	}
	return left
}

// ProcessedBook is the final output of one successful pipeline run.
type ProcessedBook struct {
	BookRecord
	Classification Classification `json:"classification"`
	Preview        *PreviewResult `json:"preview,omitempty"`
	ExtractedText  string         `json:"extracted_text,omitempty"`
	OCRText        string         `json:"ocr_text,omitempty"`
	Attempt        int            `json:"attempt"`
}

// ProcessedResult is a stored pipeline result, retrievable by ID after
// an upload completes.
type ProcessedResult struct {
	ID        string         `json:"id"`
	Book      *ProcessedBook `json:"book"`
	CreatedAt time.Time      `json:"created_at"`
}
