// Package pipeline sequences cover validation, metadata extraction,
// bibliographic lookup, classification, and preview extraction into
// the end-to-end processing of one uploaded cover image.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Anwitht21/book-extraction/internal/books"
	"github.com/Anwitht21/book-extraction/internal/classify"
	"github.com/Anwitht21/book-extraction/internal/isbn"
	"github.com/Anwitht21/book-extraction/internal/models"
)

// VisionService answers image and metadata questions via a vision LLM.
type VisionService interface {
	IsBookCover(ctx context.Context, imagePath string) bool
	ExtractTitleAndAuthor(ctx context.Context, imagePath string) (title, author string)
	ClassifyBook(ctx context.Context, imagePath, title, author string) models.Classification
	GenerateSyntheticText(ctx context.Context, title, author string, isFiction bool) string
}

// OCRService extracts printed text from an image.
type OCRService interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Identifier resolves title/author to a primary bibliographic record
// and fetches excerpt text for it.
type Identifier interface {
	Identify(ctx context.Context, title, author string) (*models.BookRecord, error)
	FetchExcerpt(ctx context.Context, workKey string) string
}

// EditionFinder locates the enrichment provider's best edition for a
// query.
type EditionFinder interface {
	FindPreviewEdition(ctx context.Context, q models.BookQuery) (*books.Volume, error)
}

// PreviewSource turns a chosen edition into preview content.
type PreviewSource interface {
	FromVolume(ctx context.Context, v *books.Volume, isFiction bool) (*models.PreviewResult, error)
}

// Outcome is the result of one ProcessCover call. Exactly one of Book
// and the retry/failure fields carries the payload.
type Outcome struct {
	Success        bool                  `json:"success"`
	Book           *models.ProcessedBook `json:"bookData,omitempty"`
	NeedsRetry     bool                  `json:"needsRetry,omitempty"`
	RetriesLeft    int                   `json:"retriesLeft,omitempty"`
	CurrentAttempt int                   `json:"currentAttempt"`
	Message        string                `json:"message,omitempty"`
}

// Pipeline orchestrates the processing of one cover image. All
// collaborators are injected; the pipeline holds no state between
// runs.
type Pipeline struct {
	Vision   VisionService
	OCR      OCRService
	Library  Identifier
	Editions EditionFinder
	Preview  PreviewSource

	// VisionTimeout bounds each model call, LookupTimeout each
	// bibliographic API call, and PreviewTimeout the preview
	// extraction as a whole, scraping included.
	VisionTimeout  time.Duration
	LookupTimeout  time.Duration
	PreviewTimeout time.Duration
}

// New builds a pipeline with the default per-call timeouts.
func New(vision VisionService, ocr OCRService, library Identifier, editions EditionFinder, preview PreviewSource) *Pipeline {
	return &Pipeline{
		Vision:         vision,
		OCR:            ocr,
		Library:        library,
		Editions:       editions,
		Preview:        preview,
		VisionTimeout:  60 * time.Second,
		LookupTimeout:  10 * time.Second,
		PreviewTimeout: 60 * time.Second,
	}
}

// ProcessCover runs the pipeline on one image. The returned error is
// non-nil only for unreadable input; every downstream failure degrades
// to a fallback inside the Outcome. Retry bookkeeping is caller
// driven: state arrives from the client and goes back incremented.
func (p *Pipeline) ProcessCover(ctx context.Context, imagePath string, state models.RetryState) (*Outcome, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("image not readable: %w", err)
	}
	attempt := state.CurrentAttempt + 1

	if !p.isBookCover(ctx, imagePath) {
		if state.RetriesLeft() > 0 {
			return &Outcome{
				NeedsRetry:     true,
				RetriesLeft:    state.RetriesLeft(),
				CurrentAttempt: attempt,
				Message: fmt.Sprintf(
					"The image does not appear to be a book cover. Please try another photo (%d attempts left).",
					state.RetriesLeft()),
			}, nil
		}
		return &Outcome{
			CurrentAttempt: attempt,
			Message:        "The image does not appear to be a book cover and no attempts remain.",
		}, nil
	}

	title, author := p.extractTitleAndAuthor(ctx, imagePath)
	slog.Info("Extracted cover metadata", "title", title, "author", author)

	ocrText, foundISBN := p.runOCR(ctx, imagePath)

	primary := p.identify(ctx, title, author)
	if primary != nil {
		if primary.Title != "" {
			title = primary.Title
		}
		if primary.Author != "" {
			author = primary.Author
		}
	}

	edition := p.findEdition(ctx, title, author, foundISBN)

	record := assembleRecord(title, author, foundISBN, primary, edition)
	classification := p.classify(ctx, imagePath, record.Title, record.Author)

	previewResult, extracted := p.extractPreview(ctx, edition, classification.IsFiction, record)

	if record.Description == "" && primary != nil && primary.SourceID != "" {
		record.Description = p.fetchExcerpt(ctx, primary.SourceID)
	}
	if record.Description == "" {
		record.Description = "No description available"
	}

	book := &models.ProcessedBook{
		BookRecord:     record,
		Classification: classification,
		Preview:        previewResult,
		ExtractedText:  extracted,
		OCRText:        ocrText,
		Attempt:        attempt,
	}
	return &Outcome{
		Success:        true,
		Book:           book,
		CurrentAttempt: attempt,
		Message:        "Book processed successfully",
	}, nil
}

func (p *Pipeline) isBookCover(ctx context.Context, imagePath string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.VisionTimeout)
	defer cancel()
	return p.Vision.IsBookCover(ctx, imagePath)
}

func (p *Pipeline) extractTitleAndAuthor(ctx context.Context, imagePath string) (string, string) {
	ctx, cancel := context.WithTimeout(ctx, p.VisionTimeout)
	defer cancel()
	return p.Vision.ExtractTitleAndAuthor(ctx, imagePath)
}

func (p *Pipeline) classify(ctx context.Context, imagePath, title, author string) models.Classification {
	ctx, cancel := context.WithTimeout(ctx, p.VisionTimeout)
	defer cancel()
	return p.Vision.ClassifyBook(ctx, imagePath, title, author)
}

// runOCR is best effort: failures are logged and swallowed. Its main
// value is finding a checksum-valid ISBN on the cover.
func (p *Pipeline) runOCR(ctx context.Context, imagePath string) (text, foundISBN string) {
	ctx, cancel := context.WithTimeout(ctx, p.VisionTimeout)
	defer cancel()

	text, err := p.OCR.ExtractText(ctx, imagePath)
	if err != nil {
		slog.Warn("OCR failed, continuing without cover text", "error", err)
		return "", ""
	}
	foundISBN = isbn.ExtractFromText(text)
	if foundISBN != "" {
		slog.Info("Found ISBN in cover text", "isbn", foundISBN)
	}
	return text, foundISBN
}

func (p *Pipeline) identify(ctx context.Context, title, author string) *models.BookRecord {
	ctx, cancel := context.WithTimeout(ctx, p.LookupTimeout)
	defer cancel()

	record, err := p.Library.Identify(ctx, title, author)
	if err != nil {
		slog.Warn("Primary bibliographic lookup failed", "error", err)
		return nil
	}
	return record
}

// findEdition prefers an ISBN-scoped search when the cover yielded an
// ISBN, falling back to title/author when it finds nothing. Each search
// gets its own timeout so a slow ISBN lookup cannot starve the fallback.
func (p *Pipeline) findEdition(ctx context.Context, title, author, foundISBN string) *books.Volume {
	if foundISBN != "" {
		isbnCtx, cancel := context.WithTimeout(ctx, p.LookupTimeout)
		edition, err := p.Editions.FindPreviewEdition(isbnCtx, models.BookQuery{ISBN: foundISBN})
		cancel()
		if err != nil {
			slog.Warn("ISBN edition search failed", "isbn", foundISBN, "error", err)
		} else if edition != nil {
			return edition
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.LookupTimeout)
	defer cancel()

	edition, err := p.Editions.FindPreviewEdition(lookupCtx, models.BookQuery{Title: title, Author: author})
	if err != nil {
		slog.Warn("Edition search failed", "title", title, "error", err)
		return nil
	}
	return edition
}

func (p *Pipeline) fetchExcerpt(ctx context.Context, workKey string) string {
	ctx, cancel := context.WithTimeout(ctx, p.LookupTimeout)
	defer cancel()
	return p.Library.FetchExcerpt(ctx, workKey)
}

// extractPreview runs the preview extractor and falls back to
// synthetic generation when nothing real is available. The page
// targeting inside the extractor follows the metadata heuristic when
// the edition carries categories, since provider categories are more
// reliable than the model's guess.
func (p *Pipeline) extractPreview(ctx context.Context, edition *books.Volume, modelSaysFiction bool, record models.BookRecord) (*models.PreviewResult, string) {
	isFiction := modelSaysFiction
	if edition != nil && len(edition.VolumeInfo.Categories) > 0 {
		isFiction = classify.IsFiction(classify.Signals{
			Categories:   edition.VolumeInfo.Categories,
			MainCategory: edition.VolumeInfo.MainCategory,
			Description:  edition.VolumeInfo.Description,
			Title:        edition.VolumeInfo.Title,
		})
	}

	previewCtx, cancel := context.WithTimeout(ctx, p.PreviewTimeout)
	defer cancel()

	result, err := p.Preview.FromVolume(previewCtx, edition, isFiction)
	if err == nil && result != nil {
		return result, result.Text
	}

	slog.Info("No preview content found, generating synthetic text",
		"title", record.Title, "fiction", isFiction)
	genCtx, genCancel := context.WithTimeout(ctx, p.VisionTimeout)
	defer genCancel()
	synthetic := p.Vision.GenerateSyntheticText(genCtx, record.Title, record.Author, isFiction)
	return nil, synthetic
}

// assembleRecord merges the three metadata sources. The enrichment
// provider wins over the primary provider, which wins over what the
// cover said. ISBNs are only trusted after checksum validation.
func assembleRecord(title, author, foundISBN string, primary *models.BookRecord, edition *books.Volume) models.BookRecord {
	record := models.BookRecord{Title: title, Author: author}

	if primary != nil {
		record.Publisher = primary.Publisher
		record.PublicationYear = primary.PublicationYear
		record.CoverImageURL = primary.CoverImageURL
		if isbn.Valid(primary.ISBN) {
			record.ISBN = isbn.Normalize(primary.ISBN)
		}
	}

	if edition != nil {
		enriched := edition.Record()
		if enriched.Title != "" {
			record.Title = enriched.Title
		}
		if enriched.Author != "" {
			record.Author = enriched.Author
		}
		if enriched.Publisher != "" {
			record.Publisher = enriched.Publisher
		}
		if enriched.PublicationYear != 0 {
			record.PublicationYear = enriched.PublicationYear
		}
		if enriched.Description != "" {
			record.Description = enriched.Description
		}
		if enriched.CoverImageURL != "" {
			record.CoverImageURL = enriched.CoverImageURL
		}
		if isbn.Valid(enriched.ISBN) {
			record.ISBN = isbn.Normalize(enriched.ISBN)
		}
		record.SourceID = enriched.SourceID
		record.Viewability = enriched.Viewability
		record.Embeddable = enriched.Embeddable
	}

	if record.ISBN == "" && isbn.Valid(foundISBN) {
		record.ISBN = isbn.Normalize(foundISBN)
	}
	return record
}
