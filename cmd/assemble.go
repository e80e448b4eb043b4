package cmd

import (
	"github.com/Anwitht21/book-extraction/internal/books"
	"github.com/Anwitht21/book-extraction/internal/ocr"
	"github.com/Anwitht21/book-extraction/internal/pipeline"
	"github.com/Anwitht21/book-extraction/internal/preview"
	"github.com/Anwitht21/book-extraction/internal/scraper"
	"github.com/Anwitht21/book-extraction/internal/vision"
)

// deps bundles the production wiring shared by the serve and process
// commands.
type deps struct {
	Pipeline    *pipeline.Pipeline
	GoogleBooks *books.GoogleBooksClient
	Extractor   *preview.Extractor
}

func assemble() (*deps, error) {
	visionService, err := vision.NewService()
	if err != nil {
		return nil, err
	}

	// OCR prefers a local tesseract binary and shares the vision
	// provider as its fallback path.
	ocrService := ocr.NewService(visionService.Provider(), visionService.Model())

	gb := books.NewGoogleBooksClient()
	ol := books.NewOpenLibraryClient()
	extractor := preview.NewExtractor(gb, scraper.NewGoogleBooksScraper())

	return &deps{
		Pipeline:    pipeline.New(visionService, ocrService, ol, gb, extractor),
		GoogleBooks: gb,
		Extractor:   extractor,
	}, nil
}
