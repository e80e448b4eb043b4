package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/Anwitht21/book-extraction/internal/providers"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ providers.Config) (string, error) {
	return f.response, f.err
}

func TestExtractTextFallsBackToVision(t *testing.T) {
	s := NewService(&fakeProvider{response: "  THE GREAT GATSBY\nF. Scott Fitzgerald  "}, "test-model")
	s.tesseractPath = "/nonexistent/tesseract"

	got, err := s.ExtractText(context.Background(), "cover.jpg")
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != "THE GREAT GATSBY\nF. Scott Fitzgerald" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractTextNoProviderPropagatesError(t *testing.T) {
	s := NewService(nil, "")
	s.tesseractPath = "/nonexistent/tesseract"

	if _, err := s.ExtractText(context.Background(), "cover.jpg"); err == nil {
		t.Fatal("expected error when tesseract is missing and no provider is set")
	}
}

func TestExtractTextVisionError(t *testing.T) {
	s := NewService(&fakeProvider{err: errors.New("boom")}, "test-model")
	s.tesseractPath = "/nonexistent/tesseract"

	if _, err := s.ExtractText(context.Background(), "cover.jpg"); err == nil {
		t.Fatal("expected error when both tesseract and vision fail")
	}
}
