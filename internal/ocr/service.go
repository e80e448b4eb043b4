// Package ocr extracts printed text from cover images, preferring a
// local tesseract binary and falling back to an LLM vision provider.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/providers"
)

// Service handles OCR extraction from images
type Service struct {
	tesseractPath string
	provider      providers.Provider
	model         string
}

// NewService creates a new OCR service. The vision provider is optional
// and used only when tesseract is not installed or fails.
func NewService(provider providers.Provider, model string) *Service {
	path, _ := exec.LookPath("tesseract")
	if path == "" {
		path = "tesseract"
	}
	return &Service{tesseractPath: path, provider: provider, model: model}
}

// TesseractAvailable reports whether the tesseract binary can run.
func (s *Service) TesseractAvailable() bool {
	return exec.Command(s.tesseractPath, "--version").Run() == nil
}

// ExtractText extracts all visible text from the image. Tesseract runs
// first; on failure the vision provider transcribes the image instead.
func (s *Service) ExtractText(ctx context.Context, imagePath string) (string, error) {
	text, err := s.extractWithTesseract(ctx, imagePath)
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil {
		slog.Warn("Tesseract OCR failed, falling back to vision provider", "error", err)
	}

	if s.provider == nil {
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("no text found in image")
	}
	return s.extractWithVision(ctx, imagePath)
}

func (s *Service) extractWithTesseract(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, s.tesseractPath, imagePath, "stdout", "-l", "eng")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (s *Service) extractWithVision(ctx context.Context, imagePath string) (string, error) {
	response, err := s.provider.Complete(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.1,
		Prompt:      s.buildOCRPrompt(),
		ImagePath:   imagePath,
	})
	if err != nil {
		return "", fmt.Errorf("vision OCR: %w", err)
	}
	return strings.TrimSpace(response), nil
}

func (s *Service) buildOCRPrompt() string {
	return `You are performing OCR (Optical Character Recognition) on a book cover image.

Your task is to extract ALL visible text from the image exactly as it appears, preserving:
- Line breaks and formatting
- Capitalization
- Punctuation
- Special characters
- Order of text elements

INSTRUCTIONS:
1. Read the image carefully from top to bottom
2. Transcribe every piece of visible text
3. Preserve the original line breaks
4. Do not add any interpretation, commentary, or explanations
5. Output only the transcribed text`
}
