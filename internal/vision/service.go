// Package vision answers questions about cover images and book metadata
// by prompting a vision-capable LLM provider.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/gemini"
	"github.com/Anwitht21/book-extraction/internal/models"
	"github.com/Anwitht21/book-extraction/internal/ollama"
	"github.com/Anwitht21/book-extraction/internal/openai"
	"github.com/Anwitht21/book-extraction/internal/providers"
)

const (
	// UnknownTitle is returned when the model cannot read a title.
	UnknownTitle = "Unknown Title"
	// UnknownAuthor is returned when the model cannot read an author.
	UnknownAuthor = "Unknown Author"
)

type Service struct {
	provider providers.Provider
	model    string
}

// NewService builds a Service using the provider named by the
// VISION_PROVIDER environment variable (openai, ollama, or gemini) and
// the model named by VISION_MODEL.
func NewService() (*Service, error) {
	name := os.Getenv("VISION_PROVIDER")
	if name == "" {
		name = "openai"
	}

	var provider providers.Provider
	switch name {
	case "openai":
		provider = openai.New()
	case "ollama":
		provider = ollama.New()
	case "gemini":
		provider = gemini.New()
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", name)
	}

	model := os.Getenv("VISION_MODEL")
	if model == "" {
		model = defaultModel(name)
	}

	return &Service{provider: provider, model: model}, nil
}

// NewServiceWith builds a Service on an explicit provider and model.
func NewServiceWith(provider providers.Provider, model string) *Service {
	return &Service{provider: provider, model: model}
}

// Provider exposes the underlying provider so other image services can
// share it.
func (s *Service) Provider() providers.Provider { return s.provider }

// Model returns the configured model name.
func (s *Service) Model() string { return s.model }

func defaultModel(provider string) string {
	switch provider {
	case "ollama":
		return "llava:13b"
	case "gemini":
		return "gemini-1.5-flash"
	default:
		return "gpt-4o-mini"
	}
}

// IsBookCover reports whether the image looks like a book cover. The
// check fails open: any provider error counts as a cover so that a
// transient outage never rejects a legitimate upload.
func (s *Service) IsBookCover(ctx context.Context, imagePath string) bool {
	response, err := s.provider.Complete(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.1,
		Prompt:      "Does this image show the front cover of a book? Answer with a single word: yes or no.",
		ImagePath:   imagePath,
		MaxTokens:   10,
	})
	if err != nil {
		slog.Warn("Cover check failed, assuming cover", "provider", s.provider.Name(), "error", err)
		return true
	}
	return strings.Contains(strings.ToLower(response), "yes")
}

// ExtractTitleAndAuthor reads the title and author off a cover image.
// Fields the model cannot read come back as UnknownTitle and
// UnknownAuthor rather than as errors.
func (s *Service) ExtractTitleAndAuthor(ctx context.Context, imagePath string) (string, string) {
	response, err := s.provider.Complete(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.1,
		Prompt: `Look at this book cover and identify the book's title and author.
Respond with a JSON object of exactly this shape:
{"title": "the title as printed", "author": "the author as printed"}
If you cannot read a field, use an empty string for it. Respond with JSON only.`,
		ImagePath: imagePath,
		JSONMode:  true,
	})
	if err != nil {
		slog.Warn("Title extraction failed", "provider", s.provider.Name(), "error", err)
		return UnknownTitle, UnknownAuthor
	}

	var result struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	}
	if err := json.Unmarshal([]byte(trimCodeFence(response)), &result); err != nil {
		slog.Warn("Failed to parse title extraction response", "error", err)
		return UnknownTitle, UnknownAuthor
	}

	title := strings.TrimSpace(result.Title)
	if title == "" {
		title = UnknownTitle
	}
	author := strings.TrimSpace(result.Author)
	if author == "" {
		author = UnknownAuthor
	}
	return title, author
}

// ClassifyBook asks the model whether the book is fiction, using the
// cover image when one is available alongside the resolved title and
// author. A parsed answer carries 0.85 confidence. When the call or the
// parse fails the result leans fiction at 0.5 so downstream paging
// stays conservative.
func (s *Service) ClassifyBook(ctx context.Context, imagePath, title, author string) models.Classification {
	prompt := fmt.Sprintf(`Is the book %q by %s fiction or non-fiction?
Respond with a JSON object of exactly this shape:
{"isFiction": true}
Respond with JSON only.`, title, author)

	response, err := s.provider.Complete(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.1,
		Prompt:      prompt,
		ImagePath:   imagePath,
		JSONMode:    true,
		MaxTokens:   50,
	})
	if err != nil {
		slog.Warn("Classification failed, assuming fiction", "provider", s.provider.Name(), "error", err)
		return models.Classification{IsFiction: true, Confidence: 0.5}
	}

	var result struct {
		IsFiction bool `json:"isFiction"`
	}
	if err := json.Unmarshal([]byte(trimCodeFence(response)), &result); err != nil {
		slog.Warn("Failed to parse classification response", "error", err)
		return models.Classification{IsFiction: true, Confidence: 0.5}
	}

	return models.Classification{IsFiction: result.IsFiction, Confidence: 0.85}
}

// GenerateSyntheticText produces an opening-page style passage for a
// book when no real preview text could be retrieved. It never fails:
// if the provider errors, a generic passage naming the book is
// returned instead.
func (s *Service) GenerateSyntheticText(ctx context.Context, title, author string, isFiction bool) string {
	style := "an engaging non-fiction introduction that sets out the book's subject"
	if isFiction {
		style = "an evocative opening scene in the style of literary fiction"
	}
	prompt := fmt.Sprintf(`Write the first page of %q by %s as %s.
Write around 200 words of flowing prose. Do not include a heading, the title, or any commentary. Output the passage only.`, title, author, style)

	response, err := s.provider.Complete(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.7,
		Prompt:      prompt,
		MaxTokens:   400,
	})
	if err != nil || strings.TrimSpace(response) == "" {
		slog.Warn("Synthetic text generation failed", "provider", s.provider.Name(), "error", err)
		return fmt.Sprintf("%s by %s. A preview of this book is not available, "+
			"but it can be found at your local library or bookstore.", title, author)
	}
	return strings.TrimSpace(response)
}

// trimCodeFence strips a markdown code block wrapper that chat models
// sometimes add around JSON output.
func trimCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
