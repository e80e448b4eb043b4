package gemini

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/providers"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

// Name returns the provider name
func (g *Gemini) Name() string {
	return "gemini"
}

// Complete sends the prompt (and optional image) to Gemini
func (g *Gemini) Complete(ctx context.Context, config providers.Config) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.JSONMode {
		model.ResponseMIMEType = "application/json"
	}
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}

	parts := []genai.Part{genai.Text(config.Prompt)}
	if config.ImagePath != "" {
		data, err := os.ReadFile(config.ImagePath)
		if err != nil {
			return "", fmt.Errorf("failed to read image: %w", err)
		}
		format := strings.TrimPrefix(filepath.Ext(config.ImagePath), ".")
		if format == "" || format == "jpg" {
			format = "jpeg"
		}
		parts = append(parts, genai.ImageData(format, data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
