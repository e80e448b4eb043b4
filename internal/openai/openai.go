package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Anwitht21/book-extraction/internal/providers"
	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAI is a provider for OpenAI
type OpenAI struct{}

// New returns a new OpenAI provider
func New() *OpenAI {
	return &OpenAI{}
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "openai"
}

// Complete sends the prompt (and optional image) to OpenAI
func (o *OpenAI) Complete(ctx context.Context, config providers.Config) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	client := goopenai.NewClient(apiKey)

	message := goopenai.ChatCompletionMessage{
		Role: goopenai.ChatMessageRoleUser,
	}
	if config.ImagePath != "" {
		dataURL, err := encodeImage(config.ImagePath)
		if err != nil {
			return "", err
		}
		message.MultiContent = []goopenai.ChatMessagePart{
			{
				Type: goopenai.ChatMessagePartTypeText,
				Text: config.Prompt,
			},
			{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL: dataURL,
				},
			},
		}
	} else {
		message.Content = config.Prompt
	}

	request := goopenai.ChatCompletionRequest{
		Model:       config.Model,
		Messages:    []goopenai.ChatCompletionMessage{message},
		Temperature: float32(config.Temperature),
	}
	if config.JSONMode {
		request.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if config.MaxTokens > 0 {
		request.MaxTokens = config.MaxTokens
	}

	resp, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// encodeImage reads the image at path and returns it as a base64 data URL.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mimeType = "image/png"
	case ".gif":
		mimeType = "image/gif"
	case ".webp":
		mimeType = "image/webp"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
