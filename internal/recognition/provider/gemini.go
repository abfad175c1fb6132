// Package provider implements recognition.Model for hosted vision models.
package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
)

// GeminiModel implements Model for Gemini via the Google AI API.
type GeminiModel struct {
	client  *genai.Client
	modelID string
}

func NewGeminiModel(ctx context.Context, apiKey, modelID string) (*GeminiModel, error) {
	if apiKey == "" || modelID == "" {
		return nil, fmt.Errorf("gemini api key and model id must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GeminiModel{client: client, modelID: modelID}, nil
}

func (g *GeminiModel) Generate(ctx context.Context, p recognition.Prompt) (string, error) {
	temperature := p.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: p.MaxTokens,
	}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	parts := []*genai.Part{{Text: p.Text}}
	if len(p.Image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: p.ImageMIMEType(), Data: p.Image},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelID, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", recognition.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String(), nil
}
