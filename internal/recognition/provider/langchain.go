package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
)

// LangChainModel implements Model for any OpenAI-compatible vision endpoint.
type LangChainModel struct {
	llm llms.Model
}

type LangChainConfig struct {
	Model   string // e.g. "gpt-4.1"
	BaseURL string // optional: for Groq or other OpenAI-compatible APIs
	APIKey  string // if not set, the client falls back to OPENAI_API_KEY
}

func NewLangChainModel(cfg LangChainConfig) (*LangChainModel, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain openai client: %w", err)
	}
	return &LangChainModel{llm: llm}, nil
}

func (c *LangChainModel) Generate(ctx context.Context, p recognition.Prompt) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if p.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, p.System))
	}

	parts := []llms.ContentPart{llms.TextPart(p.Text)}
	if len(p.Image) > 0 {
		// OpenAI-compatible APIs take images as data URIs.
		dataURI := fmt.Sprintf("data:%s;base64,%s", p.ImageMIMEType(), base64.StdEncoding.EncodeToString(p.Image))
		parts = append(parts, llms.ImageURLPart(dataURI))
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: parts,
	})

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(float64(p.Temperature)),
		llms.WithMaxTokens(int(p.MaxTokens)),
	)
	if err != nil {
		return "", fmt.Errorf("langchain GenerateContent: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", recognition.ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}

var (
	_ recognition.Model = (*LangChainModel)(nil)
	_ recognition.Model = (*GeminiModel)(nil)
)
