package recognition

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a model answers with no text.
var ErrEmptyResponse = errors.New("model returned no content")

// Prompt is one multimodal request: instructions plus a single image.
type Prompt struct {
	System      string
	Text        string
	Image       []byte
	MIMEType    string
	Temperature float32
	MaxTokens   int32
}

// Model generates text for a prompt.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// ImageMIMEType returns the image type, PNG unless set.
func (p Prompt) ImageMIMEType() string {
	if p.MIMEType == "" {
		return "image/png"
	}
	return p.MIMEType
}
