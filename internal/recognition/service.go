package recognition

import (
	"context"
	"errors"
	"time"
)

// ErrNoImage is returned for an empty snapshot.
var ErrNoImage = errors.New("snapshot image is empty")

// Service is the in-process Recognizer: an Analyzer and a Converter sharing
// one model, with a per-call timeout.
type Service struct {
	analyzer  *Analyzer
	converter *Converter
	timeout   time.Duration
}

// NewService wraps model. A zero timeout disables the per-call deadline.
func NewService(model Model, timeout time.Duration) *Service {
	return &Service{
		analyzer:  NewAnalyzer(model),
		converter: NewConverter(model),
		timeout:   timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) Analyze(ctx context.Context, png []byte, subject string) (AnalysisResult, error) {
	if len(png) == 0 {
		return AnalysisResult{}, ErrNoImage
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.analyzer.Analyze(ctx, png, subject)
}

func (s *Service) Convert(ctx context.Context, png []byte) (ConversionResult, error) {
	if len(png) == 0 {
		return ConversionResult{}, ErrNoImage
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.converter.Convert(ctx, png)
}

var (
	_ Recognizer = (*Service)(nil)
	_ Recognizer = (*Session)(nil)
	_ Recognizer = (*HTTPClient)(nil)
)
