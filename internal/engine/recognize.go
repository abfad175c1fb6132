package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
)

// canvasSnapshot encodes base and ink only. Draft previews and correction
// markers are not part of what the user drew.
func (e *Engine) canvasSnapshot() ([]byte, error) {
	if err := e.Refresh(); err != nil {
		return nil, err
	}
	overlay := e.surface.Overlay()
	e.surface.SetOverlay(nil)
	defer e.surface.SetOverlay(overlay)

	var buf bytes.Buffer
	if err := e.surface.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Analyze sends the canvas to r and replaces the correction overlay with
// the result. On error, including recognition.ErrSuperseded, the overlay is
// left as it was.
func (e *Engine) Analyze(ctx context.Context, r recognition.Recognizer, subject string) (recognition.AnalysisResult, error) {
	png, err := e.canvasSnapshot()
	if err != nil {
		return recognition.AnalysisResult{}, err
	}
	res, err := r.Analyze(ctx, png, subject)
	if err != nil {
		return recognition.AnalysisResult{}, err
	}
	e.SetCorrections(res.Corrections)
	res.Corrections = e.corrections
	return res, nil
}

// Convert sends the canvas to r for structure conversion. The shape model
// is not changed.
func (e *Engine) Convert(ctx context.Context, r recognition.Recognizer) (recognition.ConversionResult, error) {
	png, err := e.canvasSnapshot()
	if err != nil {
		return recognition.ConversionResult{}, err
	}
	return r.Convert(ctx, png)
}
