package recognition

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

const (
	// Detections below this confidence are treated as an empty canvas.
	minConfidence = 0.3

	detectTemperature  = 0.1
	detectMaxTokens    = 300
	analyzeTemperature = 0.2
	analyzeMaxTokens   = 2048

	DefaultSubject = "chemistry"
)

// Analyzer reviews a snapshot in two passes: classify, then critique with
// criteria specific to the detected content.
type Analyzer struct {
	model Model
	newID func() string
}

func NewAnalyzer(model Model) *Analyzer {
	return &Analyzer{model: model, newID: typeid.NewCorrectionID}
}

// Detect classifies what is on the canvas. Unparseable output yields a
// general detection at the minimum confidence so that analysis still runs.
func (a *Analyzer) Detect(ctx context.Context, png []byte) (ContentDetection, error) {
	out, err := a.model.Generate(ctx, Prompt{
		Text:        detectPrompt,
		Image:       png,
		Temperature: detectTemperature,
		MaxTokens:   detectMaxTokens,
	})
	if err != nil {
		return ContentDetection{}, fmt.Errorf("detect content: %w", err)
	}

	var d ContentDetection
	if err := decodeJSON(out, &d); err != nil {
		slog.Warn("unparseable content detection", "error", err)
		return ContentDetection{ContentType: ContentGeneral, Description: "Could not detect content type", Confidence: minConfidence}, nil
	}
	if d.ContentType == "" {
		d.ContentType = ContentGeneral
	}
	if d.Description == "" {
		d.Description = "Unknown content"
	}
	if d.Confidence == 0 {
		d.Confidence = 0.5
	}
	return d, nil
}

// Analyze returns corrections for the snapshot. Model failures are returned
// as errors; malformed analysis output degrades to a fallback result.
func (a *Analyzer) Analyze(ctx context.Context, png []byte, subject string) (AnalysisResult, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	d, err := a.Detect(ctx, png)
	if err != nil {
		return AnalysisResult{}, err
	}
	if d.ContentType == ContentEmpty || d.Confidence < minConfidence {
		return emptyCanvasResult(), nil
	}

	out, err := a.model.Generate(ctx, Prompt{
		Text:        analysisPrompt(subject, d),
		Image:       png,
		Temperature: analyzeTemperature,
		MaxTokens:   analyzeMaxTokens,
	})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analyze canvas: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return AnalysisResult{}, fmt.Errorf("analyze canvas: %w", ErrEmptyResponse)
	}

	var res AnalysisResult
	if err := decodeJSON(out, &res); err != nil {
		slog.Warn("unparseable analysis", "error", err, "contentType", d.ContentType)
		return a.fallbackResult(), nil
	}
	return a.normalize(res), nil
}

func (a *Analyzer) normalize(res AnalysisResult) AnalysisResult {
	corrections := make([]Correction, 0, len(res.Corrections))
	for _, c := range res.Corrections {
		if c, ok := NormalizeCorrection(c, a.newID); ok {
			corrections = append(corrections, c)
		}
	}
	res.Corrections = corrections
	res.OverallScore = max(0, min(100, res.OverallScore))
	if res.Suggestions == nil {
		res.Suggestions = []string{}
	}
	return res
}

// NormalizeCorrection fills a missing id and coerces unknown enum values
// to suggestion, low and general. Corrections at a non-finite position are
// rejected.
func NormalizeCorrection(c Correction, newID func() string) (Correction, bool) {
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		return c, false
	}
	if c.ID == "" {
		c.ID = newID()
	}
	c.Type = oneOf(c.Type, "suggestion", "error", "warning", "suggestion")
	c.Severity = oneOf(c.Severity, "low", "low", "medium", "high")
	c.Category = oneOf(c.Category, "general", "formula", "equation", "notation", "structure", "general")
	return c, true
}

func emptyCanvasResult() AnalysisResult {
	return AnalysisResult{
		Corrections:  []Correction{},
		OverallScore: 0,
		Feedback:     "Nothing legible was found on the canvas. Write or draw something to get feedback.",
		Suggestions: []string{
			"Write more clearly or with a darker colour",
			"Make the content larger",
		},
	}
}

func (a *Analyzer) fallbackResult() AnalysisResult {
	return AnalysisResult{
		Corrections: []Correction{{
			ID:       a.newID(),
			X:        100,
			Y:        100,
			Message:  "The review finished but its answer could not be read. Please check your work manually.",
			Type:     "suggestion",
			Severity: "low",
			Category: "general",
		}},
		OverallScore: 70,
		Feedback:     "The review finished with formatting problems.",
		Suggestions:  []string{"Run the analysis again"},
	}
}
