package recognition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	convertTemperature = 0.1
	convertMaxTokens   = 2048
)

// Converter turns a drawing into a chemistry structure.
type Converter struct {
	model Model
}

func NewConverter(model Model) *Converter {
	return &Converter{model: model}
}

// Convert asks the model for a structure, fills in missing ids, formula and
// SMILES, and validates it. Validation problems produce an unsuccessful
// result rather than an error.
func (c *Converter) Convert(ctx context.Context, png []byte) (ConversionResult, error) {
	out, err := c.model.Generate(ctx, Prompt{
		Text:        convertPrompt,
		Image:       png,
		Temperature: convertTemperature,
		MaxTokens:   convertMaxTokens,
	})
	if err != nil {
		return ConversionResult{}, fmt.Errorf("convert canvas: %w", err)
	}

	var res ConversionResult
	if err := decodeJSON(out, &res); err != nil {
		slog.Warn("unparseable conversion", "error", err)
		return ConversionResult{
			Success: false,
			Error:   "The structure could not be read. Try drawing more clearly.",
			Suggestions: []string{
				"Draw atoms as clear labels or circles",
				"Draw bonds as straight lines",
			},
		}, nil
	}

	if res.Structure == nil {
		if res.Success && res.Error == "" {
			res.Error = "no structure recognised"
		}
		res.Success = false
		return res, nil
	}

	s := res.Structure
	for i := range s.Atoms {
		if s.Atoms[i].ID == "" {
			s.Atoms[i].ID = fmt.Sprintf("atom-%d", i+1)
		}
	}
	for i := range s.Bonds {
		if s.Bonds[i].ID == "" {
			s.Bonds[i].ID = fmt.Sprintf("bond-%d", i+1)
		}
		if s.Bonds[i].Type == "" {
			s.Bonds[i].Type = "single"
		}
	}
	if s.Metadata.Formula == "" {
		s.Metadata.Formula = Formula(s.Atoms)
	}
	if s.Metadata.SMILES == "" {
		s.Metadata.SMILES = SMILES(*s)
	}

	if problems := Validate(*s); len(problems) > 0 {
		res.Success = false
		res.Error = strings.Join(problems, "; ")
		return res, nil
	}
	res.Confidence = max(0, min(1, res.Confidence))
	return res, nil
}
