// Package recognition asks a vision model to review or convert a canvas
// snapshot. Results are advisory overlays and never touch the shape model.
package recognition

import "context"

// Correction is a single finding positioned on the canvas.
type Correction struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Message  string  `json:"message"`
	Type     string  `json:"type"`     // error, warning or suggestion
	Severity string  `json:"severity"` // low, medium or high
	Category string  `json:"category"` // formula, equation, notation, structure or general
}

// AnalysisResult is the review of one snapshot.
type AnalysisResult struct {
	Corrections  []Correction `json:"corrections"`
	OverallScore float64      `json:"overallScore"`
	Feedback     string       `json:"feedback"`
	Suggestions  []string     `json:"suggestions"`
}

// ContentDetection is the first, cheap pass that classifies the snapshot.
type ContentDetection struct {
	ContentType string  `json:"contentType"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Atom is one atom of a recognised structure.
type Atom struct {
	ID            string  `json:"id"`
	Element       string  `json:"element"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Charge        int     `json:"charge,omitempty"`
	Isotope       int     `json:"isotope,omitempty"`
	Hybridization string  `json:"hybridization,omitempty"` // sp, sp2, sp3 or aromatic
}

// Bond joins two atoms by id.
type Bond struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"` // single, double, triple, aromatic or ionic
	Stereo string `json:"stereo,omitempty"`
}

// Metadata holds the identifiers of a structure.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Formula string `json:"formula,omitempty"`
	SMILES  string `json:"smiles,omitempty"`
	InChI   string `json:"inchi,omitempty"`
}

// Structure is a recognised molecule, reaction, ion or complex.
type Structure struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Atoms    []Atom   `json:"atoms"`
	Bonds    []Bond   `json:"bonds"`
	Metadata Metadata `json:"metadata"`
}

// ConversionResult is the outcome of converting a drawing to a structure.
type ConversionResult struct {
	Success     bool       `json:"success"`
	Structure   *Structure `json:"structure,omitempty"`
	Error       string     `json:"error,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
	Confidence  float64    `json:"confidence"`
}

// Recognizer is implemented by the in-process Service and by HTTPClient.
type Recognizer interface {
	Analyze(ctx context.Context, png []byte, subject string) (AnalysisResult, error)
	Convert(ctx context.Context, png []byte) (ConversionResult, error)
}
