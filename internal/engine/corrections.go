package engine

import (
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

// Correction is a recognition finding pinned to a canvas position. It is
// overlay-only and never touches the shape model.
type Correction = recognition.Correction

func normalizeCorrections(in []Correction) []Correction {
	out := make([]Correction, 0, len(in))
	for _, c := range in {
		if c, ok := recognition.NormalizeCorrection(c, typeid.NewCorrectionID); ok {
			out = append(out, c)
		}
	}
	return out
}

// markers are coloured by correction type.
func markers(corrections []Correction) []render.Marker {
	out := make([]render.Marker, len(corrections))
	for i, c := range corrections {
		out[i] = render.Marker{ID: c.ID, At: geom.Pt(c.X, c.Y), Type: c.Type}
	}
	return out
}
