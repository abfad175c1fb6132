package document

import (
	"fmt"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
)

// Kind is the closed set of parametric shape kinds.
type Kind string

const (
	KindArrow    Kind = "arrow"
	KindCircle   Kind = "circle"
	KindSquare   Kind = "square"
	KindTriangle Kind = "triangle"
	KindHexagon  Kind = "hexagon"
	KindPlus     Kind = "plus"
	KindMinus    Kind = "minus"
)

// Kinds lists every shape kind in toolbar order.
var Kinds = []Kind{KindArrow, KindCircle, KindSquare, KindTriangle, KindHexagon, KindPlus, KindMinus}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown shape kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArrow, KindCircle, KindSquare, KindTriangle, KindHexagon, KindPlus, KindMinus:
		return true
	}
	return false
}

// Fillable reports whether the kind is a closed outline that takes a fill.
func (k Kind) Fillable() bool {
	switch k {
	case KindCircle, KindSquare, KindTriangle, KindHexagon:
		return true
	}
	return false
}

// UnmarshalText rejects unknown kinds when decoding JSON.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Shape is a committed, editable drawable. Geometry of every kind is derived
// from the Start/End diagonal.
type Shape struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	Start           geom.Point `json:"start"`
	End             geom.Point `json:"end"`
	Color           string     `json:"color"`
	FillColor       string     `json:"fillColor,omitempty"`
	FillEnabled     bool       `json:"fillEnabled,omitempty"`
	StrokeSize      float64    `json:"strokeSize"`
	RotationDegrees float64    `json:"rotationDegrees"`
}

// Paint carries the style attributes copied onto a shape at commit time.
type Paint struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor,omitempty"`
	FillEnabled bool    `json:"fillEnabled,omitempty"`
	StrokeSize  float64 `json:"strokeSize"`
}

func (s Shape) Centroid() geom.Point {
	return geom.Centroid(s.Start, s.End)
}

func (s Shape) Extent() float64 {
	return geom.Extent(s.Start, s.End)
}

func (s Shape) HitTolerance() float64 {
	return geom.HitTolerance(s.Extent())
}

// IsHit reports whether p selects the shape. The disc ignores rotation.
func (s Shape) IsHit(p geom.Point) bool {
	return geom.IsHit(s.Start, s.End, p)
}

// Bounds returns the axis-aligned box spanned by Start and End, unrotated.
func (s Shape) Bounds() geom.Rect {
	return geom.RectFromPoints(s.Start, s.End)
}

// Translated returns a copy moved by (dx, dy).
func (s Shape) Translated(dx, dy float64) Shape {
	d := geom.Pt(dx, dy)
	s.Start = s.Start.Add(d)
	s.End = s.End.Add(d)
	return s
}

// Transform returns the paint-time transform: rotation about the centroid.
func (s Shape) Transform() geom.Matrix2D {
	if s.RotationDegrees == 0 {
		return geom.Identity()
	}
	return geom.RotateAbout(s.Centroid(), s.RotationDegrees)
}

// FillOrColor returns the fill colour, falling back to the stroke colour.
func (s Shape) FillOrColor() string {
	if s.FillColor != "" {
		return s.FillColor
	}
	return s.Color
}

func (s Shape) validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("shape %s: unknown kind %q", s.ID, s.Kind)
	}
	if !s.Start.IsFinite() || !s.End.IsFinite() {
		return fmt.Errorf("shape %s: %w", s.ID, ErrInvalidPoint)
	}
	return nil
}
