package document

import "github.com/chemcanvas/chemcanvas/backend-go/internal/geom"

// NewSampleCanvas returns a model holding a small reaction sketch:
// two reactant circles joined by a plus, an arrow and a hexagon product.
func NewSampleCanvas(opts ...Option) *Model {
	m := NewModel(opts...)
	ink := Paint{Color: "#0ea5e9", FillEnabled: true, StrokeSize: 3}

	m.Add(KindCircle, geom.Pt(60, 120), geom.Pt(120, 120), ink)
	m.Add(KindPlus, geom.Pt(150, 120), geom.Pt(180, 120), ink)
	m.Add(KindCircle, geom.Pt(210, 120), geom.Pt(270, 120), ink)
	m.Add(KindArrow, geom.Pt(300, 120), geom.Pt(400, 120), ink)
	m.Add(KindHexagon, geom.Pt(430, 120), geom.Pt(510, 120), Paint{Color: "#0ea5e9", FillColor: "#1e293b", FillEnabled: true, StrokeSize: 3})

	return m
}
