package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/tdewolff/test"
)

func shape(kind document.Kind, start, end geom.Point) document.Shape {
	return document.Shape{ID: "s1", Kind: kind, Start: start, End: end, Color: "#000000", StrokeSize: 2, FillEnabled: kind.Fillable()}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCompileCircle(t *testing.T) {
	cmds := CompileShape(shape(document.KindCircle, geom.Pt(0, 0), geom.Pt(40, 0)))
	test.T(t, len(cmds), 1)
	test.T(t, cmds[0].ObjectID, "s1")
	test.T(t, cmds[0].Fill, "#000000")
	test.Float(t, cmds[0].StrokeWidth, OutlineWidth)
	test.That(t, cmds[0].Transform == nil, "unrotated shapes carry no transform")

	b := cmds[0].Bounds()
	test.That(t, approx(b.X, 0) && approx(b.Y, -20) && approx(b.Width, 40) && approx(b.Height, 40), b)
}

func TestCompileKinds(t *testing.T) {
	var tts = []struct {
		kind   document.Kind
		bounds geom.Rect
	}{
		{document.KindSquare, geom.Rect{X: 30, Y: 80, Width: 40, Height: 40}},
		{document.KindTriangle, geom.Rect{X: 30, Y: 80, Width: 40, Height: 40}},
		{document.KindHexagon, geom.Rect{X: 30, Y: 100 - 20*math.Sqrt(3)/2, Width: 40, Height: 20 * math.Sqrt(3)}},
		{document.KindPlus, geom.Rect{X: 30, Y: 80, Width: 40, Height: 40}},
		{document.KindMinus, geom.Rect{X: 30, Y: 100, Width: 40, Height: 0}},
	}
	for _, tt := range tts {
		t.Run(string(tt.kind), func(t *testing.T) {
			cmds := CompileShape(shape(tt.kind, geom.Pt(30, 100), geom.Pt(70, 100)))
			test.T(t, len(cmds), 1)
			b := cmds[0].Bounds()
			test.That(t, approx(b.X, tt.bounds.X) && approx(b.Y, tt.bounds.Y), b, tt.bounds)
			test.That(t, approx(b.Width, tt.bounds.Width) && approx(b.Height, tt.bounds.Height), b, tt.bounds)
		})
	}
}

func TestTriangleApexUp(t *testing.T) {
	cmds := CompileShape(shape(document.KindTriangle, geom.Pt(0, 0), geom.Pt(20, 0)))
	first := cmds[0].Path[0]
	test.T(t, first[0], "M")
	test.Float(t, toFloat64(first[1]), 10)
	test.Float(t, toFloat64(first[2]), -10)
}

func TestHexagonVertexZero(t *testing.T) {
	cmds := CompileShape(shape(document.KindHexagon, geom.Pt(0, 0), geom.Pt(40, 0)))
	first := cmds[0].Path[0]
	test.Float(t, toFloat64(first[1]), 40)
	test.Float(t, toFloat64(first[2]), 0)
	test.T(t, len(cmds[0].Path), 7)
}

func TestArrow(t *testing.T) {
	s := shape(document.KindArrow, geom.Pt(0, 0), geom.Pt(100, 0))
	s.StrokeSize = 1
	cmds := CompileShape(s)
	test.T(t, len(cmds), 2)
	test.T(t, cmds[0].Fill, "")
	test.T(t, cmds[1].Fill, "#000000")

	// Head length is max(size*8, 15) = 15 and back vertices sit at +/-30 degrees.
	head := cmds[1].Path
	h1 := geom.Pt(toFloat64(head[1][1]), toFloat64(head[1][2]))
	h2 := geom.Pt(toFloat64(head[2][1]), toFloat64(head[2][2]))
	test.That(t, approx(geom.Distance(geom.Pt(100, 0), h1), 15))
	test.That(t, approx(h1.X, 100-15*math.Cos(math.Pi/6)) && approx(h1.Y, 7.5), h1)
	test.That(t, approx(h2.Y, -7.5), h2)

	test.Float(t, ArrowHeadLength(4), 32)
}

func TestRotatedShapeTransform(t *testing.T) {
	s := shape(document.KindSquare, geom.Pt(0, 0), geom.Pt(40, 0))
	s.RotationDegrees = 90
	cmds := CompileShape(s)
	test.T(t, len(cmds[0].Transform), 6)

	// The centroid is the pivot and stays put.
	m := geom.Matrix2D{}
	copy(m[:], cmds[0].Transform)
	c := m.TransformPoint(s.Centroid())
	test.That(t, approx(c.X, 20) && approx(c.Y, 0), c)
}

func TestZeroExtentCompiles(t *testing.T) {
	for _, k := range document.Kinds {
		cmds := CompileShape(shape(k, geom.Pt(10, 10), geom.Pt(10, 10)))
		test.That(t, len(cmds) > 0, k)
	}
}

func TestSelectionIndicator(t *testing.T) {
	s := shape(document.KindCircle, geom.Pt(0, 0), geom.Pt(40, 0))
	cmd := SelectionIndicator(s)
	test.T(t, cmd.Stroke, SelectionColor)
	test.T(t, cmd.Dash, []float64{5, 5})
	test.Float(t, cmd.Opacity, 0.8)
	b := cmd.Bounds()
	test.That(t, approx(b.Width, 2*s.HitTolerance()), b)
}

func TestBaseCommands(t *testing.T) {
	shapes := []document.Shape{shape(document.KindCircle, geom.Pt(0, 0), geom.Pt(40, 0))}
	theme := ThemeFor(BackgroundDark)

	test.T(t, len(BaseCommands(100, 100, Scene{Shapes: shapes, Theme: theme})), 2)
	test.T(t, len(BaseCommands(100, 100, Scene{Shapes: shapes, Theme: theme, Grid: true})), 3)
	test.T(t, len(BaseCommands(100, 100, Scene{Shapes: shapes, Theme: theme, Selected: "s1"})), 3)
	test.T(t, len(BaseCommands(100, 100, Scene{Shapes: shapes, Theme: theme, Selected: "gone"})), 2)

	grid := Grid(100, 60, theme)
	// 6 vertical and 4 horizontal lines, two path commands each.
	test.T(t, len(grid.Path), 20)
	test.T(t, grid.Stroke, "#1e293b")
}

func TestThemes(t *testing.T) {
	test.T(t, ThemeFor(BackgroundDark).Ink, "#0ea5e9")
	test.T(t, ThemeFor(BackgroundLight).Ink, "#000000")
	test.T(t, ThemeFor(BackgroundLight).Background, "#ffffff")
	_, err := ParseBackground("sepia")
	test.That(t, err != nil)
}

func TestMarkers(t *testing.T) {
	cmds := Markers([]Marker{
		{ID: "a", At: geom.Pt(100, 100), Type: "error"},
		{ID: "b", At: geom.Pt(10, 10), Type: "warning"},
		{ID: "c", At: geom.Pt(10, 10), Type: "suggestion"},
	})
	test.T(t, len(cmds), 3)
	test.T(t, cmds[0].Fill, "#ef4444")
	test.T(t, cmds[1].Fill, "#eab308")
	test.T(t, cmds[2].Fill, "#3b82f6")
}

func TestInkStamp(t *testing.T) {
	paint := document.Paint{Color: "#ff0000", FillEnabled: true, StrokeSize: 2}
	circle := InkStamp(document.KindCircle, geom.Pt(50, 50), 6, paint)
	b := circle[0].Bounds()
	test.That(t, approx(b.Width, 12), b)

	square := InkStamp(document.KindSquare, geom.Pt(50, 50), 6, paint)
	b = square[0].Bounds()
	test.That(t, approx(b.Width, 6), b)
}

func TestDrawCommandsJSON(t *testing.T) {
	s, err := DrawCommandsToJSON(nil)
	test.Error(t, err)
	test.String(t, s, "[]")

	s, err = DrawCommandsToJSON(CompileShape(shape(document.KindMinus, geom.Pt(0, 0), geom.Pt(10, 0))))
	test.Error(t, err)
	var decoded []map[string]interface{}
	test.Error(t, json.Unmarshal([]byte(s), &decoded))
	test.T(t, decoded[0]["op"], "path")
	test.T(t, decoded[0]["objectId"], "s1")
}
