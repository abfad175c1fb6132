package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/tdewolff/test"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/interaction"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/tool"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	n := 0
	e, err := NewEngine(200, 150, WithShapeIDs(func() string {
		n++
		return fmt.Sprintf("shape-%d", n)
	}))
	test.Error(t, err)
	return e
}

var mouse = interaction.Modifiers{}

func click(t *testing.T, e *Engine, x0, y0, x1, y1 float64) {
	t.Helper()
	test.Error(t, e.PointerDown(x0, y0, 0, mouse, interaction.DeviceMouse))
	test.Error(t, e.PointerMove(x1, y1, 0, mouse, interaction.DeviceMouse))
	test.Error(t, e.PointerUp(x1, y1, 0, mouse, interaction.DeviceMouse))
}

func shapes(t *testing.T, e *Engine) []document.Shape {
	t.Helper()
	var out []document.Shape
	test.Error(t, json.Unmarshal([]byte(e.Shapes()), &out))
	return out
}

func TestNewEngineSize(t *testing.T) {
	_, err := NewEngine(0, 10)
	test.That(t, err != nil)
}

func TestDraftIsZoomInvariant(t *testing.T) {
	e := newEngine(t)
	e.SetStyle(tool.Style{Tool: tool.Circle, StrokeSize: 2})
	e.SetBoundingRect(geom.Rect{X: 100, Y: 50, Width: 400, Height: 300})
	e.SetZoom(2)

	click(t, e, 100, 50, 180, 50)

	got := shapes(t, e)
	test.T(t, len(got), 1)
	test.T(t, got[0].Kind, document.KindCircle)
	test.T(t, got[0].Centroid(), geom.Pt(20, 0))
	test.Float(t, got[0].Extent()/2, 20)
	test.T(t, got[0].Color, "#0ea5e9", "dark background ink is the default colour")
}

func TestSelectAndMove(t *testing.T) {
	e := newEngine(t)
	e.SetStyle(tool.Style{Tool: tool.Circle, StrokeSize: 2})
	click(t, e, 0, 0, 40, 0)

	e.SetStyle(tool.Style{Tool: tool.Move})
	test.Error(t, e.PointerDown(20, 0, 0, mouse, interaction.DeviceMouse))
	test.T(t, e.Selected(), "shape-1")
	test.T(t, e.State(), "moving")
	test.That(t, strings.Contains(e.Render(), `"dash":[5,5]`), "selection indicator is painted")

	test.Error(t, e.PointerMove(120, 0, 0, mouse, interaction.DeviceMouse))
	test.Error(t, e.PointerUp(120, 0, 0, mouse, interaction.DeviceMouse))
	test.T(t, e.Selected(), "")
	test.That(t, !strings.Contains(e.Render(), `"dash":[5,5]`))

	got := shapes(t, e)
	test.T(t, got[0].Centroid(), geom.Pt(120, 0))
	test.Float(t, got[0].Extent()/2, 20)

	test.Error(t, e.PointerDown(1000, 1000, 0, mouse, interaction.DeviceMouse))
	test.T(t, e.Selected(), "")
}

func TestClear(t *testing.T) {
	e := newEngine(t)
	test.Error(t, e.LoadSample())
	e.SetStyle(tool.Style{Tool: tool.Pen})
	click(t, e, 10, 10, 50, 50)
	e.SetCorrections([]Correction{{X: 10, Y: 10, Message: "missing charge", Type: "error", Severity: "high"}})
	e.SetStyle(tool.Style{Tool: tool.Move})
	test.Error(t, e.PointerDown(90, 120, 0, mouse, interaction.DeviceMouse))
	test.That(t, e.Selected() != "")

	e.Clear()
	test.T(t, e.Shapes(), "[]")
	test.T(t, e.Selected(), "")
	test.T(t, e.State(), "idle")
	test.T(t, e.Corrections(), "[]")
	test.T(t, e.TakeInk(), "[]")
}

func TestZoomClamp(t *testing.T) {
	e := newEngine(t)
	e.ZoomIn()
	test.Float(t, e.View().Zoom, 1.1)
	for i := 0; i < 40; i++ {
		e.ZoomIn()
	}
	test.Float(t, e.View().Zoom, MaxZoom)
	for i := 0; i < 40; i++ {
		e.ZoomOut()
	}
	test.Float(t, e.View().Zoom, MinZoom)
	e.ResetZoom()
	test.Float(t, e.View().Zoom, 1)
	e.SetZoom(10)
	test.Float(t, e.View().Zoom, MaxZoom)
}

func TestCanvasSpace(t *testing.T) {
	e := newEngine(t)
	e.SetBoundingRect(geom.Rect{X: 10, Y: 20, Width: 200, Height: 150})
	e.SetZoom(0.5)
	test.T(t, e.ToCanvasSpace(20, 40), geom.Pt(20, 40))
}

func TestSnapshotRoundTrip(t *testing.T) {
	a := newEngine(t)
	test.Error(t, a.LoadSample())
	first, err := a.Snapshot()
	test.Error(t, err)

	b := newEngine(t)
	test.Error(t, b.LoadShapes(a.Shapes()))
	second, err := b.Snapshot()
	test.Error(t, err)
	test.That(t, bytes.Equal(first, second), "same shapes, same pixels")

	// Toggling the grid off and on returns to the same raster.
	b.ToggleGrid()
	_, err = b.Snapshot()
	test.Error(t, err)
	b.ToggleGrid()
	third, err := b.Snapshot()
	test.Error(t, err)
	test.That(t, bytes.Equal(first, third))
}

func TestInkIsNotAShape(t *testing.T) {
	e := newEngine(t)
	e.SetStyle(tool.Style{Tool: tool.Pen, StrokeSize: 4})
	click(t, e, 10, 10, 60, 10)

	test.T(t, e.Shapes(), "[]")
	ink := e.TakeInk()
	test.That(t, strings.Contains(ink, `"strokeWidth":4`), ink)
	test.T(t, e.TakeInk(), "[]")
}

func TestBackground(t *testing.T) {
	e := newEngine(t)
	test.That(t, e.SetBackground("sepia") != nil)
	test.Error(t, e.SetBackground("light"))
	test.T(t, e.Style().Color, "#000000")
	test.That(t, strings.Contains(e.Render(), `"fill":"#ffffff"`))
}

func TestCorrections(t *testing.T) {
	e := newEngine(t)
	test.Error(t, e.SetCorrectionsJSON(`[
		{"x":30,"y":40,"message":"unbalanced","type":"error","severity":"high","category":"equation"},
		{"x":60,"y":40,"message":"check valence","type":"warning","severity":"medium"},
		{"x":1,"y":2,"message":"?","type":"odd","severity":"odd"}
	]`))

	var got []Correction
	test.Error(t, json.Unmarshal([]byte(e.Corrections()), &got))
	test.T(t, len(got), 3)
	test.Error(t, typeid.Validate(got[0].ID, typeid.PrefixCorrection))
	test.T(t, got[0].Type, "error")
	test.T(t, got[0].Severity, "high")
	test.T(t, got[0].Category, "equation")
	test.T(t, got[1].Severity, "medium")
	test.T(t, got[2].Type, "suggestion")
	test.T(t, got[2].Severity, "low")

	out := e.Render()
	test.That(t, strings.Contains(out, `"fill":"#ef4444"`), "error marker is red")
	test.That(t, strings.Contains(out, `"fill":"#eab308"`), "warning marker is yellow")
	test.That(t, strings.Contains(out, `"fill":"#3b82f6"`), "suggestion marker is blue")
	test.T(t, e.Shapes(), "[]", "corrections never touch the model")

	e.ClearCorrections()
	test.T(t, e.Corrections(), "[]")
}

func TestLoadSampleEndsGesture(t *testing.T) {
	e := newEngine(t)
	e.SetStyle(tool.Style{Tool: tool.Circle})
	test.Error(t, e.PointerDown(10, 10, 0, mouse, interaction.DeviceMouse))
	test.Error(t, e.PointerMove(40, 10, 0, mouse, interaction.DeviceMouse))
	test.T(t, e.State(), "drafting")

	test.Error(t, e.LoadSample())
	test.T(t, e.State(), "idle")
	test.Error(t, e.PointerUp(40, 10, 0, mouse, interaction.DeviceMouse))
	test.T(t, len(e.ShapeList()), len(document.NewSampleCanvas().Shapes()), "no stray draft is committed")
}

func TestLoadShapesRejectsDuplicates(t *testing.T) {
	e := newEngine(t)
	err := e.LoadShapes(`[{"id":"a","kind":"circle","start":{"x":0,"y":0},"end":{"x":1,"y":1}},{"id":"a","kind":"plus","start":{"x":0,"y":0},"end":{"x":1,"y":1}}]`)
	test.That(t, err != nil)
	test.T(t, e.Shapes(), "[]")
}

func TestSelectionBounds(t *testing.T) {
	e := newEngine(t)
	test.T(t, e.GetSelectionBounds(), `{"x":0,"y":0,"width":0,"height":0}`)
	e.SetStyle(tool.Style{Tool: tool.Square})
	click(t, e, 0, 0, 40, 0)
	e.SetStyle(tool.Style{Tool: tool.Move})
	test.Error(t, e.PointerDown(20, 0, 0, mouse, interaction.DeviceMouse))
	test.T(t, e.GetSelectionBounds(), `{"x":0,"y":0,"width":40,"height":0}`)
}
