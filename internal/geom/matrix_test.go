package geom

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate after rotate.
	m := Translate(10, 0).Multiply(RotateDegrees(90))
	test.That(t, near(m.TransformPoint(Pt(1, 0)), Pt(10, 1)))
}

func TestMatrixIdentity(t *testing.T) {
	test.That(t, Identity().IsIdentity())
	test.That(t, RotateDegrees(360).IsIdentity())
	test.That(t, !Translate(1, 0).IsIdentity())
}

func TestMatrixTransformRect(t *testing.T) {
	r := RotateAbout(Pt(0, 0), 90).TransformRect(Rect{X: 0, Y: 0, Width: 10, Height: 4})
	test.That(t, math.Abs(r.X+4) < 1e-9, r)
	test.That(t, math.Abs(r.Width-4) < 1e-9, r)
	test.That(t, math.Abs(r.Height-10) < 1e-9, r)
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Pt(10, 20), Pt(0, 5))
	test.T(t, r, Rect{X: 0, Y: 5, Width: 10, Height: 15})
	test.That(t, r.Contains(Pt(10, 20)))
	test.That(t, !r.Contains(Pt(11, 20)))
	test.That(t, r.Intersects(Rect{X: 10, Y: 20, Width: 5, Height: 5}))
	test.That(t, !r.Intersects(Rect{X: 11, Y: 0, Width: 5, Height: 5}))
	test.T(t, r.Center(), Pt(5, 12.5))
}

func TestToCanvasSpace(t *testing.T) {
	rect := Rect{X: 100, Y: 50, Width: 800, Height: 600}
	var tts = []struct {
		pointer Point
		zoom    float64
		want    Point
	}{
		{Pt(100, 50), 1, Pt(0, 0)},
		{Pt(140, 50), 1, Pt(40, 0)},
		{Pt(180, 50), 2, Pt(40, 0)},
		{Pt(120, 60), 0.5, Pt(40, 20)},
		{Pt(140, 50), 0, Pt(40, 0)},
	}
	for _, tt := range tts {
		test.T(t, ToCanvasSpace(tt.pointer, rect, tt.zoom), tt.want)
	}

	v := Viewport{Rect: rect, Zoom: 2.5}
	test.T(t, v.ToCanvasSpace(Pt(350, 100)), Pt(100, 20))
}
