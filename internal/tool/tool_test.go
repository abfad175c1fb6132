package tool

import (
	"testing"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/tdewolff/test"
)

func TestClass(t *testing.T) {
	var tts = []struct {
		id    ID
		class Class
	}{
		{Pen, ClassInk},
		{Draw, ClassInk},
		{Eraser, ClassInk},
		{Atom, ClassInk},
		{Bond, ClassInk},
		{Electron, ClassInk},
		{Arrow, ClassShape},
		{Circle, ClassShape},
		{Square, ClassShape},
		{Triangle, ClassShape},
		{Hexagon, ClassShape},
		{Plus, ClassShape},
		{Minus, ClassShape},
		{Move, ClassMove},
		{Rotate, ClassRotate},
		{ID("laser"), ClassInk},
	}
	for _, tt := range tts {
		t.Run(string(tt.id), func(t *testing.T) {
			test.T(t, tt.id.Class(), tt.class)
		})
	}
}

func TestShapeKind(t *testing.T) {
	for _, k := range document.Kinds {
		id, err := Parse(string(k))
		test.Error(t, err)
		got, ok := id.ShapeKind()
		test.That(t, ok)
		test.T(t, got, k)
	}
	_, ok := Move.ShapeKind()
	test.That(t, !ok)

	_, err := Parse("laser")
	test.That(t, err != nil)
}

func TestNormalized(t *testing.T) {
	s := Style{}.Normalized("#0ea5e9")
	test.T(t, s.Color, "#0ea5e9")
	test.Float(t, s.StrokeSize, 1)
	test.T(t, s.Tool, Pen)

	s = Style{Tool: Circle, Color: "#ff0000", StrokeSize: 4, Outline: true}.Normalized("#000000")
	test.T(t, s.Color, "#ff0000")
	p := s.Paint()
	test.That(t, !p.FillEnabled)
	test.Float(t, p.StrokeSize, 4)
}
