// Package tool describes the toolbar state the canvas reads on every pointer
// event. The canvas never mutates it.
package tool

import (
	"fmt"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
)

// ID identifies the active toolbar tool.
type ID string

const (
	Pen      ID = "pen"
	Draw     ID = "draw"
	Eraser   ID = "eraser"
	Atom     ID = "atom"
	Bond     ID = "bond"
	Electron ID = "electron"
	Arrow    ID = "arrow"
	Circle   ID = "circle"
	Square   ID = "square"
	Triangle ID = "triangle"
	Hexagon  ID = "hexagon"
	Plus     ID = "plus"
	Minus    ID = "minus"
	Move     ID = "move"
	Rotate   ID = "rotate"
)

// Class groups tools by what a pointer gesture does with them.
type Class int

const (
	ClassInk Class = iota
	ClassShape
	ClassMove
	ClassRotate
)

func (c Class) String() string {
	switch c {
	case ClassInk:
		return "ink"
	case ClassShape:
		return "shape"
	case ClassMove:
		return "move"
	case ClassRotate:
		return "rotate"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Parse returns the tool named s.
func Parse(s string) (ID, error) {
	id := ID(s)
	if _, err := id.class(); err != nil {
		return "", err
	}
	return id, nil
}

// Class returns the gesture class. Unknown tools fall back to ink so a
// stray toolbar value never wedges the canvas.
func (id ID) Class() Class {
	c, err := id.class()
	if err != nil {
		return ClassInk
	}
	return c
}

func (id ID) class() (Class, error) {
	switch id {
	case Pen, Draw, Eraser, Atom, Bond, Electron:
		return ClassInk, nil
	case Arrow, Circle, Square, Triangle, Hexagon, Plus, Minus:
		return ClassShape, nil
	case Move:
		return ClassMove, nil
	case Rotate:
		return ClassRotate, nil
	}
	return ClassInk, fmt.Errorf("unknown tool %q", string(id))
}

// ShapeKind maps a shape tool to the kind it creates.
func (id ID) ShapeKind() (document.Kind, bool) {
	switch id {
	case Arrow:
		return document.KindArrow, true
	case Circle:
		return document.KindCircle, true
	case Square:
		return document.KindSquare, true
	case Triangle:
		return document.KindTriangle, true
	case Hexagon:
		return document.KindHexagon, true
	case Plus:
		return document.KindPlus, true
	case Minus:
		return document.KindMinus, true
	}
	return "", false
}

// Style is the toolbar snapshot passed with each pointer event.
type Style struct {
	Tool       ID      `json:"tool"`
	Color      string  `json:"color"`
	StrokeSize float64 `json:"strokeSize"`
	FillColor  string  `json:"fillColor,omitempty"`
	// Outline disables the default fill of closed shapes.
	Outline bool `json:"outline,omitempty"`
}

// Normalized fills an empty colour with defaultColor and clamps the stroke
// size to at least 1.
func (s Style) Normalized(defaultColor string) Style {
	if s.Color == "" {
		s.Color = defaultColor
	}
	if !(s.StrokeSize >= 1) {
		s.StrokeSize = 1
	}
	if s.Tool == "" {
		s.Tool = Pen
	}
	return s
}

// Paint returns the attributes a committed shape inherits.
func (s Style) Paint() document.Paint {
	return document.Paint{
		Color:       s.Color,
		FillColor:   s.FillColor,
		FillEnabled: !s.Outline,
		StrokeSize:  s.StrokeSize,
	}
}
