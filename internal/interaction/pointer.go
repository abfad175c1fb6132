package interaction

import "github.com/chemcanvas/chemcanvas/backend-go/internal/geom"

// Device is the kind of input that produced a pointer event.
type Device int

const (
	DeviceMouse Device = iota
	DeviceTouch
	DevicePen
)

// ParseDevice maps a DOM pointerType to a Device. Unknown values are mouse.
func ParseDevice(s string) Device {
	switch s {
	case "touch":
		return DeviceTouch
	case "pen":
		return DevicePen
	}
	return DeviceMouse
}

func (d Device) String() string {
	switch d {
	case DeviceTouch:
		return "touch"
	case DevicePen:
		return "pen"
	}
	return "mouse"
}

// Button follows the DOM MouseEvent.button numbering.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonAuxiliary Button = 1
	ButtonSecondary Button = 2
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
	Alt   bool `json:"alt"`
}

// Pointer is a pointer event already mapped into canvas space.
type Pointer struct {
	Pos       geom.Point `json:"pos"`
	Button    Button     `json:"button"`
	Modifiers Modifiers  `json:"modifiers"`
	Device    Device     `json:"device"`
}

// At is a primary-button mouse event at (x, y).
func At(x, y float64) Pointer {
	return Pointer{Pos: geom.Pt(x, y)}
}

// rotateGesture reports whether the event asks the rotate tool to grab a
// shape: a secondary click, or any click with Ctrl or Meta held.
func (p Pointer) rotateGesture() bool {
	return p.Button == ButtonSecondary || p.Modifiers.Ctrl || p.Modifiers.Meta
}
