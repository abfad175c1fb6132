// Package interaction turns pointer-down/move/up sequences into shape model
// mutations, ink, and previews depending on the active tool.
package interaction

import (
	"errors"
	"fmt"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/tool"
)

// State is the gesture currently in progress.
type State int

const (
	Idle State = iota
	DraftingShape
	DrawingInk
	MovingShape
	RotatingShape
	AreaErasing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraftingShape:
		return "drafting"
	case DrawingInk:
		return "inking"
	case MovingShape:
		return "moving"
	case RotatingShape:
		return "rotating"
	case AreaErasing:
		return "area-erasing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	// A smaller area-erase drag is treated as a click.
	areaEraseClick = 5.0

	// Touch stamps are drawn this many times the stroke size.
	touchStampScale = 3.0

	atomOutline = 1.0
)

// InkSink receives immediate-mode ink. Whatever it draws is never read back.
type InkSink interface {
	DrawInk(commands ...render.DrawCommand) error
}

// Machine is the interaction session: at most one draft, at most one
// selected shape, and the anchor of the current drag.
type Machine struct {
	model *document.Model
	ink   InkSink

	state    State
	draft    render.Draft
	selected string
	// anchor is pointer minus centroid at grab time.
	anchor geom.Point
	last   geom.Point

	areaStart, areaEnd geom.Point
}

// New creates an idle machine mutating model and inking into ink.
func New(model *document.Model, ink InkSink) *Machine {
	return &Machine{model: model, ink: ink}
}

// --- Commands ---

// PointerDown starts a gesture. Events arriving mid-gesture are ignored.
func (m *Machine) PointerDown(p Pointer, style tool.Style) error {
	if m.state != Idle {
		return nil
	}
	pos := p.Pos

	if p.Device == DeviceTouch {
		m.beginInk(pos)
		return nil
	}
	if style.Tool == tool.Eraser && p.Modifiers.Shift {
		m.state = AreaErasing
		m.areaStart, m.areaEnd = pos, pos
		return nil
	}

	switch style.Tool.Class() {
	case tool.ClassInk:
		m.beginInk(pos)
	case tool.ClassShape:
		kind, _ := style.Tool.ShapeKind()
		m.draft = render.Draft{Kind: kind, Start: pos, End: pos, Paint: style.Paint()}
		m.state = DraftingShape
	case tool.ClassMove:
		m.grab(pos, MovingShape)
	case tool.ClassRotate:
		if p.rotateGesture() {
			m.grab(pos, RotatingShape)
		}
	}
	return nil
}

// PointerMove advances the current gesture.
func (m *Machine) PointerMove(p Pointer, style tool.Style) error {
	pos := p.Pos

	switch m.state {
	case Idle:
		return nil
	case DrawingInk:
		commands := m.inkCommands(pos, style, p.Device == DeviceTouch)
		m.last = pos
		if len(commands) == 0 || m.ink == nil {
			return nil
		}
		return m.ink.DrawInk(commands...)
	case DraftingShape:
		m.draft.End = pos
		m.draft.Paint = style.Paint()
	case MovingShape:
		err := m.model.MoveCentroidTo(m.selected, pos.Sub(m.anchor))
		return m.dropIfGone(err)
	case RotatingShape:
		s, ok := m.model.Get(m.selected)
		if !ok {
			m.Reset()
			return nil
		}
		angle := geom.AngleDegrees(s.Centroid(), pos) + 90
		return m.dropIfGone(m.model.SetRotation(m.selected, angle))
	case AreaErasing:
		m.areaEnd = pos
	}
	return nil
}

// PointerUp finishes the current gesture and returns to Idle.
func (m *Machine) PointerUp(p Pointer, style tool.Style) error {
	switch m.state {
	case DraftingShape:
		m.draft.End = p.Pos
		m.draft.Paint = style.Paint()
		m.model.Add(m.draft.Kind, m.draft.Start, m.draft.End, m.draft.Paint)
	case AreaErasing:
		m.areaEnd = p.Pos
		m.eraseArea()
	}
	m.Reset()
	return nil
}

// Cancel abandons the current gesture. A draft or area selection is
// discarded; moves and rotations already applied are kept.
func (m *Machine) Cancel() {
	m.Reset()
}

// Reset returns to Idle and forgets the session.
func (m *Machine) Reset() {
	m.state = Idle
	m.draft = render.Draft{}
	m.selected = ""
	m.anchor = geom.Point{}
}

func (m *Machine) beginInk(pos geom.Point) {
	m.state = DrawingInk
	m.last = pos
}

// grab hit-tests topmost first and, on a hit, selects the shape and
// enters next. A miss leaves the machine idle with nothing selected.
func (m *Machine) grab(pos geom.Point, next State) {
	s, ok := m.model.HitTest(pos)
	if !ok {
		return
	}
	m.selected = s.ID
	m.anchor = pos.Sub(s.Centroid())
	m.state = next
}

// dropIfGone ends the gesture when the selected shape was removed under it.
func (m *Machine) dropIfGone(err error) error {
	if errors.Is(err, document.ErrShapeNotFound) {
		m.Reset()
		return nil
	}
	return err
}

func (m *Machine) eraseArea() {
	r := geom.RectFromPoints(m.areaStart, m.areaEnd)
	if r.Width < areaEraseClick && r.Height < areaEraseClick {
		m.model.RemoveAt(m.areaStart)
		return
	}
	m.model.RemoveInRect(r)
}

// inkCommands returns what one move of an ink gesture paints.
func (m *Machine) inkCommands(pos geom.Point, style tool.Style, touch bool) []render.DrawCommand {
	size := style.StrokeSize
	switch style.Tool {
	case tool.Pen, tool.Draw, tool.Bond:
		return []render.DrawCommand{render.InkLine(m.last, pos, style.Color, size)}
	case tool.Eraser:
		return []render.DrawCommand{render.InkErase(m.last, pos, size*2)}
	case tool.Atom:
		return []render.DrawCommand{render.InkDot(pos, size*2, style.Color, atomOutline)}
	case tool.Electron:
		return []render.DrawCommand{render.InkDot(pos, size/2, style.Color, 0)}
	}
	if !touch {
		return nil
	}

	// Touch has no drafting; shape tools stamp their glyph instead.
	switch style.Tool {
	case tool.Arrow:
		return render.DraftPreview(render.Draft{Kind: document.KindArrow, Start: m.last, End: pos, Paint: style.Paint()})
	case tool.Circle, tool.Square, tool.Triangle, tool.Hexagon:
		kind, _ := style.Tool.ShapeKind()
		return render.InkStamp(kind, pos, size*touchStampScale, style.Paint())
	}
	return nil
}

// --- Queries ---

// State returns the gesture in progress.
func (m *Machine) State() State {
	return m.state
}

// Selected returns the id of the shape being moved or rotated.
func (m *Machine) Selected() (string, bool) {
	return m.selected, m.selected != ""
}

// Draft returns the shape being dragged out, if any.
func (m *Machine) Draft() (render.Draft, bool) {
	return m.draft, m.state == DraftingShape
}

// AreaRect returns the area-erase rectangle while one is being dragged.
func (m *Machine) AreaRect() (geom.Rect, bool) {
	if m.state != AreaErasing {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(m.areaStart, m.areaEnd), true
}

// Overlay returns the disposable preview for the current gesture.
func (m *Machine) Overlay() []render.DrawCommand {
	if d, ok := m.Draft(); ok {
		return render.DraftPreview(d)
	}
	if r, ok := m.AreaRect(); ok {
		return []render.DrawCommand{render.AreaErase(r)}
	}
	return nil
}
