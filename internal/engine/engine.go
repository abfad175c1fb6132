package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/interaction"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/tool"
)

// Engine is the canvas engine. It owns the shape model, the interaction
// session, the raster surface and the view state, and processes commands
// from the frontend.
type Engine struct {
	model   *document.Model
	machine *interaction.Machine
	surface *render.Surface

	view  View
	style tool.Style

	corrections []Correction

	// Ink drawn since the last TakeInk, for hosts that mirror the raster.
	pendingInk []render.DrawCommand

	// Dirty flag - base layer needs repaint
	dirty bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	model []document.Option
}

// WithShapeIDs overrides how shape ids are minted.
func WithShapeIDs(gen func() string) Option {
	return func(o *engineOptions) {
		o.model = append(o.model, document.WithIDGenerator(gen))
	}
}

// NewEngine creates an engine with a width x height surface.
func NewEngine(width, height int, opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	surface, err := render.NewSurface(width, height)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		model:   document.NewModel(o.model...),
		surface: surface,
		view:    defaultView(width, height),
		style:   tool.Style{Tool: tool.Pen, StrokeSize: 3},
		dirty:   true,
	}
	e.machine = interaction.New(e.model, inkRecorder{e})
	e.model.OnChange(func(document.Change) {
		e.dirty = true
	})
	return e, nil
}

// inkRecorder forwards ink to the surface and remembers it for TakeInk.
type inkRecorder struct{ e *Engine }

func (r inkRecorder) DrawInk(commands ...render.DrawCommand) error {
	if err := r.e.surface.DrawInk(commands...); err != nil {
		return err
	}
	r.e.pendingInk = append(r.e.pendingInk, commands...)
	return nil
}

// --- Commands (frontend → backend) ---

// PointerDown handles a pointer press at screen position (x, y).
func (e *Engine) PointerDown(x, y float64, button int, mods interaction.Modifiers, device interaction.Device) error {
	return e.pointer(e.machine.PointerDown, x, y, button, mods, device)
}

// PointerMove handles pointer motion at screen position (x, y).
func (e *Engine) PointerMove(x, y float64, button int, mods interaction.Modifiers, device interaction.Device) error {
	return e.pointer(e.machine.PointerMove, x, y, button, mods, device)
}

// PointerUp handles a pointer release at screen position (x, y).
func (e *Engine) PointerUp(x, y float64, button int, mods interaction.Modifiers, device interaction.Device) error {
	return e.pointer(e.machine.PointerUp, x, y, button, mods, device)
}

func (e *Engine) pointer(
	handle func(interaction.Pointer, tool.Style) error,
	x, y float64,
	button int,
	mods interaction.Modifiers,
	device interaction.Device,
) error {
	p := interaction.Pointer{
		Pos:       e.view.Viewport().ToCanvasSpace(geom.Pt(x, y)),
		Button:    interaction.Button(button),
		Modifiers: mods,
		Device:    device,
	}
	if !p.Pos.IsFinite() {
		return nil
	}

	before, _ := e.machine.Selected()
	err := handle(p, e.activeStyle())
	if after, _ := e.machine.Selected(); after != before {
		e.dirty = true
	}
	return err
}

// Cancel abandons the gesture in progress (pointer left the canvas, touch
// cancelled).
func (e *Engine) Cancel() {
	if _, ok := e.machine.Selected(); ok {
		e.dirty = true
	}
	e.machine.Cancel()
}

// SetStyle replaces the toolbar snapshot used for subsequent events.
func (e *Engine) SetStyle(s tool.Style) {
	e.style = s
}

// SetBoundingRect records where the canvas element is on screen.
func (e *Engine) SetBoundingRect(r geom.Rect) {
	e.view.Rect = r
}

// Resize resizes the surface. Ink is kept; the base layer is repainted.
func (e *Engine) Resize(width, height int) error {
	if err := e.surface.Resize(width, height); err != nil {
		return err
	}
	e.view.Width, e.view.Height = width, height
	e.dirty = true
	return nil
}

// ZoomIn increases zoom by one step, up to MaxZoom.
func (e *Engine) ZoomIn() {
	e.view.Zoom = clampZoom(e.view.Zoom + ZoomStep)
}

// ZoomOut decreases zoom by one step, down to MinZoom.
func (e *Engine) ZoomOut() {
	e.view.Zoom = clampZoom(e.view.Zoom - ZoomStep)
}

// ResetZoom returns to 1x.
func (e *Engine) ResetZoom() {
	e.view.Zoom = 1
}

// SetZoom sets an absolute zoom, clamped to [MinZoom, MaxZoom].
func (e *Engine) SetZoom(z float64) {
	e.view.Zoom = clampZoom(z)
}

// ToggleGrid flips grid visibility.
func (e *Engine) ToggleGrid() {
	e.SetGrid(!e.view.Grid)
}

// SetGrid shows or hides the grid.
func (e *Engine) SetGrid(visible bool) {
	if e.view.Grid != visible {
		e.view.Grid = visible
		e.dirty = true
	}
}

// SetBackground switches between the dark and light schemes.
func (e *Engine) SetBackground(mode string) error {
	bg, err := render.ParseBackground(mode)
	if err != nil {
		return err
	}
	if e.view.Background != bg {
		e.view.Background = bg
		e.dirty = true
	}
	return nil
}

// Clear empties the shape model, the ink layer, the selection and every
// correction.
func (e *Engine) Clear() {
	e.machine.Reset()
	e.model.Clear()
	e.surface.ClearInk()
	e.pendingInk = nil
	e.corrections = nil
	e.dirty = true
}

// LoadShapes replaces the shape model with a JSON array of shapes.
func (e *Engine) LoadShapes(jsonData string) error {
	var shapes []document.Shape
	if err := json.Unmarshal([]byte(jsonData), &shapes); err != nil {
		return fmt.Errorf("decode shapes: %w", err)
	}
	if err := e.model.Load(shapes); err != nil {
		return err
	}
	e.machine.Reset()
	return nil
}

// LoadSample loads the built-in reaction sketch.
func (e *Engine) LoadSample() error {
	if err := e.model.Load(document.NewSampleCanvas().Shapes()); err != nil {
		return err
	}
	e.machine.Reset()
	return nil
}

// SetCorrections replaces the recognition overlay.
func (e *Engine) SetCorrections(corrections []Correction) {
	e.corrections = normalizeCorrections(corrections)
}

// SetCorrectionsJSON is SetCorrections for a JSON array.
func (e *Engine) SetCorrectionsJSON(jsonData string) error {
	var corrections []Correction
	if err := json.Unmarshal([]byte(jsonData), &corrections); err != nil {
		return fmt.Errorf("decode corrections: %w", err)
	}
	e.SetCorrections(corrections)
	return nil
}

// ClearCorrections removes the recognition overlay.
func (e *Engine) ClearCorrections() {
	e.corrections = nil
}

// Refresh repaints the base layer if the model or view changed and rebuilds
// the overlay.
func (e *Engine) Refresh() error {
	if e.dirty {
		if err := e.surface.Repaint(e.scene()); err != nil {
			return err
		}
		e.dirty = false
	}
	overlay := e.machine.Overlay()
	overlay = append(overlay, render.Markers(markers(e.corrections))...)
	e.surface.SetOverlay(overlay)
	return nil
}

func (e *Engine) scene() render.Scene {
	selected, _ := e.machine.Selected()
	return render.Scene{
		Shapes:   e.model.Shapes(),
		Theme:    e.view.Theme(),
		Grid:     e.view.Grid,
		Selected: selected,
	}
}

func (e *Engine) activeStyle() tool.Style {
	return e.style.Normalized(e.view.Theme().Ink)
}

// --- Queries (frontend ← backend) ---

// Render refreshes the layers and returns base and overlay draw commands as
// JSON. Ink is not included; see TakeInk.
func (e *Engine) Render() string {
	if err := e.Refresh(); err != nil {
		return "[]"
	}
	base, overlay := e.surface.BaseCommands(), e.surface.Overlay()
	commands := make([]render.DrawCommand, 0, len(base)+len(overlay))
	commands = append(commands, base...)
	commands = append(commands, overlay...)
	result, _ := render.DrawCommandsToJSON(commands)
	return result
}

// TakeInk returns the ink commands drawn since the previous call as JSON.
func (e *Engine) TakeInk() string {
	result, _ := render.DrawCommandsToJSON(e.pendingInk)
	e.pendingInk = nil
	return result
}

// Snapshot returns the composed canvas (base, ink and overlay) as PNG.
func (e *Engine) Snapshot() ([]byte, error) {
	if err := e.Refresh(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.surface.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Image returns the composed canvas.
func (e *Engine) Image() (image.Image, error) {
	if err := e.Refresh(); err != nil {
		return nil, err
	}
	return e.surface.Image()
}

// HitTest returns the id of the topmost shape whose hit disc contains the
// model-space point (x, y), or an empty string.
func (e *Engine) HitTest(x, y float64) string {
	s, ok := e.model.HitTest(geom.Pt(x, y))
	if !ok {
		return ""
	}
	return s.ID
}

// ToCanvasSpace maps a screen point through the current view.
func (e *Engine) ToCanvasSpace(x, y float64) geom.Point {
	return e.view.Viewport().ToCanvasSpace(geom.Pt(x, y))
}

// Shapes returns the shape model as JSON.
func (e *Engine) Shapes() string {
	data, _ := json.Marshal(e.model.Shapes())
	return string(data)
}

// ShapeList returns a copy of the shape model.
func (e *Engine) ShapeList() []document.Shape {
	return e.model.Shapes()
}

// GetView returns the view state as JSON.
func (e *Engine) GetView() string {
	data, _ := json.Marshal(e.view)
	return string(data)
}

// View returns the view state.
func (e *Engine) View() View {
	return e.view
}

// State returns the interaction state name.
func (e *Engine) State() string {
	return e.machine.State().String()
}

// Selected returns the selected shape id, or an empty string.
func (e *Engine) Selected() string {
	id, _ := e.machine.Selected()
	return id
}

// GetSelectionBounds returns the bounding box of the selected shape as JSON.
func (e *Engine) GetSelectionBounds() string {
	var r geom.Rect
	if id, ok := e.machine.Selected(); ok {
		if s, ok := e.model.Get(id); ok {
			r = s.Transform().TransformRect(s.Bounds())
		}
	}
	data, _ := json.Marshal(r)
	return string(data)
}

// Corrections returns the recognition overlay as JSON.
func (e *Engine) Corrections() string {
	if len(e.corrections) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(e.corrections)
	return string(data)
}

// Style returns the toolbar snapshot with defaults applied.
func (e *Engine) Style() tool.Style {
	return e.activeStyle()
}
