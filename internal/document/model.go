package document

import (
	"errors"
	"fmt"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

var (
	ErrShapeNotFound = errors.New("shape not found")
	ErrDuplicateID   = errors.New("duplicate shape id")
	ErrInvalidPoint  = errors.New("point is not finite")
)

// ChangeKind describes what a mutation did to the model.
type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeUpdate ChangeKind = "update"
	ChangeRemove ChangeKind = "remove"
	ChangeClear  ChangeKind = "clear"
	ChangeLoad   ChangeKind = "load"
)

// Change is passed to the notify hook after every mutation.
type Change struct {
	Kind ChangeKind
	IDs  []string
}

// Model is the ordered list of committed shapes. Slice order is paint order
// and is only ever appended to; select, move and rotate never reorder it.
type Model struct {
	shapes   []Shape
	ids      map[string]struct{}
	newID    func() string
	onChange func(Change)
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator overrides how shape ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(m *Model) {
		m.newID = gen
	}
}

// NewModel creates an empty shape model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		ids:   make(map[string]struct{}),
		newID: typeid.NewShapeID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers the single notify hook. Passing nil removes it.
func (m *Model) OnChange(fn func(Change)) {
	m.onChange = fn
}

func (m *Model) notify(kind ChangeKind, ids ...string) {
	if m.onChange != nil {
		m.onChange(Change{Kind: kind, IDs: ids})
	}
}

// --- Commands ---

// Add commits a new shape spanning start..end with rotation 0 and returns it.
// Zero-extent shapes are allowed. Non-finite points are replaced by the
// finite one so the stored geometry stays finite.
func (m *Model) Add(kind Kind, start, end geom.Point, paint Paint) Shape {
	if !start.IsFinite() {
		start = end
	}
	if !end.IsFinite() {
		end = start
	}
	if !start.IsFinite() {
		start, end = geom.Point{}, geom.Point{}
	}

	id := m.newID()
	for m.has(id) {
		id = m.newID()
	}

	s := Shape{
		ID:         id,
		Kind:       kind,
		Start:      start,
		End:        end,
		Color:      paint.Color,
		StrokeSize: paint.StrokeSize,
	}
	if kind.Fillable() && paint.FillEnabled {
		s.FillEnabled = true
		s.FillColor = paint.FillColor
		if s.FillColor == "" {
			s.FillColor = s.Color
		}
	}

	m.shapes = append(m.shapes, s)
	m.ids[id] = struct{}{}
	m.notify(ChangeAdd, id)
	return s
}

// Insert appends an already-built shape, keeping ids unique.
func (m *Model) Insert(s Shape) error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = m.newID()
	}
	if m.has(s.ID) {
		return fmt.Errorf("insert %s: %w", s.ID, ErrDuplicateID)
	}
	s.RotationDegrees = geom.NormalizeDegrees(s.RotationDegrees)
	m.shapes = append(m.shapes, s)
	m.ids[s.ID] = struct{}{}
	m.notify(ChangeAdd, s.ID)
	return nil
}

// Load replaces the whole list. On error the model is left unchanged.
func (m *Model) Load(shapes []Shape) error {
	next := make([]Shape, 0, len(shapes))
	ids := make(map[string]struct{}, len(shapes))
	for _, s := range shapes {
		if s.ID == "" {
			s.ID = m.newID()
		}
		if err := s.validate(); err != nil {
			return err
		}
		if _, dup := ids[s.ID]; dup {
			return fmt.Errorf("load %s: %w", s.ID, ErrDuplicateID)
		}
		s.RotationDegrees = geom.NormalizeDegrees(s.RotationDegrees)
		ids[s.ID] = struct{}{}
		next = append(next, s)
	}

	m.shapes = next
	m.ids = ids
	m.notify(ChangeLoad)
	return nil
}

// MoveCentroidTo translates the shape so its centroid lands on p. The
// start/end vector is preserved, so the extent never changes.
func (m *Model) MoveCentroidTo(id string, p geom.Point) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrShapeNotFound
	}
	if !p.IsFinite() {
		return ErrInvalidPoint
	}
	s := m.shapes[i]
	c := s.Centroid()
	m.shapes[i] = s.Translated(p.X-c.X, p.Y-c.Y)
	m.notify(ChangeUpdate, id)
	return nil
}

// Translate moves the shape by (dx, dy).
func (m *Model) Translate(id string, dx, dy float64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrShapeNotFound
	}
	m.shapes[i] = m.shapes[i].Translated(dx, dy)
	m.notify(ChangeUpdate, id)
	return nil
}

// SetRotation stores an absolute rotation, normalized to [0, 360).
func (m *Model) SetRotation(id string, degrees float64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrShapeNotFound
	}
	m.shapes[i].RotationDegrees = geom.NormalizeDegrees(degrees)
	m.notify(ChangeUpdate, id)
	return nil
}

// RotateBy accumulates delta onto the stored rotation.
func (m *Model) RotateBy(id string, delta float64) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrShapeNotFound
	}
	m.shapes[i].RotationDegrees = geom.NormalizeDegrees(m.shapes[i].RotationDegrees + delta)
	m.notify(ChangeUpdate, id)
	return nil
}

// Remove deletes one shape.
func (m *Model) Remove(id string) error {
	i := m.indexOf(id)
	if i < 0 {
		return ErrShapeNotFound
	}
	m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
	delete(m.ids, id)
	m.notify(ChangeRemove, id)
	return nil
}

// RemoveAt removes the topmost shape whose bounds contain p.
func (m *Model) RemoveAt(p geom.Point) (string, bool) {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		if m.shapes[i].Bounds().Contains(p) {
			id := m.shapes[i].ID
			m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
			delete(m.ids, id)
			m.notify(ChangeRemove, id)
			return id, true
		}
	}
	return "", false
}

// RemoveInRect removes every shape whose bounds touch r and returns their ids
// in paint order.
func (m *Model) RemoveInRect(r geom.Rect) []string {
	var removed []string
	kept := m.shapes[:0]
	for _, s := range m.shapes {
		if s.Bounds().Intersects(r) {
			removed = append(removed, s.ID)
			delete(m.ids, s.ID)
			continue
		}
		kept = append(kept, s)
	}
	m.shapes = kept
	if len(removed) > 0 {
		m.notify(ChangeRemove, removed...)
	}
	return removed
}

// Clear empties the model.
func (m *Model) Clear() {
	m.shapes = nil
	m.ids = make(map[string]struct{})
	m.notify(ChangeClear)
}

// --- Queries ---

// Len returns the number of committed shapes.
func (m *Model) Len() int {
	return len(m.shapes)
}

// Get returns the shape with the given id.
func (m *Model) Get(id string) (Shape, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Shape{}, false
	}
	return m.shapes[i], true
}

// Shapes returns a copy of the list in paint order.
func (m *Model) Shapes() []Shape {
	out := make([]Shape, len(m.shapes))
	copy(out, m.shapes)
	return out
}

// HitTest walks shapes topmost first and returns the first whose hit disc
// contains p. A miss is not an error.
func (m *Model) HitTest(p geom.Point) (Shape, bool) {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		if m.shapes[i].IsHit(p) {
			return m.shapes[i], true
		}
	}
	return Shape{}, false
}

func (m *Model) has(id string) bool {
	_, ok := m.ids[id]
	return ok
}

func (m *Model) indexOf(id string) int {
	if !m.has(id) {
		return -1
	}
	for i := range m.shapes {
		if m.shapes[i].ID == id {
			return i
		}
	}
	return -1
}
