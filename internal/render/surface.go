package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
)

// Scene is everything the base layer is painted from.
type Scene struct {
	Shapes   []document.Shape
	Theme    Theme
	Grid     bool
	Selected string
}

// BaseCommands compiles a scene: background, optional grid, shapes in paint
// order, then the selection indicator.
func BaseCommands(w, h int, sc Scene) []DrawCommand {
	commands := []DrawCommand{Backdrop(float64(w), float64(h), sc.Theme)}
	if sc.Grid {
		commands = append(commands, Grid(float64(w), float64(h), sc.Theme))
	}
	commands = append(commands, CompileShapes(sc.Shapes)...)
	if sc.Selected != "" {
		for _, s := range sc.Shapes {
			if s.ID == sc.Selected {
				commands = append(commands, SelectionIndicator(s))
				break
			}
		}
	}
	return commands
}

// Surface is the raster the canvas owns, split into three layers:
// a base layer replayed from the shape model, a persistent ink layer that
// is only ever drawn into, and a disposable overlay.
type Surface struct {
	width, height int

	base   *gg.Context
	ink    *gg.Context
	hasInk bool

	baseCommands []DrawCommand
	overlay      []DrawCommand
}

// NewSurface allocates all layers at the given size.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	return &Surface{
		width:  width,
		height: height,
		base:   gg.NewContext(width, height),
		ink:    gg.NewContext(width, height),
	}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Resize reallocates the layers. Existing ink is kept at its position; the
// base layer must be repainted by the caller.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width == s.width && height == s.height {
		return nil
	}

	ink := gg.NewContext(width, height)
	if s.hasInk {
		ink.DrawImage(gg.ImageBufFromImage(s.ink.Image()), 0, 0)
	}

	s.width, s.height = width, height
	s.base = gg.NewContext(width, height)
	s.ink = ink
	s.baseCommands = nil
	logger().Debug("surface resized", "width", width, "height", height)
	return nil
}

// Repaint rebuilds the base layer from scratch.
func (s *Surface) Repaint(sc Scene) error {
	commands := BaseCommands(s.width, s.height, sc)
	s.base.Clear()
	if err := Rasterize(s.base, commands); err != nil {
		return fmt.Errorf("repaint base: %w", err)
	}
	s.baseCommands = commands
	return nil
}

// BaseCommands returns the commands of the last repaint.
func (s *Surface) BaseCommands() []DrawCommand {
	return s.baseCommands
}

// DrawInk paints ink commands immediately and irrevocably.
func (s *Surface) DrawInk(commands ...DrawCommand) error {
	if len(commands) == 0 {
		return nil
	}
	if err := Rasterize(s.ink, commands); err != nil {
		return fmt.Errorf("draw ink: %w", err)
	}
	for _, c := range commands {
		if c.Composite == "" {
			s.hasInk = true
		}
	}
	return nil
}

// ClearInk erases the whole ink layer.
func (s *Surface) ClearInk() {
	s.ink.Clear()
	s.hasInk = false
}

// HasInk reports whether anything was ever inked since the last clear.
func (s *Surface) HasInk() bool {
	return s.hasInk
}

// SetOverlay replaces the overlay commands (draft preview, markers).
func (s *Surface) SetOverlay(commands []DrawCommand) {
	s.overlay = commands
}

// Overlay returns the current overlay commands.
func (s *Surface) Overlay() []DrawCommand {
	return s.overlay
}

// Compose flattens base, ink and overlay into a new context.
func (s *Surface) Compose() (*gg.Context, error) {
	out := gg.NewContext(s.width, s.height)
	copy(out.ResizeTarget().Data(), s.base.ResizeTarget().Data())

	if s.hasInk {
		out.DrawImage(gg.ImageBufFromImage(s.ink.Image()), 0, 0)
	}
	if err := Rasterize(out, s.overlay); err != nil {
		return nil, fmt.Errorf("compose overlay: %w", err)
	}
	return out, nil
}

// Image returns the composed raster.
func (s *Surface) Image() (image.Image, error) {
	dc, err := s.Compose()
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG writes the composed raster as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	dc, err := s.Compose()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// InkImage returns a copy of the ink layer alone.
func (s *Surface) InkImage() image.Image {
	return s.ink.Image()
}
