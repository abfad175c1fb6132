package render

import (
	"encoding/json"
	"math"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
)

const (
	OpPath = "path"

	CapRound = "round"
	CapButt  = "butt"

	CompositeDestinationOut = "destination-out"
)

// DrawCommand represents a single drawing operation. The browser bridge
// replays these on a Canvas2D context; Rasterizer replays them with gg.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha, 0 means opaque
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
	LineCap     string        `json:"lineCap,omitempty"`     // "round" (default) or "butt"
	Composite   string        `json:"composite,omitempty"`   // "destination-out" for erasing
}

// CompileShapes generates draw commands for every shape in paint order.
func CompileShapes(shapes []document.Shape) []DrawCommand {
	var commands []DrawCommand
	for _, s := range shapes {
		commands = append(commands, CompileShape(s)...)
	}
	return commands
}

// CompileShape generates the draw commands of one shape, including its
// rotation about the centroid.
func CompileShape(s document.Shape) []DrawCommand {
	commands := shapeCommands(s.Kind, s.Start, s.End, s.StrokeSize, s.Color, fillOf(s))

	if m := s.Transform(); !m.IsIdentity() {
		t := m.ToSlice()
		for i := range commands {
			commands[i].Transform = t
		}
	}
	for i := range commands {
		commands[i].ObjectID = s.ID
	}
	return commands
}

func fillOf(s document.Shape) string {
	if !s.Kind.Fillable() || !s.FillEnabled {
		return ""
	}
	return s.FillOrColor()
}

// shapeCommands builds the unrotated primitive of a kind, centred on the
// centroid and sized from the extent.
func shapeCommands(kind document.Kind, start, end geom.Point, size float64, color, fill string) []DrawCommand {
	c := geom.Centroid(start, end)
	extent := geom.Extent(start, end)
	half := extent / 2

	closed := func(path []PathCommand) []DrawCommand {
		return []DrawCommand{{
			Op:          OpPath,
			Path:        path,
			Fill:        fill,
			Stroke:      color,
			StrokeWidth: OutlineWidth,
		}}
	}
	lines := func(path []PathCommand) []DrawCommand {
		return []DrawCommand{{
			Op:          OpPath,
			Path:        path,
			Stroke:      color,
			StrokeWidth: size,
		}}
	}

	switch kind {
	case document.KindArrow:
		return arrowCommands(start, end, size, color)
	case document.KindCircle:
		return closed(circlePath(c, half))
	case document.KindSquare:
		return closed(polygonPath(
			geom.Pt(c.X-half, c.Y-half),
			geom.Pt(c.X+half, c.Y-half),
			geom.Pt(c.X+half, c.Y+half),
			geom.Pt(c.X-half, c.Y+half),
		))
	case document.KindTriangle:
		return closed(polygonPath(
			geom.Pt(c.X, c.Y-half),
			geom.Pt(c.X-half, c.Y+half),
			geom.Pt(c.X+half, c.Y+half),
		))
	case document.KindHexagon:
		return closed(polygonPath(regularPolygon(c, half, 6)...))
	case document.KindPlus:
		return lines([]PathCommand{
			moveTo(geom.Pt(c.X, c.Y-half)), lineTo(geom.Pt(c.X, c.Y+half)),
			moveTo(geom.Pt(c.X-half, c.Y)), lineTo(geom.Pt(c.X+half, c.Y)),
		})
	case document.KindMinus:
		return lines(segmentPath(geom.Pt(c.X-half, c.Y), geom.Pt(c.X+half, c.Y)))
	}
	logger().Warn("compile: unknown shape kind", "kind", kind)
	return nil
}

// ArrowHeadLength returns the arrowhead length for a stroke size.
func ArrowHeadLength(size float64) float64 {
	return max(size*8, 15)
}

// arrowCommands draws a shaft and a filled head whose back vertices sit
// 30 degrees either side of the shaft.
func arrowCommands(start, end geom.Point, size float64, color string) []DrawCommand {
	headLen := ArrowHeadLength(size)
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	h1 := geom.Pt(end.X-headLen*math.Cos(angle-math.Pi/6), end.Y-headLen*math.Sin(angle-math.Pi/6))
	h2 := geom.Pt(end.X-headLen*math.Cos(angle+math.Pi/6), end.Y-headLen*math.Sin(angle+math.Pi/6))

	return []DrawCommand{
		{Op: OpPath, Path: segmentPath(start, end), Stroke: color, StrokeWidth: size},
		{Op: OpPath, Path: polygonPath(end, h1, h2), Fill: color, Stroke: color, StrokeWidth: size},
	}
}

// Backdrop fills the whole surface with the theme background.
func Backdrop(w, h float64, theme Theme) DrawCommand {
	return DrawCommand{
		Op:   OpPath,
		Path: polygonPath(geom.Pt(0, 0), geom.Pt(w, 0), geom.Pt(w, h), geom.Pt(0, h)),
		Fill: theme.Background,
	}
}

// Grid draws vertical and horizontal lines every GridSpacing units.
func Grid(w, h float64, theme Theme) DrawCommand {
	var path []PathCommand
	for x := 0.0; x <= w; x += GridSpacing {
		path = append(path, segmentPath(geom.Pt(x, 0), geom.Pt(x, h))...)
	}
	for y := 0.0; y <= h; y += GridSpacing {
		path = append(path, segmentPath(geom.Pt(0, y), geom.Pt(w, y))...)
	}
	return DrawCommand{
		Op:          OpPath,
		Path:        path,
		Stroke:      theme.Grid,
		StrokeWidth: GridLineWidth,
		LineCap:     CapButt,
	}
}

const selectionSegments = 48

// SelectionIndicator draws the dashed hit disc around the selected shape.
func SelectionIndicator(s document.Shape) DrawCommand {
	return DrawCommand{
		Op:          OpPath,
		ObjectID:    s.ID,
		Path:        polygonPath(regularPolygon(s.Centroid(), s.HitTolerance(), selectionSegments)...),
		Stroke:      SelectionColor,
		StrokeWidth: SelectionWidth,
		Opacity:     SelectionOpacity,
		Dash:        SelectionDash,
		LineCap:     CapButt,
	}
}

// Draft is an in-progress shape being dragged out.
type Draft struct {
	Kind  document.Kind  `json:"kind"`
	Start geom.Point     `json:"start"`
	End   geom.Point     `json:"end"`
	Paint document.Paint `json:"paint"`
}

// DraftPreview draws a draft exactly as it will look once committed.
func DraftPreview(d Draft) []DrawCommand {
	fill := ""
	if d.Kind.Fillable() && d.Paint.FillEnabled {
		fill = d.Paint.FillColor
		if fill == "" {
			fill = d.Paint.Color
		}
	}
	return shapeCommands(d.Kind, d.Start, d.End, d.Paint.StrokeSize, d.Paint.Color, fill)
}

// AreaErase draws the translucent rectangle of an area-erase drag.
func AreaErase(r geom.Rect) DrawCommand {
	return DrawCommand{
		Op: OpPath,
		Path: polygonPath(
			geom.Pt(r.X, r.Y),
			geom.Pt(r.X+r.Width, r.Y),
			geom.Pt(r.X+r.Width, r.Y+r.Height),
			geom.Pt(r.X, r.Y+r.Height),
		),
		Fill:        "#f8717126",
		Stroke:      "#f87171",
		StrokeWidth: 1.5,
		Dash:        []float64{6, 6},
		LineCap:     CapButt,
	}
}

// Marker is a recognition annotation pinned to a canvas position.
type Marker struct {
	ID   string     `json:"id"`
	At   geom.Point `json:"at"`
	Type string     `json:"type"` // error, warning or suggestion
}

const markerRadius = 6.0

// Markers draws one small disc per annotation, coloured by type.
func Markers(markers []Marker) []DrawCommand {
	commands := make([]DrawCommand, 0, len(markers))
	for _, m := range markers {
		fill, border := "#3b82f6", "#2563eb"
		switch m.Type {
		case "error":
			fill, border = "#ef4444", "#dc2626"
		case "warning":
			fill, border = "#eab308", "#ca8a04"
		}
		commands = append(commands, DrawCommand{
			Op:          OpPath,
			ObjectID:    m.ID,
			Path:        circlePath(m.At, markerRadius),
			Fill:        fill,
			Stroke:      border,
			StrokeWidth: 2,
		})
	}
	return commands
}

// --- Ink ---

// InkLine is a round-capped freehand or bond segment.
func InkLine(from, to geom.Point, color string, width float64) DrawCommand {
	return DrawCommand{Op: OpPath, Path: segmentPath(from, to), Stroke: color, StrokeWidth: width}
}

// InkErase removes ink pixels under a round-capped segment.
func InkErase(from, to geom.Point, width float64) DrawCommand {
	return DrawCommand{
		Op:          OpPath,
		Path:        segmentPath(from, to),
		Stroke:      "#000000",
		StrokeWidth: width,
		Composite:   CompositeDestinationOut,
	}
}

// InkDot is a filled disc. A non-zero outline also strokes its rim.
func InkDot(c geom.Point, r float64, color string, outline float64) DrawCommand {
	cmd := DrawCommand{Op: OpPath, Path: circlePath(c, r), Fill: color}
	if outline > 0 {
		cmd.Stroke = color
		cmd.StrokeWidth = outline
	}
	return cmd
}

// InkStamp draws a shape primitive centred on c as ink. The stamp's size
// is taken as the half-extent for circles and hexagons and as the side
// for squares and triangles, matching a freshly drafted shape.
func InkStamp(kind document.Kind, c geom.Point, size float64, paint document.Paint) []DrawCommand {
	extent := size
	if kind == document.KindCircle || kind == document.KindHexagon {
		extent = size * 2
	}
	d := Draft{
		Kind:  kind,
		Start: geom.Pt(c.X-extent/2, c.Y),
		End:   geom.Pt(c.X+extent/2, c.Y),
		Paint: paint,
	}
	return DraftPreview(d)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// Bounds returns the transformed bounding box of a command.
func (c DrawCommand) Bounds() geom.Rect {
	m := geom.Identity()
	if len(c.Transform) == 6 {
		copy(m[:], c.Transform)
	}
	return pathBounds(c.Path, m)
}
