package render

import (
	"math"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
)

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

func moveTo(p geom.Point) PathCommand { return PathCommand{"M", p.X, p.Y} }
func lineTo(p geom.Point) PathCommand { return PathCommand{"L", p.X, p.Y} }
func closePath() PathCommand          { return PathCommand{"Z"} }

// segmentPath is a single open line.
func segmentPath(a, b geom.Point) []PathCommand {
	return []PathCommand{moveTo(a), lineTo(b)}
}

// polygonPath closes the given vertices.
func polygonPath(pts ...geom.Point) []PathCommand {
	if len(pts) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(pts)+1)
	path = append(path, moveTo(pts[0]))
	for _, p := range pts[1:] {
		path = append(path, lineTo(p))
	}
	return append(path, closePath())
}

// circlePath approximates a circle with four cubic bezier curves.
func circlePath(c geom.Point, r float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 0.5522847498 * r
	return []PathCommand{
		{"M", c.X + r, c.Y},
		{"C", c.X + r, c.Y + k, c.X + k, c.Y + r, c.X, c.Y + r},
		{"C", c.X - k, c.Y + r, c.X - r, c.Y + k, c.X - r, c.Y},
		{"C", c.X - r, c.Y - k, c.X - k, c.Y - r, c.X, c.Y - r},
		{"C", c.X + k, c.Y - r, c.X + r, c.Y - k, c.X + r, c.Y},
		{"Z"},
	}
}

// regularPolygon returns n vertices on a circle of radius r, vertex 0 at angle 0.
func regularPolygon(c geom.Point, r float64, n int) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range pts {
		a := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// pathBounds returns the box of all path points after transform m.
func pathBounds(path []PathCommand, m geom.Matrix2D) geom.Rect {
	var r geom.Rect
	first := true
	for _, cmd := range path {
		for i := 1; i+1 < len(cmd); i += 2 {
			p := m.TransformPoint(geom.Pt(toFloat64(cmd[i]), toFloat64(cmd[i+1])))
			if first {
				r = geom.Rect{X: p.X, Y: p.Y}
				first = false
				continue
			}
			minX, minY := min(r.X, p.X), min(r.Y, p.Y)
			maxX, maxY := max(r.X+r.Width, p.X), max(r.Y+r.Height, p.Y)
			r = geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
		}
	}
	return r
}
