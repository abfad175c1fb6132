package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
)

// Rasterize replays draw commands onto a gg context in order.
func Rasterize(dc *gg.Context, commands []DrawCommand) error {
	for i := range commands {
		if err := rasterizeCommand(dc, &commands[i]); err != nil {
			return fmt.Errorf("rasterize command %d (%s): %w", i, commands[i].ObjectID, err)
		}
	}
	return nil
}

func rasterizeCommand(dc *gg.Context, cmd *DrawCommand) error {
	if cmd.Op != OpPath || len(cmd.Path) == 0 {
		return nil
	}
	if cmd.Composite == CompositeDestinationOut {
		eraseCommand(dc, cmd)
		return nil
	}

	dc.Push()
	defer dc.Pop()

	if len(cmd.Transform) == 6 {
		dc.Transform(toGGMatrix(cmd.Transform))
	}
	// gg's dasher cannot split cubic segments, so dashed paths are flattened.
	buildPath(dc, cmd.Path, len(cmd.Dash) > 0)

	opacity := cmd.Opacity
	if opacity <= 0 {
		opacity = 1
	}

	if cmd.Fill != "" {
		dc.SetFillBrush(gg.Solid(withAlpha(gg.Hex(cmd.Fill), opacity)))
		if err := dc.FillPreserve(); err != nil {
			dc.ClearPath()
			return err
		}
	}

	if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
		dc.SetStrokeBrush(gg.Solid(withAlpha(gg.Hex(cmd.Stroke), opacity)))
		dc.SetLineWidth(cmd.StrokeWidth)
		dc.SetLineJoin(gg.LineJoinRound)
		if cmd.LineCap == CapButt {
			dc.SetLineCap(gg.LineCapButt)
		} else {
			dc.SetLineCap(gg.LineCapRound)
		}
		// Dash is paint state and survives Pop, so it is always reset.
		if len(cmd.Dash) > 0 {
			dc.SetDash(cmd.Dash...)
		} else {
			dc.ClearDash()
		}
		err := dc.Stroke()
		dc.ClearDash()
		return err
	}

	dc.ClearPath()
	return nil
}

func buildPath(dc *gg.Context, path []PathCommand, flatten bool) {
	var cur, start geom.Point
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}
		switch op {
		case "M":
			if len(cmd) >= 3 {
				cur = geom.Pt(toFloat64(cmd[1]), toFloat64(cmd[2]))
				start = cur
				dc.MoveTo(cur.X, cur.Y)
			}
		case "L":
			if len(cmd) >= 3 {
				cur = geom.Pt(toFloat64(cmd[1]), toFloat64(cmd[2]))
				dc.LineTo(cur.X, cur.Y)
			}
		case "C":
			if len(cmd) >= 7 {
				c1 := geom.Pt(toFloat64(cmd[1]), toFloat64(cmd[2]))
				c2 := geom.Pt(toFloat64(cmd[3]), toFloat64(cmd[4]))
				end := geom.Pt(toFloat64(cmd[5]), toFloat64(cmd[6]))
				if flatten {
					for _, p := range flattenCubic(cur, c1, c2, end, cubicSteps) {
						dc.LineTo(p.X, p.Y)
					}
				} else {
					dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
				}
				cur = end
			}
		case "Z":
			dc.ClosePath()
			cur = start
		}
	}
}

const cubicSteps = 12

// flattenCubic samples the bezier p0..p3 at n even steps, excluding p0.
func flattenCubic(p0, p1, p2, p3 geom.Point, n int) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range pts {
		t := float64(i+1) / float64(n)
		u := 1 - t
		a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		pts[i] = geom.Pt(
			a*p0.X+b*p1.X+c*p2.X+d*p3.X,
			a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
		)
	}
	return pts
}

// toGGMatrix converts canvas order [a b c d e f] into gg's row-major form.
func toGGMatrix(t []float64) gg.Matrix {
	return gg.Matrix{
		A: t[0], B: t[2], C: t[4],
		D: t[1], E: t[3], F: t[5],
	}
}

func withAlpha(c gg.RGBA, opacity float64) gg.RGBA {
	c.A *= opacity
	return c
}

// eraseCommand implements destination-out for straight segments: every
// pixel within half the stroke width of a segment loses alpha by its
// coverage. The pixmap stores premultiplied RGBA, so all four channels are
// scaled together.
func eraseCommand(dc *gg.Context, cmd *DrawCommand) {
	pm := dc.ResizeTarget()
	if pm == nil {
		return
	}
	m := geom.Identity()
	if len(cmd.Transform) == 6 {
		copy(m[:], cmd.Transform)
	}

	var pts []geom.Point
	radius := max(cmd.StrokeWidth/2, 0.5)
	for _, pc := range cmd.Path {
		if len(pc) < 3 {
			continue
		}
		op, _ := pc[0].(string)
		p := m.TransformPoint(geom.Pt(toFloat64(pc[len(pc)-2]), toFloat64(pc[len(pc)-1])))
		switch op {
		case "M":
			pts = pts[:0]
			pts = append(pts, p)
			eraseSegment(pm, p, p, radius)
		case "L", "C":
			if len(pts) > 0 {
				eraseSegment(pm, pts[len(pts)-1], p, radius)
			}
			pts = append(pts, p)
		}
	}
}

func eraseSegment(pm *gg.Pixmap, a, b geom.Point, radius float64) {
	w, h := pm.Width(), pm.Height()
	x0 := max(int(math.Floor(min(a.X, b.X)-radius-1)), 0)
	y0 := max(int(math.Floor(min(a.Y, b.Y)-radius-1)), 0)
	x1 := min(int(math.Ceil(max(a.X, b.X)+radius+1)), w-1)
	y1 := min(int(math.Ceil(max(a.Y, b.Y)+radius+1)), h-1)
	if x0 > x1 || y0 > y1 {
		return
	}

	data := pm.Data()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := distanceToSegment(geom.Pt(float64(x)+0.5, float64(y)+0.5), a, b)
			coverage := radius + 0.5 - d
			if coverage <= 0 {
				continue
			}
			keep := 1 - min(coverage, 1)
			i := (y*w + x) * 4
			for c := 0; c < 4; c++ {
				data[i+c] = uint8(math.Round(float64(data[i+c]) * keep))
			}
		}
	}
}

func distanceToSegment(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return geom.Distance(p, a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = max(0, min(1, t))
	return geom.Distance(p, geom.Pt(a.X+t*ab.X, a.Y+t*ab.Y))
}
