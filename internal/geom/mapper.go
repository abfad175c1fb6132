package geom

// Viewport describes where the canvas sits on screen and how much it is
// scaled. Zoom is applied by the host around the canvas, so model space is
// always unscaled.
type Viewport struct {
	Rect Rect    `json:"rect"`
	Zoom float64 `json:"zoom"`
}

// ToCanvasSpace converts a pointer position in screen coordinates into canvas
// model space. A non-positive zoom is treated as 1.
func ToCanvasSpace(pointer Point, rect Rect, zoom float64) Point {
	if zoom <= 0 {
		zoom = 1
	}
	return Point{
		X: (pointer.X - rect.X) / zoom,
		Y: (pointer.Y - rect.Y) / zoom,
	}
}

// ToCanvasSpace maps a screen point through the viewport.
func (v Viewport) ToCanvasSpace(pointer Point) Point {
	return ToCanvasSpace(pointer, v.Rect, v.Zoom)
}

