package engine

import (
	"math"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

// View is the canvas view state. Zoom is applied by the host as a scale of
// the whole raster; it only matters here for mapping pointer positions.
type View struct {
	Zoom       float64           `json:"zoom"`
	Grid       bool              `json:"grid"`
	Background render.Background `json:"background"`
	// Rect is the on-screen bounding rect of the canvas element.
	Rect   geom.Rect `json:"rect"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

func defaultView(width, height int) View {
	return View{
		Zoom:       1,
		Grid:       true,
		Background: render.BackgroundDark,
		Rect:       geom.Rect{Width: float64(width), Height: float64(height)},
		Width:      width,
		Height:     height,
	}
}

// clampZoom keeps z in [MinZoom, MaxZoom], rounded to two decimals so that
// repeated steps do not drift.
func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	z = math.Round(z*100) / 100
	return max(MinZoom, min(MaxZoom, z))
}

// Viewport returns the pointer mapping for the current view.
func (v View) Viewport() geom.Viewport {
	return geom.Viewport{Rect: v.Rect, Zoom: v.Zoom}
}

// Theme returns the colours for the background mode.
func (v View) Theme() render.Theme {
	return render.ThemeFor(v.Background)
}
