package render

import "fmt"

// Background selects the canvas colour scheme.
type Background string

const (
	BackgroundDark  Background = "dark"
	BackgroundLight Background = "light"
)

// ParseBackground returns the background named s.
func ParseBackground(s string) (Background, error) {
	switch Background(s) {
	case BackgroundDark, BackgroundLight:
		return Background(s), nil
	}
	return "", fmt.Errorf("unknown background %q", s)
}

const (
	GridSpacing   = 20.0
	GridLineWidth = 0.5

	SelectionColor   = "#0ea5e9"
	SelectionWidth   = 3.0
	SelectionOpacity = 0.8

	// OutlineWidth is the stroke width of closed, fillable shapes.
	OutlineWidth = 2.0
)

// SelectionDash is the on/off pattern of the selection indicator.
var SelectionDash = []float64{5, 5}

// Theme holds the colours that depend on the background mode.
type Theme struct {
	Background string `json:"background"`
	Grid       string `json:"grid"`
	Ink        string `json:"ink"`
}

// ThemeFor returns the theme for a background mode. Unknown modes are dark.
func ThemeFor(bg Background) Theme {
	if bg == BackgroundLight {
		return Theme{Background: "#ffffff", Grid: "#e5e7eb", Ink: "#000000"}
	}
	return Theme{Background: "#0f172a", Grid: "#1e293b", Ink: "#0ea5e9"}
}
