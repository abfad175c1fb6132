// Package export renders shape lists to PNG on the server, using the same
// compiler and rasterizer as the canvas.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/document"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
)

const (
	maxBodySize = 2 << 20 // 2MB
	maxSide     = 4096
)

// Request is the body of POST /api/render. Zero sizes fall back to the
// handler defaults and an empty background to dark.
type Request struct {
	Shapes     []document.Shape `json:"shapes"`
	Markers    []render.Marker  `json:"markers,omitempty"`
	Width      int              `json:"width,omitempty"`
	Height     int              `json:"height,omitempty"`
	Background string           `json:"background,omitempty"`
	Grid       bool             `json:"grid,omitempty"`
}

type Handler struct {
	width, height int
}

func NewHandler(width, height int) *Handler {
	return &Handler{width: width, height: height}
}

// Render handles POST /api/render.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	surface, err := h.Surface(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="canvas.png"`)
	if err := surface.EncodePNG(w); err != nil {
		slog.Error("encode render", "error", err)
	}
}

// Surface validates req and paints it onto a new surface.
func (h *Handler) Surface(req Request) (*render.Surface, error) {
	width, height := req.Width, req.Height
	if width == 0 {
		width = h.width
	}
	if height == 0 {
		height = h.height
	}
	if width < 1 || height < 1 || width > maxSide || height > maxSide {
		return nil, fmt.Errorf("size %dx%d out of range", width, height)
	}

	bg := render.BackgroundDark
	if req.Background != "" {
		var err error
		if bg, err = render.ParseBackground(req.Background); err != nil {
			return nil, err
		}
	}

	model := document.NewModel()
	if err := model.Load(req.Shapes); err != nil {
		return nil, fmt.Errorf("invalid shapes: %w", err)
	}

	surface, err := render.NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	if err := surface.Repaint(render.Scene{
		Shapes: model.Shapes(),
		Theme:  render.ThemeFor(bg),
		Grid:   req.Grid,
	}); err != nil {
		return nil, err
	}
	surface.SetOverlay(render.Markers(req.Markers))
	return surface, nil
}
