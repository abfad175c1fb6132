package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/asset"
)

// Handler exposes a Recognizer over HTTP.
type Handler struct {
	r Recognizer
}

func NewHandler(r Recognizer) *Handler {
	return &Handler{r: r}
}

// Analyze handles POST /api/analyze?subject=...
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	png, err := asset.ReadImage(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.r.Analyze(r.Context(), png, r.URL.Query().Get("subject"))
	if err != nil {
		writeError(w, "analyze failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Convert handles POST /api/convert.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	png, err := asset.ReadImage(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.r.Convert(r.Context(), png)
	if err != nil {
		writeError(w, "convert failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrNoImage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "recognition timed out"})
	default:
		slog.Error(msg, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "recognition unavailable"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
