package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Handler serves snapshot upload and retrieval endpoints.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Upload handles POST /snapshots. The body is either a raw PNG or a
// multipart form with an "image" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	data, err := ReadImage(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Decode to validate and to report dimensions.
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := typeid.NewSnapshotID()
	if err := h.store.Put(r.Context(), id, data); err != nil {
		slog.Error("store snapshot", "error", err, "id", id)
		http.Error(w, "failed to save snapshot", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:     id,
		URL:    fmt.Sprintf("/snapshots/%s", id),
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// Serve handles GET /snapshots/{id}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := typeid.Validate(id, typeid.PrefixSnapshot); err != nil {
		http.Error(w, "invalid snapshot id", http.StatusBadRequest)
		return
	}

	data, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	} else if err != nil {
		slog.Error("load snapshot", "error", err, "id", id)
		http.Error(w, "failed to load snapshot", http.StatusInternalServerError)
		return
	}

	// Snapshot ids are unique, so stored images are immutable.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// ReadImage returns the PNG carried by r, either as the raw body or as the
// "image" field of a multipart form.
func ReadImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, errors.New("image too large (max 10MB)")
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("missing image field")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("image too large (max 10MB)")
	}
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}
	return data, nil
}
