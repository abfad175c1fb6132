package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/tdewolff/test"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	test.Error(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newRouter(t *testing.T) (*mux.Router, *DirStore) {
	t.Helper()
	store, err := NewDirStore(t.TempDir())
	test.Error(t, err)
	h := NewHandler(store)
	r := mux.NewRouter()
	r.HandleFunc("/snapshots", h.Upload).Methods("POST")
	r.HandleFunc("/snapshots/{id}", h.Serve).Methods("GET")
	return r, store
}

func TestDirStore(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	test.Error(t, err)

	ctx := context.Background()
	_, err = store.Get(ctx, "snap_missing")
	test.T(t, err, ErrNotFound)

	test.Error(t, store.Put(ctx, "snap_a", []byte("data")))
	got, err := store.Get(ctx, "snap_a")
	test.Error(t, err)
	test.String(t, string(got), "data")
}

func TestUploadAndServe(t *testing.T) {
	r, _ := newRouter(t)
	data := encodePNG(t, 4, 3)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/snapshots", bytes.NewReader(data)))
	test.T(t, rec.Code, http.StatusCreated)

	var resp UploadResponse
	test.Error(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	test.T(t, resp.Width, 4)
	test.T(t, resp.Height, 3)
	test.String(t, resp.URL, "/snapshots/"+resp.ID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", resp.URL, nil))
	test.T(t, rec.Code, http.StatusOK)
	test.T(t, rec.Header().Get("Content-Type"), "image/png")
	test.String(t, rec.Body.String(), string(data))
}

func TestUploadMultipart(t *testing.T) {
	r, _ := newRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "canvas.png")
	test.Error(t, err)
	fw.Write(encodePNG(t, 2, 2))
	test.Error(t, mw.Close())

	req := httptest.NewRequest("POST", "/snapshots", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	test.T(t, rec.Code, http.StatusCreated)
}

func TestUploadRejects(t *testing.T) {
	r, _ := newRouter(t)
	tests := [][]byte{
		nil,
		[]byte("GIF89a not a png"),
	}
	for _, body := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/snapshots", bytes.NewReader(body)))
		test.T(t, rec.Code, http.StatusBadRequest)
	}
}

func TestServeErrors(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/snapshots/not-an-id", nil))
	test.T(t, rec.Code, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/snapshots/shape_01h455vb4pex5vsknk084sn02q", nil))
	test.T(t, rec.Code, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/snapshots/snap_01h455vb4pex5vsknk084sn02q", nil))
	test.T(t, rec.Code, http.StatusNotFound)
}
