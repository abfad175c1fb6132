package export

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestRender(t *testing.T) {
	h := NewHandler(200, 100)
	body := `{"shapes":[{"kind":"arrow","start":{"x":10,"y":50},"end":{"x":190,"y":50},"color":"#ff0000","strokeSize":4}],"background":"light"}`

	rec := httptest.NewRecorder()
	h.Render(rec, httptest.NewRequest("POST", "/api/render", strings.NewReader(body)))
	test.T(t, rec.Code, http.StatusOK)
	test.T(t, rec.Header().Get("Content-Type"), "image/png")

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 200)
	test.T(t, img.Bounds().Dy(), 100)

	r, g, b, _ := img.At(100, 50).RGBA()
	test.T(t, r>>8, uint32(255))
	test.That(t, g>>8 < 64 && b>>8 < 64, "line is red")

	r, g, b, _ = img.At(100, 10).RGBA()
	test.T(t, [3]uint32{r >> 8, g >> 8, b >> 8}, [3]uint32{255, 255, 255})
}

func TestRenderSize(t *testing.T) {
	h := NewHandler(200, 100)
	s, err := h.Surface(Request{Width: 64, Height: 32})
	test.Error(t, err)
	test.T(t, s.Width(), 64)
	test.T(t, s.Height(), 32)
}

func TestRenderRejects(t *testing.T) {
	h := NewHandler(200, 100)
	tests := []string{
		`not json`,
		`{"width":100000}`,
		`{"background":"sepia"}`,
		`{"shapes":[{"id":"a","kind":"circle"},{"id":"a","kind":"square"}]}`,
		`{"shapes":[{"kind":"hexagon-ish"}]}`,
	}
	for _, body := range tests {
		rec := httptest.NewRecorder()
		h.Render(rec, httptest.NewRequest("POST", "/api/render", strings.NewReader(body)))
		test.T(t, rec.Code, http.StatusBadRequest, body)
	}
}
